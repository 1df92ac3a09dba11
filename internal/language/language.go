// Package language maps file extensions to the human-readable language
// labels used in prompts and code fences.
package language

import "strings"

// DefaultLabel is returned for extensions with no known mapping.
const DefaultLabel = "text"

var byExtension = map[string]string{
	".ts":     "TypeScript",
	".tsx":    "TypeScript",
	".js":     "JavaScript",
	".jsx":    "JavaScript",
	".mjs":    "JavaScript",
	".cjs":    "JavaScript",
	".vue":    "JavaScript",
	".svelte": "JavaScript",
	".py":     "Python",
	".java":   "Java",
	".cpp":    "C++",
	".cc":     "C++",
	".cxx":    "C++",
	".hpp":    "C++",
	".hh":     "C++",
	".c":      "C",
	".h":      "C",
	".go":     "Go",
	".rs":     "Rust",
	".php":    "PHP",
	".rb":     "Ruby",
	".swift":  "Swift",
	".kt":     "Kotlin",
	".kts":    "Kotlin",
}

// Resolve returns the language label for a file extension (including the
// leading dot, e.g. ".ts"). Matching is case-insensitive. Unknown or empty
// extensions resolve to DefaultLabel; Resolve never fails.
func Resolve(ext string) string {
	if label, ok := byExtension[strings.ToLower(ext)]; ok {
		return label
	}
	return DefaultLabel
}
