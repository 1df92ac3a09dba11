package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_KnownExtensions(t *testing.T) {
	cases := map[string]string{
		".ts":    "TypeScript",
		".tsx":   "TypeScript",
		".js":    "JavaScript",
		".jsx":   "JavaScript",
		".py":    "Python",
		".java":  "Java",
		".cpp":   "C++",
		".cc":    "C++",
		".c":     "C",
		".h":     "C",
		".go":    "Go",
		".rs":    "Rust",
		".php":   "PHP",
		".rb":    "Ruby",
		".swift": "Swift",
		".kt":    "Kotlin",
	}
	for ext, want := range cases {
		assert.Equal(t, want, Resolve(ext), "extension %s", ext)
	}
}

func TestResolve_CaseInsensitive(t *testing.T) {
	assert.Equal(t, "TypeScript", Resolve(".TS"))
	assert.Equal(t, "Python", Resolve(".Py"))
	assert.Equal(t, "Go", Resolve(".GO"))
}

func TestResolve_UnknownFallsBackToText(t *testing.T) {
	assert.Equal(t, DefaultLabel, Resolve(".xyz"))
	assert.Equal(t, DefaultLabel, Resolve(".md"))
	assert.Equal(t, DefaultLabel, Resolve(""))
	assert.Equal(t, DefaultLabel, Resolve("go")) // missing leading dot
}
