// Package prompt assembles the annotation instruction sent to the model.
package prompt

import "fmt"

// template is the fixed instruction block. The fence label must match what
// the extractor searches for, so Build and extract.Code take the same
// language label.
const template = `Please add inline comments to the following %s code.

Requirements:
1. Add a comment for every function, class, and method explaining what it does
2. Add comments for complex or non-obvious inline logic
3. Keep comments clear and concise
4. Preserve the original code formatting exactly
5. Return ONLY the commented code, with no extra explanation or prose

` + "```%s\n%s\n```"

// Build returns the annotation prompt for the given source text and language
// label. Deterministic: identical inputs produce identical output.
func Build(source, label string) string {
	return fmt.Sprintf(template, label, label, source)
}
