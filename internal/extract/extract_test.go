package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_LabeledFence(t *testing.T) {
	raw := "Here is the commented code:\n```Go\npackage main\n\nfunc main() {}\n```\nHope that helps!"
	assert.Equal(t, "package main\n\nfunc main() {}", Code(raw, "Go"))
}

func TestCode_LabeledFence_CaseInsensitive(t *testing.T) {
	raw := "```go\nfmt.Println(1)\n```"
	assert.Equal(t, "fmt.Println(1)", Code(raw, "Go"))

	raw = "```PYTHON\nprint(1)\n```"
	assert.Equal(t, "print(1)", Code(raw, "Python"))
}

func TestCode_LabeledFencePreferredOverEarlierGenericFence(t *testing.T) {
	raw := "```\nnot this\n```\nand then\n```Rust\nfn main() {}\n```"
	assert.Equal(t, "fn main() {}", Code(raw, "Rust"))
}

func TestCode_GenericFenceFallback(t *testing.T) {
	raw := "Sure!\n```\nconsole.log('hi')\n```"
	assert.Equal(t, "console.log('hi')", Code(raw, "TypeScript"))
}

func TestCode_DifferentlyLabeledFenceFallback(t *testing.T) {
	raw := "```javascript\nlet x = 1\n```"
	assert.Equal(t, "let x = 1", Code(raw, "TypeScript"))
}

func TestCode_NoFenceReturnsTrimmedInput(t *testing.T) {
	raw := "  package main\n\nfunc main() {}\n\n"
	assert.Equal(t, "package main\n\nfunc main() {}", Code(raw, "Go"))
}

func TestCode_NonGreedyStopsAtFirstClosingFence(t *testing.T) {
	raw := "```\nfirst\n```\n```\nsecond\n```"
	assert.Equal(t, "first", Code(raw, "text"))
}

func TestCode_IdempotentOnFencelessOutput(t *testing.T) {
	raw := "plain output with no markup"
	once := Code(raw, "Go")
	assert.Equal(t, once, Code(once, "Go"))
}

func TestCode_LabelWithRegexMetacharacters(t *testing.T) {
	raw := "```C++\nint main() { return 0; }\n```"
	assert.Equal(t, "int main() { return 0; }", Code(raw, "C++"))
}
