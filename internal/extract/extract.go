// Package extract recovers source code from loosely structured model output.
//
// Models inconsistently wrap replies: sometimes a fence labeled with the
// language, sometimes a bare fence, sometimes no markup at all. Extraction
// therefore degrades through an ordered list of attempts instead of failing.
package extract

import (
	"regexp"
	"strings"
)

// anyFenceRe matches the first fenced block regardless of label. The label
// token may be any run of word characters or empty; the body capture is
// non-greedy up to the first closing fence on its own line.
var anyFenceRe = regexp.MustCompile("(?s)```\\w*[ \t]*\n(.*?)\n[ \t]*```")

// attempt tries one extraction strategy. ok is false when the strategy does
// not apply to the input.
type attempt func(raw, label string) (body string, ok bool)

// attempts are tried in order; the first match wins. Keep new strategies
// ordered from most to least specific.
var attempts = []attempt{
	labeledFence,
	anyFence,
}

// Code extracts the best-guess code payload from raw model output. It is
// total: when no fence matches, the trimmed input is returned on the
// assumption the model omitted markup entirely.
func Code(raw, label string) string {
	for _, try := range attempts {
		if body, ok := try(raw, label); ok {
			return strings.TrimSpace(body)
		}
	}
	return strings.TrimSpace(raw)
}

// labeledFence matches a fence explicitly labeled with the resolved language,
// case-insensitively.
func labeledFence(raw, label string) (string, bool) {
	if label == "" {
		return "", false
	}
	re, err := regexp.Compile("(?is)```" + regexp.QuoteMeta(label) + "[ \t]*\n(.*?)\n[ \t]*```")
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// anyFence matches the first fenced block with any (or no) label.
func anyFence(raw, _ string) (string, bool) {
	m := anyFenceRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}
