package dashscope

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// dumpLimit caps the diagnostic body dump embedded in ShapeError messages.
const dumpLimit = 500

// probe is one candidate field path into the response body. The service's
// JSON shape is not stable across API versions, so probes are tried in fixed
// priority order and the first non-blank match wins.
type probe struct {
	path string
	get  func(body map[string]any) (string, bool)
}

var probes = []probe{
	{"output.choices[0].message.content", func(b map[string]any) (string, bool) {
		return str(field(index(field(b, "output", "choices"), 0), "message", "content"))
	}},
	{"output.text", func(b map[string]any) (string, bool) {
		return str(field(b, "output", "text"))
	}},
	{"choices[0].message.content", func(b map[string]any) (string, bool) {
		return str(field(index(field(b, "choices"), 0), "message", "content"))
	}},
	{"text", func(b map[string]any) (string, bool) {
		return str(field(b, "text"))
	}},
}

// resolveText locates the completion text in an untyped response body.
// A probe whose path exists but holds only blank text does not match; it is
// remembered so the caller can distinguish "recognized but empty"
// (ErrEmptyCompletion) from "unrecognized shape" (ShapeError).
func resolveText(body map[string]any) (string, error) {
	foundBlank := false
	for _, p := range probes {
		text, ok := p.get(body)
		if !ok {
			continue
		}
		if strings.TrimSpace(text) == "" {
			foundBlank = true
			continue
		}
		zap.L().Debug("response shape resolved", zap.String("path", p.path))
		return text, nil
	}
	if foundBlank {
		return "", ErrEmptyCompletion
	}
	return "", &ShapeError{Dump: dump(body)}
}

// dump pretty-prints the body, truncated to dumpLimit characters.
func dump(body map[string]any) string {
	pretty, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return "<unserializable response body>"
	}
	return truncate(string(pretty), dumpLimit)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// field walks nested object keys. Returns nil when any step is missing or
// not an object.
func field(v any, keys ...string) any {
	for _, key := range keys {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v, ok = m[key]
		if !ok {
			return nil
		}
	}
	return v
}

// index selects an array element, or nil when v is not an array of that size.
func index(v any, i int) any {
	s, ok := v.([]any)
	if !ok || i < 0 || i >= len(s) {
		return nil
	}
	return s[i]
}

func str(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
