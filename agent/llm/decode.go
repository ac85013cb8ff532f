// Package llm carries the plumbing shared by the capability adapters:
// prompt template rendering and tolerant decoding of model output.
package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
)

// DecodeJSON parses model output into v, tolerating markdown code fences and
// leading prose around the JSON body. A non-nil error means the caller must
// substitute its fallback value; it is never a pipeline failure.
func DecodeJSON(raw string, v any) error {
	body := extractJSON(raw)
	if body == "" {
		return fmt.Errorf("%w: no json body in response", contractx.ErrValidation)
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}
	return nil
}

// extractJSON returns the outermost {...} or [...] span of raw, stripping
// ``` fences first.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndex(s, "}")
	} else {
		end = strings.LastIndex(s, "]")
	}
	if end <= start {
		return ""
	}
	return s[start : end+1]
}

// Render executes a prompt template against data. Prompt templates are
// embedded at build time, so a parse failure is a programming error.
func Render(name, tmpl string, data any) (string, error) {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("%w: parse prompt %s: %v", contractx.ErrValidation, name, err)
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: render prompt %s: %v", contractx.ErrValidation, name, err)
	}
	return b.String(), nil
}

// MustRender is Render for templates known to be well-formed.
func MustRender(name, tmpl string, data any) string {
	out, err := Render(name, tmpl, data)
	if err != nil {
		panic(err)
	}
	return out
}
