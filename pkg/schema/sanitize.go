package schema

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// SanitizeLabel strips markup from server-supplied display text. Form titles,
// field labels, and option values all pass through here before any HTML
// renderer touches them.
func SanitizeLabel(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(labelSanitizer().Sanitize(trimmed))
}

// Sanitize returns a copy of the form with every display string cleaned.
// Field ids and dependsOn targets are identifiers, not display text, and are
// left untouched.
func Sanitize(form Form) Form {
	form.Title = SanitizeLabel(form.Title)

	fields := make([]Field, len(form.Fields))
	for i, field := range form.Fields {
		field.Label = SanitizeLabel(field.Label)
		if len(field.Options) > 0 {
			options := make([]string, len(field.Options))
			for j, option := range field.Options {
				options[j] = SanitizeLabel(option)
			}
			field.Options = options
		}
		fields[i] = field
	}
	form.Fields = fields
	return form
}

func labelSanitizer() *bluemonday.Policy {
	labelPolicyOnce.Do(func() {
		labelPolicy = bluemonday.StrictPolicy()
	})
	return labelPolicy
}
