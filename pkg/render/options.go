package render

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/coverleaf/go-portal/pkg/form"
)

// PageOptions describe per-request data renderers can use without mutating
// the schema or view state they were handed.
type PageOptions struct {
	// Values pre-populates rendered controls keyed by field id. Renderers also
	// use them to decide which conditional fields start hidden.
	Values map[string]any
	// Errors surfaces field-scoped validation feedback keyed by field id.
	Errors map[string]string
	// Status is the dismissible banner from the submit lifecycle.
	Status form.Status
	// Submitting disables the submit control while a request is in flight.
	Submitting bool
	// Action overrides the form's submit target.
	Action string
	// Theme carries a resolved go-theme configuration; renderers translate
	// its tokens into CSS variables and its variant into a page class.
	Theme *theme.RendererConfig
}

// ThemeStyle renders the theme's CSS variables as an inline style attribute
// value, sorted for deterministic output. Empty when no theme is set.
func (o PageOptions) ThemeStyle() string {
	if o.Theme == nil || len(o.Theme.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(o.Theme.CSSVars))
	for key := range o.Theme.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		name := key
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(o.Theme.CSSVars[key])
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}

// AssetURL resolves an asset key through the theme's resolver. Empty when no
// theme or resolver is configured, or when the resolver does not know the
// key.
func (o PageOptions) AssetURL(key string) string {
	if o.Theme == nil || o.Theme.AssetURL == nil {
		return ""
	}
	return o.Theme.AssetURL(key)
}

// ThemeClass returns the page-level class derived from the theme selection.
func (o PageOptions) ThemeClass() string {
	if o.Theme == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if o.Theme.Theme != "" {
		parts = append(parts, "theme-"+o.Theme.Theme)
	}
	if o.Theme.Variant != "" {
		parts = append(parts, "variant-"+o.Theme.Variant)
	}
	return strings.Join(parts, " ")
}
