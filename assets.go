package portal

import (
	"io/fs"

	"github.com/coverleaf/go-portal/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in HTML renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// AssetsFS exposes the browser runtime (conditional visibility, banner
// dismissal, row drag and drop) so applications can serve it without a
// frontend build step.
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
