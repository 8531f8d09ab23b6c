package render

import (
	"context"

	"github.com/coverleaf/go-portal/pkg/schema"
	"github.com/coverleaf/go-portal/pkg/table"
)

// Renderer converts portal pages into a byte representation (HTML, text,
// etc.). A renderer covers both surfaces the portal serves: application forms
// and the submissions table.
type Renderer interface {
	Name() string
	ContentType() string
	RenderForm(ctx context.Context, form schema.Form, options PageOptions) ([]byte, error)
	RenderSubmissions(ctx context.Context, snapshot table.Snapshot, options PageOptions) ([]byte, error)
}
