// Package portal wires the insurance portal pipeline together: a form source,
// a submit endpoint, a submissions source and a renderer registry. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
package portal

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	"github.com/coverleaf/go-portal/pkg/form"
	"github.com/coverleaf/go-portal/pkg/render"
	"github.com/coverleaf/go-portal/pkg/renderers/html"
	"github.com/coverleaf/go-portal/pkg/schema"
	"github.com/coverleaf/go-portal/pkg/table"
	"github.com/coverleaf/go-portal/pkg/visibility"
)

const defaultRendererName = "html"

// FormSource supplies published form definitions.
type FormSource interface {
	Forms(ctx context.Context) ([]schema.Form, error)
}

// FormSourceFunc adapts a function into a FormSource.
type FormSourceFunc func(ctx context.Context) ([]schema.Form, error)

// Forms delegates to the underlying function.
func (fn FormSourceFunc) Forms(ctx context.Context) ([]schema.Form, error) {
	return fn(ctx)
}

// SubmissionSource supplies the listing behind the submissions table.
type SubmissionSource interface {
	Submissions(ctx context.Context) (table.Submissions, error)
}

// SubmissionSourceFunc adapts a function into a SubmissionSource.
type SubmissionSourceFunc func(ctx context.Context) (table.Submissions, error)

// Submissions delegates to the underlying function.
func (fn SubmissionSourceFunc) Submissions(ctx context.Context) (table.Submissions, error) {
	return fn(ctx)
}

// Option customises the portal configuration.
type Option func(*Portal)

// WithFormSource injects the source of form definitions.
func WithFormSource(source FormSource) Option {
	return func(p *Portal) {
		p.forms = source
	}
}

// WithSubmitter injects the submission endpoint.
func WithSubmitter(submitter form.Submitter) Option {
	return func(p *Portal) {
		p.submitter = submitter
	}
}

// WithSubmissionSource injects the source behind the submissions table.
func WithSubmissionSource(source SubmissionSource) Option {
	return func(p *Portal) {
		p.submissions = source
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(p *Portal) {
		p.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit renderer name.
func WithDefaultRenderer(name string) Option {
	return func(p *Portal) {
		if name != "" {
			p.defaultRenderer = name
		}
	}
}

// WithEvaluator replaces the visibility evaluator used by new sessions.
func WithEvaluator(eval visibility.Evaluator) Option {
	return func(p *Portal) {
		if eval != nil {
			p.evaluator = eval
		}
	}
}

// WithTheme attaches a resolved go-theme configuration that renderers receive
// with every page.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(p *Portal) {
		p.theme = cfg
	}
}

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Portal) {
		p.logger = logger
	}
}

// Portal coordinates the pipeline from form definitions to rendered pages and
// from raw submissions to the tabular view.
type Portal struct {
	forms           FormSource
	submitter       form.Submitter
	submissions     SubmissionSource
	registry        *render.Registry
	defaultRenderer string
	evaluator       visibility.Evaluator
	theme           *theme.RendererConfig
	logger          zerolog.Logger
	initErr         error
}

// New constructs a Portal applying any provided options. When no registry is
// supplied, one holding the built-in HTML renderer is created.
func New(options ...Option) *Portal {
	p := &Portal{
		defaultRenderer: defaultRendererName,
		evaluator:       visibility.Default(),
		logger:          zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	if p.registry == nil {
		p.registry = render.NewRegistry()
		renderer, err := html.New(html.WithEvaluator(p.evaluator))
		if err != nil {
			p.initErr = fmt.Errorf("portal: configure html renderer: %w", err)
		} else {
			p.registry.MustRegister(renderer)
		}
	}
	return p
}

// Forms fetches every published form definition.
func (p *Portal) Forms(ctx context.Context) ([]schema.Form, error) {
	if p.forms == nil {
		return nil, errors.New("portal: form source is not configured")
	}
	forms, err := p.forms.Forms(ctx)
	if err != nil {
		return nil, fmt.Errorf("portal: fetch forms: %w", err)
	}
	return forms, nil
}

// FormsFor returns the forms whose id mentions the given category. The match
// is case-insensitive; an empty category matches nothing.
func (p *Portal) FormsFor(ctx context.Context, category string) ([]schema.Form, error) {
	forms, err := p.Forms(ctx)
	if err != nil {
		return nil, err
	}
	return schema.Filter(forms, category), nil
}

// FormByID fetches a single form definition.
func (p *Portal) FormByID(ctx context.Context, formID string) (schema.Form, error) {
	forms, err := p.Forms(ctx)
	if err != nil {
		return schema.Form{}, err
	}
	for _, f := range forms {
		if f.FormID == formID {
			return f, nil
		}
	}
	return schema.Form{}, fmt.Errorf("portal: form %q not found", formID)
}

// NewSession fetches a form definition and binds it to a fresh input session
// wired to the configured submit endpoint.
func (p *Portal) NewSession(ctx context.Context, formID string, options ...form.SessionOption) (*form.Session, error) {
	if p.submitter == nil {
		return nil, errors.New("portal: submitter is not configured")
	}
	def, err := p.FormByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	opts := append([]form.SessionOption{form.WithEvaluator(p.evaluator)}, options...)
	return form.NewSession(def, p.submitter, opts...), nil
}

// SubmissionsView fetches the submissions listing and loads it into a fresh
// table view. Server-provided columns replace the fallback set; when the
// server omits them the view falls back to the default columns.
func (p *Portal) SubmissionsView(ctx context.Context) (*table.View, error) {
	if p.submissions == nil {
		return nil, errors.New("portal: submission source is not configured")
	}
	subs, err := p.submissions.Submissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("portal: fetch submissions: %w", err)
	}

	view := table.NewView()
	if len(subs.Columns) > 0 {
		view.SetColumns(table.ColumnsFromKeys(subs.Columns))
	}
	view.SetRows(subs.Rows)
	p.logger.Debug().Int("rows", len(subs.Rows)).Msg("built submissions view")
	return view, nil
}

// RenderForm renders a session's current state with the named renderer. An
// empty name selects the default renderer.
func (p *Portal) RenderForm(ctx context.Context, sess *form.Session, rendererName string) ([]byte, error) {
	if sess == nil {
		return nil, errors.New("portal: session is required")
	}
	renderer, err := p.rendererFor(rendererName)
	if err != nil {
		return nil, err
	}
	options := render.PageOptions{
		Values:     sess.Values(),
		Errors:     sess.FieldErrors(),
		Status:     sess.Status(),
		Submitting: sess.Submitting(),
		Theme:      p.theme,
	}
	output, err := renderer.RenderForm(ctx, sess.Form(), options)
	if err != nil {
		return nil, fmt.Errorf("portal: render form: %w", err)
	}
	return output, nil
}

// RenderSubmissions renders the current table snapshot with the named
// renderer.
func (p *Portal) RenderSubmissions(ctx context.Context, view *table.View, rendererName string) ([]byte, error) {
	if view == nil {
		return nil, errors.New("portal: view is required")
	}
	renderer, err := p.rendererFor(rendererName)
	if err != nil {
		return nil, err
	}
	output, err := renderer.RenderSubmissions(ctx, view.Materialize(), render.PageOptions{Theme: p.theme})
	if err != nil {
		return nil, fmt.Errorf("portal: render submissions: %w", err)
	}
	return output, nil
}

// Registry exposes the renderer registry for callers that register their own
// output formats.
func (p *Portal) Registry() *render.Registry {
	return p.registry
}

func (p *Portal) rendererFor(name string) (render.Renderer, error) {
	if p.initErr != nil {
		return nil, p.initErr
	}
	target := name
	if target == "" {
		target = p.defaultRenderer
	}
	renderer, err := p.registry.Get(target)
	if err != nil {
		if name != "" {
			return nil, fmt.Errorf("portal: renderer %q: %w", name, err)
		}
		names := p.registry.Names()
		if len(names) == 0 {
			return nil, errors.New("portal: no renderers registered")
		}
		return p.registry.Get(names[0])
	}
	return renderer, nil
}
