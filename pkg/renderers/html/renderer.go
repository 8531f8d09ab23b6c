package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/coverleaf/go-portal/pkg/render"
	rendertemplate "github.com/coverleaf/go-portal/pkg/render/template"
	gotemplate "github.com/coverleaf/go-portal/pkg/render/template/gotemplate"
	"github.com/coverleaf/go-portal/pkg/schema"
	"github.com/coverleaf/go-portal/pkg/table"
	"github.com/coverleaf/go-portal/pkg/visibility"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	evaluator        visibility.Evaluator
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithEvaluator replaces the dependsOn evaluator used to decide which
// conditional fields start hidden.
func WithEvaluator(eval visibility.Evaluator) Option {
	return func(cfg *config) {
		if eval != nil {
			cfg.evaluator = eval
		}
	}
}

// Renderer produces server-rendered HTML for the two portal surfaces. Labels
// and titles pass through the schema sanitizer before templating; conditional
// fields carry data-depends attributes so a front-end runtime can re-evaluate
// visibility on input without another round trip.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	evaluator visibility.Evaluator
}

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), evaluator: visibility.Default()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, evaluator: cfg.evaluator}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// RenderForm renders one insurance application form page.
func (r *Renderer) RenderForm(_ context.Context, f schema.Form, options render.PageOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	clean := schema.Sanitize(f)
	ctx := visibility.Context{Values: options.Values}

	fields := make([]map[string]any, 0, len(clean.Fields))
	for _, field := range clean.Fields {
		entry := map[string]any{
			"id":       field.ID,
			"kind":     string(field.Kind),
			"label":    field.Label,
			"required": field.Required,
			"options":  field.Options,
			"visible":  r.evaluator.Visible(field, ctx),
			"value":    valueString(options.Values[field.ID]),
			"checked":  options.Values[field.ID] == true,
			"error":    options.Errors[field.ID],
		}
		if field.DependsOn != nil {
			entry["depends_field"] = field.DependsOn.Field
			entry["depends_value"] = valueString(field.DependsOn.Value)
		}
		fields = append(fields, entry)
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"form":           clean,
		"title":          clean.Title,
		"fields":         fields,
		"action":         options.Action,
		"submitting":     options.Submitting,
		"status_kind":    string(options.Status.Kind),
		"status_message": options.Status.Message,
		"theme_style":    options.ThemeStyle(),
		"theme_class":    options.ThemeClass(),
		"asset_css":      options.AssetURL(AssetKeyStylesheet),
		"asset_js":       options.AssetURL(AssetKeyScript),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render form: %w", err)
	}
	return []byte(result), nil
}

// RenderSubmissions renders the submissions table page, or the explicit
// no-data panel when the snapshot is empty.
func (r *Renderer) RenderSubmissions(_ context.Context, snapshot table.Snapshot, options render.PageOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	rows := make([]map[string]any, 0, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		cells := make([]string, 0, len(snapshot.Columns))
		for _, col := range snapshot.Columns {
			value, _ := row.Get(col.ID)
			cells = append(cells, valueString(value))
		}
		rows = append(rows, map[string]any{"id": row.ID, "cells": cells})
	}

	result, err := r.templates.RenderTemplate("templates/submissions.tmpl", map[string]any{
		"columns":     snapshot.Columns,
		"rows":        rows,
		"empty":       snapshot.Empty,
		"theme_style": options.ThemeStyle(),
		"theme_class": options.ThemeClass(),
		"asset_css":   options.AssetURL(AssetKeyStylesheet),
		"asset_js":    options.AssetURL(AssetKeyScript),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render submissions: %w", err)
	}
	return []byte(result), nil
}

func valueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return trimFloat(v)
	default:
		return fmt.Sprint(v)
	}
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
