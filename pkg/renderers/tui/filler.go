package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/coverleaf/go-portal/pkg/form"
	"github.com/coverleaf/go-portal/pkg/schema"
)

// Filler walks an application form interactively: it prompts for each
// currently visible field, re-evaluating the dependsOn rules after every
// answer so dependent fields appear as soon as their controlling value
// matches, then submits through the session.
type Filler struct {
	driver PromptDriver
}

// FillerOption customises the Filler.
type FillerOption func(*Filler)

// WithDriver replaces the terminal-backed prompt driver. Tests use this to
// script answers.
func WithDriver(driver PromptDriver) FillerOption {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// NewFiller constructs a Filler with the survey-backed driver by default.
func NewFiller(options ...FillerOption) *Filler {
	f := &Filler{driver: NewSurveyDriver()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Fill prompts for the form bound to session and submits it. Validation
// failures re-prompt for the offending fields; a submit failure surfaces the
// session's generic error banner. Aborting any prompt cancels the whole fill.
func (f *Filler) Fill(ctx context.Context, session *form.Session) error {
	if session == nil {
		return fmt.Errorf("tui: session is required")
	}

	def := session.Form()
	if err := f.driver.Info(ctx, def.Title); err != nil {
		return err
	}

	asked := make(map[string]struct{}, len(def.Fields))
	// Answering one field can reveal others, so loop until a pass over the
	// schema asks nothing new.
	for {
		prompted := false
		for _, field := range def.Fields {
			if _, done := asked[field.ID]; done {
				continue
			}
			if !session.Visible(field.ID) {
				continue
			}
			value, err := f.prompt(ctx, field, session)
			if err != nil {
				return err
			}
			session.Set(field.ID, value)
			asked[field.ID] = struct{}{}
			prompted = true
		}
		if !prompted {
			break
		}
	}

	for {
		err := session.Submit(ctx)
		if err == nil {
			return f.driver.Info(ctx, session.Status().Message)
		}
		if !errors.Is(err, form.ErrValidation) {
			if msg := session.Status().Message; msg != "" {
				if infoErr := f.driver.Info(ctx, msg); infoErr != nil {
					return infoErr
				}
			}
			return err
		}
		// Re-prompt only the fields that failed the required check.
		for _, field := range def.Fields {
			if _, blocked := session.FieldError(field.ID); !blocked {
				continue
			}
			value, err := f.prompt(ctx, field, session)
			if err != nil {
				return err
			}
			session.Set(field.ID, value)
		}
	}
}

func (f *Filler) prompt(ctx context.Context, field schema.Field, session *form.Session) (any, error) {
	label := schema.SanitizeLabel(field.Label)
	if label == "" {
		label = field.ID
	}
	if field.Required {
		label += " *"
	}

	current, _ := session.Value(field.ID)

	switch field.Kind {
	case schema.FieldKindCheckbox:
		checked, _ := current.(bool)
		return f.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: checked})
	case schema.FieldKindSelect, schema.FieldKindRadio:
		defaultIndex := 0
		if s, ok := current.(string); ok {
			for i, option := range field.Options {
				if option == s {
					defaultIndex = i
				}
			}
		}
		idx, err := f.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      field.Options,
			DefaultIndex: defaultIndex,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx], nil
	default:
		prefill, _ := current.(string)
		return f.driver.Input(ctx, InputConfig{Message: label, Default: prefill})
	}
}
