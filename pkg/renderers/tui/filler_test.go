package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/coverleaf/go-portal/pkg/form"
	"github.com/coverleaf/go-portal/pkg/schema"
)

type scriptedDriver struct {
	inputs   []string
	selects  []int
	confirms []bool
	infos    []string
}

func (d *scriptedDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("scripted driver: no input queued")
	}
	out := d.inputs[0]
	d.inputs = d.inputs[1:]
	return out, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, errors.New("scripted driver: no confirm queued")
	}
	out := d.confirms[0]
	d.confirms = d.confirms[1:]
	return out, nil
}

func (d *scriptedDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return 0, errors.New("scripted driver: no select queued")
	}
	out := d.selects[0]
	d.selects = d.selects[1:]
	return out, nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func fillForm() schema.Form {
	return schema.Form{
		FormID: "health_insurance_application",
		Title:  "Health Insurance Application",
		Fields: []schema.Field{
			{ID: "fullName", Kind: schema.FieldKindText, Label: "Full Name", Required: true},
			{ID: "smoker", Kind: schema.FieldKindRadio, Label: "Smoker", Required: true, Options: []string{"Yes", "No"}},
			{
				ID:        "cigarettesPerDay",
				Kind:      schema.FieldKindNumber,
				Label:     "Cigarettes per day",
				Required:  true,
				DependsOn: &schema.DependsOn{Field: "smoker", Value: "Yes"},
			},
		},
	}
}

func TestFillPromptsDependentFieldWhenRevealed(t *testing.T) {
	t.Parallel()

	var got map[string]any
	submitter := form.SubmitterFunc(func(_ context.Context, values map[string]any) error {
		got = values
		return nil
	})

	driver := &scriptedDriver{
		inputs:  []string{"Jo Lee", "10"}, // fullName, then the revealed cigarettesPerDay
		selects: []int{0},                 // smoker = Yes
	}
	session := form.NewSession(fillForm(), submitter)

	filler := NewFiller(WithDriver(driver))
	if err := filler.Fill(context.Background(), session); err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}

	if got["fullName"] != "Jo Lee" || got["smoker"] != "Yes" || got["cigarettesPerDay"] != "10" {
		t.Fatalf("unexpected submitted values: %v", got)
	}
	if len(driver.infos) == 0 || driver.infos[len(driver.infos)-1] != form.MessageSubmitted {
		t.Fatalf("expected success message, got %v", driver.infos)
	}
}

func TestFillSkipsHiddenDependentField(t *testing.T) {
	t.Parallel()

	var got map[string]any
	submitter := form.SubmitterFunc(func(_ context.Context, values map[string]any) error {
		got = values
		return nil
	})

	driver := &scriptedDriver{
		inputs:  []string{"Jo Lee"},
		selects: []int{1}, // smoker = No, dependent field stays hidden
	}
	session := form.NewSession(fillForm(), submitter)

	filler := NewFiller(WithDriver(driver))
	if err := filler.Fill(context.Background(), session); err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}
	if _, asked := got["cigarettesPerDay"]; asked {
		t.Fatalf("hidden field must not be prompted: %v", got)
	}
}

func TestFillSurfacesSubmitFailure(t *testing.T) {
	t.Parallel()

	submitter := form.SubmitterFunc(func(context.Context, map[string]any) error {
		return errors.New("boom")
	})

	driver := &scriptedDriver{
		inputs:  []string{"Jo Lee"},
		selects: []int{1},
	}
	session := form.NewSession(fillForm(), submitter)

	filler := NewFiller(WithDriver(driver))
	err := filler.Fill(context.Background(), session)
	if err == nil {
		t.Fatalf("expected submit failure to propagate")
	}
	found := false
	for _, msg := range driver.infos {
		if msg == form.MessageSubmitFailed {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected generic failure message, got %v", driver.infos)
	}
}
