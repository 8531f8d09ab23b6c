package portal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/coverleaf/go-portal/pkg/form"
	"github.com/coverleaf/go-portal/pkg/schema"
	"github.com/coverleaf/go-portal/pkg/table"
)

func stubForms() []schema.Form {
	return []schema.Form{
		{
			FormID: "health_insurance_application",
			Title:  "Health Insurance Application",
			Fields: []schema.Field{
				{ID: "fullName", Kind: schema.FieldKindText, Label: "Full Name", Required: true},
				{ID: "age", Kind: schema.FieldKindNumber, Label: "Age"},
			},
		},
		{
			FormID: "home_insurance_application",
			Title:  "Home Insurance Application",
			Fields: []schema.Field{
				{ID: "address", Kind: schema.FieldKindText, Label: "Address", Required: true},
			},
		},
	}
}

func stubPortal(submit form.SubmitterFunc) *Portal {
	if submit == nil {
		submit = func(context.Context, map[string]any) error { return nil }
	}
	return New(
		WithFormSource(FormSourceFunc(func(context.Context) ([]schema.Form, error) {
			return stubForms(), nil
		})),
		WithSubmitter(submit),
		WithSubmissionSource(SubmissionSourceFunc(func(context.Context) (table.Submissions, error) {
			return table.Submissions{
				Columns: []string{"id", "fullName", "status"},
				Rows: []table.Application{
					{ID: "a", FullName: "Ada Lovelace", Status: table.StatusPending},
					{ID: "b", FullName: "Grace Hopper", Status: table.StatusApproved},
				},
			}, nil
		})),
	)
}

func TestFormsForFiltersByCategory(t *testing.T) {
	t.Parallel()

	p := stubPortal(nil)

	forms, err := p.FormsFor(context.Background(), "HEALTH_INSURANCE_APPLICATION")
	if err != nil {
		t.Fatalf("FormsFor() error: %v", err)
	}
	if len(forms) != 1 || forms[0].FormID != "health_insurance_application" {
		t.Fatalf("filtered forms = %+v", forms)
	}

	forms, err = p.FormsFor(context.Background(), "")
	if err != nil {
		t.Fatalf("FormsFor() error: %v", err)
	}
	if len(forms) != 0 {
		t.Fatalf("empty category matched %d forms", len(forms))
	}
}

func TestNewSessionWiresSubmitter(t *testing.T) {
	t.Parallel()

	var got map[string]any
	p := stubPortal(func(_ context.Context, values map[string]any) error {
		got = values
		return nil
	})

	sess, err := p.NewSession(context.Background(), "health_insurance_application")
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	sess.Set("fullName", "Ada Lovelace")
	if err := sess.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if got["fullName"] != "Ada Lovelace" {
		t.Fatalf("submitter received %v", got)
	}
}

func TestNewSessionUnknownForm(t *testing.T) {
	t.Parallel()

	p := stubPortal(nil)
	if _, err := p.NewSession(context.Background(), "missing"); err == nil {
		t.Fatal("expected an error for an unknown form id")
	}
}

func TestSubmissionsViewUsesServerColumns(t *testing.T) {
	t.Parallel()

	p := stubPortal(nil)
	view, err := p.SubmissionsView(context.Background())
	if err != nil {
		t.Fatalf("SubmissionsView() error: %v", err)
	}

	snap := view.Materialize()
	if len(snap.Columns) != 3 || snap.Columns[1].ID != "fullName" {
		t.Fatalf("columns = %+v", snap.Columns)
	}
	if len(snap.Rows) != 2 {
		t.Fatalf("rows = %d", len(snap.Rows))
	}
}

func TestRenderFormDefaultRenderer(t *testing.T) {
	t.Parallel()

	p := stubPortal(nil)
	sess, err := p.NewSession(context.Background(), "health_insurance_application")
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}

	page, err := p.RenderForm(context.Background(), sess, "")
	if err != nil {
		t.Fatalf("RenderForm() error: %v", err)
	}
	if !strings.Contains(string(page), "Health Insurance Application") {
		t.Fatal("rendered page is missing the form title")
	}
}

func TestRenderFormUnknownRenderer(t *testing.T) {
	t.Parallel()

	p := stubPortal(nil)
	sess, err := p.NewSession(context.Background(), "health_insurance_application")
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	if _, err := p.RenderForm(context.Background(), sess, "carrier-pigeon"); err == nil {
		t.Fatal("expected an error for an unknown renderer")
	}
}

func TestFormsSourceErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("backend down")
	p := New(
		WithFormSource(FormSourceFunc(func(context.Context) ([]schema.Form, error) {
			return nil, boom
		})),
		WithSubmitter(form.SubmitterFunc(func(context.Context, map[string]any) error { return nil })),
	)
	if _, err := p.Forms(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Forms() error = %v, want wrapped %v", err, boom)
	}
}
