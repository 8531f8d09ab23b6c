package openapi

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/coverleaf/go-portal/pkg/schema"
)

const sampleDocument = `
openapi: 3.0.3
info:
  title: Portal Forms
  version: "1.0"
paths:
  /applications/health:
    post:
      operationId: health-application
      summary: Health Insurance Application
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [fullName, age]
              properties:
                fullName:
                  type: string
                  title: Full Name
                age:
                  type: number
                  title: Age
                smoker:
                  type: string
                  title: Do you smoke?
                  enum: ["Yes", "No"]
                  x-control: radio
                cigarettesPerDay:
                  type: number
                  title: Cigarettes per day
                  x-depends-on:
                    field: smoker
                    value: "Yes"
      responses:
        "200":
          description: accepted
  /applications/home:
    post:
      operationId: home-application
      summary: Home Insurance Application
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [address]
              properties:
                address:
                  type: string
                  title: Address
                coverage:
                  type: string
                  title: Coverage Tier
                  enum: [Basic, Full]
                furnished:
                  type: boolean
                  title: Furnished
      responses:
        "200":
          description: accepted
  /applications:
    get:
      operationId: list-applications
      responses:
        "200":
          description: listing
`

func TestFormsFromDocument(t *testing.T) {
	t.Parallel()

	forms, err := Forms(context.Background(), []byte(sampleDocument))
	if err != nil {
		t.Fatalf("Forms() error: %v", err)
	}

	want := []schema.Form{
		{
			FormID: "health-application",
			Title:  "Health Insurance Application",
			Fields: []schema.Field{
				{ID: "age", Kind: schema.FieldKindNumber, Label: "Age", Required: true},
				{
					ID:        "cigarettesPerDay",
					Kind:      schema.FieldKindNumber,
					Label:     "Cigarettes per day",
					DependsOn: &schema.DependsOn{Field: "smoker", Value: "Yes"},
				},
				{ID: "fullName", Kind: schema.FieldKindText, Label: "Full Name", Required: true},
				{
					ID:      "smoker",
					Kind:    schema.FieldKindRadio,
					Label:   "Do you smoke?",
					Options: []string{"Yes", "No"},
				},
			},
		},
		{
			FormID: "home-application",
			Title:  "Home Insurance Application",
			Fields: []schema.Field{
				{ID: "address", Kind: schema.FieldKindText, Label: "Address", Required: true},
				{
					ID:      "coverage",
					Kind:    schema.FieldKindSelect,
					Label:   "Coverage Tier",
					Options: []string{"Basic", "Full"},
				},
				{ID: "furnished", Kind: schema.FieldKindCheckbox, Label: "Furnished"},
			},
		},
	}
	if diff := cmp.Diff(want, forms); diff != "" {
		t.Fatalf("extracted forms mismatch (-want +got):\n%s", diff)
	}
}

func TestFormsFromFSSource(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"openapi.yaml": &fstest.MapFile{Data: []byte(sampleDocument)},
	}

	forms, err := FormsFromSource(context.Background(), SourceFromFS("openapi.yaml"), WithFileSystem(fsys))
	if err != nil {
		t.Fatalf("FormsFromSource() error: %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("forms = %d, want 2", len(forms))
	}
}

func TestFormsFromURLSourceRequiresClient(t *testing.T) {
	t.Parallel()

	if _, err := FormsFromSource(context.Background(), SourceFromURL("http://localhost/openapi.yaml")); err == nil {
		t.Fatal("expected an error without an http client")
	}
}

func TestFormsRejectsEmptyDocument(t *testing.T) {
	t.Parallel()

	if _, err := Forms(context.Background(), nil); err == nil {
		t.Fatal("expected an error for an empty document")
	}
}

func TestFormsRejectsNonStringEnum(t *testing.T) {
	t.Parallel()

	const doc = `
openapi: 3.0.3
info:
  title: Portal Forms
  version: "1.0"
paths:
  /applications/auto:
    post:
      operationId: auto-application
      summary: Auto Insurance Application
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                doors:
                  type: number
                  enum: [2, 4]
      responses:
        "200":
          description: accepted
`
	if _, err := Forms(context.Background(), []byte(doc)); err == nil {
		t.Fatal("expected an error for a numeric enum")
	}
}
