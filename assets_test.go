package portal

import (
	"io/fs"
	"strings"
	"testing"
)

func TestAssetsFSContainsBrowserRuntime(t *testing.T) {
	fsys := AssetsFS()
	data, err := fs.ReadFile(fsys, "portal.js")
	if err != nil {
		t.Fatalf("expected runtime bundle to be readable: %v", err)
	}
	if !strings.Contains(string(data), "data-depends-field") {
		t.Fatalf("expected runtime bundle to handle conditional fields")
	}
}

func TestEmbeddedTemplatesContainFormPage(t *testing.T) {
	fsys := EmbeddedTemplates()
	if _, err := fs.ReadFile(fsys, "templates/form.tmpl"); err != nil {
		t.Fatalf("expected form template to be readable: %v", err)
	}
}
