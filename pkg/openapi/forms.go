// Package openapi maps OpenAPI documents onto portal form schemas, so a
// deployment can describe its application forms in an OpenAPI contract
// instead of the bespoke /forms payload.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/coverleaf/go-portal/pkg/schema"
)

// Extension keys understood on property schemas.
const (
	// extControl forces a control kind ("radio" promotes an enum from the
	// default select rendering).
	extControl = "x-control"
	// extDependsOn declares conditional visibility:
	// {"field": "<sibling>", "value": <string|bool>}.
	extDependsOn = "x-depends-on"
)

// Forms extracts one portal form per POST operation carrying a JSON object
// request body. Properties become fields ordered by name; the OpenAPI
// required list drives the required constraint.
func Forms(ctx context.Context, data []byte) ([]schema.Form, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}

	var forms []schema.Form
	for path, item := range doc.Paths.Map() {
		if item == nil || item.Post == nil {
			continue
		}
		form, ok, err := formFromOperation(path, item.Post)
		if err != nil {
			return nil, err
		}
		if ok {
			forms = append(forms, form)
		}
	}

	// Paths.Map is unordered; keep output deterministic.
	sort.Slice(forms, func(i, j int) bool { return forms[i].FormID < forms[j].FormID })

	if len(forms) == 0 {
		return nil, errors.New("openapi: no form operations extracted")
	}
	return forms, nil
}

func formFromOperation(path string, op *openapi3.Operation) (schema.Form, bool, error) {
	body := requestObjectSchema(op.RequestBody)
	if body == nil {
		return schema.Form{}, false, nil
	}

	formID := op.OperationID
	if formID == "" {
		formID = strings.Trim(strings.ReplaceAll(path, "/", "_"), "_")
	}
	title := op.Summary
	if title == "" {
		title = body.Title
	}
	if title == "" {
		title = formID
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}

	fields := make([]schema.Field, 0, len(names))
	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, err := fieldFromProperty(name, ref.Value)
		if err != nil {
			return schema.Form{}, false, err
		}
		_, field.Required = required[name]
		fields = append(fields, field)
	}

	form := schema.Form{FormID: formID, Title: title, Fields: fields}
	if err := form.Validate(); err != nil {
		return schema.Form{}, false, err
	}
	return form, true, nil
}

func requestObjectSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	mt := body.Value.Content.Get("application/json")
	if mt == nil || mt.Schema == nil || mt.Schema.Value == nil {
		return nil
	}
	value := mt.Schema.Value
	if !value.Type.Is("object") || len(value.Properties) == 0 {
		return nil
	}
	return value
}

func fieldFromProperty(name string, prop *openapi3.Schema) (schema.Field, error) {
	field := schema.Field{ID: name, Label: prop.Title}
	if field.Label == "" {
		field.Label = name
	}

	switch {
	case len(prop.Enum) > 0:
		field.Kind = schema.FieldKindSelect
		if control, _ := prop.Extensions[extControl].(string); control == "radio" {
			field.Kind = schema.FieldKindRadio
		}
		field.Options = make([]string, 0, len(prop.Enum))
		for _, option := range prop.Enum {
			text, ok := option.(string)
			if !ok {
				return schema.Field{}, fmt.Errorf("openapi: field %q has a non-string enum member %v", name, option)
			}
			field.Options = append(field.Options, text)
		}
	case prop.Type.Is("boolean"):
		field.Kind = schema.FieldKindCheckbox
	case prop.Type.Is("integer") || prop.Type.Is("number"):
		field.Kind = schema.FieldKindNumber
	default:
		field.Kind = schema.FieldKindText
	}

	if raw, ok := prop.Extensions[extDependsOn]; ok {
		dep, err := dependsOnFromExtension(name, raw)
		if err != nil {
			return schema.Field{}, err
		}
		field.DependsOn = dep
	}

	return field, nil
}

func dependsOnFromExtension(name string, raw any) (*schema.DependsOn, error) {
	ext, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("openapi: field %q has a malformed %s extension", name, extDependsOn)
	}
	target, _ := ext["field"].(string)
	if target == "" {
		return nil, fmt.Errorf("openapi: field %q %s extension is missing the field reference", name, extDependsOn)
	}
	switch value := ext["value"].(type) {
	case string, bool:
		return &schema.DependsOn{Field: target, Value: value}, nil
	default:
		return nil, fmt.Errorf("openapi: field %q %s extension value must be a string or bool", name, extDependsOn)
	}
}
