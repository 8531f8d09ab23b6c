package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldKind is the enum of input kinds the remote form API can declare.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindNumber   FieldKind = "number"
	FieldKindSelect   FieldKind = "select"
	FieldKindRadio    FieldKind = "radio"
	FieldKindCheckbox FieldKind = "checkbox"
)

// Valid reports whether the kind is one of the declared enum members.
func (k FieldKind) Valid() bool {
	switch k {
	case FieldKindText, FieldKindNumber, FieldKindSelect, FieldKindRadio, FieldKindCheckbox:
		return true
	}
	return false
}

// HasOptions reports whether fields of this kind carry an options list.
func (k FieldKind) HasOptions() bool {
	return k == FieldKindSelect || k == FieldKindRadio
}

// DependsOn declares a conditional-visibility rule: the owning field is shown
// only while the referenced field's current value equals Value. Value is a
// string or a bool, matching the JSON the remote API emits.
type DependsOn struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// UnmarshalJSON restricts Value to the string/bool payloads the API declares.
func (d *DependsOn) UnmarshalJSON(data []byte) error {
	type alias struct {
		Field string          `json:"field"`
		Value json.RawMessage `json:"value"`
	}

	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw.Field) == "" {
		return fmt.Errorf("schema: dependsOn missing field reference")
	}
	if len(raw.Value) == 0 {
		return fmt.Errorf("schema: dependsOn %q missing value", raw.Field)
	}

	var value any
	if err := json.Unmarshal(raw.Value, &value); err != nil {
		return err
	}
	switch value.(type) {
	case string, bool:
	default:
		return fmt.Errorf("schema: dependsOn %q value must be a string or bool, got %T", raw.Field, value)
	}

	d.Field = raw.Field
	d.Value = value
	return nil
}

// Field models a single input declared by the remote form schema. Instances
// are immutable once decoded; a rendered form session never mutates them.
type Field struct {
	ID        string     `json:"id"`
	Kind      FieldKind  `json:"type"`
	Label     string     `json:"label"`
	Required  bool       `json:"required"`
	Options   []string   `json:"options,omitempty"`
	DependsOn *DependsOn `json:"dependsOn,omitempty"`
}

// Conditional reports whether the field carries a visibility rule.
func (f Field) Conditional() bool {
	return f.DependsOn != nil
}

// Form is one server-declared insurance application form. Several forms may
// share a FormID; callers render every form matching a requested category.
type Form struct {
	FormID string  `json:"formId"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Matches reports whether the form belongs to the given insurance category.
// Categories compare case-insensitively, mirroring the portal's routing.
func (f Form) Matches(category string) bool {
	if f.FormID == "" || category == "" {
		return false
	}
	return strings.EqualFold(f.FormID, category)
}

// FieldByID returns the declared field with the given id.
func (f Form) FieldByID(id string) (Field, bool) {
	for _, field := range f.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// Validate checks structural invariants: non-empty unique field ids, options
// present exactly on select/radio fields, and dependsOn references that point
// at another field in the same form.
func (f Form) Validate() error {
	if strings.TrimSpace(f.FormID) == "" {
		return fmt.Errorf("schema: form %q missing formId", f.Title)
	}

	seen := make(map[string]struct{}, len(f.Fields))
	for _, field := range f.Fields {
		if strings.TrimSpace(field.ID) == "" {
			return fmt.Errorf("schema: form %q has a field without an id", f.FormID)
		}
		if _, dup := seen[field.ID]; dup {
			return fmt.Errorf("schema: form %q declares field %q twice", f.FormID, field.ID)
		}
		seen[field.ID] = struct{}{}

		if !field.Kind.Valid() {
			return fmt.Errorf("schema: field %q has unknown kind %q", field.ID, field.Kind)
		}
		if field.Kind.HasOptions() && len(field.Options) == 0 {
			return fmt.Errorf("schema: field %q of kind %q requires options", field.ID, field.Kind)
		}
		if !field.Kind.HasOptions() && len(field.Options) > 0 {
			return fmt.Errorf("schema: field %q of kind %q must not declare options", field.ID, field.Kind)
		}
	}

	for _, field := range f.Fields {
		dep := field.DependsOn
		if dep == nil {
			continue
		}
		if dep.Field == field.ID {
			return fmt.Errorf("schema: field %q depends on itself", field.ID)
		}
		if _, ok := seen[dep.Field]; !ok {
			return fmt.Errorf("schema: field %q depends on unknown field %q", field.ID, dep.Field)
		}
	}

	return nil
}

// Decode parses the remote /forms payload into validated forms.
func Decode(data []byte) ([]Form, error) {
	var forms []Form
	if err := json.Unmarshal(data, &forms); err != nil {
		return nil, fmt.Errorf("schema: decode forms: %w", err)
	}
	for _, form := range forms {
		if err := form.Validate(); err != nil {
			return nil, err
		}
	}
	return forms, nil
}

// Filter returns the forms matching the requested category, in schema order.
func Filter(forms []Form, category string) []Form {
	var out []Form
	for _, form := range forms {
		if form.Matches(category) {
			out = append(out, form)
		}
	}
	return out
}
