package table

import "strings"

// Column is one toggleable table column. The id matches an Application field
// key; the label is derived from the id once and never recomputed. After
// derivation only Visible is user-mutable.
type Column struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Visible bool   `json:"visible"`
}

// defaultColumnIDs is the fixed fallback used before any submissions fetch
// has produced a server-driven column set.
var defaultColumnIDs = []string{"id", "fullName", "age", "insuranceType", "city", "status"}

// HumanizeLabel turns a camelCase column key into a display label: a space
// before each internal uppercase letter, first character capitalized.
// "fullName" becomes "Full Name", "id" becomes "Id".
func HumanizeLabel(id string) string {
	if id == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(id) + 4)
	for i, r := range id {
		if i == 0 {
			b.WriteRune(toUpper(r))
			continue
		}
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

// ColumnsFromKeys derives a Column list from server-reported keys, all
// visible, preserving order. Duplicate and empty keys are dropped.
func ColumnsFromKeys(keys []string) []Column {
	seen := make(map[string]struct{}, len(keys))
	out := make([]Column, 0, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Column{ID: key, Label: HumanizeLabel(key), Visible: true})
	}
	return out
}

// DefaultColumns returns the 6-column fallback, all visible. Callers use it
// for display only; it is never written back into shared column state.
func DefaultColumns() []Column {
	return ColumnsFromKeys(defaultColumnIDs)
}
