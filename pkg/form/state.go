package form

// State holds the raw input values of one rendered form, keyed by field id.
// Values are strings, numbers, or bools depending on the field kind. State is
// session-lifetime only; it is reset on successful submit and discarded when
// the session closes.
type State struct {
	values map[string]any
}

// NewState seeds the state with optional prefilled values.
func NewState(prefill map[string]any) *State {
	return &State{values: cloneValues(prefill)}
}

// Set binds a raw input value to a field id.
func (s *State) Set(fieldID string, value any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[fieldID] = value
}

// Value returns the value currently bound to a field id.
func (s *State) Value(fieldID string) (any, bool) {
	value, ok := s.values[fieldID]
	return value, ok
}

// Snapshot returns a copy of every bound value, including values of fields
// that are currently hidden by a dependsOn rule. The submit payload is built
// from this full snapshot; hidden values are not purged.
func (s *State) Snapshot() map[string]any {
	return cloneValues(s.values)
}

// Reset drops every bound value.
func (s *State) Reset() {
	s.values = make(map[string]any)
}

// Empty reports whether a raw input value counts as "not filled in" for the
// required constraint: unset, an empty string, or an unchecked checkbox.
func Empty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	default:
		return false
	}
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
