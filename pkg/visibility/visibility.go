package visibility

import "github.com/coverleaf/go-portal/pkg/schema"

// Evaluator decides whether a field should be shown given the current input
// snapshot. Implementations must be pure: evaluation happens on every input
// change, so it has to stay cheap and side-effect free.
type Evaluator interface {
	Visible(field schema.Field, ctx Context) bool
}

// Context carries the inputs an Evaluator can read. Values maps field ids to
// the raw current input values; Extras lets callers inject auxiliary context
// such as feature flags without widening the interface.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(field schema.Field, ctx Context) bool

// Visible delegates to the underlying function.
func (fn EvaluatorFunc) Visible(field schema.Field, ctx Context) bool {
	return fn(field, ctx)
}

// Default returns the evaluator implementing the portal's dependsOn rule.
func Default() Evaluator {
	return EvaluatorFunc(DependsOnRule)
}

// DependsOnRule is the conditional-visibility rule the remote schema declares:
// a field without a dependsOn clause is always visible; a field with one is
// visible only while the referenced field's bound value strictly equals the
// declared value. Equality is type-aware, so a bool target never matches a
// string input and vice versa. An unset reference simply hides the field; it
// is never an error.
func DependsOnRule(field schema.Field, ctx Context) bool {
	dep := field.DependsOn
	if dep == nil {
		return true
	}

	current, ok := ctx.Values[dep.Field]
	if !ok {
		return false
	}

	switch want := dep.Value.(type) {
	case string:
		got, ok := current.(string)
		return ok && got == want
	case bool:
		got, ok := current.(bool)
		return ok && got == want
	default:
		// Decode restricts dependsOn values to string/bool; anything else is
		// an unmatched rule.
		return false
	}
}
