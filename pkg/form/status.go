package form

// StatusKind tags the submit-lifecycle banner state.
type StatusKind string

const (
	StatusNone    StatusKind = ""
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Messages shown in the status banner and next to invalid fields. Submission
// failures deliberately carry no structured cause: the engine only
// distinguishes success from failure.
const (
	MessageSubmitted    = "Form submitted successfully!"
	MessageSubmitFailed = "An error occurred while submitting the form. Please try again."
	MessageRequired     = "This field is required"
)

// Status is the dismissible banner value a rendered form displays after a
// submit attempt.
type Status struct {
	Kind    StatusKind
	Message string
}

// None reports whether no banner should be shown.
func (s Status) None() bool {
	return s.Kind == StatusNone
}
