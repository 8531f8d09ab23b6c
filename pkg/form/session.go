package form

import (
	"context"
	"errors"
	"sync"

	"github.com/coverleaf/go-portal/pkg/schema"
	"github.com/coverleaf/go-portal/pkg/visibility"
)

var (
	// ErrValidation reports that a submit attempt was blocked locally. The
	// per-field messages are available through FieldError; nothing reached the
	// submit collaborator.
	ErrValidation = errors.New("form: validation failed")
	// ErrSubmitInFlight reports that a submit was rejected because another one
	// for the same session has not completed yet.
	ErrSubmitInFlight = errors.New("form: submit already in flight")
	// ErrSessionClosed reports use of a session after Close.
	ErrSessionClosed = errors.New("form: session closed")
)

// Submitter delivers a completed snapshot to the external submission
// endpoint. Failure carries no structured reason into the session; any error
// means the generic submit-failed banner.
type Submitter interface {
	Submit(ctx context.Context, values map[string]any) error
}

// SubmitterFunc adapts a function into a Submitter.
type SubmitterFunc func(ctx context.Context, values map[string]any) error

// Submit delegates to the underlying function.
func (fn SubmitterFunc) Submit(ctx context.Context, values map[string]any) error {
	return fn(ctx, values)
}

// Session binds one rendered form to live input state and drives the submit
// lifecycle: idle, submitting, success or error, dismiss. At most one submit
// is in flight per session; concurrent attempts are rejected without touching
// the collaborator.
type Session struct {
	form      schema.Form
	submitter Submitter
	evaluator visibility.Evaluator

	mu        sync.Mutex
	state     *State
	status    Status
	fieldErrs map[string]string
	inFlight  bool
	closed    bool
}

// SessionOption customises a Session at construction time.
type SessionOption func(*Session)

// WithEvaluator replaces the default dependsOn visibility evaluator.
func WithEvaluator(eval visibility.Evaluator) SessionOption {
	return func(s *Session) {
		if eval != nil {
			s.evaluator = eval
		}
	}
}

// WithPrefill seeds the input state before the first render.
func WithPrefill(values map[string]any) SessionOption {
	return func(s *Session) {
		s.state = NewState(values)
	}
}

// NewSession creates a session for one form instance.
func NewSession(form schema.Form, submitter Submitter, options ...SessionOption) *Session {
	s := &Session{
		form:      form,
		submitter: submitter,
		evaluator: visibility.Default(),
		state:     NewState(nil),
		fieldErrs: make(map[string]string),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Form returns the immutable schema the session renders.
func (s *Session) Form() schema.Form {
	return s.form
}

// Set binds a raw input value to a field id.
func (s *Session) Set(fieldID string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.state.Set(fieldID, value)
}

// Value returns the value currently bound to a field id.
func (s *Session) Value(fieldID string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Value(fieldID)
}

// Values returns a copy of the full input snapshot.
func (s *Session) Values() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// Visible reports whether a field is currently shown. Unknown ids are not
// visible.
func (s *Session) Visible(fieldID string) bool {
	field, ok := s.form.FieldByID(fieldID)
	if !ok {
		return false
	}
	s.mu.Lock()
	values := s.state.Snapshot()
	s.mu.Unlock()
	return s.evaluator.Visible(field, visibility.Context{Values: values})
}

// VisibleFields returns the fields currently shown, in schema order.
func (s *Session) VisibleFields() []schema.Field {
	s.mu.Lock()
	values := s.state.Snapshot()
	s.mu.Unlock()

	ctx := visibility.Context{Values: values}
	var out []schema.Field
	for _, field := range s.form.Fields {
		if s.evaluator.Visible(field, ctx) {
			out = append(out, field)
		}
	}
	return out
}

// Validate runs the required constraint over the currently visible fields and
// returns the field-scoped error messages. Hidden fields are exempt even when
// their declared constraint is required.
func (s *Session) Validate() map[string]string {
	s.mu.Lock()
	values := s.state.Snapshot()
	s.mu.Unlock()
	return s.validate(values)
}

func (s *Session) validate(values map[string]any) map[string]string {
	ctx := visibility.Context{Values: values}
	errs := make(map[string]string)
	for _, field := range s.form.Fields {
		if !field.Required {
			continue
		}
		if !s.evaluator.Visible(field, ctx) {
			continue
		}
		if Empty(values[field.ID]) {
			errs[field.ID] = MessageRequired
		}
	}
	return errs
}

// Submit runs the submit lifecycle: clear prior status, validate the visible
// fields, and if they pass deliver the full snapshot to the collaborator.
// Success resets the input state; failure keeps it so the user can edit and
// retry. Completions arriving after Close are discarded.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.inFlight {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}

	s.status = Status{}
	values := s.state.Snapshot()
	errs := s.validate(values)
	if len(errs) > 0 {
		s.fieldErrs = errs
		s.mu.Unlock()
		return ErrValidation
	}
	s.fieldErrs = make(map[string]string)
	s.inFlight = true
	s.mu.Unlock()

	err := s.submitter.Submit(ctx, values)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if s.closed {
		// The form was torn down while the submit was in flight; the result
		// must not write into released state.
		return ErrSessionClosed
	}
	if err != nil {
		s.status = Status{Kind: StatusError, Message: MessageSubmitFailed}
		return err
	}
	s.status = Status{Kind: StatusSuccess, Message: MessageSubmitted}
	s.state.Reset()
	return nil
}

// Submitting reports whether a submit is currently in flight.
func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Status returns the current banner value.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// FieldError returns the validation message attached to a field, if any.
func (s *Session) FieldError(fieldID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.fieldErrs[fieldID]
	return msg, ok
}

// FieldErrors returns a copy of every field-scoped validation message.
func (s *Session) FieldErrors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.fieldErrs))
	for k, v := range s.fieldErrs {
		out[k] = v
	}
	return out
}

// Dismiss clears the status banner. It is available at any point in the
// lifecycle, independent of in-flight submits.
func (s *Session) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = Status{}
}

// Close tears the session down. Later completions and mutations become
// no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.state = NewState(nil)
	s.status = Status{}
	s.fieldErrs = make(map[string]string)
}
