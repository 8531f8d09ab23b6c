package form

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coverleaf/go-portal/pkg/schema"
)

func testForm() schema.Form {
	return schema.Form{
		FormID: "health_insurance_application",
		Title:  "Health Insurance Application",
		Fields: []schema.Field{
			{ID: "fullName", Kind: schema.FieldKindText, Label: "Full Name", Required: true},
			{ID: "smoker", Kind: schema.FieldKindRadio, Label: "Smoker", Required: true, Options: []string{"Yes", "No"}},
			{
				ID:        "cigarettesPerDay",
				Kind:      schema.FieldKindNumber,
				Label:     "Cigarettes per day",
				Required:  true,
				DependsOn: &schema.DependsOn{Field: "smoker", Value: "Yes"},
			},
		},
	}
}

type countingSubmitter struct {
	mu      sync.Mutex
	calls   int
	values  []map[string]any
	err     error
	block   chan struct{}
	started chan struct{}
}

func (c *countingSubmitter) Submit(_ context.Context, values map[string]any) error {
	c.mu.Lock()
	c.calls++
	c.values = append(c.values, values)
	block := c.block
	started := c.started
	err := c.err
	c.mu.Unlock()
	if started != nil {
		close(started)
	}
	if block != nil {
		<-block
	}
	return err
}

func (c *countingSubmitter) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestSubmitBlockedByRequiredVisibleField(t *testing.T) {
	t.Parallel()

	sink := &countingSubmitter{}
	session := NewSession(testForm(), sink)
	session.Set("fullName", "Jo Lee")
	// smoker left empty; cigarettesPerDay hidden because smoker is unset.

	err := session.Submit(context.Background())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if sink.callCount() != 0 {
		t.Fatalf("submitter must not be invoked on validation failure")
	}
	if msg, ok := session.FieldError("smoker"); !ok || msg != MessageRequired {
		t.Fatalf("expected required message on smoker, got %q/%v", msg, ok)
	}
	if _, ok := session.FieldError("cigarettesPerDay"); ok {
		t.Fatalf("hidden required field must not carry an error")
	}
	if _, ok := session.FieldError("fullName"); ok {
		t.Fatalf("filled field must not carry an error")
	}
}

func TestHiddenRequiredFieldDoesNotBlockSubmit(t *testing.T) {
	t.Parallel()

	sink := &countingSubmitter{}
	session := NewSession(testForm(), sink)
	session.Set("fullName", "Jo Lee")
	session.Set("smoker", "No") // hides cigarettesPerDay

	if err := session.Submit(context.Background()); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if sink.callCount() != 1 {
		t.Fatalf("expected exactly one submit call, got %d", sink.callCount())
	}
	if session.Status().Kind != StatusSuccess {
		t.Fatalf("expected success status, got %+v", session.Status())
	}
}

func TestSubmitSendsFullSnapshotIncludingHiddenValues(t *testing.T) {
	t.Parallel()

	sink := &countingSubmitter{}
	session := NewSession(testForm(), sink)
	session.Set("fullName", "Jo Lee")
	session.Set("smoker", "Yes")
	session.Set("cigarettesPerDay", "10")
	session.Set("smoker", "No") // cigarettesPerDay is now hidden but keeps its value

	if err := session.Submit(context.Background()); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	want := map[string]any{"fullName": "Jo Lee", "smoker": "No", "cigarettesPerDay": "10"}
	if diff := cmp.Diff(want, sink.values[0]); diff != "" {
		t.Fatalf("unexpected payload (-want +got):\n%s", diff)
	}
}

func TestSuccessResetsStateAndFailureKeepsIt(t *testing.T) {
	t.Parallel()

	sink := &countingSubmitter{err: errors.New("boom")}
	session := NewSession(testForm(), sink)
	session.Set("fullName", "Jo Lee")
	session.Set("smoker", "No")

	if err := session.Submit(context.Background()); err == nil {
		t.Fatalf("expected submit error")
	}
	if session.Status().Kind != StatusError || session.Status().Message != MessageSubmitFailed {
		t.Fatalf("expected generic error banner, got %+v", session.Status())
	}
	if v, _ := session.Value("fullName"); v != "Jo Lee" {
		t.Fatalf("failed submit must keep input state")
	}

	// Retry after clearing the failure.
	sink.err = nil
	if err := session.Submit(context.Background()); err != nil {
		t.Fatalf("retry returned error: %v", err)
	}
	if session.Status().Kind != StatusSuccess {
		t.Fatalf("expected success after retry, got %+v", session.Status())
	}
	if v, ok := session.Value("fullName"); ok && v != nil && v != "" {
		t.Fatalf("successful submit must reset input state, still have %v", v)
	}
}

func TestDismissClearsBanner(t *testing.T) {
	t.Parallel()

	session := NewSession(testForm(), &countingSubmitter{})
	session.Set("fullName", "Jo Lee")
	session.Set("smoker", "No")

	if err := session.Submit(context.Background()); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	session.Dismiss()
	if !session.Status().None() {
		t.Fatalf("expected no banner after dismiss, got %+v", session.Status())
	}
}

func TestSecondSubmitWhilePendingIsRejected(t *testing.T) {
	t.Parallel()

	sink := &countingSubmitter{block: make(chan struct{}), started: make(chan struct{})}
	session := NewSession(testForm(), sink)
	session.Set("fullName", "Jo Lee")
	session.Set("smoker", "No")

	done := make(chan error, 1)
	go func() {
		done <- session.Submit(context.Background())
	}()

	// Wait until the first submit reached the collaborator.
	<-sink.started
	if !session.Submitting() {
		t.Fatalf("expected in-flight submit")
	}

	if err := session.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	close(sink.block)
	if err := <-done; err != nil {
		t.Fatalf("first submit returned error: %v", err)
	}
	if sink.callCount() != 1 {
		t.Fatalf("expected exactly one submit call, got %d", sink.callCount())
	}
}

func TestCompletionAfterCloseIsDiscarded(t *testing.T) {
	t.Parallel()

	sink := &countingSubmitter{block: make(chan struct{}), started: make(chan struct{})}
	session := NewSession(testForm(), sink)
	session.Set("fullName", "Jo Lee")
	session.Set("smoker", "No")

	done := make(chan error, 1)
	go func() {
		done <- session.Submit(context.Background())
	}()
	<-sink.started

	session.Close()
	close(sink.block)

	if err := <-done; !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
	if !session.Status().None() {
		t.Fatalf("closed session must not carry a status banner")
	}
	if err := session.Submit(context.Background()); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed on reuse, got %v", err)
	}
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value any
		want  bool
	}{
		{nil, true},
		{"", true},
		{false, true},
		{"0", false},
		{"No", false},
		{true, false},
		{0.0, false},
	}
	for _, tc := range cases {
		if got := Empty(tc.value); got != tc.want {
			t.Fatalf("Empty(%#v) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestVisibleFieldsFollowInput(t *testing.T) {
	t.Parallel()

	session := NewSession(testForm(), &countingSubmitter{})
	if len(session.VisibleFields()) != 2 {
		t.Fatalf("expected 2 visible fields before any input")
	}
	session.Set("smoker", "Yes")
	if len(session.VisibleFields()) != 3 {
		t.Fatalf("expected dependent field to appear")
	}
	if !session.Visible("cigarettesPerDay") {
		t.Fatalf("cigarettesPerDay should be visible")
	}
	session.Set("smoker", "No")
	if session.Visible("cigarettesPerDay") {
		t.Fatalf("cigarettesPerDay should be hidden again")
	}
}
