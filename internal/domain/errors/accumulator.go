package errors

import (
	"slices"
	"strings"
)

// ErrorsPayload is the single error shape returned to clients.
type ErrorsPayload struct {
	Errors []string `json:"errors"`
}

// Accumulator collects human-readable messages so several failures can be reported in one
// response. It is created per request and is not safe for concurrent use.
type Accumulator struct {
	messages []string
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{messages: []string{}}
}

// Add appends a message. Insertion order is the order clients see.
func (a *Accumulator) Add(message string) {
	a.messages = append(a.messages, message)
}

// HasErrors reports whether any message was added.
func (a *Accumulator) HasErrors() bool {
	return len(a.messages) > 0
}

// Messages returns a copy of the collected messages.
func (a *Accumulator) Messages() []string {
	return slices.Clone(a.messages)
}

// Response renders the accumulator in the client-facing shape. Errors is never nil.
func (a *Accumulator) Response() ErrorsPayload {
	msgs := a.Messages()
	if msgs == nil {
		msgs = []string{}
	}

	return ErrorsPayload{Errors: msgs}
}

// Err converts the accumulator into an error classified as kind.
// It returns nil when nothing was added.
func (a *Accumulator) Err(kind *BaseError) error {
	if !a.HasErrors() {
		return nil
	}

	return &AccumulatedError{kind: kind, messages: a.Messages()}
}

// AccumulatedError carries every collected message together with its classification.
type AccumulatedError struct {
	kind     *BaseError
	messages []string
}

// NewAccumulatedError is a shorthand for a single-message accumulator error.
func NewAccumulatedError(kind *BaseError, messages ...string) *AccumulatedError {
	return &AccumulatedError{kind: kind, messages: slices.Clone(messages)}
}

func (e *AccumulatedError) Error() string {
	return strings.Join(e.messages, "; ")
}

// Unwrap exposes the classification so errors.Is(err, ErrConflict) works.
func (e *AccumulatedError) Unwrap() error {
	return e.kind
}

// HTTPCode returns the HTTP status code of the classification.
func (e *AccumulatedError) HTTPCode() int {
	return e.kind.HTTPCode()
}

// ErrorCode returns the business error code of the classification.
func (e *AccumulatedError) ErrorCode() string {
	return e.kind.ErrorCode()
}

// Message returns the first collected message.
func (e *AccumulatedError) Message() string {
	if len(e.messages) == 0 {
		return e.kind.Message()
	}

	return e.messages[0]
}

// Details is empty; every message is already user facing.
func (e *AccumulatedError) Details() string {
	return ""
}

// Messages returns all collected messages in insertion order.
func (e *AccumulatedError) Messages() []string {
	return slices.Clone(e.messages)
}

// Response renders the error in the client-facing shape.
func (e *AccumulatedError) Response() ErrorsPayload {
	msgs := e.Messages()
	if msgs == nil {
		msgs = []string{}
	}

	return ErrorsPayload{Errors: msgs}
}
