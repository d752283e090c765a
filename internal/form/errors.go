package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownField     = errors.New("unknown form field")
	ErrIndexOutOfRange  = errors.New("image index out of range")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrImagesPending    = errors.New("images still decoding")
)

// CapacityError rejects an image batch that would overflow the collection.
type CapacityError struct {
	Max       int
	Current   int
	Requested int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("maximum %d photos: have %d, adding %d", e.Max, e.Current, e.Requested)
}

// ValidationError carries the failing required-field rules of a submit attempt.
type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Errors.Fields(), ", ")
}

// SubmissionError wraps a backend failure. The form keeps its state so the
// user can retry.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission rejected: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Errors maps a field name to the message of its failing rule.
type Errors map[string]string

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for k := range e {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
