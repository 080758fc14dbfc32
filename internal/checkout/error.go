package checkout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// -- Preconditions --
	ErrEmptyCart        = errors.New("cart is empty")
	ErrAlreadySubmitted = errors.New("order already submitted")
	ErrSubmitInFlight   = errors.New("submission already in progress")

	// -- Transitions --
	ErrConfirmIsFinal = errors.New("confirm is the last step, submit the order")
	ErrNotConfirmStep = errors.New("submission is only allowed from the confirm step")
)

// FieldErrors maps a failed form field to its display message. It is fully
// recoverable by user correction and never logged as a system error.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return "invalid fields: " + strings.Join(parts, ", ")
}
