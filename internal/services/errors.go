package services

import (
	"errors"
	"fmt"
)

// Standard service errors
var (
	// Data errors
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input provided")
	ErrInvalidFormat = errors.New("invalid format")

	// Domain errors
	ErrTagNotFound      = fmt.Errorf("tag %w", ErrNotFound)
	ErrViewNotFound     = fmt.Errorf("view %w", ErrNotFound)
	ErrMessageNotFound  = fmt.Errorf("message %w", ErrNotFound)
	ErrInvalidCondition = fmt.Errorf("%w: unknown condition type", ErrInvalidInput)
	ErrTagNotOnMessage  = fmt.Errorf("%w: message does not carry tag", ErrInvalidInput)
	ErrNothingToUndo    = errors.New("no action to undo")
)

// ValidationReason identifies why a tag failed validation
type ValidationReason string

const (
	ReasonEmpty               ValidationReason = "empty"
	ReasonTooShort            ValidationReason = "too_short"
	ReasonTooLong             ValidationReason = "too_long"
	ReasonDuplicate           ValidationReason = "duplicate"
	ReasonTooManyInstructions ValidationReason = "too_many_instructions"
)

// ValidationError is returned for user input that fails tag validation.
// Message is suitable for showing inline next to the input.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes every ValidationError match ErrInvalidInput
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ValidationReasonOf extracts the reason from err, or "" if err is not a ValidationError
func ValidationReasonOf(err error) ValidationReason {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ""
}

// IsNotFound reports whether err is any not-found outcome
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
