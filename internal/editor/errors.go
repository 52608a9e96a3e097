package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/gantry/internal/model"
)

// Code categorizes a rejected submission.
type Code string

const (
	// CodeRequiredFields indicates a blank name, status, start or end.
	CodeRequiredFields Code = "REQUIRED_FIELDS"

	// CodeInvalidDate indicates a date that is not YYYY-MM-DD.
	CodeInvalidDate Code = "INVALID_DATE"

	// CodeInvalidStatus indicates a status outside the known set.
	CodeInvalidStatus Code = "INVALID_STATUS"

	// CodeEndBeforeStart indicates an end date on or before the start date.
	CodeEndBeforeStart Code = "END_BEFORE_START"

	// CodeOverlap indicates the interval collides with another order on
	// the same work center.
	CodeOverlap Code = "OVERLAP"

	// CodeNotFound indicates an edit of an order that does not exist.
	CodeNotFound Code = "NOT_FOUND"
)

// Codes lists every rejection code.
var Codes = []Code{
	CodeRequiredFields,
	CodeInvalidDate,
	CodeInvalidStatus,
	CodeEndBeforeStart,
	CodeOverlap,
	CodeNotFound,
}

const (
	msgRequired       = "Please fill in all required fields."
	msgEndBeforeStart = "End date must be after start date."
	msgOverlap        = "This work order overlaps with an existing order on the same work center. Please adjust the dates."
)

// ValidationError is returned when a submission is rejected.
// Nothing is written to the store when it is returned.
type ValidationError struct {
	// Code identifies the rule that failed.
	Code Code

	// Message is the user-facing text.
	Message string

	// Field names the offending form field, when there is one.
	Field string

	// Conflicts holds the orders an OVERLAP collides with.
	Conflicts []model.WorkOrder
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Conflicts) > 0 {
		ids := make([]string, len(e.Conflicts))
		for i, c := range e.Conflicts {
			ids[i] = c.ID
		}
		return fmt.Sprintf("%s: %s (conflicts=%s)", e.Code, e.Message, strings.Join(ids, ","))
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf returns the rejection code carried by err, or "" when err is not
// a ValidationError. Uses errors.As to handle wrapped errors.
func CodeOf(err error) Code {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

// IsOverlap returns true if err rejects a submission for overlapping.
func IsOverlap(err error) bool {
	return CodeOf(err) == CodeOverlap
}

// IsNotFound returns true if err rejects an edit of an unknown order.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

func requiredError(field string) *ValidationError {
	return &ValidationError{Code: CodeRequiredFields, Message: msgRequired, Field: field}
}

func dateError(field, value string) *ValidationError {
	return &ValidationError{
		Code:    CodeInvalidDate,
		Message: fmt.Sprintf("Invalid %s %q: use YYYY-MM-DD.", strings.ReplaceAll(field, "_", " "), value),
		Field:   field,
	}
}

func statusError(value string) *ValidationError {
	return &ValidationError{
		Code:    CodeInvalidStatus,
		Message: fmt.Sprintf("Unknown status %q.", value),
		Field:   "status",
	}
}

func endBeforeStartError() *ValidationError {
	return &ValidationError{Code: CodeEndBeforeStart, Message: msgEndBeforeStart, Field: "end_date"}
}

func overlapError(conflicts []model.WorkOrder) *ValidationError {
	return &ValidationError{Code: CodeOverlap, Message: msgOverlap, Conflicts: conflicts}
}

func notFoundError(id string) *ValidationError {
	return &ValidationError{Code: CodeNotFound, Message: fmt.Sprintf("Work order %q not found.", id)}
}

func workCenterNotFoundError(id string) *ValidationError {
	return &ValidationError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("Work center %q not found.", id),
		Field:   "work_center",
	}
}
