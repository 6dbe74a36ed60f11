package action

import (
	"errors"
	"fmt"

	"github.com/tabletop-rl/warhex/internal/game/phase"
)

// ErrorCode is the machine-readable class of an action validation failure
type ErrorCode string

const (
	// CodeInvalidType - the raw action is not integer-compatible
	CodeInvalidType ErrorCode = "invalid_type"
	// CodeInvalidShape - an array-like raw action did not hold exactly one element
	CodeInvalidShape ErrorCode = "invalid_shape"
	// CodeOutOfRange - the index falls outside [0, action-space size)
	CodeOutOfRange ErrorCode = "out_of_range"
	// CodeMaskedOut - the index is in range but the mask bit is false
	CodeMaskedOut ErrorCode = "masked_out"
)

// Error is a structured action validation error. Illegal raw actions are
// surfaced with full diagnostic context rather than silently coerced;
// coercion would corrupt the training signal of a learning caller.
type Error struct {
	Code   ErrorCode
	Phase  phase.Phase
	Source string
	// Raw is the representation of the offending input
	Raw string
	// UnitID is the acting unit if one was resolved, otherwise -1
	UnitID int
	// ValidIndices lists the currently legal indices for masked_out errors
	ValidIndices []int
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("action rejected (%s): raw=%s phase=%s source=%s",
		e.Code, e.Raw, e.Phase, e.Source)
	if e.UnitID >= 0 {
		msg += fmt.Sprintf(" unit=%d", e.UnitID)
	}
	if e.Code == CodeMaskedOut {
		msg += fmt.Sprintf(" valid=%v", e.ValidIndices)
	}
	return msg
}

// AsError unwraps err into an *Error, or returns nil
func AsError(err error) *Error {
	var actionErr *Error
	if errors.As(err, &actionErr) {
		return actionErr
	}
	return nil
}

// newError builds an Error with the shared context fields
func newError(code ErrorCode, p phase.Phase, source string, raw any) *Error {
	return &Error{
		Code:   code,
		Phase:  p,
		Source: source,
		Raw:    fmt.Sprintf("%#v", raw),
		UnitID: -1,
	}
}
