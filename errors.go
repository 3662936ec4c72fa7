package forma

import (
	"errors"
	"fmt"
)

///////////////////////////////////////////////////////////////////////////////
// Errors
///////////////////////////////////////////////////////////////////////////////

var (
	// ErrValidation is returned by FormParser.End when at least one error
	// was signaled during the session. The redirect collaborator, if any,
	// has already been invoked by the time End returns it.
	ErrValidation = errors.New("form validation failed")

	ErrNoNormalizer                 = errors.New("no normalizer found for this source type")
	ErrNoNormalizerRegistered       = errors.New("no registered normalizer found for this source type")
	ErrMultipleNormalizersAvailable = errors.New("multiple normalizers available for this source type, use WithNormalizer() to specify which one")
	ErrNormalizerNotFound           = errors.New("specified normalizer not found for this source type")
)

// FieldError signals that the user's input for a field is invalid. It is
// the only error type a field's ParseValue may return; the Form/FormParser
// layer converts it into an entry of the parser's error map, so it never
// propagates to the caller.
//
// Replacement, when non-nil, is a best-effort value of the field's render
// types that redisplays the bad input back to the user. A replacement
// outside the field's render types is a bug in the field implementation
// and panics at the form boundary.
type FieldError struct {
	Key         MsgKey
	Args        []any
	Replacement any
}

// NewFieldError builds a user-input error from a message key and its
// template arguments, with no replacement render value.
func NewFieldError(key MsgKey, args ...any) *FieldError {
	return &FieldError{Key: key, Args: args}
}

// WithReplacement attaches a replacement render value and returns the
// error for chaining.
func (fe *FieldError) WithReplacement(value any) *FieldError {
	fe.Replacement = value
	return fe
}

// Error implements the error interface. The raw key is used here; the
// translated message is produced by the parser's message registry.
func (fe *FieldError) Error() string {
	return fmt.Sprintf("invalid field input: %s", fe.Key)
}

// internalf reports a contract violation on the part of the calling code
// or a field implementation. These are deliberately loud: they are never
// converted into user-facing messages.
func internalf(format string, args ...any) {
	panic(fmt.Sprintf("forma: "+format, args...))
}
