package forma

import (
	"reflect"
	"time"
)

// Field states. A field's state affects render and parse eligibility
// expectations; it is part of the form definition, not of a submission.
type FieldState int

const (
	StateNormal FieldState = iota
	StateReadonly
	StateDisabled
	StateHidden
)

// Orientation controls the layout of fields that render as a set of
// discrete widgets (radio buttons, checkboxes).
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Form submission methods and encapsulation types.
const (
	MethodGET  = "GET"
	MethodPOST = "POST"

	EncTypeURLEncoded = "application/x-www-form-urlencoded"
	EncTypeMultipart  = "multipart/form-data"

	DefaultAcceptCharset = "UTF-8"
)

// Status tokens recorded by FormParser. StatusOK is never stored in the
// parser itself; it is the implied status of a clean End.
const (
	StatusOK     = "ok"
	StatusError  = "error"
	StatusErrors = "errors"
)

// Normalizer name constants for the built-in normalizers.
const (
	ValuesNormalizerName      = "url-values-normalizer"
	JSONNormalizerName        = "json-[]byte-normalizer"
	HTTPRequestNormalizerName = "http-request-normalizer"
)

// reflect.TypeOf constants for type-domain checks
var (
	StringType      = reflect.TypeOf("")
	StringSliceType = reflect.TypeOf([]string{})
	ByteSliceType   = reflect.TypeOf([]byte{})
	BoolType        = reflect.TypeOf(false)
	IntType         = reflect.TypeOf(int64(0))
	FloatType       = reflect.TypeOf(float64(0))
	TimeType        = reflect.TypeOf(time.Time{})
	UploadType      = reflect.TypeOf((*Upload)(nil))
	ArgsType        = reflect.TypeOf(Args{})
)
