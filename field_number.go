package forma

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var (
	intDataTypes     = []reflect.Type{IntType}
	floatDataTypes   = []reflect.Type{FloatType}
	numberRenderType = []reflect.Type{StringType}
)

///////////////////////////////////////////////////////////////////////////////
// IntField
///////////////////////////////////////////////////////////////////////////////

// IntField parses an integer literal with optional inclusive bounds.
// Absence yields nil (not an error) unless the field is required.
type IntField struct {
	BaseField
	minVal *int64
	maxVal *int64
	format string
}

type IntOpts struct {
	BaseOpts
	Required bool
	// MinVal/MaxVal are inclusive bounds; nil means unbounded. Use I()
	// to build the pointers.
	MinVal *int64
	MaxVal *int64
	// Format is an optional printf-style template used when rendering
	// the value (e.g. "%04d").
	Format string
}

func NewIntField(name string, opts IntOpts) *IntField {
	if opts.MinVal != nil && opts.MaxVal != nil && *opts.MinVal > *opts.MaxVal {
		internalf("field %q: minval %d exceeds maxval %d", name, *opts.MinVal, *opts.MaxVal)
	}
	f := &IntField{
		BaseField: newBaseField(name, opts.BaseOpts, Traits{SupportsRequired: true}),
		minVal:    opts.MinVal,
		maxVal:    opts.MaxVal,
		format:    opts.Format,
	}
	f.setRequired(opts.Required)
	return f
}

func (f *IntField) TypesParse() []reflect.Type  { return textParseTypes }
func (f *IntField) TypesData() []reflect.Type   { return intDataTypes }
func (f *IntField) TypesRender() []reflect.Type { return numberRenderType }

func (f *IntField) ParseValue(raw any) (any, error) {
	s, _ := asString(raw)
	s = strings.TrimSpace(s)
	if s == "" {
		if fe := f.requiredCheck(false); fe != nil {
			return nil, fe
		}
		return nil, nil
	}

	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, NewFieldError(MsgInvalidNumber).WithReplacement(s)
	}
	if f.minVal != nil && value < *f.minVal {
		return nil, NewFieldError(MsgNumberTooSmall, *f.minVal).WithReplacement(s)
	}
	if f.maxVal != nil && value > *f.maxVal {
		return nil, NewFieldError(MsgNumberTooLarge, *f.maxVal).WithReplacement(s)
	}
	return value, nil
}

func (f *IntField) RenderValue(data any) any {
	if data == nil {
		return ""
	}
	value, ok := data.(int64)
	if !ok {
		internalf("field %q cannot render value of type %T", f.Name(), data)
	}
	if f.format != "" {
		return fmt.Sprintf(f.format, value)
	}
	return strconv.FormatInt(value, 10)
}

func (f *IntField) DisplayValue(data any) string {
	return f.RenderValue(data).(string)
}

///////////////////////////////////////////////////////////////////////////////
// FloatField
///////////////////////////////////////////////////////////////////////////////

// FloatField parses a floating-point literal with optional inclusive
// bounds. Absence yields nil unless the field is required.
type FloatField struct {
	BaseField
	minVal *float64
	maxVal *float64
	format string
}

type FloatOpts struct {
	BaseOpts
	Required bool
	// MinVal/MaxVal are inclusive bounds; nil means unbounded. Use F()
	// to build the pointers.
	MinVal *float64
	MaxVal *float64
	// Format is an optional printf-style template (e.g. "%.2f").
	Format string
}

func NewFloatField(name string, opts FloatOpts) *FloatField {
	if opts.MinVal != nil && opts.MaxVal != nil && *opts.MinVal > *opts.MaxVal {
		internalf("field %q: minval %v exceeds maxval %v", name, *opts.MinVal, *opts.MaxVal)
	}
	f := &FloatField{
		BaseField: newBaseField(name, opts.BaseOpts, Traits{SupportsRequired: true}),
		minVal:    opts.MinVal,
		maxVal:    opts.MaxVal,
		format:    opts.Format,
	}
	f.setRequired(opts.Required)
	return f
}

func (f *FloatField) TypesParse() []reflect.Type  { return textParseTypes }
func (f *FloatField) TypesData() []reflect.Type   { return floatDataTypes }
func (f *FloatField) TypesRender() []reflect.Type { return numberRenderType }

func (f *FloatField) ParseValue(raw any) (any, error) {
	s, _ := asString(raw)
	s = strings.TrimSpace(s)
	if s == "" {
		if fe := f.requiredCheck(false); fe != nil {
			return nil, fe
		}
		return nil, nil
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, NewFieldError(MsgInvalidNumber).WithReplacement(s)
	}
	if f.minVal != nil && value < *f.minVal {
		return nil, NewFieldError(MsgNumberTooSmall, *f.minVal).WithReplacement(s)
	}
	if f.maxVal != nil && value > *f.maxVal {
		return nil, NewFieldError(MsgNumberTooLarge, *f.maxVal).WithReplacement(s)
	}
	return value, nil
}

func (f *FloatField) RenderValue(data any) any {
	if data == nil {
		return ""
	}
	value, ok := data.(float64)
	if !ok {
		internalf("field %q cannot render value of type %T", f.Name(), data)
	}
	if f.format != "" {
		return fmt.Sprintf(f.format, value)
	}
	return strconv.FormatFloat(value, 'g', -1, 64)
}

func (f *FloatField) DisplayValue(data any) string {
	return f.RenderValue(data).(string)
}
