package forma

import (
	"net/mail"
	"reflect"
	"regexp"
	"strings"
)

var (
	textParseTypes  = []reflect.Type{StringType}
	textDataTypes   = []reflect.Type{StringType}
	textRenderTypes = []reflect.Type{StringType}
)

///////////////////////////////////////////////////////////////////////////////
// StringField
///////////////////////////////////////////////////////////////////////////////

// StringField is a single-line text input. Embedded newlines and control
// characters are rejected; length bounds apply, with the minimum length
// only enforced when a non-empty value is present.
type StringField struct {
	BaseField
	minLen   int
	maxLen   int
	strip    bool
	encoding string
}

type StringOpts struct {
	BaseOpts
	Required bool
	// MinLen/MaxLen bound the length in runes; zero means unbounded.
	MinLen int
	MaxLen int
	// Strip removes leading/trailing whitespace before validation.
	Strip bool
	// Encoding, when set, requires the value to round-trip through the
	// named charset (e.g. "latin1").
	Encoding string
}

func NewStringField(name string, opts StringOpts) *StringField {
	if opts.MinLen < 0 || opts.MaxLen < 0 {
		internalf("field %q: negative length bound", name)
	}
	if opts.MaxLen > 0 && opts.MinLen > opts.MaxLen {
		internalf("field %q: minlen %d exceeds maxlen %d", name, opts.MinLen, opts.MaxLen)
	}
	f := &StringField{
		BaseField: newBaseField(name, opts.BaseOpts, Traits{SupportsRequired: true}),
		minLen:    opts.MinLen,
		maxLen:    opts.MaxLen,
		strip:     opts.Strip,
		encoding:  opts.Encoding,
	}
	f.setRequired(opts.Required)
	return f
}

func (f *StringField) TypesParse() []reflect.Type  { return textParseTypes }
func (f *StringField) TypesData() []reflect.Type   { return textDataTypes }
func (f *StringField) TypesRender() []reflect.Type { return textRenderTypes }

func (f *StringField) ParseValue(raw any) (any, error) {
	return f.parseText(raw, false)
}

// parseText holds the shared single/multi-line text validation.
func (f *StringField) parseText(raw any, allowNewlines bool) (any, error) {
	s, _ := asString(raw)
	if f.strip {
		s = strings.TrimSpace(s)
	}
	if s == "" {
		if fe := f.requiredCheck(false); fe != nil {
			return nil, fe
		}
		return "", nil
	}

	if hasControlChars(s, allowNewlines) {
		if strings.ContainsAny(s, "\r\n") && !allowNewlines {
			return nil, NewFieldError(MsgTextNoNewlines).WithReplacement(sanitizeText(s))
		}
		return nil, NewFieldError(MsgTextInvalidChars).WithReplacement(sanitizeText(s))
	}

	length := len([]rune(s))
	if f.minLen > 0 && length < f.minLen {
		return nil, NewFieldError(MsgTextTooShort, f.minLen).WithReplacement(s)
	}
	if f.maxLen > 0 && length > f.maxLen {
		return nil, NewFieldError(MsgTextTooLong, f.maxLen).WithReplacement(s)
	}

	if f.encoding != "" && !encodableIn(s, f.encoding) {
		return nil, NewFieldError(MsgTextNotEncodable, f.encoding).WithReplacement(s)
	}

	return s, nil
}

func (f *StringField) RenderValue(data any) any {
	return renderText(f, data)
}

func (f *StringField) DisplayValue(data any) string {
	return renderText(f, data).(string)
}

// renderText projects a text data value for rendering: nil reads as the
// empty string.
func renderText(fld Field, data any) any {
	if data == nil {
		return ""
	}
	s, ok := data.(string)
	if !ok {
		internalf("field %q cannot render value of type %T", fld.Name(), data)
	}
	return s
}

// sanitizeText strips control characters so a rejected value can still be
// offered back as a legal render value.
func sanitizeText(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

///////////////////////////////////////////////////////////////////////////////
// TextAreaField
///////////////////////////////////////////////////////////////////////////////

// TextAreaField is a multi-line text input: the StringField rules minus
// the newline rejection. Line endings are normalized to LF on render.
type TextAreaField struct {
	StringField
	rows int
	cols int
}

type TextAreaOpts struct {
	BaseOpts
	Required bool
	MinLen   int
	MaxLen   int
	Encoding string
	// Rows/Cols are size hints for the renderer.
	Rows int
	Cols int
}

func NewTextAreaField(name string, opts TextAreaOpts) *TextAreaField {
	inner := NewStringField(name, StringOpts{
		BaseOpts: opts.BaseOpts,
		Required: opts.Required,
		MinLen:   opts.MinLen,
		MaxLen:   opts.MaxLen,
		Encoding: opts.Encoding,
	})
	return &TextAreaField{StringField: *inner, rows: opts.Rows, cols: opts.Cols}
}

func (f *TextAreaField) Rows() int { return f.rows }
func (f *TextAreaField) Cols() int { return f.cols }

func (f *TextAreaField) ParseValue(raw any) (any, error) {
	return f.parseText(raw, true)
}

func (f *TextAreaField) RenderValue(data any) any {
	return normalizeNewlines(renderText(f, data).(string))
}

func (f *TextAreaField) DisplayValue(data any) string {
	return f.RenderValue(data).(string)
}

///////////////////////////////////////////////////////////////////////////////
// PasswordField
///////////////////////////////////////////////////////////////////////////////

// PasswordField behaves like StringField for parsing but never reveals
// its content: the render value is empty unless ShowValue is set, and the
// display value is always a fixed-width mask.
type PasswordField struct {
	StringField
	showValue bool
}

type PasswordOpts struct {
	BaseOpts
	Required bool
	MinLen   int
	MaxLen   int
	// ShowValue opts in to echoing the submitted password back into the
	// rendered input.
	ShowValue bool
}

func NewPasswordField(name string, opts PasswordOpts) *PasswordField {
	inner := NewStringField(name, StringOpts{
		BaseOpts: opts.BaseOpts,
		Required: opts.Required,
		MinLen:   opts.MinLen,
		MaxLen:   opts.MaxLen,
	})
	return &PasswordField{StringField: *inner, showValue: opts.ShowValue}
}

func (f *PasswordField) RenderValue(data any) any {
	if !f.showValue {
		return ""
	}
	return renderText(f, data)
}

func (f *PasswordField) DisplayValue(data any) string {
	if data == nil {
		return ""
	}
	if _, ok := data.(string); !ok {
		internalf("field %q cannot display value of type %T", f.Name(), data)
	}
	return strings.Repeat("*", 8)
}

///////////////////////////////////////////////////////////////////////////////
// EmailField
///////////////////////////////////////////////////////////////////////////////

// localPartRx recognizes a bare local part, i.e. an address with no host.
var localPartRx = regexp.MustCompile(`^[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~.-]+$`)

// EmailField validates an email address-spec, discarding any display
// name. Local-only addresses are rejected unless AllowLocal is set.
type EmailField struct {
	BaseField
	allowLocal bool
}

type EmailOpts struct {
	BaseOpts
	Required bool
	// AllowLocal accepts addresses without a host part (e.g. "root").
	AllowLocal bool
}

func NewEmailField(name string, opts EmailOpts) *EmailField {
	f := &EmailField{
		BaseField:  newBaseField(name, opts.BaseOpts, Traits{SupportsRequired: true}),
		allowLocal: opts.AllowLocal,
	}
	f.setRequired(opts.Required)
	return f
}

func (f *EmailField) TypesParse() []reflect.Type  { return textParseTypes }
func (f *EmailField) TypesData() []reflect.Type   { return textDataTypes }
func (f *EmailField) TypesRender() []reflect.Type { return textRenderTypes }

func (f *EmailField) ParseValue(raw any) (any, error) {
	s, _ := asString(raw)
	s = strings.TrimSpace(s)
	if s == "" {
		if fe := f.requiredCheck(false); fe != nil {
			return nil, fe
		}
		return "", nil
	}

	if !isASCII(s) {
		return nil, NewFieldError(MsgInvalidEmail).WithReplacement(sanitizeText(s))
	}

	addr, err := mail.ParseAddress(s)
	if err != nil {
		if localPartRx.MatchString(s) {
			if f.allowLocal {
				return s, nil
			}
			return nil, NewFieldError(MsgLocalEmail).WithReplacement(s)
		}
		return nil, NewFieldError(MsgInvalidEmail).WithReplacement(sanitizeText(s))
	}
	// The display name, if any, is discarded: only the address-spec is
	// kept as the data value.
	return addr.Address, nil
}

func (f *EmailField) RenderValue(data any) any {
	return renderText(f, data)
}

func (f *EmailField) DisplayValue(data any) string {
	return renderText(f, data).(string)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

///////////////////////////////////////////////////////////////////////////////
// URLField
///////////////////////////////////////////////////////////////////////////////

// URLField accepts a URL-shaped string, rejecting embedded whitespace.
type URLField struct {
	BaseField
}

type URLOpts struct {
	BaseOpts
	Required bool
}

func NewURLField(name string, opts URLOpts) *URLField {
	f := &URLField{
		BaseField: newBaseField(name, opts.BaseOpts, Traits{SupportsRequired: true}),
	}
	f.setRequired(opts.Required)
	return f
}

func (f *URLField) TypesParse() []reflect.Type  { return textParseTypes }
func (f *URLField) TypesData() []reflect.Type   { return textDataTypes }
func (f *URLField) TypesRender() []reflect.Type { return textRenderTypes }

func (f *URLField) ParseValue(raw any) (any, error) {
	s, _ := asString(raw)
	s = strings.TrimSpace(s)
	if s == "" {
		if fe := f.requiredCheck(false); fe != nil {
			return nil, fe
		}
		return "", nil
	}
	if strings.ContainsAny(s, " \t\r\n") || !isASCII(s) {
		return nil, NewFieldError(MsgInvalidURL).WithReplacement(sanitizeText(s))
	}
	return s, nil
}

func (f *URLField) RenderValue(data any) any {
	return renderText(f, data)
}

func (f *URLField) DisplayValue(data any) string {
	return renderText(f, data).(string)
}
