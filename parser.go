package forma

import (
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
)

///////////////////////////////////////////////////////////////////////////////
// Redirect collaborator
///////////////////////////////////////////////////////////////////////////////

// ErrorPair is one entry of the parser's error map: the translated
// message for the field and an optional replacement render value that
// redisplays the rejected input.
type ErrorPair struct {
	Message     string
	Replacement any
}

// RedirectState is everything a re-render path needs to redisplay the
// form with inline error annotations and preserved user input.
type RedirectState struct {
	// Token identifies the parse session that produced this state.
	Token   string
	Status  string
	Message string
	// Values holds the successfully parsed values, with upload handles
	// culled: they are not meaningful redisplay data.
	Values map[string]any
	Errors map[string]ErrorPair
}

// Redirector is the strategy FormParser.End delegates to when a session
// ends with errors. Typical implementations issue an HTTP redirect back
// to the form page, stashing the state in a session or flash cookie.
type Redirector interface {
	Redirect(url string, form *Form, state RedirectState) error
}

// RedirectorFunc adapts a function to the Redirector interface.
type RedirectorFunc func(url string, form *Form, state RedirectState) error

func (fn RedirectorFunc) Redirect(url string, form *Form, state RedirectState) error {
	return fn(url, form, state)
}

///////////////////////////////////////////////////////////////////////////////
// FormParser
///////////////////////////////////////////////////////////////////////////////

// FormParser drives the parsing of one submission against one form. It
// is strictly single-use: zero or more ParseArgs/Error calls, then
// exactly one End or Cancel. A parser that is garbage-collected without
// being finalized is a protocol violation and is flagged loudly.
//
// Field-level parse failures never surface as errors from ParseArgs;
// they are accumulated into the error map and decide the outcome of End.
type FormParser struct {
	form        *Form
	registry    *NormalizerRegistry
	redirector  Redirector
	redirectURL string
	messages    *Messages

	token    string
	values   map[string]any
	stored   map[string]any
	errs     map[string]ErrorPair
	status   string
	message  string
	episodes int
	submit   string

	finalized bool
}

type ParserOpts struct {
	// Registry resolves raw argument sources to normalizers; defaults
	// to a registry with the built-in normalizers.
	Registry *NormalizerRegistry
	// Redirector handles the errored End outcome. Without one, End
	// still returns ErrValidation and the caller recovers the state
	// via GetValues/Errors.
	Redirector Redirector
	// RedirectURL is handed to the redirector; typically the form page.
	RedirectURL string
	// Messages resolves error message keys; defaults to English.
	Messages *Messages
}

func NewFormParser(form *Form, opts ParserOpts) *FormParser {
	if form == nil {
		internalf("parser requires a form")
	}
	registry := opts.Registry
	if registry == nil {
		registry = defaultNormalizerRegistry()
	}
	messages := opts.Messages
	if messages == nil {
		messages = DefaultMessages()
	}

	p := &FormParser{
		form:        form,
		registry:    registry,
		redirector:  opts.Redirector,
		redirectURL: opts.RedirectURL,
		messages:    messages,
		token:       uuid.NewString(),
		values:      make(map[string]any),
		stored:      make(map[string]any),
		errs:        make(map[string]ErrorPair),
	}
	runtime.SetFinalizer(p, (*FormParser).leaked)
	return p
}

// leaked fires when a parser is collected before End or Cancel. The
// panic is deliberate: forgetting to finalize validation is a bug that
// must not pass silently.
func (p *FormParser) leaked() {
	panic(fmt.Sprintf("forma: parser %s for form %q was never ended or cancelled", p.token, p.form.Name()))
}

// Token identifies this parse session; it is carried into the redirect
// state so re-render paths can correlate stashed values with a request.
func (p *FormParser) Token() string { return p.token }

// Form returns the form this parser is bound to.
func (p *FormParser) Form() *Form { return p.form }

// Submit returns the value of the submit button resolved by the last
// ParseArgs call, or "" when none was resolved.
func (p *FormParser) Submit() string { return p.submit }

func (p *FormParser) checkActive() {
	if p.finalized {
		internalf("parser %s has already been ended or cancelled", p.token)
	}
}

// ParseArgs normalizes the raw submission source, resolves the submit
// button and runs every selected field's parse, merging successes into
// the values map and failures into the error map. source may be an Args
// map directly or any type a registered normalizer handles.
//
// The returned error reports normalization problems only; field-level
// failures are accumulated, not returned.
func (p *FormParser) ParseArgs(source any, only, ignore []string) error {
	p.checkActive()

	args, err := p.normalize(source)
	if err != nil {
		return err
	}

	if submit := p.form.ParseSubmit(args); submit != "" {
		p.submit = submit
	}

	for _, fld := range p.form.SelectFields(only, ignore) {
		value, err := p.form.ParseField(fld, args)
		if err != nil {
			fe := err.(*FieldError)
			p.recordEpisode(StatusError, p.messages.Format(MsgPleaseFixError))
			p.errs[fld.Name()] = ErrorPair{
				Message:     p.messages.Resolve(fe),
				Replacement: fe.Replacement,
			}
			continue
		}
		p.values[fld.Name()] = value
	}
	return nil
}

func (p *FormParser) normalize(source any) (Args, error) {
	if args, ok := source.(Args); ok {
		return args, nil
	}
	if args, ok := source.(map[string]any); ok {
		return Args(args), nil
	}
	args, err := p.registry.Normalize(source)
	if err != nil {
		return nil, fmt.Errorf("normalizing submission arguments: %w", err)
	}
	return args, nil
}

// Error records a custom error episode, typically for cross-field
// validation performed by the caller after ParseArgs. status defaults to
// StatusError and message to the generic fix-error text. fields maps
// field names to one of: true (generic invalid-value message), a message
// string, a *FieldError, or an ErrorPair.
//
// Only the first episode's status and message are kept verbatim; any
// further episode downgrades both to the fixed multiple-errors pair.
func (p *FormParser) Error(status, message string, fields map[string]any) {
	p.checkActive()

	if status == "" {
		status = StatusError
	}
	if message == "" {
		message = p.messages.Format(MsgPleaseFixError)
	}
	p.recordEpisode(status, message)

	for name, value := range fields {
		if p.form.GetField(name) == nil {
			internalf("form %q has no field named %q", p.form.Name(), name)
		}
		p.errs[name] = p.normalizeError(name, value)
	}
}

// normalizeError converts the accepted error shapes into a uniform pair.
func (p *FormParser) normalizeError(name string, value any) ErrorPair {
	switch v := value.(type) {
	case bool:
		if !v {
			internalf("field error for %q must not be false", name)
		}
		return ErrorPair{Message: p.messages.Format(MsgInvalidValue)}
	case string:
		return ErrorPair{Message: v}
	case *FieldError:
		pair := ErrorPair{Message: p.messages.Resolve(v), Replacement: v.Replacement}
		if pair.Replacement != nil {
			checkRenderValue(p.form.GetField(name), pair.Replacement)
		}
		return pair
	case ErrorPair:
		if v.Replacement != nil {
			checkRenderValue(p.form.GetField(name), v.Replacement)
		}
		return v
	default:
		internalf("unsupported field error type %T for field %q", value, name)
		return ErrorPair{}
	}
}

// recordEpisode keeps the first episode's status/message and downgrades
// to the generic multiple-errors pair on any further episode.
func (p *FormParser) recordEpisode(status, message string) {
	p.episodes++
	if p.episodes == 1 {
		p.status = status
		p.message = message
		return
	}
	p.status = StatusErrors
	p.message = p.messages.Format(MsgMultipleErrors)
}

// Store records a free-form extra value alongside the parsed field
// values. Names of declared fields are off limits: stored values live in
// their own namespace.
func (p *FormParser) Store(name string, value any) {
	p.checkActive()
	if p.form.GetField(name) != nil {
		internalf("cannot store under %q: the form declares a field by that name", name)
	}
	p.stored[name] = value
}

// HasErrors reports whether any error episode was signaled so far.
func (p *FormParser) HasErrors() bool { return p.episodes > 0 }

// Status returns the coarse machine-readable outcome token recorded by
// the first (or downgraded by later) error episodes.
func (p *FormParser) Status() string { return p.status }

// Message returns the human-readable summary of the error episodes.
func (p *FormParser) Message() string { return p.message }

// Errors returns a snapshot of the error map.
func (p *FormParser) Errors() map[string]ErrorPair {
	errs := make(map[string]ErrorPair, len(p.errs))
	for name, pair := range p.errs {
		errs[name] = pair
	}
	return errs
}

// ErrorField returns the error recorded for one field, if any.
func (p *FormParser) ErrorField(name string) (ErrorPair, bool) {
	pair, ok := p.errs[name]
	return pair, ok
}

// GetValues returns a snapshot of the parsed and stored values. With
// cullFiles set, upload handles are dropped: they cannot be meaningfully
// stored or redisplayed.
func (p *FormParser) GetValues(cullFiles bool) map[string]any {
	snapshot := make(map[string]any, len(p.values)+len(p.stored))
	for name, value := range p.values {
		if cullFiles {
			if _, isFile := value.(*Upload); isFile {
				continue
			}
		}
		snapshot[name] = value
	}
	for name, value := range p.stored {
		snapshot[name] = value
	}
	return snapshot
}

// End is the terminal transition of a clean or errored session. With no
// error episodes it returns the read-only values accessor. With errors
// it invokes the redirect collaborator (when configured) with the
// accumulated state and returns ErrValidation; a failing redirector's
// error wraps ErrValidation.
//
// Ending a parser twice, or after Cancel, is a contract violation.
func (p *FormParser) End() (*Values, error) {
	p.checkActive()
	p.finalized = true
	runtime.SetFinalizer(p, nil)

	if p.episodes == 0 {
		return &Values{form: p.form, values: p.values, stored: p.stored, submit: p.submit}, nil
	}

	if p.redirector != nil {
		state := RedirectState{
			Token:   p.token,
			Status:  p.status,
			Message: p.message,
			Values:  p.GetValues(true),
			Errors:  p.Errors(),
		}
		if err := p.redirector.Redirect(p.redirectURL, p.form, state); err != nil {
			return nil, fmt.Errorf("redirecting after validation failure: %w (%w)", err, ErrValidation)
		}
	}
	return nil, ErrValidation
}

// Cancel is the alternate terminal transition: it skips the redirect
// path entirely, for callers handling failure out-of-band.
func (p *FormParser) Cancel() {
	p.checkActive()
	p.finalized = true
	runtime.SetFinalizer(p, nil)
}

///////////////////////////////////////////////////////////////////////////////
// Values accessor
///////////////////////////////////////////////////////////////////////////////

// Values is the read-only accessor over a cleanly ended session. Fields
// that were never parsed read as nil; asking for a name the form does
// not declare (and that was never stored) is a contract violation.
type Values struct {
	form   *Form
	values map[string]any
	stored map[string]any
	submit string
}

// Submit returns the resolved submit button value.
func (v *Values) Submit() string { return v.submit }

// Get returns the parsed value for a declared field (nil when the field
// was not part of the parse) or a stored extra value.
func (v *Values) Get(name string) any {
	if v.form.GetField(name) != nil {
		return v.values[name]
	}
	if value, ok := v.stored[name]; ok {
		return value
	}
	internalf("form %q has no field or stored value named %q", v.form.Name(), name)
	return nil
}

// String returns a text field's value, "" when unset.
func (v *Values) String(name string) string {
	value := v.Get(name)
	if value == nil {
		return ""
	}
	return value.(string)
}

// Int returns a numeric field's value and whether it was set.
func (v *Values) Int(name string) (int64, bool) {
	value := v.Get(name)
	if value == nil {
		return 0, false
	}
	return value.(int64), true
}

// Float returns a float field's value and whether it was set.
func (v *Values) Float(name string) (float64, bool) {
	value := v.Get(name)
	if value == nil {
		return 0, false
	}
	return value.(float64), true
}

// Bool returns a boolean field's value; unset reads as false.
func (v *Values) Bool(name string) bool {
	value := v.Get(name)
	if value == nil {
		return false
	}
	return value.(bool)
}

// Date returns a date field's value and whether it was set.
func (v *Values) Date(name string) (time.Time, bool) {
	value := v.Get(name)
	if value == nil {
		return time.Time{}, false
	}
	return value.(time.Time), true
}

// List returns a multi-choice field's selections, empty when unset.
func (v *Values) List(name string) []string {
	value := v.Get(name)
	if value == nil {
		return []string{}
	}
	return value.([]string)
}

// File returns an upload field's handle, nil when absent.
func (v *Values) File(name string) *Upload {
	value := v.Get(name)
	if value == nil {
		return nil
	}
	return value.(*Upload)
}
