package forma

import "io"

// Submit describes one submit button: the value submitted when it fires
// and its user-facing label. Forms with several buttons use the value as
// the button's argument name so the fired button can be identified.
type Submit struct {
	Value string
	Label MsgKey
}

///////////////////////////////////////////////////////////////////////////////
// Form
///////////////////////////////////////////////////////////////////////////////

// Form is an ordered, named collection of fields plus the submission
// metadata needed to render and decode it. A form is built once and is
// then read-only; it is intended to be shared across many per-request
// FormParser instances.
type Form struct {
	name          string
	fields        []Field
	byName        map[string]Field
	varOwners     map[string]string // variable name -> owning field name
	action        string
	method        string
	encType       string
	acceptCharset string
	submits       []Submit
	reset         bool
}

type FormOpts struct {
	Action string
	// Method defaults to POST.
	Method string
	// EncType defaults to urlencoded and is upgraded to multipart
	// automatically when a file field is added.
	EncType string
	// AcceptCharset defaults to UTF-8; submitted byte values are
	// decoded with it.
	AcceptCharset string
	// Submits lists the form's submit buttons. Zero or one button needs
	// no submit resolution; with several, exactly one must be present
	// in a submission.
	Submits []Submit
	// Reset adds a reset button to the rendered form.
	Reset bool
}

func NewForm(name string, opts FormOpts, fields ...Field) *Form {
	method := opts.Method
	if method == "" {
		method = MethodPOST
	}
	if method != MethodGET && method != MethodPOST {
		internalf("form %q: invalid method %q", name, method)
	}
	encType := opts.EncType
	if encType == "" {
		encType = EncTypeURLEncoded
	}
	charset := opts.AcceptCharset
	if charset == "" {
		charset = DefaultAcceptCharset
	}

	f := &Form{
		name:          name,
		byName:        make(map[string]Field),
		varOwners:     make(map[string]string),
		action:        opts.Action,
		method:        method,
		encType:       encType,
		acceptCharset: charset,
		submits:       opts.Submits,
		reset:         opts.Reset,
	}
	for _, fld := range fields {
		f.AddField(fld)
	}
	return f
}

func (f *Form) Name() string          { return f.name }
func (f *Form) Action() string        { return f.action }
func (f *Form) Method() string        { return f.method }
func (f *Form) EncType() string       { return f.encType }
func (f *Form) AcceptCharset() string { return f.acceptCharset }
func (f *Form) HasReset() bool        { return f.reset }

func (f *Form) Submits() []Submit {
	submits := make([]Submit, len(f.submits))
	copy(submits, f.submits)
	return submits
}

// Fields returns the fields in declaration order.
func (f *Form) Fields() []Field {
	fields := make([]Field, len(f.fields))
	copy(fields, f.fields)
	return fields
}

// GetField returns the named field, or nil when the form has no such
// field.
func (f *Form) GetField(name string) Field {
	return f.byName[name]
}

// HasFileField reports whether any field is a file upload.
func (f *Form) HasFileField() bool {
	for _, fld := range f.fields {
		if _, ok := fld.(*FileField); ok {
			return true
		}
	}
	return false
}

// AddField appends a field, enforcing the identity invariants: distinct
// field names and no variable name claimed by two fields. Adding a file
// field upgrades the form's encapsulation to multipart.
func (f *Form) AddField(fld Field) {
	if fld == nil {
		internalf("form %q: cannot add a nil field", f.name)
	}
	name := fld.Name()
	if _, exists := f.byName[name]; exists {
		internalf("form %q already has a field named %q", f.name, name)
	}
	for _, varname := range fld.VarNames() {
		if owner, exists := f.varOwners[varname]; exists {
			internalf("form %q: variable %q of field %q is already claimed by field %q",
				f.name, varname, name, owner)
		}
	}

	f.fields = append(f.fields, fld)
	f.byName[name] = fld
	for _, varname := range fld.VarNames() {
		f.varOwners[varname] = name
	}
	if _, ok := fld.(*FileField); ok {
		f.encType = EncTypeMultipart
	}
}

// SelectFields resolves the subset of fields a parse or render pass
// should touch. Naming a field the form does not have is a contract
// violation.
func (f *Form) SelectFields(only, ignore []string) []Field {
	var selected []Field
	if only == nil {
		selected = append(selected, f.fields...)
	} else {
		for _, name := range only {
			fld := f.byName[name]
			if fld == nil {
				internalf("form %q has no field named %q", f.name, name)
			}
			selected = append(selected, fld)
		}
	}
	if len(ignore) == 0 {
		return selected
	}

	skip := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		if f.byName[name] == nil {
			internalf("form %q has no field named %q", f.name, name)
		}
		skip[name] = true
	}
	kept := selected[:0]
	for _, fld := range selected {
		if !skip[fld.Name()] {
			kept = append(kept, fld)
		}
	}
	return kept
}

// ParseSubmit determines which submit button fired. With zero or one
// configured button the answer is the lone button's value; with several,
// exactly one must be present in the arguments — more than one at once
// means the submission did not come from the rendered form.
func (f *Form) ParseSubmit(args Args) string {
	switch len(f.submits) {
	case 0:
		return ""
	case 1:
		return f.submits[0].Value
	}

	fired := ""
	for _, submit := range f.submits {
		if raw, present := args[submit.Value]; present && raw != nil {
			if fired != "" {
				internalf("form %q: submit buttons %q and %q are both present", f.name, fired, submit.Value)
			}
			fired = submit.Value
		}
	}
	return fired
}

///////////////////////////////////////////////////////////////////////////////
// Per-field argument decoding and dispatch
///////////////////////////////////////////////////////////////////////////////

// ParseField assembles the field's raw value(s) from the normalized
// arguments, decodes byte values with the form's accept-charset, checks
// the assembled value against the field's parse types and delegates to
// ParseValue. The returned error, when non-nil, is always a *FieldError;
// everything else panics.
func (f *Form) ParseField(fld Field, args Args) (any, error) {
	vars := fld.VarNames()
	decoded := make([]any, len(vars))
	for i, varname := range vars {
		raw := args[varname]
		value, err := f.decodeArg(fld, raw)
		if err != nil {
			// A decode failure indicates a browser/charset mismatch:
			// reported as a user-visible error, never a crash.
			return nil, NewFieldError(MsgInvalidEncoding)
		}
		decoded[i] = value
	}

	var assembled any
	if len(vars) == 1 {
		assembled = decoded[0]
	} else {
		m := make(Args, len(vars))
		for i, varname := range vars {
			m[varname] = decoded[i]
		}
		assembled = m
	}

	checkParseValue(fld, assembled)
	value, err := fld.ParseValue(assembled)
	if err != nil {
		fe, ok := err.(*FieldError)
		if !ok {
			internalf("field %q returned a non-FieldError from ParseValue: %v", fld.Name(), err)
		}
		if fe.Replacement != nil {
			checkRenderValue(fld, fe.Replacement)
		}
		return nil, fe
	}
	checkDataValue(fld, value)
	return value, nil
}

// decodeArg converts one raw argument into the shape the field's
// ParseValue expects: byte values are decoded to text with the form's
// accept-charset unless the field consumes raw bytes, and bare readers
// are wrapped into upload handles for fields that accept them.
func (f *Form) decodeArg(fld Field, raw any) (any, error) {
	acceptsBytes := typeAllowed([]byte{}, fld.TypesParse())
	acceptsUploads := typeAllowed((*Upload)(nil), fld.TypesParse())

	switch v := raw.(type) {
	case []byte:
		if acceptsBytes {
			return v, nil
		}
		return decodeCharset(v, f.acceptCharset)
	case [][]byte:
		decoded := make([]string, len(v))
		for i, b := range v {
			s, err := decodeCharset(b, f.acceptCharset)
			if err != nil {
				return nil, err
			}
			decoded[i] = s
		}
		return decoded, nil
	case nil, string, []string, *Upload:
		return raw, nil
	default:
		if r, ok := raw.(io.Reader); ok && acceptsUploads {
			return NewUpload(r, "", "", -1), nil
		}
		return raw, nil
	}
}
