package forma

import (
	"reflect"
	"strings"
)

var (
	singleChoiceParseTypes = []reflect.Type{StringType, StringSliceType}
	singleChoiceDataTypes  = []reflect.Type{StringType}
	multiChoiceDataTypes   = []reflect.Type{StringSliceType}
	listboxDataTypes       = []reflect.Type{StringType, StringSliceType}
	choiceRenderTypes      = []reflect.Type{StringSliceType}
	singleRenderTypes      = []reflect.Type{StringType}
)

// Choice is one entry of a choice set: the submitted value and its
// user-facing label.
type Choice struct {
	Value string
	Label string
}

// Choices builds a choice set where each value doubles as its label.
func Choices(values ...string) []Choice {
	choices := make([]Choice, len(values))
	for i, v := range values {
		choices[i] = Choice{Value: v, Label: v}
	}
	return choices
}

///////////////////////////////////////////////////////////////////////////////
// choiceField base
///////////////////////////////////////////////////////////////////////////////

// choiceField carries the ordered choice set shared by all choice-based
// kinds. The set may be replaced after construction for late-bound option
// lists; a Form definition is otherwise read-only once shared.
type choiceField struct {
	BaseField
	choices []Choice
	nocheck bool
}

// ChoiceBaseOpts is embedded by every choice-based field's opts struct.
type ChoiceBaseOpts struct {
	BaseOpts
	Choices []Choice
	// NoCheck disables cross-checking submitted values against the
	// choice set; any value is then accepted verbatim.
	NoCheck bool
}

func newChoiceField(name string, opts ChoiceBaseOpts, traits Traits) choiceField {
	traits.ChoiceBased = true
	return choiceField{
		BaseField: newBaseField(name, opts.BaseOpts, traits),
		choices:   opts.Choices,
		nocheck:   opts.NoCheck,
	}
}

// Choices returns the current choice set in order.
func (c *choiceField) Choices() []Choice {
	choices := make([]Choice, len(c.choices))
	copy(choices, c.choices)
	return choices
}

// SetChoices replaces the choice set. Supported for late-bound option
// lists; do not call concurrently with parsing or rendering.
func (c *choiceField) SetChoices(choices []Choice) {
	c.choices = choices
}

func (c *choiceField) hasChoice(value string) bool {
	for _, choice := range c.choices {
		if choice.Value == value {
			return true
		}
	}
	return false
}

// crossCheck verifies a submitted value against the choice set. A value
// outside the set did not come from the rendered form, so it is a caller
// or markup bug, not a user mistake.
func (c *choiceField) crossCheck(value string) {
	if c.nocheck {
		return
	}
	if !c.hasChoice(value) {
		internalf("field %q received value %q which is not in its choice set", c.Name(), value)
	}
}

// labelFor maps a value to its label, falling back to the value itself.
func (c *choiceField) labelFor(value string) string {
	for _, choice := range c.choices {
		if choice.Value == value {
			return choice.Label
		}
	}
	return value
}

// parseSingle implements the forced-selection single-choice parse shared
// by radio and menu kinds.
func (c *choiceField) parseSingle(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, NewFieldError(MsgOneChoiceRequired)
	case string:
		if v == "" {
			return nil, NewFieldError(MsgOneChoiceRequired)
		}
		c.crossCheck(v)
		return v, nil
	case []string:
		internalf("field %q expected a single selection, got %d", c.Name(), len(v))
		return nil, nil
	default:
		internalf("field %q received parse value of type %T", c.Name(), raw)
		return nil, nil
	}
}

// parseMulti implements the zero-or-more multi-choice parse: a single
// scalar is auto-wrapped and every value is cross-checked.
func (c *choiceField) parseMulti(raw any) []string {
	values := asStringList(raw)
	for _, v := range values {
		c.crossCheck(v)
	}
	return values
}

// renderSelected projects a data value to the list of selected values.
func (c *choiceField) renderSelected(data any) []string {
	switch v := data.(type) {
	case nil:
		return []string{}
	case string:
		return []string{v}
	case []string:
		selected := make([]string, len(v))
		copy(selected, v)
		return selected
	default:
		internalf("field %q cannot render value of type %T", c.Name(), data)
		return nil
	}
}

func (c *choiceField) displaySelected(data any) string {
	values := c.renderSelected(data)
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = c.labelFor(v)
	}
	return strings.Join(labels, ", ")
}

///////////////////////////////////////////////////////////////////////////////
// RadioField
///////////////////////////////////////////////////////////////////////////////

// RadioField renders as a set of radio buttons; exactly one choice must
// be selected. Absence is a user error since the rendered widget always
// forces a selection.
type RadioField struct {
	choiceField
	orientation Orientation
}

type RadioOpts struct {
	ChoiceBaseOpts
	Orientation Orientation
}

func NewRadioField(name string, opts RadioOpts) *RadioField {
	return &RadioField{
		choiceField: newChoiceField(name, opts.ChoiceBaseOpts, Traits{Orientable: true}),
		orientation: opts.Orientation,
	}
}

func (f *RadioField) Orientation() Orientation    { return f.orientation }
func (f *RadioField) TypesParse() []reflect.Type  { return singleChoiceParseTypes }
func (f *RadioField) TypesData() []reflect.Type   { return singleChoiceDataTypes }
func (f *RadioField) TypesRender() []reflect.Type { return singleRenderTypes }

func (f *RadioField) ParseValue(raw any) (any, error) {
	return f.parseSingle(raw)
}

func (f *RadioField) RenderValue(data any) any {
	return renderText(f, data)
}

func (f *RadioField) DisplayValue(data any) string {
	return f.displaySelected(data)
}

///////////////////////////////////////////////////////////////////////////////
// MenuField
///////////////////////////////////////////////////////////////////////////////

// MenuField renders as a drop-down menu; like RadioField, a selection is
// always forced.
type MenuField struct {
	choiceField
}

type MenuOpts struct {
	ChoiceBaseOpts
}

func NewMenuField(name string, opts MenuOpts) *MenuField {
	return &MenuField{
		choiceField: newChoiceField(name, opts.ChoiceBaseOpts, Traits{}),
	}
}

func (f *MenuField) TypesParse() []reflect.Type  { return singleChoiceParseTypes }
func (f *MenuField) TypesData() []reflect.Type   { return singleChoiceDataTypes }
func (f *MenuField) TypesRender() []reflect.Type { return singleRenderTypes }

func (f *MenuField) ParseValue(raw any) (any, error) {
	return f.parseSingle(raw)
}

func (f *MenuField) RenderValue(data any) any {
	return renderText(f, data)
}

func (f *MenuField) DisplayValue(data any) string {
	return f.displaySelected(data)
}

///////////////////////////////////////////////////////////////////////////////
// CheckboxesField
///////////////////////////////////////////////////////////////////////////////

// CheckboxesField renders as a set of checkboxes; zero or more choices
// may be selected. With Required set, at least one selection is needed.
type CheckboxesField struct {
	choiceField
	orientation Orientation
}

type CheckboxesOpts struct {
	ChoiceBaseOpts
	Required    bool
	Orientation Orientation
}

func NewCheckboxesField(name string, opts CheckboxesOpts) *CheckboxesField {
	f := &CheckboxesField{
		choiceField: newChoiceField(name, opts.ChoiceBaseOpts, Traits{
			SupportsRequired: true,
			Orientable:       true,
			MultiValued:      true,
		}),
		orientation: opts.Orientation,
	}
	f.setRequired(opts.Required)
	return f
}

func (f *CheckboxesField) Orientation() Orientation    { return f.orientation }
func (f *CheckboxesField) TypesParse() []reflect.Type  { return singleChoiceParseTypes }
func (f *CheckboxesField) TypesData() []reflect.Type   { return multiChoiceDataTypes }
func (f *CheckboxesField) TypesRender() []reflect.Type { return choiceRenderTypes }

func (f *CheckboxesField) ParseValue(raw any) (any, error) {
	values := f.parseMulti(raw)
	if len(values) == 0 && f.Required() {
		return nil, NewFieldError(MsgChoiceRequired)
	}
	return values, nil
}

func (f *CheckboxesField) RenderValue(data any) any {
	return f.renderSelected(data)
}

func (f *CheckboxesField) DisplayValue(data any) string {
	return f.displaySelected(data)
}

///////////////////////////////////////////////////////////////////////////////
// ListboxField
///////////////////////////////////////////////////////////////////////////////

// ListboxField renders as a scrolling list and behaves as single-choice
// or multi-choice depending on the Multiple flag, fixed at construction.
// Unlike menu and radio, single mode allows a genuine "nothing selected"
// outcome, parsed as nil.
type ListboxField struct {
	choiceField
	multiple bool
	size     int
	messages *Messages
}

type ListboxOpts struct {
	ChoiceBaseOpts
	Required bool
	// Multiple selects multi-choice behavior.
	Multiple bool
	// Size is a renderer hint for the number of visible rows.
	Size int
	// Messages supplies the "(none)" display string; defaults to the
	// shared English registry.
	Messages *Messages
}

func NewListboxField(name string, opts ListboxOpts) *ListboxField {
	msgs := opts.Messages
	if msgs == nil {
		msgs = DefaultMessages()
	}
	f := &ListboxField{
		choiceField: newChoiceField(name, opts.ChoiceBaseOpts, Traits{
			SupportsRequired: true,
			MultiValued:      opts.Multiple,
		}),
		multiple: opts.Multiple,
		size:     opts.Size,
		messages: msgs,
	}
	f.setRequired(opts.Required)
	return f
}

func (f *ListboxField) Multiple() bool { return f.multiple }
func (f *ListboxField) Size() int      { return f.size }

func (f *ListboxField) TypesParse() []reflect.Type { return singleChoiceParseTypes }

func (f *ListboxField) TypesData() []reflect.Type {
	if f.multiple {
		return multiChoiceDataTypes
	}
	return listboxDataTypes
}

func (f *ListboxField) TypesRender() []reflect.Type { return choiceRenderTypes }

func (f *ListboxField) ParseValue(raw any) (any, error) {
	if f.multiple {
		values := f.parseMulti(raw)
		if len(values) == 0 && f.Required() {
			return nil, NewFieldError(MsgChoiceRequired)
		}
		return values, nil
	}

	switch v := raw.(type) {
	case nil:
		if f.Required() {
			return nil, NewFieldError(MsgOneChoiceRequired)
		}
		return nil, nil
	case string:
		if v == "" {
			if f.Required() {
				return nil, NewFieldError(MsgOneChoiceRequired)
			}
			return nil, nil
		}
		f.crossCheck(v)
		return v, nil
	case []string:
		internalf("field %q is a single-selection listbox but received %d values", f.Name(), len(v))
		return nil, nil
	default:
		internalf("field %q received parse value of type %T", f.Name(), raw)
		return nil, nil
	}
}

func (f *ListboxField) RenderValue(data any) any {
	return f.renderSelected(data)
}

func (f *ListboxField) DisplayValue(data any) string {
	if data == nil {
		return f.messages.Format(MsgDisplayNone)
	}
	return f.displaySelected(data)
}
