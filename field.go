package forma

import "reflect"

///////////////////////////////////////////////////////////////////////////////
// Field Interface
///////////////////////////////////////////////////////////////////////////////

// Field is the contract every concrete field kind implements. A field
// declares three coordinated type domains:
//
//   - parse types: the raw shapes accepted from a normalized submission
//     (string, []string, *Upload, or an Args map for multi-varname fields);
//   - data types: the typed application values ParseValue may produce;
//   - render types: the shapes a renderer must be prepared to draw.
//
// ParseValue converts a raw value into a data value or returns a
// *FieldError for user-caused problems. It must never return a FieldError
// for conditions that are not caused by user input; those panic.
//
// RenderValue is total: it accepts nil (nothing set yet) and any data
// value, and returns a render value. DisplayValue produces a final,
// human-readable projection of a data value.
type Field interface {
	// Name uniquely identifies the field within its form and doubles as
	// the default submission variable name.
	Name() string
	// VarNames lists the submission argument names this field consumes,
	// in declaration order. Most fields consume exactly one.
	VarNames() []string
	// Label is the field's caption as a message key, or empty.
	Label() MsgKey
	// State returns the field's render/parse eligibility state.
	State() FieldState
	// Initial returns the default value used only for rendering when no
	// value is supplied. It is never substituted during parsing.
	Initial() any
	// Required reports whether an absence check applies during parsing.
	// Always false for kinds that do not support requiredness.
	Required() bool
	// Traits describes the field's composable capabilities.
	Traits() Traits

	TypesParse() []reflect.Type
	TypesData() []reflect.Type
	TypesRender() []reflect.Type

	ParseValue(raw any) (any, error)
	RenderValue(data any) any
	DisplayValue(data any) string
}

// Traits describes the capability set of a field kind. It replaces
// capability mixins with an explicit, queryable description.
type Traits struct {
	// SupportsRequired marks kinds with an optional absence check.
	SupportsRequired bool
	// Orientable marks kinds that render as a set of discrete widgets
	// laid out horizontally or vertically.
	Orientable bool
	// ChoiceBased marks kinds backed by a choice set.
	ChoiceBased bool
	// MultiValued marks kinds whose data value is a list.
	MultiValued bool
}

// Orientable is implemented by fields with a layout orientation.
type Orientable interface {
	Orientation() Orientation
}

// ScriptDependent is implemented by fields that rely on client-side
// script assets. The renderer surfaces the manifest as name → license
// notice pairs.
type ScriptDependent interface {
	Scripts() map[string]string
}

///////////////////////////////////////////////////////////////////////////////
// BaseField
///////////////////////////////////////////////////////////////////////////////

// BaseField carries the identity and state shared by every field kind.
// Concrete kinds embed it and provide the type domains and the
// parse/render/display behavior.
type BaseField struct {
	name     string
	varnames []string
	label    MsgKey
	state    FieldState
	initial  any
	required bool
	traits   Traits
}

// BaseOpts is embedded by every concrete field's opts struct.
type BaseOpts struct {
	// VarNames overrides the submission argument names; defaults to the
	// field name.
	VarNames []string
	// Label is the user-facing caption message key.
	Label MsgKey
	// State defaults to StateNormal.
	State FieldState
	// Initial is the render-only default value.
	Initial any
}

func newBaseField(name string, opts BaseOpts, traits Traits) BaseField {
	if name == "" {
		internalf("field name must not be empty")
	}
	varnames := opts.VarNames
	if len(varnames) == 0 {
		varnames = []string{name}
	}
	return BaseField{
		name:     name,
		varnames: varnames,
		label:    opts.Label,
		state:    opts.State,
		initial:  opts.Initial,
		traits:   traits,
	}
}

func (b *BaseField) Name() string      { return b.name }
func (b *BaseField) Label() MsgKey     { return b.label }
func (b *BaseField) State() FieldState { return b.state }
func (b *BaseField) Initial() any      { return b.initial }
func (b *BaseField) Required() bool    { return b.required }
func (b *BaseField) Traits() Traits    { return b.traits }

func (b *BaseField) VarNames() []string {
	names := make([]string, len(b.varnames))
	copy(names, b.varnames)
	return names
}

// setRequired records the required flag for kinds that support it.
func (b *BaseField) setRequired(required bool) {
	if required && !b.traits.SupportsRequired {
		internalf("field %q does not support the required flag", b.name)
	}
	b.required = required
}

// requiredCheck applies the absence check shared by most optional-required
// kinds: a missing required value is a user error; a missing optional one
// signals the caller to substitute the kind's canonical absent value.
func (b *BaseField) requiredCheck(present bool) *FieldError {
	if !present && b.required {
		return NewFieldError(MsgRequiredValue)
	}
	return nil
}
