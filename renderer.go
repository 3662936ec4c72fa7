package forma

// Markup is an opaque rendered fragment produced by a FormRenderer. The
// package never inspects it.
type Markup string

// RenderRow pairs a field's label with its rendered input for table
// layout helpers.
type RenderRow struct {
	Label MsgKey
	Input Markup
}

// FormRenderer is the contract a rendering backend implements. The
// package prepares render values and error annotations; the renderer
// turns them into markup fragments.
//
// RenderField dispatches on the concrete field kind and receives the
// prepared render value (one of the field's render types, or nil), the
// translated error message for the field ("" when none), and the
// required flag. Every renderer must additionally be able to render any
// field as a hidden input via RenderHidden, used for fields in
// StateHidden and for value round-tripping.
//
// Renderers that hold an open/close protocol (a container that must be
// closed once opened) must flag abandonment of that protocol loudly, as
// FormParser does for unterminated sessions.
type FormRenderer interface {
	// Open renders the form container opening, using the form's action,
	// method, enctype and accept-charset.
	Open(form *Form) Markup
	// Close renders the container closing.
	Close() Markup
	// Table lays out (label, rendered input) pairs.
	Table(rows []RenderRow) Markup
	// RenderSubmit renders the form's submit button(s) and, when
	// configured, its reset button.
	RenderSubmit(form *Form) Markup

	RenderField(field Field, value any, errmsg string, required bool) (Markup, error)
	RenderHidden(field Field, value any) (Markup, error)

	// Scripts accumulates the script manifest (asset name → license
	// notice) of every ScriptDependent field rendered so far.
	Scripts() map[string]string
}

// PrepareRenderValue resolves the value to hand a renderer for one
// field, applying the redisplay fallback order: the error replacement
// recorded for the field, then the parsed-or-stashed value projected
// through RenderValue, then the field's configured initial value.
//
// values and errors are typically a RedirectState's maps; both may be
// nil when rendering a pristine form.
func PrepareRenderValue(field Field, values map[string]any, errors map[string]ErrorPair) any {
	if pair, ok := errors[field.Name()]; ok && pair.Replacement != nil {
		checkRenderValue(field, pair.Replacement)
		return pair.Replacement
	}
	if values != nil {
		if value, ok := values[field.Name()]; ok {
			return field.RenderValue(value)
		}
	}
	return field.RenderValue(field.Initial())
}
