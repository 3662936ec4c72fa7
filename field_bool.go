package forma

import "reflect"

var (
	boolDataTypes   = []reflect.Type{BoolType}
	boolRenderTypes = []reflect.Type{BoolType}
)

// BoolField is a checkbox-style boolean. Browsers omit unchecked
// checkboxes from the submission entirely, so absence, the empty string
// and "0" all read as false and any other string reads as true. The
// kind cannot be required: absence is indistinguishable from false.
type BoolField struct {
	BaseField
	messages *Messages
}

type BoolOpts struct {
	BaseOpts
	// Messages supplies the yes/no display strings; defaults to the
	// shared English registry.
	Messages *Messages
}

func NewBoolField(name string, opts BoolOpts) *BoolField {
	msgs := opts.Messages
	if msgs == nil {
		msgs = DefaultMessages()
	}
	return &BoolField{
		BaseField: newBaseField(name, opts.BaseOpts, Traits{}),
		messages:  msgs,
	}
}

func (f *BoolField) TypesParse() []reflect.Type  { return textParseTypes }
func (f *BoolField) TypesData() []reflect.Type   { return boolDataTypes }
func (f *BoolField) TypesRender() []reflect.Type { return boolRenderTypes }

func (f *BoolField) ParseValue(raw any) (any, error) {
	s, present := asString(raw)
	if !present || s == "" || s == "0" {
		return false, nil
	}
	return true, nil
}

func (f *BoolField) RenderValue(data any) any {
	if data == nil {
		return false
	}
	value, ok := data.(bool)
	if !ok {
		internalf("field %q cannot render value of type %T", f.Name(), data)
	}
	return value
}

func (f *BoolField) DisplayValue(data any) string {
	if f.RenderValue(data).(bool) {
		return f.messages.Format(MsgDisplayTrue)
	}
	return f.messages.Format(MsgDisplayFalse)
}
