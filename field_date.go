package forma

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

var (
	dateDataTypes = []reflect.Type{TimeType}
)

// Date values are calendar dates carried as time.Time at UTC midnight.
func newDate(year, month, day int) (time.Time, bool) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components (Feb 30 → Mar 2);
	// a changed component means the calendar date was invalid.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func formatISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

///////////////////////////////////////////////////////////////////////////////
// DateField
///////////////////////////////////////////////////////////////////////////////

var (
	isoDateRx    = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	dayFirstRx   = regexp.MustCompile(`^(\d{1,2})\s+(\p{L}+)\s+(\d{4})$`)
	monthFirstRx = regexp.MustCompile(`^(\p{L}+)\s+(\d{1,2}),?\s+(\d{4})$`)
)

// DateField is a free-typed date entry. Three formats are accepted:
// ISO ("2005-10-03"), day-first ("3 October 2005") and month-first
// ("October 3, 2005"), with month names resolved against the locale's
// month table. Absence yields nil unless the field is required.
type DateField struct {
	BaseField
	locale language.Tag
}

type DateOpts struct {
	BaseOpts
	Required bool
	// Locale selects the month-name table for the natural-language
	// formats; defaults to English.
	Locale language.Tag
}

func NewDateField(name string, opts DateOpts) *DateField {
	locale := opts.Locale
	if locale == language.Und {
		locale = language.English
	}
	f := &DateField{
		BaseField: newBaseField(name, opts.BaseOpts, Traits{SupportsRequired: true}),
		locale:    locale,
	}
	f.setRequired(opts.Required)
	return f
}

func (f *DateField) TypesParse() []reflect.Type  { return textParseTypes }
func (f *DateField) TypesData() []reflect.Type   { return dateDataTypes }
func (f *DateField) TypesRender() []reflect.Type { return textRenderTypes }

func (f *DateField) ParseValue(raw any) (any, error) {
	s, _ := asString(raw)
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		if fe := f.requiredCheck(false); fe != nil {
			return nil, fe
		}
		return nil, nil
	}

	var year, month, day int
	switch {
	case isoDateRx.MatchString(s):
		m := isoDateRx.FindStringSubmatch(s)
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
	case dayFirstRx.MatchString(s):
		m := dayFirstRx.FindStringSubmatch(s)
		day, _ = strconv.Atoi(m[1])
		month = monthNumber(m[2], f.locale)
		year, _ = strconv.Atoi(m[3])
	case monthFirstRx.MatchString(s):
		m := monthFirstRx.FindStringSubmatch(s)
		month = monthNumber(m[1], f.locale)
		day, _ = strconv.Atoi(m[2])
		year, _ = strconv.Atoi(m[3])
	default:
		return nil, NewFieldError(MsgInvalidDate).WithReplacement(s)
	}

	if month == 0 {
		return nil, NewFieldError(MsgInvalidDate).WithReplacement(s)
	}
	date, ok := newDate(year, month, day)
	if !ok {
		return nil, NewFieldError(MsgInvalidDate).WithReplacement(s)
	}
	return date, nil
}

func (f *DateField) RenderValue(data any) any {
	return renderDate(f, data)
}

func (f *DateField) DisplayValue(data any) string {
	return renderDate(f, data).(string)
}

func renderDate(fld Field, data any) any {
	if data == nil {
		return ""
	}
	t, ok := data.(time.Time)
	if !ok {
		internalf("field %q cannot render value of type %T", fld.Name(), data)
	}
	return formatISODate(t)
}

///////////////////////////////////////////////////////////////////////////////
// ScriptDateField
///////////////////////////////////////////////////////////////////////////////

var compactDateRx = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)

// ScriptDateField expects a fixed YYYYMMDD digit string produced by a
// client-side date picker. Because the value comes from trusted script
// rather than free typing, any malformed value is a contract violation,
// not a user error.
type ScriptDateField struct {
	BaseField
}

type ScriptDateOpts struct {
	BaseOpts
	Required bool
}

// scriptDateAssets names the client-side assets the script-assisted date
// field depends on, with their license notices.
var scriptDateAssets = map[string]string{
	"calendarDateInput.js": "Jason Moon's CalendarDateInput; free use with copyright notice retained.",
}

func NewScriptDateField(name string, opts ScriptDateOpts) *ScriptDateField {
	f := &ScriptDateField{
		BaseField: newBaseField(name, opts.BaseOpts, Traits{SupportsRequired: true}),
	}
	f.setRequired(opts.Required)
	return f
}

// Scripts implements ScriptDependent.
func (f *ScriptDateField) Scripts() map[string]string {
	manifest := make(map[string]string, len(scriptDateAssets))
	for name, notice := range scriptDateAssets {
		manifest[name] = notice
	}
	return manifest
}

func (f *ScriptDateField) TypesParse() []reflect.Type  { return textParseTypes }
func (f *ScriptDateField) TypesData() []reflect.Type   { return dateDataTypes }
func (f *ScriptDateField) TypesRender() []reflect.Type { return textRenderTypes }

func (f *ScriptDateField) ParseValue(raw any) (any, error) {
	s, _ := asString(raw)
	s = strings.TrimSpace(s)
	if s == "" {
		if fe := f.requiredCheck(false); fe != nil {
			return nil, fe
		}
		return nil, nil
	}

	m := compactDateRx.FindStringSubmatch(s)
	if m == nil {
		internalf("field %q expected a YYYYMMDD value from the date script, got %q", f.Name(), s)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	date, ok := newDate(year, month, day)
	if !ok {
		internalf("field %q received impossible calendar date %q from the date script", f.Name(), s)
	}
	return date, nil
}

// RenderValue produces the compact YYYYMMDD form the script consumes.
func (f *ScriptDateField) RenderValue(data any) any {
	if data == nil {
		return ""
	}
	t, ok := data.(time.Time)
	if !ok {
		internalf("field %q cannot render value of type %T", f.Name(), data)
	}
	return t.Format("20060102")
}

func (f *ScriptDateField) DisplayValue(data any) string {
	return renderDate(f, data).(string)
}

///////////////////////////////////////////////////////////////////////////////
// DateMenuField
///////////////////////////////////////////////////////////////////////////////

// DateMenuField offers a menu of upcoming days, regenerated on every
// render from "today + Horizon days". A sentinel "any day" option parses
// to nil. Submitted values are well-formed ISO dates; they are not
// cross-checked against the generated set since the set shifts with the
// clock.
type DateMenuField struct {
	BaseField
	horizon  int
	anyDay   bool
	now      func() time.Time
	messages *Messages
}

type DateMenuOpts struct {
	BaseOpts
	// Horizon is the number of days offered, starting today. Defaults
	// to 14.
	Horizon int
	// AnyDay prepends an "any/unspecified" sentinel option.
	AnyDay bool
	// Now overrides the clock; used by deterministic render paths.
	Now func() time.Time
	// Messages supplies the sentinel label; defaults to the shared
	// English registry.
	Messages *Messages
}

// anyDaySentinel is the submitted value of the "any day" option.
const anyDaySentinel = "-"

func NewDateMenuField(name string, opts DateMenuOpts) *DateMenuField {
	horizon := opts.Horizon
	if horizon <= 0 {
		horizon = 14
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	msgs := opts.Messages
	if msgs == nil {
		msgs = DefaultMessages()
	}
	return &DateMenuField{
		BaseField: newBaseField(name, opts.BaseOpts, Traits{ChoiceBased: true}),
		horizon:   horizon,
		anyDay:    opts.AnyDay,
		now:       now,
		messages:  msgs,
	}
}

func (f *DateMenuField) TypesParse() []reflect.Type  { return singleChoiceParseTypes }
func (f *DateMenuField) TypesData() []reflect.Type   { return dateDataTypes }
func (f *DateMenuField) TypesRender() []reflect.Type { return textRenderTypes }

// Choices regenerates the menu entries from the current time.
func (f *DateMenuField) Choices() []Choice {
	choices := make([]Choice, 0, f.horizon+1)
	if f.anyDay {
		choices = append(choices, Choice{
			Value: anyDaySentinel,
			Label: f.messages.Format(MsgAnyDay),
		})
	}
	today := f.now().UTC()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < f.horizon; i++ {
		day := today.AddDate(0, 0, i)
		choices = append(choices, Choice{
			Value: formatISODate(day),
			Label: fmt.Sprintf("%s %d %s", day.Weekday().String()[:3], day.Day(), day.Month().String()[:3]),
		})
	}
	return choices
}

func (f *DateMenuField) ParseValue(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" || v == anyDaySentinel {
			return nil, nil
		}
		m := isoDateRx.FindStringSubmatch(v)
		if m == nil {
			return nil, NewFieldError(MsgInvalidDate).WithReplacement(sanitizeText(v))
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		date, ok := newDate(year, month, day)
		if !ok {
			return nil, NewFieldError(MsgInvalidDate).WithReplacement(v)
		}
		return date, nil
	case []string:
		internalf("field %q expected a single selection, got %d", f.Name(), len(v))
		return nil, nil
	default:
		internalf("field %q received parse value of type %T", f.Name(), raw)
		return nil, nil
	}
}

func (f *DateMenuField) RenderValue(data any) any {
	if data == nil {
		if f.anyDay {
			return anyDaySentinel
		}
		return ""
	}
	return renderDate(f, data)
}

func (f *DateMenuField) DisplayValue(data any) string {
	if data == nil {
		return f.messages.Format(MsgAnyDay)
	}
	return renderDate(f, data).(string)
}
