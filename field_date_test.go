package forma

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestDateField(t *testing.T) {
	t.Run("AcceptedFormats", func(t *testing.T) {
		f := NewDateField("birthday", DateOpts{})
		want := time.Date(1972, time.May, 28, 0, 0, 0, 0, time.UTC)

		for _, raw := range []string{"1972-05-28", "28 may 1972", "May 28, 1972"} {
			value, err := f.ParseValue(raw)
			require.NoError(t, err, "input %q", raw)
			assert.Equal(t, want, value, "input %q", raw)
		}
	})

	t.Run("RejectedFormats", func(t *testing.T) {
		f := NewDateField("birthday", DateOpts{})
		for _, raw := range []string{"Thu, Jan 01, 2005", "2005/01/01", "yesterday", "28 frobuary 1972"} {
			_, err := f.ParseValue(raw)
			require.Error(t, err, "input %q", raw)
			assert.Equal(t, MsgInvalidDate, err.(*FieldError).Key)
		}
	})

	t.Run("InvalidCalendarDate", func(t *testing.T) {
		f := NewDateField("birthday", DateOpts{})
		for _, raw := range []string{"2005-02-30", "2005-13-01", "31 april 2005"} {
			_, err := f.ParseValue(raw)
			require.Error(t, err, "input %q", raw)
			assert.Equal(t, MsgInvalidDate, err.(*FieldError).Key)
		}
	})

	t.Run("AbsenceIsNil", func(t *testing.T) {
		f := NewDateField("birthday", DateOpts{})
		value, err := f.ParseValue("")
		require.NoError(t, err)
		assert.Nil(t, value)

		f = NewDateField("birthday", DateOpts{Required: true})
		_, err = f.ParseValue(nil)
		require.Error(t, err)
		assert.Equal(t, MsgRequiredValue, err.(*FieldError).Key)
	})

	t.Run("LocaleMonthNames", func(t *testing.T) {
		f := NewDateField("birthday", DateOpts{Locale: language.French})
		value, err := f.ParseValue("28 mai 1972")
		require.NoError(t, err)
		assert.Equal(t, time.Date(1972, time.May, 28, 0, 0, 0, 0, time.UTC), value)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		f := NewDateField("birthday", DateOpts{})
		value, err := f.ParseValue("2005-10-03")
		require.NoError(t, err)
		assert.Equal(t, "2005-10-03", f.RenderValue(value))
		assert.Equal(t, "", f.RenderValue(nil))
	})
}

func TestScriptDateField(t *testing.T) {
	t.Run("CompactFormat", func(t *testing.T) {
		f := NewScriptDateField("when", ScriptDateOpts{})
		value, err := f.ParseValue("20051003")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2005, time.October, 3, 0, 0, 0, 0, time.UTC), value)
	})

	t.Run("MalformedValuePanics", func(t *testing.T) {
		// The value comes from trusted client script; a mismatch is a
		// bug, not a user mistake.
		f := NewScriptDateField("when", ScriptDateOpts{})
		assert.Panics(t, func() { f.ParseValue("2005-10-03") })
		assert.Panics(t, func() { f.ParseValue("20051330") })
	})

	t.Run("OptionalAbsence", func(t *testing.T) {
		f := NewScriptDateField("when", ScriptDateOpts{})
		value, err := f.ParseValue("")
		require.NoError(t, err)
		assert.Nil(t, value)

		f = NewScriptDateField("when", ScriptDateOpts{Required: true})
		_, err = f.ParseValue("")
		require.Error(t, err)
	})

	t.Run("CompactRender", func(t *testing.T) {
		f := NewScriptDateField("when", ScriptDateOpts{})
		assert.Equal(t, "20051003",
			f.RenderValue(time.Date(2005, time.October, 3, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("ScriptManifest", func(t *testing.T) {
		f := NewScriptDateField("when", ScriptDateOpts{})
		scripts := f.Scripts()
		require.Contains(t, scripts, "calendarDateInput.js")
		assert.NotEmpty(t, scripts["calendarDateInput.js"])
	})
}

func TestDateMenuField(t *testing.T) {
	fixedNow := func() time.Time {
		return time.Date(2005, time.October, 3, 15, 30, 0, 0, time.UTC)
	}

	t.Run("ChoicesRegeneratedFromToday", func(t *testing.T) {
		f := NewDateMenuField("day", DateMenuOpts{Horizon: 3, Now: fixedNow})
		choices := f.Choices()
		require.Len(t, choices, 3)
		assert.Equal(t, "2005-10-03", choices[0].Value)
		assert.Equal(t, "2005-10-05", choices[2].Value)
	})

	t.Run("AnyDaySentinel", func(t *testing.T) {
		f := NewDateMenuField("day", DateMenuOpts{Horizon: 2, AnyDay: true, Now: fixedNow})
		choices := f.Choices()
		require.Len(t, choices, 3)
		assert.Equal(t, anyDaySentinel, choices[0].Value)

		value, err := f.ParseValue(anyDaySentinel)
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("ParsesISOSelection", func(t *testing.T) {
		f := NewDateMenuField("day", DateMenuOpts{Now: fixedNow})
		value, err := f.ParseValue("2005-10-04")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2005, time.October, 4, 0, 0, 0, 0, time.UTC), value)

		_, err = f.ParseValue("garbage")
		require.Error(t, err)
		assert.Equal(t, MsgInvalidDate, err.(*FieldError).Key)
	})
}
