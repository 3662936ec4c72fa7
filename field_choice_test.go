package forma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coffeeChoices() []Choice {
	return Choices("latte", "expresso", "moccha")
}

func TestRadioField(t *testing.T) {
	t.Run("ForcedSelection", func(t *testing.T) {
		f := NewRadioField("drink", RadioOpts{
			ChoiceBaseOpts: ChoiceBaseOpts{Choices: coffeeChoices()},
		})

		value, err := f.ParseValue("latte")
		require.NoError(t, err)
		assert.Equal(t, "latte", value)

		for _, raw := range []any{nil, ""} {
			_, err := f.ParseValue(raw)
			require.Error(t, err)
			assert.Equal(t, MsgOneChoiceRequired, err.(*FieldError).Key)
		}
	})

	t.Run("ListWhereScalarExpectedPanics", func(t *testing.T) {
		f := NewRadioField("drink", RadioOpts{
			ChoiceBaseOpts: ChoiceBaseOpts{Choices: coffeeChoices()},
		})
		assert.Panics(t, func() {
			f.ParseValue([]string{"latte", "moccha"})
		})
	})

	t.Run("OutOfSetPanics", func(t *testing.T) {
		f := NewRadioField("drink", RadioOpts{
			ChoiceBaseOpts: ChoiceBaseOpts{Choices: coffeeChoices()},
		})
		assert.Panics(t, func() {
			f.ParseValue("tea")
		})
	})

	t.Run("NoCheckAcceptsAnything", func(t *testing.T) {
		f := NewRadioField("drink", RadioOpts{
			ChoiceBaseOpts: ChoiceBaseOpts{Choices: coffeeChoices(), NoCheck: true},
		})
		value, err := f.ParseValue("tea")
		require.NoError(t, err)
		assert.Equal(t, "tea", value)
	})

	t.Run("Orientation", func(t *testing.T) {
		f := NewRadioField("drink", RadioOpts{
			ChoiceBaseOpts: ChoiceBaseOpts{Choices: coffeeChoices()},
			Orientation:    Vertical,
		})
		assert.Equal(t, Vertical, f.Orientation())
		assert.True(t, f.Traits().Orientable)
	})
}

func TestMenuField(t *testing.T) {
	f := NewMenuField("drink", MenuOpts{
		ChoiceBaseOpts: ChoiceBaseOpts{Choices: []Choice{
			{Value: "latte", Label: "Caffè Latte"},
			{Value: "expresso", Label: "Expresso"},
		}},
	})

	value, err := f.ParseValue("latte")
	require.NoError(t, err)
	assert.Equal(t, "latte", value)

	assert.Equal(t, "Caffè Latte", f.DisplayValue("latte"))
	assert.Equal(t, "latte", f.RenderValue("latte"))
	assert.Equal(t, "", f.RenderValue(nil))
}

func TestCheckboxesField(t *testing.T) {
	t.Run("ZeroOrMore", func(t *testing.T) {
		f := NewCheckboxesField("extras", CheckboxesOpts{
			ChoiceBaseOpts: ChoiceBaseOpts{Choices: coffeeChoices()},
		})

		value, err := f.ParseValue(nil)
		require.NoError(t, err)
		assert.Equal(t, []string{}, value)

		value, err = f.ParseValue([]string{"latte", "moccha"})
		require.NoError(t, err)
		assert.Equal(t, []string{"latte", "moccha"}, value)
	})

	t.Run("ScalarAutoWrapped", func(t *testing.T) {
		f := NewCheckboxesField("extras", CheckboxesOpts{
			ChoiceBaseOpts: ChoiceBaseOpts{Choices: coffeeChoices()},
		})
		value, err := f.ParseValue("latte")
		require.NoError(t, err)
		assert.Equal(t, []string{"latte"}, value)
	})

	t.Run("RequiredNeedsOne", func(t *testing.T) {
		f := NewCheckboxesField("extras", CheckboxesOpts{
			ChoiceBaseOpts: ChoiceBaseOpts{Choices: coffeeChoices()},
			Required:       true,
		})
		_, err := f.ParseValue(nil)
		require.Error(t, err)
		assert.Equal(t, MsgChoiceRequired, err.(*FieldError).Key)
	})

	t.Run("CrossChecksEveryValue", func(t *testing.T) {
		f := NewCheckboxesField("extras", CheckboxesOpts{
			ChoiceBaseOpts: ChoiceBaseOpts{Choices: coffeeChoices()},
		})
		assert.Panics(t, func() {
			f.ParseValue([]string{"latte", "tea"})
		})
	})
}

func TestListboxField(t *testing.T) {
	t.Run("SingleModeAllowsNone", func(t *testing.T) {
		f := NewListboxField("pick", ListboxOpts{
			ChoiceBaseOpts: ChoiceBaseOpts{Choices: coffeeChoices()},
		})

		// Unlike menu/radio, no selection is a valid outcome.
		for _, raw := range []any{nil, ""} {
			value, err := f.ParseValue(raw)
			require.NoError(t, err)
			assert.Nil(t, value)
		}

		value, err := f.ParseValue("expresso")
		require.NoError(t, err)
		assert.Equal(t, "expresso", value)
	})

	t.Run("SingleModeRequired", func(t *testing.T) {
		f := NewListboxField("pick", ListboxOpts{
			ChoiceBaseOpts: ChoiceBaseOpts{Choices: coffeeChoices()},
			Required:       true,
		})
		_, err := f.ParseValue(nil)
		require.Error(t, err)
		assert.Equal(t, MsgOneChoiceRequired, err.(*FieldError).Key)
	})

	t.Run("SingleModeRejectsList", func(t *testing.T) {
		f := NewListboxField("pick", ListboxOpts{
			ChoiceBaseOpts: ChoiceBaseOpts{Choices: coffeeChoices()},
		})
		assert.Panics(t, func() {
			f.ParseValue([]string{"latte", "moccha"})
		})
	})

	t.Run("MultipleMode", func(t *testing.T) {
		f := NewListboxField("pick", ListboxOpts{
			ChoiceBaseOpts: ChoiceBaseOpts{Choices: coffeeChoices()},
			Multiple:       true,
		})
		value, err := f.ParseValue([]string{"latte", "expresso"})
		require.NoError(t, err)
		assert.Equal(t, []string{"latte", "expresso"}, value)

		value, err = f.ParseValue(nil)
		require.NoError(t, err)
		assert.Equal(t, []string{}, value)
	})

	t.Run("RenderSelection", func(t *testing.T) {
		f := NewListboxField("pick", ListboxOpts{
			ChoiceBaseOpts: ChoiceBaseOpts{Choices: coffeeChoices()},
		})
		assert.Equal(t, []string{}, f.RenderValue(nil))
		assert.Equal(t, []string{"latte"}, f.RenderValue("latte"))
	})

	t.Run("DisplayNone", func(t *testing.T) {
		f := NewListboxField("pick", ListboxOpts{
			ChoiceBaseOpts: ChoiceBaseOpts{Choices: coffeeChoices()},
		})
		assert.Equal(t, "(none)", f.DisplayValue(nil))
	})
}

func TestDynamicChoices(t *testing.T) {
	f := NewMenuField("project", MenuOpts{})
	assert.Empty(t, f.Choices())

	// Late-bound option lists are set after construction.
	f.SetChoices(Choices("alpha", "beta"))
	require.Len(t, f.Choices(), 2)

	value, err := f.ParseValue("beta")
	require.NoError(t, err)
	assert.Equal(t, "beta", value)
}
