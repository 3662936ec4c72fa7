package forma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntField(t *testing.T) {
	t.Run("Bounds", func(t *testing.T) {
		f := NewIntField("count", IntOpts{MinVal: I(3), MaxVal: I(20)})

		value, err := f.ParseValue("17")
		require.NoError(t, err)
		assert.Equal(t, int64(17), value)

		_, err = f.ParseValue("25")
		require.Error(t, err)
		fe := err.(*FieldError)
		assert.Equal(t, MsgNumberTooLarge, fe.Key)
		assert.Equal(t, "25", fe.Replacement)

		_, err = f.ParseValue("2")
		require.Error(t, err)
		assert.Equal(t, MsgNumberTooSmall, err.(*FieldError).Key)
	})

	t.Run("BoundsInclusive", func(t *testing.T) {
		f := NewIntField("count", IntOpts{MinVal: I(3), MaxVal: I(20)})
		for _, raw := range []string{"3", "20"} {
			_, err := f.ParseValue(raw)
			require.NoError(t, err, "input %q", raw)
		}
	})

	t.Run("NonIntegerLiteral", func(t *testing.T) {
		f := NewIntField("count", IntOpts{})
		for _, raw := range []string{"17.3", "abc", "1e3"} {
			_, err := f.ParseValue(raw)
			require.Error(t, err, "input %q", raw)
			assert.Equal(t, MsgInvalidNumber, err.(*FieldError).Key)
		}
	})

	t.Run("AbsenceIsNil", func(t *testing.T) {
		f := NewIntField("count", IntOpts{})
		for _, raw := range []any{nil, "", "  "} {
			value, err := f.ParseValue(raw)
			require.NoError(t, err)
			assert.Nil(t, value)
		}
	})

	t.Run("Required", func(t *testing.T) {
		f := NewIntField("count", IntOpts{Required: true})
		_, err := f.ParseValue("")
		require.Error(t, err)
		assert.Equal(t, MsgRequiredValue, err.(*FieldError).Key)
	})

	t.Run("Render", func(t *testing.T) {
		f := NewIntField("count", IntOpts{})
		assert.Equal(t, "", f.RenderValue(nil))
		assert.Equal(t, "17", f.RenderValue(int64(17)))

		f = NewIntField("count", IntOpts{Format: "%04d"})
		assert.Equal(t, "0017", f.RenderValue(int64(17)))
		assert.Equal(t, "0017", f.DisplayValue(int64(17)))
	})

	t.Run("BadConfig", func(t *testing.T) {
		assert.Panics(t, func() {
			NewIntField("count", IntOpts{MinVal: I(10), MaxVal: I(3)})
		})
	})
}

func TestFloatField(t *testing.T) {
	t.Run("Parse", func(t *testing.T) {
		f := NewFloatField("ratio", FloatOpts{MinVal: F(0), MaxVal: F(1)})

		value, err := f.ParseValue("0.25")
		require.NoError(t, err)
		assert.Equal(t, 0.25, value)

		_, err = f.ParseValue("1.5")
		require.Error(t, err)
		assert.Equal(t, MsgNumberTooLarge, err.(*FieldError).Key)

		_, err = f.ParseValue("one half")
		require.Error(t, err)
		assert.Equal(t, MsgInvalidNumber, err.(*FieldError).Key)
	})

	t.Run("AbsenceIsNil", func(t *testing.T) {
		f := NewFloatField("ratio", FloatOpts{})
		value, err := f.ParseValue(nil)
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("FormatRender", func(t *testing.T) {
		f := NewFloatField("ratio", FloatOpts{Format: "%.2f"})
		assert.Equal(t, "0.25", f.RenderValue(0.25))
		assert.Equal(t, "", f.RenderValue(nil))
	})
}
