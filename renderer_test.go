package forma

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrepareRenderValue(t *testing.T) {
	field := NewStringField("name", StringOpts{
		BaseOpts: BaseOpts{Initial: "Anonymous"},
	})

	t.Run("ErrorReplacementWins", func(t *testing.T) {
		value := PrepareRenderValue(field,
			map[string]any{"name": "Martin"},
			map[string]ErrorPair{"name": {Message: "bad", Replacement: "Mar tin"}})
		assert.Equal(t, "Mar tin", value)
	})

	t.Run("ParsedValueNext", func(t *testing.T) {
		value := PrepareRenderValue(field,
			map[string]any{"name": "Martin"}, nil)
		assert.Equal(t, "Martin", value)
	})

	t.Run("InitialLast", func(t *testing.T) {
		assert.Equal(t, "Anonymous", PrepareRenderValue(field, nil, nil))
	})

	t.Run("NilValueProjected", func(t *testing.T) {
		// A present-but-nil entry means "parsed to absent": render that,
		// not the initial value.
		value := PrepareRenderValue(field, map[string]any{"name": nil}, nil)
		assert.Equal(t, "", value)
	})

	t.Run("BadReplacementPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			PrepareRenderValue(field, nil,
				map[string]ErrorPair{"name": {Replacement: 42}})
		})
	})
}
