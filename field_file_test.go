package forma

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	u := UploadFromBytes([]byte("hello"), "greeting.txt")
	assert.Equal(t, "greeting.txt", u.Filename())
	assert.Equal(t, int64(5), u.Size())

	content, err := io.ReadAll(u)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	u = NewUpload(strings.NewReader("x"), "a.bin", "application/octet-stream", -1)
	assert.Equal(t, "application/octet-stream", u.ContentType())
	assert.Equal(t, int64(-1), u.Size())

	assert.Panics(t, func() { NewUpload(nil, "", "", 0) })
}

func TestFileField(t *testing.T) {
	t.Run("WrapsRawShapes", func(t *testing.T) {
		f := NewFileField("photo", FileOpts{})

		value, err := f.ParseValue("raw content")
		require.NoError(t, err)
		upload := value.(*Upload)
		content, _ := io.ReadAll(upload)
		assert.Equal(t, "raw content", string(content))

		value, err = f.ParseValue([]byte{0x1, 0x2})
		require.NoError(t, err)
		assert.Equal(t, int64(2), value.(*Upload).Size())

		value, err = f.ParseValue(strings.NewReader("streamed"))
		require.NoError(t, err)
		assert.Equal(t, int64(-1), value.(*Upload).Size())
	})

	t.Run("ZeroLengthIsAbsent", func(t *testing.T) {
		f := NewFileField("photo", FileOpts{})
		for _, raw := range []any{nil, "", []byte{}, UploadFromBytes(nil, "empty.txt")} {
			value, err := f.ParseValue(raw)
			require.NoError(t, err)
			assert.Nil(t, value)
		}
	})

	t.Run("Required", func(t *testing.T) {
		f := NewFileField("photo", FileOpts{Required: true})
		for _, raw := range []any{nil, "", UploadFromBytes(nil, "empty.txt")} {
			_, err := f.ParseValue(raw)
			require.Error(t, err)
			assert.Equal(t, MsgFileRequired, err.(*FieldError).Key)
		}

		value, err := f.ParseValue("content")
		require.NoError(t, err)
		assert.NotNil(t, value)
	})

	t.Run("ClearCheckbox", func(t *testing.T) {
		f := NewFileField("photo", FileOpts{Clear: true})
		require.Equal(t, []string{"photo", "photo_clear"}, f.VarNames())

		value, err := f.ParseValue(Args{
			"photo":       "old content",
			"photo_clear": "on",
		})
		require.NoError(t, err)
		assert.Nil(t, value)

		value, err = f.ParseValue(Args{
			"photo":       "new content",
			"photo_clear": nil,
		})
		require.NoError(t, err)
		assert.NotNil(t, value)
	})

	t.Run("RenderAlwaysEmpty", func(t *testing.T) {
		f := NewFileField("photo", FileOpts{})
		assert.Equal(t, "", f.RenderValue(nil))
		assert.Equal(t, "", f.RenderValue(UploadFromBytes([]byte("x"), "x.txt")))
	})

	t.Run("DisplayPanics", func(t *testing.T) {
		f := NewFileField("photo", FileOpts{})
		assert.Panics(t, func() {
			f.DisplayValue(UploadFromBytes([]byte("x"), "x.txt"))
		})
	})

	t.Run("UnsupportedShapePanics", func(t *testing.T) {
		f := NewFileField("photo", FileOpts{})
		assert.Panics(t, func() { f.ParseValue(42) })
	})
}
