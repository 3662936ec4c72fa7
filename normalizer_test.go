package forma

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuesNormalizer(t *testing.T) {
	vn := NewValuesNormalizer()

	args, err := vn.Normalize(url.Values{
		"name":  {"Martin"},
		"tags":  {"a", "b"},
		"empty": {},
	})
	require.NoError(t, err)

	assert.Equal(t, "Martin", args["name"])
	assert.Equal(t, []string{"a", "b"}, args["tags"])
	_, present := args["empty"]
	assert.False(t, present)

	_, err = vn.Normalize("not values")
	assert.Error(t, err)
}

func TestJSONNormalizer(t *testing.T) {
	jn := NewJSONNormalizer()

	t.Run("Object", func(t *testing.T) {
		args, err := jn.Normalize([]byte(`{
			"name": "Martin",
			"age": 42,
			"tags": ["a", "b"],
			"photo": null
		}`))
		require.NoError(t, err)

		assert.Equal(t, "Martin", args["name"])
		assert.Equal(t, "42", args["age"])
		assert.Equal(t, []string{"a", "b"}, args["tags"])
		value, present := args["photo"]
		assert.True(t, present)
		assert.Nil(t, value)
	})

	t.Run("RejectsNonObject", func(t *testing.T) {
		for _, body := range []string{`[1, 2]`, `"scalar"`, `{broken`} {
			_, err := jn.Normalize([]byte(body))
			assert.Error(t, err, "body %s", body)
		}
	})
}

func TestHTTPRequestNormalizer(t *testing.T) {
	hn := NewHTTPRequestNormalizer(HTTPRequestNormalizerOpts{})

	t.Run("URLEncodedPost", func(t *testing.T) {
		request := httptest.NewRequest("POST", "/submit",
			strings.NewReader("name=Martin&tags=a&tags=b"))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		args, err := hn.Normalize(request)
		require.NoError(t, err)
		assert.Equal(t, "Martin", args["name"])
		assert.Equal(t, []string{"a", "b"}, args["tags"])
	})

	t.Run("QueryString", func(t *testing.T) {
		request := httptest.NewRequest("GET", "/submit?name=Jon", nil)
		args, err := hn.Normalize(request)
		require.NoError(t, err)
		assert.Equal(t, "Jon", args["name"])
	})

	t.Run("MultipartWithUpload", func(t *testing.T) {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		require.NoError(t, writer.WriteField("name", "Martin"))
		part, err := writer.CreateFormFile("photo", "me.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		request := httptest.NewRequest("POST", "/submit", &body)
		request.Header.Set("Content-Type", writer.FormDataContentType())

		args, err := hn.Normalize(request)
		require.NoError(t, err)
		assert.Equal(t, "Martin", args["name"])

		upload, ok := args["photo"].(*Upload)
		require.True(t, ok)
		assert.Equal(t, "me.png", upload.Filename())
		content, err := io.ReadAll(upload)
		require.NoError(t, err)
		assert.Equal(t, "fake image bytes", string(content))
	})

	t.Run("WrongSource", func(t *testing.T) {
		_, err := hn.Normalize(url.Values{})
		assert.Error(t, err)
	})
}

func TestNormalizerRegistry(t *testing.T) {
	t.Run("SingleRegistration", func(t *testing.T) {
		reg := NewNormalizerRegistry(NormalizerRegistryOpts{})
		args, err := reg.Normalize(url.Values{"name": {"Jon"}})
		require.NoError(t, err)
		assert.Equal(t, "Jon", args["name"])
	})

	t.Run("NoNormalizerForType", func(t *testing.T) {
		reg := NewNormalizerRegistry(NormalizerRegistryOpts{ExcludeDefaults: true})
		_, err := reg.Normalize(url.Values{})
		assert.ErrorIs(t, err, ErrNoNormalizer)
	})

	t.Run("MultipleNeedSelection", func(t *testing.T) {
		reg := NewNormalizerRegistry(NormalizerRegistryOpts{
			Normalizers: []Normalizer{altValuesNormalizer{}},
		})

		_, err := reg.Normalize(url.Values{"name": {"Jon"}})
		assert.ErrorIs(t, err, ErrMultipleNormalizersAvailable)

		args, err := reg.WithNormalizer("alt").Normalize(url.Values{"name": {"Jon"}})
		require.NoError(t, err)
		assert.Equal(t, "alt:Jon", args["name"])

		args, err = reg.WithNormalizer(ValuesNormalizerName).Normalize(url.Values{"name": {"Jon"}})
		require.NoError(t, err)
		assert.Equal(t, "Jon", args["name"])
	})

	t.Run("UnknownNameSelection", func(t *testing.T) {
		reg := NewNormalizerRegistry(NormalizerRegistryOpts{})
		_, err := reg.WithNormalizer("nope").Normalize(url.Values{})
		assert.ErrorIs(t, err, ErrNormalizerNotFound)
	})
}

// altValuesNormalizer registers a second normalizer under the url.Values
// source type to exercise name-based selection.
type altValuesNormalizer struct{}

func (altValuesNormalizer) SourceType() reflect.Type { return urlValuesType }
func (altValuesNormalizer) Name() string             { return "alt" }

func (altValuesNormalizer) Normalize(source any) (Args, error) {
	values, ok := source.(url.Values)
	if !ok {
		return nil, fmt.Errorf("expected url.Values, got %T", source)
	}
	args := make(Args, len(values))
	for name, list := range values {
		if len(list) > 0 {
			args[name] = "alt:" + list[0]
		}
	}
	return args, nil
}
