package forma

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"

	"github.com/tidwall/gjson"
)

// Args is the normalized shape of a submission: variable name to raw
// value. Values are nil (absent), string, []string, []byte (undecoded
// text, decoded at the form boundary with the accept-charset), or
// *Upload.
type Args map[string]any

// Normalizer adapts one framework-native source of submitted arguments
// into the generic Args shape. Implementations are registered on a
// NormalizerRegistry keyed by their source type.
type Normalizer interface {
	// Normalize extracts the submission arguments from source.
	Normalize(source any) (Args, error)
	// SourceType returns the reflect.Type of the source this normalizer
	// works with.
	SourceType() reflect.Type
	// Name returns a unique identifier for this normalizer within its
	// source type.
	Name() string
}

///////////////////////////////////////////////////////////////////////////////
// ValuesNormalizer
///////////////////////////////////////////////////////////////////////////////

var urlValuesType = reflect.TypeOf(url.Values{})

// ValuesNormalizer adapts url.Values: single-valued keys collapse to a
// scalar, multi-valued keys stay lists.
type ValuesNormalizer struct{}

func NewValuesNormalizer() *ValuesNormalizer {
	return &ValuesNormalizer{}
}

func (vn *ValuesNormalizer) SourceType() reflect.Type { return urlValuesType }
func (vn *ValuesNormalizer) Name() string             { return ValuesNormalizerName }

func (vn *ValuesNormalizer) Normalize(source any) (Args, error) {
	values, ok := source.(url.Values)
	if !ok {
		return nil, fmt.Errorf("expected url.Values, got %T", source)
	}
	return argsFromValues(values), nil
}

func argsFromValues(values url.Values) Args {
	args := make(Args, len(values))
	for name, list := range values {
		switch len(list) {
		case 0:
		case 1:
			args[name] = list[0]
		default:
			args[name] = append([]string(nil), list...)
		}
	}
	return args
}

///////////////////////////////////////////////////////////////////////////////
// JSONNormalizer
///////////////////////////////////////////////////////////////////////////////

// JSONNormalizer adapts a JSON object body submitted as []byte. String
// members map to scalars, arrays to lists of strings, null to absence;
// other scalars are carried in their string form.
type JSONNormalizer struct{}

func NewJSONNormalizer() *JSONNormalizer {
	return &JSONNormalizer{}
}

func (jn *JSONNormalizer) SourceType() reflect.Type { return ByteSliceType }
func (jn *JSONNormalizer) Name() string             { return JSONNormalizerName }

func (jn *JSONNormalizer) Normalize(source any) (Args, error) {
	body, ok := source.([]byte)
	if !ok {
		return nil, fmt.Errorf("expected []byte, got %T", source)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("submission body is not valid JSON")
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("submission body is not a JSON object")
	}

	args := make(Args)
	parsed.ForEach(func(key, value gjson.Result) bool {
		switch {
		case value.Type == gjson.Null:
			args[key.String()] = nil
		case value.IsArray():
			var list []string
			for _, item := range value.Array() {
				list = append(list, item.String())
			}
			args[key.String()] = list
		default:
			args[key.String()] = value.String()
		}
		return true
	})
	return args, nil
}

///////////////////////////////////////////////////////////////////////////////
// HTTPRequestNormalizer
///////////////////////////////////////////////////////////////////////////////

var httpRequestType = reflect.TypeOf((*http.Request)(nil))

// HTTPRequestNormalizer adapts *http.Request: query and form values
// merge as in net/http, and multipart file parts are wrapped into
// Upload handles.
type HTTPRequestNormalizer struct {
	maxMemory int64
}

type HTTPRequestNormalizerOpts struct {
	// MaxMemory bounds the in-memory portion of a multipart body, as in
	// http.Request.ParseMultipartForm. Defaults to 32 MiB.
	MaxMemory int64
}

func NewHTTPRequestNormalizer(opts HTTPRequestNormalizerOpts) *HTTPRequestNormalizer {
	maxMemory := opts.MaxMemory
	if maxMemory <= 0 {
		maxMemory = 32 << 20
	}
	return &HTTPRequestNormalizer{maxMemory: maxMemory}
}

func (hn *HTTPRequestNormalizer) SourceType() reflect.Type { return httpRequestType }
func (hn *HTTPRequestNormalizer) Name() string             { return HTTPRequestNormalizerName }

func (hn *HTTPRequestNormalizer) Normalize(source any) (Args, error) {
	request, ok := source.(*http.Request)
	if !ok {
		return nil, fmt.Errorf("expected *http.Request, got %T", source)
	}
	// ParseForm/ParseMultipartForm cache their result on the request,
	// so normalizing the same request twice does not re-read the body.
	return hn.parse(request)
}

func (hn *HTTPRequestNormalizer) parse(request *http.Request) (Args, error) {
	contentType := request.Header.Get("Content-Type")
	if request.Method == http.MethodPost && hasMultipartBody(contentType) {
		if err := request.ParseMultipartForm(hn.maxMemory); err != nil {
			return nil, fmt.Errorf("parsing multipart form: %w", err)
		}
	} else {
		if err := request.ParseForm(); err != nil {
			return nil, fmt.Errorf("parsing form: %w", err)
		}
	}

	args := argsFromValues(request.Form)
	if request.MultipartForm != nil {
		for name, headers := range request.MultipartForm.File {
			if len(headers) == 0 {
				continue
			}
			header := headers[0]
			file, err := header.Open()
			if err != nil {
				return nil, fmt.Errorf("opening upload %q: %w", name, err)
			}
			args[name] = NewUpload(file, header.Filename,
				header.Header.Get("Content-Type"), header.Size)
		}
	}
	return args, nil
}

func hasMultipartBody(contentType string) bool {
	const prefix = "multipart/form-data"
	return len(contentType) >= len(prefix) && contentType[:len(prefix)] == prefix
}
