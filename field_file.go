package forma

import (
	"bytes"
	"io"
	"reflect"
)

///////////////////////////////////////////////////////////////////////////////
// Upload handle
///////////////////////////////////////////////////////////////////////////////

// Upload wraps an uploaded file as a caller-owned stream. The library
// never buffers or closes the underlying reader and does not retain the
// handle past the request being parsed; storing or re-reading the content
// is the caller's responsibility.
type Upload struct {
	reader      io.Reader
	filename    string
	contentType string
	size        int64
}

// NewUpload wraps a reader into an upload handle. size may be -1 when
// unknown.
func NewUpload(r io.Reader, filename, contentType string, size int64) *Upload {
	if r == nil {
		internalf("upload reader must not be nil")
	}
	return &Upload{reader: r, filename: filename, contentType: contentType, size: size}
}

// UploadFromBytes wraps raw submitted content into a virtual file.
func UploadFromBytes(content []byte, filename string) *Upload {
	return &Upload{
		reader:   bytes.NewReader(content),
		filename: filename,
		size:     int64(len(content)),
	}
}

func (u *Upload) Read(p []byte) (int, error) { return u.reader.Read(p) }
func (u *Upload) Filename() string           { return u.filename }
func (u *Upload) ContentType() string        { return u.contentType }

// Size returns the upload length in bytes, or -1 when unknown.
func (u *Upload) Size() int64 { return u.size }

///////////////////////////////////////////////////////////////////////////////
// FileField
///////////////////////////////////////////////////////////////////////////////

var (
	fileParseTypes  = []reflect.Type{UploadType, StringType, ByteSliceType, ArgsType}
	fileDataTypes   = []reflect.Type{UploadType}
	fileRenderTypes = []reflect.Type{StringType}
)

// FileField accepts a file upload. A zero-length upload is treated as
// absence, which is why the required check lives here instead of the
// shared trait: absence and an empty file must be told apart in one
// place. With Clear set, the field consumes a second variable (a
// "<name>_clear" checkbox) that forces the value to nil so callers can
// drop a previously stored file.
type FileField struct {
	BaseField
	accept string
}

type FileOpts struct {
	BaseOpts
	Required bool
	// Clear adds the companion clear-checkbox variable.
	Clear bool
	// Accept is a renderer hint listing acceptable media types.
	Accept string
}

func NewFileField(name string, opts FileOpts) *FileField {
	base := opts.BaseOpts
	if opts.Clear && len(base.VarNames) == 0 {
		base.VarNames = []string{name, name + "_clear"}
	}
	f := &FileField{
		BaseField: newBaseField(name, base, Traits{SupportsRequired: true}),
		accept:    opts.Accept,
	}
	f.setRequired(opts.Required)
	return f
}

func (f *FileField) Accept() string { return f.accept }

func (f *FileField) TypesParse() []reflect.Type  { return fileParseTypes }
func (f *FileField) TypesData() []reflect.Type   { return fileDataTypes }
func (f *FileField) TypesRender() []reflect.Type { return fileRenderTypes }

func (f *FileField) ParseValue(raw any) (any, error) {
	cleared := false
	if args, ok := raw.(Args); ok {
		// Multi-varname form: first variable carries the upload, the
		// second the clear checkbox.
		vars := f.VarNames()
		if len(vars) < 2 {
			internalf("field %q received an argument map but declares a single variable", f.Name())
		}
		if flag, _ := asString(args[vars[1]]); flag != "" {
			cleared = true
		}
		raw = args[vars[0]]
	}

	upload := f.wrap(raw)
	if cleared {
		return nil, nil
	}
	if upload == nil || upload.Size() == 0 {
		if f.Required() {
			return nil, NewFieldError(MsgFileRequired)
		}
		return nil, nil
	}
	return upload, nil
}

// wrap coerces the accepted raw shapes into an upload handle, nil
// meaning absent.
func (f *FileField) wrap(raw any) *Upload {
	switch v := raw.(type) {
	case nil:
		return nil
	case *Upload:
		return v
	case string:
		if v == "" {
			return nil
		}
		return UploadFromBytes([]byte(v), "")
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return UploadFromBytes(v, "")
	default:
		if r, ok := raw.(io.Reader); ok {
			return NewUpload(r, "", "", -1)
		}
		internalf("field %q received parse value of type %T", f.Name(), raw)
		return nil
	}
}

// RenderValue always renders empty: browsers do not allow prefilling a
// file input.
func (f *FileField) RenderValue(data any) any {
	return ""
}

// DisplayValue refuses to run: there is no sensible read-only projection
// of an upload stream.
func (f *FileField) DisplayValue(data any) string {
	internalf("field %q is a file upload and has no display value", f.Name())
	return ""
}
