package forma

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
)

///////////////////////////////////////////////////////////////////////////////
// Helpers
///////////////////////////////////////////////////////////////////////////////

// typeAllowed reports whether v belongs to one of the given declared
// types. nil is a member of every type domain: it stands for "absent" in
// parse values, "optional not set" in data values and "no replacement" in
// render values.
func typeAllowed(v any, types []reflect.Type) bool {
	if v == nil {
		return true
	}
	t := reflect.TypeOf(v)
	for _, allowed := range types {
		if t == allowed {
			return true
		}
	}
	return false
}

// typeNames renders a type list for contract-violation reports.
func typeNames(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

// checkParseValue panics unless raw is nil or one of the field's declared
// parse types.
func checkParseValue(fld Field, raw any) {
	if !typeAllowed(raw, fld.TypesParse()) {
		internalf("field %q received parse value of type %T, expected one of [%s]",
			fld.Name(), raw, typeNames(fld.TypesParse()))
	}
}

// checkDataValue panics unless v is nil or one of the field's declared
// data types.
func checkDataValue(fld Field, v any) {
	if !typeAllowed(v, fld.TypesData()) {
		internalf("field %q produced data value of type %T, expected one of [%s]",
			fld.Name(), v, typeNames(fld.TypesData()))
	}
}

// checkRenderValue panics unless v is nil or one of the field's declared
// render types.
func checkRenderValue(fld Field, v any) {
	if !typeAllowed(v, fld.TypesRender()) {
		internalf("field %q offered render value of type %T, expected one of [%s]",
			fld.Name(), v, typeNames(fld.TypesRender()))
	}
}

// asString coerces a scalar parse value to a string, treating nil as
// absent. A list reaching a scalar-only field is a contract violation and
// must be rejected by the caller before coercing.
func asString(raw any) (value string, present bool) {
	if raw == nil {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		internalf("expected scalar string parse value, got %T", raw)
	}
	return s, true
}

// asStringList coerces a parse value to a list of strings, wrapping a
// single scalar into a one-element list and treating nil as an empty
// list.
func asStringList(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case string:
		return []string{v}
	case []string:
		return v
	default:
		internalf("expected string or []string parse value, got %T", raw)
		return nil
	}
}

// hasControlChars reports whether s contains control characters.
// Newlines and tabs are judged by the caller's policy.
func hasControlChars(s string, allowNewlines bool) bool {
	for _, r := range s {
		if r == '\t' {
			continue
		}
		if r == '\n' || r == '\r' {
			if allowNewlines {
				continue
			}
			return true
		}
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// normalizeNewlines folds CRLF and lone CR into LF.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// decodeCharset decodes raw bytes using an HTML charset name (the form's
// accept-charset). An unknown charset is a configuration bug; a decode
// failure is reported as an error for the caller to convert into a
// user-visible invalid-encoding message.
func decodeCharset(raw []byte, charset string) (string, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		internalf("unknown accept-charset %q: %v", charset, err)
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decoding %s bytes: %w", charset, err)
	}
	// The UTF-8 decoder substitutes U+FFFD instead of failing; surface
	// mangled input as a decode error rather than passing it through.
	if !utf8.Valid(raw) && strings.EqualFold(charset, "utf-8") {
		return "", fmt.Errorf("decoding %s bytes: invalid byte sequence", charset)
	}
	return string(decoded), nil
}

// encodableIn reports whether s can be represented in the named charset.
// Used by text fields configured with an encoding constraint.
func encodableIn(s string, charset string) bool {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		internalf("unknown field encoding %q: %v", charset, err)
	}
	encoded, err := enc.NewEncoder().String(s)
	if err != nil {
		return false
	}
	// Some encoders substitute rather than fail; round-trip to be sure.
	decoded, err := enc.NewDecoder().String(encoded)
	return err == nil && decoded == s
}

// I returns a pointer to an int64 bound, for numeric field options.
func I(v int64) *int64 { return &v }

// F returns a pointer to a float64 bound, for numeric field options.
func F(v float64) *float64 { return &v }
