// Package forma provides declarative server-side form definition, parsing
// and validation.
//
// A form is described once as an ordered collection of typed fields. Each
// submission is then handled by a single-use FormParser, which converts
// raw, untyped arguments (strings, lists of strings, file uploads) into
// typed application values, accumulating per-field errors along the way:
//
//	form := forma.NewForm("contact", forma.FormOpts{Action: "/contact"})
//	form.AddField(forma.NewStringField("name", forma.StringOpts{
//		Required: true,
//		MinLen:   4,
//		MaxLen:   60,
//	}))
//	form.AddField(forma.NewIntField("age", forma.IntOpts{MinVal: forma.I(0)}))
//
//	parser := forma.NewFormParser(form, forma.ParserOpts{
//		Redirector:  redirector,
//		RedirectURL: "/contact",
//	})
//	parser.ParseArgs(request, nil, nil)
//	values, err := parser.End()
//	if err != nil {
//		return // the redirector has been handed status, values and errors
//	}
//	name := values.String("name")
//
// Raw framework arguments are adapted through a Normalizer. Built-in
// normalizers cover url.Values, JSON bodies and *http.Request; custom ones
// are registered on a NormalizerRegistry keyed by source type.
//
// Two classes of failure are kept strictly apart. User-caused input
// problems surface as *FieldError values collected into the parser's error
// map and never escape the form boundary. Contract violations (a raw value
// outside a field's declared parse types, duplicate field names, a parser
// finalized twice, a parser garbage-collected before End or Cancel) panic
// immediately: they indicate a bug in the calling code, not bad input.
//
// Rendering is delegated to an external FormRenderer implementation; the
// package only prepares render values and error annotations for it.
package forma
