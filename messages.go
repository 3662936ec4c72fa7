package forma

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// MsgKey is a symbolic identifier for a user-facing message template.
// Fields report errors by key so that deployments can localize the
// templates without touching field logic.
type MsgKey string

const (
	MsgRequiredValue   MsgKey = "required-value"
	MsgInvalidEncoding MsgKey = "invalid-encoding"

	MsgTextTooShort     MsgKey = "text-too-short"
	MsgTextTooLong      MsgKey = "text-too-long"
	MsgTextInvalidChars MsgKey = "text-invalid-chars"
	MsgTextNoNewlines   MsgKey = "text-no-newlines"
	MsgTextNotEncodable MsgKey = "text-not-encodable"

	MsgInvalidEmail MsgKey = "invalid-email"
	MsgLocalEmail   MsgKey = "local-email"
	MsgInvalidURL   MsgKey = "invalid-url"

	MsgInvalidNumber  MsgKey = "invalid-number"
	MsgNumberTooSmall MsgKey = "number-too-small"
	MsgNumberTooLarge MsgKey = "number-too-large"

	MsgOneChoiceRequired MsgKey = "one-choice-required"
	MsgChoiceRequired    MsgKey = "choice-required"

	MsgInvalidDate MsgKey = "invalid-date"

	MsgFileRequired MsgKey = "file-required"

	MsgInvalidValue   MsgKey = "invalid-value"
	MsgPleaseFixError MsgKey = "please-fix-error"
	MsgMultipleErrors MsgKey = "multiple-errors"

	MsgDisplayTrue  MsgKey = "display-true"
	MsgDisplayFalse MsgKey = "display-false"
	MsgDisplayNone  MsgKey = "display-none"
	MsgAnyDay       MsgKey = "any-day"
)

// Catalog maps message keys to fmt-style templates for one locale.
type Catalog map[MsgKey]string

var englishCatalog = Catalog{
	MsgRequiredValue:   "This field is required.",
	MsgInvalidEncoding: "The submitted text could not be decoded; check your browser's character encoding.",

	MsgTextTooShort:     "The value must be at least %d characters long.",
	MsgTextTooLong:      "The value must be at most %d characters long.",
	MsgTextInvalidChars: "The value contains invalid characters.",
	MsgTextNoNewlines:   "The value must not span multiple lines.",
	MsgTextNotEncodable: "The value contains characters not representable in %s.",

	MsgInvalidEmail: "That does not look like a valid email address.",
	MsgLocalEmail:   "A fully qualified email address is required.",
	MsgInvalidURL:   "That does not look like a valid URL.",

	MsgInvalidNumber:  "That is not a valid number.",
	MsgNumberTooSmall: "The value must be at least %v.",
	MsgNumberTooLarge: "The value must be at most %v.",

	MsgOneChoiceRequired: "Please select one of the choices.",
	MsgChoiceRequired:    "Please select at least one of the choices.",

	MsgInvalidDate: "That is not a valid date; use a format like 2005-10-03.",

	MsgFileRequired: "Please select a file to upload.",

	MsgInvalidValue:   "The value is invalid.",
	MsgPleaseFixError: "Please fix the error below.",
	MsgMultipleErrors: "Please fix the errors below.",

	MsgDisplayTrue:  "yes",
	MsgDisplayFalse: "no",
	MsgDisplayNone:  "(none)",
	MsgAnyDay:       "(any day)",
}

var frenchCatalog = Catalog{
	MsgRequiredValue:   "Ce champ est obligatoire.",
	MsgInvalidEncoding: "Le texte soumis n'a pas pu être décodé; vérifiez l'encodage de votre navigateur.",

	MsgTextTooShort:     "La valeur doit contenir au moins %d caractères.",
	MsgTextTooLong:      "La valeur doit contenir au plus %d caractères.",
	MsgTextInvalidChars: "La valeur contient des caractères invalides.",
	MsgTextNoNewlines:   "La valeur ne doit pas contenir de saut de ligne.",
	MsgTextNotEncodable: "La valeur contient des caractères non représentables en %s.",

	MsgInvalidEmail: "Cela ne ressemble pas à une adresse courriel valide.",
	MsgLocalEmail:   "Une adresse courriel complète est requise.",
	MsgInvalidURL:   "Cela ne ressemble pas à une URL valide.",

	MsgInvalidNumber:  "Ce n'est pas un nombre valide.",
	MsgNumberTooSmall: "La valeur doit être au moins %v.",
	MsgNumberTooLarge: "La valeur doit être au plus %v.",

	MsgOneChoiceRequired: "Veuillez sélectionner un des choix.",
	MsgChoiceRequired:    "Veuillez sélectionner au moins un des choix.",

	MsgInvalidDate: "Ce n'est pas une date valide; utilisez un format comme 2005-10-03.",

	MsgFileRequired: "Veuillez sélectionner un fichier.",

	MsgInvalidValue:   "La valeur est invalide.",
	MsgPleaseFixError: "Veuillez corriger l'erreur ci-dessous.",
	MsgMultipleErrors: "Veuillez corriger les erreurs ci-dessous.",

	MsgDisplayTrue:  "oui",
	MsgDisplayFalse: "non",
	MsgDisplayNone:  "(aucun)",
	MsgAnyDay:       "(peu importe)",
}

// builtinCatalogs lists the locales shipped with the package, in matcher
// priority order. English is the fallback for any unmatched locale.
var builtinCatalogs = map[language.Tag]Catalog{
	language.English: englishCatalog,
	language.French:  frenchCatalog,
}

///////////////////////////////////////////////////////////////////////////////
// Messages registry
///////////////////////////////////////////////////////////////////////////////

// Messages resolves message keys to translated, formatted strings for one
// selected locale. Instances are immutable after construction and safe to
// share; construct one per deployment (or per request locale) and inject
// it into FormParser via ParserOpts.
type Messages struct {
	tag     language.Tag
	catalog Catalog
}

type MessagesOpts struct {
	// Locale selects the catalog via x/text language matching.
	// The undefined tag selects English.
	Locale language.Tag
	// Catalogs adds or replaces whole per-locale catalogs before matching.
	Catalogs map[language.Tag]Catalog
	// Override replaces individual templates of the matched catalog.
	Override Catalog
}

func NewMessages(opts MessagesOpts) *Messages {
	catalogs := make(map[language.Tag]Catalog, len(builtinCatalogs)+len(opts.Catalogs))
	tags := []language.Tag{language.English}
	for tag, cat := range builtinCatalogs {
		catalogs[tag] = cat
		if tag != language.English {
			tags = append(tags, tag)
		}
	}
	for tag, cat := range opts.Catalogs {
		if _, exists := catalogs[tag]; !exists {
			tags = append(tags, tag)
		}
		catalogs[tag] = cat
	}

	matcher := language.NewMatcher(tags)
	tag, _, _ := matcher.Match(opts.Locale)
	// Match may return a more specific tag than any catalog key (e.g.
	// fr-u-rg-… for fr); walk back up to the registered base.
	base := tag
	for {
		if _, ok := catalogs[base]; ok {
			break
		}
		base = base.Parent()
		if base == language.Und {
			base = language.English
			break
		}
	}

	catalog := make(Catalog, len(englishCatalog))
	for key, tmpl := range englishCatalog {
		catalog[key] = tmpl
	}
	for key, tmpl := range catalogs[base] {
		catalog[key] = tmpl
	}
	for key, tmpl := range opts.Override {
		catalog[key] = tmpl
	}

	return &Messages{tag: tag, catalog: catalog}
}

var defaultMessages = NewMessages(MessagesOpts{})

// DefaultMessages returns the shared English registry.
func DefaultMessages() *Messages {
	return defaultMessages
}

// Locale returns the matched locale tag.
func (m *Messages) Locale() language.Tag {
	return m.tag
}

// Format resolves key and interpolates args into its template. Formatting
// an unregistered key is a contract violation.
func (m *Messages) Format(key MsgKey, args ...any) string {
	tmpl, ok := m.catalog[key]
	if !ok {
		internalf("no message registered for key %q", key)
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// Resolve formats a FieldError through the registry.
func (m *Messages) Resolve(fe *FieldError) string {
	return m.Format(fe.Key, fe.Args...)
}

///////////////////////////////////////////////////////////////////////////////
// Month-name tables
///////////////////////////////////////////////////////////////////////////////

// Month-name tables for the natural-language date formats. Lookup is
// case-insensitive and accepts unambiguous prefixes of at least three
// characters ("may", "sep", "sept", "september").
var monthTables = map[language.Tag][]string{
	language.English: {
		"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december",
	},
	language.French: {
		"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre",
	},
}

// monthNumber resolves a month name to 1..12 for the given locale,
// falling back to English. Returns 0 when the name is not recognized.
func monthNumber(name string, locale language.Tag) int {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) < 3 {
		return 0
	}
	table, ok := monthTables[locale]
	if !ok {
		base := locale
		for base != language.Und {
			if t, found := monthTables[base]; found {
				table = t
				ok = true
				break
			}
			base = base.Parent()
		}
	}
	if !ok {
		table = monthTables[language.English]
	}

	match := 0
	for i, month := range table {
		if strings.HasPrefix(month, name) {
			if match != 0 {
				return 0 // ambiguous prefix
			}
			match = i + 1
		}
	}
	return match
}
