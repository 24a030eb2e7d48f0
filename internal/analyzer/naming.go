package analyzer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	upperRunCaser = cases.Upper(language.Und)

	acronymBoundary = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	wordBoundary    = regexp.MustCompile(`([a-z])([A-Z])`)
)

// Capitalize upper-cases the first character and leaves the rest untouched.
// The first character goes through full Unicode case mapping, so "ß" becomes "SS".
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return upperRunCaser.String(s[:size]) + s[size:]
}

// StripTrailingS removes exactly one trailing lowercase "s".
// "addresses" -> "addresse", "bus" -> "bu".
func StripTrailingS(s string) string {
	return strings.TrimSuffix(s, "s")
}

// ToSnakeCase converts a class name to the snake_case file name stem.
// Digits stay attached to the preceding word: "Item2Detail" -> "item2_detail".
func ToSnakeCase(s string) string {
	s = acronymBoundary.ReplaceAllString(s, "${1}_${2}")
	s = wordBoundary.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

// Singularizer names the element class of an array from its field key.
type Singularizer func(key string) string

const (
	SingularizerSuffix  = "suffix"
	SingularizerInflect = "inflect"
)

// NewSingularizer returns the singularizer registered under name.
// Unknown names fall back to suffix stripping.
func NewSingularizer(name string) Singularizer {
	if name == SingularizerInflect {
		return inflect.Singularize
	}
	return StripTrailingS
}

// ObjectClassName is the class name for a nested object under key.
func (a *Analyzer) ObjectClassName(key string) string {
	return Capitalize(key)
}

// ItemClassName is the class name for the elements of an array of objects under key.
func (a *Analyzer) ItemClassName(key string) string {
	return Capitalize(a.singularize(key))
}

// FieldName returns the Dart field name for a JSON key.
func (a *Analyzer) FieldName(key string) string {
	if a.config.Naming.CamelCaseFields {
		if name := strcase.ToLowerCamel(key); name != "" {
			return name
		}
	}
	return key
}
