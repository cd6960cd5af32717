package languageutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var TitleCaser = cases.Title(language.BrazilianPortuguese)
var LowerCaser = cases.Lower(language.BrazilianPortuguese)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases and strips diacritics so catalog text in Portuguese and
// English matches the same way, e.g. "Algodão" -> "algodao".
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		// a plain lowering miss is better than an error here
		return strings.ToLower(s)
	}
	return LowerCaser.String(folded)
}

// FoldContains reports whether haystack contains needle after folding both.
func FoldContains(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}
