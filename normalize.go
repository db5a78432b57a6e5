package qnty

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// spellingSynonyms maps regional spellings onto the catalog spelling. Applied
// after case folding and separator removal.
var spellingSynonyms = strings.NewReplacer(
	"metre", "meter",
	"litre", "liter",
	"gramme", "gram",
)

// NormalizeAlias folds a unit alias to its lookup key: NFKC (superscript
// digits become ASCII), Unicode case folding, spaces and underscores removed,
// hyphens removed unless they are an exponent sign, regional spellings
// unified, and one trailing plural "s" collapsed.
func NormalizeAlias(alias string) string {
	t := transform.Chain(
		norm.NFKC,
		cases.Fold(),
		runes.Remove(runes.Predicate(func(r rune) bool {
			return r == '_' || unicode.IsSpace(r)
		})),
		runes.Map(func(r rune) rune {
			if r == '−' { // U+2212, what NFKC makes of a superscript minus
				return '-'
			}
			return r
		}),
	)
	s, _, err := transform.String(t, alias)
	if err != nil {
		s = strings.ToLower(alias)
	}
	s = stripHyphens(s)
	s = spellingSynonyms.Replace(s)
	return collapsePlural(s)
}

// stripHyphens drops hyphens used as word separators and keeps the ones that
// sign an exponent ("m^-1", "s-2").
func stripHyphens(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		if r == '-' {
			next, _ := utf8.DecodeRuneInString(s[i+1:])
			if !unicode.IsDigit(next) {
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// collapsePlural strips a trailing "s" that follows a letter other than "s",
// so "kg/s" and "ms" keep theirs.
func collapsePlural(s string) string {
	if utf8.RuneCountInString(s) <= 2 || !strings.HasSuffix(s, "s") {
		return s
	}
	prev, _ := utf8.DecodeLastRuneInString(s[:len(s)-1])
	if prev == 's' || !unicode.IsLetter(prev) {
		return s
	}
	return s[:len(s)-1]
}
