package model

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var separators = regexp.MustCompile(`[_\-\s.]+`)

// DefaultLabeler turns "firstName", "first_name" or "address2" into
// "First Name" and "Address 2".
func DefaultLabeler(name string) string {
	title := cases.Title(language.Und)
	var words []string
	for _, part := range separators.Split(name, -1) {
		for _, word := range splitWords(part) {
			words = append(words, title.String(word))
		}
	}
	return strings.Join(words, " ")
}

// splitWords breaks at lower-to-upper and letter/digit boundaries.
func splitWords(s string) []string {
	if s == "" {
		return nil
	}
	var (
		words []string
		start int
		prev  rune = -1
	)
	for i, r := range s {
		if prev >= 0 && boundary(prev, r) {
			words = append(words, s[start:i])
			start = i
		}
		prev = r
	}
	return append(words, s[start:])
}

func boundary(prev, cur rune) bool {
	return unicode.IsLower(prev) && unicode.IsUpper(cur) ||
		unicode.IsLetter(prev) && unicode.IsDigit(cur) ||
		unicode.IsDigit(prev) && unicode.IsLetter(cur)
}
