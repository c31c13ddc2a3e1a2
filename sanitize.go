package main

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// sanitizeRegexps are applied in order to every extracted metadata value.
var sanitizeRegexps = []*regexp.Regexp{
	// Stray list numbering such as "3)" in front of a title
	regexp.MustCompile(`^\p{Nd}+\)`),
	// Anything that is not Cyrillic, Latin, a digit, space, period, comma or hyphen
	regexp.MustCompile(`[^а-яА-ЯёЁa-zA-Z0-9 .,-]`),
}

// sanitize cleans the first of the raw values into a filesystem-safe token.
//
// The returned flag reports whether cleaning changed the value. An empty
// slice yields ("", false); callers check len(values) themselves to detect
// missing or multi-valued metadata.
func sanitize(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	raw := values[0]

	// Decomposed letters (и + U+0306) would otherwise lose their mark below
	cleaned := strings.TrimSpace(norm.NFC.String(raw))
	for _, re := range sanitizeRegexps {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = strings.TrimSpace(cleaned)

	return cleaned, cleaned != raw
}
