// Package naming converts identifiers between the case conventions used by
// the supported target languages. Every function is pure, total over
// arbitrary identifier strings, and idempotent: converting an already
// converted identifier is a no-op. Naming is a property of the identifier
// and the convention, never of the call site.
package naming

import (
	"strings"
	"unicode"
)

// ToSnake converts an identifier to snake_case.
func ToSnake(s string) string {
	words := split(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// ToUpperSnake converts an identifier to UPPER_SNAKE_CASE.
func ToUpperSnake(s string) string {
	words := split(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w)
	}
	return strings.Join(words, "_")
}

// ToLowerCamel converts an identifier to lowerCamelCase.
func ToLowerCamel(s string) string {
	words := split(s)
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		b.WriteString(title(w))
	}
	return b.String()
}

// ToUpperCamel converts an identifier to UpperCamelCase.
func ToUpperCamel(s string) string {
	words := split(s)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(title(w))
	}
	return b.String()
}

func title(w string) string {
	if w == "" {
		return ""
	}
	runes := []rune(w)
	out := make([]rune, 0, len(runes))
	out = append(out, unicode.ToUpper(runes[0]))
	for _, r := range runes[1:] {
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}

// split breaks an identifier into words. Non-alphanumeric runes separate
// words and are dropped. Within alphanumeric runs, words break at
// lower-to-upper transitions, before the last upper of an upper run followed
// by a lower (so "HTTPServer" splits into "HTTP", "Server"), and at
// letter/digit transitions.
func split(s string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = nil
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case len(current) == 0:
			current = append(current, r)
		default:
			prev := current[len(current)-1]
			boundary := false
			switch {
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				boundary = true
			case unicode.IsDigit(prev) != unicode.IsDigit(r):
				boundary = true
			case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				// End of an upper run: the final upper starts the next word.
				boundary = true
			}
			if boundary {
				flush()
			}
			current = append(current, r)
		}
	}
	flush()
	return words
}
