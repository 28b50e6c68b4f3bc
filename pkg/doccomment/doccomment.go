// Package doccomment frames free-text descriptions in the comment syntax of
// a target language. Formatting never alters the semantic content of the
// text, only its framing: wrapping, prefixes, and delimiters.
package doccomment

import "strings"

// Style selects the comment framing for a target language.
type Style string

const (
	// StyleLine prefixes every line with "// " (go, rust, c-family).
	StyleLine Style = "line"
	// StyleHash prefixes every line with "# " (python tooling, ruby, shell).
	StyleHash Style = "hash"
	// StyleBlock wraps the text in /** ... */ (typescript, java, kotlin).
	StyleBlock Style = "block"
	// StyleDocstring wraps the text in triple quotes (python).
	StyleDocstring Style = "docstring"
)

// Width is the conventional wrap column for generated comments.
const Width = 80

// deprecationNotice is the line prepended when a declaration is deprecated.
const deprecationNotice = "Deprecated."

// Format renders text as a comment block in the given style, wrapping long
// lines at Width columns. When deprecated is set, a deprecation notice line
// is prepended ahead of the text.
func Format(text string, style Style, deprecated bool) string {
	lines := wrapLines(WithDeprecation(text, deprecated))
	if len(lines) == 0 {
		return ""
	}

	switch style {
	case StyleHash:
		return prefixLines(lines, "# ")
	case StyleBlock:
		if len(lines) == 1 {
			return "/** " + lines[0] + " */"
		}
		var b strings.Builder
		b.WriteString("/**\n")
		for _, line := range lines {
			b.WriteString(" * ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString(" */")
		return b.String()
	case StyleDocstring:
		if len(lines) == 1 {
			return `"""` + lines[0] + `"""`
		}
		return `"""` + strings.Join(lines, "\n") + "\n\"\"\""
	default:
		return prefixLines(lines, "// ")
	}
}

// WithDeprecation prepends the deprecation notice to text when deprecated is
// set, leaving the text untouched otherwise.
func WithDeprecation(text string, deprecated bool) string {
	if !deprecated {
		return text
	}
	if strings.TrimSpace(text) == "" {
		return deprecationNotice
	}
	return deprecationNotice + "\n\n" + text
}

func prefixLines(lines []string, prefix string) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			out[i] = strings.TrimRight(prefix, " ")
			continue
		}
		out[i] = prefix + line
	}
	return strings.Join(out, "\n")
}

// wrapLines splits text on explicit newlines and wraps each resulting line
// at Width columns, breaking only at spaces so no word is ever altered.
func wrapLines(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	var out []string
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimRight(line, " \t")
		if len(line) <= Width {
			out = append(out, line)
			continue
		}
		out = append(out, wrapLine(line)...)
	}
	return out
}

func wrapLine(line string) []string {
	var out []string
	words := strings.Fields(line)
	var current string
	for _, word := range words {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= Width:
			current += " " + word
		default:
			out = append(out, current)
			current = word
		}
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}
