package render

import "strings"

// TexEscape escapes the LaTeX special characters of a plain text value.
// Double quotes become TeX-style closing quotes, since a bare " breaks
// babel's active characters.
func TexEscape(s string) string {
	return escape(s, false)
}

// TexEscapeLines escapes like TexEscape and additionally turns newlines into
// TeX line breaks, for multi-line values like postal blocks.
func TexEscapeLines(s string) string {
	return escape(s, true)
}

func escape(s string, linebreaks bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\textbackslash`)
		case '{', '}', '_', '#', '%', '&', '$':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '~':
			b.WriteString(`\~{}`)
		case '^':
			b.WriteString(`\^{}`)
		case '"':
			b.WriteString(`''`)
		case '\n':
			if linebreaks {
				b.WriteString(`\\`)
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
