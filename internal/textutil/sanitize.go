package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxTitleTokenLen bounds the title portion of a project directory name.
const maxTitleTokenLen = 50

var diacriticFolder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// FoldDiacritics rewrites accented characters to their base form. Input that
// fails to transform is returned unchanged.
func FoldDiacritics(value string) string {
	folded, _, err := transform.String(diacriticFolder, value)
	if err != nil {
		return value
	}
	return folded
}

// SanitizeTitleToken converts an event title into the directory-name token
// used for project identifiers. Letters, digits, spaces, dashes, and
// underscores survive; everything else is dropped. The result is trimmed to
// 50 characters and spaces become underscores. Returns "untitled" when
// nothing survives.
func SanitizeTitleToken(title string) string {
	folded := FoldDiacritics(strings.TrimSpace(title))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	token := strings.TrimRight(b.String(), " ")
	if len(token) > maxTitleTokenLen {
		token = strings.TrimRight(token[:maxTitleTokenLen], " ")
	}
	token = strings.ReplaceAll(token, " ", "_")
	if token == "" {
		return "untitled"
	}
	return token
}

// Truncate bounds a diagnostic string to limit bytes, appending an ellipsis
// marker when content was dropped. Non-positive limits return the input.
func Truncate(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	cut := value[:limit]
	// Trim only leftover bytes of a rune split at the boundary; invalid
	// bytes earlier in the input (raw process output) stay as they are.
	for i := 0; i < utf8.UTFMax-1 && len(cut) > 0; i++ {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size > 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut + "..."
}
