package ingest

import "strings"

// Slugify converts a tower name into a URL-safe slug.
// Example: "Marina Heights 2" -> "marina-heights-2".
// Lowercase, runs of non-alphanumerics collapse to a single dash, no leading
// or trailing dash. Equal names always yield equal slugs; the reverse mapping
// is not guaranteed recoverable.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		} else {
			dash = true
		}
	}

	return b.String()
}

// IsValidSlug reports whether s is a well-formed slug: lowercase alphanumeric
// groups separated by single dashes.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}
	prev := byte('-')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			prev = c
		case c == '-':
			if prev == '-' {
				return false
			}
			prev = '-'
		default:
			return false
		}
	}
	return prev != '-'
}
