package post

import "strings"

// Slugify derives the URL slug for a title. The result is lowercase, keeps
// ASCII alphanumerics and Hangul syllables, collapses every other run of
// characters into a single '-', and never starts or ends with a separator.
// The derivation is deterministic: the same title always yields the same slug.
func Slugify(title string) string {
	lowered := strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	pending := false
	for _, r := range lowered {
		if slugRune(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pending = false
			continue
		}
		pending = true
	}
	return b.String()
}

func slugRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r >= '가' && r <= '힣': // Hangul syllables
		return true
	}
	return false
}
