package polarity

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// punctuation is the ASCII punctuation set trimmed from word edges.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// replaceEmoji swaps each known emoji for its description, separated from
// the preceding text by a space.
func (s *Scorer) replaceEmoji(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	prevSpace := true
	for _, r := range text {
		if desc, ok := s.lex.Emoji(r); ok {
			if !prevSpace {
				b.WriteByte(' ')
			}
			b.WriteString(desc)
			prevSpace = false
			continue
		}
		b.WriteRune(r)
		prevSpace = r == ' '
	}
	return strings.TrimSpace(b.String())
}

// splitWords splits on whitespace and trims edge punctuation from each
// token, unless that leaves two characters or fewer, which keeps
// emoticons like ":)" and ":D" intact.
func splitWords(text string) []string {
	fields := strings.Fields(text)
	for i, f := range fields {
		stripped := strings.Trim(f, punctuation)
		if utf8.RuneCountInString(stripped) > 2 {
			fields[i] = stripped
		}
	}
	return fields
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}

// isUpper reports whether s has at least one cased letter and no
// lower-case ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r) || unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

// allCapDifferential reports whether some, but not all, words are upper
// case. Capitalization only counts as emphasis in that case.
func allCapDifferential(words []string) bool {
	caps := 0
	for _, w := range words {
		if isUpper(w) {
			caps++
		}
	}
	diff := len(words) - caps
	return diff > 0 && diff < len(words)
}
