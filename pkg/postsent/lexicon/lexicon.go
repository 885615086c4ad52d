package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

var (
	//go:embed vader_lexicon.txt
	valenceData string

	//go:embed emoji_utf8_lexicon.txt
	emojiData string

	//go:embed rules.yaml
	rulesData []byte
)

// Lexicon stores the read-only tables consumed by the polarity scorer:
// - Valences: word or emoticon -> mean valence, roughly [-4, +4]
// - Boosters: degree modifiers ("very", "kind of") -> scalar increment
// - Negations: words that flip the valence of what follows
// - Idioms: multi-word expressions with a fixed valence
// - Emoji: emoji rune -> English description, scored as words
//
// A Lexicon is never modified after construction. Merge returns a copy.
type Lexicon struct {
	valences  map[string]float64
	boosters  map[string]float64
	negations map[string]struct{}
	idioms    map[string]float64
	emoji     map[rune]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		valences:  make(map[string]float64),
		boosters:  make(map[string]float64),
		negations: make(map[string]struct{}),
		idioms:    make(map[string]float64),
		emoji:     make(map[rune]string),
	}
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the built-in English lexicon, parsed once from the
// embedded data files and shared by every caller.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lex, err := build(valenceData, emojiData, rulesData)
		if err != nil {
			panic(fmt.Sprintf("lexicon: embedded data: %v", err))
		}
		defaultLex = lex
	})
	return defaultLex
}

func build(valences, emoji string, rules []byte) (*Lexicon, error) {
	lex := New()
	lex.valences = ParseValences(valences)
	lex.emoji = ParseEmoji(emoji)

	o, err := ParseOverrides(rules)
	if err != nil {
		return nil, err
	}
	lex.apply(o)
	return lex, nil
}

// ParseValences parses tab-separated "token\tvalence[\t...]" lines, the
// layout of vader_lexicon.txt. Extra columns (standard deviation, raw
// ratings) are ignored, as are blank, comment and malformed lines.
func ParseValences(raw string) map[string]float64 {
	m := make(map[string]float64, 8192)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || line[0] == '#' {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}
		token := strings.TrimSpace(parts[0])
		valence, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if token == "" || err != nil {
			continue
		}
		m[token] = valence
	}
	return m
}

// ParseEmoji parses tab-separated "emoji\tdescription" lines. Entries whose
// key is not a single rune are skipped.
func ParseEmoji(raw string) map[rune]string {
	m := make(map[rune]string, 2048)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || line[0] == '#' {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		r, size := utf8.DecodeRuneInString(parts[0])
		if r == utf8.RuneError || size != len(parts[0]) {
			continue
		}
		m[r] = strings.TrimSpace(parts[1])
	}
	return m
}

// LoadValenceFile reads a VADER-format lexicon file and returns a copy
// of l whose valence table is replaced by the file's contents.
func (l *Lexicon) LoadValenceFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	valences := ParseValences(string(data))
	if len(valences) == 0 {
		return nil, fmt.Errorf("lexicon file %s: no valence entries", path)
	}
	out := l.clone()
	out.valences = valences
	return out, nil
}

// Valence returns the valence of a lower-cased word or emoticon.
func (l *Lexicon) Valence(token string) (float64, bool) {
	v, ok := l.valences[token]
	return v, ok
}

// Contains reports whether token has an entry in the valence table.
func (l *Lexicon) Contains(token string) bool {
	_, ok := l.valences[token]
	return ok
}

// Booster returns the scalar increment of a degree modifier.
func (l *Lexicon) Booster(token string) (float64, bool) {
	v, ok := l.boosters[token]
	return v, ok
}

// IsNegation reports whether token is a negation word.
func (l *Lexicon) IsNegation(token string) bool {
	_, ok := l.negations[token]
	return ok
}

// Idiom returns the valence of a space-joined lower-case phrase.
func (l *Lexicon) Idiom(phrase string) (float64, bool) {
	v, ok := l.idioms[phrase]
	return v, ok
}

// Emoji returns the description of an emoji rune.
func (l *Lexicon) Emoji(r rune) (string, bool) {
	d, ok := l.emoji[r]
	return d, ok
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() Stats {
	return Stats{
		Valences:  len(l.valences),
		Boosters:  len(l.boosters),
		Negations: len(l.negations),
		Idioms:    len(l.idioms),
		Emoji:     len(l.emoji),
	}
}

// Stats holds statistics about lexicon contents.
type Stats struct {
	Valences  int
	Boosters  int
	Negations int
	Idioms    int
	Emoji     int
}

func (l *Lexicon) clone() *Lexicon {
	out := New()
	for k, v := range l.valences {
		out.valences[k] = v
	}
	for k, v := range l.boosters {
		out.boosters[k] = v
	}
	for k := range l.negations {
		out.negations[k] = struct{}{}
	}
	for k, v := range l.idioms {
		out.idioms[k] = v
	}
	for k, v := range l.emoji {
		out.emoji[k] = v
	}
	return out
}
