package lexicon

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Overrides holds additions to a lexicon, loaded from YAML.
//
// Expected format:
//
//	valences:
//	  goat: 2.5
//	  tanking: -1.8
//	boosters:
//	  mad: 0.293
//	negations: [aint]
//	idioms:
//	  buzzer beater: 2.6
//	emoji:
//	  "🐐": goat
//
// Keys are lower-cased; multi-word boosters and idioms are space-joined.
type Overrides struct {
	Valences  map[string]float64 `yaml:"valences"`
	Boosters  map[string]float64 `yaml:"boosters"`
	Negations []string           `yaml:"negations"`
	Idioms    map[string]float64 `yaml:"idioms"`
	Emoji     map[string]string  `yaml:"emoji"`
}

// ParseOverrides decodes an overrides document.
func ParseOverrides(data []byte) (*Overrides, error) {
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parse lexicon overrides: %w", err)
	}
	for key := range o.Emoji {
		if utf8.RuneCountInString(key) != 1 {
			return nil, fmt.Errorf("parse lexicon overrides: emoji key %q must be a single rune", key)
		}
	}
	return &o, nil
}

// LoadOverrides reads an overrides file.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseOverrides(data)
}

// Merge returns a copy of l with the overrides applied. l is unchanged.
func (l *Lexicon) Merge(o *Overrides) *Lexicon {
	out := l.clone()
	if o != nil {
		out.apply(o)
	}
	return out
}

func (l *Lexicon) apply(o *Overrides) {
	for k, v := range o.Valences {
		// Emoticons like ":D" are case-sensitive; words are stored lower-case.
		if isWord(k) {
			k = strings.ToLower(k)
		}
		l.valences[k] = v
	}
	for k, v := range o.Boosters {
		l.boosters[strings.ToLower(k)] = v
	}
	for _, k := range o.Negations {
		l.negations[strings.ToLower(k)] = struct{}{}
	}
	for k, v := range o.Idioms {
		l.idioms[strings.ToLower(k)] = v
	}
	for k, v := range o.Emoji {
		r, _ := utf8.DecodeRuneInString(k)
		l.emoji[r] = v
	}
}

func isWord(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '-' || r == '\'') {
			return false
		}
	}
	return s != ""
}
