package stoplist

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed english.yaml
var englishYAML []byte

// Set is an immutable stopword set. Membership is exact: callers are
// expected to lower-case tokens before asking.
type Set struct {
	stops map[string]struct{}
}

// New builds a Set from the given terms. Terms are stored as given.
func New(terms []string) *Set {
	stops := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		stops[t] = struct{}{}
	}
	return &Set{stops: stops}
}

// File is the on-disk stoplist format.
type File struct {
	Terms []string `yaml:"terms"`
}

// ParseYAML reads a stoplist document of the form `terms: [...]`.
func ParseYAML(data []byte) (*Set, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse stoplist: %w", err)
	}
	return New(f.Terms), nil
}

var (
	englishOnce sync.Once
	english     *Set
)

// English returns the built-in English stopword set. It is parsed once and
// shared; Set has no mutators so sharing is safe.
func English() *Set {
	englishOnce.Do(func() {
		s, err := ParseYAML(englishYAML)
		if err != nil {
			panic(fmt.Sprintf("stoplist: embedded english list: %v", err))
		}
		english = s
	})
	return english
}

// IsStop checks if a token is a stopword
func (s *Set) IsStop(token string) bool {
	_, ok := s.stops[token]
	return ok
}

// Len returns the number of stopwords.
func (s *Set) Len() int {
	return len(s.stops)
}

// All returns all stopwords in sorted order.
func (s *Set) All() []string {
	result := make([]string, 0, len(s.stops))
	for t := range s.stops {
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}

// With returns a new Set holding the union of s and extra.
func (s *Set) With(extra ...string) *Set {
	stops := make(map[string]struct{}, len(s.stops)+len(extra))
	for t := range s.stops {
		stops[t] = struct{}{}
	}
	for _, t := range extra {
		stops[t] = struct{}{}
	}
	return &Set{stops: stops}
}

// Without returns a new Set with the given terms removed.
func (s *Set) Without(terms ...string) *Set {
	drop := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		drop[t] = struct{}{}
	}
	stops := make(map[string]struct{}, len(s.stops))
	for t := range s.stops {
		if _, ok := drop[t]; !ok {
			stops[t] = struct{}{}
		}
	}
	return &Set{stops: stops}
}
