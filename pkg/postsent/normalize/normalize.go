// Package normalize strips social-media noise from post text before it is
// tokenized: mentions, links, digits, a fixed punctuation set and stray
// HTML ampersand entities. The result is lower-cased and trimmed.
package normalize

import (
	"regexp"
	"strings"
)

// Step is a single removal rule applied by the Normalizer.
type Step struct {
	Name    string
	Pattern *regexp.Regexp
}

// Steps lists the removal rules in the order they are applied.
// Mentions and links go first so digit and punctuation removal cannot
// break them into fragments that no longer match.
var Steps = []Step{
	{Name: "mention", Pattern: regexp.MustCompile(`@[A-Za-z0-9_]+`)},
	{Name: "url", Pattern: regexp.MustCompile(`http[^\s\p{Z}]+`)},
	{Name: "digits", Pattern: regexp.MustCompile(`[0-9]+`)},
	{Name: "punctuation", Pattern: regexp.MustCompile("(”|“|-|\\+|`|#|,|;|\\|)+")},
	{Name: "ampersand", Pattern: regexp.MustCompile(`&amp`)},
}

// Normalizer cleans raw post text.
type Normalizer struct{}

// New returns a Normalizer.
func New() Normalizer {
	return Normalizer{}
}

// Normalize applies every Step in order, then lower-cases and trims.
func (Normalizer) Normalize(text string) string {
	return Text(text)
}

// Text is the package-level form of Normalizer.Normalize.
func Text(text string) string {
	for {
		cleaned := apply(text)
		// Lower-casing can expose "HTTP..." to the url rule and removals can
		// splice new matches together; run to a fixed point.
		if cleaned == text {
			return cleaned
		}
		text = cleaned
	}
}

func apply(text string) string {
	for _, s := range Steps {
		text = s.Pattern.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(strings.ToLower(text))
}

// Trace returns the text after each step, keyed by step name, plus the
// "case" stage that closes each pass. Passes repeat the way Text does, so
// the last stage always equals Text(text). Used for diagnostics.
func Trace(text string) []Stage {
	stages := make([]Stage, 0, len(Steps)+1)
	for pass := 1; ; pass++ {
		cleaned := text
		for _, s := range Steps {
			cleaned = s.Pattern.ReplaceAllString(cleaned, "")
			stages = append(stages, Stage{Pass: pass, Step: s.Name, Text: cleaned})
		}
		cleaned = strings.TrimSpace(strings.ToLower(cleaned))
		stages = append(stages, Stage{Pass: pass, Step: "case", Text: cleaned})
		if cleaned == text {
			if pass > 1 {
				// The confirming pass changed nothing.
				stages = stages[:len(stages)-len(Steps)-1]
			}
			return stages
		}
		text = cleaned
	}
}

// Stage is the text observed after a named step.
type Stage struct {
	Pass int    `json:"pass"`
	Step string `json:"step"`
	Text string `json:"text"`
}
