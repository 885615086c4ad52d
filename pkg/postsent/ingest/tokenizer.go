package ingest

import (
	"regexp"
	"strings"
	"unicode"
)

// rule is a single regexp substitution in the treebank rule chain.
type rule struct {
	re   *regexp.Regexp
	repl string
}

func (r rule) apply(text string) string {
	return r.re.ReplaceAllString(text, r.repl)
}

func applyAll(rules []rule, text string) string {
	for _, r := range rules {
		text = r.apply(text)
	}
	return text
}

var startingQuotes = []rule{
	{regexp.MustCompile(`([«“‘„]|` + "`" + `+)`), " $1 "},
	{regexp.MustCompile(`^"`), "``"},
	{regexp.MustCompile("(``)"), " $1 "},
	{regexp.MustCompile(`([ (\[{<])("|'{2})`), "$1 `` "},
}

// quoteLetter splits a quote from a following single-letter word ("'x" ->
// "' x") unless the letter starts a clitic such as 's or 't.
var quoteLetter = regexp.MustCompile(`'(\w)\b`)

var punctuation = []rule{
	// A final period, possibly followed by closing brackets or quotes.
	{regexp.MustCompile(`([^.])(\.)([\])}>"']*)\s*$`), "$1 $2 $3 "},
	{regexp.MustCompile(`([:,])([^\d])`), " $1 $2"},
	{regexp.MustCompile(`([:,])$`), " $1 "},
	{regexp.MustCompile(`\.{2,}`), " $0 "},
	{regexp.MustCompile(`[;@#$%&]`), " $0 "},
	{regexp.MustCompile(`[?!]`), " $0 "},
	{regexp.MustCompile(`([^'])' `), "$1 ' "},
	{regexp.MustCompile(`[*]`), " $0 "},
	{regexp.MustCompile(`[\]\[(){}<>]`), " $0 "},
	{regexp.MustCompile(`--`), " -- "},
}

var endingQuotes = []rule{
	{regexp.MustCompile(`([»”’])`), " $1 "},
	{regexp.MustCompile(`''`), " '' "},
	{regexp.MustCompile(`"`), " '' "},
	{regexp.MustCompile(`([^' ])('[sS]|'[mM]|'[dD]|') `), "$1 $2 "},
	{regexp.MustCompile(`([^' ])('ll|'LL|'re|'RE|'ve|'VE|n't|N'T) `), "$1 $2 "},
}

// contractions lists fused forms that the treebank convention splits in
// two, e.g. "cannot" -> "can not".
var contractions = []rule{
	{regexp.MustCompile(`(?i)\b(can)(not)\b`), " $1 $2 "},
	{regexp.MustCompile(`(?i)\b(d)('ye)\b`), " $1 $2 "},
	{regexp.MustCompile(`(?i)\b(gim)(me)\b`), " $1 $2 "},
	{regexp.MustCompile(`(?i)\b(gon)(na)\b`), " $1 $2 "},
	{regexp.MustCompile(`(?i)\b(got)(ta)\b`), " $1 $2 "},
	{regexp.MustCompile(`(?i)\b(lem)(me)\b`), " $1 $2 "},
	{regexp.MustCompile(`(?i)\b(more)('n)\b`), " $1 $2 "},
	{regexp.MustCompile(`(?i)\b(wan)(na)(\s)`), " $1 $2 $3"},
	{regexp.MustCompile(`(?i) ('t)(is)\b`), " $1 $2 "},
	{regexp.MustCompile(`(?i) ('t)(was)\b`), " $1 $2 "},
}

// Tokenizer splits text into treebank-style word and punctuation tokens.
// It keeps case; callers that need case-folded tokens lower-case first.
type Tokenizer struct{}

// NewTokenizer creates a new tokenizer
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize splits text into sentences and each sentence into tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	for _, sent := range Sentences(text) {
		tokens = append(tokens, t.tokenizeSentence(sent)...)
	}
	return tokens
}

func (t *Tokenizer) tokenizeSentence(text string) []string {
	text = applyAll(startingQuotes, text)
	text = quoteLetter.ReplaceAllStringFunc(text, func(m string) string {
		switch unicode.ToLower(rune(m[1])) {
		case 'm', 't', 's', 'd', 'n':
			return m
		}
		return "' " + m[1:]
	})
	text = applyAll(punctuation, text)
	text = " " + text + " "
	text = applyAll(endingQuotes, text)
	text = applyAll(contractions, text)
	return strings.Fields(text)
}

// Sentences splits text after runs of terminal punctuation (. ! ?) that
// are followed by whitespace. A period closing a single letter or a dotted
// abbreviation ("u.s.") does not end a sentence.
func Sentences(text string) []string {
	var (
		sents []string
		start int
	)
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		j := i
		for j+1 < len(runes) && strings.ContainsRune(".!?", runes[j+1]) {
			j++
		}
		for j+1 < len(runes) && strings.ContainsRune(`"')]}’”`, runes[j+1]) {
			j++
		}
		if j+1 >= len(runes) || !unicode.IsSpace(runes[j+1]) {
			i = j
			continue
		}
		if r == '.' && i == j && isAbbreviation(runes[start:i]) {
			i = j
			continue
		}
		if sent := strings.TrimSpace(string(runes[start : j+1])); sent != "" {
			sents = append(sents, sent)
		}
		start = j + 1
		i = j
	}
	if sent := strings.TrimSpace(string(runes[start:])); sent != "" {
		sents = append(sents, sent)
	}
	return sents
}

// isAbbreviation reports whether the word ending the prefix looks like an
// abbreviation: a single letter or a word with inner periods.
func isAbbreviation(prefix []rune) bool {
	k := len(prefix)
	for k > 0 && !unicode.IsSpace(prefix[k-1]) {
		k--
	}
	word := prefix[k:]
	if len(word) == 1 && unicode.IsLetter(word[0]) {
		return true
	}
	for _, r := range word {
		if r == '.' {
			return true
		}
	}
	return false
}
