package ingest

import (
	"regexp"
	"strings"
)

// Detokenization reverses the treebank tokenizer: the same rule families,
// applied in reverse order, with the inserted spaces taken back out.

var detokContractions = []rule{
	{regexp.MustCompile(`(?i) ('t)\s(is)\b`), " $1$2"},
	{regexp.MustCompile(`(?i) ('t)\s(was)\b`), " $1$2"},
	{regexp.MustCompile(`(?i)\b(can)\s(not)\b`), "$1$2"},
	{regexp.MustCompile(`(?i)\b(d)\s('ye)\b`), "$1$2"},
	{regexp.MustCompile(`(?i)\b(gim)\s(me)\b`), "$1$2"},
	{regexp.MustCompile(`(?i)\b(gon)\s(na)\b`), "$1$2"},
	{regexp.MustCompile(`(?i)\b(got)\s(ta)\b`), "$1$2"},
	{regexp.MustCompile(`(?i)\b(lem)\s(me)\b`), "$1$2"},
	{regexp.MustCompile(`(?i)\b(more)\s('n)\b`), "$1$2"},
	{regexp.MustCompile(`(?i)\b(wan)\s(na)(\s)`), "$1$2$3"},
}

var detokEndingQuotes = []rule{
	{regexp.MustCompile(`([^' ])\s('ll|'LL|'re|'RE|'ve|'VE|n't|N'T) `), "$1$2 "},
	{regexp.MustCompile(`([^' ])\s('[sS]|'[mM]|'[dD]|') `), "$1$2 "},
	{regexp.MustCompile(`(\S)\s('')`), "$1$2"},
	{regexp.MustCompile(`('')\s([.,:)\]>};%])`), "$1$2"},
	{regexp.MustCompile(`''`), `"`},
}

var detokDoubleDashes = rule{regexp.MustCompile(` -- `), "--"}

var detokBrackets = []rule{
	{regexp.MustCompile(`([\[({<])\s`), "$1"},
	{regexp.MustCompile(`\s([\])}>])`), "$1"},
	{regexp.MustCompile(`([\])}>])\s([:;,.])`), "$1$2"},
}

var detokPunctuation = []rule{
	{regexp.MustCompile(`([^'])\s'\s`), "$1' "},
	{regexp.MustCompile(`\s([?!])`), "$1"},
	{regexp.MustCompile(`([^.])\s(\.)([\])}>"']*)\s*$`), "$1$2$3"},
	{regexp.MustCompile(`([#$])\s`), "$1"},
	{regexp.MustCompile(`\s([;%])`), "$1"},
	{regexp.MustCompile(`\s\.\.\.\s`), "..."},
	{regexp.MustCompile(`\s([&*])\s`), " $1 "},
	{regexp.MustCompile(`\s([:,])`), "$1"},
}

var detokStartingQuotes = []rule{
	{regexp.MustCompile("([ (\\[{<])\\s``"), "$1``"},
	{regexp.MustCompile("(``)\\s"), "$1"},
	{regexp.MustCompile("``"), `"`},
}

// Detokenize joins tokens into natural text: single spaces between words,
// with closing punctuation, clitics and contraction fragments reattached
// to the preceding token.
func Detokenize(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	text := " " + strings.Join(tokens, " ") + " "
	text = applyAll(detokContractions, text)
	text = applyAll(detokEndingQuotes, text)
	text = strings.TrimSpace(text)
	text = detokDoubleDashes.apply(text)
	text = applyAll(detokBrackets, text)
	text = applyAll(detokPunctuation, text)
	text = applyAll(detokStartingQuotes, text)
	return strings.TrimSpace(text)
}
