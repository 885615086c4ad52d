package ingest

import (
	"github.com/cognicore/postsent/pkg/postsent/stoplist"
)

// Reducer turns normalized text into a stopword-free form and a stemmed
// form of the same tokens.
type Reducer struct {
	tokenizer *Tokenizer
	stops     *stoplist.Set
	stemmer   Stemmer
}

// NewReducer creates a reducer. A nil stop set means the built-in English
// list and a nil stemmer means the English Snowball stemmer.
func NewReducer(stops *stoplist.Set, stemmer Stemmer) *Reducer {
	if stops == nil {
		stops = stoplist.English()
	}
	if stemmer == nil {
		stemmer = NewSnowballStemmer("english")
	}
	return &Reducer{
		tokenizer: NewTokenizer(),
		stops:     stops,
		stemmer:   stemmer,
	}
}

// Tokens returns the tokens of text that are not stopwords, and their stems
// in the same order. Stopword matching is exact, so text is expected to be
// lower-cased already.
func (r *Reducer) Tokens(text string) (kept, stemmed []string) {
	for _, tok := range r.tokenizer.Tokenize(text) {
		if r.stops.IsStop(tok) {
			continue
		}
		kept = append(kept, tok)
		stemmed = append(stemmed, r.stemmer.Stem(tok))
	}
	return kept, stemmed
}

// Reduce returns the detokenized stopword-free text and its stemmed
// counterpart. Both are empty when every token is a stopword.
func (r *Reducer) Reduce(text string) (tokenFiltered, stemmed string) {
	kept, stems := r.Tokens(text)
	return Detokenize(kept), Detokenize(stems)
}
