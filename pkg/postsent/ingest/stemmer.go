package ingest

import (
	"github.com/kljensen/snowball"
)

// Stemmer reduces a token to its stem.
type Stemmer interface {
	Stem(token string) string
}

// SnowballStemmer stems with the Snowball algorithm for one language.
// Stopwords are stemmed like any other word.
type SnowballStemmer struct {
	lang string
}

// NewSnowballStemmer returns a stemmer for a Snowball language name such
// as "english".
func NewSnowballStemmer(lang string) SnowballStemmer {
	return SnowballStemmer{lang: lang}
}

// Stem returns the stem of token, or token itself when the language is not
// supported by the Snowball package.
func (s SnowballStemmer) Stem(token string) string {
	stemmed, err := snowball.Stem(token, s.lang, true)
	if err != nil {
		return token
	}
	return stemmed
}
