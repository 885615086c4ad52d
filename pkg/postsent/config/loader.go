package config

import (
	"fmt"

	"github.com/cognicore/postsent/pkg/postsent"
	"github.com/cognicore/postsent/pkg/postsent/ingest"
	"github.com/cognicore/postsent/pkg/postsent/lexicon"
	"github.com/cognicore/postsent/pkg/postsent/polarity"
	"github.com/cognicore/postsent/pkg/postsent/stoplist"
)

// Loader loads all configuration files and constructs components.
// Empty paths select the embedded English defaults.
type Loader struct {
	StoplistPath string
	// LexiconPath is a YAML overrides file merged into the lexicon.
	LexiconPath string
	// ValencePath is a full VADER-format lexicon replacing the bundled one.
	ValencePath string
	// Language selects the Snowball stemmer; defaults to "english".
	Language string
}

// Components holds all loaded configuration components
type Components struct {
	Stoplist *stoplist.Set
	Lexicon  *lexicon.Lexicon
	Reducer  *ingest.Reducer
	Scorer   *polarity.Scorer
	Analyzer *postsent.Analyzer
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stoplist = sl.Set()
	} else {
		comp.Stoplist = stoplist.English()
	}

	lex := lexicon.Default()
	if l.ValencePath != "" {
		full, err := lex.LoadValenceFile(l.ValencePath)
		if err != nil {
			return nil, fmt.Errorf("load valence lexicon: %w", err)
		}
		lex = full
	}
	if l.LexiconPath != "" {
		o, err := lexicon.LoadOverrides(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon overrides: %w", err)
		}
		lex = lex.Merge(o)
	}
	comp.Lexicon = lex

	lang := l.Language
	if lang == "" {
		lang = "english"
	}
	comp.Reducer = ingest.NewReducer(comp.Stoplist, ingest.NewSnowballStemmer(lang))
	comp.Scorer = polarity.NewScorer(comp.Lexicon)
	comp.Analyzer = postsent.New(postsent.Options{
		Reducer: comp.Reducer,
		Scorer:  comp.Scorer,
	})

	return comp, nil
}
