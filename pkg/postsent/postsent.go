// Package postsent scores the sentiment of social-media posts three ways:
// on the raw text, on the cleaned stopword-free text, and on its stemmed
// form.
package postsent

import (
	"context"
	"fmt"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/postsent/pkg/postsent/ingest"
	"github.com/cognicore/postsent/pkg/postsent/internalerr"
	"github.com/cognicore/postsent/pkg/postsent/normalize"
	"github.com/cognicore/postsent/pkg/postsent/polarity"
)

// Normalizer cleans raw text before reduction.
type Normalizer interface {
	Normalize(text string) string
}

// Analyzer is the pipeline facade: Normalizer, Reducer and Scorer.
type Analyzer struct {
	normalizer Normalizer
	reducer    *ingest.Reducer
	scorer     *polarity.Scorer
}

// Options configures an Analyzer. Nil fields select the built-in English
// defaults.
type Options struct {
	Normalizer Normalizer
	Reducer    *ingest.Reducer
	Scorer     *polarity.Scorer
}

// New creates an Analyzer with the given components.
func New(opts Options) *Analyzer {
	a := &Analyzer{
		normalizer: opts.Normalizer,
		reducer:    opts.Reducer,
		scorer:     opts.Scorer,
	}
	if a.normalizer == nil {
		a.normalizer = normalize.New()
	}
	if a.reducer == nil {
		a.reducer = ingest.NewReducer(nil, nil)
	}
	if a.scorer == nil {
		a.scorer = polarity.NewScorer(nil)
	}
	return a
}

// Triple holds the three scores computed for one text.
type Triple struct {
	Original      polarity.Score `json:"original"`
	TokenFiltered polarity.Score `json:"token_filtered"`
	Stemmed       polarity.Score `json:"stemmed"`
}

// Analyze scores raw text. It never fails and has no side effects.
func (a *Analyzer) Analyze(raw string) Triple {
	return a.Explain(raw).Triple
}

// Explanation is a Triple together with the texts each score was computed on.
type Explanation struct {
	Raw           string `json:"raw"`
	Normalized    string `json:"normalized"`
	TokenFiltered string `json:"token_filtered"`
	Stemmed       string `json:"stemmed"`
	Triple        Triple `json:"scores"`
}

// Explain runs the pipeline and keeps every intermediate text.
func (a *Analyzer) Explain(raw string) Explanation {
	normalized := a.normalizer.Normalize(raw)
	filtered, stemmed := a.reducer.Reduce(normalized)
	return Explanation{
		Raw:           raw,
		Normalized:    normalized,
		TokenFiltered: filtered,
		Stemmed:       stemmed,
		Triple: Triple{
			Original:      a.scorer.Score(raw),
			TokenFiltered: a.scorer.Score(filtered),
			Stemmed:       a.scorer.Score(stemmed),
		},
	}
}

// AnalyzeInput validates v at the boundary and analyzes it. Strings, byte
// slices and fmt.Stringer values are accepted; anything else, or text that
// is not valid UTF-8, returns an error wrapping internalerr.ErrInvalidInput.
func (a *Analyzer) AnalyzeInput(v any) (Triple, error) {
	var text string
	switch x := v.(type) {
	case string:
		text = x
	case []byte:
		text = string(x)
	case fmt.Stringer:
		text = x.String()
	default:
		return Triple{}, fmt.Errorf("analyze %T: %w", v, internalerr.ErrInvalidInput)
	}
	if !utf8.ValidString(text) {
		return Triple{}, fmt.Errorf("analyze: text is not valid UTF-8: %w", internalerr.ErrInvalidInput)
	}
	return a.Analyze(text), nil
}

// AnalyzeAll analyzes texts on up to workers goroutines and returns the
// triples in input order. Cancelling ctx stops new texts from being
// scheduled; the context error is returned in that case.
func AnalyzeAll(ctx context.Context, a *Analyzer, texts []string, workers int) ([]Triple, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]Triple, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, text := range texts {
		if gctx.Err() != nil {
			break
		}
		i, text := i, text
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = a.Analyze(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// The group context is done after Wait; only the caller's counts.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
