// Package polarity scores the sentiment of short social-media texts with a
// lexicon and a fixed set of heuristics: capitalization, degree modifiers,
// negation, contrastive "but" and punctuation emphasis.
//
// A Scorer only reads its lexicon and is safe for concurrent use.
package polarity

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/cognicore/postsent/pkg/postsent/lexicon"
)

// Empirically derived constants.
const (
	// added to a lexicon or booster word written in ALL CAPS
	capsIncrement = 0.733
	// multiplier applied to a negated valence
	negationScalar = -0.74

	exclaimWeight   = 0.292
	maxExclaims     = 4
	questionWeight  = 0.18
	maxQuestionEmph = 0.96

	// alpha approximates the max expected sum of valences
	alpha = 15.0
)

// Scorer computes polarity scores.
type Scorer struct {
	lex *lexicon.Lexicon
}

// NewScorer creates a scorer over lex. A nil lexicon selects lexicon.Default.
func NewScorer(lex *lexicon.Lexicon) *Scorer {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Scorer{lex: lex}
}

// Lexicon returns the tables the scorer reads.
func (s *Scorer) Lexicon() *lexicon.Lexicon {
	return s.lex
}

// Score returns the polarity of text. It never fails; text without tokens
// scores as NeutralScore.
func (s *Scorer) Score(text string) Score {
	text = s.replaceEmoji(text)
	words := splitWords(text)
	if len(words) == 0 {
		return NeutralScore()
	}

	st := sentiText{
		words:   words,
		lower:   lowerAll(words),
		capDiff: allCapDifferential(words),
	}

	sentiments := make([]float64, len(words))
	for i := range words {
		w := st.lower[i]
		if _, ok := s.lex.Booster(w); ok {
			continue
		}
		if w == "kind" && i+1 < len(words) && st.lower[i+1] == "of" {
			continue
		}
		sentiments[i] = s.valence(&st, i)
	}

	butCheck(st.lower, sentiments)
	return scoreValence(sentiments, text)
}

type sentiText struct {
	words   []string
	lower   []string
	capDiff bool
}

// valence computes the contribution of the word at i given its neighbours.
func (s *Scorer) valence(st *sentiText, i int) float64 {
	word := st.words[i]
	w := st.lower[i]
	base, ok := s.lex.Valence(w)
	if !ok {
		return 0
	}
	valence := base

	// "no" before another lexicon word acts as a negation, not a sentiment.
	if w == "no" && i+1 < len(st.words) && s.lex.Contains(st.lower[i+1]) {
		valence = 0
	}
	if (i > 0 && st.lower[i-1] == "no") ||
		(i > 1 && st.lower[i-2] == "no") ||
		(i > 2 && st.lower[i-3] == "no" && (st.lower[i-1] == "or" || st.lower[i-1] == "nor")) {
		valence = base * negationScalar
	}

	if st.capDiff && isUpper(word) {
		if valence > 0 {
			valence += capsIncrement
		} else {
			valence -= capsIncrement
		}
	}

	for start := 0; start < 3; start++ {
		j := i - (start + 1)
		if j < 0 || s.lex.Contains(st.lower[j]) {
			continue
		}
		inc := s.scalarIncDec(st.words[j], st.lower[j], valence, st.capDiff)
		switch {
		case start == 1 && inc != 0:
			inc *= 0.95
		case start == 2 && inc != 0:
			inc *= 0.9
		}
		valence += inc
		valence = s.negationCheck(valence, st.lower, start, i)
		if start == 2 {
			valence = s.idiomsCheck(valence, st.lower, i)
		}
	}

	return s.leastCheck(valence, st.lower, i)
}

// scalarIncDec returns the boost a degree modifier gives to a following
// word with the given valence.
func (s *Scorer) scalarIncDec(word, lower string, valence float64, capDiff bool) float64 {
	inc, ok := s.lex.Booster(lower)
	if !ok {
		return 0
	}
	if valence < 0 {
		inc = -inc
	}
	if capDiff && isUpper(word) {
		if valence > 0 {
			inc += capsIncrement
		} else {
			inc -= capsIncrement
		}
	}
	return inc
}

func (s *Scorer) negated(word string) bool {
	return s.lex.IsNegation(word) || strings.Contains(word, "n't")
}

func (s *Scorer) negationCheck(valence float64, lower []string, start, i int) float64 {
	switch start {
	case 0:
		if s.negated(lower[i-1]) {
			valence *= negationScalar
		}
	case 1:
		switch {
		case lower[i-2] == "never" && (lower[i-1] == "so" || lower[i-1] == "this"):
			valence *= 1.25
		case lower[i-2] == "without" && lower[i-1] == "doubt":
		case s.negated(lower[i-2]):
			valence *= negationScalar
		}
	case 2:
		// "so"/"this" right before the word intensifies even without "never".
		switch {
		case lower[i-3] == "never" && (lower[i-2] == "so" || lower[i-2] == "this"),
			lower[i-1] == "so" || lower[i-1] == "this":
			valence *= 1.25
		case lower[i-3] == "without" && (lower[i-2] == "doubt" || lower[i-1] == "doubt"):
		case s.negated(lower[i-3]):
			valence *= negationScalar
		}
	}
	return valence
}

// idiomsCheck replaces valence with that of an idiom the word belongs to
// and adds multi-word boosters ("kind of", "sort of") that precede it.
// It is only called when i >= 3.
func (s *Scorer) idiomsCheck(valence float64, lower []string, i int) float64 {
	oneZero := lower[i-1] + " " + lower[i]
	twoOneZero := lower[i-2] + " " + lower[i-1] + " " + lower[i]
	twoOne := lower[i-2] + " " + lower[i-1]
	threeTwoOne := lower[i-3] + " " + lower[i-2] + " " + lower[i-1]
	threeTwo := lower[i-3] + " " + lower[i-2]

	for _, seq := range []string{oneZero, twoOneZero, twoOne, threeTwoOne, threeTwo} {
		if v, ok := s.lex.Idiom(seq); ok {
			valence = v
			break
		}
	}
	if len(lower)-1 > i {
		if v, ok := s.lex.Idiom(lower[i] + " " + lower[i+1]); ok {
			valence = v
		}
	}
	if len(lower)-1 > i+1 {
		if v, ok := s.lex.Idiom(lower[i] + " " + lower[i+1] + " " + lower[i+2]); ok {
			valence = v
		}
	}

	for _, seq := range []string{threeTwoOne, threeTwo, twoOne} {
		if inc, ok := s.lex.Booster(seq); ok {
			valence += inc
		}
	}
	return valence
}

// leastCheck negates a word preceded by "least", except in "at least" and
// "very least".
func (s *Scorer) leastCheck(valence float64, lower []string, i int) float64 {
	if i == 0 || lower[i-1] != "least" || s.lex.Contains(lower[i-1]) {
		return valence
	}
	if i > 1 && (lower[i-2] == "at" || lower[i-2] == "very") {
		return valence
	}
	return valence * negationScalar
}

// butCheck halves the weight of everything before the first "but" and
// raises everything after it by half.
func butCheck(lower []string, sentiments []float64) {
	bi := -1
	for i, w := range lower {
		if w == "but" {
			bi = i
			break
		}
	}
	if bi < 0 {
		return
	}
	for i := range sentiments {
		switch {
		case i < bi:
			sentiments[i] *= 0.5
		case i > bi:
			sentiments[i] *= 1.5
		}
	}
}

// punctuationEmphasis is the boost from "!" and repeated "?".
func punctuationEmphasis(text string) float64 {
	ep := strings.Count(text, "!")
	if ep > maxExclaims {
		ep = maxExclaims
	}
	emph := float64(ep) * exclaimWeight

	qm := strings.Count(text, "?")
	switch {
	case qm > 3:
		emph += maxQuestionEmph
	case qm > 1:
		emph += float64(qm) * questionWeight
	}
	return emph
}

// normalizeSum squashes a valence sum into [-1, 1].
func normalizeSum(sum float64) float64 {
	norm := sum / math.Sqrt(sum*sum+alpha)
	switch {
	case norm < -1:
		return -1
	case norm > 1:
		return 1
	default:
		return norm
	}
}

func scoreValence(sentiments []float64, text string) Score {
	emph := punctuationEmphasis(text)

	sum := floats.Sum(sentiments)
	switch {
	case sum > 0:
		sum += emph
	case sum < 0:
		sum -= emph
	}
	compound := scalar.Round(normalizeSum(sum), 4)

	var posSum, negSum, neuCount float64
	for _, v := range sentiments {
		switch {
		case v > 0:
			posSum += v + 1
		case v < 0:
			negSum += v - 1
		default:
			neuCount++
		}
	}
	switch {
	case posSum > math.Abs(negSum):
		posSum += emph
	case posSum < math.Abs(negSum):
		negSum -= emph
	}

	total := posSum + math.Abs(negSum) + neuCount
	return Score{
		Negative: math.Abs(negSum / total),
		Neutral:  math.Abs(neuCount / total),
		Positive: math.Abs(posSum / total),
		Compound: compound,
		Label:    LabelFor(compound),
	}
}
