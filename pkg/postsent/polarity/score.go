package polarity

import (
	"encoding/json"
	"fmt"
)

// Label is the categorical sentiment derived from a compound score.
type Label int

const (
	Negative Label = -1
	Neutral  Label = 0
	Positive Label = 1
)

// Thresholds on the compound score that separate the three labels.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

var labelNames = map[Label]string{
	Negative: "Negative",
	Neutral:  "Neutral",
	Positive: "Positive",
}

var labelFromName = map[string]Label{
	"Negative": Negative,
	"Neutral":  Neutral,
	"Positive": Positive,
}

// String returns the name of the label.
func (l Label) String() string {
	if name, ok := labelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Label(%d)", int(l))
}

// MarshalJSON encodes the label as a JSON string.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a JSON string into a Label.
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, ok := labelFromName[s]
	if !ok {
		return fmt.Errorf("polarity: unknown label: %q", s)
	}
	*l = v
	return nil
}

// LabelFor maps a compound score to its label.
func LabelFor(compound float64) Label {
	switch {
	case compound >= PositiveThreshold:
		return Positive
	case compound <= NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// Score is the result of scoring one text. Negative, Neutral and Positive
// are fractions that sum to 1; Compound is in [-1, 1].
type Score struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
	Compound float64 `json:"compound"`
	Label    Label   `json:"label"`
}

// NeutralScore is the score of a text with no tokens.
func NeutralScore() Score {
	return Score{Neutral: 1, Label: Neutral}
}
