package journal

import (
	"fmt"
	"strings"
)

// Outcome is the three-level verdict attached to activities and daily
// ratings. Unrecognized values are tolerated and score as neutral.
type Outcome string

const (
	OutcomeGood Outcome = "good"
	OutcomeOkay Outcome = "okay"
	OutcomeBad  Outcome = "bad"
)

// outcomeScores maps known labels to their numeric score.
var outcomeScores = map[string]float64{
	string(OutcomeGood): 1.0,
	string(OutcomeOkay): 0.5,
	string(OutcomeBad):  0.0,
}

// neutralScore is returned for any label not in outcomeScores.
const neutralScore = 0.5

// ScoreOf maps an outcome label to a number in [0,1]. Matching is exact and
// case-sensitive; anything unknown (including the empty string) is 0.5.
func ScoreOf(label string) float64 {
	if s, ok := outcomeScores[label]; ok {
		return s
	}
	return neutralScore
}

// Score returns ScoreOf(o).
func (o Outcome) Score() float64 {
	return ScoreOf(string(o))
}

// Valid reports whether o is one of the three known outcomes.
func (o Outcome) Valid() bool {
	_, ok := outcomeScores[string(o)]
	return ok
}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	return string(o)
}

// ParseOutcome normalizes user input ("Good", " bad ") into an Outcome.
// It is meant for input surfaces; analysis never rejects a label.
func ParseOutcome(s string) (Outcome, error) {
	o := Outcome(strings.ToLower(strings.TrimSpace(s)))
	if !o.Valid() {
		return "", fmt.Errorf("unknown outcome %q (want good, okay or bad)", s)
	}
	return o, nil
}

// LabelFor maps a mean score back to a label: >= 0.75 good, >= 0.25 okay,
// otherwise bad.
func LabelFor(mean float64) Outcome {
	switch {
	case mean >= 0.75:
		return OutcomeGood
	case mean >= 0.25:
		return OutcomeOkay
	default:
		return OutcomeBad
	}
}
