// Package confidence implements the orientation-confidence check: fibre
// orientations estimated under the correct scanner-space transform should
// reconstruct longer streamlines than the same data under a deliberately
// incorrect transform. This is a relative check only; absolute streamline
// length depends on reconstruction parameters outside this engine's control.
package confidence

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"dwiverify/domain/core"
	"dwiverify/domain/outcome"
)

// Evaluate scores two per-series streamline length sets. Pass requires the
// mean length under the correct transform to exceed the mean under the
// incorrect transform by more than margin; the default margin of zero
// accepts any positive difference, with the parameter reserved for noise
// tolerance.
func Evaluate(seriesID string, correct, incorrect []float64, margin float64) outcome.Outcome {
	o := outcome.Outcome{
		SeriesID:    seriesID,
		Capability:  outcome.CapOrientation,
		EvaluatedAt: core.Now(),
	}

	meanCorrect, err := stats.Mean(correct)
	if err != nil {
		o.Kind = outcome.KindError
		o.Note = fmt.Sprintf("correct-transform length set: %v", err)
		return o
	}
	meanIncorrect, err := stats.Mean(incorrect)
	if err != nil {
		o.Kind = outcome.KindError
		o.Note = fmt.Sprintf("incorrect-transform length set: %v", err)
		return o
	}

	if meanIncorrect > 0 {
		o.LengthRatio = meanCorrect / meanIncorrect
	}
	if meanCorrect-meanIncorrect > margin {
		o.Kind = outcome.KindPass
	} else {
		o.Kind = outcome.KindFail
	}

	medCorrect, _ := stats.Median(correct)
	medIncorrect, _ := stats.Median(incorrect)
	sdCorrect, _ := stats.StandardDeviation(correct)
	sdIncorrect, _ := stats.StandardDeviation(incorrect)
	o.Note = appendNote(o.Note, fmt.Sprintf(
		"mean length %.2f mm (median %.2f, sd %.2f) under correct transform vs %.2f mm (median %.2f, sd %.2f) under incorrect",
		meanCorrect, medCorrect, sdCorrect, meanIncorrect, medIncorrect, sdIncorrect))
	return o
}

func appendNote(existing, added string) string {
	if existing == "" {
		return added
	}
	return existing + "; " + added
}
