package ports

import "context"

// StreamlineSource provides the per-series streamline length sets produced
// by the external model-fitting and reconstruction step: one set from
// correctly-transformed fibre-orientation estimates, one from deliberately
// incorrectly-transformed estimates.
type StreamlineSource interface {
	Lengths(ctx context.Context, dir, seriesID string) (correct, incorrect []float64, err error)
}
