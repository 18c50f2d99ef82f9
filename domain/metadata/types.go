// Package metadata models what a format reader actually observed in a
// pipeline's output artifacts. Optional fields are represented explicitly:
// "the producer did not write this" and "the producer wrote garbage" are
// different conditions with different policies downstream, so absence is
// never encoded as a sentinel value.
package metadata

import "dwiverify/domain/geometry"

// Field wraps an optional metadata value with explicit presence.
type Field[T any] struct {
	value   T
	present bool
}

// Some returns a present field.
func Some[T any](v T) Field[T] {
	return Field[T]{value: v, present: true}
}

// None returns an absent field.
func None[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the value and whether it is present.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.present
}

// Present reports whether the field was observed.
func (f Field[T]) Present() bool {
	return f.present
}

// GradientSource tags which artifact carried the gradient vectors, which in
// turn fixes the coordinate frame they are expressed in.
type GradientSource int

const (
	// GradNone means the format carries no gradient information.
	GradNone GradientSource = iota
	// GradBvec is an FSL-style flat gradient table: image-space vectors,
	// first axis flipped when the stored axes are right-handed.
	GradBvec
	// GradScheme is a gradient scheme embedded in an internal-format
	// header: already scanner-space.
	GradScheme
	// GradTable is an external gradient table in the internal format's
	// convention: already scanner-space.
	GradTable
)

func (s GradientSource) String() string {
	switch s {
	case GradBvec:
		return "bvec"
	case GradScheme:
		return "dw_scheme"
	case GradTable:
		return "grad"
	default:
		return "none"
	}
}

// PESource tags where the phase-encoding direction was read from.
type PESource int

const (
	PENone PESource = iota
	// PECode is a textual code from a sidecar or embedded header
	// (anatomical or BIDS vocabulary).
	PECode
	// PETable is an internal-format phase-encoding table: image-space
	// axis vector, one row per volume.
	PETable
	// PETopup is an FSL topup table: image-space axis vector with the
	// first axis flipped when the stored axes are right-handed.
	PETopup
	// PEEddy is an FSL eddy config/index pair, same vector convention as
	// topup.
	PEEddy
)

// Observed is the per-(series, pipeline) extraction result. Produced fresh
// by a format reader, read-only afterward.
type Observed struct {
	// Gradients holds one vector per diffusion volume, in the frame
	// implied by GradientSource. BValues is aligned with it.
	Gradients      []geometry.Vec3
	BValues        []float64
	GradientSource GradientSource

	// SliceEncodingCode is the textual slice-encoding identifier, when the
	// format carries one.
	SliceEncodingCode Field[string]
	// SliceTiming is the per-slice acquisition time sequence.
	SliceTiming Field[[]float64]

	// PhaseEncodingCode is the textual phase-encoding identifier.
	PhaseEncodingCode Field[string]
	// PEVector is the image-space phase-encoding axis read from a table
	// format, with PESource fixing its flip convention.
	PEVector Field[geometry.Vec3]
	PESource PESource

	// Transform is the image-to-scanner rotation, when the artifact
	// carries one.
	Transform Field[geometry.Rotation]
}

// TimingReversed reports whether the slice-timing sequence runs backwards,
// and whether timing was observed at all.
func (o Observed) TimingReversed() (bool, bool) {
	timing, ok := o.SliceTiming.Get()
	if !ok || len(timing) < 2 {
		return false, false
	}
	return timing[0] > timing[len(timing)-1], true
}
