// Package reconcile maps observed vectors and axes into scanner space so
// that comparison against ground truth happens in a common frame. Which
// mapping applies depends on the format semantics: flat gradient tables and
// encoding codes are image-space and need the artifact's transform, while
// internal gradient schemes are scanner-space by definition and must be left
// alone.
package reconcile

import (
	"fmt"

	"dwiverify/domain/core"
	"dwiverify/domain/geometry"
	"dwiverify/domain/metadata"
)

// identityTol bounds rounding drift when deciding whether a stored
// transform is the identity.
const identityTol = 1e-6

// rotation fetches the transform to apply for image-space quantities.
//
// When the producing tool already realigned the stored axes the transform
// must not be reapplied: a realigned artifact carries an identity rotation,
// and one that still embeds a non-identity rotation is malformed
// (double-application is a correctness bug to detect, not reproduce).
func rotation(obs metadata.Observed, realignApplied bool) (geometry.Rotation, error) {
	t, ok := obs.Transform.Get()
	if realignApplied {
		if ok && !t.IsIdentity(identityTol) {
			return geometry.Rotation{}, core.NewMalformedArtifactError(
				"header", "transform",
				fmt.Errorf("tool reported realignment but artifact carries a non-identity transform"))
		}
		return geometry.Identity(), nil
	}
	if !ok {
		return geometry.Rotation{}, core.ErrMissingTransform
	}
	return t, nil
}

// Gradients returns the observed gradient vectors expressed in scanner
// space.
//
// Flat-table (bvec) vectors follow the FSL convention: image-space, with the
// first component negated when the stored axes are right-handed, then mapped
// through the rotation. Scheme and external-table vectors are already
// scanner-space regardless of the image transform.
func Gradients(obs metadata.Observed, realignApplied bool) ([]geometry.Vec3, error) {
	switch obs.GradientSource {
	case metadata.GradScheme, metadata.GradTable:
		out := make([]geometry.Vec3, len(obs.Gradients))
		copy(out, obs.Gradients)
		return out, nil
	case metadata.GradBvec:
		rot, err := rotation(obs, realignApplied)
		if err != nil {
			return nil, err
		}
		flip := rot.Det() > 0
		out := make([]geometry.Vec3, len(obs.Gradients))
		for i, v := range obs.Gradients {
			if flip {
				v[0] = -v[0]
			}
			out[i] = rot.Apply(v)
		}
		return out, nil
	default:
		return nil, core.NewMissingFieldError("gradient table")
	}
}

// EncodingDirection maps a textual orientation code into a scanner-space
// direction. Anatomical codes already name a scanner direction; BIDS codes
// name a stored image axis and go through the transform.
func EncodingDirection(code string, obs metadata.Observed, realignApplied bool) (geometry.Vec3, error) {
	if geometry.IsAnatomicalCode(code) {
		return geometry.AnatomicalDirection(code)
	}
	img, err := geometry.ImageAxisDirection(code)
	if err != nil {
		return geometry.Vec3{}, core.NewMalformedArtifactError("sidecar", "encoding direction", err)
	}
	rot, rerr := rotation(obs, realignApplied)
	if rerr != nil {
		return geometry.Vec3{}, rerr
	}
	return rot.Apply(img), nil
}

// PEVector maps a table-derived image-space phase-encoding vector into
// scanner space. Topup and eddy tables share the bvec first-axis flip
// convention; the internal-format table does not.
func PEVector(obs metadata.Observed, realignApplied bool) (geometry.Vec3, error) {
	v, ok := obs.PEVector.Get()
	if !ok {
		return geometry.Vec3{}, core.NewMissingFieldError("phase encoding table")
	}
	rot, err := rotation(obs, realignApplied)
	if err != nil {
		return geometry.Vec3{}, err
	}
	if (obs.PESource == metadata.PETopup || obs.PESource == metadata.PEEddy) && rot.Det() > 0 {
		v[0] = -v[0]
	}
	return rot.Apply(v), nil
}
