package reconcile

import (
	"testing"

	"dwiverify/domain/core"
	"dwiverify/domain/geometry"
	"dwiverify/domain/metadata"
)

func bvecObs(vecs []geometry.Vec3, transform metadata.Field[geometry.Rotation]) metadata.Observed {
	return metadata.Observed{
		Gradients:      vecs,
		GradientSource: metadata.GradBvec,
		Transform:      transform,
	}
}

func TestGradients_BvecRightHandedFlipsFirstAxis(t *testing.T) {
	// Identity transform has determinant +1, so the flat-table convention
	// negates the first component before rotating.
	obs := bvecObs(
		[]geometry.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, -1}},
		metadata.Some(geometry.Identity()),
	)
	got, err := Gradients(obs, false)
	if err != nil {
		t.Fatalf("Gradients: %v", err)
	}
	want := []geometry.Vec3{{0, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, 0, -1}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("volume %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGradients_BvecLeftHandedDoesNotFlip(t *testing.T) {
	las := geometry.NewRotation([3][3]float64{{-1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	obs := bvecObs(
		[]geometry.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, -1}},
		metadata.Some(las),
	)
	got, err := Gradients(obs, false)
	if err != nil {
		t.Fatalf("Gradients: %v", err)
	}
	// No flip; the left-handed transform itself negates the first axis.
	want := []geometry.Vec3{{-1, 0, 0}, {0, 1, 0}, {0, 0, -1}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("volume %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGradients_SchemeIsScannerSpacePassthrough(t *testing.T) {
	// A scheme is scanner-space by definition; the image transform must be
	// ignored even when it is a non-trivial rotation.
	perm := geometry.NewRotation([3][3]float64{{0, 1, 0}, {-1, 0, 0}, {0, 0, 1}})
	in := []geometry.Vec3{{0, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, 0, -1}}
	for _, src := range []metadata.GradientSource{metadata.GradScheme, metadata.GradTable} {
		obs := metadata.Observed{Gradients: in, GradientSource: src, Transform: metadata.Some(perm)}
		got, err := Gradients(obs, false)
		if err != nil {
			t.Fatalf("%v: %v", src, err)
		}
		for i := range in {
			if got[i] != in[i] {
				t.Errorf("%v volume %d: got %v, want untouched %v", src, i, got[i], in[i])
			}
		}
		// Returned slice must be a copy, not an alias.
		got[0][0] = 99
		if in[0][0] == 99 {
			t.Errorf("%v: reconciled slice aliases the observation", src)
		}
	}
}

func TestGradients_BvecWithoutTransform(t *testing.T) {
	obs := bvecObs([]geometry.Vec3{{1, 0, 0}}, metadata.None[geometry.Rotation]())
	if _, err := Gradients(obs, false); !core.IsMissingTransform(err) {
		t.Errorf("got %v, want ErrMissingTransform", err)
	}
}

func TestGradients_NoGradientInformation(t *testing.T) {
	if _, err := Gradients(metadata.Observed{}, false); !core.IsMissingField(err) {
		t.Errorf("got %v, want missing-field condition", err)
	}
}

func TestRotation_RealignedWithResidualTransform(t *testing.T) {
	// A tool that claims to have realigned the stored axes must have written
	// an identity transform; anything else means the rotation would be
	// applied twice.
	perm := geometry.NewRotation([3][3]float64{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}})
	obs := bvecObs([]geometry.Vec3{{1, 0, 0}}, metadata.Some(perm))
	if _, err := Gradients(obs, true); !core.IsMalformedArtifact(err) {
		t.Errorf("got %v, want malformed-artifact condition", err)
	}
}

func TestRotation_RealignedWithoutTransform(t *testing.T) {
	// Realigned output may simply omit the transform; identity is implied and
	// the right-handed flip still applies.
	obs := bvecObs([]geometry.Vec3{{1, 0, 0}}, metadata.None[geometry.Rotation]())
	got, err := Gradients(obs, true)
	if err != nil {
		t.Fatalf("Gradients: %v", err)
	}
	if got[0] != (geometry.Vec3{-1, 0, 0}) {
		t.Errorf("got %v, want [-1 0 0]", got[0])
	}
}

func TestEncodingDirection_AnatomicalIgnoresTransform(t *testing.T) {
	// Anatomical codes already name a scanner direction, so they resolve even
	// when no transform was observed.
	dir, err := EncodingDirection("PA", metadata.Observed{}, false)
	if err != nil {
		t.Fatalf("EncodingDirection: %v", err)
	}
	if dir != (geometry.Vec3{0, 1, 0}) {
		t.Errorf("got %v, want [0 1 0]", dir)
	}
}

func TestEncodingDirection_BIDSRequiresTransform(t *testing.T) {
	if _, err := EncodingDirection("j", metadata.Observed{}, false); !core.IsMissingTransform(err) {
		t.Errorf("got %v, want ErrMissingTransform", err)
	}

	perm := geometry.NewRotation([3][3]float64{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}})
	obs := metadata.Observed{Transform: metadata.Some(perm)}
	dir, err := EncodingDirection("j", obs, false)
	if err != nil {
		t.Fatalf("EncodingDirection: %v", err)
	}
	if dir != (geometry.Vec3{-1, 0, 0}) {
		t.Errorf("got %v, want [-1 0 0]", dir)
	}
}

func TestEncodingDirection_UnknownCode(t *testing.T) {
	obs := metadata.Observed{Transform: metadata.Some(geometry.Identity())}
	if _, err := EncodingDirection("upward", obs, false); !core.IsMalformedArtifact(err) {
		t.Errorf("got %v, want malformed-artifact condition", err)
	}
}

func TestPEVector_FlipConventionPerSource(t *testing.T) {
	// Topup and eddy tables follow the flat-table first-axis flip; the
	// internal-format table does not.
	cases := []struct {
		src  metadata.PESource
		want geometry.Vec3
	}{
		{metadata.PETopup, geometry.Vec3{1, 0, 0}},
		{metadata.PEEddy, geometry.Vec3{1, 0, 0}},
		{metadata.PETable, geometry.Vec3{-1, 0, 0}},
	}
	for _, tc := range cases {
		obs := metadata.Observed{
			PEVector:  metadata.Some(geometry.Vec3{-1, 0, 0}),
			PESource:  tc.src,
			Transform: metadata.Some(geometry.Identity()),
		}
		got, err := PEVector(obs, false)
		if err != nil {
			t.Fatalf("source %d: %v", tc.src, err)
		}
		if got != tc.want {
			t.Errorf("source %d: got %v, want %v", tc.src, got, tc.want)
		}
	}
}

func TestPEVector_Absent(t *testing.T) {
	obs := metadata.Observed{Transform: metadata.Some(geometry.Identity())}
	if _, err := PEVector(obs, false); !core.IsMissingField(err) {
		t.Errorf("got %v, want missing-field condition", err)
	}
}
