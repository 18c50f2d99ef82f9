package acquisition

import (
	"math"
	"testing"

	"dwiverify/domain/core"
	"dwiverify/domain/geometry"
)

func TestAll_Enumerates24Series(t *testing.T) {
	all := All()
	if len(all) != 24 {
		t.Fatalf("got %d series, want 24", len(all))
	}
	seen := make(map[string]bool)
	for _, d := range all {
		if seen[d.ID] {
			t.Errorf("duplicate series %s", d.ID)
		}
		seen[d.ID] = true
	}
}

func TestExpectedFor_DecodesEveryKnownName(t *testing.T) {
	// The grammar is total over the closed set: decoding any generated name
	// must round-trip.
	for _, want := range All() {
		got, err := ExpectedFor(want.ID)
		if err != nil {
			t.Fatalf("ExpectedFor(%s): %v", want.ID, err)
		}
		if got != want {
			t.Errorf("ExpectedFor(%s) = %+v, want %+v", want.ID, got, want)
		}
	}
}

func TestExpectedFor_UnknownName(t *testing.T) {
	for _, id := range []string{"", "DWI_Tra_Asc", "DWI_Obl_Asc_AP", "T1_Tra_Asc_AP", "DWI_Tra_Asc_FH"} {
		_, err := ExpectedFor(id)
		if err == nil {
			t.Errorf("ExpectedFor(%q) succeeded, want ErrUnknownSeries", id)
			continue
		}
		if !core.IsUnknownSeries(err) {
			t.Errorf("ExpectedFor(%q) error = %v, want ErrUnknownSeries", id, err)
		}
	}
}

func TestGrammar_ExcludesCollinearCombinations(t *testing.T) {
	// Phase encoding along the slice plane normal is not acquirable:
	// DWI_Tra_*_HF / _FH, DWI_Cor_*_AP / _PA, DWI_Sag_*_RL / _LR.
	for _, id := range []string{
		"DWI_Tra_Asc_HF", "DWI_Tra_Des_FH",
		"DWI_Cor_Asc_AP", "DWI_Cor_Des_PA",
		"DWI_Sag_Asc_RL", "DWI_Sag_Des_LR",
	} {
		if _, err := ExpectedFor(id); err == nil {
			t.Errorf("collinear combination %s should not be in the grammar", id)
		}
	}
}

func TestFiducials_Orthonormal(t *testing.T) {
	for i := range Fiducials {
		if n := Fiducials[i].Norm(); math.Abs(n-1) > 1e-12 {
			t.Errorf("fiducial %d norm = %f, want 1", i, n)
		}
		for j := i + 1; j < len(Fiducials); j++ {
			if dot := Fiducials[i].Dot(Fiducials[j]); dot != 0 {
				t.Errorf("fiducials %d and %d not orthogonal (dot %f)", i, j, dot)
			}
		}
	}
}

func TestDescriptor_Directions(t *testing.T) {
	cases := []struct {
		id        string
		slice, pe geometry.Vec3
	}{
		{"DWI_Tra_Asc_PA", geometry.Vec3{0, 0, 1}, geometry.Vec3{0, 1, 0}},
		{"DWI_Tra_Des_AP", geometry.Vec3{0, 0, -1}, geometry.Vec3{0, -1, 0}},
		{"DWI_Cor_Asc_FH", geometry.Vec3{0, -1, 0}, geometry.Vec3{0, 0, 1}},
		{"DWI_Sag_Des_HF", geometry.Vec3{1, 0, 0}, geometry.Vec3{0, 0, -1}},
	}
	for _, tc := range cases {
		d, err := ExpectedFor(tc.id)
		if err != nil {
			t.Fatalf("ExpectedFor(%s): %v", tc.id, err)
		}
		if got := d.SliceEncodingDirection(); got != tc.slice {
			t.Errorf("%s slice direction = %v, want %v", tc.id, got, tc.slice)
		}
		if got := d.PhaseEncodingDirection(); got != tc.pe {
			t.Errorf("%s phase direction = %v, want %v", tc.id, got, tc.pe)
		}
	}
}
