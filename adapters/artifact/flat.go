package artifact

import (
	"fmt"
	"path/filepath"

	"dwiverify/domain/core"
	"dwiverify/domain/geometry"
	"dwiverify/domain/metadata"
)

// readFlatTriple reads the image + JSON sidecar + bvec/bval layout. The
// gradient table is the FSL convention: three rows of per-volume components,
// image-space vectors.
func (r *Reader) readFlatTriple(dir, seriesID string) (metadata.Observed, error) {
	var obs metadata.Observed

	vecs, bvals, err := readBvecBval(dir, seriesID)
	if err != nil {
		return obs, err
	}
	obs.Gradients = vecs
	obs.BValues = bvals
	obs.GradientSource = metadata.GradBvec

	if err := applySidecar(dir, seriesID, &obs); err != nil {
		return obs, err
	}

	obs.Transform, err = readTransformFile(dir, seriesID)
	if err != nil {
		return obs, err
	}
	return obs, nil
}

// readBvecBval parses the flat gradient table pair. The bvec file holds
// exactly three rows (x, y, z) of N components each; the bval file holds the
// N aligned sensitization magnitudes.
func readBvecBval(dir, seriesID string) ([]geometry.Vec3, []float64, error) {
	bvecPath := filepath.Join(dir, seriesID+".bvec")
	lines, err := readLines(bvecPath)
	if err != nil {
		return nil, nil, core.NewMalformedArtifactError(bvecPath, "bvec", err)
	}
	if len(lines) != 3 {
		return nil, nil, core.NewMalformedArtifactError(bvecPath, "bvec",
			fmt.Errorf("expected 3 component rows, found %d", len(lines)))
	}

	var rows [3][]float64
	for i, line := range lines {
		rows[i], err = parseFloats(line)
		if err != nil {
			return nil, nil, core.NewMalformedArtifactError(bvecPath, "bvec", err)
		}
		if len(rows[i]) != len(rows[0]) {
			return nil, nil, core.NewMalformedArtifactError(bvecPath, "bvec",
				fmt.Errorf("component rows have unequal lengths"))
		}
	}

	n := len(rows[0])
	vecs := make([]geometry.Vec3, n)
	for v := 0; v < n; v++ {
		vecs[v] = geometry.Vec3{rows[0][v], rows[1][v], rows[2][v]}
	}

	bvalPath := filepath.Join(dir, seriesID+".bval")
	blines, err := readLines(bvalPath)
	if err != nil {
		return nil, nil, core.NewMalformedArtifactError(bvalPath, "bval", err)
	}
	var bvals []float64
	for _, line := range blines {
		row, err := parseFloats(line)
		if err != nil {
			return nil, nil, core.NewMalformedArtifactError(bvalPath, "bval", err)
		}
		bvals = append(bvals, row...)
	}
	if len(bvals) != n {
		return nil, nil, core.NewMalformedArtifactError(bvalPath, "bval",
			fmt.Errorf("%d values for %d volumes", len(bvals), n))
	}
	return vecs, bvals, nil
}
