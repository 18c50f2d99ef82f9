// Package tracto loads the per-series streamline length sets produced by
// the external tractography-like reconstruction step: one file per
// transform variant, one length in millimetres per line.
package tracto

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dwiverify/domain/core"
)

// LengthFileSource implements ports.StreamlineSource over the on-disk
// layout <series>_correct.lengths / <series>_flipped.lengths.
type LengthFileSource struct{}

// NewLengthFileSource creates a length-file source.
func NewLengthFileSource() *LengthFileSource {
	return &LengthFileSource{}
}

// Lengths reads the two length sets for one series.
func (s *LengthFileSource) Lengths(ctx context.Context, dir, seriesID string) (correct, incorrect []float64, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	correct, err = readLengths(filepath.Join(dir, seriesID+"_correct.lengths"))
	if err != nil {
		return nil, nil, err
	}
	incorrect, err = readLengths(filepath.Join(dir, seriesID+"_flipped.lengths"))
	if err != nil {
		return nil, nil, err
	}
	return correct, incorrect, nil
}

func readLengths(path string) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewMalformedArtifactError(path, "streamline lengths", err)
	}
	var out []float64
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, core.NewMalformedArtifactError(path, "streamline lengths", err)
		}
		out = append(out, v)
	}
	return out, nil
}
