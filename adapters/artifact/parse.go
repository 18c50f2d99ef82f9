package artifact

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dwiverify/domain/core"
	"dwiverify/domain/geometry"
	"dwiverify/domain/metadata"
)

// readLines returns the non-empty lines of a text file.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

// parseFloats parses a whitespace- or comma-separated numeric row.
func parseFloats(s string) ([]float64, error) {
	s = strings.ReplaceAll(s, ",", " ")
	fields := strings.Fields(s)
	out := make([]float64, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not numeric", field)
		}
		out = append(out, v)
	}
	return out, nil
}

// readNumericTable reads a file of numeric rows, requiring every row to have
// cols columns.
func readNumericTable(path string, cols int) ([][]float64, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	rows := make([][]float64, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		row, err := parseFloats(line)
		if err != nil {
			return nil, err
		}
		if len(row) != cols {
			return nil, fmt.Errorf("row has %d columns, expected %d", len(row), cols)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// readTransformFile reads the image-to-scanner transform the conversion
// harness writes alongside flat-format images (<series>.transform, one
// whitespace-separated affine row per line). A missing file is absence, not
// an error: some configurations legitimately carry no transform.
func readTransformFile(dir, seriesID string) (metadata.Field[geometry.Rotation], error) {
	path := filepath.Join(dir, seriesID+".transform")
	lines, err := readLines(path)
	if os.IsNotExist(err) {
		return metadata.None[geometry.Rotation](), nil
	}
	if err != nil {
		return metadata.None[geometry.Rotation](), core.NewMalformedArtifactError(path, "transform", err)
	}
	rot, perr := parseRotationLines(lines)
	if perr != nil {
		return metadata.None[geometry.Rotation](), core.NewMalformedArtifactError(path, "transform", perr)
	}
	return metadata.Some(rot), nil
}

// parseRotationLines interprets affine rows into the rotation part of the
// transform.
func parseRotationLines(lines []string) (geometry.Rotation, error) {
	rows := make([][]float64, 0, len(lines))
	for _, line := range lines {
		row, err := parseFloats(line)
		if err != nil {
			return geometry.Rotation{}, err
		}
		rows = append(rows, row)
	}
	return geometry.ParseRotation(rows)
}

// unitAxis checks that v is a signed unit vector along exactly one axis.
func unitAxis(v geometry.Vec3) error {
	nonzero := 0
	for _, c := range v {
		if c != 0 {
			nonzero++
		}
	}
	if nonzero != 1 || v.Norm() != 1 {
		return fmt.Errorf("direction %v is not a signed unit axis", v)
	}
	return nil
}
