package artifact

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dwiverify/domain/core"
	"dwiverify/domain/geometry"
	"dwiverify/domain/metadata"
)

// mrtrixHeader holds the key/value lines of an internal-format header.
// Repeated keys (transform rows, gradient scheme rows) accumulate in order.
type mrtrixHeader map[string][]string

const mrtrixMagic = "mrtrix image"

// parseMRtrixHeader reads the text header of a .mih or .mif file. Both
// formats open with the magic line followed by "key: value" lines; .mif ends
// the text portion with an END marker before the binary payload, .mih keeps
// the payload in a separate file.
func parseMRtrixHeader(path string) (mrtrixHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("empty header")
	}
	if strings.TrimSpace(scanner.Text()) != mrtrixMagic {
		return nil, fmt.Errorf("missing %q magic line", mrtrixMagic)
	}

	header := make(mrtrixHeader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "END" {
			break
		}
		key, value, found := strings.Cut(line, ": ")
		if !found {
			return nil, fmt.Errorf("line %q is not a key/value pair", line)
		}
		header[key] = append(header[key], value)
	}
	return header, scanner.Err()
}

// first returns the single value for a key, when present.
func (h mrtrixHeader) first(key string) (string, bool) {
	values, ok := h[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// transform extracts the rotation part from the header's transform rows.
func (h mrtrixHeader) transform() (metadata.Field[geometry.Rotation], error) {
	rows, ok := h["transform"]
	if !ok {
		return metadata.None[geometry.Rotation](), nil
	}
	rot, err := parseRotationLines(rows)
	if err != nil {
		return metadata.None[geometry.Rotation](), err
	}
	return metadata.Some(rot), nil
}

// gradScheme extracts the embedded gradient scheme, one comma-separated
// "x,y,z,b" row per diffusion volume.
func (h mrtrixHeader) gradScheme() ([]geometry.Vec3, []float64, bool, error) {
	rows, ok := h["dw_scheme"]
	if !ok {
		return nil, nil, false, nil
	}
	vecs := make([]geometry.Vec3, 0, len(rows))
	bvals := make([]float64, 0, len(rows))
	for _, row := range rows {
		vals, err := parseFloats(row)
		if err != nil {
			return nil, nil, true, err
		}
		if len(vals) != 4 {
			return nil, nil, true, fmt.Errorf("scheme row has %d values, expected 4", len(vals))
		}
		vecs = append(vecs, geometry.Vec3{vals[0], vals[1], vals[2]})
		bvals = append(bvals, vals[3])
	}
	return vecs, bvals, true, nil
}

// applyHeaderKeyvalues folds the header's encoding fields into obs with the
// same absence semantics as the JSON sidecar.
func (h mrtrixHeader) applyKeyvalues(path string, obs *metadata.Observed) error {
	if code, ok := h.first("PhaseEncodingDirection"); ok {
		obs.PhaseEncodingCode = metadata.Some(code)
		obs.PESource = metadata.PECode
	}
	if code, ok := h.first("SliceEncodingDirection"); ok {
		obs.SliceEncodingCode = metadata.Some(code)
	}
	if raw, ok := h.first("SliceTiming"); ok {
		timing, err := parseFloats(raw)
		if err != nil {
			return core.NewMalformedArtifactError(path, "SliceTiming", err)
		}
		obs.SliceTiming = metadata.Some(timing)
	}
	return nil
}

// readEmbeddedHeader reads the layout where every field lives in the image's
// own text header.
func (r *Reader) readEmbeddedHeader(dir, seriesID string) (metadata.Observed, error) {
	var obs metadata.Observed
	path := filepath.Join(dir, seriesID+".mih")

	header, err := parseMRtrixHeader(path)
	if err != nil {
		return obs, core.NewMalformedArtifactError(path, "header", err)
	}

	vecs, bvals, present, err := header.gradScheme()
	if err != nil {
		return obs, core.NewMalformedArtifactError(path, "dw_scheme", err)
	}
	if present {
		obs.Gradients = vecs
		obs.BValues = bvals
		obs.GradientSource = metadata.GradScheme
	}

	if err := header.applyKeyvalues(path, &obs); err != nil {
		return obs, err
	}

	obs.Transform, err = header.transform()
	if err != nil {
		return obs, core.NewMalformedArtifactError(path, "transform", err)
	}
	return obs, nil
}

// readInternalSidecar reads the layout where the image is an internal
// format but metadata lives in an external JSON sidecar and gradient table.
// The embedded scheme wins when the image header carries one; otherwise the
// external table supplies the gradients, already in scanner space.
func (r *Reader) readInternalSidecar(dir, seriesID string) (metadata.Observed, error) {
	var obs metadata.Observed
	imgPath := filepath.Join(dir, seriesID+".mif")

	header, err := parseMRtrixHeader(imgPath)
	if err != nil {
		return obs, core.NewMalformedArtifactError(imgPath, "header", err)
	}

	vecs, bvals, present, err := header.gradScheme()
	if err != nil {
		return obs, core.NewMalformedArtifactError(imgPath, "dw_scheme", err)
	}
	if present {
		obs.Gradients = vecs
		obs.BValues = bvals
		obs.GradientSource = metadata.GradScheme
	} else {
		if err := readGradTable(dir, seriesID, &obs); err != nil {
			return obs, err
		}
	}

	if err := applySidecar(dir, seriesID, &obs); err != nil {
		return obs, err
	}

	obs.Transform, err = header.transform()
	if err != nil {
		return obs, core.NewMalformedArtifactError(imgPath, "transform", err)
	}
	return obs, nil
}

// readGradTable parses the external gradient table: whitespace-separated
// "x y z b" rows, comment lines starting with '#'.
func readGradTable(dir, seriesID string, obs *metadata.Observed) error {
	path := filepath.Join(dir, seriesID+".grad")
	rows, err := readNumericTable(path, 4)
	if err != nil {
		return core.NewMalformedArtifactError(path, "grad", err)
	}
	for _, row := range rows {
		obs.Gradients = append(obs.Gradients, geometry.Vec3{row[0], row[1], row[2]})
		obs.BValues = append(obs.BValues, row[3])
	}
	obs.GradientSource = metadata.GradTable
	return nil
}
