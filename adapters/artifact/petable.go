package artifact

import (
	"fmt"
	"path/filepath"

	"dwiverify/domain/core"
	"dwiverify/domain/geometry"
	"dwiverify/domain/metadata"
)

// The three table-style phase-encoding layouts share a shape: an axis
// 3-vector plus a readout time. The per-volume tables must be uniform, since
// every volume of a series shares one phase-encoding direction.

// readPETable reads the internal format with an external phase-encoding
// table: image plus <series>.petable, one "x y z time" row per volume.
func (r *Reader) readPETable(dir, seriesID string) (metadata.Observed, error) {
	var obs metadata.Observed
	imgPath := filepath.Join(dir, seriesID+".mif")

	header, err := parseMRtrixHeader(imgPath)
	if err != nil {
		return obs, core.NewMalformedArtifactError(imgPath, "header", err)
	}
	obs.Transform, err = header.transform()
	if err != nil {
		return obs, core.NewMalformedArtifactError(imgPath, "transform", err)
	}

	dir3, err := readUniformTable(filepath.Join(dir, seriesID+".petable"))
	if err != nil {
		return obs, err
	}
	obs.PEVector = metadata.Some(dir3)
	obs.PESource = metadata.PETable
	return obs, nil
}

// readTopup reads the image + full topup phase-encoding table layout.
func (r *Reader) readTopup(dir, seriesID string) (metadata.Observed, error) {
	var obs metadata.Observed

	var err error
	obs.Transform, err = readTransformFile(dir, seriesID)
	if err != nil {
		return obs, err
	}

	dir3, err := readUniformTable(filepath.Join(dir, seriesID+".topup"))
	if err != nil {
		return obs, err
	}
	obs.PEVector = metadata.Some(dir3)
	obs.PESource = metadata.PETopup
	return obs, nil
}

// readEddy reads the image + FSL eddy config/index pair: a single
// "x y z time" config row, and an index file assigning every volume to it.
func (r *Reader) readEddy(dir, seriesID string) (metadata.Observed, error) {
	var obs metadata.Observed

	var err error
	obs.Transform, err = readTransformFile(dir, seriesID)
	if err != nil {
		return obs, err
	}

	cfgPath := filepath.Join(dir, seriesID+".eddycfg")
	rows, err := readNumericTable(cfgPath, 4)
	if err != nil {
		return obs, core.NewMalformedArtifactError(cfgPath, "eddy config", err)
	}
	if len(rows) != 1 {
		return obs, core.NewMalformedArtifactError(cfgPath, "eddy config",
			fmt.Errorf("expected a single config row, found %d", len(rows)))
	}
	dir3 := geometry.Vec3{rows[0][0], rows[0][1], rows[0][2]}
	if err := unitAxis(dir3); err != nil {
		return obs, core.NewMalformedArtifactError(cfgPath, "eddy config", err)
	}

	idxPath := filepath.Join(dir, seriesID+".eddyidx")
	idxLines, err := readLines(idxPath)
	if err != nil {
		return obs, core.NewMalformedArtifactError(idxPath, "eddy index", err)
	}
	for _, line := range idxLines {
		vals, err := parseFloats(line)
		if err != nil {
			return obs, core.NewMalformedArtifactError(idxPath, "eddy index", err)
		}
		for _, v := range vals {
			if v != 1 {
				return obs, core.NewMalformedArtifactError(idxPath, "eddy index",
					fmt.Errorf("volume mapped to config row %g, expected 1", v))
			}
		}
	}

	obs.PEVector = metadata.Some(dir3)
	obs.PESource = metadata.PEEddy
	return obs, nil
}

// readUniformTable reads an N-row "x y z time" table, requires all rows
// identical, and returns the axis vector.
func readUniformTable(path string) (geometry.Vec3, error) {
	rows, err := readNumericTable(path, 4)
	if err != nil {
		return geometry.Vec3{}, core.NewMalformedArtifactError(path, "phase encoding table", err)
	}
	if len(rows) == 0 {
		return geometry.Vec3{}, core.NewMalformedArtifactError(path, "phase encoding table",
			fmt.Errorf("table is empty"))
	}
	for i, row := range rows[1:] {
		for j := range row {
			if row[j] != rows[0][j] {
				return geometry.Vec3{}, core.NewMalformedArtifactError(path, "phase encoding table",
					fmt.Errorf("row %d differs from row 0", i+1))
			}
		}
	}
	dir3 := geometry.Vec3{rows[0][0], rows[0][1], rows[0][2]}
	if err := unitAxis(dir3); err != nil {
		return geometry.Vec3{}, core.NewMalformedArtifactError(path, "phase encoding table", err)
	}
	return dir3, nil
}
