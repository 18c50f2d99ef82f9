package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"

	"dwiverify/domain/core"
	"dwiverify/domain/metadata"
)

// applySidecar folds the JSON sidecar's encoding fields into obs. A missing
// sidecar file, or a missing key within it, leaves the fields absent; a key
// that is present with the wrong shape is malformed.
func applySidecar(dir, seriesID string, obs *metadata.Observed) error {
	path := filepath.Join(dir, seriesID+".json")
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return core.NewMalformedArtifactError(path, "sidecar", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return core.NewMalformedArtifactError(path, "sidecar", err)
	}

	if msg, ok := fields["PhaseEncodingDirection"]; ok {
		var code string
		if err := json.Unmarshal(msg, &code); err != nil {
			return core.NewMalformedArtifactError(path, "PhaseEncodingDirection", err)
		}
		obs.PhaseEncodingCode = metadata.Some(code)
		obs.PESource = metadata.PECode
	}
	if msg, ok := fields["SliceEncodingDirection"]; ok {
		var code string
		if err := json.Unmarshal(msg, &code); err != nil {
			return core.NewMalformedArtifactError(path, "SliceEncodingDirection", err)
		}
		obs.SliceEncodingCode = metadata.Some(code)
	}
	if msg, ok := fields["SliceTiming"]; ok {
		var timing []float64
		if err := json.Unmarshal(msg, &timing); err != nil {
			return core.NewMalformedArtifactError(path, "SliceTiming", err)
		}
		obs.SliceTiming = metadata.Some(timing)
	}
	return nil
}
