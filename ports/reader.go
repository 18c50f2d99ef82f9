package ports

import (
	"context"

	"dwiverify/domain/metadata"
	"dwiverify/domain/pipeline"
)

// ArtifactReader extracts observed metadata from a pipeline configuration's
// on-disk output artifacts. Implementations are pure extraction: no fallback
// assumptions, no comparison logic.
type ArtifactReader interface {
	Read(ctx context.Context, dir, seriesID string, format pipeline.Format) (metadata.Observed, error)
}
