// Package artifact implements format-specific extraction of observed
// metadata from conversion-pipeline outputs. One reader per format tag;
// fields the format does not carry, or that the producer omitted, are
// recorded as absent. A field that is present but unparseable is a
// malformed-artifact condition, which is a different thing entirely.
package artifact

import (
	"context"
	"fmt"

	"dwiverify/domain/metadata"
	"dwiverify/domain/pipeline"
)

// Reader reads pipeline output artifacts from local files. It implements
// ports.ArtifactReader and performs no I/O beyond the artifact directory.
type Reader struct{}

// NewReader creates an artifact reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read extracts observed metadata for one series from a configuration's
// artifact directory, dispatching on the format tag.
func (r *Reader) Read(ctx context.Context, dir, seriesID string, format pipeline.Format) (metadata.Observed, error) {
	if err := ctx.Err(); err != nil {
		return metadata.Observed{}, err
	}
	switch format.Tag {
	case pipeline.FormatFlatTriple:
		return r.readFlatTriple(dir, seriesID)
	case pipeline.FormatEddy:
		return r.readEddy(dir, seriesID)
	case pipeline.FormatTopup:
		return r.readTopup(dir, seriesID)
	case pipeline.FormatEmbeddedHeader:
		return r.readEmbeddedHeader(dir, seriesID)
	case pipeline.FormatInternalSidecar:
		return r.readInternalSidecar(dir, seriesID)
	case pipeline.FormatPETable:
		return r.readPETable(dir, seriesID)
	default:
		return metadata.Observed{}, fmt.Errorf("no reader for format %q", format.Tag)
	}
}
