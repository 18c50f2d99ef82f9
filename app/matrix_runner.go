// Package app wires the validation components into the matrix runner: the
// service that enumerates {series} x {pipeline configuration} x {capability}
// and owns the aggregated outcome collection.
package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"dwiverify/domain/acquisition"
	"dwiverify/domain/compare"
	"dwiverify/domain/confidence"
	"dwiverify/domain/core"
	"dwiverify/domain/outcome"
	"dwiverify/domain/pipeline"
	"dwiverify/ports"
)

// MatrixRunner evaluates the full validation matrix. Cells are independent
// and evaluated in parallel up to a concurrency limit bounded by artifact
// I/O; per-cell conditions become error-kind outcomes so the run always
// completes with a full, queryable result set.
type MatrixRunner struct {
	reader      ports.ArtifactReader
	streamlines ports.StreamlineSource
	opts        compare.Options
	// margin is the orientation-confidence noise tolerance.
	margin float64
	// concurrency caps in-flight cell evaluations.
	concurrency int64
}

// NewMatrixRunner creates a runner. A concurrency of zero or less falls back
// to serial evaluation.
func NewMatrixRunner(reader ports.ArtifactReader, streamlines ports.StreamlineSource, opts compare.Options, margin float64, concurrency int) *MatrixRunner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &MatrixRunner{
		reader:      reader,
		streamlines: streamlines,
		opts:        opts,
		margin:      margin,
		concurrency: int64(concurrency),
	}
}

// cell is one (series, configuration) pair; its capabilities are evaluated
// together because they share one artifact read.
type cell struct {
	desc acquisition.Descriptor
	cfg  pipeline.Config
}

// RunAll enumerates and evaluates the cross-product for the given series and
// configurations, reading artifacts under root/<config label>/. Only a
// naming-grammar defect aborts the run; everything else lands in the result
// set.
func (r *MatrixRunner) RunAll(ctx context.Context, root string, seriesIDs []string, configs []pipeline.Config) (*outcome.ResultSet, error) {
	descriptors := make([]acquisition.Descriptor, 0, len(seriesIDs))
	for _, id := range seriesIDs {
		desc, err := acquisition.ExpectedFor(id)
		if err != nil {
			// Registry defect: abort rather than record, per the
			// propagation policy.
			return nil, err
		}
		descriptors = append(descriptors, desc)
	}

	results := outcome.NewResultSet(core.NewRunID())
	cells := make([]cell, 0, len(descriptors)*len(configs))
	for _, cfg := range configs {
		for _, desc := range descriptors {
			cells = append(cells, cell{desc: desc, cfg: cfg})
		}
	}
	log.Printf("[MatrixRunner] Run %s: %d series x %d configurations = %d cells (concurrency %d)",
		results.RunID(), len(descriptors), len(configs), len(cells), r.concurrency)

	sem := semaphore.NewWeighted(r.concurrency)
	group, gctx := errgroup.WithContext(ctx)
	for _, c := range cells {
		c := c
		group.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				// Whole-run cancellation; cells not yet started are
				// recorded as errors so the set stays complete.
				r.recordCancelled(results, c, err)
				return nil
			}
			defer sem.Release(1)
			r.evaluateCell(gctx, root, c, results)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return results, err
	}

	counts := results.CountByKind()
	log.Printf("[MatrixRunner] Run %s complete: %d pass, %d fail, %d error",
		results.RunID(), counts[outcome.KindPass], counts[outcome.KindFail], counts[outcome.KindError])
	return results, nil
}

// evaluateCell reads the cell's artifacts once and scores every capability
// meaningful for its configuration. A panic in one cell is confined to that
// cell; the recover handler records error outcomes only for the capabilities
// not yet judged, so every capability of the cell keeps exactly one outcome.
func (r *MatrixRunner) evaluateCell(ctx context.Context, root string, c cell, results *outcome.ResultSet) {
	recorded := make(map[outcome.Capability]bool)
	emit := func(o outcome.Outcome) {
		o.ConfigLabel = c.cfg.Label()
		results.Append(o)
		recorded[o.Capability] = true
	}
	defer func() {
		if rec := recover(); rec != nil {
			note := fmt.Sprintf("cell evaluation panicked: %v", rec)
			for _, capability := range c.cfg.Capabilities() {
				if !recorded[capability] {
					r.record(results, c, capability, outcome.KindError, note)
				}
			}
		}
	}()

	caps := c.cfg.Capabilities()
	if len(caps) == 0 {
		return
	}
	dir := filepath.Join(root, c.cfg.Label())

	var metadataCaps []outcome.Capability
	for _, capability := range caps {
		if capability != outcome.CapOrientation {
			metadataCaps = append(metadataCaps, capability)
		}
	}

	if len(metadataCaps) > 0 {
		obs, err := r.reader.Read(ctx, dir, c.desc.ID, c.cfg.Format)
		if err != nil {
			for _, capability := range metadataCaps {
				emit(outcome.Outcome{
					SeriesID:    c.desc.ID,
					Capability:  capability,
					Kind:        outcome.KindError,
					Note:        err.Error(),
					EvaluatedAt: core.Now(),
				})
			}
		} else {
			for _, capability := range metadataCaps {
				var o outcome.Outcome
				switch capability {
				case outcome.CapGradientTable, outcome.CapGradientScheme:
					o = compare.Gradients(obs, c.desc, capability, c.cfg.RealignApplied, r.opts)
				case outcome.CapSliceEncoding:
					o = compare.SliceEncoding(obs, c.desc, c.cfg.RealignApplied)
				case outcome.CapPhaseEncoding:
					o = compare.PhaseEncoding(obs, c.desc, c.cfg.RealignApplied)
				}
				emit(o)
			}
		}
	}

	if c.cfg.Tractography {
		correct, incorrect, err := r.streamlines.Lengths(ctx, dir, c.desc.ID)
		if err != nil {
			emit(outcome.Outcome{
				SeriesID:    c.desc.ID,
				Capability:  outcome.CapOrientation,
				Kind:        outcome.KindError,
				Note:        err.Error(),
				EvaluatedAt: core.Now(),
			})
		} else {
			emit(confidence.Evaluate(c.desc.ID, correct, incorrect, r.margin))
		}
	}
}

func (r *MatrixRunner) record(results *outcome.ResultSet, c cell, capability outcome.Capability, kind outcome.Kind, note string) {
	results.Append(outcome.Outcome{
		SeriesID:    c.desc.ID,
		ConfigLabel: c.cfg.Label(),
		Capability:  capability,
		Kind:        kind,
		Note:        note,
		EvaluatedAt: core.Now(),
	})
}

func (r *MatrixRunner) recordAll(results *outcome.ResultSet, c cell, kind outcome.Kind, note string) {
	for _, capability := range c.cfg.Capabilities() {
		r.record(results, c, capability, kind, note)
	}
}

func (r *MatrixRunner) recordCancelled(results *outcome.ResultSet, c cell, err error) {
	r.recordAll(results, c, outcome.KindError, fmt.Sprintf("run cancelled before evaluation: %v", err))
}
