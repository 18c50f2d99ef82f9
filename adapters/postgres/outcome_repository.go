// Package postgres persists validation runs and outcomes so the caller's
// reporting layer can query them after the engine exits.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"dwiverify/domain/core"
	"dwiverify/domain/outcome"
	"dwiverify/ports"
)

// OutcomeRepositoryImpl implements ports.OutcomeRepository for PostgreSQL.
type OutcomeRepositoryImpl struct {
	db *sqlx.DB
}

// NewOutcomeRepository creates a new PostgreSQL outcome repository.
func NewOutcomeRepository(db *sqlx.DB) ports.OutcomeRepository {
	return &OutcomeRepositoryImpl{db: db}
}

// EnsureSchema creates the backing tables when absent.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS validation_runs (
			id            UUID PRIMARY KEY,
			artifact_root TEXT NOT NULL,
			tolerance_deg DOUBLE PRECISION NOT NULL,
			started_at    TIMESTAMPTZ NOT NULL,
			completed_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS validation_outcomes (
			id                UUID PRIMARY KEY,
			run_id            UUID NOT NULL REFERENCES validation_runs(id),
			series_id         TEXT NOT NULL,
			config_label      TEXT NOT NULL,
			capability        INT NOT NULL,
			kind              TEXT NOT NULL,
			angular_error_deg DOUBLE PRECISION NOT NULL DEFAULT 0,
			axis_mismatch     BOOLEAN NOT NULL DEFAULT FALSE,
			length_ratio      DOUBLE PRECISION NOT NULL DEFAULT 0,
			note              TEXT NOT NULL DEFAULT '',
			evaluated_at      TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run ON validation_outcomes (run_id, series_id, config_label, capability)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema setup failed: %w", err)
		}
	}
	return nil
}

// SaveRun stores one matrix run record.
func (r *OutcomeRepositoryImpl) SaveRun(ctx context.Context, run outcome.Run) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO validation_runs (id, artifact_root, tolerance_deg, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			completed_at = EXCLUDED.completed_at`,
		run.ID.String(), run.ArtifactRoot, run.ToleranceDeg,
		run.StartedAt.Time(), run.CompletedAt.Time())
	return err
}

// SaveOutcomes stores a batch of outcomes inside one transaction.
func (r *OutcomeRepositoryImpl) SaveOutcomes(ctx context.Context, outcomes []outcome.Outcome) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, o := range outcomes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO validation_outcomes (
				id, run_id, series_id, config_label, capability, kind,
				angular_error_deg, axis_mismatch, length_ratio, note, evaluated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO NOTHING`,
			o.ID.String(), o.RunID.String(), o.SeriesID, o.ConfigLabel,
			int(o.Capability), string(o.Kind),
			o.AngularErrorDeg, o.AxisMismatch, o.LengthRatio, o.Note,
			o.EvaluatedAt.Time())
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Runs lists stored runs, most recent first.
func (r *OutcomeRepositoryImpl) Runs(ctx context.Context) ([]outcome.Run, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, artifact_root, tolerance_deg, started_at, completed_at
		FROM validation_runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []outcome.Run
	for rows.Next() {
		var run outcome.Run
		var id string
		var started, completed time.Time
		if err := rows.Scan(&id, &run.ArtifactRoot, &run.ToleranceDeg, &started, &completed); err != nil {
			return nil, err
		}
		run.ID = core.RunID(id)
		run.StartedAt = core.Timestamp(started)
		run.CompletedAt = core.Timestamp(completed)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Outcomes returns the outcomes of one run matching the filter.
func (r *OutcomeRepositoryImpl) Outcomes(ctx context.Context, runID core.RunID, filter outcome.Filter) ([]outcome.Outcome, error) {
	query := `
		SELECT id, run_id, series_id, config_label, capability, kind,
		       angular_error_deg, axis_mismatch, length_ratio, note, evaluated_at
		FROM validation_outcomes WHERE run_id = $1`
	args := []interface{}{runID.String()}

	if filter.SeriesID != "" {
		args = append(args, filter.SeriesID)
		query += fmt.Sprintf(" AND series_id = $%d", len(args))
	}
	if filter.ConfigLabel != "" {
		args = append(args, filter.ConfigLabel)
		query += fmt.Sprintf(" AND config_label = $%d", len(args))
	}
	if filter.Capability != 0 {
		args = append(args, int(filter.Capability))
		query += fmt.Sprintf(" AND capability = $%d", len(args))
	}
	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	query += " ORDER BY series_id, config_label, capability"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []outcome.Outcome
	for rows.Next() {
		var o outcome.Outcome
		var id, rid, kind string
		var capability int
		var evaluated time.Time
		if err := rows.Scan(&id, &rid, &o.SeriesID, &o.ConfigLabel, &capability, &kind,
			&o.AngularErrorDeg, &o.AxisMismatch, &o.LengthRatio, &o.Note, &evaluated); err != nil {
			return nil, err
		}
		o.ID = core.ID(id)
		o.RunID = core.RunID(rid)
		o.Capability = outcome.Capability(capability)
		o.Kind = outcome.Kind(kind)
		o.EvaluatedAt = core.Timestamp(evaluated)
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
