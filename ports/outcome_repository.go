package ports

import (
	"context"

	"dwiverify/domain/core"
	"dwiverify/domain/outcome"
)

// OutcomeRepository persists matrix runs and their outcome collections and
// serves the filterable queries the caller builds reports from.
type OutcomeRepository interface {
	SaveRun(ctx context.Context, run outcome.Run) error
	SaveOutcomes(ctx context.Context, outcomes []outcome.Outcome) error
	Runs(ctx context.Context) ([]outcome.Run, error)
	Outcomes(ctx context.Context, runID core.RunID, filter outcome.Filter) ([]outcome.Outcome, error)
}
