package main

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"dwiverify/adapters/artifact"
	"dwiverify/adapters/postgres"
	"dwiverify/adapters/tracto"
	"dwiverify/app"
	"dwiverify/domain/acquisition"
	"dwiverify/domain/compare"
	"dwiverify/domain/core"
	"dwiverify/domain/outcome"
	"dwiverify/domain/pipeline"
	"dwiverify/internal/config"
	"dwiverify/internal/errors"
	"dwiverify/ui"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("[Main] Loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Main] Configuration error (%s): %v", errors.GetCode(err), err)
	}

	ctx := context.Background()

	runner := app.NewMatrixRunner(
		artifact.NewReader(),
		tracto.NewLengthFileSource(),
		compare.Options{AngularToleranceDeg: cfg.Validation.AngularToleranceDeg},
		cfg.Validation.StreamlineMargin,
		cfg.Validation.Concurrency,
	)

	seriesIDs := make([]string, 0, 24)
	for _, desc := range acquisition.All() {
		seriesIDs = append(seriesIDs, desc.ID)
	}

	run := outcome.Run{
		ArtifactRoot: cfg.Validation.ArtifactRoot,
		ToleranceDeg: cfg.Validation.AngularToleranceDeg,
	}
	run.StartedAt = core.Now()

	results, err := runner.RunAll(ctx, cfg.Validation.ArtifactRoot, seriesIDs, pipeline.DefaultMatrix())
	if err != nil {
		log.Fatalf("[Main] Matrix run aborted: %v", err)
	}
	run.ID = results.RunID()
	run.CompletedAt = core.Now()

	counts := results.CountByKind()
	log.Printf("[Main] Run %s: %d outcomes (%d pass, %d fail, %d error)",
		run.ID, results.Len(),
		counts[outcome.KindPass], counts[outcome.KindFail], counts[outcome.KindError])

	if cfg.Database.URL == "" {
		log.Println("[Main] DATABASE_URL not set; skipping persistence and query API")
		if counts[outcome.KindFail]+counts[outcome.KindError] > 0 {
			os.Exit(1)
		}
		return
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("[Main] Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("[Main] %v", err)
	}

	repo := postgres.NewOutcomeRepository(db)
	if err := repo.SaveRun(ctx, run); err != nil {
		log.Fatalf("[Main] Failed to save run: %v", err)
	}
	if err := repo.SaveOutcomes(ctx, results.All()); err != nil {
		log.Fatalf("[Main] Failed to save outcomes: %v", err)
	}
	log.Printf("[Main] Persisted run %s", run.ID)

	queryAPI := ui.NewApp(repo)
	if err := queryAPI.Serve(cfg.Server.Port); err != nil {
		log.Fatalf("[Main] Query API failed: %v", err)
	}
}
