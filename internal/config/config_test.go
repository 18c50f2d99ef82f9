package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "PORT", "ARTIFACT_ROOT", "ANGULAR_TOLERANCE_DEG", "STREAMLINE_MARGIN", "CONCURRENCY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Validation.ArtifactRoot != "scratch" {
		t.Errorf("artifact root = %s, want scratch", cfg.Validation.ArtifactRoot)
	}
	if cfg.Validation.AngularToleranceDeg != 5 {
		t.Errorf("tolerance = %f, want 5", cfg.Validation.AngularToleranceDeg)
	}
	if cfg.Validation.Concurrency != 8 {
		t.Errorf("concurrency = %d, want 8", cfg.Validation.Concurrency)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ARTIFACT_ROOT", "/data/artifacts")
	t.Setenv("ANGULAR_TOLERANCE_DEG", "2.5")
	t.Setenv("STREAMLINE_MARGIN", "1.5")
	t.Setenv("CONCURRENCY", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Validation.ArtifactRoot != "/data/artifacts" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Validation.AngularToleranceDeg != 2.5 || cfg.Validation.StreamlineMargin != 1.5 {
		t.Errorf("threshold overrides not applied: %+v", cfg.Validation)
	}
	if cfg.Validation.Concurrency != 2 {
		t.Errorf("concurrency = %d, want 2", cfg.Validation.Concurrency)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("non-positive tolerance", func(t *testing.T) {
		t.Setenv("ANGULAR_TOLERANCE_DEG", "0")
		if _, err := Load(); err == nil {
			t.Error("expected error for zero tolerance")
		}
	})
	t.Run("non-numeric tolerance", func(t *testing.T) {
		t.Setenv("ANGULAR_TOLERANCE_DEG", "five")
		if _, err := Load(); err == nil {
			t.Error("expected error for non-numeric tolerance")
		}
	})
	t.Run("zero concurrency", func(t *testing.T) {
		t.Setenv("CONCURRENCY", "0")
		if _, err := Load(); err == nil {
			t.Error("expected error for zero concurrency")
		}
	})
}
