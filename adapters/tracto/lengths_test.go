package tracto

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dwiverify/domain/core"
)

const testSeries = "DWI_Tra_Asc_PA"

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
}

func TestLengths(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, testSeries+"_correct.lengths", "40.5\n42.0\n\n44.25\n")
	writeFixture(t, dir, testSeries+"_flipped.lengths", "30.0\n33.0\n")

	correct, incorrect, err := NewLengthFileSource().Lengths(context.Background(), dir, testSeries)
	if err != nil {
		t.Fatalf("Lengths: %v", err)
	}
	if len(correct) != 3 || correct[2] != 44.25 {
		t.Errorf("correct = %v", correct)
	}
	if len(incorrect) != 2 || incorrect[0] != 30.0 {
		t.Errorf("incorrect = %v", incorrect)
	}
}

func TestLengths_MissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, testSeries+"_correct.lengths", "40.5\n")

	_, _, err := NewLengthFileSource().Lengths(context.Background(), dir, testSeries)
	if !core.IsMalformedArtifact(err) {
		t.Errorf("got %v, want malformed-artifact condition", err)
	}
}

func TestLengths_NonNumericLine(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, testSeries+"_correct.lengths", "40.5\nshort\n")
	writeFixture(t, dir, testSeries+"_flipped.lengths", "30.0\n")

	_, _, err := NewLengthFileSource().Lengths(context.Background(), dir, testSeries)
	if !core.IsMalformedArtifact(err) {
		t.Errorf("got %v, want malformed-artifact condition", err)
	}
}

func TestLengths_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := NewLengthFileSource().Lengths(ctx, t.TempDir(), testSeries); err == nil {
		t.Error("expected error for cancelled context")
	}
}
