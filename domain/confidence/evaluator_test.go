package confidence

import (
	"math"
	"strings"
	"testing"

	"dwiverify/domain/outcome"
)

func TestEvaluate_CorrectTransformLongerPasses(t *testing.T) {
	correct := []float64{40, 42, 44}
	incorrect := []float64{30, 33}

	o := Evaluate("DWI_Tra_Asc_PA", correct, incorrect, 0)
	if o.Kind != outcome.KindPass {
		t.Fatalf("kind = %s (%s), want pass", o.Kind, o.Note)
	}
	if want := 42.0 / 31.5; math.Abs(o.LengthRatio-want) > 1e-12 {
		t.Errorf("length ratio = %f, want %f", o.LengthRatio, want)
	}
	if !strings.Contains(o.Note, "mean length") {
		t.Errorf("note %q should carry the summary statistics", o.Note)
	}
}

func TestEvaluate_IncorrectTransformLongerFails(t *testing.T) {
	o := Evaluate("DWI_Tra_Asc_PA", []float64{30, 33}, []float64{40, 42, 44}, 0)
	if o.Kind != outcome.KindFail {
		t.Fatalf("kind = %s, want fail", o.Kind)
	}
	if o.LengthRatio >= 1 {
		t.Errorf("length ratio = %f, want < 1", o.LengthRatio)
	}
}

func TestEvaluate_EqualMeansFail(t *testing.T) {
	// The check is strict: "no longer" is not evidence of a correct
	// transform.
	o := Evaluate("DWI_Tra_Asc_PA", []float64{40, 40}, []float64{40, 40}, 0)
	if o.Kind != outcome.KindFail {
		t.Fatalf("kind = %s, want fail", o.Kind)
	}
}

func TestEvaluate_MarginRaisesTheBar(t *testing.T) {
	correct := []float64{42, 42}
	incorrect := []float64{40, 40}

	if o := Evaluate("DWI_Tra_Asc_PA", correct, incorrect, 0); o.Kind != outcome.KindPass {
		t.Fatalf("margin 0: kind = %s, want pass", o.Kind)
	}
	if o := Evaluate("DWI_Tra_Asc_PA", correct, incorrect, 5); o.Kind != outcome.KindFail {
		t.Fatalf("margin 5: kind = %s, want fail", o.Kind)
	}
}

func TestEvaluate_EmptySetIsError(t *testing.T) {
	if o := Evaluate("DWI_Tra_Asc_PA", nil, []float64{1}, 0); o.Kind != outcome.KindError {
		t.Errorf("empty correct set: kind = %s, want error", o.Kind)
	}
	if o := Evaluate("DWI_Tra_Asc_PA", []float64{1}, nil, 0); o.Kind != outcome.KindError {
		t.Errorf("empty incorrect set: kind = %s, want error", o.Kind)
	}
}
