package outcome

import (
	"sync"

	"dwiverify/domain/core"
)

// Capability identifies one of the five validation capabilities.
type Capability int

const (
	// CapGradientTable checks gradient vectors stored as a flat file
	// (image-space, transform required for comparison).
	CapGradientTable Capability = 1
	// CapGradientScheme checks an internal gradient scheme
	// (scanner-space by definition).
	CapGradientScheme Capability = 2
	// CapSliceEncoding checks the slice-encoding axis, sign and timing
	// order.
	CapSliceEncoding Capability = 3
	// CapPhaseEncoding checks the phase-encoding axis and sign.
	CapPhaseEncoding Capability = 4
	// CapOrientation checks that correctly-reoriented fibre-orientation
	// estimates reconstruct longer streamlines than incorrectly-reoriented
	// ones.
	CapOrientation Capability = 5
)

func (c Capability) String() string {
	switch c {
	case CapGradientTable:
		return "gradient_table"
	case CapGradientScheme:
		return "gradient_scheme"
	case CapSliceEncoding:
		return "slice_encoding"
	case CapPhaseEncoding:
		return "phase_encoding"
	case CapOrientation:
		return "orientation_confidence"
	default:
		return "unknown"
	}
}

// Kind classifies an outcome.
type Kind string

const (
	KindPass Kind = "pass"
	KindFail Kind = "fail"
	// KindError records a cell whose evaluation could not complete
	// (malformed artifact, panic, read failure). Recorded in place so the
	// matrix always returns a full result set.
	KindError Kind = "error"
)

// Outcome is the judgment for one (series, configuration, capability) cell.
// Exactly one outcome exists per enumerated cell; a missing outcome is
// itself a defect the runner records as an error.
type Outcome struct {
	ID          core.ID    `json:"id" db:"id"`
	RunID       core.RunID `json:"run_id" db:"run_id"`
	SeriesID    string     `json:"series_id" db:"series_id"`
	ConfigLabel string     `json:"config_label" db:"config_label"`
	Capability  Capability `json:"capability" db:"capability"`
	Kind        Kind       `json:"kind" db:"kind"`
	// AngularErrorDeg is the largest per-fiducial angular discrepancy for
	// the gradient capabilities, recorded even on pass to track
	// near-threshold drift.
	AngularErrorDeg float64 `json:"angular_error_deg,omitempty" db:"angular_error_deg"`
	// AxisMismatch flags an encoding-direction disagreement for the slice
	// and phase capabilities.
	AxisMismatch bool `json:"axis_mismatch,omitempty" db:"axis_mismatch"`
	// LengthRatio is mean correct-transform streamline length over mean
	// incorrect-transform length for the orientation capability.
	LengthRatio float64 `json:"length_ratio,omitempty" db:"length_ratio"`
	// Note carries free-text context: substituted assumptions, antipodal
	// sign resolution, or the condition behind an error kind.
	Note        string         `json:"note,omitempty" db:"note"`
	EvaluatedAt core.Timestamp `json:"evaluated_at" db:"evaluated_at"`
}

// Run captures one full matrix evaluation.
type Run struct {
	ID           core.RunID     `json:"id" db:"id"`
	ArtifactRoot string         `json:"artifact_root" db:"artifact_root"`
	ToleranceDeg float64        `json:"tolerance_deg" db:"tolerance_deg"`
	StartedAt    core.Timestamp `json:"started_at" db:"started_at"`
	CompletedAt  core.Timestamp `json:"completed_at" db:"completed_at"`
}

// Filter selects outcomes from a result set. Zero values match everything.
type Filter struct {
	SeriesID    string
	ConfigLabel string
	Capability  Capability
	Kind        Kind
}

func (f Filter) matches(o Outcome) bool {
	if f.SeriesID != "" && o.SeriesID != f.SeriesID {
		return false
	}
	if f.ConfigLabel != "" && o.ConfigLabel != f.ConfigLabel {
		return false
	}
	if f.Capability != 0 && o.Capability != f.Capability {
		return false
	}
	if f.Kind != "" && o.Kind != f.Kind {
		return false
	}
	return true
}

// ResultSet is the append-safe aggregate of outcomes for one run. Outcomes
// are write-once per cell; the set only needs append safety under the
// runner's concurrent workers.
type ResultSet struct {
	mu       sync.Mutex
	runID    core.RunID
	outcomes []Outcome
}

// NewResultSet creates an empty result set for a run.
func NewResultSet(runID core.RunID) *ResultSet {
	return &ResultSet{runID: runID}
}

// RunID returns the run this set belongs to.
func (rs *ResultSet) RunID() core.RunID {
	return rs.runID
}

// Append records one outcome, stamping it with the run identity.
func (rs *ResultSet) Append(o Outcome) {
	o.RunID = rs.runID
	if o.ID.IsEmpty() {
		o.ID = core.NewID()
	}
	rs.mu.Lock()
	rs.outcomes = append(rs.outcomes, o)
	rs.mu.Unlock()
}

// All returns a copy of every recorded outcome.
func (rs *ResultSet) All() []Outcome {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]Outcome, len(rs.outcomes))
	copy(out, rs.outcomes)
	return out
}

// Where returns the outcomes matching the filter.
func (rs *ResultSet) Where(f Filter) []Outcome {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	var out []Outcome
	for _, o := range rs.outcomes {
		if f.matches(o) {
			out = append(out, o)
		}
	}
	return out
}

// Len returns the number of recorded outcomes.
func (rs *ResultSet) Len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.outcomes)
}

// CountByKind tallies outcomes per kind.
func (rs *ResultSet) CountByKind() map[Kind]int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	counts := make(map[Kind]int)
	for _, o := range rs.outcomes {
		counts[o.Kind]++
	}
	return counts
}
