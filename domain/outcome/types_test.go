package outcome

import (
	"sync"
	"testing"

	"dwiverify/domain/core"
)

func TestCapability_String(t *testing.T) {
	cases := map[Capability]string{
		CapGradientTable:  "gradient_table",
		CapGradientScheme: "gradient_scheme",
		CapSliceEncoding:  "slice_encoding",
		CapPhaseEncoding:  "phase_encoding",
		CapOrientation:    "orientation_confidence",
		Capability(9):     "unknown",
	}
	for c, want := range cases {
		if got := c.String(); got != want {
			t.Errorf("Capability(%d).String() = %q, want %q", c, got, want)
		}
	}
}

func TestResultSet_AppendStampsIdentity(t *testing.T) {
	runID := core.NewRunID()
	rs := NewResultSet(runID)
	rs.Append(Outcome{SeriesID: "DWI_Tra_Asc_PA", Capability: CapPhaseEncoding, Kind: KindPass})

	all := rs.All()
	if len(all) != 1 {
		t.Fatalf("len = %d, want 1", len(all))
	}
	if all[0].RunID != runID {
		t.Errorf("run ID = %s, want %s", all[0].RunID, runID)
	}
	if all[0].ID.IsEmpty() {
		t.Error("outcome ID not assigned")
	}
}

func TestResultSet_ConcurrentAppend(t *testing.T) {
	rs := NewResultSet(core.NewRunID())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rs.Append(Outcome{SeriesID: "DWI_Tra_Asc_PA", Capability: CapSliceEncoding, Kind: KindPass})
		}()
	}
	wg.Wait()
	if rs.Len() != 50 {
		t.Errorf("len = %d, want 50", rs.Len())
	}
}

func TestResultSet_WhereAndCounts(t *testing.T) {
	rs := NewResultSet(core.NewRunID())
	rs.Append(Outcome{SeriesID: "DWI_Tra_Asc_PA", ConfigLabel: "dcm2niix_niibvecbvaljson", Capability: CapGradientTable, Kind: KindPass})
	rs.Append(Outcome{SeriesID: "DWI_Tra_Asc_PA", ConfigLabel: "mrconvert_mih", Capability: CapGradientScheme, Kind: KindFail})
	rs.Append(Outcome{SeriesID: "DWI_Cor_Asc_FH", ConfigLabel: "mrconvert_mih", Capability: CapGradientScheme, Kind: KindError})

	if got := rs.Where(Filter{SeriesID: "DWI_Tra_Asc_PA"}); len(got) != 2 {
		t.Errorf("series filter matched %d, want 2", len(got))
	}
	if got := rs.Where(Filter{ConfigLabel: "mrconvert_mih", Kind: KindFail}); len(got) != 1 {
		t.Errorf("config+kind filter matched %d, want 1", len(got))
	}
	if got := rs.Where(Filter{Capability: CapGradientScheme}); len(got) != 2 {
		t.Errorf("capability filter matched %d, want 2", len(got))
	}
	if got := rs.Where(Filter{}); len(got) != 3 {
		t.Errorf("empty filter matched %d, want all 3", len(got))
	}

	counts := rs.CountByKind()
	if counts[KindPass] != 1 || counts[KindFail] != 1 || counts[KindError] != 1 {
		t.Errorf("counts = %v", counts)
	}
}
