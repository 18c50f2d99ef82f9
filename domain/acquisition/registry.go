package acquisition

import (
	"dwiverify/domain/core"
	"dwiverify/domain/geometry"
)

// The naming grammar is a closed set: every combination of plane, phase
// encoding and slice order where the phase-encoding direction does not lie
// along the slice plane normal. 3 planes x 6 PE directions x 2 orders, minus
// the collinear combinations, leaves 24 series.

var (
	registry   map[string]Descriptor
	registryID []string
)

func init() {
	registry = make(map[string]Descriptor)
	for _, plane := range []Plane{PlaneTra, PlaneCor, PlaneSag} {
		for _, pe := range []PEDir{PERL, PELR, PEAP, PEPA, PEHF, PEFH} {
			if collinear(planeNormals[plane], peDirections[pe]) {
				continue
			}
			for _, order := range []SliceOrder{OrderAsc, OrderDes} {
				d := newDescriptor(plane, order, pe)
				registry[d.ID] = d
				registryID = append(registryID, d.ID)
			}
		}
	}
	if len(registry) != 24 {
		// The grammar is fixed by the acquisition protocol; any other count
		// is a construction defect, not a runtime condition.
		panic("acquisition: naming grammar did not enumerate 24 series")
	}
}

func collinear(a, b geometry.Vec3) bool {
	for i := range a {
		if a[i] != 0 && b[i] != 0 {
			return true
		}
	}
	return false
}

// All returns the 24 series descriptors in enumeration order.
func All() []Descriptor {
	out := make([]Descriptor, 0, len(registryID))
	for _, id := range registryID {
		out = append(out, registry[id])
	}
	return out
}

// ExpectedFor decodes the ground-truth descriptor for a series identifier.
// An identifier outside the naming grammar returns ErrUnknownSeries; that is
// fatal to the run, not a per-cell condition.
func ExpectedFor(seriesID string) (Descriptor, error) {
	d, ok := registry[seriesID]
	if !ok {
		return Descriptor{}, core.NewUnknownSeriesError(seriesID)
	}
	return d, nil
}
