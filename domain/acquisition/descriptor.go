package acquisition

import (
	"fmt"

	"dwiverify/domain/geometry"
)

// Diffusion gradients are applied in the Device Coordinate System, which for
// a head-first-supine patient maps to RAS as:
//
//	+X: Left     -> [-1, 0, 0]
//	+Y: Anterior -> [ 0, 1, 0]
//	+Z: Inferior -> [ 0, 0,-1]
//
// Image encoding instead follows the Patient Coordinate System, independent
// of patient bedding:
//
//	Sag+: Left      -> [-1, 0, 0]
//	Cor+: Posterior -> [ 0,-1, 0]
//	Tra+: Superior  -> [ 0, 0, 1]

// Plane names the acquisition slice plane.
type Plane string

const (
	PlaneTra Plane = "Tra"
	PlaneCor Plane = "Cor"
	PlaneSag Plane = "Sag"
)

// SliceOrder names the slice traversal order along the plane normal.
type SliceOrder string

const (
	OrderAsc SliceOrder = "Asc"
	OrderDes SliceOrder = "Des"
)

// PEDir names the phase-encoding direction with its polarity.
type PEDir string

const (
	PERL PEDir = "RL"
	PELR PEDir = "LR"
	PEAP PEDir = "AP"
	PEPA PEDir = "PA"
	PEHF PEDir = "HF"
	PEFH PEDir = "FH"
)

var planeNormals = map[Plane]geometry.Vec3{
	PlaneTra: {0, 0, 1},
	PlaneCor: {0, -1, 0},
	PlaneSag: {-1, 0, 0},
}

var sliceOrderSigns = map[SliceOrder]float64{
	OrderAsc: +1,
	OrderDes: -1,
}

var peDirections = map[PEDir]geometry.Vec3{
	PERL: {-1, 0, 0},
	PELR: {1, 0, 0},
	PEAP: {0, -1, 0},
	PEPA: {0, 1, 0},
	PEHF: {0, 0, -1},
	PEFH: {0, 0, 1},
}

// Fiducials are the three known gradient directions applied to the first
// three non-zero-weighting volumes, expressed in device coordinates. They
// are mutually orthonormal and order-stable: fiducial i corresponds to
// diffusion volume i+1 (volume 0 is the b=0 volume).
var Fiducials = [3]geometry.Vec3{
	{-1, 0, 0},
	{0, 1, 0},
	{0, 0, -1},
}

// FiducialVolumeOffset is the index of the first fiducial volume within a
// series: volume 0 carries no diffusion weighting.
const FiducialVolumeOffset = 1

// Descriptor holds the ground-truth acquisition facts for one series,
// derived from the fixed naming protocol. Immutable once constructed.
type Descriptor struct {
	ID    string
	Plane Plane
	Order SliceOrder
	PE    PEDir
}

func newDescriptor(plane Plane, order SliceOrder, pe PEDir) Descriptor {
	return Descriptor{
		ID:    fmt.Sprintf("DWI_%s_%s_%s", plane, order, pe),
		Plane: plane,
		Order: order,
		PE:    pe,
	}
}

// SliceEncodingDirection returns the true slice-encoding direction in
// scanner space: the plane normal signed by the traversal order.
func (d Descriptor) SliceEncodingDirection() geometry.Vec3 {
	n := planeNormals[d.Plane]
	s := sliceOrderSigns[d.Order]
	return geometry.Vec3{n[0] * s, n[1] * s, n[2] * s}
}

// PhaseEncodingDirection returns the true phase-encoding direction in
// scanner space.
func (d Descriptor) PhaseEncodingDirection() geometry.Vec3 {
	return peDirections[d.PE]
}

// Fiducials returns the expected gradient directions for the three fiducial
// volumes.
func (d Descriptor) Fiducials() [3]geometry.Vec3 {
	return Fiducials
}
