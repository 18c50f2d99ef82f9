// Package pipeline enumerates the conversion configurations under test. Each
// configuration names a producing tool, an output format and whether the
// tool realigned the stored axes during conversion; the full set is fixed
// before a run and immutable.
package pipeline

import (
	"fmt"

	"dwiverify/domain/outcome"
)

// FormatTag identifies one artifact layout.
type FormatTag string

const (
	// FormatFlatTriple is an image with a JSON sidecar and an FSL-style
	// flat gradient table (bvec/bval pair).
	FormatFlatTriple FormatTag = "niibvecbvaljson"
	// FormatEddy is an image with FSL eddy phase-encoding files.
	FormatEddy FormatTag = "niieddy"
	// FormatTopup is an image with a full topup phase-encoding table.
	FormatTopup FormatTag = "niitopup"
	// FormatEmbeddedHeader is an internal format with all metadata in its
	// text header.
	FormatEmbeddedHeader FormatTag = "mih"
	// FormatInternalSidecar is an internal format with external JSON and
	// gradient table.
	FormatInternalSidecar FormatTag = "mifjsongrad"
	// FormatPETable is an internal format with an external phase-encoding
	// table.
	FormatPETable FormatTag = "mifpetable"
)

// GradLayout says where a format keeps its gradient vectors.
type GradLayout int

const (
	GradLayoutNone GradLayout = iota
	GradLayoutBvec
	GradLayoutHeader
	GradLayoutTable
)

// KeyvalueLayout says where a format keeps key/value metadata.
type KeyvalueLayout int

const (
	KeyvalueNone KeyvalueLayout = iota
	KeyvalueJSON
	KeyvalueHeader
)

// PELayout says where a format keeps the phase-encoding direction.
type PELayout int

const (
	PELayoutNone PELayout = iota
	PELayoutJSON
	PELayoutHeader
	PELayoutTable
	PELayoutTopup
	PELayoutEddy
)

// Format describes one artifact layout and which files carry what.
type Format struct {
	Tag         FormatTag
	Description string
	ImageExt    string
	Grad        GradLayout
	Keyvalue    KeyvalueLayout
	PE          PELayout
}

// Formats returns the six artifact layouts under test.
func Formats() []Format {
	return []Format{
		{FormatFlatTriple, "NIfTI w. bvecs/bvals and JSON", "nii", GradLayoutBvec, KeyvalueJSON, PELayoutJSON},
		{FormatEddy, "NIfTI w. FSL eddy phase-encoding files", "nii", GradLayoutNone, KeyvalueNone, PELayoutEddy},
		{FormatTopup, "NIfTI w. full topup phase-encoding table", "nii", GradLayoutNone, KeyvalueNone, PELayoutTopup},
		{FormatEmbeddedHeader, "MIH format w. all read from header", "mih", GradLayoutHeader, KeyvalueHeader, PELayoutHeader},
		{FormatInternalSidecar, "MIF format w. external metadata", "mif", GradLayoutTable, KeyvalueJSON, PELayoutJSON},
		{FormatPETable, "MIF format w. external phase encoding table", "mif", GradLayoutNone, KeyvalueNone, PELayoutTable},
	}
}

// FormatByTag looks a format up by tag.
func FormatByTag(tag FormatTag) (Format, bool) {
	for _, f := range Formats() {
		if f.Tag == tag {
			return f, true
		}
	}
	return Format{}, false
}

// Stride labels cover both right- and left-handed stored coordinate systems.
// The stride is irrelevant to correctness but part of the matrix: a defect
// that only manifests for one data layout must still be caught.
var Strides = []string{"unmodified", "RAS", "LAS", "complexone", "complextwo"}

// Config is one cell column of the validation matrix: a producing tool, an
// output format, a realignment setting and a destination stride.
type Config struct {
	// Tool is the producing converter identity, e.g. "dcm2niix" or
	// "mrconvert".
	Tool string
	// Format is the artifact layout the tool wrote.
	Format Format
	// RealignApplied records whether the tool rewrote the stored data into
	// scanner-aligned axes during conversion. When set, the stored
	// transform is identity and must not be applied again.
	RealignApplied bool
	// Stride is the destination memory layout label, for internal formats.
	Stride string
	// Tractography marks configurations whose fibre-orientation estimates
	// are available for the orientation-confidence check.
	Tractography bool
}

// Label returns a stable identifier for the configuration, used as the
// artifact subdirectory name and as the outcome key.
func (c Config) Label() string {
	label := fmt.Sprintf("%s_%s", c.Tool, c.Format.Tag)
	if c.RealignApplied {
		label += "_realigned"
	}
	if c.Stride != "" && c.Stride != "unmodified" {
		label += "_" + c.Stride
	}
	return label
}

// Capabilities returns the validation capabilities meaningful for this
// configuration's format. A capability outside this list is not a silent
// skip; it simply has no cell in the matrix.
func (c Config) Capabilities() []outcome.Capability {
	var caps []outcome.Capability
	switch c.Format.Grad {
	case GradLayoutBvec:
		caps = append(caps, outcome.CapGradientTable)
	case GradLayoutHeader, GradLayoutTable:
		caps = append(caps, outcome.CapGradientScheme)
	}
	if c.Format.Keyvalue != KeyvalueNone {
		caps = append(caps, outcome.CapSliceEncoding)
	}
	if c.Format.PE != PELayoutNone {
		caps = append(caps, outcome.CapPhaseEncoding)
	}
	if c.Tractography {
		caps = append(caps, outcome.CapOrientation)
	}
	return caps
}

// DefaultMatrix enumerates the standard configuration set: each format from
// each conversion path, with and without realignment, and the non-trivial
// strides for internal formats.
func DefaultMatrix() []Config {
	var configs []Config
	for _, f := range Formats() {
		tool := "mrconvert"
		if f.Tag == FormatFlatTriple {
			// The flat triple is also what dcm2niix emits.
			configs = append(configs, Config{Tool: "dcm2niix", Format: f, Tractography: true})
		}
		for _, realign := range []bool{false, true} {
			cfg := Config{Tool: tool, Format: f, RealignApplied: realign}
			if f.Tag == FormatFlatTriple {
				cfg.Tractography = true
			}
			configs = append(configs, cfg)
		}
		if f.ImageExt == "mif" || f.ImageExt == "mih" {
			for _, stride := range Strides[1:] {
				configs = append(configs, Config{Tool: tool, Format: f, Stride: stride})
			}
		}
	}
	return configs
}
