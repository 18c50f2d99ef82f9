package geometry

import "fmt"

// Orientation encoding identifiers appear in two vocabularies:
//
//   - Anatomical codes (RL, AP, FH, ...) name a scanner-space direction
//     directly and need no transform.
//   - BIDS codes (i, i-, j, j-, k, k-) name a stored image axis and must be
//     mapped through the image-to-scanner rotation before comparison.
var (
	anatomicalCodes = map[string]Vec3{
		"RL": {-1, 0, 0},
		"LR": {1, 0, 0},
		"AP": {0, -1, 0},
		"PA": {0, 1, 0},
		"HF": {0, 0, -1},
		"FH": {0, 0, 1},
	}

	bidsCodes = map[string]Vec3{
		"i-": {-1, 0, 0},
		"i":  {1, 0, 0},
		"j-": {0, -1, 0},
		"j":  {0, 1, 0},
		"k-": {0, 0, -1},
		"k":  {0, 0, 1},
	}
)

// IsAnatomicalCode reports whether code names a scanner-space direction.
func IsAnatomicalCode(code string) bool {
	_, ok := anatomicalCodes[code]
	return ok
}

// IsBIDSCode reports whether code names a stored image axis.
func IsBIDSCode(code string) bool {
	_, ok := bidsCodes[code]
	return ok
}

// ImageAxisDirection returns the image-space unit vector for a BIDS code.
func ImageAxisDirection(code string) (Vec3, error) {
	v, ok := bidsCodes[code]
	if !ok {
		return Vec3{}, fmt.Errorf("unexpected orientation encoding identifier %q", code)
	}
	return v, nil
}

// AnatomicalDirection returns the scanner-space unit vector for an
// anatomical code.
func AnatomicalDirection(code string) (Vec3, error) {
	v, ok := anatomicalCodes[code]
	if !ok {
		return Vec3{}, fmt.Errorf("unexpected orientation encoding identifier %q", code)
	}
	return v, nil
}
