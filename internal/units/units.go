// Package units converts pixel measurements from the detector image into
// physical lengths using the operator-supplied calibration scale
package units

// Display unit constants
const (
	CM = "cm"
	MM = "mm"
	M  = "m"
)

// ValidUnits contains all valid display unit values
var ValidUnits = []string{CM, MM, M}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "cm, mm, m"
}

// ConvertLength converts a length from centimetres to the target units.
// All internal calculations are done in centimetres.
func ConvertLength(lengthCm float64, targetUnits string) float64 {
	switch targetUnits {
	case CM:
		return lengthCm
	case MM:
		return lengthCm * 10
	case M:
		return lengthCm / 100
	default:
		return lengthCm
	}
}
