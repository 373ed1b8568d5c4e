// Package units provides shared constants and conversions for geometry lengths and angles
package units

import "math"

// Unit constants
const (
	CM = "cm"
	MM = "mm"
	M  = "m"
)

// ValidUnits contains all valid length unit values
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

// ConvertLength converts a length from centimeters to the target units.
// Geometry descriptions store lengths in cm.
func ConvertLength(lengthCM float64, targetUnits string) float64 {
	switch targetUnits {
	case MM:
		return lengthCM * 10
	case M:
		return lengthCM / 100
	case CM:
		return lengthCM // no conversion needed
	default:
		return lengthCM // default to cm if unknown unit
	}
}

// DegToRad converts an angle from degrees to radians
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts an angle from radians to degrees
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
