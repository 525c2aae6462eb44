package geometry

import "math"

// QuarterTurn is the rotation step of the board background, in degrees.
const QuarterTurn = 90

// NormalizeAngle reduces angle (degrees) to one of 0, 90, 180 or 270.
// Within each 90 degree bucket, remainders of 45 or more round up.
// Returns false when angle is NaN or infinite.
func NormalizeAngle(angle float64) (int, bool) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0, false
	}

	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}

	bucket := math.Floor(a / QuarterTurn)
	if a-bucket*QuarterTurn >= QuarterTurn/2 {
		bucket++
	}

	deg := int(math.Abs(bucket*QuarterTurn)) % 360
	return deg, true
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// IsQuarterSideways reports whether a normalized rotation turns the
// surface on its side (90 or 270 degrees).
func IsQuarterSideways(degrees int) bool {
	return degrees == 90 || degrees == 270
}
