// Package geo provides the spherical-earth math used throughout the analyzer:
// great-circle distances, degree-to-meter conversion, and compass labeling.
//
// All distances are meters on a sphere with the mean Earth radius. The error
// versus an ellipsoidal model is well under 0.5% at the sub-10 km ranges this
// service works with.
package geo

import "math"

const (
	// EarthRadiusM is the mean Earth radius in meters.
	EarthRadiusM = 6371000.0

	// MetersPerDegreeLat is the approximate north-south extent of one degree
	// of latitude, effectively constant across the globe.
	MetersPerDegreeLat = 111320.0
)

// Distance returns the haversine great-circle distance in meters between two
// WGS-84 coordinates. Symmetric, and zero for identical points.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lng2 - lng1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	return 2 * EarthRadiusM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// MetersPerDegreeLon returns the east-west extent of one degree of longitude
// at the given latitude. Approaches zero toward the poles; callers dividing
// by it must guard against that.
func MetersPerDegreeLon(lat float64) float64 {
	return MetersPerDegreeLat * math.Cos(radians(lat))
}

// compassSectors are the 8-point compass labels in 45° steps, clockwise from north.
var compassSectors = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassDirection maps a bearing in degrees (0 = north, clockwise) to its
// 8-point compass label. Angles outside [0,360) are normalized first.
func CompassDirection(deg float64) string {
	sector := int(math.Mod(deg/45.0, 8))
	if sector < 0 {
		sector += 8
	}
	return compassSectors[sector]
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
