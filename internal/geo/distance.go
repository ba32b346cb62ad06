package geo

import "math"

// Earth radius in meters
const earthRadius = 6371000.0

// Distance returns the approximate distance in meters between a station
// coordinate and a query point using an equirectangular projection. The
// approximation underestimates over long distances and at high latitudes
// and is undefined at the poles and across the antimeridian. Callers that
// compare against the distance column depend on this exact formula.
func Distance(stationLat, stationLon, pointLat, pointLon float64) float64 {
	x := (toRadians(pointLon) - toRadians(stationLon)) *
		math.Cos(0.5*(toRadians(pointLat)+toRadians(stationLat)))
	y := toRadians(pointLat) - toRadians(stationLat)
	return earthRadius * math.Sqrt(x*x+y*y)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
