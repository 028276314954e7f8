// Package geo holds the great-circle math used for geofencing.
package geo

import "math"

// EarthRadiusKm is the mean radius of the sphere used by DistanceKm.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine distance in kilometres between two points
// given in signed decimal degrees. Inputs are not range checked.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Fence is a circular boundary around a fixed reference coordinate.
type Fence struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// Distance returns the distance in km from the fence centre to (lat, lng).
func (f Fence) Distance(lat, lng float64) float64 {
	return DistanceKm(lat, lng, f.Lat, f.Lng)
}

// Check reports whether (lat, lng) lies inside the fence (boundary
// inclusive) together with the measured distance.
func (f Fence) Check(lat, lng float64) (bool, float64) {
	d := f.Distance(lat, lng)
	return d <= f.RadiusKm, d
}
