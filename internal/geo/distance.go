// Package geo has the great-circle helpers used to rank nearby places.
package geo

import "math"

// Unit selects the distance unit
type Unit string

const (
	Miles      Unit = "miles"
	Kilometers Unit = "kilometers"

	earthRadiusMiles = 3959.0
	earthRadiusKm    = 6371.0
)

// Distance returns the haversine distance between two coordinates. Unknown units are
// treated as miles.
func Distance(lat1, lng1, lat2, lng2 float64, unit Unit) float64 {
	radius := earthRadiusMiles
	if unit == Kilometers {
		radius = earthRadiusKm
	}

	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return radius * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
