package mmdf

import "math"

type LocationPointKind string

const (
	LocationPointKindAddress         LocationPointKind = "Address"
	LocationPointKindStop                              = "Stop"
	LocationPointKindStation                           = "Station"
	LocationPointKindPointOfInterest                   = "PointOfInterest"
)

// LocationPoint is a named coordinate. Pure value type - two points with the
// same coordinates and name are the same place.
type LocationPoint struct {
	Name string            `groups:"basic"`
	Kind LocationPointKind `groups:"basic"`

	Latitude  float64 `groups:"basic"`
	Longitude float64 `groups:"basic"`
}

const earthRadiusKm = 6371

// DistanceKm gives the great-circle distance between two points
func (l LocationPoint) DistanceKm(other LocationPoint) float64 {
	lat1 := l.Latitude * math.Pi / 180
	lat2 := other.Latitude * math.Pi / 180
	deltaLat := (other.Latitude - l.Latitude) * math.Pi / 180
	deltaLon := (other.Longitude - l.Longitude) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
