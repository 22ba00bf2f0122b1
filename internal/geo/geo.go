package geo

import "fmt"

// Coordinates is a WGS84 position as returned by the geocoding service.
// No range validation is applied.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%g, %g)", c.Latitude, c.Longitude)
}
