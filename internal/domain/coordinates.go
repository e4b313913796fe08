package domain

// Immutable geographic coordinates (latitude, longitude).
// Order coordinates are fixed at generation time and never updated.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lat, lon] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lat, c.Lon} }
