package facility

// Facility is a medical facility record with coordinates.
type Facility struct {
	ID       int64   `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Category string  `json:"category" db:"category"`
	Address  string  `json:"address" db:"address"`
	Phone    string  `json:"phone,omitempty" db:"phone"`
	Lat      float64 `json:"lat" db:"latitude"`
	Lng      float64 `json:"lng" db:"longitude"`
}

// Result is a facility annotated with the straight-line distance from the
// query point.
type Result struct {
	Facility
	DistanceKm float64 `json:"distance_km"`
}
