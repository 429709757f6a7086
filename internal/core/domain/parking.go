package domain

import "time"

// ParkingRecord is one search result as it travels over the wire.
// Field names follow the search API contract.
type ParkingRecord struct {
	Distance float64  `json:"Distance"`
	Spaces   int      `json:"Spaces"`
	Address  string   `json:"Address"`
	Lat      *float64 `json:"Lat,omitempty"`
	Long     *float64 `json:"Long,omitempty"`
}

// Coordinate returns the record's own position, if the backend sent one.
func (r ParkingRecord) Coordinate() (Coordinate, bool) {
	if r.Lat == nil || r.Long == nil {
		return Coordinate{}, false
	}
	return Coordinate{Lat: *r.Lat, Lon: *r.Long}, true
}

// SearchQuery is the raw input of one search submission. Values are kept
// as text, exactly as the user typed them.
type SearchQuery struct {
	Endpoint  string `validate:"required,url"`
	Latitude  string `validate:"required,latitude"`
	Longitude string `validate:"required,longitude"`
	Radius    string `validate:"required,numeric"`
}

// BikeParking is a stored bicycle parking spot.
type BikeParking struct {
	ID        string     `json:"id"`
	Address   string     `json:"address"`
	Location  Coordinate `json:"location"`
	Spaces    int        `json:"spaces"`
	Capacity  int        `json:"capacity"`
	Distance  *float64   `json:"distance,omitempty"` // computed field
	UpdatedAt time.Time  `json:"updated_at"`
}

// Record converts a stored parking into its wire representation.
// Parkings without a computed distance report zero.
func (p BikeParking) Record() ParkingRecord {
	lat, lon := p.Location.Lat, p.Location.Lon
	r := ParkingRecord{
		Spaces:  p.Spaces,
		Address: p.Address,
		Lat:     &lat,
		Long:    &lon,
	}
	if p.Distance != nil {
		r.Distance = *p.Distance
	}
	return r
}
