package models

import "encoding/json"

// MaxRecentSearches caps a user's search history.
const MaxRecentSearches = 50

type RecentSearch struct {
	ID            string `json:"id" db:"id"`
	UserID        string `json:"-" db:"user_id"`
	Origin        string `json:"origin" db:"origin"`
	Destination   string `json:"destination" db:"destination"`
	DepartureDate string `json:"departureDate" db:"departure_date"`
	ReturnDate    string `json:"returnDate" db:"return_date"`
	TripType      string `json:"tripType" db:"trip_type"`
	TravelClass   string `json:"travelClass" db:"travel_class"`
	// Passengers and Segments are stored as opaque JSON.
	Passengers json.RawMessage `json:"passengers,omitempty" db:"passengers"`
	Segments   json.RawMessage `json:"segments,omitempty" db:"segments"`
	// Timestamp is created_at in unix milliseconds.
	Timestamp int64 `json:"timestamp" db:"timestamp"`
}

// SameSearch reports whether two entries describe the same trip.
func (r RecentSearch) SameSearch(o RecentSearch) bool {
	return r.Origin == o.Origin &&
		r.Destination == o.Destination &&
		r.DepartureDate == o.DepartureDate &&
		r.ReturnDate == o.ReturnDate &&
		r.TripType == o.TripType
}
