package models

// PNRSegment is one flight leg extracted from a PNR.
type PNRSegment struct {
	FlightNumber     string `json:"flight_number"`
	AirlineCode      string `json:"airline_code"`
	DepartureAirport string `json:"departure_airport" validate:"len=3"`
	ArrivalAirport   string `json:"arrival_airport" validate:"len=3"`
	DepartureTime    string `json:"departure_time"`
	ArrivalTime      string `json:"arrival_time"`
	Class            string `json:"class,omitempty"`
}

// ParsedPNR is the structured form of a raw PNR.
type ParsedPNR struct {
	PNRNumber  string       `json:"pnr_number" validate:"required"`
	Passengers []string     `json:"passengers" validate:"min=1"`
	Segments   []PNRSegment `json:"segments" validate:"min=1,dive"`
}
