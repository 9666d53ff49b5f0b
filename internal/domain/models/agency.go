package models

// DefaultCommissionRate applies when an agency has no commission_rate column or value.
const DefaultCommissionRate = 2.5

const (
	AgencyStatusActive   = "active"
	AgencyStatusInactive = "inactive"
)

// AgencyStats is the per-row roll-up shown in the agencies table.
type AgencyStats struct {
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
	Change   float64 `json:"change"`
}

// AgencyInput is the create/update payload. Pointer fields are optional.
type AgencyInput struct {
	AgencyName    string   `json:"agency_name"`
	ContactPerson string   `json:"contact_person"`
	Number        string   `json:"number"`
	ContactEmail  *string  `json:"contact_email"`
	AddressLine1  *string  `json:"address_line1"`
	AddressLine2  *string  `json:"address_line2"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	PostalCode    *string  `json:"postal_code"`
	Country       *string  `json:"country"`
	IataCode      *string  `json:"iata_code"`
	Status        *string  `json:"status"`
	Draft         *bool    `json:"draft"`
	// BookingIDs replaces the manual booking links when non-nil, even if empty.
	BookingIDs *[]int64 `json:"booking_ids"`
}

// ActiveAgency is the compact shape used by agency pickers.
type ActiveAgency struct {
	UID            string  `json:"uid" db:"uid"`
	AgencyName     string  `json:"agency_name" db:"agency_name"`
	IataCode       string  `json:"iata_code" db:"iata_code"`
	CommissionRate float64 `json:"commission_rate" db:"commission_rate"`
}

// AgencyListQuery holds the parsed list parameters.
type AgencyListQuery struct {
	Page     int
	PageSize int
	SortKey  string
	SortDir  string
	Status   string
	Q        string
}
