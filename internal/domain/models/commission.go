package models

const (
	CommissionPercentage = "PERCENTAGE"
	CommissionFixed      = "FIXED"

	CommissionActive   = "ACTIVE"
	CommissionInactive = "INACTIVE"
)

// AirlineCommission is a commission rule an agency earns on one airline.
type AirlineCommission struct {
	ID             string  `json:"id" db:"id"`
	AgencyUID      string  `json:"agency_uid" db:"agency_uid"`
	AirlineName    string  `json:"airline_name" db:"airline_name"`
	AirlineIata    string  `json:"airline_iata" db:"airline_iata"`
	CommissionType string  `json:"commission_type" db:"commission_type"`
	Value          float64 `json:"value" db:"value"`
	ClassType      string  `json:"class_type" db:"class_type"`
	Origin         string  `json:"origin" db:"origin"`
	Destination    string  `json:"destination" db:"destination"`
	Status         string  `json:"status" db:"status"`
	UpdatedAt      string  `json:"updated_at" db:"updated_at"`
}

type AirlineCommissionInput struct {
	AirlineName    string   `json:"airline_name"`
	AirlineIata    string   `json:"airline_iata"`
	CommissionType string   `json:"commission_type"`
	Value          *float64 `json:"value"`
	ClassType      string   `json:"class_type"`
	Origin         string   `json:"origin"`
	Destination    string   `json:"destination"`
	Status         string   `json:"status"`
}

// AirlineAgency is an agency offering a commission on a given airline.
type AirlineAgency struct {
	AgencyUID      string  `json:"agency_uid" db:"agency_uid"`
	AgencyName     string  `json:"agency_name" db:"agency_name"`
	IataCode       string  `json:"iata_code" db:"iata_code"`
	CommissionRate float64 `json:"commission_rate" db:"commission_rate"`
	CommissionType string  `json:"commission_type" db:"commission_type"`
}

// CommissionQuote is the fare breakdown shown in the booking summary.
type CommissionQuote struct {
	NetFare          float64 `json:"net_fare"`
	Taxes            float64 `json:"taxes"`
	Base             float64 `json:"base"`
	CommissionType   string  `json:"commission_type"`
	CommissionRate   float64 `json:"commission_rate"`
	CommissionAmount float64 `json:"commission_amount"`
	NetPayable       float64 `json:"net_payable"`
}

type CommissionQuoteRequest struct {
	NetFare        float64  `json:"net_fare"`
	Taxes          float64  `json:"taxes"`
	AgencyUID      string   `json:"agency_uid"`
	CommissionRate *float64 `json:"commission_rate"`
	CommissionType string   `json:"commission_type"`
}
