package models

const (
	DefaultServiceType    = "Primary Service"
	DefaultServicePricing = "Per Person"
)

// Service is an entry of the sellable services catalog (baggage, meals, transfers).
type Service struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	Type        string  `json:"type" db:"type"`
	PricingType string  `json:"pricing_type" db:"pricing_type"`
	BasePrice   float64 `json:"base_price" db:"base_price"`
	Status      bool    `json:"status" db:"status"`
	CreatedAt   string  `json:"created_at" db:"created_at"`
	UpdatedAt   string  `json:"updated_at" db:"updated_at"`
}

type ServiceInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	PricingType string   `json:"pricing_type"`
	BasePrice   *float64 `json:"base_price"`
	Status      *bool    `json:"status"`
}
