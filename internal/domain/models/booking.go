package models

type BookingCounts struct {
	WithCustomerCount    int `json:"withCustomerCount"`
	WithoutCustomerCount int `json:"withoutCustomerCount"`
}

type RefundQuoteRequest struct {
	AirlinePenalty float64 `json:"airline_penalty"`
	AgencyFees     float64 `json:"agency_fees"`
	PlatformFee    float64 `json:"platform_fee"`
	ManualAdjust   float64 `json:"manual_adjust"`
}

type RefundQuote struct {
	BookingID       string  `json:"booking_id"`
	SellingPrice    float64 `json:"selling_price"`
	TotalDeductions float64 `json:"total_deductions"`
	ManualAdjust    float64 `json:"manual_adjust"`
	RefundAmount    float64 `json:"refund_amount"`
}

type ProfileStats struct {
	TotalBookings int    `json:"totalBookings"`
	MemberSince   string `json:"memberSince"`
}

type CustomerMetric struct {
	TotalSpend float64 `json:"totalSpend"`
	LastLogin  *string `json:"lastLogin"`
}

// CustomerMatch is a search hit for the booking form customer picker.
type CustomerMatch struct {
	ID        string `json:"id" db:"id"`
	FirstName string `json:"firstName" db:"firstName"`
	LastName  string `json:"lastName" db:"lastName"`
	Email     string `json:"email" db:"email"`
	Phone     string `json:"phone" db:"phone"`
}
