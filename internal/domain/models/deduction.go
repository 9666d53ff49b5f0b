package models

const (
	DefaultDeductionCurrency = "AUD"
	DefaultDeductionCategory = "SQ"
)

// Deduction is a money amount taken off an agency's balance (SQ deductions and similar).
type Deduction struct {
	ID          string  `json:"id" db:"id"`
	AgencyUID   string  `json:"agency_uid" db:"agency_uid"`
	Amount      float64 `json:"amount" db:"amount"`
	Currency    string  `json:"currency" db:"currency"`
	Category    string  `json:"category" db:"category"`
	Description string  `json:"description" db:"description"`
	CreatedAt   string  `json:"created_at" db:"created_at"`
	CreatedBy   string  `json:"created_by" db:"created_by"`
}

type DeductionInput struct {
	Amount      *float64 `json:"amount"`
	Currency    string   `json:"currency"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
}

type DeductionSummary struct {
	Deductions    []Deduction `json:"deductions"`
	TotalDeducted float64     `json:"totalDeducted"`
	Currency      string      `json:"currency"`
}
