package models

const (
	InquiryNew        = "NEW"
	InquiryProcessing = "PROCESSING"
	InquiryQuoteSent  = "QUOTE_SENT"
	InquiryFollowUp   = "FOLLOW_UP"

	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

// InquiryStatuses lists kanban columns in board order.
var InquiryStatuses = []string{InquiryNew, InquiryProcessing, InquiryQuoteSent, InquiryFollowUp}

var InquiryPriorities = []string{PriorityHigh, PriorityMedium, PriorityLow}

type Inquiry struct {
	ID            string  `json:"id" db:"id"`
	InquiryNumber string  `json:"inquiry_number" db:"inquiry_number"`
	ClientName    string  `json:"client_name" db:"client_name"`
	DepartureCode string  `json:"departure_code" db:"departure_code"`
	ArrivalCode   string  `json:"arrival_code" db:"arrival_code"`
	StartDate     *string `json:"start_date" db:"start_date"`
	EndDate       *string `json:"end_date" db:"end_date"`
	Priority      string  `json:"priority" db:"priority"`
	Status        string  `json:"status" db:"status"`
	AssigneeID    *string `json:"assignee_id" db:"assignee_id"`
	CreatedAt     string  `json:"created_at" db:"created_at"`
	UpdatedAt     string  `json:"updated_at" db:"updated_at"`
}

type InquiryFilter struct {
	Status     string
	Priority   string
	Search     string
	AssigneeID string
}

// InquiryInput is used for both create and partial update; nil means "not sent".
type InquiryInput struct {
	InquiryNumber *string `json:"inquiry_number"`
	ClientName    *string `json:"client_name"`
	DepartureCode *string `json:"departure_code"`
	ArrivalCode   *string `json:"arrival_code"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
	Priority      *string `json:"priority"`
	Status        *string `json:"status"`
	AssigneeID    *string `json:"assignee_id"`
}

type BoardColumn struct {
	Status    string    `json:"status"`
	Inquiries []Inquiry `json:"inquiries"`
}

type BoardStats struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"byStatus"`
	HighPriority int            `json:"highPriority"`
}

type Board struct {
	Columns []BoardColumn `json:"columns"`
	Stats   BoardStats    `json:"stats"`
}
