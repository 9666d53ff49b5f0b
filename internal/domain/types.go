package domain

import "strings"

// NilCustomerID marks bookings that were never linked to a customer.
const NilCustomerID = "00000000-0000-0000-0000-000000000000"

// Page carries paging params after defaults and clamping.
type Page struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// NewPage applies the default page size and clamps to [1, max].
func NewPage(page, size, def, max int) Page {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = def
	}
	if max > 0 && size > max {
		size = max
	}
	return Page{Page: page, PageSize: size}
}

// Sort defines sorting preference.
type Sort struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // asc / desc
}

func (s Sort) Desc() bool {
	return strings.EqualFold(strings.TrimSpace(s.Direction), "desc")
}

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
