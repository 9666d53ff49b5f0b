package services

import (
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/utils"
)

// SumDeductions totals deduction amounts, rounded to cents.
func SumDeductions(items []models.Deduction) float64 {
	total := 0.0
	for _, d := range items {
		total += d.Amount
	}
	return utils.RoundCents(total)
}

// QuoteCommission splits a fare into commission and net payable.
// base = net fare + taxes; PERCENTAGE earns base*rate/100, FIXED earns rate.
func QuoteCommission(netFare, taxes, rate float64, commissionType string) (models.CommissionQuote, error) {
	ct := strings.ToUpper(strings.TrimSpace(commissionType))
	if ct == "" {
		ct = models.CommissionPercentage
	}
	if ct != models.CommissionPercentage && ct != models.CommissionFixed {
		return models.CommissionQuote{}, domain.ValidationError{Field: "commission_type", Msg: "must be PERCENTAGE or FIXED"}
	}
	if netFare < 0 || taxes < 0 {
		return models.CommissionQuote{}, domain.ValidationError{Msg: "net_fare and taxes must not be negative"}
	}
	if rate < 0 || (ct == models.CommissionPercentage && rate > 100) {
		return models.CommissionQuote{}, domain.ValidationError{Field: "commission_rate", Msg: "out of range"}
	}

	base := netFare + taxes
	commission := rate
	if ct == models.CommissionPercentage {
		commission = base * rate / 100
	}
	return models.CommissionQuote{
		NetFare:          utils.RoundCents(netFare),
		Taxes:            utils.RoundCents(taxes),
		Base:             utils.RoundCents(base),
		CommissionType:   ct,
		CommissionRate:   rate,
		CommissionAmount: utils.RoundCents(commission),
		NetPayable:       utils.RoundCents(base - commission),
	}, nil
}

// QuoteRefund computes selling price minus airline penalty, agency fees and platform fee,
// plus any manual adjustment. The refund never goes below zero.
func QuoteRefund(sellingPrice float64, req models.RefundQuoteRequest) models.RefundQuote {
	deductions := req.AirlinePenalty + req.AgencyFees + req.PlatformFee
	refund := sellingPrice - deductions + req.ManualAdjust
	if refund < 0 {
		refund = 0
	}
	return models.RefundQuote{
		SellingPrice:    utils.RoundCents(sellingPrice),
		TotalDeductions: utils.RoundCents(deductions),
		ManualAdjust:    utils.RoundCents(req.ManualAdjust),
		RefundAmount:    utils.RoundCents(refund),
	}
}
