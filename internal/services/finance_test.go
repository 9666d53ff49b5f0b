package services

import (
	"testing"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteCommissionPercentage(t *testing.T) {
	q, err := QuoteCommission(1000, 200, 5, "percentage")
	require.NoError(t, err)
	assert.Equal(t, models.CommissionPercentage, q.CommissionType)
	assert.Equal(t, 1200.0, q.Base)
	assert.Equal(t, 60.0, q.CommissionAmount)
	assert.Equal(t, 1140.0, q.NetPayable)
}

func TestQuoteCommissionFixed(t *testing.T) {
	q, err := QuoteCommission(500, 0, 25, models.CommissionFixed)
	require.NoError(t, err)
	assert.Equal(t, 25.0, q.CommissionAmount)
	assert.Equal(t, 475.0, q.NetPayable)
}

func TestQuoteCommissionRejects(t *testing.T) {
	_, err := QuoteCommission(100, 0, 150, "")
	assert.True(t, domain.IsValidation(err))

	_, err = QuoteCommission(-1, 0, 5, "")
	assert.True(t, domain.IsValidation(err))

	_, err = QuoteCommission(100, 0, 5, "TIERED")
	assert.True(t, domain.IsValidation(err))
}

func TestQuoteRefundNeverNegative(t *testing.T) {
	q := QuoteRefund(1000, models.RefundQuoteRequest{AirlinePenalty: 200, AgencyFees: 50, PlatformFee: 10, ManualAdjust: 5})
	assert.Equal(t, 260.0, q.TotalDeductions)
	assert.Equal(t, 745.0, q.RefundAmount)

	q = QuoteRefund(100, models.RefundQuoteRequest{AirlinePenalty: 500})
	assert.Equal(t, 0.0, q.RefundAmount)
}

func TestSumDeductions(t *testing.T) {
	assert.Equal(t, 30.3, SumDeductions([]models.Deduction{{Amount: 10.1}, {Amount: 20.2}}))
	assert.Equal(t, 0.0, SumDeductions(nil))
}
