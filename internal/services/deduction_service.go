package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/realtime"
	"backoffice/internal/repositories"
	"backoffice/internal/utils"

	"github.com/google/uuid"
)

type DeductionService struct {
	Repo      repositories.DeductionRepository
	Events    realtime.Publisher
	RequestID string
}

// Summary lists an agency's deductions with their total. A missing table reads as empty.
func (s DeductionService) Summary(ctx context.Context, agencyUID, category string) (models.DeductionSummary, error) {
	items, _, err := s.Repo.ListByAgency(ctx, agencyUID, strings.ToUpper(strings.TrimSpace(category)))
	if err != nil {
		return models.DeductionSummary{}, domain.InternalError{Msg: "failed to load deductions", Err: err}
	}
	currency := models.DefaultDeductionCurrency
	if len(items) > 0 && items[0].Currency != "" {
		currency = items[0].Currency
	}
	return models.DeductionSummary{
		Deductions:    items,
		TotalDeducted: SumDeductions(items),
		Currency:      currency,
	}, nil
}

func (s DeductionService) Create(ctx context.Context, agencyUID, createdBy string, in models.DeductionInput) (models.Deduction, error) {
	if strings.TrimSpace(agencyUID) == "" {
		return models.Deduction{}, domain.ValidationError{Field: "agency_uid", Msg: "required"}
	}
	if in.Amount == nil {
		return models.Deduction{}, domain.ValidationError{Field: "amount", Msg: "required"}
	}
	if *in.Amount < 0 {
		return models.Deduction{}, domain.ValidationError{Field: "amount", Msg: "must be zero or positive"}
	}
	d := models.Deduction{
		ID:          uuid.NewString(),
		AgencyUID:   agencyUID,
		Amount:      utils.RoundCents(*in.Amount),
		Currency:    utils.FirstNonEmpty(strings.ToUpper(in.Currency), models.DefaultDeductionCurrency),
		Category:    utils.FirstNonEmpty(strings.ToUpper(in.Category), models.DefaultDeductionCategory),
		Description: strings.TrimSpace(in.Description),
		CreatedBy:   createdBy,
	}
	if err := s.Repo.Insert(ctx, d); err != nil {
		if intdb.IsMissingTable(err) {
			return d, domain.InternalError{Msg: "agency_deductions table is missing; run migrate", Err: err}
		}
		return d, domain.InternalError{Msg: "failed to save deduction", Err: err}
	}
	utils.LogEvent(s.RequestID, "deduction", "create", "agency="+agencyUID+" id="+d.ID)
	realtime.Notify(s.Events, "agency_deductions", realtime.ActionInsert, d.ID)

	if saved, err := s.Repo.Get(ctx, agencyUID, d.ID); err == nil {
		return saved, nil
	}
	return d, nil
}

func (s DeductionService) Delete(ctx context.Context, agencyUID, id string) error {
	n, err := s.Repo.Delete(ctx, agencyUID, id)
	if err != nil {
		if intdb.IsMissingTable(err) || errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "deduction", Err: err}
		}
		return domain.InternalError{Msg: "failed to delete deduction", Err: err}
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "deduction"}
	}
	realtime.Notify(s.Events, "agency_deductions", realtime.ActionDelete, id)
	return nil
}
