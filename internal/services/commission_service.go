package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/realtime"
	"backoffice/internal/repositories"
	"backoffice/internal/utils"

	"github.com/google/uuid"
)

type CommissionService struct {
	Repo       repositories.CommissionRepository
	AgencyRepo repositories.AgencyRepository
	Events     realtime.Publisher
	RequestID  string
}

func (s CommissionService) ListByAgency(ctx context.Context, agencyUID string) ([]models.AirlineCommission, error) {
	out, err := s.Repo.ListByAgency(ctx, agencyUID)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load commissions", Err: err}
	}
	return out, nil
}

// ByAirline maps agency uid to its active rule for the airline. Later rules win.
func (s CommissionService) ByAirline(ctx context.Context, iata string) (map[string]models.AirlineCommission, error) {
	rules, err := s.Repo.ActiveByAirline(ctx, utils.UpperCode(iata))
	if err != nil {
		return nil, domain.InternalError{Msg: "Failed to load commission details", Err: err}
	}
	return IndexCommissionsByAgency(rules), nil
}

func IndexCommissionsByAgency(rules []models.AirlineCommission) map[string]models.AirlineCommission {
	out := make(map[string]models.AirlineCommission, len(rules))
	for _, r := range rules {
		out[r.AgencyUID] = r
	}
	return out
}

// AgenciesForAirline lists agencies with an active rule, best rate first.
func (s CommissionService) AgenciesForAirline(ctx context.Context, iata string) ([]models.AirlineAgency, error) {
	out, err := s.Repo.AgenciesForAirline(ctx, utils.UpperCode(iata))
	if err != nil {
		return nil, domain.InternalError{Msg: "Failed to load agencies", Err: err}
	}
	return SortAirlineAgencies(out), nil
}

func SortAirlineAgencies(items []models.AirlineAgency) []models.AirlineAgency {
	for i := range items {
		if strings.TrimSpace(items[i].IataCode) == "" {
			items[i].IataCode = "N/A"
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CommissionRate > items[j].CommissionRate
	})
	return items
}

func validateCommission(in models.AirlineCommissionInput) (models.AirlineCommission, error) {
	c := models.AirlineCommission{
		AirlineName:    strings.TrimSpace(in.AirlineName),
		AirlineIata:    utils.UpperCode(in.AirlineIata),
		CommissionType: utils.FirstNonEmpty(strings.ToUpper(in.CommissionType), models.CommissionPercentage),
		ClassType:      strings.TrimSpace(in.ClassType),
		Origin:         utils.UpperCode(in.Origin),
		Destination:    utils.UpperCode(in.Destination),
		Status:         utils.FirstNonEmpty(strings.ToUpper(in.Status), models.CommissionActive),
	}
	if c.AirlineIata == "" {
		return c, domain.ValidationError{Field: "airline_iata", Msg: "required"}
	}
	if c.CommissionType != models.CommissionPercentage && c.CommissionType != models.CommissionFixed {
		return c, domain.ValidationError{Field: "commission_type", Msg: "must be PERCENTAGE or FIXED"}
	}
	if c.Status != models.CommissionActive && c.Status != models.CommissionInactive {
		return c, domain.ValidationError{Field: "status", Msg: "must be ACTIVE or INACTIVE"}
	}
	if in.Value == nil {
		return c, domain.ValidationError{Field: "value", Msg: "required"}
	}
	c.Value = *in.Value
	if c.Value < 0 {
		return c, domain.ValidationError{Field: "value", Msg: "must be zero or positive"}
	}
	if c.CommissionType == models.CommissionPercentage && c.Value > 100 {
		return c, domain.ValidationError{Field: "value", Msg: "percentage must be between 0 and 100"}
	}
	return c, nil
}

func (s CommissionService) Create(ctx context.Context, agencyUID string, in models.AirlineCommissionInput) (models.AirlineCommission, error) {
	c, err := validateCommission(in)
	if err != nil {
		return c, err
	}
	c.ID = uuid.NewString()
	c.AgencyUID = agencyUID
	if err := s.Repo.Insert(ctx, c); err != nil {
		if intdb.IsMissingTable(err) {
			return c, domain.InternalError{Msg: "airline_commissions table is missing; run migrate", Err: err}
		}
		return c, domain.InternalError{Msg: "failed to save commission", Err: err}
	}
	utils.LogEvent(s.RequestID, "commission", "create", "agency="+agencyUID+" airline="+c.AirlineIata)
	realtime.Notify(s.Events, "airline_commissions", realtime.ActionInsert, c.ID)
	return s.reload(ctx, c)
}

func (s CommissionService) Update(ctx context.Context, agencyUID, id string, in models.AirlineCommissionInput) (models.AirlineCommission, error) {
	c, err := validateCommission(in)
	if err != nil {
		return c, err
	}
	c.ID = id
	c.AgencyUID = agencyUID
	if _, err := s.Repo.Get(ctx, agencyUID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || intdb.IsMissingTable(err) {
			return c, domain.NotFoundError{Resource: "commission", Err: err}
		}
		return c, domain.InternalError{Msg: "failed to load commission", Err: err}
	}
	if _, err := s.Repo.Update(ctx, c); err != nil {
		return c, domain.InternalError{Msg: "failed to update commission", Err: err}
	}
	realtime.Notify(s.Events, "airline_commissions", realtime.ActionUpdate, id)
	return s.reload(ctx, c)
}

func (s CommissionService) reload(ctx context.Context, c models.AirlineCommission) (models.AirlineCommission, error) {
	if saved, err := s.Repo.Get(ctx, c.AgencyUID, c.ID); err == nil {
		return saved, nil
	}
	return c, nil
}

func (s CommissionService) Delete(ctx context.Context, agencyUID, id string) error {
	n, err := s.Repo.Delete(ctx, agencyUID, id)
	if err != nil {
		if intdb.IsMissingTable(err) {
			return domain.NotFoundError{Resource: "commission", Err: err}
		}
		return domain.InternalError{Msg: "failed to delete commission", Err: err}
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "commission"}
	}
	realtime.Notify(s.Events, "airline_commissions", realtime.ActionDelete, id)
	return nil
}

// Quote prices a booking with an explicit rate, or the agency's default rate when only agency_uid is given.
func (s CommissionService) Quote(ctx context.Context, req models.CommissionQuoteRequest) (models.CommissionQuote, error) {
	rate := models.DefaultCommissionRate
	switch {
	case req.CommissionRate != nil:
		rate = *req.CommissionRate
	case strings.TrimSpace(req.AgencyUID) != "":
		r, err := s.AgencyRepo.CommissionRate(ctx, strings.TrimSpace(req.AgencyUID))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.CommissionQuote{}, domain.NotFoundError{Resource: "agency", Err: err}
			}
			return models.CommissionQuote{}, domain.InternalError{Msg: "failed to load agency rate", Err: err}
		}
		rate = r
	}
	return QuoteCommission(req.NetFare, req.Taxes, rate, req.CommissionType)
}
