package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/realtime"
	"backoffice/internal/repositories"
	"backoffice/internal/utils"
)

const (
	airportsDefaultLimit = 20
	airportsMaxLimit     = 100
)

// LocationSearcher is the external airport search provider.
type LocationSearcher interface {
	SearchLocations(ctx context.Context, keyword string, limit, offset int) ([]models.AirportSearchResult, error)
}

type AirportService struct {
	Repo      repositories.AirportRepository
	Search    LocationSearcher
	Events    realtime.Publisher
	RequestID string
}

type AirportQuery struct {
	Page    int
	Limit   int
	Search  string
	Country string
	City    string
}

// AirportPage carries either DB airports or provider search results.
type AirportPage struct {
	Data any
	Meta models.PageMeta
}

func normalizeAirportQuery(q AirportQuery) AirportQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = airportsDefaultLimit
	}
	if q.Limit > airportsMaxLimit {
		q.Limit = airportsMaxLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// List searches the provider when a search term is given and it is configured;
// provider failures yield an empty page. Otherwise airports come from the DB.
func (s AirportService) List(ctx context.Context, q AirportQuery) (AirportPage, error) {
	q = normalizeAirportQuery(q)
	offset := (q.Page - 1) * q.Limit

	if q.Search != "" && s.Search != nil {
		found, err := s.Search.SearchLocations(ctx, q.Search, q.Limit, offset)
		if err != nil {
			utils.LogEvent(s.RequestID, "airport", "search_error", err.Error())
			return AirportPage{Data: []models.AirportSearchResult{}, Meta: models.PageMeta{Page: q.Page, Limit: q.Limit}}, nil
		}
		for i := range found {
			if found[i].City == "" {
				found[i].City = q.City
			}
			if found[i].Country == "" {
				found[i].Country = q.Country
			}
		}
		meta := models.PageMeta{Page: q.Page, Limit: q.Limit, Total: len(found), TotalPages: 1}
		return AirportPage{Data: found, Meta: meta}, nil
	}

	rows, total, err := s.Repo.List(ctx, repositories.AirportFilter{Search: q.Search, Country: q.Country, City: q.City}, q.Limit, offset)
	if err != nil {
		return AirportPage{}, domain.InternalError{Msg: "Failed to fetch airports", Err: err}
	}
	return AirportPage{Data: rows, Meta: models.NewPageMeta(q.Page, q.Limit, total)}, nil
}

func (s AirportService) Get(ctx context.Context, id int64) (models.Airport, error) {
	a, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.NotFoundError{Resource: "Airport", Err: err}
		}
		return a, domain.InternalError{Msg: "Failed to fetch airport", Err: err}
	}
	return a, nil
}

func (s AirportService) Create(ctx context.Context, in models.AirportInput) (models.Airport, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return models.Airport{}, domain.ValidationError{Field: "name", Msg: "required"}
	}
	if in.IataCode != nil {
		if code := utils.UpperCode(*in.IataCode); code != "" && len(code) != 3 {
			return models.Airport{}, domain.ValidationError{Field: "iata_code", Msg: "must be 3 letters"}
		}
	}
	id, err := s.Repo.Create(ctx, in)
	if err != nil {
		return models.Airport{}, domain.InternalError{Msg: "Failed to create airport", Err: err}
	}
	realtime.Notify(s.Events, "airports", realtime.ActionInsert, itoa(id))
	return s.Get(ctx, id)
}

func airportInputEmpty(in models.AirportInput) bool {
	for _, p := range []*string{in.IataCode, in.IcaoCode, in.Name, in.City, in.Country, in.Timezone} {
		if p != nil && strings.TrimSpace(*p) != "" {
			return false
		}
	}
	return in.Latitude == nil && in.Longitude == nil && in.Active == nil
}

func (s AirportService) Update(ctx context.Context, id int64, in models.AirportInput) (models.Airport, error) {
	if airportInputEmpty(in) {
		return models.Airport{}, domain.ValidationError{Msg: "No fields to update"}
	}
	if _, err := s.Get(ctx, id); err != nil {
		return models.Airport{}, err
	}
	if _, err := s.Repo.Update(ctx, id, in); err != nil {
		return models.Airport{}, domain.InternalError{Msg: "Failed to update airport", Err: err}
	}
	realtime.Notify(s.Events, "airports", realtime.ActionUpdate, itoa(id))
	return s.Get(ctx, id)
}

func (s AirportService) Delete(ctx context.Context, id int64) error {
	n, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return domain.InternalError{Msg: "Failed to delete airport", Err: err}
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "Airport"}
	}
	realtime.Notify(s.Events, "airports", realtime.ActionDelete, itoa(id))
	return nil
}
