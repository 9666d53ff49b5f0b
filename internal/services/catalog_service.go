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

// CatalogService manages the services catalog (baggage, meals, transfers...).
type CatalogService struct {
	Repo      repositories.ServiceRepository
	Events    realtime.Publisher
	RequestID string
}

// buildService applies form defaults on top of current (zero value for create).
func buildService(current models.Service, in models.ServiceInput) (models.Service, error) {
	out := current
	out.Name = strings.TrimSpace(in.Name)
	out.Description = strings.TrimSpace(in.Description)
	out.Type = utils.FirstNonEmpty(in.Type, current.Type, models.DefaultServiceType)
	out.PricingType = utils.FirstNonEmpty(in.PricingType, current.PricingType, models.DefaultServicePricing)
	if in.BasePrice != nil {
		out.BasePrice = *in.BasePrice
	}
	if in.Status != nil {
		out.Status = *in.Status
	} else if current.ID == 0 {
		out.Status = true
	}
	if out.Name == "" {
		return out, domain.ValidationError{Field: "name", Msg: "required"}
	}
	if out.BasePrice < 0 {
		return out, domain.ValidationError{Field: "base_price", Msg: "must be zero or positive"}
	}
	out.BasePrice = utils.RoundCents(out.BasePrice)
	return out, nil
}

func (s CatalogService) List(ctx context.Context) ([]models.Service, error) {
	out, err := s.Repo.List(ctx)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load services", Err: err}
	}
	return out, nil
}

func (s CatalogService) Get(ctx context.Context, id int64) (models.Service, error) {
	out, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return out, domain.NotFoundError{Resource: "service", Err: err}
		}
		return out, domain.InternalError{Msg: "failed to load service", Err: err}
	}
	return out, nil
}

func (s CatalogService) Create(ctx context.Context, in models.ServiceInput) (models.Service, error) {
	svc, err := buildService(models.Service{}, in)
	if err != nil {
		return svc, err
	}
	id, err := s.Repo.Insert(ctx, svc)
	if err != nil {
		return svc, domain.InternalError{Msg: "failed to save service", Err: err}
	}
	realtime.Notify(s.Events, "services", realtime.ActionInsert, itoa(id))
	return s.Get(ctx, id)
}

func (s CatalogService) Update(ctx context.Context, id int64, in models.ServiceInput) (models.Service, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return current, err
	}
	svc, err := buildService(current, in)
	if err != nil {
		return svc, err
	}
	if _, err := s.Repo.Update(ctx, svc); err != nil {
		return svc, domain.InternalError{Msg: "failed to update service", Err: err}
	}
	realtime.Notify(s.Events, "services", realtime.ActionUpdate, itoa(id))
	return s.Get(ctx, id)
}

func (s CatalogService) Delete(ctx context.Context, id int64) error {
	n, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return domain.InternalError{Msg: "failed to delete service", Err: err}
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "service"}
	}
	realtime.Notify(s.Events, "services", realtime.ActionDelete, itoa(id))
	return nil
}
