package services

import (
	"context"
	"encoding/json"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/realtime"
	"backoffice/internal/repositories"
	"backoffice/internal/utils"

	"github.com/google/uuid"
)

// AddRecentSearch puts item first, removes earlier entries for the same trip
// and keeps at most max entries.
func AddRecentSearch(list []models.RecentSearch, item models.RecentSearch, max int) []models.RecentSearch {
	out := make([]models.RecentSearch, 0, len(list)+1)
	out = append(out, item)
	for _, it := range list {
		if it.SameSearch(item) {
			continue
		}
		out = append(out, it)
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

type RecentSearchService struct {
	Repo      repositories.RecentSearchRepository
	Events    realtime.Publisher
	RequestID string
}

func (s RecentSearchService) List(ctx context.Context, userID string) ([]models.RecentSearch, error) {
	if userID == "" {
		return nil, domain.ValidationError{Field: "user", Msg: "authentication required"}
	}
	out, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load recent searches", Err: err}
	}
	return out, nil
}

func (s RecentSearchService) Add(ctx context.Context, userID string, item models.RecentSearch) ([]models.RecentSearch, error) {
	if userID == "" {
		return nil, domain.ValidationError{Field: "user", Msg: "authentication required"}
	}
	item.ID = uuid.NewString()
	item.UserID = userID
	item.Origin = strings.TrimSpace(item.Origin)
	item.Destination = strings.TrimSpace(item.Destination)
	item.DepartureDate = strings.TrimSpace(item.DepartureDate)
	item.ReturnDate = strings.TrimSpace(item.ReturnDate)
	item.TripType = strings.TrimSpace(item.TripType)
	if item.Origin == "" || item.Destination == "" {
		return nil, domain.ValidationError{Msg: "origin and destination are required"}
	}
	for name, raw := range map[string]json.RawMessage{"passengers": item.Passengers, "segments": item.Segments} {
		if len(raw) > 0 && !json.Valid(raw) {
			return nil, domain.ValidationError{Field: name, Msg: "must be valid JSON"}
		}
	}
	item.Timestamp = utils.NowUTC().UnixMilli()

	current, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := AddRecentSearch(current, item, models.MaxRecentSearches)
	kept := make(map[string]struct{}, len(updated))
	for _, it := range updated {
		kept[it.ID] = struct{}{}
	}
	drop := []string{}
	for _, it := range current {
		if _, ok := kept[it.ID]; !ok {
			drop = append(drop, it.ID)
		}
	}
	if err := s.Repo.Save(ctx, item, drop); err != nil {
		return nil, domain.InternalError{Msg: "failed to save recent search", Err: err}
	}
	realtime.Notify(s.Events, "recent_searches", realtime.ActionInsert, item.ID)
	return updated, nil
}

func (s RecentSearchService) Remove(ctx context.Context, userID, id string) error {
	n, err := s.Repo.Delete(ctx, userID, id)
	if err != nil {
		return domain.InternalError{Msg: "failed to remove recent search", Err: err}
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "recent search"}
	}
	realtime.Notify(s.Events, "recent_searches", realtime.ActionDelete, id)
	return nil
}

func (s RecentSearchService) Clear(ctx context.Context, userID string) error {
	if err := s.Repo.Clear(ctx, userID); err != nil {
		return domain.InternalError{Msg: "failed to clear recent searches", Err: err}
	}
	utils.LogEvent(s.RequestID, "recent_search", "clear", "user="+userID)
	realtime.Notify(s.Events, "recent_searches", realtime.ActionDelete, userID)
	return nil
}
