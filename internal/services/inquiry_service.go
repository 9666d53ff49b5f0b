package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/realtime"
	"backoffice/internal/repositories"
	"backoffice/internal/utils"

	"github.com/google/uuid"
)

// inquiryNumberBase makes the first generated number #IF-9000.
const inquiryNumberBase = 8999

const inquiryNumberAttempts = 3

type InquiryService struct {
	Repo      repositories.InquiryRepository
	Events    realtime.Publisher
	RequestID string
	Now       func() time.Time
}

func (s InquiryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

func (s InquiryService) List(ctx context.Context, f models.InquiryFilter) ([]models.Inquiry, error) {
	f.Status = strings.ToUpper(strings.TrimSpace(f.Status))
	f.Priority = strings.ToUpper(strings.TrimSpace(f.Priority))
	out, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load inquiries", Err: err}
	}
	return out, nil
}

// Board groups inquiries into kanban columns in fixed order.
func (s InquiryService) Board(ctx context.Context, f models.InquiryFilter) (models.Board, error) {
	f.Status = ""
	items, err := s.List(ctx, f)
	if err != nil {
		return models.Board{}, err
	}
	return BuildBoard(items), nil
}

func BuildBoard(items []models.Inquiry) models.Board {
	board := models.Board{
		Columns: make([]models.BoardColumn, 0, len(models.InquiryStatuses)),
		Stats:   models.BoardStats{ByStatus: map[string]int{}},
	}
	pos := map[string]int{}
	for i, st := range models.InquiryStatuses {
		pos[st] = i
		board.Columns = append(board.Columns, models.BoardColumn{Status: st, Inquiries: []models.Inquiry{}})
		board.Stats.ByStatus[st] = 0
	}
	for _, it := range items {
		board.Stats.Total++
		if it.Priority == models.PriorityHigh {
			board.Stats.HighPriority++
		}
		i, ok := pos[it.Status]
		if !ok {
			continue
		}
		board.Columns[i].Inquiries = append(board.Columns[i].Inquiries, it)
		board.Stats.ByStatus[it.Status]++
	}
	return board
}

func (s InquiryService) Get(ctx context.Context, id string) (models.Inquiry, error) {
	out, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return out, domain.NotFoundError{Resource: "inquiry", Err: err}
		}
		return out, domain.InternalError{Msg: "failed to load inquiry", Err: err}
	}
	return out, nil
}

func validAirportCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// inquiryFields validates the sent fields and turns them into columns.
func inquiryFields(in models.InquiryInput) (intdb.Fields, error) {
	f := intdb.Fields{}
	if in.InquiryNumber != nil {
		if v := strings.TrimSpace(*in.InquiryNumber); v != "" {
			f = f.Set("inquiry_number", v)
		}
	}
	if in.ClientName != nil {
		v := utils.NormalizeSpace(*in.ClientName)
		if v == "" {
			return nil, domain.ValidationError{Field: "client_name", Msg: "required"}
		}
		f = f.Set("client_name", v)
	}
	codes := []struct {
		col string
		val *string
	}{{"departure_code", in.DepartureCode}, {"arrival_code", in.ArrivalCode}}
	for _, c := range codes {
		col, p := c.col, c.val
		if p == nil {
			continue
		}
		v := utils.UpperCode(*p)
		if v != "" && !validAirportCode(v) {
			return nil, domain.ValidationError{Field: col, Msg: "must be a 3-letter airport code"}
		}
		f = f.Set(col, intdb.NullIfEmpty(v))
	}
	var start, end time.Time
	dates := []struct {
		col string
		val *string
	}{{"start_date", in.StartDate}, {"end_date", in.EndDate}}
	for _, d := range dates {
		col, p := d.col, d.val
		if p == nil {
			continue
		}
		v := strings.TrimSpace(*p)
		if v == "" {
			f = f.Set(col, nil)
			continue
		}
		t, ok := utils.ParseFlexibleTime(v)
		if !ok {
			return nil, domain.ValidationError{Field: col, Msg: "invalid date"}
		}
		if col == "start_date" {
			start = t
		} else {
			end = t
		}
		f = f.Set(col, utils.FormatDate(t))
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return nil, domain.ValidationError{Field: "end_date", Msg: "must not be before start_date"}
	}
	if in.Priority != nil {
		v := strings.ToUpper(strings.TrimSpace(*in.Priority))
		if !slices.Contains(models.InquiryPriorities, v) {
			return nil, domain.ValidationError{Field: "priority", Msg: "must be one of " + strings.Join(models.InquiryPriorities, ", ")}
		}
		f = f.Set("priority", v)
	}
	if in.Status != nil {
		v := strings.ToUpper(strings.TrimSpace(*in.Status))
		if !slices.Contains(models.InquiryStatuses, v) {
			return nil, domain.ValidationError{Field: "status", Msg: "must be one of " + strings.Join(models.InquiryStatuses, ", ")}
		}
		f = f.Set("status", v)
	}
	if in.AssigneeID != nil {
		f = f.Set("assignee_id", intdb.NullIfEmpty(*in.AssigneeID))
	}
	return f, nil
}

func (s InquiryService) nextInquiryNumber(ctx context.Context) (string, error) {
	n, err := s.Repo.MaxInquiryNumber(ctx)
	if err != nil {
		return "", err
	}
	if n < inquiryNumberBase {
		n = inquiryNumberBase
	}
	return fmt.Sprintf("%s%d", repositories.InquiryNumberPrefix, n+1), nil
}

func (s InquiryService) Create(ctx context.Context, in models.InquiryInput) (models.Inquiry, error) {
	if in.ClientName == nil || strings.TrimSpace(*in.ClientName) == "" {
		return models.Inquiry{}, domain.ValidationError{Field: "client_name", Msg: "required"}
	}
	f, err := inquiryFields(in)
	if err != nil {
		return models.Inquiry{}, err
	}
	if !f.Has("status") {
		f = f.Set("status", models.InquiryNew)
	}
	if !f.Has("priority") {
		f = f.Set("priority", models.PriorityMedium)
	}
	id := uuid.NewString()
	now := s.now()
	f = f.Set("id", id).Set("created_at", now).Set("updated_at", now)

	generated := !f.Has("inquiry_number")
	for attempt := 1; ; attempt++ {
		if generated {
			num, err := s.nextInquiryNumber(ctx)
			if err != nil {
				return models.Inquiry{}, domain.InternalError{Msg: "failed to number inquiry", Err: err}
			}
			f = f.Set("inquiry_number", num)
		}
		err = s.Repo.Insert(ctx, f)
		if err == nil {
			break
		}
		if intdb.IsDuplicate(err) {
			if generated && attempt < inquiryNumberAttempts {
				continue
			}
			return models.Inquiry{}, domain.ConflictError{Resource: "inquiry", Msg: "inquiry number already exists", Err: err}
		}
		return models.Inquiry{}, domain.InternalError{Msg: "failed to create inquiry", Err: err}
	}
	utils.LogEvent(s.RequestID, "inquiry", "create", "id="+id)
	realtime.Notify(s.Events, "flight_inquiries", realtime.ActionInsert, id)
	return s.Get(ctx, id)
}

// Update applies a partial change; moving a card between columns is a status update.
func (s InquiryService) Update(ctx context.Context, id string, in models.InquiryInput) (models.Inquiry, error) {
	f, err := inquiryFields(in)
	if err != nil {
		return models.Inquiry{}, err
	}
	if len(f) == 0 {
		return models.Inquiry{}, domain.ValidationError{Msg: "No fields to update"}
	}
	if _, err := s.Get(ctx, id); err != nil {
		return models.Inquiry{}, err
	}
	f = f.Set("updated_at", s.now())
	if _, err := s.Repo.Update(ctx, id, f); err != nil {
		if intdb.IsDuplicate(err) {
			return models.Inquiry{}, domain.ConflictError{Resource: "inquiry", Msg: "inquiry number already exists", Err: err}
		}
		return models.Inquiry{}, domain.InternalError{Msg: "failed to update inquiry", Err: err}
	}
	realtime.Notify(s.Events, "flight_inquiries", realtime.ActionUpdate, id)
	return s.Get(ctx, id)
}

func (s InquiryService) Delete(ctx context.Context, id string) error {
	n, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return domain.InternalError{Msg: "failed to delete inquiry", Err: err}
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "inquiry"}
	}
	utils.LogEvent(s.RequestID, "inquiry", "delete", "id="+id)
	realtime.Notify(s.Events, "flight_inquiries", realtime.ActionDelete, id)
	return nil
}
