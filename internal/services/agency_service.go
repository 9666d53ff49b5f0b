package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
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

const (
	agencyDetailBookingLimit = 500
	statsWindow              = 30 * 24 * time.Hour

	agencySchemaMsg        = "Database schema mismatch. Run the agencies migration to update your agencies table."
	agencySchemaSuggestion = "Run `backoffice-admin migrate` to add the missing agencies columns."
)

// AgencyService implements agency CRUD with schema-drift fallbacks and booking roll-ups.
type AgencyService struct {
	Repo      repositories.AgencyRepository
	Events    realtime.Publisher
	RequestID string
	Now       func() time.Time
	NewUID    func() string
}

type AgencyListResult struct {
	Data     []intdb.Row `json:"data"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
	Count    int         `json:"count"`
}

type AgencyDetail struct {
	Agency       intdb.Row      `json:"agency"`
	Bookings     []BookingRef   `json:"bookings"`
	FullBookings []intdb.Row    `json:"fullBookings"`
	Stats        map[string]int `json:"stats"`
}

func (s AgencyService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s AgencyService) newUID() string {
	if s.NewUID != nil {
		return s.NewUID()
	}
	return uuid.NewString()
}

// List pages agencies and attaches booking stats to every row.
func (s AgencyService) List(ctx context.Context, q models.AgencyListQuery) (AgencyListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	if strings.TrimSpace(q.SortKey) == "" {
		q.SortKey = "agency_name"
	}
	q.Q = strings.TrimSpace(q.Q)
	q.Status = strings.TrimSpace(q.Status)

	rows, total, err := s.Repo.List(ctx, q)
	if err != nil {
		if !intdb.IsUnknownColumn(err) {
			return AgencyListResult{}, domain.InternalError{Msg: err.Error(), Err: err}
		}
		utils.LogEvent(s.RequestID, "agency", "list_fallback", "schema mismatch: "+err.Error())
		rows, total, err = s.Repo.ListLegacy(ctx, q)
		if err != nil {
			return AgencyListResult{}, domain.SchemaMismatchError{
				Table:   "agencies",
				Msg:     agencySchemaMsg,
				Details: err.Error(),
				Err:     err,
			}
		}
	}

	var nameCols []string
	if len(rows) > 0 {
		nameCols = s.Repo.BookingNameColumns()
	}
	for _, row := range rows {
		stats, err := s.stats(ctx, rowString(row, "uid"), rowString(row, "agency_name"), nameCols)
		if err != nil {
			utils.LogEvent(s.RequestID, "agency", "stats_error", err.Error())
		}
		row["stats"] = stats
	}

	return AgencyListResult{Data: rows, Page: q.Page, PageSize: q.PageSize, Count: total}, nil
}

// bookingIDs is the union of manually linked bookings and bookings matched by agency name.
func (s AgencyService) bookingIDs(ctx context.Context, uid, name string, nameCols []string) ([]int64, []int64, error) {
	refs, _, err := s.Repo.RefBookingIDs(ctx, uid)
	if err != nil {
		utils.LogEvent(s.RequestID, "agency", "refs_error", err.Error())
		refs = nil
	}
	byName, err := s.Repo.BookingIDsByAgencyName(ctx, name, nameCols)
	if err != nil {
		return refs, nil, err
	}
	seen := map[int64]struct{}{}
	out := []int64{}
	for _, list := range [][]int64{refs, byName} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return refs, out, nil
}

// Stats computes bookings, revenue (sum of buying prices) and the 30-day booking change.
func (s AgencyService) Stats(ctx context.Context, uid, name string) (models.AgencyStats, error) {
	return s.stats(ctx, uid, name, s.Repo.BookingNameColumns())
}

func (s AgencyService) stats(ctx context.Context, uid, name string, nameCols []string) (models.AgencyStats, error) {
	stats := models.AgencyStats{}
	_, ids, err := s.bookingIDs(ctx, uid, name, nameCols)
	if err != nil {
		return stats, err
	}
	if len(ids) == 0 {
		return stats, nil
	}
	amounts, err := s.Repo.BookingAmounts(ctx, ids)
	if err != nil {
		return stats, err
	}
	return SummarizeAgencyBookings(amounts, s.now()), nil
}

// SummarizeAgencyBookings folds booking rows into AgencyStats relative to now.
func SummarizeAgencyBookings(amounts []repositories.BookingAmount, now time.Time) models.AgencyStats {
	stats := models.AgencyStats{Bookings: len(amounts)}
	current, previous := 0, 0
	for _, b := range amounts {
		if b.BuyingPrice.Valid {
			stats.Revenue += utils.ParseAmount(b.BuyingPrice.String)
		}
		if !b.CreatedAt.Valid {
			continue
		}
		age := now.Sub(b.CreatedAt.Time)
		switch {
		case age < 0:
		case age <= statsWindow:
			current++
		case age <= 2*statsWindow:
			previous++
		}
	}
	stats.Revenue = utils.RoundCents(stats.Revenue)
	stats.Change = utils.PercentChange(current, previous)
	return stats
}

// BookingRef is a manual agency-to-booking link.
type BookingRef struct {
	BookingID int64 `json:"booking_id"`
}

// Get returns the agency with its linked bookings.
func (s AgencyService) Get(ctx context.Context, uid string) (AgencyDetail, error) {
	agency, err := s.Repo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AgencyDetail{}, domain.NotFoundError{Resource: "Agency", Err: err}
		}
		return AgencyDetail{}, domain.InternalError{Msg: err.Error(), Err: err}
	}
	name := rowString(agency, "agency_name")
	refs, ids, err := s.bookingIDs(ctx, uid, name, s.Repo.BookingNameColumns())
	if err != nil {
		utils.LogEvent(s.RequestID, "agency", "booking_lookup_error", err.Error())
	}
	refRows := make([]BookingRef, 0, len(refs))
	for _, id := range refs {
		refRows = append(refRows, BookingRef{BookingID: id})
	}
	full := []intdb.Row{}
	if len(ids) > 0 {
		full, err = s.Repo.BookingsByIDs(ctx, ids, agencyDetailBookingLimit)
		if err != nil {
			utils.LogEvent(s.RequestID, "agency", "bookings_error", err.Error())
			full = []intdb.Row{}
		}
	}
	return AgencyDetail{
		Agency:       agency,
		Bookings:     refRows,
		FullBookings: full,
		Stats:        map[string]int{"totalBookings": len(full)},
	}, nil
}

// Create inserts an active agency and returns its uid.
func (s AgencyService) Create(ctx context.Context, in models.AgencyInput) (string, error) {
	if strings.TrimSpace(in.AgencyName) == "" {
		return "", domain.ValidationError{Field: "agency_name", Msg: "Agency name is required"}
	}
	if strings.TrimSpace(in.ContactPerson) == "" || strings.TrimSpace(in.Number) == "" {
		return "", domain.ValidationError{Msg: "Missing required fields"}
	}

	uid := s.newUID()
	fields := intdb.Fields{
		{Col: "uid", Val: uid},
		{Col: "agency_name", Val: strings.TrimSpace(in.AgencyName)},
		{Col: "contact_person", Val: strings.TrimSpace(in.ContactPerson)},
		{Col: "number", Val: strings.TrimSpace(in.Number)},
		{Col: "contact_email", Val: optString(in.ContactEmail)},
		{Col: "address_line1", Val: optString(in.AddressLine1)},
		{Col: "city", Val: optString(in.City)},
		{Col: "state", Val: optString(in.State)},
		{Col: "postal_code", Val: optString(in.PostalCode)},
		{Col: "country", Val: optString(in.Country)},
	}
	if v := optString(in.IataCode); v != nil {
		fields = fields.Set("iata_code", v)
	}
	if v := optString(in.AddressLine2); v != nil {
		fields = fields.Set("address_line2", v)
	}
	fields = fields.Set("status", models.AgencyStatusActive)
	fields = fields.Set("draft", in.Draft != nil && *in.Draft)

	err := s.Repo.Insert(ctx, fields)
	if intdb.IsUnknownColumn(err) {
		utils.LogEvent(s.RequestID, "agency", "create_retry", "retrying without extended columns")
		fields = fields.Without("iata_code", "address_line2", "status", "draft").Set("is_active", true)
		err = s.Repo.Insert(ctx, fields)
	}
	if err != nil {
		if intdb.IsDuplicate(err) {
			return "", domain.ConflictError{Resource: "agency", Msg: "agency already exists", Err: err}
		}
		return "", domain.SchemaMismatchError{
			Table:      "agencies",
			Msg:        err.Error(),
			Suggestion: agencySchemaSuggestion,
			Err:        err,
		}
	}

	utils.LogEvent(s.RequestID, "agency", "create", "uid="+uid)
	realtime.Notify(s.Events, "agencies", realtime.ActionInsert, uid)
	return uid, nil
}

// Update applies the edit form and, when booking_ids is sent, replaces the manual links.
func (s AgencyService) Update(ctx context.Context, uid string, in models.AgencyInput) error {
	fields := intdb.Fields{
		{Col: "agency_name", Val: strings.TrimSpace(in.AgencyName)},
		{Col: "contact_person", Val: strings.TrimSpace(in.ContactPerson)},
		{Col: "number", Val: strings.TrimSpace(in.Number)},
	}
	if in.IataCode != nil {
		fields = fields.Set("iata_code", strings.TrimSpace(*in.IataCode))
	}
	if in.Status != nil {
		fields = fields.Set("status", strings.TrimSpace(*in.Status))
	}
	if in.Draft != nil {
		fields = fields.Set("draft", *in.Draft)
	}

	_, err := s.Repo.Update(ctx, uid, fields)
	if intdb.IsUnknownColumn(err) {
		utils.LogEvent(s.RequestID, "agency", "update_retry", "retrying without extended columns")
		fields = fields.Without("iata_code", "status", "draft")
		if in.Status != nil && strings.TrimSpace(*in.Status) != "" {
			fields = fields.Set("is_active", strings.TrimSpace(*in.Status) == models.AgencyStatusActive)
		}
		_, err = s.Repo.Update(ctx, uid, fields)
	}
	if err != nil {
		return domain.InternalError{Msg: err.Error(), Err: err}
	}

	if in.BookingIDs != nil {
		if err := s.Repo.ReplaceRefs(ctx, uid, *in.BookingIDs); err != nil {
			return domain.InternalError{Msg: err.Error(), Err: err}
		}
	}

	realtime.Notify(s.Events, "agencies", realtime.ActionUpdate, uid)
	return nil
}

// Delete soft-deletes by default; mode "hard" removes the row and its booking links.
func (s AgencyService) Delete(ctx context.Context, uid, mode string) error {
	log.Printf("[DELETE] attempting to delete agency: %s", uid)
	name, err := s.Repo.NameByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "Agency", Err: err}
		}
		return domain.InternalError{Msg: err.Error(), Err: err}
	}

	if strings.TrimSpace(mode) != "hard" {
		log.Printf("[DELETE] soft deleting agency: %s (%s)", name, uid)
		if err := s.Repo.SoftDelete(ctx, uid, s.now()); err != nil {
			return domain.InternalError{Msg: err.Error(), Err: err}
		}
		realtime.Notify(s.Events, "agencies", realtime.ActionUpdate, uid)
		return nil
	}

	log.Printf("[DELETE] hard deleting agency: %s (%s)", name, uid)
	if err := s.Repo.DeleteRefs(ctx, uid); err != nil {
		log.Printf("[DELETE] failed to delete booking refs for %s: %v", uid, err)
	}
	if err := s.Repo.Delete(ctx, uid); err != nil {
		return domain.InternalError{Msg: err.Error(), Err: err}
	}
	realtime.Notify(s.Events, "agencies", realtime.ActionDelete, uid)
	return nil
}

func (s AgencyService) ListActive(ctx context.Context) ([]models.ActiveAgency, error) {
	out, err := s.Repo.ListActive(ctx)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load agencies", Err: err}
	}
	return out, nil
}

func optString(p *string) any {
	if p == nil {
		return nil
	}
	return intdb.NullIfEmpty(*p)
}

func rowString(row intdb.Row, key string) string {
	switch v := row[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
