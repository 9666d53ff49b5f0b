package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/repositories"
	"backoffice/internal/utils"
)

const (
	recentBookingsDefault = 10
	recentBookingsMax     = 100
	customerSearchLimit   = 5
	customerSearchMinLen  = 2
)

// StatsService computes the dashboard, profile and customer roll-ups.
type StatsService struct {
	Bookings  repositories.BookingRepository
	Users     repositories.UserRepository
	Customers repositories.CustomerRepository
	RequestID string
}

func (s StatsService) BookingCounts(ctx context.Context) (models.BookingCounts, error) {
	total, with, err := s.Bookings.Counts(ctx)
	if err != nil {
		return models.BookingCounts{}, domain.InternalError{Msg: err.Error(), Err: err}
	}
	without := total - with
	if without < 0 {
		without = 0
	}
	return models.BookingCounts{WithCustomerCount: with, WithoutCustomerCount: without}, nil
}

// TotalRevenue sums parsed selling prices, optionally within a created_at range.
func (s StatsService) TotalRevenue(ctx context.Context, rng repositories.DateRange) (float64, error) {
	prices, err := s.Bookings.SellingPrices(ctx, rng)
	if err != nil {
		return 0, domain.InternalError{Msg: "Failed to fetch booking data", Err: err}
	}
	total := 0.0
	for _, p := range prices {
		if p.Valid {
			total += utils.ParseAmount(p.String)
		}
	}
	return utils.RoundCents(total), nil
}

type RecentBookings struct {
	Data  []map[string]any
	Total int
}

func (s StatsService) RecentBookings(ctx context.Context, rng repositories.DateRange, limit int) (RecentBookings, error) {
	if limit <= 0 {
		limit = recentBookingsDefault
	}
	if limit > recentBookingsMax {
		limit = recentBookingsMax
	}
	rows, total, err := s.Bookings.Recent(ctx, rng, limit)
	if err != nil {
		return RecentBookings{}, domain.InternalError{Msg: "Failed to fetch booking data", Err: err}
	}
	return RecentBookings{Data: rows, Total: total}, nil
}

// RefundQuote loads the booking's selling price and applies QuoteRefund.
func (s StatsService) RefundQuote(ctx context.Context, bookingID string, req models.RefundQuoteRequest) (models.RefundQuote, error) {
	raw, err := s.Bookings.SellingPrice(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RefundQuote{}, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return models.RefundQuote{}, domain.InternalError{Msg: "failed to load booking", Err: err}
	}
	q := QuoteRefund(utils.ParseAmount(raw), req)
	q.BookingID = bookingID
	return q, nil
}

// HandledByName is how bookings record the staff member: "first last", else the email.
func HandledByName(u repositories.User, fallback string) string {
	first, last := strings.TrimSpace(u.FirstName), strings.TrimSpace(u.LastName)
	if first != "" && last != "" {
		return first + " " + last
	}
	return utils.FirstNonEmpty(u.Email, fallback)
}

func (s StatsService) ProfileStats(ctx context.Context, email string) (models.ProfileStats, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.ProfileStats{}, domain.ValidationError{Field: "email", Msg: "Email is required"}
	}
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ProfileStats{}, domain.NotFoundError{Resource: "user", Err: err}
		}
		return models.ProfileStats{}, domain.InternalError{Msg: err.Error(), Err: err}
	}
	n, err := s.Bookings.CountHandledBy(ctx, HandledByName(u, email))
	if err != nil {
		return models.ProfileStats{}, domain.InternalError{Msg: err.Error(), Err: err}
	}
	out := models.ProfileStats{TotalBookings: n}
	if created := u.FormatCreated(); created != nil {
		out.MemberSince = *created
	}
	return out, nil
}

// CustomerMetrics returns total spend and the latest booking time per requested customer id.
func (s StatsService) CustomerMetrics(ctx context.Context, ids []string) (map[string]models.CustomerMetric, error) {
	clean := utils.CleanList(ids)
	metrics := make(map[string]models.CustomerMetric, len(clean))
	if len(clean) == 0 {
		return metrics, nil
	}
	rows, err := s.Bookings.ForCustomers(ctx, clean)
	if err != nil {
		return nil, domain.InternalError{Msg: err.Error(), Err: err}
	}
	return FoldCustomerMetrics(clean, rows), nil
}

func FoldCustomerMetrics(ids []string, rows []repositories.CustomerBooking) map[string]models.CustomerMetric {
	metrics := make(map[string]models.CustomerMetric, len(ids))
	latest := map[string]int64{}
	for _, id := range ids {
		metrics[id] = models.CustomerMetric{}
	}
	for _, row := range rows {
		m, ok := metrics[row.CustomerID]
		if !ok {
			continue
		}
		price := row.SellingPrice
		if !price.Valid || strings.TrimSpace(price.String) == "" {
			price = row.BuyingPrice
		}
		if price.Valid {
			m.TotalSpend = utils.RoundCents(m.TotalSpend + utils.ParseAmount(price.String))
		}
		if row.CreatedAt.Valid {
			ts := row.CreatedAt.Time.UnixNano()
			if prev, seen := latest[row.CustomerID]; !seen || ts > prev {
				latest[row.CustomerID] = ts
				v := utils.FormatISO(row.CreatedAt.Time)
				m.LastLogin = &v
			}
		}
		metrics[row.CustomerID] = m
	}
	return metrics
}

// SearchCustomers backs the booking form picker; short queries return nothing.
func (s StatsService) SearchCustomers(ctx context.Context, q string) ([]models.CustomerMatch, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < customerSearchMinLen {
		return []models.CustomerMatch{}, nil
	}
	out, err := s.Customers.Search(ctx, q, customerSearchLimit)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to search customers", Err: err}
	}
	return out, nil
}
