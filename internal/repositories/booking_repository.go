package repositories

import (
	"context"
	"database/sql"
	"strings"

	intconfig "backoffice/internal/config"
	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
)

// BookingRepository serves the read-only booking roll-ups behind the dashboard.
type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// DateRange filters on created_at when both ends are set.
type DateRange struct {
	From string
	To   string
}

func (d DateRange) where(args []any) (string, []any) {
	from, to := strings.TrimSpace(d.From), strings.TrimSpace(d.To)
	if from == "" || to == "" {
		return "", args
	}
	return " WHERE created_at >= ? AND created_at <= ?", append(args, from, to)
}

// Counts returns the total number of bookings and those linked to a real customer.
func (r BookingRepository) Counts(ctx context.Context) (total, withCustomer int, err error) {
	if err = r.db().QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings").Scan(&total); err != nil {
		return 0, 0, err
	}
	err = r.db().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE customerid IS NOT NULL AND customerid <> ?", domain.NilCustomerID).Scan(&withCustomer)
	return total, withCustomer, err
}

// SellingPrices returns raw sellingPrice values; prices are stored as free text.
func (r BookingRepository) SellingPrices(ctx context.Context, rng DateRange) ([]sql.NullString, error) {
	where, args := rng.where(nil)
	rows, err := r.db().QueryContext(ctx, "SELECT CAST(sellingPrice AS CHAR) FROM bookings"+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []sql.NullString{}
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Recent returns the newest bookings and the total matching the range.
func (r BookingRepository) Recent(ctx context.Context, rng DateRange, limit int) ([]intdb.Row, int, error) {
	where, args := rng.where(nil)
	var total int
	if err := r.db().QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db().QueryContext(ctx, "SELECT * FROM bookings"+where+" ORDER BY created_at DESC LIMIT ?", append(args, limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := intdb.ScanRows(rows)
	return out, total, err
}

// SellingPrice loads one booking's selling price.
func (r BookingRepository) SellingPrice(ctx context.Context, id string) (string, error) {
	var v sql.NullString
	err := r.db().QueryRowContext(ctx, "SELECT CAST(sellingPrice AS CHAR) FROM bookings WHERE id = ?", id).Scan(&v)
	return v.String, err
}

func (r BookingRepository) CountHandledBy(ctx context.Context, handledBy string) (int, error) {
	var n int
	err := r.db().QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings WHERE handledBy = ?", handledBy).Scan(&n)
	return n, err
}

// CustomerBooking is the part of a booking the customer metrics need.
type CustomerBooking struct {
	CustomerID   string
	SellingPrice sql.NullString
	BuyingPrice  sql.NullString
	CreatedAt    sql.NullTime
}

func (r BookingRepository) ForCustomers(ctx context.Context, ids []string) ([]CustomerBooking, error) {
	if len(ids) == 0 {
		return []CustomerBooking{}, nil
	}
	query, args, err := intdb.In(`
		SELECT CAST(customerid AS CHAR), CAST(sellingPrice AS CHAR), CAST(buyingPrice AS CHAR), created_at
		FROM bookings WHERE customerid IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []CustomerBooking{}
	for rows.Next() {
		var b CustomerBooking
		if err := rows.Scan(&b.CustomerID, &b.SellingPrice, &b.BuyingPrice, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
