package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	intconfig "backoffice/internal/config"
	intdb "backoffice/internal/db"
	"backoffice/internal/domain/models"
)

const (
	agenciesTable = "agencies"
	refsTable     = "agency_booking_refs"
)

// agencySortKeys are the columns a client may order the agency list by.
var agencySortKeys = map[string]bool{
	"agency_name":    true,
	"contact_person": true,
	"number":         true,
	"iata_code":      true,
	"status":         true,
	"created_at":     true,
	"city":           true,
	"country":        true,
}

// AgencyRepository wraps DB access for agencies and their manual booking links.
type AgencyRepository struct {
	DB *sql.DB
}

func (r AgencyRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// SortKey returns a safe ORDER BY column for the agency list.
func SortKey(key string) string {
	key = strings.TrimSpace(key)
	if agencySortKeys[key] {
		return key
	}
	return "agency_name"
}

func sortDir(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "desc") {
		return "DESC"
	}
	return "ASC"
}

// List runs the full-schema agency query: status filter and soft-delete exclusion included.
// Older schemas reject it with an unknown-column error; callers then use ListLegacy.
func (r AgencyRepository) List(ctx context.Context, q models.AgencyListQuery) ([]intdb.Row, int, error) {
	where := []string{"deleted_at IS NULL"}
	args := []any{}
	if q.Q != "" {
		where = append(where, "(LOWER(agency_name) LIKE ? OR LOWER(contact_person) LIKE ?)")
		like := "%" + strings.ToLower(q.Q) + "%"
		args = append(args, like, like)
	}
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, q.Status)
	}
	order := "ORDER BY " + intdb.Ident(SortKey(q.SortKey)) + " " + sortDir(q.SortDir)
	return r.page(ctx, where, args, order, q)
}

// ListLegacy is the reduced query for schemas without status/deleted_at:
// status=active maps to is_active, and sorting is kept only for agency_name/created_at.
func (r AgencyRepository) ListLegacy(ctx context.Context, q models.AgencyListQuery) ([]intdb.Row, int, error) {
	where := []string{}
	args := []any{}
	if q.Q != "" {
		where = append(where, "(LOWER(agency_name) LIKE ? OR LOWER(contact_person) LIKE ?)")
		like := "%" + strings.ToLower(q.Q) + "%"
		args = append(args, like, like)
	}
	if q.Status == models.AgencyStatusActive {
		where = append(where, "is_active = 1")
	}
	order := ""
	if q.SortKey == "agency_name" || q.SortKey == "created_at" {
		order = "ORDER BY " + intdb.Ident(q.SortKey) + " " + sortDir(q.SortDir)
	}
	return r.page(ctx, where, args, order, q)
}

func (r AgencyRepository) page(ctx context.Context, where []string, args []any, order string, q models.AgencyListQuery) ([]intdb.Row, int, error) {
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db().QueryRowContext(ctx, "SELECT COUNT(*) FROM "+agenciesTable+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (q.Page - 1) * q.PageSize
	if offset < 0 {
		offset = 0
	}
	query := "SELECT * FROM " + agenciesTable + cond
	if order != "" {
		query += " " + order
	}
	query += " LIMIT ? OFFSET ?"
	rows, err := r.db().QueryContext(ctx, query, append(append([]any{}, args...), q.PageSize, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := intdb.ScanRows(rows)
	return out, total, err
}

// GetByUID returns the agency row or sql.ErrNoRows.
func (r AgencyRepository) GetByUID(ctx context.Context, uid string) (intdb.Row, error) {
	rows, err := r.db().QueryContext(ctx, "SELECT * FROM "+agenciesTable+" WHERE uid = ? LIMIT 1", uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out, err := intdb.ScanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, sql.ErrNoRows
	}
	return out[0], nil
}

// NameByUID is the cheap existence check used before deletes.
func (r AgencyRepository) NameByUID(ctx context.Context, uid string) (string, error) {
	var name sql.NullString
	err := r.db().QueryRowContext(ctx, "SELECT agency_name FROM "+agenciesTable+" WHERE uid = ? LIMIT 1", uid).Scan(&name)
	return name.String, err
}

func (r AgencyRepository) Insert(ctx context.Context, f intdb.Fields) error {
	query, args := intdb.InsertSQL(agenciesTable, f)
	_, err := r.db().ExecContext(ctx, query, args...)
	return err
}

// Update returns the number of matched rows.
func (r AgencyRepository) Update(ctx context.Context, uid string, f intdb.Fields) (int64, error) {
	if len(f) == 0 {
		return 0, nil
	}
	query, args := intdb.UpdateSQL(agenciesTable, f, "uid = ?", uid)
	res, err := r.db().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r AgencyRepository) Delete(ctx context.Context, uid string) error {
	_, err := r.db().ExecContext(ctx, "DELETE FROM "+agenciesTable+" WHERE uid = ?", uid)
	return err
}

// RefBookingIDs lists the manually linked booking ids. ok is false when the refs table is missing.
func (r AgencyRepository) RefBookingIDs(ctx context.Context, uid string) (ids []int64, ok bool, err error) {
	rows, err := r.db().QueryContext(ctx, "SELECT booking_id FROM "+refsTable+" WHERE agency_uid = ?", uid)
	if err != nil {
		if intdb.IsMissingTable(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer rows.Close()
	ids = []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, true, err
		}
		ids = append(ids, id)
	}
	return ids, true, rows.Err()
}

// BookingNameColumns lists the bookings columns that carry an agency name.
// Probe once per request and pass the result to BookingIDsByAgencyName.
func (r AgencyRepository) BookingNameColumns() []string {
	cols := []string{}
	for _, col := range []string{"issuedthroughagency", "agency"} {
		if intdb.HasColumn(r.db(), "bookings", col) {
			cols = append(cols, col)
		}
	}
	return cols
}

// BookingIDsByAgencyName finds bookings whose name columns equal the agency name.
func (r AgencyRepository) BookingIDsByAgencyName(ctx context.Context, name string, cols []string) ([]int64, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(cols) == 0 {
		return nil, nil
	}
	conds := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for _, col := range cols {
		conds = append(conds, intdb.Ident(col)+" = ?")
		args = append(args, name)
	}
	rows, err := r.db().QueryContext(ctx, "SELECT id FROM bookings WHERE "+strings.Join(conds, " OR "), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// BookingAmount is the slice of a booking the agency roll-up needs.
type BookingAmount struct {
	ID          int64
	BuyingPrice sql.NullString
	CreatedAt   sql.NullTime
}

func (r AgencyRepository) BookingAmounts(ctx context.Context, ids []int64) ([]BookingAmount, error) {
	if len(ids) == 0 {
		return []BookingAmount{}, nil
	}
	query, args, err := intdb.In("SELECT id, CAST(buyingPrice AS CHAR), created_at FROM bookings WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []BookingAmount{}
	for rows.Next() {
		var b BookingAmount
		if err := rows.Scan(&b.ID, &b.BuyingPrice, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// BookingsByIDs returns full booking rows, newest first.
func (r AgencyRepository) BookingsByIDs(ctx context.Context, ids []int64, limit int) ([]intdb.Row, error) {
	if len(ids) == 0 {
		return []intdb.Row{}, nil
	}
	query, args, err := intdb.In("SELECT * FROM bookings WHERE id IN (?) ORDER BY created_at DESC LIMIT ?", ids, limit)
	if err != nil {
		return nil, err
	}
	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return intdb.ScanRows(rows)
}

// ReplaceRefs swaps the agency's manual booking links in one transaction.
// A missing refs table is not an error.
func (r AgencyRepository) ReplaceRefs(ctx context.Context, uid string, bookingIDs []int64) error {
	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+refsTable+" WHERE agency_uid = ?", uid); err != nil {
		if intdb.IsMissingTable(err) {
			return nil
		}
		return err
	}
	if len(bookingIDs) > 0 {
		marks := make([]string, 0, len(bookingIDs))
		args := make([]any, 0, len(bookingIDs)*2)
		for _, id := range bookingIDs {
			marks = append(marks, "(?, ?)")
			args = append(args, uid, id)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO "+refsTable+" (agency_uid, booking_id) VALUES "+strings.Join(marks, ", "), args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r AgencyRepository) DeleteRefs(ctx context.Context, uid string) error {
	_, err := r.db().ExecContext(ctx, "DELETE FROM "+refsTable+" WHERE agency_uid = ?", uid)
	return err
}

// SoftDelete marks the agency inactive. Legacy schemas only have is_active.
func (r AgencyRepository) SoftDelete(ctx context.Context, uid string, now time.Time) error {
	_, err := r.db().ExecContext(ctx, "UPDATE "+agenciesTable+" SET status = ?, deleted_at = ? WHERE uid = ?", models.AgencyStatusInactive, now, uid)
	if intdb.IsUnknownColumn(err) {
		_, err = r.db().ExecContext(ctx, "UPDATE "+agenciesTable+" SET is_active = 0 WHERE uid = ?", uid)
	}
	return err
}

// ListActive feeds the agency pickers. Missing iata_code / commission_rate columns fall back to defaults.
func (r AgencyRepository) ListActive(ctx context.Context) ([]models.ActiveAgency, error) {
	conn := r.db()
	iataSel := "''"
	if intdb.HasColumn(conn, agenciesTable, "iata_code") {
		iataSel = "COALESCE(iata_code,'')"
	}
	rateSel := "NULL"
	if intdb.HasColumn(conn, agenciesTable, "commission_rate") {
		rateSel = "commission_rate"
	}
	where := ""
	switch {
	case intdb.HasColumn(conn, agenciesTable, "status"):
		where = " WHERE status = 'active'"
		if intdb.HasColumn(conn, agenciesTable, "deleted_at") {
			where += " AND deleted_at IS NULL"
		}
	case intdb.HasColumn(conn, agenciesTable, "is_active"):
		where = " WHERE is_active = 1"
	}

	rows, err := conn.QueryContext(ctx, "SELECT uid, COALESCE(agency_name,''), "+iataSel+", "+rateSel+" FROM "+agenciesTable+where+" ORDER BY agency_name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.ActiveAgency{}
	for rows.Next() {
		var (
			a    models.ActiveAgency
			rate sql.NullFloat64
		)
		if err := rows.Scan(&a.UID, &a.AgencyName, &a.IataCode, &rate); err != nil {
			return nil, err
		}
		a.CommissionRate = models.DefaultCommissionRate
		if rate.Valid {
			a.CommissionRate = rate.Float64
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CommissionRate returns the agency's default rate or DefaultCommissionRate.
func (r AgencyRepository) CommissionRate(ctx context.Context, uid string) (float64, error) {
	var rate sql.NullFloat64
	err := r.db().QueryRowContext(ctx, "SELECT commission_rate FROM "+agenciesTable+" WHERE uid = ? LIMIT 1", uid).Scan(&rate)
	if intdb.IsUnknownColumn(err) {
		var found string
		if err := r.db().QueryRowContext(ctx, "SELECT uid FROM "+agenciesTable+" WHERE uid = ? LIMIT 1", uid).Scan(&found); err != nil {
			return 0, err
		}
		return models.DefaultCommissionRate, nil
	}
	if err != nil {
		return 0, err
	}
	if !rate.Valid {
		return models.DefaultCommissionRate, nil
	}
	return rate.Float64, nil
}
