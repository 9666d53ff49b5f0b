package repositories

import (
	"context"
	"database/sql"
	"strings"

	intconfig "backoffice/internal/config"
	intdb "backoffice/internal/db"
	"backoffice/internal/domain/models"
)

const inquiriesTable = "flight_inquiries"

const inquiryColumns = `
	id,
	COALESCE(inquiry_number,'') AS inquiry_number,
	COALESCE(client_name,'') AS client_name,
	COALESCE(departure_code,'') AS departure_code,
	COALESCE(arrival_code,'') AS arrival_code,
	DATE_FORMAT(start_date, '%Y-%m-%d') AS start_date,
	DATE_FORMAT(end_date, '%Y-%m-%d') AS end_date,
	COALESCE(priority,'') AS priority,
	COALESCE(status,'') AS status,
	assignee_id,
	COALESCE(DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'),'') AS created_at,
	COALESCE(DATE_FORMAT(updated_at, '%Y-%m-%d %H:%i:%s'),'') AS updated_at`

// InquiryNumberPrefix precedes the sequence part of generated inquiry numbers.
const InquiryNumberPrefix = "#IF-"

type InquiryRepository struct {
	DB *sql.DB
}

func (r InquiryRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r InquiryRepository) List(ctx context.Context, f models.InquiryFilter) ([]models.Inquiry, error) {
	conds := []string{}
	args := []any{}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		conds = append(conds, "priority = ?")
		args = append(args, f.Priority)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		conds = append(conds, "(LOWER(client_name) LIKE ? OR LOWER(inquiry_number) LIKE ?)")
		args = append(args, like, like)
	}
	if f.AssigneeID != "" {
		conds = append(conds, "assignee_id = ?")
		args = append(args, f.AssigneeID)
	}
	q := "SELECT " + inquiryColumns + " FROM " + inquiriesTable
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"

	out := []models.Inquiry{}
	if err := intdb.X(r.db()).SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r InquiryRepository) Get(ctx context.Context, id string) (models.Inquiry, error) {
	var out models.Inquiry
	err := intdb.X(r.db()).GetContext(ctx, &out, "SELECT "+inquiryColumns+" FROM "+inquiriesTable+" WHERE id = ?", id)
	return out, err
}

// MaxInquiryNumber returns the highest numeric suffix among #IF- numbers, 0 when none.
func (r InquiryRepository) MaxInquiryNumber(ctx context.Context) (int64, error) {
	var n sql.NullInt64
	err := r.db().QueryRowContext(ctx, `
		SELECT MAX(CAST(SUBSTRING(inquiry_number, ?) AS UNSIGNED))
		FROM `+inquiriesTable+`
		WHERE inquiry_number LIKE ?`, len(InquiryNumberPrefix)+1, InquiryNumberPrefix+"%").Scan(&n)
	if err != nil {
		return 0, err
	}
	return n.Int64, nil
}

func (r InquiryRepository) Insert(ctx context.Context, f intdb.Fields) error {
	q, args := intdb.InsertSQL(inquiriesTable, f)
	_, err := r.db().ExecContext(ctx, q, args...)
	return err
}

func (r InquiryRepository) Update(ctx context.Context, id string, f intdb.Fields) (int64, error) {
	q, args := intdb.UpdateSQL(inquiriesTable, f, "id = ?", id)
	res, err := r.db().ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r InquiryRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db().ExecContext(ctx, "DELETE FROM "+inquiriesTable+" WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
