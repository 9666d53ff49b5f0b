package repositories

import (
	"context"
	"database/sql"

	intconfig "backoffice/internal/config"
	intdb "backoffice/internal/db"
	"backoffice/internal/domain/models"
)

const deductionsTable = "agency_deductions"

const deductionColumns = `
	id, agency_uid, amount,
	COALESCE(currency,'AUD') AS currency,
	COALESCE(category,'SQ') AS category,
	COALESCE(description,'') AS description,
	COALESCE(DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'),'') AS created_at,
	COALESCE(created_by,'') AS created_by`

type DeductionRepository struct {
	DB *sql.DB
}

func (r DeductionRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ListByAgency returns deductions newest first. ok is false when the table is missing.
func (r DeductionRepository) ListByAgency(ctx context.Context, agencyUID, category string) ([]models.Deduction, bool, error) {
	query := "SELECT " + deductionColumns + " FROM " + deductionsTable + " WHERE agency_uid = ?"
	args := []any{agencyUID}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " ORDER BY created_at DESC"

	out := []models.Deduction{}
	if err := intdb.X(r.db()).SelectContext(ctx, &out, query, args...); err != nil {
		if intdb.IsMissingTable(err) {
			return []models.Deduction{}, false, nil
		}
		return nil, true, err
	}
	return out, true, nil
}

func (r DeductionRepository) Insert(ctx context.Context, d models.Deduction) error {
	_, err := intdb.X(r.db()).NamedExecContext(ctx, `
		INSERT INTO `+deductionsTable+` (id, agency_uid, amount, currency, category, description, created_by)
		VALUES (:id, :agency_uid, :amount, :currency, :category, :description, NULLIF(:created_by,''))`, d)
	return err
}

func (r DeductionRepository) Get(ctx context.Context, agencyUID, id string) (models.Deduction, error) {
	var d models.Deduction
	err := intdb.X(r.db()).GetContext(ctx, &d, "SELECT "+deductionColumns+" FROM "+deductionsTable+" WHERE id = ? AND agency_uid = ?", id, agencyUID)
	return d, err
}

// Delete returns the number of removed rows.
func (r DeductionRepository) Delete(ctx context.Context, agencyUID, id string) (int64, error) {
	res, err := r.db().ExecContext(ctx, "DELETE FROM "+deductionsTable+" WHERE id = ? AND agency_uid = ?", id, agencyUID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
