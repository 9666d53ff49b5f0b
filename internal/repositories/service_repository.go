package repositories

import (
	"context"
	"database/sql"

	intconfig "backoffice/internal/config"
	intdb "backoffice/internal/db"
	"backoffice/internal/domain/models"
)

const servicesTable = "services"

const serviceColumns = `
	id,
	COALESCE(name,'') AS name,
	COALESCE(description,'') AS description,
	COALESCE(type,'') AS type,
	COALESCE(pricing_type,'') AS pricing_type,
	COALESCE(base_price,0) AS base_price,
	COALESCE(status,0) AS status,
	COALESCE(DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'),'') AS created_at,
	COALESCE(DATE_FORMAT(updated_at, '%Y-%m-%d %H:%i:%s'),'') AS updated_at`

// ServiceRepository stores the sellable services catalog.
type ServiceRepository struct {
	DB *sql.DB
}

func (r ServiceRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ServiceRepository) List(ctx context.Context) ([]models.Service, error) {
	out := []models.Service{}
	err := intdb.X(r.db()).SelectContext(ctx, &out, "SELECT "+serviceColumns+" FROM "+servicesTable+" ORDER BY created_at DESC, id DESC")
	return out, err
}

func (r ServiceRepository) Get(ctx context.Context, id int64) (models.Service, error) {
	var s models.Service
	err := intdb.X(r.db()).GetContext(ctx, &s, "SELECT "+serviceColumns+" FROM "+servicesTable+" WHERE id = ?", id)
	return s, err
}

func (r ServiceRepository) Insert(ctx context.Context, s models.Service) (int64, error) {
	res, err := intdb.X(r.db()).NamedExecContext(ctx, `
		INSERT INTO `+servicesTable+` (name, description, type, pricing_type, base_price, status, created_at, updated_at)
		VALUES (:name, :description, :type, :pricing_type, :base_price, :status, NOW(), NOW())`, s)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r ServiceRepository) Update(ctx context.Context, s models.Service) (int64, error) {
	res, err := intdb.X(r.db()).NamedExecContext(ctx, `
		UPDATE `+servicesTable+` SET
			name = :name, description = :description, type = :type,
			pricing_type = :pricing_type, base_price = :base_price, status = :status,
			updated_at = NOW()
		WHERE id = :id`, s)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r ServiceRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db().ExecContext(ctx, "DELETE FROM "+servicesTable+" WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
