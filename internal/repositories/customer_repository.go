package repositories

import (
	"context"
	"database/sql"
	"strings"

	intconfig "backoffice/internal/config"
	intdb "backoffice/internal/db"
	"backoffice/internal/domain/models"
)

type CustomerRepository struct {
	DB *sql.DB
}

func (r CustomerRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Search matches first/last name, email or phone case-insensitively.
func (r CustomerRepository) Search(ctx context.Context, q string, limit int) ([]models.CustomerMatch, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	out := []models.CustomerMatch{}
	err := intdb.X(r.db()).SelectContext(ctx, &out, `
		SELECT CAST(id AS CHAR) AS id,
			COALESCE(firstName,'') AS firstName,
			COALESCE(lastName,'') AS lastName,
			COALESCE(email,'') AS email,
			COALESCE(phone,'') AS phone
		FROM customers
		WHERE LOWER(firstName) LIKE ? OR LOWER(lastName) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone) LIKE ?
		ORDER BY firstName ASC, lastName ASC
		LIMIT ?`, like, like, like, like, limit)
	return out, err
}
