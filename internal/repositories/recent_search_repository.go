package repositories

import (
	"context"
	"database/sql"

	intconfig "backoffice/internal/config"
	intdb "backoffice/internal/db"
	"backoffice/internal/domain/models"
)

const recentSearchesTable = "recent_searches"

const recentSearchColumns = `
	id, user_id, origin, destination, departure_date, return_date, trip_type, travel_class,
	passengers, segments,
	CAST(UNIX_TIMESTAMP(created_at) * 1000 AS SIGNED) AS timestamp`

type RecentSearchRepository struct {
	DB *sql.DB
}

func (r RecentSearchRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// List returns a user's searches newest first.
func (r RecentSearchRepository) List(ctx context.Context, userID string) ([]models.RecentSearch, error) {
	out := []models.RecentSearch{}
	err := intdb.X(r.db()).SelectContext(ctx, &out,
		"SELECT "+recentSearchColumns+" FROM "+recentSearchesTable+" WHERE user_id = ? ORDER BY seq DESC", userID)
	if err != nil {
		if intdb.IsMissingTable(err) {
			return []models.RecentSearch{}, nil
		}
		return nil, err
	}
	return out, nil
}

// Save inserts item and drops the given ids in one transaction.
// The table is created on first use.
func (r RecentSearchRepository) Save(ctx context.Context, item models.RecentSearch, drop []string) error {
	err := r.save(ctx, item, drop)
	if intdb.IsMissingTable(err) {
		if err := EnsureTable(ctx, r.db(), recentSearchesTable); err != nil {
			return err
		}
		return r.save(ctx, item, drop)
	}
	return err
}

func (r RecentSearchRepository) save(ctx context.Context, item models.RecentSearch, drop []string) error {
	tx, err := intdb.X(r.db()).BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if len(drop) > 0 {
		q, args, err := intdb.In("DELETE FROM "+recentSearchesTable+" WHERE user_id = ? AND id IN (?)", item.UserID, drop)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO `+recentSearchesTable+` (id, user_id, origin, destination, departure_date, return_date, trip_type, travel_class, passengers, segments, created_at)
		VALUES (:id, :user_id, :origin, :destination, :departure_date, :return_date, :trip_type, :travel_class, :passengers, :segments, NOW())`, item); err != nil {
		return err
	}
	return tx.Commit()
}

func (r RecentSearchRepository) Delete(ctx context.Context, userID, id string) (int64, error) {
	res, err := r.db().ExecContext(ctx, "DELETE FROM "+recentSearchesTable+" WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		if intdb.IsMissingTable(err) {
			return 0, nil
		}
		return 0, err
	}
	return res.RowsAffected()
}

func (r RecentSearchRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.db().ExecContext(ctx, "DELETE FROM "+recentSearchesTable+" WHERE user_id = ?", userID)
	if intdb.IsMissingTable(err) {
		return nil
	}
	return err
}
