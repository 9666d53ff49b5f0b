package repositories

import (
	"context"
	"database/sql"
	"log"
	"sort"

	intconfig "backoffice/internal/config"
	intdb "backoffice/internal/db"
	"backoffice/internal/domain/models"
)

const routesTable = "routes"

// RouteRepository writes route content keyed by (departure_airport, arrival_airport).
type RouteRepository struct {
	DB *sql.DB
}

func (r RouteRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// UpsertContent writes every row in one transaction. Columns the deployed
// routes table lacks are dropped and logged once.
func (r RouteRepository) UpsertContent(ctx context.Context, rows []models.RouteRow) (int, error) {
	conn := r.db()
	probe := []string{}
	seen := map[string]bool{}
	for _, row := range rows {
		for col := range row.Columns {
			if !seen[col] {
				seen[col] = true
				probe = append(probe, col)
			}
		}
	}
	sort.Strings(probe)
	present := make(map[string]bool, len(probe))
	for _, col := range probe {
		present[col] = intdb.HasColumn(conn, routesTable, col)
		if !present[col] {
			log.Printf("[ROUTES] column %s missing on %s, skipped", col, routesTable)
		}
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	n := 0
	for _, row := range rows {
		f := intdb.Fields{}.
			Set("departure_airport", row.DepartureAirport).
			Set("arrival_airport", row.ArrivalAirport)
		cols := make([]string, 0, len(row.Columns))
		for col := range row.Columns {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		for _, col := range cols {
			if present[col] {
				f = f.Set(col, row.Columns[col])
			}
		}
		q, args := intdb.UpsertSQL(routesTable, f, "departure_airport", "arrival_airport")
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return 0, err
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}
