package db

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// X wraps the shared pool for struct scanning. It does not open a new connection.
func X(conn *sql.DB) *sqlx.DB {
	if conn == nil {
		return nil
	}
	return sqlx.NewDb(conn, "mysql")
}

// In expands slice arguments bound to "IN (?)" placeholders.
func In(query string, args ...any) (string, []any, error) {
	return sqlx.In(query, args...)
}
