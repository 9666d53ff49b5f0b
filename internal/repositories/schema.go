package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	intconfig "backoffice/internal/config"
	intdb "backoffice/internal/db"
)

// optionalTables are created on demand; deployments that predate them keep working without.
var optionalTables = []struct {
	Name string
	DDL  string
}{
	{refsTable, `
		CREATE TABLE IF NOT EXISTS agency_booking_refs (
			agency_uid VARCHAR(64) NOT NULL,
			booking_id BIGINT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (agency_uid, booking_id),
			KEY idx_refs_booking (booking_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{deductionsTable, `
		CREATE TABLE IF NOT EXISTS agency_deductions (
			id CHAR(36) NOT NULL PRIMARY KEY,
			agency_uid VARCHAR(64) NOT NULL,
			amount DECIMAL(12,2) NOT NULL DEFAULT 0,
			currency VARCHAR(8) NOT NULL DEFAULT 'AUD',
			category VARCHAR(32) NOT NULL DEFAULT 'SQ',
			description TEXT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			created_by VARCHAR(64) NULL,
			KEY idx_deductions_agency (agency_uid, category),
			CONSTRAINT chk_deductions_amount CHECK (amount >= 0)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{commissionsTable, `
		CREATE TABLE IF NOT EXISTS airline_commissions (
			id CHAR(36) NOT NULL PRIMARY KEY,
			agency_uid VARCHAR(64) NOT NULL,
			airline_name VARCHAR(128) NOT NULL DEFAULT '',
			airline_iata VARCHAR(3) NOT NULL,
			commission_type VARCHAR(16) NOT NULL DEFAULT 'PERCENTAGE',
			value DECIMAL(12,2) NOT NULL DEFAULT 0,
			class_type VARCHAR(32) NULL,
			origin VARCHAR(3) NULL,
			destination VARCHAR(3) NULL,
			status VARCHAR(16) NOT NULL DEFAULT 'ACTIVE',
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_commissions_airline (airline_iata, status),
			KEY idx_commissions_agency (agency_uid)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{recentSearchesTable, `
		CREATE TABLE IF NOT EXISTS recent_searches (
			id CHAR(36) NOT NULL PRIMARY KEY,
			seq BIGINT NOT NULL AUTO_INCREMENT UNIQUE,
			user_id VARCHAR(64) NOT NULL,
			origin VARCHAR(64) NOT NULL DEFAULT '',
			destination VARCHAR(64) NOT NULL DEFAULT '',
			departure_date VARCHAR(32) NOT NULL DEFAULT '',
			return_date VARCHAR(32) NOT NULL DEFAULT '',
			trip_type VARCHAR(32) NOT NULL DEFAULT '',
			travel_class VARCHAR(32) NOT NULL DEFAULT '',
			passengers JSON NULL,
			segments JSON NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_recent_user (user_id, seq)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

var ensured sync.Map

// EnsureTable creates an optional table once per process.
func EnsureTable(ctx context.Context, db *sql.DB, name string) error {
	if db == nil {
		db = intconfig.DB
	}
	if _, ok := ensured.Load(name); ok {
		return nil
	}
	for _, t := range optionalTables {
		if t.Name != name {
			continue
		}
		if _, err := db.ExecContext(ctx, t.DDL); err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		ensured.Store(name, true)
		return nil
	}
	return fmt.Errorf("unknown optional table %q", name)
}

// Migrate creates every optional table and reports which ones it touched.
func Migrate(ctx context.Context, db *sql.DB) ([]string, error) {
	done := []string{}
	for _, t := range optionalTables {
		if err := EnsureTable(ctx, db, t.Name); err != nil {
			return done, err
		}
		done = append(done, t.Name)
	}
	return done, nil
}

// coreSchema lists the tables and columns the API reads.
var coreSchema = map[string][]string{
	"agencies":         {"uid", "agency_name", "contact_person", "number", "iata_code", "status", "draft", "deleted_at", "commission_rate"},
	"bookings":         {"id", "customerid", "sellingPrice", "buyingPrice", "issuedthroughagency", "agency", "handledBy", "created_at"},
	"customers":        {"id", "firstName", "lastName", "email", "phone"},
	"airports":         {"id", "iata_code", "name", "municipality", "iso_country", "published_status"},
	"services":         {"id", "name", "base_price", "status"},
	"media":            {"media_id", "title", "file_path", "mime_type"},
	"media_tags":       {"media_id", "tag_name"},
	"media_categories": {"media_id", "category_name"},
	"flight_inquiries": {"id", "inquiry_number", "client_name", "status", "priority"},
	"routes":           {"departure_airport", "arrival_airport"},
	"users":            {"id", "email", "password_hash", "role"},
}

// SchemaReport is the result of probing one table.
type SchemaReport struct {
	Table          string   `json:"table"`
	Exists         bool     `json:"exists"`
	MissingColumns []string `json:"missing_columns,omitempty"`
}

// CheckSchema probes information_schema for every core table and column.
func CheckSchema(db *sql.DB, tables []string) []SchemaReport {
	if db == nil {
		db = intconfig.DB
	}
	out := make([]SchemaReport, 0, len(tables))
	for _, table := range tables {
		rep := SchemaReport{Table: table, Exists: intdb.HasTable(db, table)}
		if rep.Exists {
			for _, col := range coreSchema[table] {
				if !intdb.HasColumn(db, table, col) {
					rep.MissingColumns = append(rep.MissingColumns, col)
				}
			}
		}
		out = append(out, rep)
	}
	return out
}

// CoreTables returns the probed table names in a stable order.
func CoreTables() []string {
	return []string{"agencies", "bookings", "customers", "airports", "services", "media", "media_tags", "media_categories", "flight_inquiries", "routes", "users"}
}
