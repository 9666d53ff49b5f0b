package repositories

import (
	"context"
	"database/sql"
	"strings"

	intconfig "backoffice/internal/config"
	intdb "backoffice/internal/db"
	"backoffice/internal/domain/models"
)

const airportsTable = "airports"

type AirportRepository struct {
	DB *sql.DB
}

func (r AirportRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// airportColumns resolves the city/country columns: the seed data uses
// municipality/iso_country, hand-made tables sometimes use city/country.
func (r AirportRepository) airportColumns() (city, country string) {
	city, country = "municipality", "iso_country"
	if !intdb.HasColumn(r.db(), airportsTable, city) && intdb.HasColumn(r.db(), airportsTable, "city") {
		city = "city"
	}
	if !intdb.HasColumn(r.db(), airportsTable, country) && intdb.HasColumn(r.db(), airportsTable, "country") {
		country = "country"
	}
	return city, country
}

func (r AirportRepository) selectList() string {
	city, country := r.airportColumns()
	return `id,
		COALESCE(iata_code,''),
		COALESCE(icao_code,''),
		COALESCE(name,''),
		COALESCE(` + city + `,''),
		COALESCE(` + country + `,''),
		latitude_deg,
		longitude_deg,
		COALESCE(timezone,''),
		COALESCE(published_status,0)`
}

func scanAirport(sc interface{ Scan(...any) error }) (models.Airport, error) {
	var (
		a        models.Airport
		lat, lng sql.NullFloat64
	)
	if err := sc.Scan(&a.ID, &a.IataCode, &a.IcaoCode, &a.Name, &a.City, &a.Country, &lat, &lng, &a.Timezone, &a.Active); err != nil {
		return a, err
	}
	if lat.Valid {
		a.Latitude = &lat.Float64
	}
	if lng.Valid {
		a.Longitude = &lng.Float64
	}
	return a, nil
}

// AirportFilter narrows the DB listing; all fields are case-insensitive substrings.
type AirportFilter struct {
	Search  string
	Country string
	City    string
}

func (r AirportRepository) List(ctx context.Context, f AirportFilter, limit, offset int) ([]models.Airport, int, error) {
	city, country := r.airportColumns()
	where := []string{}
	args := []any{}
	if v := strings.TrimSpace(f.Country); v != "" {
		where = append(where, "LOWER("+country+") LIKE ?")
		args = append(args, "%"+strings.ToLower(v)+"%")
	}
	if v := strings.TrimSpace(f.City); v != "" {
		where = append(where, "LOWER("+city+") LIKE ?")
		args = append(args, "%"+strings.ToLower(v)+"%")
	}
	if v := strings.TrimSpace(f.Search); v != "" {
		like := "%" + strings.ToLower(v) + "%"
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(iata_code) LIKE ? OR LOWER(icao_code) LIKE ?)")
		args = append(args, like, like, like)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db().QueryRowContext(ctx, "SELECT COUNT(*) FROM "+airportsTable+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db().QueryContext(ctx,
		"SELECT "+r.selectList()+" FROM "+airportsTable+cond+" ORDER BY name ASC LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []models.Airport{}
	for rows.Next() {
		a, err := scanAirport(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r AirportRepository) Get(ctx context.Context, id int64) (models.Airport, error) {
	return scanAirport(r.db().QueryRowContext(ctx, "SELECT "+r.selectList()+" FROM "+airportsTable+" WHERE id = ?", id))
}

// fields maps the API payload onto DB columns, skipping empty values like the edit form does.
func (r AirportRepository) fields(in models.AirportInput) intdb.Fields {
	city, country := r.airportColumns()
	f := intdb.Fields{}
	str := func(col string, v *string, upper bool) {
		if v == nil || strings.TrimSpace(*v) == "" {
			return
		}
		s := strings.TrimSpace(*v)
		if upper {
			s = strings.ToUpper(s)
		}
		f = f.Set(col, s)
	}
	str("iata_code", in.IataCode, true)
	str("icao_code", in.IcaoCode, true)
	str("name", in.Name, false)
	str(city, in.City, false)
	str(country, in.Country, false)
	if in.Latitude != nil {
		f = f.Set("latitude_deg", *in.Latitude)
	}
	if in.Longitude != nil {
		f = f.Set("longitude_deg", *in.Longitude)
	}
	str("timezone", in.Timezone, false)
	if in.Active != nil {
		f = f.Set("published_status", *in.Active)
	}
	return f
}

func (r AirportRepository) Create(ctx context.Context, in models.AirportInput) (int64, error) {
	query, args := intdb.InsertSQL(airportsTable, r.fields(in))
	res, err := r.db().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update returns false when there was nothing to set.
func (r AirportRepository) Update(ctx context.Context, id int64, in models.AirportInput) (bool, error) {
	f := r.fields(in)
	if len(f) == 0 {
		return false, nil
	}
	query, args := intdb.UpdateSQL(airportsTable, f, "id = ?", id)
	_, err := r.db().ExecContext(ctx, query, args...)
	return true, err
}

func (r AirportRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db().ExecContext(ctx, "DELETE FROM "+airportsTable+" WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SeedRow is one airport record from the public airports dataset.
type SeedRow struct {
	Ident        string
	Type         string
	Name         string
	Latitude     *float64
	Longitude    *float64
	Continent    string
	IsoCountry   string
	IsoRegion    string
	Municipality string
	IcaoCode     *string
	IataCode     *string
}

// InsertBatch writes one multi-row INSERT; duplicates on the unique key are refreshed.
func (r AirportRepository) InsertBatch(ctx context.Context, batch []SeedRow) (int64, error) {
	if len(batch) == 0 {
		return 0, nil
	}
	marks := make([]string, 0, len(batch))
	args := make([]any, 0, len(batch)*11)
	for _, s := range batch {
		marks = append(marks, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, s.Ident, s.Type, s.Name, s.Latitude, s.Longitude, s.Continent,
			s.IsoCountry, s.IsoRegion, s.Municipality, s.IcaoCode, s.IataCode)
	}
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO `+airportsTable+`
			(ident, type, name, latitude_deg, longitude_deg, continent, iso_country, iso_region, municipality, icao_code, iata_code)
		VALUES `+strings.Join(marks, ", ")+`
		ON DUPLICATE KEY UPDATE name=VALUES(name), municipality=VALUES(municipality), iata_code=VALUES(iata_code), icao_code=VALUES(icao_code)`, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
