package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var unknownColumn = &mysql.MySQLError{Number: 1054, Message: "Unknown column 'deleted_at' in 'where clause'"}

func TestSummarizeAgencyBookings(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	at := func(days int) sql.NullTime {
		return sql.NullTime{Time: now.Add(-time.Duration(days) * 24 * time.Hour), Valid: true}
	}
	price := func(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

	stats := SummarizeAgencyBookings([]repositories.BookingAmount{
		{ID: 1, BuyingPrice: price("$1,000.50"), CreatedAt: at(2)},
		{ID: 2, BuyingPrice: price("200"), CreatedAt: at(10)},
		{ID: 3, BuyingPrice: price("n/a"), CreatedAt: at(45)},
		{ID: 4, CreatedAt: at(100)},
	}, now)

	assert.Equal(t, 4, stats.Bookings)
	assert.Equal(t, 1200.5, stats.Revenue)
	assert.Equal(t, 100.0, stats.Change)
}

func TestAgencyListFallsBackOnUnknownColumn(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM agencies WHERE deleted_at IS NULL").WillReturnError(unknownColumn)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM agencies WHERE is_active = 1").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectQuery("SELECT \\* FROM agencies WHERE is_active = 1 ORDER BY `agency_name` ASC LIMIT").
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"uid", "agency_name"}))

	svc := AgencyService{Repo: repositories.AgencyRepository{DB: conn}}
	out, err := svc.List(context.Background(), models.AgencyListQuery{Status: models.AgencyStatusActive})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 20, out.PageSize)
	assert.Empty(t, out.Data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgencyListReportsSchemaMismatch(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT COUNT").WillReturnError(unknownColumn)
	mock.ExpectQuery("SELECT COUNT").WillReturnError(&mysql.MySQLError{Number: 1054, Message: "Unknown column 'agency_name'"})

	_, err = AgencyService{Repo: repositories.AgencyRepository{DB: conn}}.List(context.Background(), models.AgencyListQuery{})
	sm, ok := domain.AsSchemaMismatch(err)
	require.True(t, ok)
	assert.Equal(t, "agencies", sm.Table)
	assert.Contains(t, sm.Details, "agency_name")
}

func TestAgencyCreateRetriesWithoutExtendedColumns(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("INSERT INTO agencies .*`status`, `draft`").WillReturnError(unknownColumn)
	mock.ExpectExec("INSERT INTO agencies").
		WithArgs("uid-1", "Sky Travel", "Ann", "0400", nil, nil, nil, nil, nil, nil, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := AgencyService{Repo: repositories.AgencyRepository{DB: conn}, NewUID: func() string { return "uid-1" }}
	uid, err := svc.Create(context.Background(), models.AgencyInput{AgencyName: " Sky Travel ", ContactPerson: "Ann", Number: "0400"})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgencyCreateValidation(t *testing.T) {
	_, err := AgencyService{}.Create(context.Background(), models.AgencyInput{AgencyName: "  "})
	assert.EqualError(t, err, "agency_name: Agency name is required")

	_, err = AgencyService{}.Create(context.Background(), models.AgencyInput{AgencyName: "X"})
	assert.EqualError(t, err, "Missing required fields")
}

func TestAgencyDeleteMissing(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT agency_name FROM agencies").WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"agency_name"}))

	err = AgencyService{Repo: repositories.AgencyRepository{DB: conn}}.Delete(context.Background(), "ghost", "soft")
	assert.True(t, domain.IsNotFound(err))
}

func TestAgencyUpdateRetriesWithIsActive(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("UPDATE agencies SET .*`status`=\\?").WillReturnError(unknownColumn)
	mock.ExpectExec("UPDATE agencies SET `agency_name`=\\?, `contact_person`=\\?, `number`=\\?, `is_active`=\\? WHERE uid = \\?").
		WithArgs("Sky Travel", "Ann", "0400", false, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM agency_booking_refs WHERE agency_uid = \\?").WithArgs("u1").
		WillReturnError(&mysql.MySQLError{Number: 1146, Message: "Table 'agency_booking_refs' doesn't exist"})
	mock.ExpectRollback()

	status, iata := models.AgencyStatusInactive, "SKY"
	refs := []int64{5, 6}
	err = AgencyService{Repo: repositories.AgencyRepository{DB: conn}}.Update(context.Background(), "u1", models.AgencyInput{
		AgencyName: "Sky Travel", ContactPerson: "Ann", Number: "0400",
		IataCode: &iata, Status: &status, BookingIDs: &refs,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgencySoftDeleteFallsBackToIsActive(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT agency_name FROM agencies").WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"agency_name"}).AddRow("Sky Travel"))
	mock.ExpectExec("UPDATE agencies SET status = \\?, deleted_at = \\? WHERE uid = \\?").
		WithArgs(models.AgencyStatusInactive, now, "u1").
		WillReturnError(&mysql.MySQLError{Number: 1054, Message: "Unknown column 'status' in 'field list'"})
	mock.ExpectExec("UPDATE agencies SET is_active = 0 WHERE uid = \\?").WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := AgencyService{Repo: repositories.AgencyRepository{DB: conn}, Now: func() time.Time { return now }}
	require.NoError(t, svc.Delete(context.Background(), "u1", "soft"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgencyHardDeleteIgnoresRefsFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT agency_name FROM agencies").WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"agency_name"}).AddRow("Sky Travel"))
	mock.ExpectExec("DELETE FROM agency_booking_refs WHERE agency_uid = \\?").WithArgs("u1").
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectExec("DELETE FROM agencies WHERE uid = \\?").WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, AgencyService{Repo: repositories.AgencyRepository{DB: conn}}.Delete(context.Background(), "u1", "hard"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgencyListProbesBookingColumnsOnce(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	noRefs := &mysql.MySQLError{Number: 1146, Message: "Table 'agency_booking_refs' doesn't exist"}
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM agencies WHERE deleted_at IS NULL").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))
	mock.ExpectQuery("SELECT \\* FROM agencies WHERE deleted_at IS NULL ORDER BY `agency_name` ASC LIMIT").
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"uid", "agency_name"}).AddRow("a1", "Blue Sky").AddRow("a2", "Coral"))
	mock.ExpectQuery("information_schema.columns").WithArgs("bookings", "issuedthroughagency").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("issuedthroughagency"))
	mock.ExpectQuery("information_schema.columns").WithArgs("bookings", "agency").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))

	mock.ExpectQuery("SELECT booking_id FROM agency_booking_refs").WithArgs("a1").WillReturnError(noRefs)
	mock.ExpectQuery("SELECT id FROM bookings WHERE `issuedthroughagency` = \\?").WithArgs("Blue Sky").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("SELECT id, CAST\\(buyingPrice AS CHAR\\), created_at FROM bookings WHERE id IN").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "buyingPrice", "created_at"}).AddRow(7, "150.25", nil))

	mock.ExpectQuery("SELECT booking_id FROM agency_booking_refs").WithArgs("a2").WillReturnError(noRefs)
	mock.ExpectQuery("SELECT id FROM bookings WHERE `issuedthroughagency` = \\?").WithArgs("Coral").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	out, err := AgencyService{Repo: repositories.AgencyRepository{DB: conn}}.List(context.Background(), models.AgencyListQuery{})
	require.NoError(t, err)
	require.Len(t, out.Data, 2)
	assert.Equal(t, models.AgencyStats{Bookings: 1, Revenue: 150.25}, out.Data[0]["stats"])
	assert.Equal(t, models.AgencyStats{}, out.Data[1]["stats"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
