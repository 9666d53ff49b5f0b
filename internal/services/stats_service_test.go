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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandledByName(t *testing.T) {
	assert.Equal(t, "Ann Lee", HandledByName(repositories.User{FirstName: "Ann", LastName: " Lee ", Email: "a@x.io"}, "q@x.io"))
	assert.Equal(t, "a@x.io", HandledByName(repositories.User{FirstName: "Ann", Email: "a@x.io"}, "q@x.io"))
	assert.Equal(t, "q@x.io", HandledByName(repositories.User{}, "q@x.io"))
}

func TestFoldCustomerMetrics(t *testing.T) {
	ns := func(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }
	at := func(d int) sql.NullTime {
		return sql.NullTime{Time: time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC), Valid: true}
	}
	got := FoldCustomerMetrics([]string{"c1", "c2", "c3"}, []repositories.CustomerBooking{
		{CustomerID: "c1", SellingPrice: ns("$100.10"), CreatedAt: at(3)},
		{CustomerID: "c1", SellingPrice: ns(""), BuyingPrice: ns("50"), CreatedAt: at(9)},
		{CustomerID: "c2", BuyingPrice: ns("20"), CreatedAt: at(1)},
		{CustomerID: "other", SellingPrice: ns("999")},
	})

	require.Len(t, got, 3)
	assert.Equal(t, 150.1, got["c1"].TotalSpend)
	require.NotNil(t, got["c1"].LastLogin)
	assert.Equal(t, "2025-01-09T00:00:00Z", *got["c1"].LastLogin)
	assert.Equal(t, 20.0, got["c2"].TotalSpend)
	assert.Equal(t, models.CustomerMetric{}, got["c3"])
}

func TestProfileStatsRequiresEmail(t *testing.T) {
	_, err := StatsService{}.ProfileStats(context.Background(), " ")
	assert.True(t, domain.IsValidation(err))
}

func TestSearchCustomersShortQuery(t *testing.T) {
	out, err := StatsService{}.SearchCustomers(context.Background(), "a")
	require.NoError(t, err)
	assert.Empty(t, out)
}

type stubSearcher struct {
	out []models.AirportSearchResult
	err error
}

func (s stubSearcher) SearchLocations(context.Context, string, int, int) ([]models.AirportSearchResult, error) {
	return s.out, s.err
}

func TestAirportListUsesProvider(t *testing.T) {
	svc := AirportService{Search: stubSearcher{out: []models.AirportSearchResult{{IataCode: "SYD", Name: "Sydney"}}}}
	page, err := svc.List(context.Background(), AirportQuery{Search: " syd ", Country: "AU", Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, models.PageMeta{Page: 1, Limit: 100, Total: 1, TotalPages: 1}, page.Meta)
	res := page.Data.([]models.AirportSearchResult)
	assert.Equal(t, "AU", res[0].Country)
}

func TestAirportListProviderFailureIsEmpty(t *testing.T) {
	svc := AirportService{Search: stubSearcher{err: errors.New("401")}}
	page, err := svc.List(context.Background(), AirportQuery{Search: "syd", Page: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, 2, page.Meta.Page)
	assert.Equal(t, 20, page.Meta.Limit)
}

func TestBookingCountsExcludesNilCustomer(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings$").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(10))
	mock.ExpectQuery("customerid IS NOT NULL AND customerid <> \\?").WithArgs(domain.NilCustomerID).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(3))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings$").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))
	mock.ExpectQuery("customerid IS NOT NULL AND customerid <> \\?").WithArgs(domain.NilCustomerID).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(5))

	svc := StatsService{Bookings: repositories.BookingRepository{DB: conn}}
	out, err := svc.BookingCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.BookingCounts{WithCustomerCount: 3, WithoutCustomerCount: 7}, out)

	out, err = svc.BookingCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, out.WithoutCustomerCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalRevenueRangeNeedsBothEnds(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	prices := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"sellingPrice"}).AddRow("$1,200.50").AddRow(nil).AddRow("99.5")
	}
	mock.ExpectQuery("SELECT CAST\\(sellingPrice AS CHAR\\) FROM bookings WHERE created_at >= \\? AND created_at <= \\?").
		WithArgs("2025-01-01", "2025-01-31").WillReturnRows(prices())
	mock.ExpectQuery("SELECT CAST\\(sellingPrice AS CHAR\\) FROM bookings$").WillReturnRows(prices())

	svc := StatsService{Bookings: repositories.BookingRepository{DB: conn}}
	total, err := svc.TotalRevenue(context.Background(), repositories.DateRange{From: "2025-01-01", To: "2025-01-31"})
	require.NoError(t, err)
	assert.Equal(t, 1300.0, total)

	total, err = svc.TotalRevenue(context.Background(), repositories.DateRange{From: "2025-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 1300.0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAirportUpdateValidationAndMissing(t *testing.T) {
	_, err := AirportService{}.Update(context.Background(), 1, models.AirportInput{Name: strp("  ")})
	assert.True(t, domain.IsValidation(err))
	assert.EqualError(t, err, "No fields to update")

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("information_schema.columns").WithArgs("airports", "municipality").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("municipality"))
	mock.ExpectQuery("information_schema.columns").WithArgs("airports", "iso_country").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("iso_country"))
	mock.ExpectQuery("FROM airports WHERE id = \\?").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = AirportService{Repo: repositories.AirportRepository{DB: conn}}.Update(context.Background(), 99, models.AirportInput{Name: strp("Kingsford Smith")})
	assert.True(t, domain.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
