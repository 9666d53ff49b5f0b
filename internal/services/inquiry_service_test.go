package services

import (
	"context"
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

func strp(s string) *string { return &s }

func TestBuildBoardKeepsColumnOrder(t *testing.T) {
	items := []models.Inquiry{
		{ID: "1", Status: models.InquiryFollowUp, Priority: models.PriorityHigh},
		{ID: "2", Status: models.InquiryNew, Priority: models.PriorityLow},
		{ID: "3", Status: models.InquiryNew, Priority: models.PriorityHigh},
		{ID: "4", Status: "ARCHIVED", Priority: models.PriorityMedium},
	}
	b := BuildBoard(items)

	require.Len(t, b.Columns, 4)
	got := []string{}
	for _, c := range b.Columns {
		got = append(got, c.Status)
	}
	assert.Equal(t, models.InquiryStatuses, got)
	assert.Len(t, b.Columns[0].Inquiries, 2)
	assert.Empty(t, b.Columns[1].Inquiries)
	assert.NotNil(t, b.Columns[1].Inquiries)
	assert.Equal(t, 4, b.Stats.Total)
	assert.Equal(t, 2, b.Stats.HighPriority)
	assert.Equal(t, 2, b.Stats.ByStatus[models.InquiryNew])
	assert.Equal(t, 0, b.Stats.ByStatus[models.InquiryQuoteSent])
}

func TestInquiryFieldsValidation(t *testing.T) {
	_, err := inquiryFields(models.InquiryInput{ClientName: strp("   ")})
	assert.True(t, domain.IsValidation(err))

	_, err = inquiryFields(models.InquiryInput{DepartureCode: strp("SY1")})
	assert.True(t, domain.IsValidation(err))

	_, err = inquiryFields(models.InquiryInput{StartDate: strp("2025-05-10"), EndDate: strp("2025-05-01")})
	assert.True(t, domain.IsValidation(err))

	_, err = inquiryFields(models.InquiryInput{Priority: strp("urgent")})
	assert.True(t, domain.IsValidation(err))

	f, err := inquiryFields(models.InquiryInput{
		ClientName:    strp("  Jane   Doe "),
		DepartureCode: strp("syd"),
		ArrivalCode:   strp(""),
		StartDate:     strp("2025-05-01T09:00:00Z"),
		Status:        strp("quote_sent"),
	})
	require.NoError(t, err)
	m := f.Map()
	assert.Equal(t, "Jane Doe", m["client_name"])
	assert.Equal(t, "SYD", m["departure_code"])
	assert.Nil(t, m["arrival_code"])
	assert.Equal(t, models.InquiryQuoteSent, m["status"])
	assert.Contains(t, m, "start_date")
}

func TestCreateInquiryRetriesGeneratedNumber(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	svc := InquiryService{Repo: repositories.InquiryRepository{DB: conn}, Now: func() time.Time { return now }}

	mock.ExpectQuery("SELECT MAX").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(9004))
	mock.ExpectExec("INSERT INTO flight_inquiries").
		WithArgs("Acme", models.InquiryNew, models.PriorityMedium, sqlmock.AnyArg(), now, now, "#IF-9005").
		WillReturnError(&mysql.MySQLError{Number: 1062})
	mock.ExpectQuery("SELECT MAX").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(9005))
	mock.ExpectExec("INSERT INTO flight_inquiries").
		WithArgs("Acme", models.InquiryNew, models.PriorityMedium, sqlmock.AnyArg(), now, now, "#IF-9006").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM flight_inquiries WHERE id").WillReturnRows(
		sqlmock.NewRows([]string{"id", "inquiry_number", "client_name", "status", "priority"}).
			AddRow("x", "#IF-9006", "Acme", models.InquiryNew, models.PriorityMedium))

	out, err := svc.Create(context.Background(), models.InquiryInput{ClientName: strp("Acme")})
	require.NoError(t, err)
	assert.Equal(t, "#IF-9006", out.InquiryNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInquiryFirstNumber(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	svc := InquiryService{Repo: repositories.InquiryRepository{DB: conn}}
	mock.ExpectQuery("SELECT MAX").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(nil))
	mock.ExpectExec("INSERT INTO flight_inquiries").
		WithArgs("Acme", models.InquiryNew, models.PriorityMedium, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "#IF-9000").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM flight_inquiries WHERE id").WillReturnRows(
		sqlmock.NewRows([]string{"id", "inquiry_number"}).AddRow("x", "#IF-9000"))

	_, err = svc.Create(context.Background(), models.InquiryInput{ClientName: strp("Acme")})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInquiryExplicitNumberConflict(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	svc := InquiryService{Repo: repositories.InquiryRepository{DB: conn}}
	mock.ExpectExec("INSERT INTO flight_inquiries").WillReturnError(&mysql.MySQLError{Number: 1062})

	_, err = svc.Create(context.Background(), models.InquiryInput{ClientName: strp("Acme"), InquiryNumber: strp("#IF-1")})
	assert.True(t, domain.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInquiryNeedsFields(t *testing.T) {
	_, err := InquiryService{}.Update(context.Background(), "x", models.InquiryInput{})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "No fields to update")
}

func TestDeleteInquiryNotFound(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("DELETE FROM flight_inquiries").WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))
	err = InquiryService{Repo: repositories.InquiryRepository{DB: conn}}.Delete(context.Background(), "missing")
	assert.True(t, domain.IsNotFound(err))
}
