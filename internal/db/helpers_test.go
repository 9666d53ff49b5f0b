package db

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasTableAndColumn(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("information_schema.tables").WithArgs("media").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("media"))
	mock.ExpectQuery("information_schema.tables").WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
	mock.ExpectQuery("information_schema.columns").WithArgs("media", "alt_text").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("alt_text"))
	mock.ExpectQuery("information_schema.columns").WithArgs("media", "nope").
		WillReturnError(errors.New("boom"))

	assert.True(t, HasTable(conn, "media"))
	assert.False(t, HasTable(conn, "ghost"))
	assert.True(t, HasColumn(conn, "media", "alt_text"))
	assert.False(t, HasColumn(conn, "media", "nope"))
	assert.False(t, HasTable(nil, "media"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLErrorClassification(t *testing.T) {
	unknownCol := &mysql.MySQLError{Number: 1054, Message: "Unknown column 'draft'"}
	noTable := &mysql.MySQLError{Number: 1146}
	dup := &mysql.MySQLError{Number: 1062}

	assert.True(t, IsUnknownColumn(unknownCol))
	assert.True(t, IsMissingTable(noTable))
	assert.True(t, IsDuplicate(dup))
	assert.False(t, IsDuplicate(noTable))
	assert.False(t, IsUnknownColumn(nil))
	assert.False(t, IsMissingTable(errors.New("1146")))
}

func TestScanRowsNormalizesBytes(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), []byte("Sydney")),
	)
	rows, err := conn.Query("SELECT id, name FROM airports")
	require.NoError(t, err)
	defer rows.Close()

	out, err := ScanRows(rows)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0]["id"])
	assert.Equal(t, "Sydney", out[0]["name"])
}
