package db

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers we react to.
const (
	ErrNumUnknownColumn uint16 = 1054
	ErrNumNoSuchTable   uint16 = 1146
	ErrNumDuplicateKey  uint16 = 1062
)

func mysqlNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

// IsUnknownColumn reports a schema drift error: the statement references a column the table lacks.
func IsUnknownColumn(err error) bool {
	return err != nil && mysqlNumber(err) == ErrNumUnknownColumn
}

func IsMissingTable(err error) bool {
	return err != nil && mysqlNumber(err) == ErrNumNoSuchTable
}

func IsDuplicate(err error) bool {
	return err != nil && mysqlNumber(err) == ErrNumDuplicateKey
}
