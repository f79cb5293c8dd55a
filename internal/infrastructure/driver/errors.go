package driver

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgconn"
)

const (
	pgUniqueViolationCode    = "23505"
	mysqlUniqueViolationCode = 1062
)

// IsUniqueViolation report whether err is a duplicate-key constraint violation
// on either supported backend
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlUniqueViolationCode
	}
	return false
}
