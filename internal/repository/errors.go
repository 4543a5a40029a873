// Package repository defines error types that are reused across multiple
// repositories. These sentinel values and classifiers allow higher layers
// such as the booking service to distinguish between different failure
// scenarios without inspecting driver messages themselves.
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned when a venue, artist or show id does not resolve.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// MySQL server error numbers that signal a rejected write.
const (
	mysqlDuplicateEntry   = 1062
	mysqlColumnCannotNull = 1048
	mysqlNoDefault        = 1364
	mysqlDataTooLong      = 1406
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
)

// IsConstraintViolation reports whether err is the store refusing a write
// because of a key, null, length or foreign key constraint.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry, mysqlColumnCannotNull, mysqlNoDefault,
			mysqlDataTooLong, mysqlRowIsReferenced, mysqlNoReferencedRow:
			return true
		}
		return false
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

// IsUnavailable reports whether err means the store could not be reached
// or is too busy to answer.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN:
			return true
		}
	}
	return false
}
