// Package repository holds the cache-consistent repositories and the MySQL
// stores behind them. Stores speak "returning" semantics: every method that
// targets a row returns the affected row, or nil when no row matched, and
// leaves the interpretation of "no row" to the repository.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/storefront/internal/apperr"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// mysqlNoReferencedRow is raised when a foreign key points at a missing row.
const mysqlNoReferencedRow = 1452

// ErrEmailExists signals a unique email violation on users.
var ErrEmailExists = errors.New("email already exists")

// ErrNameExists signals a unique name violation on categories.
var ErrNameExists = errors.New("name already exists")

// ErrUnknownCategory is returned when a product references a category that
// does not exist.
var ErrUnknownCategory = errors.New("category does not exist")

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

func isMissingReference(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlNoReferencedRow
}

// classify keeps already classified errors and files everything else
// under Internal.
func classify(err error, msg string) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Wrap(apperr.Internal, err, msg)
}
