package repository

import (
	"database/sql"
	"database/sql/driver"
	"fmt"

	"golang.org/x/text/cases"
	"modernc.org/sqlite"
)

// foldFunc is the SQLite function used for case-insensitive name matching.
// SQLite's LOWER only folds ASCII, so names such as "CAFÉ ÜBER" need a
// Unicode-aware replacement.
const foldFunc = "fyyur_fold"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, foldValue)
}

// foldValue case-folds one TEXT argument.  NULL stays NULL.
func foldValue(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return fold(v), nil
	case []byte:
		return fold(string(v)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported argument %T", foldFunc, v)
	}
}

// fold applies Unicode case folding.  A Caser keeps state, so each call
// builds its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// foldExpr names the SQL function that case-folds a column for the driver
// behind db.  MySQL's LOWER already handles non-ASCII letters.
func foldExpr(db *sql.DB) string {
	if _, ok := db.Driver().(*sqlite.Driver); ok {
		return foldFunc
	}
	return "LOWER"
}

// nameMatch renders "<fold>(column) LIKE ? ESCAPE '!'".
func nameMatch(fn, column string) string {
	return fn + "(" + column + ") LIKE ? ESCAPE '!'"
}
