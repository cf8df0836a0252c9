package db

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// LowerFunc is a SQL function that lower-cases text with Unicode case
// folding. SQLite's built-in lower() and LIKE only fold ASCII.
const LowerFunc = "docsearch_lower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(LowerFunc, 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
