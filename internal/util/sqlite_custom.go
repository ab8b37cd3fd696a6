package util

import (
	"database/sql/driver"
	"fmt"
	"sync"

	"modernc.org/sqlite"
)

// CaseFold is the scalar SQL function casefold(text).
// NULL folds to NULL.
func CaseFold(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return Fold(v), nil
	case []byte:
		return Fold(string(v)), nil
	default:
		return Fold(fmt.Sprint(v)), nil
	}
}

var registerOnce sync.Once

// RegisterFunctions registers the custom SQL functions used by the store.
// It must run before the first connection is opened.
func RegisterFunctions() {
	registerOnce.Do(func() {
		sqlite.MustRegisterFunction("casefold", &sqlite.FunctionImpl{
			NArgs:         1,
			Deterministic: true,
			Scalar:        CaseFold,
		})
	})
}
