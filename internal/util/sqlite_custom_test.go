package util

import (
	"database/sql"
	"testing"
)

func TestCustomFunction(t *testing.T) {
	RegisterFunctions()
	withDB := func(test func(db *sql.DB)) {
		db, err := sql.Open("sqlite", ":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(1)
		test(db)
	}

	t.Run("Test CaseFold", func(tt *testing.T) {
		withDB(func(db *sql.DB) {
			if _, err := db.Exec("DROP TABLE IF EXISTS test; CREATE TABLE IF NOT EXISTS test (id INTEGER, value TEXT); INSERT INTO test VALUES (1, 'Мастер и МАРГАРИТА'), (2, 'The Hobbit'), (3, NULL)"); err != nil {
				tt.Fatalf("Error: %v", err)
			}
			row := db.QueryRow("SELECT count(*) FROM test WHERE instr(casefold(value), ?) > 0", Fold("маргарита"))

			var result int
			if err := row.Scan(&result); err != nil {
				tt.Errorf("Error: %v", err)
			}
			if result != 1 {
				tt.Errorf("Expected: %d, got: %d", 1, result)
			}
		})
	})

	t.Run("Test CaseFold NULL", func(tt *testing.T) {
		withDB(func(db *sql.DB) {
			row := db.QueryRow("SELECT casefold(NULL) IS NULL")

			var result bool
			if err := row.Scan(&result); err != nil {
				tt.Errorf("Error: %v", err)
			}
			if !result {
				tt.Errorf("Expected casefold(NULL) to be NULL")
			}
		})
	})
}

func TestRegisterFunctionsTwice(t *testing.T) {
	RegisterFunctions()
	RegisterFunctions()
}
