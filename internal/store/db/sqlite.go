package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Xunop/book-manager/internal/log"
	"github.com/Xunop/book-manager/internal/util"
	"github.com/Xunop/book-manager/internal/version"
)

type DB struct {
	*sql.DB
	path string
}

func init() {
	// Register custom functions
	util.RegisterFunctions()
}

func NewDB(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("Database URL is required")
	}

	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}
	// One connection: SQLite has a single writer, and ":memory:" is per connection.
	d.SetMaxOpenConns(1)

	if _, err := d.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		d.Close()
		return nil, errors.Wrap(err, "failed to set busy timeout")
	}

	return &DB{d, path}, nil
}

func (d *DB) Close() error {
	return d.DB.Close()
}

//go:embed migration
var migrationFS embed.FS

const latestSchemaFileName = "LATEST_SCHEMA.sql"

// Migrate applies the latest schema and records the running version.
// The schema is idempotent, there are no incremental migrations.
func (d *DB) Migrate(ctx context.Context) error {
	if err := d.applyLatestSchema(ctx); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}

	currentVersion := version.GetCurrentVersion()
	versions, err := d.schemaVersions(ctx)
	if err != nil {
		return err
	}
	latest := version.Latest(versions)
	if latest != "" && !version.IsVersionGreaterThan(currentVersion, latest) {
		return nil
	}

	if err := d.recordSchemaVersion(ctx, currentVersion); err != nil {
		return err
	}
	log.Info("Database schema recorded", zap.String("version", currentVersion), zap.String("previous", latest))
	return nil
}

func (d *DB) applyLatestSchema(ctx context.Context) error {
	latestSchemaPath := fmt.Sprintf("migration/%s", latestSchemaFileName)
	buf, err := migrationFS.ReadFile(latestSchemaPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file: %q", latestSchemaPath)
	}

	stmt := string(buf)
	if err := d.execute(ctx, stmt); err != nil {
		return errors.Wrapf(err, "failed to apply latest schema: %s", stmt)
	}
	return nil
}

// execute runs a single SQL statement within a transaction.
func (d *DB) execute(ctx context.Context, stmt string) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}

	return tx.Commit()
}
