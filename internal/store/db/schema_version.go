package db

import (
	"context"

	"github.com/pkg/errors"
)

// schemaVersions lists the application versions that applied the schema.
func (d *DB) schemaVersions(ctx context.Context) ([]string, error) {
	rows, err := d.DB.QueryContext(ctx, `SELECT version FROM migration_history`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list schema versions")
	}
	defer rows.Close()

	versions := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (d *DB) recordSchemaVersion(ctx context.Context, v string) error {
	stmt := `INSERT INTO migration_history (version) VALUES (?) ON CONFLICT(version) DO NOTHING`
	if _, err := d.DB.ExecContext(ctx, stmt, v); err != nil {
		return errors.Wrapf(err, "failed to record schema version %s", v)
	}
	return nil
}
