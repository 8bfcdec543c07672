package database

import (
	"context"
	"database/sql"
	"errors"
)

func (d *Database) Get(key string) (string, bool, error) {
	return d.GetContext(context.Background(), key)
}

func (d *Database) Set(key, value string) error {
	return d.SetContext(context.Background(), key, value)
}

func (d *Database) Remove(key string) error {
	return d.RemoveContext(context.Background(), key)
}

func (d *Database) GetContext(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := d.withTimeout(ctx, defaultDBTimeout)
	defer cancel()
	var value *string
	err := d.DB.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapKeyErr("get", key, err)
	}
	if value == nil {
		return "", false, nil
	}
	return *value, true, nil
}

func (d *Database) SetContext(ctx context.Context, key, value string) error {
	ctx, cancel := d.withTimeout(ctx, defaultDBTimeout)
	defer cancel()
	_, err := d.DB.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, key, value)
	return wrapKeyErr("set", key, err)
}

func (d *Database) RemoveContext(ctx context.Context, key string) error {
	ctx, cancel := d.withTimeout(ctx, defaultDBTimeout)
	defer cancel()
	_, err := d.DB.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key)
	return wrapKeyErr("remove", key, err)
}

// All returns every stored key/value pair.
func (d *Database) All(ctx context.Context) (map[string]string, error) {
	ctx, cancel := d.withTimeout(ctx, defaultDBTimeout)
	defer cancel()
	rows, err := d.DB.QueryContext(ctx, "SELECT key, value FROM settings WHERE value IS NOT NULL ORDER BY key")
	if err != nil {
		return nil, &OpError{Op: "list", Resource: "keys", Err: err}
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, &OpError{Op: "list", Resource: "keys", Err: err}
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, &OpError{Op: "list", Resource: "keys", Err: err}
	}
	return out, nil
}
