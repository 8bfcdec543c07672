package database

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const vaultFormat = 1

// VaultExport is a portable snapshot of every persisted key.
type VaultExport struct {
	Format     int                        `json:"format"`
	AppVersion string                     `json:"app_version"`
	ExportedAt string                     `json:"exported_at"`
	Entries    map[string]json.RawMessage `json:"entries"`
}

type ExportOptions struct {
	AppVersion string
	Passphrase string
	Now        time.Time
}

type ImportOptions struct {
	Passphrase string
	// Replace removes keys that are not present in the export.
	Replace bool
}

// ExportVault serializes every key of src, sealing the result when a
// passphrase is given.
func ExportVault(ctx context.Context, src Snapshotter, opts ExportOptions) ([]byte, error) {
	values, err := src.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("export vault: %w", err)
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	export := VaultExport{
		Format:     vaultFormat,
		AppVersion: opts.AppVersion,
		ExportedAt: now.Format(time.RFC3339),
		Entries:    make(map[string]json.RawMessage, len(values)),
	}
	for k, v := range values {
		if json.Valid([]byte(v)) {
			export.Entries[k] = json.RawMessage(v)
			continue
		}
		quoted, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("export key %q: %w", k, err)
		}
		export.Entries[k] = quoted
	}
	jsonData, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, err
	}
	if opts.Passphrase != "" {
		return encryptData(jsonData, opts.Passphrase)
	}
	return jsonData, nil
}

// DecodeVault parses an export, decrypting it when it is sealed.
func DecodeVault(payload []byte, passphrase string) (VaultExport, error) {
	var probe struct {
		Encrypted bool `json:"encrypted"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return VaultExport{}, fmt.Errorf("decode vault: %w", err)
	}
	if probe.Encrypted {
		var env encryptedExport
		if err := json.Unmarshal(payload, &env); err != nil {
			return VaultExport{}, fmt.Errorf("decode vault envelope: %w", err)
		}
		plain, err := decryptData(env, passphrase)
		if err != nil {
			return VaultExport{}, err
		}
		payload = plain
	}
	var export VaultExport
	if err := json.Unmarshal(payload, &export); err != nil {
		return VaultExport{}, fmt.Errorf("decode vault: %w", err)
	}
	if export.Format > vaultFormat {
		return VaultExport{}, fmt.Errorf("decode vault: unsupported format %d", export.Format)
	}
	return export, nil
}

// Keys returns the exported keys in sorted order.
func (v VaultExport) Keys() []string {
	keys := make([]string, 0, len(v.Entries))
	for k := range v.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ImportVault loads an export into dst. With Replace set, keys absent from
// the export are removed first.
func ImportVault(ctx context.Context, dst Store, payload []byte, opts ImportOptions) (int, error) {
	export, err := DecodeVault(payload, opts.Passphrase)
	if err != nil {
		return 0, err
	}
	for _, k := range export.Keys() {
		var buf bytes.Buffer
		if err := json.Compact(&buf, export.Entries[k]); err != nil {
			return 0, wrapKeyErr("import", k, ErrInvalidValue)
		}
		export.Entries[k] = buf.Bytes()
	}

	if db, ok := dst.(*Database); ok {
		return db.importTx(ctx, export, opts.Replace)
	}

	if opts.Replace {
		if snap, ok := dst.(Snapshotter); ok {
			existing, err := snap.All(ctx)
			if err != nil {
				return 0, fmt.Errorf("import vault: %w", err)
			}
			for k := range existing {
				if _, keep := export.Entries[k]; keep {
					continue
				}
				if err := dst.Remove(k); err != nil {
					return 0, err
				}
			}
		}
	}
	for _, k := range export.Keys() {
		if err := dst.Set(k, string(export.Entries[k])); err != nil {
			return 0, err
		}
	}
	return len(export.Entries), nil
}

func (d *Database) importTx(ctx context.Context, export VaultExport, replace bool) (int, error) {
	err := d.WithTx(ctx, func(tx *sql.Tx) error {
		if replace {
			if _, err := tx.ExecContext(ctx, "DELETE FROM settings"); err != nil {
				return fmt.Errorf("clear: %w", err)
			}
		}
		for _, k := range export.Keys() {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				k, string(export.Entries[k]),
			); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, &OpError{Op: "import", Resource: "vault", Err: err}
	}
	return len(export.Entries), nil
}
