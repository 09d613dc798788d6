// Package tablestore persists fixture table data in a local SQLite database
// and exports it as the JSON data file generated tests preload.
package tablestore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/verolang/verogen/internal/domain"
)

// Store is a handle to one table database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, domain.NewError("store", path, 0, "failed to open table store", err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, domain.NewError("store", path, 0, "failed to migrate table store", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// PutTable replaces the stored rows of one table. Row order is preserved.
func (s *Store) PutTable(key string, rows []map[string]any) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning put of %q: %w", key, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO tables (key) VALUES (?) ON CONFLICT(key) DO UPDATE SET updated_at = datetime('now')`, key); err != nil {
		return fmt.Errorf("upserting table %q: %w", key, err)
	}

	var tableID int64
	if err := tx.QueryRow(`SELECT id FROM tables WHERE key = ?`, key).Scan(&tableID); err != nil {
		return fmt.Errorf("resolving table %q: %w", key, err)
	}
	if _, err := tx.Exec(`DELETE FROM rows WHERE table_id = ?`, tableID); err != nil {
		return fmt.Errorf("clearing rows of %q: %w", key, err)
	}

	for i, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encoding row %d of %q: %w", i, key, err)
		}
		if _, err := tx.Exec(`INSERT INTO rows (table_id, position, data) VALUES (?, ?, ?)`, tableID, i, string(data)); err != nil {
			return fmt.Errorf("inserting row %d of %q: %w", i, key, err)
		}
	}

	return tx.Commit()
}

// Table returns the stored rows of one table, in insertion order. A missing
// table yields an empty slice, not an error.
func (s *Store) Table(key string) ([]map[string]any, error) {
	rows, err := s.db.Query(`
		SELECT r.data FROM rows r
		JOIN tables t ON t.id = r.table_id
		WHERE t.key = ?
		ORDER BY r.position`, key)
	if err != nil {
		return nil, fmt.Errorf("reading table %q: %w", key, err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning row of %q: %w", key, err)
		}
		row := map[string]any{}
		if err := json.Unmarshal([]byte(data), &row); err != nil {
			return nil, fmt.Errorf("decoding row of %q: %w", key, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Names lists the stored table keys, sorted.
func (s *Store) Names() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM tables ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ExportJSON serializes the whole store in the data-file format the generated
// tests preload: one object keyed by table name.
func (s *Store) ExportJSON() ([]byte, error) {
	names, err := s.Names()
	if err != nil {
		return nil, err
	}
	export := map[string][]map[string]any{}
	for _, name := range names {
		rows, err := s.Table(name)
		if err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []map[string]any{}
		}
		export[name] = rows
	}
	return json.MarshalIndent(export, "", "  ")
}

// ImportJSON loads a data file into the store, replacing any tables it names.
func (s *Store) ImportJSON(data []byte) error {
	var imported map[string][]map[string]any
	if err := json.Unmarshal(data, &imported); err != nil {
		return fmt.Errorf("decoding data file: %w", err)
	}

	keys := make([]string, 0, len(imported))
	for key := range imported {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := s.PutTable(key, imported[key]); err != nil {
			return err
		}
	}
	return nil
}
