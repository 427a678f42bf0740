package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStorage persists layout records in a single key-value table. This
// is the production backend, kept deliberately dumb: one row per key,
// last write wins.
type SQLiteStorage struct {
	db *sql.DB
}

// OpenSQLite opens or creates the layout database at the given path.
func OpenSQLite(dbPath string) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStorage{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS layout_kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStorage) Get(key string) ([]byte, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM layout_kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return nil, false
	}
	return []byte(value), true
}

func (s *SQLiteStorage) Set(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO layout_kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(value))
	return err
}

func (s *SQLiteStorage) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM layout_kv WHERE key = ?`, key)
	return err
}

func (s *SQLiteStorage) Keys(prefix string) ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM layout_kv WHERE key LIKE ? ORDER BY key`, prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
