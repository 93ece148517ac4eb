package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dashboard-builder/src/logger"
	"dashboard-builder/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

// SQLiteStore is the primary embedded structured store. Layout bodies and
// cached widget data are stored as JSON text columns keyed by id/key.
type SQLiteStore struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteStore(cfg *models.MConfig, log *logger.Logger) (*SQLiteStore, error) {
	return &SQLiteStore{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) Initialize() error {
	dsn := d.Config.Storage.DBPath

	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) createTables() error {
	// Layouts survive restarts, so tables are created only when missing.
	query := `
		CREATE TABLE IF NOT EXISTS layouts (
			id TEXT PRIMARY KEY,
			name TEXT,
			data TEXT,
			saved_at INTEGER,
			version INTEGER
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create layouts: %w", err)
	}

	query = `
		CREATE TABLE IF NOT EXISTS widget_cache (
			key TEXT PRIMARY KEY,
			value TEXT,
			timestamp INTEGER
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create widget_cache: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) PutLayout(rec *models.MStoredLayout) error {
	body, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("failed to serialize layout %s: %w", rec.ID, err)
	}

	query := `
		INSERT INTO layouts (id, name, data, saved_at, version)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			data = excluded.data,
			saved_at = excluded.saved_at,
			version = excluded.version
	`
	_, err = d.DB.Exec(query, rec.ID, rec.Name, string(body), rec.SavedAt, rec.Version)
	return err
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) GetLayout(id string) (*models.MStoredLayout, error) {
	row := d.DB.QueryRow("SELECT id, name, data, saved_at, version FROM layouts WHERE id = ?", id)
	return scanLayoutRow(row)
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) GetAllLayouts() ([]models.MStoredLayout, error) {
	rows, err := d.DB.Query("SELECT id, name, data, saved_at, version FROM layouts ORDER BY saved_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var layouts []models.MStoredLayout
	for rows.Next() {
		var rec models.MStoredLayout
		var body string
		if err := rows.Scan(&rec.ID, &rec.Name, &body, &rec.SavedAt, &rec.Version); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(body), &rec.Data); err != nil {
			return nil, fmt.Errorf("corrupt layout record %s: %w", rec.ID, err)
		}
		layouts = append(layouts, rec)
	}
	return layouts, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) DeleteLayout(id string) error {
	_, err := d.DB.Exec("DELETE FROM layouts WHERE id = ?", id)
	return err
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) PutCacheEntry(entry *models.MCacheEntry) error {
	body, err := json.Marshal(entry.Value)
	if err != nil {
		return fmt.Errorf("failed to serialize cache entry %s: %w", entry.Key, err)
	}

	query := `
		INSERT INTO widget_cache (key, value, timestamp)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			timestamp = excluded.timestamp
	`
	_, err = d.DB.Exec(query, entry.Key, string(body), entry.Timestamp)
	return err
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) GetCacheEntry(key string) (*models.MCacheEntry, error) {
	row := d.DB.QueryRow("SELECT key, value, timestamp FROM widget_cache WHERE key = ?", key)

	var entry models.MCacheEntry
	var body string
	if err := row.Scan(&entry.Key, &body, &entry.Timestamp); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(body), &entry.Value); err != nil {
		return nil, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return &entry, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) ClearAll() error {
	if _, err := d.DB.Exec("DELETE FROM layouts"); err != nil {
		return err
	}
	_, err := d.DB.Exec("DELETE FROM widget_cache")
	return err
}

// -----------------------------------------------------------------------------

func (d *SQLiteStore) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

// -----------------------------------------------------------------------------

// scanLayoutRow decodes one layouts row; absent rows map to (nil, nil).
func scanLayoutRow(row *sql.Row) (*models.MStoredLayout, error) {
	var rec models.MStoredLayout
	var body string
	if err := row.Scan(&rec.ID, &rec.Name, &body, &rec.SavedAt, &rec.Version); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(body), &rec.Data); err != nil {
		return nil, fmt.Errorf("corrupt layout record %s: %w", rec.ID, err)
	}
	return &rec, nil
}
