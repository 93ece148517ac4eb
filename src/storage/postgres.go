package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dashboard-builder/src/logger"
	"dashboard-builder/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

// PostgresStore is the alternate primary store, selected by storage.db_type.
// Tables live in a schema named after the executable so several deployments
// can share one database.
type PostgresStore struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresStore(cfg *models.MConfig, log *logger.Logger) (*PostgresStore, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable name: %w", err)
	}
	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &PostgresStore{
		Config: cfg,
		Schema: name,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	// Create Schema
	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", d.Schema, err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) createTables() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s".layouts (
			id TEXT PRIMARY KEY,
			name TEXT,
			data JSONB,
			saved_at BIGINT,
			version BIGINT
		);
	`, d.Schema)
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create layouts: %w", err)
	}

	query = fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s".widget_cache (
			key TEXT PRIMARY KEY,
			value JSONB,
			timestamp BIGINT
		);
	`, d.Schema)
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create widget_cache: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) PutLayout(rec *models.MStoredLayout) error {
	body, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("failed to serialize layout %s: %w", rec.ID, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO "%s".layouts (id, name, data, saved_at, version)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			data = EXCLUDED.data,
			saved_at = EXCLUDED.saved_at,
			version = EXCLUDED.version
	`, d.Schema)
	_, err = d.DB.Exec(query, rec.ID, rec.Name, string(body), rec.SavedAt, rec.Version)
	return err
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) GetLayout(id string) (*models.MStoredLayout, error) {
	query := fmt.Sprintf(`SELECT id, name, data, saved_at, version FROM "%s".layouts WHERE id = $1`, d.Schema)
	row := d.DB.QueryRow(query, id)
	return scanLayoutRow(row)
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) GetAllLayouts() ([]models.MStoredLayout, error) {
	query := fmt.Sprintf(`SELECT id, name, data, saved_at, version FROM "%s".layouts ORDER BY saved_at DESC`, d.Schema)
	rows, err := d.DB.Query(query)
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

func (d *PostgresStore) DeleteLayout(id string) error {
	query := fmt.Sprintf(`DELETE FROM "%s".layouts WHERE id = $1`, d.Schema)
	_, err := d.DB.Exec(query, id)
	return err
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) PutCacheEntry(entry *models.MCacheEntry) error {
	body, err := json.Marshal(entry.Value)
	if err != nil {
		return fmt.Errorf("failed to serialize cache entry %s: %w", entry.Key, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO "%s".widget_cache (key, value, timestamp)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			timestamp = EXCLUDED.timestamp
	`, d.Schema)
	_, err = d.DB.Exec(query, entry.Key, string(body), entry.Timestamp)
	return err
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) GetCacheEntry(key string) (*models.MCacheEntry, error) {
	query := fmt.Sprintf(`SELECT key, value, timestamp FROM "%s".widget_cache WHERE key = $1`, d.Schema)
	row := d.DB.QueryRow(query, key)

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

func (d *PostgresStore) ClearAll() error {
	if _, err := d.DB.Exec(fmt.Sprintf(`DELETE FROM "%s".layouts`, d.Schema)); err != nil {
		return err
	}
	_, err := d.DB.Exec(fmt.Sprintf(`DELETE FROM "%s".widget_cache`, d.Schema))
	return err
}

// -----------------------------------------------------------------------------

func (d *PostgresStore) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
