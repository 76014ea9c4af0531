package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

var ErrSettingNotFound = errors.New("setting not found")

// SettingsStore persists string values per session, the server-side
// counterpart of a browser's localStorage.
type SettingsStore interface {
	Get(ctx context.Context, sessionID, name string) (string, error)
	Set(ctx context.Context, sessionID, name, value string) error
	Delete(ctx context.Context, sessionID, name string) error
}

// dialect holds the SQL that differs between database engines.
type dialect struct {
	schema string
	get    string
	upsert string
	delete string
}

var dialects = map[string]dialect{
	DriverMySQL: {
		schema: `CREATE TABLE IF NOT EXISTS settings (
			session_id VARCHAR(36) NOT NULL,
			name       VARCHAR(64) NOT NULL,
			value      TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (session_id, name)
		)`,
		get: `SELECT value FROM settings WHERE session_id = ? AND name = ?`,
		upsert: `INSERT INTO settings (session_id, name, value) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE value = VALUES(value)`,
		delete: `DELETE FROM settings WHERE session_id = ? AND name = ?`,
	},
	DriverPostgres: {
		schema: `CREATE TABLE IF NOT EXISTS settings (
			session_id TEXT NOT NULL,
			name       TEXT NOT NULL,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (session_id, name)
		)`,
		get: `SELECT value FROM settings WHERE session_id = $1 AND name = $2`,
		upsert: `INSERT INTO settings (session_id, name, value) VALUES ($1, $2, $3)
			ON CONFLICT (session_id, name) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		delete: `DELETE FROM settings WHERE session_id = $1 AND name = $2`,
	},
	DriverSQLite: {
		schema: `CREATE TABLE IF NOT EXISTS settings (
			session_id TEXT NOT NULL,
			name       TEXT NOT NULL,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (session_id, name)
		)`,
		get: `SELECT value FROM settings WHERE session_id = ? AND name = ?`,
		upsert: `INSERT INTO settings (session_id, name, value) VALUES (?, ?, ?)
			ON CONFLICT (session_id, name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		delete: `DELETE FROM settings WHERE session_id = ? AND name = ?`,
	},
}

// SettingsRepository stores settings in a SQL database.
type SettingsRepository struct {
	db      *sql.DB
	dialect dialect
}

// NewSettingsRepository creates a SettingsRepository for the given store driver.
func NewSettingsRepository(db *sql.DB, driver string) (*SettingsRepository, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	return &SettingsRepository{db: db, dialect: d}, nil
}

// Migrate creates the settings table if it does not exist.
func (r *SettingsRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.schema); err != nil {
		return fmt.Errorf("migrate settings: %w", err)
	}
	return nil
}

// Get retrieves a setting for a session.
func (r *SettingsRepository) Get(ctx context.Context, sessionID, name string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, r.dialect.get, sessionID, name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSettingNotFound
		}
		return "", err
	}
	return value, nil
}

// Set inserts or replaces a setting for a session.
func (r *SettingsRepository) Set(ctx context.Context, sessionID, name, value string) error {
	_, err := r.db.ExecContext(ctx, r.dialect.upsert, sessionID, name, value)
	return err
}

// Delete removes a setting. Deleting a missing setting is not an error.
func (r *SettingsRepository) Delete(ctx context.Context, sessionID, name string) error {
	_, err := r.db.ExecContext(ctx, r.dialect.delete, sessionID, name)
	return err
}

// MemoryStore keeps settings in process memory. Values are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, sessionID, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[sessionID][name]
	if !ok {
		return "", ErrSettingNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, sessionID, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.data[sessionID]
	if !ok {
		s = make(map[string]string)
		m.data[sessionID] = s
	}
	s[name] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data[sessionID], name)
	if len(m.data[sessionID]) == 0 {
		delete(m.data, sessionID)
	}
	return nil
}
