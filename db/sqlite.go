package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// ConnectToSQLite initializes and returns a SQLite connection
func ConnectToSQLite(dbPath string) (*sql.DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for SQLite: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	log.Println("Connected to SQLite database")
	return db, nil
}

// InitializeSchema creates all the necessary tables if they don't exist
func InitializeSchema(db *sql.DB) error {
	// Create client_logins table
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS client_logins (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		email TEXT,
		phone TEXT,
		ssid TEXT,
		client_mac TEXT,
		ap_mac TEXT,
		ip TEXT,
		user_agent TEXT,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create client_logins table: %w", err)
	}

	// Indexes for range-by-time and exact-match lookups
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_client_logins_created_at ON client_logins(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_client_logins_ssid ON client_logins(ssid)`,
		`CREATE INDEX IF NOT EXISTS idx_client_logins_ssid_created_at ON client_logins(ssid, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_client_logins_client_mac ON client_logins(client_mac)`,
	}
	for _, stmt := range indexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("Database schema initialized successfully")
	return nil
}
