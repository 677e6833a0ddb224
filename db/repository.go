package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/renanmoutaa/Portal-Cativo/models"
)

// Repository defines a common interface for all repositories
type Repository interface {
	Close() error
}

// LoginRepository defines the interface for login record operations
type LoginRepository interface {
	Repository
	// Create appends a record, assigning id and createdAt.
	Create(ctx context.Context, record *models.LoginRecord) (*models.LoginRecord, error)
	// FindSince returns records with createdAt >= cutoff, newest first,
	// id descending on ties. An empty ssid matches all SSIDs.
	FindSince(ctx context.Context, cutoff time.Time, ssid string) ([]*models.LoginRecord, error)
	// DeleteOlderThan removes records with createdAt < cutoff and reports
	// how many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RepositoryFactory creates repositories bound to the SQLite store
type RepositoryFactory struct {
	SQLiteDB *sql.DB
	DBName   string
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(sqliteDB *sql.DB, dbName string) *RepositoryFactory {
	return &RepositoryFactory{
		SQLiteDB: sqliteDB,
		DBName:   dbName,
	}
}

// NewLoginRepository creates a new login repository
func (f *RepositoryFactory) NewLoginRepository() LoginRepository {
	return NewSQLiteLoginRepository(f.SQLiteDB)
}
