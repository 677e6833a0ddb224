package testutils

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/renanmoutaa/Portal-Cativo/db"
	"github.com/renanmoutaa/Portal-Cativo/internal/config"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func SetupTestDatabase(t *testing.T) (*sql.DB, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	testDB, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=10000")
	require.NoError(t, err)

	err = db.InitializeSchema(testDB)
	require.NoError(t, err)

	cleanup := func() {
		testDB.Close()
	}

	return testDB, cleanup
}

func SetupTestRepositoryFactory(t *testing.T) (*db.RepositoryFactory, *sql.DB, func()) {
	testDB, cleanup := SetupTestDatabase(t)
	factory := db.NewRepositoryFactory(testDB, "portal_test")
	return factory, testDB, cleanup
}

func GetTestConfig() *config.Config {
	return &config.Config{
		Port:            "4001",
		SQLitePath:      ":memory:",
		DatabaseName:    "portal_test",
		UpstreamBaseURL: "http://localhost:4002",
		CacheTTL:        5 * time.Second,
		RestartSecret:   "test-restart-secret",
		CORSOrigin:      "*",
	}
}
