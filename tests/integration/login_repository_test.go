package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renanmoutaa/Portal-Cativo/db"
	"github.com/renanmoutaa/Portal-Cativo/tests/testutils"
)

func TestLoginRepository_Create(t *testing.T) {
	factory, _, cleanup := testutils.SetupTestRepositoryFactory(t)
	defer cleanup()

	repo := factory.NewLoginRepository()
	record := testutils.CreateTestLoginRecord("Alice", "alice@co.com", "GUEST", "aa:bb:cc:dd:ee:ff")

	created, err := repo.Create(context.Background(), record)
	require.NoError(t, err)

	assert.Greater(t, created.ID, int64(0))
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, created.CreatedAt.Location())

	second, err := repo.Create(context.Background(), testutils.CreateTestLoginRecord("Bob", "bob@co.com", "GUEST", ""))
	require.NoError(t, err)
	assert.Greater(t, second.ID, created.ID, "ids are store-assigned and monotonic")
}

func TestLoginRepository_CreateRoundTrip(t *testing.T) {
	factory, _, cleanup := testutils.SetupTestRepositoryFactory(t)
	defer cleanup()

	repo := factory.NewLoginRepository()
	record := testutils.CreateTestLoginRecord("Alice", "alice@co.com", "GUEST", "aa:bb:cc:dd:ee:ff")
	record.UserAgent = testutils.StringPtr("Mozilla/5.0 (iPhone)")

	_, err := repo.Create(context.Background(), record)
	require.NoError(t, err)

	found, err := repo.FindSince(context.Background(), time.Now().UTC().Add(-time.Minute), "")
	require.NoError(t, err)
	require.Len(t, found, 1)

	got := found[0]
	assert.Equal(t, "Alice", *got.Name)
	assert.Equal(t, "alice@co.com", *got.Email)
	assert.Equal(t, "GUEST", *got.SSID)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", *got.ClientMAC)
	assert.Equal(t, "Mozilla/5.0 (iPhone)", *got.UserAgent)
	assert.Nil(t, got.Phone, "absent fields come back as nulls, not empty strings")
	assert.WithinDuration(t, record.CreatedAt, got.CreatedAt, time.Microsecond)
}

func TestLoginRepository_FindSince(t *testing.T) {
	factory, testDB, cleanup := testutils.SetupTestRepositoryFactory(t)
	defer cleanup()

	repo := factory.NewLoginRepository()
	now := time.Now().UTC()

	testutils.InsertLoginAt(t, testDB, "oldest", "GUEST", now.Add(-3*time.Hour))
	testutils.InsertLoginAt(t, testDB, "middle", "GUEST", now.Add(-2*time.Hour))
	testutils.InsertLoginAt(t, testDB, "newest", "GUEST", now.Add(-1*time.Hour))
	testutils.InsertLoginAt(t, testDB, "other-net", "CORP", now.Add(-30*time.Minute))

	t.Run("NewestFirst", func(t *testing.T) {
		records, err := repo.FindSince(context.Background(), now.Add(-4*time.Hour), "GUEST")
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "newest", *records[0].Name)
		assert.Equal(t, "middle", *records[1].Name)
		assert.Equal(t, "oldest", *records[2].Name)
	})

	t.Run("CutoffExcludesOlder", func(t *testing.T) {
		records, err := repo.FindSince(context.Background(), now.Add(-150*time.Minute), "GUEST")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "newest", *records[0].Name)
		assert.Equal(t, "middle", *records[1].Name)
	})

	t.Run("SSIDFilterIsExact", func(t *testing.T) {
		records, err := repo.FindSince(context.Background(), now.Add(-4*time.Hour), "CORP")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "other-net", *records[0].Name)
	})

	t.Run("EmptySSIDMatchesAll", func(t *testing.T) {
		records, err := repo.FindSince(context.Background(), now.Add(-4*time.Hour), "")
		require.NoError(t, err)
		assert.Len(t, records, 4)
	})

	t.Run("EqualTimestampsBreakTiesByID", func(t *testing.T) {
		tied := now.Add(-10 * time.Minute)
		testutils.InsertLoginAt(t, testDB, "tie-first", "TIE", tied)
		testutils.InsertLoginAt(t, testDB, "tie-second", "TIE", tied)

		records, err := repo.FindSince(context.Background(), now.Add(-time.Hour), "TIE")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "tie-second", *records[0].Name, "later insert wins the tie")
		assert.Greater(t, records[0].ID, records[1].ID)
	})
}

func TestLoginRepository_DeleteOlderThan(t *testing.T) {
	factory, testDB, cleanup := testutils.SetupTestRepositoryFactory(t)
	defer cleanup()

	repo := factory.NewLoginRepository()
	now := time.Now().UTC()

	testutils.InsertLoginAt(t, testDB, "expired-1", "GUEST", now.Add(-16*24*time.Hour))
	testutils.InsertLoginAt(t, testDB, "expired-2", "GUEST", now.Add(-20*24*time.Hour))
	testutils.InsertLoginAt(t, testDB, "kept", "GUEST", now.Add(-14*24*time.Hour))

	deleted, err := repo.DeleteOlderThan(context.Background(), now.Add(-15*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	records, err := repo.FindSince(context.Background(), now.Add(-30*24*time.Hour), "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "kept", *records[0].Name)

	deleted, err = repo.DeleteOlderThan(context.Background(), now.Add(-15*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted, "a repeated sweep finds nothing to remove")
}

func TestDBManager_SerializesWrites(t *testing.T) {
	factory, _, cleanup := testutils.SetupTestRepositoryFactory(t)
	defer cleanup()

	repo := factory.NewLoginRepository()
	manager := db.NewDBManager()
	defer manager.Stop()

	done := make(chan int64, 10)
	for i := 0; i < 10; i++ {
		go func() {
			record := testutils.CreateTestLoginRecord("Guest", "guest@co.com", "GUEST", "")
			created, err := manager.CreateLogin(repo, context.Background(), record)
			if !assert.NoError(t, err) {
				done <- 0
				return
			}
			done <- created.ID
		}()
	}

	seen := make(map[int64]bool)
	for i := 0; i < 10; i++ {
		id := <-done
		assert.False(t, seen[id], "concurrent writes must not share an id")
		seen[id] = true
	}

	records, err := repo.FindSince(context.Background(), time.Now().UTC().Add(-time.Minute), "")
	require.NoError(t, err)
	assert.Len(t, records, 10)
}
