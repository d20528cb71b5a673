package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pietervz/ipfire-tray/internal/domain"
	"github.com/pietervz/ipfire-tray/internal/logger"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewSqliteDB(filepath.Join(t.TempDir(), "test.db"), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.GetUserByEmail(ctx, "admin@example.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	user := &domain.User{Email: "admin@example.com", Password: "hashed"}
	require.NoError(t, repo.CreateUser(ctx, user))
	require.NotZero(t, user.ID)

	got, err := repo.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, "hashed", got.Password)

	require.NoError(t, repo.UpdateUserPassword(ctx, user.ID, "rehashed"))

	got, err = repo.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.Equal(t, "rehashed", got.Password)
}

func TestUserRepositoryUpdateMissingUser(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	err := repo.UpdateUserPassword(context.Background(), 42, "hash")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestThroughputRepositoryInsertAndHistory(t *testing.T) {
	repo := NewThroughputRepository(newTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	samples := []domain.ThroughputSample{
		{DownKBs: 1000, UpKBs: 200, TotalDownKB: 3000, TotalUpKB: 900, RecordedAt: now.Add(-2 * time.Minute)},
		{DownKBs: 500, UpKBs: 100, TotalDownKB: 4000, TotalUpKB: 1100, RecordedAt: now.Add(-time.Minute)},
		{DownKBs: 250, UpKBs: 50, TotalDownKB: 4500, TotalUpKB: 1200, RecordedAt: now},
	}
	require.NoError(t, repo.InsertSamples(ctx, samples))

	got, err := repo.History(ctx, now.Add(-90*time.Second))
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 500.0, got[0].DownKBs)
	require.Equal(t, 250.0, got[1].DownKBs)
	require.True(t, got[0].RecordedAt.Before(got[1].RecordedAt))
}

func TestThroughputRepositoryInsertEmptyBatch(t *testing.T) {
	repo := NewThroughputRepository(newTestDB(t))
	require.NoError(t, repo.InsertSamples(context.Background(), nil))
}

func TestThroughputRepositoryCleanup(t *testing.T) {
	repo := NewThroughputRepository(newTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.InsertSamples(ctx, []domain.ThroughputSample{
		{RecordedAt: now.Add(-48 * time.Hour)},
		{RecordedAt: now.Add(-25 * time.Hour)},
		{RecordedAt: now.Add(-time.Hour)},
	}))

	deleted, err := repo.Cleanup(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)

	remaining, err := repo.History(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
}
