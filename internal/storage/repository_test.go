package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tg-gatekeeper/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestUserUpsertKeepsFirstSeen(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	require.NoError(t, repo.MigrateTable())

	t0 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(48 * time.Hour)

	require.NoError(t, repo.Upsert(&models.User{
		ID: 42, FirstName: "Ada", Username: "ada", FirstSeen: t0, LastSeen: t0,
	}))
	require.NoError(t, repo.Upsert(&models.User{
		ID: 42, FirstName: "Ada L", Username: "ada", FirstSeen: t1, LastSeen: t1,
	}))

	var got models.User
	require.NoError(t, db.First(&got, 42).Error)

	require.Equal(t, "Ada L", got.FirstName)
	require.WithinDuration(t, t0, got.FirstSeen, time.Second, "first-seen must not move on re-upsert")
	require.WithinDuration(t, t1, got.LastSeen, time.Second)

	count, err := repo.Count()
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestUserListRecentOrderAndLimit(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	require.NoError(t, repo.MigrateTable())

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		require.NoError(t, repo.Upsert(&models.User{
			ID:        int64(i + 1),
			FirstName: fmt.Sprintf("user%d", i),
			FirstSeen: base,
			LastSeen:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	users, err := repo.ListRecent(20)
	require.NoError(t, err)
	require.Len(t, users, 20)
	require.EqualValues(t, 25, users[0].ID, "most recently active user comes first")
	for i := 1; i < len(users); i++ {
		require.False(t, users[i].LastSeen.After(users[i-1].LastSeen))
	}

	ids, err := repo.AllIDs()
	require.NoError(t, err)
	require.Len(t, ids, 25)
}

func TestChatUpsertKeepsAddedAt(t *testing.T) {
	db := openTestDB(t)
	repo := NewChatRepository(db)
	require.NoError(t, repo.MigrateTable())

	t0 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	require.NoError(t, repo.Upsert(&models.Chat{
		ID: -100123, Title: "My Group", Kind: models.ChatKindGroup, AdderID: 7, AddedAt: t0, LastActive: t0,
	}))
	require.NoError(t, repo.Upsert(&models.Chat{
		ID: -100123, Title: "My Group Renamed", Kind: models.ChatKindGroup, AdderID: 7, AddedAt: t1, LastActive: t1,
	}))

	var got models.Chat
	require.NoError(t, db.First(&got, "id = ?", int64(-100123)).Error)
	require.Equal(t, "My Group Renamed", got.Title)
	require.WithinDuration(t, t0, got.AddedAt, time.Second)
	require.WithinDuration(t, t1, got.LastActive, time.Second)
}

func TestChatTouchUpdatesLastActive(t *testing.T) {
	db := openTestDB(t)
	repo := NewChatRepository(db)
	require.NoError(t, repo.MigrateTable())

	t0 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(&models.Chat{
		ID: -5, Title: "c", Kind: models.ChatKindChannel, AddedAt: t0, LastActive: t0,
	}))

	t1 := t0.Add(30 * time.Minute)
	require.NoError(t, repo.Touch(-5, t1))

	var got models.Chat
	require.NoError(t, db.First(&got, "id = ?", int64(-5)).Error)
	require.WithinDuration(t, t1, got.LastActive, time.Second)

	// touching an untracked chat is a no-op, not an error
	require.NoError(t, repo.Touch(-6, t1))
}

func TestPendingTakeAllIsExactlyOnce(t *testing.T) {
	db := openTestDB(t)
	repo := NewPendingRepository(db)
	require.NoError(t, repo.MigrateTable())

	require.NoError(t, repo.Append(42, "first"))
	require.NoError(t, repo.Append(42, "second"))
	require.NoError(t, repo.Append(99, "other user"))

	msgs, err := repo.TakeAll(42)
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second"}, msgs, "messages replay in append order")

	again, err := repo.TakeAll(42)
	require.NoError(t, err)
	require.Empty(t, again, "second fetch right after the first must be empty")

	other, err := repo.TakeAll(99)
	require.NoError(t, err)
	require.Equal(t, []string{"other user"}, other, "other users' queues are untouched")
}

func TestPendingTakeAllKeepsRowsAppendedDuringClear(t *testing.T) {
	db := openTestDB(t)
	repo := NewPendingRepository(db)
	require.NoError(t, repo.MigrateTable())

	require.NoError(t, repo.Append(42, "first"))

	// Commit a new row for the same user after TakeAll's select but before
	// its delete, the way a chat-join handler racing the replay would.
	injected := false
	err := db.Callback().Delete().Before("gorm:delete").Register("append_mid_clear", func(tx *gorm.DB) {
		if injected {
			return
		}
		injected = true
		tx.Session(&gorm.Session{NewDB: true}).Create(&models.PendingNotification{UserID: 42, Message: "late"})
	})
	require.NoError(t, err)

	msgs, err := repo.TakeAll(42)
	require.NoError(t, err)
	require.Equal(t, []string{"first"}, msgs)

	late, err := repo.TakeAll(42)
	require.NoError(t, err)
	require.Equal(t, []string{"late"}, late, "a message appended while clearing must survive for the next fetch")
}
