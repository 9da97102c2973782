package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_admin INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)

	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})
	return tx
}

func TestCreateAssignsID(t *testing.T) {
	tx := setupUsersTestDB(t)
	repo := NewRepository(tx)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Username:     "alice",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.True(t, created.IsActive)
	require.False(t, created.IsAdmin)
}

func TestFindByUsername(t *testing.T) {
	tx := setupUsersTestDB(t)
	repo := NewRepository(tx)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{Username: "bob", PasswordHash: "hash", IsAdmin: true})
	require.NoError(t, err)

	found, err := repo.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)
	require.True(t, found.IsAdmin)

	_, err = repo.FindByUsername(ctx, "nobody")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdatePasswordHash(t *testing.T) {
	tx := setupUsersTestDB(t)
	repo := NewRepository(tx)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{Username: "carol", PasswordHash: "old"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePasswordHash(ctx, created.ID, "new"))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "new", found.PasswordHash)
}
