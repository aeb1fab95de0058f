package database

import (
	"context"
	"testing"

	"sharely/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	user := &models.User{Name: "Alice", Email: "alice@example.com"}
	require.NoError(t, db.CreateUser(ctx, user))
	require.NotZero(t, user.ID)

	got, err := db.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	seedUser(t, db, "Alice", "alice@example.com")

	err := db.CreateUser(ctx, &models.User{Name: "Impostor", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUpdateUser_PartialPatch(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	user := seedUser(t, db, "Alice", "alice@example.com")

	updated, err := db.UpdateUser(ctx, user.ID, models.UserPatch{Name: strPtr("Alicia")})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, "alice@example.com", updated.Email, "untouched field survives")

	updated, err = db.UpdateUser(ctx, user.ID, models.UserPatch{Email: strPtr("alicia@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, "alicia@example.com", updated.Email)
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	user := seedUser(t, db, "Alice", "alice@example.com")
	seedUser(t, db, "Bob", "bob@example.com")

	_, err := db.UpdateUser(ctx, user.ID, models.UserPatch{Email: strPtr("bob@example.com")})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// Re-submitting one's own email is not a conflict.
	updated, err := db.UpdateUser(ctx, user.ID, models.UserPatch{Email: strPtr("alice@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", updated.Email)
}

func TestUpdateUser_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.UpdateUser(context.Background(), 999, models.UserPatch{Name: strPtr("Ghost")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	user := seedUser(t, db, "Alice", "alice@example.com")

	require.NoError(t, db.DeleteUser(ctx, user.ID))
	_, err := db.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.DeleteUser(ctx, user.ID), ErrNotFound)
}

func TestUserExists(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	user := seedUser(t, db, "Alice", "alice@example.com")

	exists, err := db.UserExists(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.UserExists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetAllUsers(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	users, err := db.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users, "empty directory is an empty list, not nil")
	assert.Empty(t, users)

	seedUser(t, db, "Alice", "alice@example.com")
	seedUser(t, db, "Bob", "bob@example.com")

	users, err = db.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Bob", users[1].Name)
}
