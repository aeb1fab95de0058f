package database

import (
	"context"
	"testing"

	"sharely/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLifecycle(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	requester := seedUser(t, db, "Requester", "requester@example.com")

	none, err := db.GetAllRequests(ctx)
	require.NoError(t, err)
	assert.NotNil(t, none, "empty board is an empty list, not nil")
	assert.Empty(t, none)

	request := &models.ItemRequest{Description: "Need a ladder", RequesterID: requester.ID}
	require.NoError(t, db.CreateRequest(ctx, request))
	require.NotZero(t, request.ID)
	assert.False(t, request.Created.IsZero())

	got, err := db.GetRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, "Need a ladder", got.Description)
	assert.Equal(t, requester.ID, got.RequesterID)

	second := &models.ItemRequest{Description: "Need a saw", RequesterID: requester.ID}
	require.NoError(t, db.CreateRequest(ctx, second))

	all, err := db.GetAllRequests(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, request.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	require.NoError(t, db.DeleteRequest(ctx, request.ID))
	_, err = db.GetRequest(ctx, request.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeleteRequest(ctx, request.ID), ErrNotFound)
}
