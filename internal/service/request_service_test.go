package service

import (
	"context"
	"testing"

	"sharely/internal/database"
	"sharely/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestService(t *testing.T) (*database.DB, *RequestService) {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, NewRequestService(db, &logger)
}

func TestRequestService(t *testing.T) {
	db, svc := newRequestService(t)
	ctx := context.Background()

	requester := &models.User{Name: "Requester", Email: "req@example.com"}
	require.NoError(t, db.CreateUser(ctx, requester))

	_, err := svc.CreateRequest(ctx, 999, "Need a drill")
	assert.ErrorIs(t, err, ErrNotFound, "unknown requester")

	_, err = svc.CreateRequest(ctx, requester.ID, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput, "blank description")

	request, err := svc.CreateRequest(ctx, requester.ID, "Need a drill")
	require.NoError(t, err)
	assert.NotZero(t, request.ID)
	assert.False(t, request.Created.IsZero())

	got, err := svc.GetRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, "Need a drill", got.Description)

	all, err := svc.GetAllRequests(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.DeleteRequest(ctx, request.ID))
	_, err = svc.GetRequest(ctx, request.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteRequest(ctx, request.ID), ErrNotFound)
}
