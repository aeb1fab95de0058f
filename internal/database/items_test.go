package database

import (
	"context"
	"testing"

	"sharely/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestCreateAndGetItem(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", "owner@example.com")
	requester := seedUser(t, db, "Requester", "requester@example.com")

	request := &models.ItemRequest{Description: "Need a drill", RequesterID: requester.ID}
	require.NoError(t, db.CreateRequest(ctx, request))

	item := &models.Item{
		Name:        "Drill",
		Description: "Cordless drill",
		Available:   true,
		OwnerID:     owner.ID,
		RequestID:   &request.ID,
	}
	require.NoError(t, db.CreateItem(ctx, item))
	require.NotZero(t, item.ID)

	got, err := db.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drill", got.Name)
	assert.Equal(t, owner.ID, got.OwnerID)
	require.NotNil(t, got.RequestID)
	assert.Equal(t, request.ID, *got.RequestID)

	plain := seedItem(t, db, owner.ID, "Saw", true)
	got, err = db.GetItem(ctx, plain.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RequestID)
}

func TestGetItem_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetItem(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateItem_PartialPatch(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", "owner@example.com")
	item := seedItem(t, db, owner.ID, "Drill", true)

	updated, err := db.UpdateItem(ctx, item.ID, models.ItemPatch{Available: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Equal(t, "Drill", updated.Name, "untouched field survives")
	assert.Equal(t, owner.ID, updated.OwnerID, "owner never changes")

	updated, err = db.UpdateItem(ctx, item.ID, models.ItemPatch{
		Name:        strPtr("Hammer drill"),
		Description: strPtr("With SDS chuck"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hammer drill", updated.Name)
	assert.Equal(t, "With SDS chuck", updated.Description)
	assert.False(t, updated.Available)
}

func TestItemsByOwner(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", "owner@example.com")
	other := seedUser(t, db, "Other", "other@example.com")

	first := seedItem(t, db, owner.ID, "Drill", true)
	second := seedItem(t, db, owner.ID, "Saw", false)
	seedItem(t, db, other.ID, "Ladder", true)

	items, err := db.ItemsByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
}

func TestSearchItems(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", "owner@example.com")

	drill := &models.Item{Name: "Power Drill", Description: "Cordless", Available: true, OwnerID: owner.ID}
	require.NoError(t, db.CreateItem(ctx, drill))
	saw := &models.Item{Name: "Saw", Description: "Hand drill alternative", Available: true, OwnerID: owner.ID}
	require.NoError(t, db.CreateItem(ctx, saw))
	hidden := &models.Item{Name: "Old drill", Description: "Broken", Available: false, OwnerID: owner.ID}
	require.NoError(t, db.CreateItem(ctx, hidden))

	// Matches name or description, case-insensitively; unavailable items
	// never show up.
	found, err := db.SearchItems(ctx, "DRILL")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, drill.ID, found[0].ID)
	assert.Equal(t, saw.ID, found[1].ID)

	none, err := db.SearchItems(ctx, "excavator")
	require.NoError(t, err)
	assert.NotNil(t, none, "no match is an empty list, not nil")
	assert.Empty(t, none)
}

func TestSearchItems_LiteralWildcards(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", "owner@example.com")

	cotton := &models.Item{Name: "100% cotton rope", Description: "Soft", Available: true, OwnerID: owner.ID}
	require.NoError(t, db.CreateItem(ctx, cotton))
	plain := &models.Item{Name: "100m cable", Description: "Rubber", Available: true, OwnerID: owner.ID}
	require.NoError(t, db.CreateItem(ctx, plain))

	// % and _ in the query are matched literally, not as LIKE wildcards.
	found, err := db.SearchItems(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, cotton.ID, found[0].ID)

	found, err = db.SearchItems(ctx, "100_")
	require.NoError(t, err)
	assert.Empty(t, found)
}
