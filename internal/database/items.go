package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sharely/internal/models"
)

const itemColumns = `id, name, description, available, owner_id, request_id, created_at, updated_at`

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, description, available, owner_id, request_id, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.Name, item.Description, item.Available, item.OwnerID, item.RequestID, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

// UpdateItem applies a partial update in one transaction. The owner and
// the originating request are immutable and never touched.
func (db *DB) UpdateItem(ctx context.Context, id int64, patch models.ItemPatch) (*models.Item, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	item, err := scanItem(tx.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	now := time.Now()
	if _, err := tx.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ?, available = ?, updated_at = ? WHERE id = ?`,
		item.Name, item.Description, item.Available, now, id,
	); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	item.UpdatedAt = now

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return item, nil
}

func (db *DB) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	return scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
}

// ItemsByOwner returns the owner's items ordered by id.
func (db *DB) ItemsByOwner(ctx context.Context, ownerID int64) ([]models.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE owner_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items by owner: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// likeEscaper neutralizes LIKE metacharacters so the search text is
// matched literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchItems matches text against name and description,
// case-insensitively, returning available items only.
func (db *DB) SearchItems(ctx context.Context, text string) ([]models.Item, error) {
	pattern := "%" + likeEscaper.Replace(text) + "%"
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
         WHERE available = 1 AND (name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')
         ORDER BY id`,
		pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	var requestID sql.NullInt64
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Available,
		&item.OwnerID, &requestID, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if requestID.Valid {
		item.RequestID = &requestID.Int64
	}
	return &item, nil
}

func collectItems(rows *sql.Rows) ([]models.Item, error) {
	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		var requestID sql.NullInt64
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Available,
			&item.OwnerID, &requestID, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if requestID.Valid {
			item.RequestID = &requestID.Int64
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
