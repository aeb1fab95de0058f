package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sharely/internal/models"
)

// CreateComment persists a comment. The author's completed approved
// booking is re-checked inside the same transaction as the insert, as of
// the comment's creation time.
func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.Created.IsZero() {
		comment.Created = time.Now().UTC()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM bookings WHERE booker_id = ? AND item_id = ? AND status = ? AND end_at < ? LIMIT 1`,
		comment.AuthorID, comment.ItemID, models.StatusApproved, formatTime(comment.Created)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("user %d item %d: %w", comment.AuthorID, comment.ItemID, ErrNoEligibleBooking)
	}
	if err != nil {
		return fmt.Errorf("failed to check comment eligibility: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO comments (item_id, author_id, author_name, text, created)
         VALUES (?, ?, ?, ?, ?)`,
		comment.ItemID, comment.AuthorID, comment.AuthorName, comment.Text,
		formatTime(comment.Created),
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	comment.ID = id
	return nil
}

// CommentsByItem returns the item's comments in the order they were
// written.
func (db *DB) CommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, item_id, author_id, author_name, text, created
         FROM comments WHERE item_id = ? ORDER BY created, id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		var createdStr string
		if err := rows.Scan(&comment.ID, &comment.ItemID, &comment.AuthorID,
			&comment.AuthorName, &comment.Text, &createdStr); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if comment.Created, err = parseTime(createdStr); err != nil {
			return nil, fmt.Errorf("failed to parse comment created %q: %w", createdStr, err)
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
