package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sharely/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	if request.Created.IsZero() {
		request.Created = time.Now().UTC()
	}
	result, err := db.ExecContext(ctx,
		`INSERT INTO requests (description, requester_id, created) VALUES (?, ?, ?)`,
		request.Description, request.RequesterID, formatTime(request.Created),
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	return nil
}

func (db *DB) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var request models.ItemRequest
	var createdStr string
	err := db.QueryRowContext(ctx,
		`SELECT id, description, requester_id, created FROM requests WHERE id = ?`, id).
		Scan(&request.ID, &request.Description, &request.RequesterID, &createdStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("request %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if request.Created, err = parseTime(createdStr); err != nil {
		return nil, fmt.Errorf("failed to parse request created %q: %w", createdStr, err)
	}
	return &request, nil
}

func (db *DB) GetAllRequests(ctx context.Context) ([]models.ItemRequest, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, description, requester_id, created FROM requests ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to get requests: %w", err)
	}
	defer rows.Close()

	requests := []models.ItemRequest{}
	for rows.Next() {
		var request models.ItemRequest
		var createdStr string
		if err := rows.Scan(&request.ID, &request.Description, &request.RequesterID, &createdStr); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		if request.Created, err = parseTime(createdStr); err != nil {
			return nil, fmt.Errorf("failed to parse request created %q: %w", createdStr, err)
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

func (db *DB) DeleteRequest(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("request %d: %w", id, ErrNotFound)
	}
	return nil
}
