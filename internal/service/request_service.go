package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sharely/internal/database"
	"sharely/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	db     *database.DB
	logger *zerolog.Logger
}

func NewRequestService(db *database.DB, logger *zerolog.Logger) *RequestService {
	return &RequestService{db: db, logger: logger}
}

func (s *RequestService) CreateRequest(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error) {
	exists, err := s.db.UserExists(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, requesterID)
	}

	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}

	request := &models.ItemRequest{
		Description: description,
		RequesterID: requesterID,
	}
	if err := s.db.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	request, err := s.db.GetRequest(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: request %d", ErrNotFound, id)
	}
	return request, err
}

func (s *RequestService) GetAllRequests(ctx context.Context) ([]models.ItemRequest, error) {
	return s.db.GetAllRequests(ctx)
}

func (s *RequestService) DeleteRequest(ctx context.Context, id int64) error {
	err := s.db.DeleteRequest(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: request %d", ErrNotFound, id)
	}
	return err
}
