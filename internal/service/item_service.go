package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sharely/internal/database"
	"sharely/internal/domain"
	"sharely/internal/events"
	"sharely/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	db       *database.DB
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewItemService(db *database.DB, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{db: db, eventBus: eventBus, logger: logger}
}

func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	exists, err := s.db.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, ownerID)
	}

	if strings.TrimSpace(item.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(item.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}

	if item.RequestID != nil {
		if _, err := s.db.GetRequest(ctx, *item.RequestID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, fmt.Errorf("%w: request %d", ErrNotFound, *item.RequestID)
			}
			return nil, err
		}
	}

	item.OwnerID = ownerID
	if err := s.db.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return item, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.db.GetItem(ctx, itemID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: item %d does not belong to user %d", ErrNotFound, itemID, ownerID)
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be blank", ErrInvalidInput)
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return nil, fmt.Errorf("%w: description must not be blank", ErrInvalidInput)
	}

	updated, err := s.db.UpdateItem(ctx, itemID, patch)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}
	return updated, err
}

// GetItem returns the item view for the given viewer. The last and
// next booking annotations are attached only when the viewer owns the
// item.
func (s *ItemService) GetItem(ctx context.Context, viewerID, itemID int64) (*models.ItemView, error) {
	item, err := s.db.GetItem(ctx, itemID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, item, viewerID)
}

// ListByOwner returns the owner's items with booking annotations,
// ordered by id.
func (s *ItemService) ListByOwner(ctx context.Context, ownerID int64) ([]models.ItemView, error) {
	items, err := s.db.ItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]models.ItemView, 0, len(items))
	for i := range items {
		view, err := s.buildView(ctx, &items[i], ownerID)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// Search finds available items whose name or description contains the
// given text. A blank query matches nothing.
func (s *ItemService) Search(ctx context.Context, text string) ([]models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []models.Item{}, nil
	}
	return s.db.SearchItems(ctx, text)
}

// AddComment records a review by a user who has completed an approved
// booking of the item. Eligibility is checked before the item and author
// lookups, so an ineligible caller gets the same answer whether or not
// the item exists.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrInvalidInput)
	}

	completed, err := s.db.CompletedApprovedBooking(ctx, authorID, itemID, time.Now())
	if err != nil {
		return nil, err
	}
	if completed == nil {
		return nil, fmt.Errorf("%w: user %d has no completed booking of item %d", ErrInvalidInput, authorID, itemID)
	}

	item, err := s.db.GetItem(ctx, itemID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}
	if err != nil {
		return nil, err
	}

	author, err := s.db.GetUser(ctx, authorID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, authorID)
	}
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     item.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
	}
	if err := s.db.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, database.ErrNoEligibleBooking) {
			return nil, fmt.Errorf("%w: user %d has no completed booking of item %d", ErrInvalidInput, authorID, itemID)
		}
		return nil, err
	}

	s.publishCommentEvent(comment)
	return comment, nil
}

func (s *ItemService) buildView(ctx context.Context, item *models.Item, viewerID int64) (*models.ItemView, error) {
	var last, next *models.Booking
	if viewerID == item.OwnerID {
		now := time.Now()
		var err error
		last, err = s.db.LastBookingForItem(ctx, item.ID, now)
		if err != nil {
			return nil, err
		}
		next, err = s.db.NextBookingForItem(ctx, item.ID, now)
		if err != nil {
			return nil, err
		}
	}

	comments, err := s.db.CommentsByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	return projectItem(item, last, next, comments, viewerID), nil
}

func (s *ItemService) publishCommentEvent(comment *models.Comment) {
	if s.eventBus == nil {
		return
	}

	payload := events.CommentPayload{
		CommentID: comment.ID,
		ItemID:    comment.ItemID,
		AuthorID:  comment.AuthorID,
	}
	if err := s.eventBus.PublishJSON(events.EventCommentAdded, payload); err != nil {
		s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
	}
}
