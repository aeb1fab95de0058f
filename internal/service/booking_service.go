package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sharely/internal/database"
	"sharely/internal/domain"
	"sharely/internal/events"
	"sharely/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	db              *database.DB
	eventBus        domain.EventPublisher
	defaultPageSize int
	maxPageSize     int
	logger          *zerolog.Logger
}

func NewBookingService(db *database.DB, eventBus domain.EventPublisher, defaultPageSize, maxPageSize int, logger *zerolog.Logger) *BookingService {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &BookingService{
		db:              db,
		eventBus:        eventBus,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		logger:          logger,
	}
}

func validateBookingPeriod(start, end time.Time, now time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	if start.Before(now) {
		return fmt.Errorf("%w: start must not be in the past", ErrInvalidInput)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}
	return nil
}

// CreateBooking registers a WAITING booking on behalf of the requester.
// The checks run in a fixed order so a request that fails several of
// them reports a stable error.
func (s *BookingService) CreateBooking(ctx context.Context, requesterID, itemID int64, start, end time.Time) (*models.Booking, error) {
	requester, err := s.db.GetUser(ctx, requesterID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, requesterID)
	}
	if err != nil {
		return nil, err
	}

	if itemID <= 0 {
		return nil, fmt.Errorf("%w: item id is required", ErrInvalidInput)
	}

	item, err := s.db.GetItem(ctx, itemID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}
	if err != nil {
		return nil, err
	}

	if item.OwnerID == requesterID {
		return nil, fmt.Errorf("%w: owner cannot book own item", ErrBookingConflict)
	}

	if !item.Available {
		return nil, fmt.Errorf("%w: item %d is not available", ErrInvalidInput, itemID)
	}

	if err := validateBookingPeriod(start, end, time.Now()); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		Start:      start,
		End:        end,
		ItemID:     item.ID,
		ItemName:   item.Name,
		BookerID:   requester.ID,
		BookerName: requester.Name,
		Status:     models.StatusWaiting,
	}
	// The store re-validates the item inside the insert transaction; a
	// concurrent availability flip surfaces here, not as a stale write.
	if err := s.db.CreateBooking(ctx, booking); err != nil {
		switch {
		case errors.Is(err, database.ErrItemUnavailable):
			return nil, fmt.Errorf("%w: item %d is not available", ErrInvalidInput, itemID)
		case errors.Is(err, database.ErrNotFound):
			return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
		}
		return nil, err
	}

	s.publishEvent(events.EventBookingCreated, booking)
	return booking, nil
}

// DecideBooking approves or rejects a WAITING booking. Only the owner
// of the booked item may decide, and a booking is decided exactly once.
func (s *BookingService) DecideBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error) {
	if err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	booking, err := s.db.GetBooking(ctx, bookingID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
	}
	if err != nil {
		return nil, err
	}

	item, err := s.db.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: only the owner may decide booking %d", ErrBookingConflict, bookingID)
	}

	status := models.StatusRejected
	if approved {
		status = models.StatusApproved
	}

	decided, err := s.db.DecideBooking(ctx, bookingID, status)
	if errors.Is(err, database.ErrAlreadyDecided) {
		return nil, fmt.Errorf("%w: booking %d is already decided", ErrInvalidInput, bookingID)
	}
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
	}
	if err != nil {
		return nil, err
	}

	eventType := events.EventBookingRejected
	if approved {
		eventType = events.EventBookingApproved
	}
	s.publishEvent(eventType, decided)

	return decided, nil
}

// GetBooking returns a booking to its booker or the item's owner.
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	booking, err := s.db.GetBooking(ctx, bookingID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
	}
	if err != nil {
		return nil, err
	}

	item, err := s.db.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if booking.BookerID != userID && item.OwnerID != userID {
		return nil, fmt.Errorf("%w: booking %d is not visible to user %d", ErrBookingConflict, bookingID, userID)
	}

	return booking, nil
}

// ListForBooker returns the user's own bookings filtered by state,
// newest start first.
func (s *BookingService) ListForBooker(ctx context.Context, userID int64, stateRaw string, from, size int) ([]models.Booking, error) {
	state, limit, offset, err := s.preparePage(ctx, userID, stateRaw, from, size)
	if err != nil {
		return nil, err
	}
	return s.db.ListByBooker(ctx, userID, state, time.Now(), limit, offset)
}

// ListForOwner returns bookings of all items the user owns, filtered by
// state, newest start first.
func (s *BookingService) ListForOwner(ctx context.Context, userID int64, stateRaw string, from, size int) ([]models.Booking, error) {
	state, limit, offset, err := s.preparePage(ctx, userID, stateRaw, from, size)
	if err != nil {
		return nil, err
	}
	return s.db.ListByOwner(ctx, userID, state, time.Now(), limit, offset)
}

// BookingsBetween returns all bookings whose period intersects the
// given range, used by the export endpoint.
func (s *BookingService) BookingsBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}
	return s.db.BookingsBetween(ctx, from, to)
}

func (s *BookingService) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.db.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return nil
}

func (s *BookingService) preparePage(ctx context.Context, userID int64, stateRaw string, from, size int) (models.State, int, int, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return "", 0, 0, err
	}

	if stateRaw == "" {
		stateRaw = string(models.StateAll)
	}
	state, err := models.ParseState(stateRaw)
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	if from < 0 {
		return "", 0, 0, fmt.Errorf("%w: from must not be negative", ErrInvalidInput)
	}
	if size <= 0 {
		return "", 0, 0, fmt.Errorf("%w: size must be positive", ErrInvalidInput)
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}

	return state, size, from, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		ItemName:  booking.ItemName,
		BookerID:  booking.BookerID,
		Start:     booking.Start,
		End:       booking.End,
		Status:    booking.Status,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
