package service

import (
	"context"
	"testing"
	"time"

	"sharely/internal/database"
	"sharely/internal/events"
	"sharely/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	db       *database.DB
	bus      *events.Bus
	service  *BookingService
	owner    *models.User
	booker   *models.User
	item     *models.Item
	received []string
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &bookingFixture{db: db, bus: events.NewBus()}
	for _, eventType := range []string{events.EventBookingCreated, events.EventBookingApproved, events.EventBookingRejected} {
		f.bus.Subscribe(eventType, func(event *events.Event) error {
			f.received = append(f.received, event.Type)
			return nil
		})
	}
	f.service = NewBookingService(db, f.bus, 10, 100, &logger)

	ctx := context.Background()
	f.owner = &models.User{Name: "Owner", Email: "owner@example.com"}
	require.NoError(t, db.CreateUser(ctx, f.owner))
	f.booker = &models.User{Name: "Booker", Email: "booker@example.com"}
	require.NoError(t, db.CreateUser(ctx, f.booker))
	f.item = &models.Item{Name: "Drill", Description: "Cordless drill", Available: true, OwnerID: f.owner.ID}
	require.NoError(t, db.CreateItem(ctx, f.item))

	return f
}

func (f *bookingFixture) createBooking(t *testing.T) *models.Booking {
	t.Helper()
	booking, err := f.service.CreateBooking(context.Background(), f.booker.ID, f.item.ID,
		time.Now().Add(24*time.Hour), time.Now().Add(72*time.Hour))
	require.NoError(t, err)
	return booking
}

func TestCreateBooking(t *testing.T) {
	f := newBookingFixture(t)

	booking := f.createBooking(t)
	assert.Equal(t, models.StatusWaiting, booking.Status)
	assert.Equal(t, "Drill", booking.ItemName)
	assert.Equal(t, "Booker", booking.BookerName)
	assert.Equal(t, []string{events.EventBookingCreated}, f.received)
}

func TestCreateBooking_Checks(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	start := time.Now().Add(24 * time.Hour)
	end := time.Now().Add(72 * time.Hour)

	_, err := f.service.CreateBooking(ctx, 999, f.item.ID, start, end)
	assert.ErrorIs(t, err, ErrNotFound, "unknown requester")

	_, err = f.service.CreateBooking(ctx, f.booker.ID, 0, start, end)
	assert.ErrorIs(t, err, ErrInvalidInput, "missing item id")

	_, err = f.service.CreateBooking(ctx, f.booker.ID, 999, start, end)
	assert.ErrorIs(t, err, ErrNotFound, "unknown item")

	_, err = f.service.CreateBooking(ctx, f.owner.ID, f.item.ID, start, end)
	assert.ErrorIs(t, err, ErrBookingConflict, "owner booking own item")

	unavailable := &models.Item{Name: "Saw", Description: "Dull", Available: false, OwnerID: f.owner.ID}
	require.NoError(t, f.db.CreateItem(ctx, unavailable))
	_, err = f.service.CreateBooking(ctx, f.booker.ID, unavailable.ID, start, end)
	assert.ErrorIs(t, err, ErrInvalidInput, "unavailable item")

	_, err = f.service.CreateBooking(ctx, f.booker.ID, f.item.ID, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ErrInvalidInput, "zero dates")

	_, err = f.service.CreateBooking(ctx, f.booker.ID, f.item.ID, time.Now().Add(-time.Hour), end)
	assert.ErrorIs(t, err, ErrInvalidInput, "start in the past")

	_, err = f.service.CreateBooking(ctx, f.booker.ID, f.item.ID, end, start)
	assert.ErrorIs(t, err, ErrInvalidInput, "end before start")

	_, err = f.service.CreateBooking(ctx, f.booker.ID, f.item.ID, start, start)
	assert.ErrorIs(t, err, ErrInvalidInput, "zero-length period")

	assert.Empty(t, f.received, "no events for failed bookings")
}

func TestDecideBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	booking := f.createBooking(t)

	_, err := f.service.DecideBooking(ctx, f.booker.ID, booking.ID, true)
	assert.ErrorIs(t, err, ErrBookingConflict, "only the owner decides")

	decided, err := f.service.DecideBooking(ctx, f.owner.ID, booking.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, decided.Status)

	_, err = f.service.DecideBooking(ctx, f.owner.ID, booking.ID, false)
	assert.ErrorIs(t, err, ErrInvalidInput, "already decided")

	_, err = f.service.DecideBooking(ctx, f.owner.ID, 999, true)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{events.EventBookingCreated, events.EventBookingApproved}, f.received)
}

func TestDecideBooking_Reject(t *testing.T) {
	f := newBookingFixture(t)
	booking := f.createBooking(t)

	decided, err := f.service.DecideBooking(context.Background(), f.owner.ID, booking.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, decided.Status)
	assert.Contains(t, f.received, events.EventBookingRejected)
}

func TestGetBooking_Visibility(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	booking := f.createBooking(t)

	got, err := f.service.GetBooking(ctx, f.booker.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	got, err = f.service.GetBooking(ctx, f.owner.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	stranger := &models.User{Name: "Stranger", Email: "stranger@example.com"}
	require.NoError(t, f.db.CreateUser(ctx, stranger))
	_, err = f.service.GetBooking(ctx, stranger.ID, booking.ID)
	assert.ErrorIs(t, err, ErrBookingConflict)

	_, err = f.service.GetBooking(ctx, f.booker.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListForBooker(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	f.createBooking(t)

	bookings, err := f.service.ListForBooker(ctx, f.booker.ID, "", 0, 10)
	require.NoError(t, err)
	assert.Len(t, bookings, 1, "empty state defaults to ALL")

	bookings, err = f.service.ListForBooker(ctx, f.booker.ID, "FUTURE", 0, 10)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)

	bookings, err = f.service.ListForBooker(ctx, f.booker.ID, "PAST", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	_, err = f.service.ListForBooker(ctx, 999, "ALL", 0, 10)
	assert.ErrorIs(t, err, ErrNotFound, "unknown user")

	_, err = f.service.ListForBooker(ctx, f.booker.ID, "BOGUS", 0, 10)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Unknown state: UNSUPPORTED_STATUS")

	_, err = f.service.ListForBooker(ctx, f.booker.ID, "ALL", -1, 10)
	assert.ErrorIs(t, err, ErrInvalidInput, "negative from")

	_, err = f.service.ListForBooker(ctx, f.booker.ID, "ALL", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidInput, "zero size")
}

func TestListForOwner(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	booking := f.createBooking(t)

	bookings, err := f.service.ListForOwner(ctx, f.owner.ID, "ALL", 0, 10)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, booking.ID, bookings[0].ID)

	bookings, err = f.service.ListForOwner(ctx, f.booker.ID, "ALL", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, bookings, "booker owns nothing")
}

func TestList_SizeClamp(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	logger := zerolog.Nop()
	clamped := NewBookingService(f.db, nil, 10, 2, &logger)

	for i := 0; i < 3; i++ {
		start := time.Now().Add(time.Duration(24*(i+1)) * time.Hour)
		_, err := clamped.CreateBooking(ctx, f.booker.ID, f.item.ID, start, start.Add(time.Hour))
		require.NoError(t, err)
	}

	bookings, err := clamped.ListForBooker(ctx, f.booker.ID, "ALL", 0, 50)
	require.NoError(t, err)
	assert.Len(t, bookings, 2, "size is clamped, not rejected")
}

func TestBookingsBetween_InvalidRange(t *testing.T) {
	f := newBookingFixture(t)

	now := time.Now()
	_, err := f.service.BookingsBetween(context.Background(), now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
