package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sharely/internal/models"
)

const bookingColumns = `b.id, b.item_id, b.item_name, b.booker_id, b.booker_name,
       b.start_at, b.end_at, b.status, b.created_at, b.updated_at`

// CreateBooking persists a booking. The item's availability is re-read
// inside the same transaction as the insert, so a concurrent item update
// cannot slip an unavailable item past the caller's validation.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var available bool
	err = tx.QueryRowContext(ctx,
		`SELECT available FROM items WHERE id = ?`, booking.ItemID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("item %d: %w", booking.ItemID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check item availability: %w", err)
	}
	if !available {
		return fmt.Errorf("item %d: %w", booking.ItemID, ErrItemUnavailable)
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (item_id, item_name, booker_id, booker_name, start_at, end_at, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.ItemID, booking.ItemName, booking.BookerID, booking.BookerName,
		formatTime(booking.Start), formatTime(booking.End), booking.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := scanBooking(db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings AS b WHERE b.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	return booking, err
}

// DecideBooking flips a WAITING booking to the given status. The flip is
// a single compare-and-set so two concurrent decisions cannot both
// succeed: the second observes zero affected rows and fails.
func (db *DB) DecideBooking(ctx context.Context, id int64, status models.Status) (*models.Booking, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		status, time.Now(), id, models.StatusWaiting,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE id = ?`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check booking: %w", err)
		}
		return nil, fmt.Errorf("booking %d: %w", id, ErrAlreadyDecided)
	}

	booking, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings AS b WHERE b.id = ?`, id))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return booking, nil
}

// ListByBooker returns bookings where the subject is the booker, filtered
// by state relative to now, ordered by start descending, paginated after
// ordering.
func (db *DB) ListByBooker(ctx context.Context, bookerID int64, state models.State, now time.Time, limit, offset int) ([]models.Booking, error) {
	where, args := stateFilter(state, now)
	query := `SELECT ` + bookingColumns + ` FROM bookings AS b WHERE b.booker_id = ?` + where +
		` ORDER BY b.start_at DESC, b.id DESC LIMIT ? OFFSET ?`
	args = append([]any{bookerID}, args...)
	args = append(args, limit, offset)
	return db.queryBookings(ctx, query, args...)
}

// ListByOwner returns bookings on items owned by the subject, with the
// same filtering and ordering as ListByBooker.
func (db *DB) ListByOwner(ctx context.Context, ownerID int64, state models.State, now time.Time, limit, offset int) ([]models.Booking, error) {
	where, args := stateFilter(state, now)
	query := `SELECT ` + bookingColumns + ` FROM bookings AS b
        JOIN items AS i ON i.id = b.item_id WHERE i.owner_id = ?` + where +
		` ORDER BY b.start_at DESC, b.id DESC LIMIT ? OFFSET ?`
	args = append([]any{ownerID}, args...)
	args = append(args, limit, offset)
	return db.queryBookings(ctx, query, args...)
}

// stateFilter builds the extra WHERE conditions for a state. The switch
// is exhaustive over the closed state set; callers validate the state
// before reaching the SQL layer.
func stateFilter(state models.State, now time.Time) (string, []any) {
	nowStr := formatTime(now)
	switch state {
	case models.StateAll:
		return "", nil
	case models.StateCurrent:
		return ` AND b.start_at <= ? AND b.end_at >= ?`, []any{nowStr, nowStr}
	case models.StateFuture:
		return ` AND b.start_at > ?`, []any{nowStr}
	case models.StatePast:
		return ` AND b.end_at < ?`, []any{nowStr}
	case models.StateWaiting:
		return ` AND b.status = ?`, []any{models.StatusWaiting}
	case models.StateRejected:
		return ` AND b.status = ?`, []any{models.StatusRejected}
	}
	// Unreachable for parsed states; match nothing rather than everything.
	return ` AND 1 = 0`, nil
}

// CompletedApprovedBooking returns the most recently finished APPROVED
// booking by the user on the item, or nil when none exists. Backs the
// comment eligibility check.
func (db *DB) CompletedApprovedBooking(ctx context.Context, userID, itemID int64, asOf time.Time) (*models.Booking, error) {
	booking, err := scanBooking(db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings AS b
         WHERE b.booker_id = ? AND b.item_id = ? AND b.status = ? AND b.end_at < ?
         ORDER BY b.end_at DESC LIMIT 1`,
		userID, itemID, models.StatusApproved, formatTime(asOf)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return booking, err
}

// LastBookingForItem returns the booking on the item with the greatest
// end before now, any status, or nil when none exists.
func (db *DB) LastBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	booking, err := scanBooking(db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings AS b
         WHERE b.item_id = ? AND b.end_at < ?
         ORDER BY b.end_at DESC LIMIT 1`,
		itemID, formatTime(now)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return booking, err
}

// NextBookingForItem returns the booking on the item with the smallest
// start after now, any status, or nil when none exists.
func (db *DB) NextBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	booking, err := scanBooking(db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings AS b
         WHERE b.item_id = ? AND b.start_at > ?
         ORDER BY b.start_at ASC LIMIT 1`,
		itemID, formatTime(now)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return booking, err
}

// BookingsBetween returns bookings whose window intersects [from, to],
// ordered by start ascending. Used by the export endpoint.
func (db *DB) BookingsBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		`SELECT `+bookingColumns+` FROM bookings AS b
         WHERE b.start_at <= ? AND b.end_at >= ?
         ORDER BY b.start_at ASC`,
		formatTime(to), formatTime(from))
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var booking models.Booking
	var startStr, endStr string
	err := row.Scan(&booking.ID, &booking.ItemID, &booking.ItemName,
		&booking.BookerID, &booking.BookerName, &startStr, &endStr,
		&booking.Status, &booking.CreatedAt, &booking.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	if booking.Start, err = parseTime(startStr); err != nil {
		return nil, fmt.Errorf("failed to parse booking start %q: %w", startStr, err)
	}
	if booking.End, err = parseTime(endStr); err != nil {
		return nil, fmt.Errorf("failed to parse booking end %q: %w", endStr, err)
	}
	return &booking, nil
}
