package api

import (
	"time"

	"sharely/internal/models"
)

type createBookingRequest struct {
	ItemID int64     `json:"itemId"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

type createCommentRequest struct {
	Text string `json:"text"`
}

type createRequestRequest struct {
	Description string `json:"description"`
}

type bookingItemRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type bookingUserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// bookingResponse is the external booking shape: the item and the
// booker are embedded as short references instead of bare ids.
type bookingResponse struct {
	ID     int64          `json:"id"`
	Start  time.Time      `json:"start"`
	End    time.Time      `json:"end"`
	Status models.Status  `json:"status"`
	Item   bookingItemRef `json:"item"`
	Booker bookingUserRef `json:"booker"`
}

func toBookingResponse(booking *models.Booking) bookingResponse {
	return bookingResponse{
		ID:     booking.ID,
		Start:  booking.Start,
		End:    booking.End,
		Status: booking.Status,
		Item:   bookingItemRef{ID: booking.ItemID, Name: booking.ItemName},
		Booker: bookingUserRef{ID: booking.BookerID, Name: booking.BookerName},
	}
}

func toBookingResponses(bookings []models.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	return out
}
