package service

import "sharely/internal/models"

func bookingRef(booking *models.Booking) *models.BookingRef {
	if booking == nil {
		return nil
	}
	return &models.BookingRef{
		ID:       booking.ID,
		BookerID: booking.BookerID,
		Start:    booking.Start,
		End:      booking.End,
	}
}

// projectItem assembles the external item view. Booking annotations are
// attached only when the viewer owns the item; comments are always
// included, never nil.
func projectItem(item *models.Item, last, next *models.Booking, comments []models.Comment, viewerID int64) *models.ItemView {
	view := &models.ItemView{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		RequestID:   item.RequestID,
		Comments:    make([]models.CommentView, 0, len(comments)),
	}

	if viewerID == item.OwnerID {
		view.LastBooking = bookingRef(last)
		view.NextBooking = bookingRef(next)
	}

	for _, comment := range comments {
		view.Comments = append(view.Comments, comment.View())
	}

	return view
}
