package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"sharely/internal/export"
	"sharely/internal/metrics"
	"sharely/internal/models"
)

type bookingLister func(ctx context.Context, userID int64, state string, from, size int) ([]models.Booking, error)

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	requesterID, err := identity(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body createBookingRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := s.bookings.CreateBooking(r.Context(), requesterID, body.ItemID, body.Start, body.End)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	metrics.IncBookingCreated()
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (s *Server) handleDecideBooking(w http.ResponseWriter, r *http.Request) {
	ownerID, err := identity(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookingID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "approved must be true or false")
		return
	}

	booking, err := s.bookings.DecideBooking(r.Context(), ownerID, bookingID, approved)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	metrics.IncBookingDecision(outcome)
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := identity(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookingID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := s.bookings.GetBooking(r.Context(), userID, bookingID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, s.bookings.ListForBooker)
}

func (s *Server) handleListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, s.bookings.ListForOwner)
}

func (s *Server) listBookings(w http.ResponseWriter, r *http.Request, list bookingLister) {
	userID, err := identity(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state := r.URL.Query().Get("state")
	from, err := queryInt(r, "from", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	size, err := queryInt(r, "size", s.cfg.DefaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := list(r.Context(), userID, state, from, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponses(bookings))
}

// handleExportBookings streams an xlsx workbook of bookings whose
// period intersects the requested date range.
func (s *Server) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	if _, err := identity(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	from, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date; expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date; expected YYYY-MM-DD")
		return
	}
	// Include the whole end day.
	to = to.AddDate(0, 0, 1)

	bookings, err := s.bookings.BookingsBetween(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	workbook, err := export.BookingsWorkbook(bookings, from, to.AddDate(0, 0, -1))
	if err != nil {
		s.logger.Error().Err(err).Msg("export workbook error")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer workbook.Close()

	fileName := "bookings_" + from.Format("2006-01-02") + "_" + to.AddDate(0, 0, -1).Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	if err := workbook.Write(w); err != nil {
		s.logger.Error().Err(err).Msg("export write error")
	}
}
