package handlers

import (
	"net/http"
	"strconv"
	"time"

	"backend/internal/domain/models"
	"backend/internal/http/middleware"
	"backend/internal/services"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	Store services.ReservationStore
}

func (h BookingHandler) reservations(c *gin.Context) services.ReservationService {
	return services.ReservationService{
		Store:     h.Store,
		RequestID: middleware.GetRequestID(c),
	}
}

type bookingRequest struct {
	SeatID int64 `json:"seat_id"`
}

// bookingResponse renders bus and user as human-readable references and
// embeds the seat detail.
type bookingResponse struct {
	ID          int64       `json:"id"`
	Bus         string      `json:"bus"`
	User        string      `json:"user"`
	Seat        models.Seat `json:"seat"`
	BookingTime time.Time   `json:"booking_time"`
}

func toBookingResponse(bk models.Booking) bookingResponse {
	return bookingResponse{
		ID:   bk.ID,
		Bus:  bk.BusLabel(),
		User: bk.Username,
		Seat: models.Seat{
			ID:         bk.SeatID,
			SeatNumber: bk.SeatNumber,
			IsBooked:   true,
		},
		BookingTime: bk.BookingTime,
	}
}

// POST /booking
func (h BookingHandler) Create(c *gin.Context) {
	var req bookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	userID := middleware.GetUserID(c)
	booking, err := h.reservations(c).Reserve(c.Request.Context(), userID, req.SeatID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	// The reservation commit does not read back the username; fill it from
	// the authenticated identity.
	booking.Username = middleware.GetUsername(c)
	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

// GET /user/:user_id/bookings
func (h BookingHandler) ListForUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid user id")
		return
	}

	callerID := middleware.GetUserID(c)
	bookings, err := h.reservations(c).BookingsForUser(c.Request.Context(), callerID, userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, bk := range bookings {
		out = append(out, toBookingResponse(bk))
	}
	c.JSON(http.StatusOK, out)
}

// GET /booking/:id/ticket
func (h BookingHandler) ETicket(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	callerID := middleware.GetUserID(c)
	booking, err := h.reservations(c).BookingForOwner(c.Request.Context(), callerID, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	pdfBytes, filename, err := services.BuildETicketPDF(booking)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
