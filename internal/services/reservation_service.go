package services

import (
	"context"
	"fmt"

	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/utils"
)

// ReservationStore is the booking persistence surface. Reserve must be an
// atomic check-and-set: under concurrent calls for the same seat, exactly one
// succeeds and the rest fail with a conflict, with no partial writes.
type ReservationStore interface {
	Reserve(ctx context.Context, userID, seatID int64) (models.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Booking, error)
	GetByID(ctx context.Context, id int64) (models.Booking, error)
}

type ReservationService struct {
	Store     ReservationStore
	RequestID string
}

// Reserve books seatID for userID. Precondition order is fixed: missing seat
// is NotFound, taken seat is Conflict; callers rely on the distinction.
func (s ReservationService) Reserve(ctx context.Context, userID, seatID int64) (models.Booking, error) {
	if userID <= 0 {
		return models.Booking{}, domain.UnauthenticatedError{Msg: "caller identity missing"}
	}
	if seatID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "seat_id", Msg: "must be a positive id"}
	}

	booking, err := s.Store.Reserve(ctx, userID, seatID)
	if err != nil {
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "reservation", "reserve",
		fmt.Sprintf("user_id=%d seat_id=%d booking_id=%d", userID, seatID, booking.ID))
	return booking, nil
}

// BookingsForUser lists a user's bookings. The caller may only read their own.
func (s ReservationService) BookingsForUser(ctx context.Context, callerID, userID int64) ([]models.Booking, error) {
	if callerID <= 0 {
		return nil, domain.UnauthenticatedError{Msg: "caller identity missing"}
	}
	if callerID != userID {
		return nil, domain.UnauthorizedError{Msg: "cannot access another user's bookings"}
	}
	return s.Store.ListByUser(ctx, userID)
}

// BookingForOwner fetches one booking, restricted to the user who made it.
func (s ReservationService) BookingForOwner(ctx context.Context, callerID, bookingID int64) (models.Booking, error) {
	if callerID <= 0 {
		return models.Booking{}, domain.UnauthenticatedError{Msg: "caller identity missing"}
	}
	booking, err := s.Store.GetByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if booking.UserID != callerID {
		return models.Booking{}, domain.UnauthorizedError{Msg: "cannot access another user's booking"}
	}
	return booking, nil
}
