package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

type BookingRepo struct {
	DB *sql.DB
}

// Reserve atomically books one seat for one user. The seat row is locked for
// the duration of the transaction, so concurrent callers targeting the same
// seat serialize here: exactly one commits, the rest observe the flag as set
// and roll back with a conflict. The conditional UPDATE checks rows-affected
// as a second gate on top of the locked read.
func (r BookingRepo) Reserve(ctx context.Context, userID, seatID int64) (models.Booking, error) {
	var out models.Booking

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return out, domain.InternalError{Msg: "failed to begin transaction", Err: err}
	}
	defer tx.Rollback()

	var (
		busID      int64
		seatNumber string
		isBooked   bool
		busName    string
		busNumber  string
	)
	err = tx.QueryRowContext(ctx, `
		SELECT s.id, s.bus_id, s.seat_number, s.is_booked, b.bus_name, b.bus_number
		FROM seats s
		JOIN buses b ON b.id = s.bus_id
		WHERE s.id = ?
		FOR UPDATE
	`, seatID).Scan(&seatID, &busID, &seatNumber, &isBooked, &busName, &busNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return out, domain.NotFoundError{Resource: "seat", Err: err}
		}
		return out, domain.InternalError{Msg: "failed to query seat", Err: err}
	}
	if isBooked {
		return out, domain.ConflictError{Resource: "seat", Msg: "already booked"}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE seats SET is_booked = 1 WHERE id = ? AND is_booked = 0
	`, seatID)
	if err != nil {
		return out, domain.InternalError{Msg: "failed to mark seat", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return out, domain.ConflictError{Resource: "seat", Msg: "already booked"}
	}

	now := time.Now()
	ins, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (user_id, bus_id, seat_id, booking_time)
		VALUES (?, ?, ?, ?)
	`, userID, busID, seatID, now)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return out, domain.ConflictError{Resource: "seat", Msg: "already booked"}
		}
		return out, domain.InternalError{Msg: "failed to insert booking", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return out, domain.InternalError{Msg: "failed to commit booking", Err: err}
	}

	id, _ := ins.LastInsertId()
	out = models.Booking{
		ID:          id,
		UserID:      userID,
		BusID:       busID,
		SeatID:      seatID,
		BookingTime: now,
		BusName:     busName,
		BusNumber:   busNumber,
		SeatNumber:  seatNumber,
	}
	return out, nil
}

const bookingSelect = `
	SELECT
		bk.id, bk.user_id, bk.bus_id, bk.seat_id, bk.booking_time,
		u.username, b.bus_name, b.bus_number, s.seat_number
	FROM bookings bk
	JOIN users u ON u.id = bk.user_id
	JOIN buses b ON b.id = bk.bus_id
	JOIN seats s ON s.id = bk.seat_id
`

func (r BookingRepo) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, bookingSelect+`
		WHERE bk.user_id = ?
		ORDER BY bk.id ASC
	`, userID)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to query bookings", Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var bk models.Booking
		if err := rows.Scan(
			&bk.ID, &bk.UserID, &bk.BusID, &bk.SeatID, &bk.BookingTime,
			&bk.Username, &bk.BusName, &bk.BusNumber, &bk.SeatNumber,
		); err != nil {
			return nil, domain.InternalError{Msg: "failed to scan booking", Err: err}
		}
		out = append(out, bk)
	}
	return out, rows.Err()
}

func (r BookingRepo) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	var bk models.Booking
	err := r.DB.QueryRowContext(ctx, bookingSelect+` WHERE bk.id = ?`, id).Scan(
		&bk.ID, &bk.UserID, &bk.BusID, &bk.SeatID, &bk.BookingTime,
		&bk.Username, &bk.BusName, &bk.BusNumber, &bk.SeatNumber,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return bk, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return bk, domain.InternalError{Msg: "failed to query booking", Err: err}
	}
	return bk, nil
}
