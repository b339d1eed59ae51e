package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

type BusRepo struct {
	DB *sql.DB
}

const busSelect = `
	SELECT
		id,
		bus_name,
		bus_number,
		origin,
		destination,
		COALESCE(features, '') AS features,
		TIME_FORMAT(start_time, '%H:%i') AS start_time,
		TIME_FORMAT(reach_time, '%H:%i') AS reach_time,
		no_of_seats,
		price
	FROM buses
`

// Create inserts the bus and generates its seats (A1..A<K>) in one
// transaction, so a listed bus always carries its full unbooked seat map.
func (r BusRepo) Create(ctx context.Context, bus models.Bus) (models.Bus, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return bus, domain.InternalError{Msg: "failed to begin transaction", Err: err}
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO buses (bus_name, bus_number, origin, destination, features, start_time, reach_time, no_of_seats, price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, bus.BusName, bus.BusNumber, bus.Origin, bus.Destination, bus.Features,
		bus.StartTime, bus.ReachTime, bus.NoOfSeats, bus.Price)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return bus, domain.ValidationError{Field: "bus_number", Msg: "already registered"}
		}
		return bus, domain.InternalError{Msg: "failed to insert bus", Err: err}
	}

	busID, _ := res.LastInsertId()
	bus.ID = busID
	bus.Seats = make([]models.Seat, 0, bus.NoOfSeats)

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO seats (bus_id, seat_number, is_booked) VALUES (?, ?, 0)
	`)
	if err != nil {
		return bus, domain.InternalError{Msg: "failed to prepare seat insert", Err: err}
	}
	defer stmt.Close()

	for i := 1; i <= bus.NoOfSeats; i++ {
		label := fmt.Sprintf("A%d", i)
		seatRes, err := stmt.ExecContext(ctx, busID, label)
		if err != nil {
			return bus, domain.InternalError{Msg: "failed to insert seat", Err: err}
		}
		seatID, _ := seatRes.LastInsertId()
		bus.Seats = append(bus.Seats, models.Seat{ID: seatID, BusID: busID, SeatNumber: label})
	}

	if err := tx.Commit(); err != nil {
		return bus, domain.InternalError{Msg: "failed to commit bus", Err: err}
	}
	return bus, nil
}

func (r BusRepo) List(ctx context.Context) ([]models.Bus, error) {
	rows, err := r.DB.QueryContext(ctx, busSelect+` ORDER BY id ASC`)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to query buses", Err: err}
	}
	defer rows.Close()

	buses := []models.Bus{}
	index := map[int64]int{}
	for rows.Next() {
		var b models.Bus
		if err := scanBus(rows, &b); err != nil {
			return nil, domain.InternalError{Msg: "failed to scan bus", Err: err}
		}
		b.Seats = []models.Seat{}
		index[b.ID] = len(buses)
		buses = append(buses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "failed to iterate buses", Err: err}
	}
	if len(buses) == 0 {
		return buses, nil
	}

	seatRows, err := r.DB.QueryContext(ctx, `
		SELECT id, bus_id, seat_number, is_booked FROM seats ORDER BY bus_id, id
	`)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to query seats", Err: err}
	}
	defer seatRows.Close()

	for seatRows.Next() {
		var s models.Seat
		if err := seatRows.Scan(&s.ID, &s.BusID, &s.SeatNumber, &s.IsBooked); err != nil {
			return nil, domain.InternalError{Msg: "failed to scan seat", Err: err}
		}
		if i, ok := index[s.BusID]; ok {
			buses[i].Seats = append(buses[i].Seats, s)
		}
	}
	if err := seatRows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "failed to iterate seats", Err: err}
	}
	return buses, nil
}

func (r BusRepo) GetByID(ctx context.Context, id int64) (models.Bus, error) {
	var b models.Bus
	row := r.DB.QueryRowContext(ctx, busSelect+` WHERE id = ?`, id)
	if err := scanBus(row, &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b, domain.NotFoundError{Resource: "bus", Err: err}
		}
		return b, domain.InternalError{Msg: "failed to query bus", Err: err}
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, bus_id, seat_number, is_booked FROM seats WHERE bus_id = ? ORDER BY id
	`, id)
	if err != nil {
		return b, domain.InternalError{Msg: "failed to query seats", Err: err}
	}
	defer rows.Close()

	b.Seats = []models.Seat{}
	for rows.Next() {
		var s models.Seat
		if err := rows.Scan(&s.ID, &s.BusID, &s.SeatNumber, &s.IsBooked); err != nil {
			return b, domain.InternalError{Msg: "failed to scan seat", Err: err}
		}
		b.Seats = append(b.Seats, s)
	}
	return b, rows.Err()
}

// Update writes bus attributes only; the generated seat map is not touched.
func (r BusRepo) Update(ctx context.Context, bus models.Bus) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE buses
		SET bus_name = ?, bus_number = ?, origin = ?, destination = ?,
		    features = ?, start_time = ?, reach_time = ?, price = ?
		WHERE id = ?
	`, bus.BusName, bus.BusNumber, bus.Origin, bus.Destination,
		bus.Features, bus.StartTime, bus.ReachTime, bus.Price, bus.ID)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return domain.ValidationError{Field: "bus_number", Msg: "already registered"}
		}
		return domain.InternalError{Msg: "failed to update bus", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish a no-op update from a missing row.
		var one int
		if err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM buses WHERE id = ?`, bus.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NotFoundError{Resource: "bus"}
			}
			return domain.InternalError{Msg: "failed to check bus", Err: err}
		}
	}
	return nil
}

// Delete removes the bus; seats and bookings follow via FK cascades.
func (r BusRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM buses WHERE id = ?`, id)
	if err != nil {
		return domain.InternalError{Msg: "failed to delete bus", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "bus"}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBus(row rowScanner, b *models.Bus) error {
	return row.Scan(
		&b.ID,
		&b.BusName,
		&b.BusNumber,
		&b.Origin,
		&b.Destination,
		&b.Features,
		&b.StartTime,
		&b.ReachTime,
		&b.NoOfSeats,
		&b.Price,
	)
}
