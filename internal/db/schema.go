package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Cascades are declared at the schema level: deleting a bus removes its seats
// and bookings, deleting a user removes their bookings. The unique key on
// bookings.seat_id backs the one-booking-per-seat invariant alongside the
// is_booked flag.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT NOT NULL AUTO_INCREMENT,
		username VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS buses (
		id BIGINT NOT NULL AUTO_INCREMENT,
		bus_name VARCHAR(100) NOT NULL,
		bus_number VARCHAR(100) NOT NULL,
		origin VARCHAR(100) NOT NULL,
		destination VARCHAR(100) NOT NULL,
		features TEXT,
		start_time TIME NOT NULL,
		reach_time TIME NOT NULL,
		no_of_seats INT UNSIGNED NOT NULL,
		price DECIMAL(8,2) NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_buses_bus_number (bus_number)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS seats (
		id BIGINT NOT NULL AUTO_INCREMENT,
		bus_id BIGINT NOT NULL,
		seat_number VARCHAR(10) NOT NULL,
		is_booked TINYINT(1) NOT NULL DEFAULT 0,
		PRIMARY KEY (id),
		UNIQUE KEY uq_seats_bus_seat (bus_id, seat_number),
		CONSTRAINT fk_seats_bus FOREIGN KEY (bus_id) REFERENCES buses(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT NOT NULL AUTO_INCREMENT,
		user_id BIGINT NOT NULL,
		bus_id BIGINT NOT NULL,
		seat_id BIGINT NOT NULL,
		booking_time DATETIME NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_bookings_seat (seat_id),
		KEY idx_bookings_user (user_id),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		CONSTRAINT fk_bookings_bus FOREIGN KEY (bus_id) REFERENCES buses(id) ON DELETE CASCADE,
		CONSTRAINT fk_bookings_seat FOREIGN KEY (seat_id) REFERENCES seats(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates missing tables on startup (idempotent).
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
