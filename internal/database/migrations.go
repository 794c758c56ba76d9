package database

import (
	"database/sql"
	"fmt"
	"log"
)

// RunMigrations creates the schema if it does not exist.  Statements
// are idempotent so the service can run them on every start.
func RunMigrations(db *sql.DB) error {
	migrations := []string{
		createEventsTable,
		createSeatsTable,
		createBookingsTable,
		createBookingSeatsTable,
	}
	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	log.Printf("database: migrations complete")
	return nil
}

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    starts_at DATETIME NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB;`

const createSeatsTable = `
CREATE TABLE IF NOT EXISTS seats (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    event_id BIGINT UNSIGNED NOT NULL,
    section VARCHAR(64) NOT NULL,
    row_label VARCHAR(16) NOT NULL,
    seat_number INT UNSIGNED NOT NULL,
    label VARCHAR(64) NOT NULL,
    base_price_cents INT UNSIGNED NOT NULL,
    current_price_cents INT UNSIGNED NOT NULL,
    status ENUM('AVAILABLE','HELD','BOOKED') NOT NULL DEFAULT 'AVAILABLE',
    holder_id BIGINT UNSIGNED NULL,
    hold_token CHAR(64) NULL,
    hold_expires_at DATETIME NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uq_seats_event_position (event_id, section, row_label, seat_number),
    KEY idx_seats_hold_token (hold_token),
    KEY idx_seats_expiry (status, hold_expires_at),
    CONSTRAINT fk_seats_event FOREIGN KEY (event_id) REFERENCES events (id)
) ENGINE=InnoDB;`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    reference VARCHAR(32) NOT NULL,
    event_id BIGINT UNSIGNED NOT NULL,
    holder_id BIGINT UNSIGNED NOT NULL,
    status ENUM('CONFIRMED','CANCELLED') NOT NULL DEFAULT 'CONFIRMED',
    payment_status VARCHAR(16) NOT NULL DEFAULT 'PENDING',
    total_seats INT NOT NULL,
    base_amount_cents INT UNSIGNED NOT NULL,
    fees_amount_cents INT UNSIGNED NOT NULL DEFAULT 0,
    tax_amount_cents INT UNSIGNED NOT NULL DEFAULT 0,
    discount_amount_cents INT UNSIGNED NOT NULL DEFAULT 0,
    total_amount_cents INT UNSIGNED NOT NULL,
    cancel_reason VARCHAR(255) NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uq_bookings_reference (reference),
    KEY idx_bookings_holder (holder_id),
    CONSTRAINT fk_bookings_event FOREIGN KEY (event_id) REFERENCES events (id)
) ENGINE=InnoDB;`

const createBookingSeatsTable = `
CREATE TABLE IF NOT EXISTS booking_seats (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    booking_id BIGINT UNSIGNED NOT NULL,
    seat_id BIGINT UNSIGNED NOT NULL,
    label VARCHAR(64) NOT NULL,
    section VARCHAR(64) NOT NULL,
    row_label VARCHAR(16) NOT NULL,
    seat_number INT UNSIGNED NOT NULL,
    price_cents INT UNSIGNED NOT NULL,
    KEY idx_booking_seats_booking (booking_id),
    CONSTRAINT fk_booking_seats_booking FOREIGN KEY (booking_id) REFERENCES bookings (id)
) ENGINE=InnoDB;`
