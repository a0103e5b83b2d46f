// Package reservations provides the table availability checker backed
// by a bookings database.
package reservations

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sukanya1426/Voice-Agent/internal/bot"
)

// defaultCapacity is how many tables each (date, time) slot holds.
const defaultCapacity = 10

// SQLiteChecker implements bot.AvailabilityChecker over a sqlite
// bookings database. A successful check records the booking.
type SQLiteChecker struct {
	db       *sql.DB
	capacity int
}

// NewSQLite opens (or creates) the bookings database.
func NewSQLite(dbPath string) (*SQLiteChecker, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	checker := &SQLiteChecker{db: db, capacity: defaultCapacity}
	if err := checker.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return checker, nil
}

func (c *SQLiteChecker) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS bookings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		booking_date TEXT NOT NULL,
		booking_time TEXT NOT NULL,
		party_size TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_bookings_slot ON bookings(booking_date, booking_time);
	`
	if _, err := c.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SetCapacity overrides the per-slot table capacity.
func (c *SQLiteChecker) SetCapacity(n int) {
	if n > 0 {
		c.capacity = n
	}
}

// CheckAvailability reports whether a table is free for the slot and,
// if so, records the booking. Date, time and party size are kept as the
// caller's own words; slots are grouped by exact text.
func (c *SQLiteChecker) CheckAvailability(ctx context.Context, date, timeOfDay, partySize string) (bot.AvailabilityResult, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return bot.AvailabilityResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var booked int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE booking_date = ? AND booking_time = ?`,
		date, timeOfDay,
	).Scan(&booked)
	if err != nil {
		return bot.AvailabilityResult{}, fmt.Errorf("count bookings: %w", err)
	}

	if booked >= c.capacity {
		return bot.AvailabilityResult{
			Available: false,
			Message:   fmt.Sprintf("I'm sorry, we're fully booked on %s at %s. Could you try a different date or time?", date, timeOfDay),
		}, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bookings (booking_date, booking_time, party_size, created_at) VALUES (?, ?, ?, ?)`,
		date, timeOfDay, partySize, time.Now().Unix(),
	)
	if err != nil {
		return bot.AvailabilityResult{}, fmt.Errorf("insert booking: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return bot.AvailabilityResult{}, fmt.Errorf("commit booking: %w", err)
	}

	return bot.AvailabilityResult{
		Available: true,
		Message:   fmt.Sprintf("Great! I have a table available for %s on %s at %s. Your reservation is confirmed!", partySize, date, timeOfDay),
	}, nil
}

// Count returns the number of bookings stored for a slot.
func (c *SQLiteChecker) Count(ctx context.Context, date, timeOfDay string) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE booking_date = ? AND booking_time = ?`,
		date, timeOfDay,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (c *SQLiteChecker) Close() error {
	return c.db.Close()
}
