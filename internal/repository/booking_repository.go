package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/Haswanth2005/wissen/internal/model"
)

// BookingRepo provides CRUD operations for bookings. The bookings
// table enforces the two allocation invariants itself through unique
// keys over (seat_id, date, active) and (user_id, date, active), where
// `active` is 1 for ACTIVE rows and NULL for terminal ones. NULL never
// collides in a MySQL unique index, so cancelled and released rows
// stay around for reporting without blocking the slot. All dates are
// stored as DATE columns at day granularity in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// MySQL error numbers the repository needs to recognize.
const (
	mysqlErrDuplicateEntry = 1062
	mysqlErrLockWait       = 1205
	mysqlErrDeadlock       = 1213
)

// IsRetryable reports whether err is a transient locking failure
// (deadlock or lock-wait timeout) that the caller may retry. Duplicate
// key violations are deterministic outcomes and never retryable.
func IsRetryable(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlErrLockWait || me.Number == mysqlErrDeadlock
	}
	return false
}

// dupToSentinel maps a duplicate-key error from the bookings table to
// the sentinel for whichever uniqueness invariant was violated. The
// key name appears in the driver's error message.
func dupToSentinel(me *mysql.MySQLError) error {
	switch {
	case strings.Contains(me.Message, "uq_bookings_seat_date"):
		return ErrSeatDayTaken
	case strings.Contains(me.Message, "uq_bookings_user_date"):
		return ErrUserDayTaken
	default:
		return me
	}
}

// CreateActive atomically inserts a new ACTIVE booking for the given
// user, seat and date. The check-and-insert runs inside a single
// transaction: both uniqueness keys are re-checked under FOR UPDATE
// row locks before the insert, and the unique indexes back the checks
// up against anything the locks cannot see (notably two inserts racing
// on a slot that has no row yet). Exactly one of N concurrent calls
// for the same seat+date can succeed; the rest get ErrSeatDayTaken.
// Likewise for the same user+date and ErrUserDayTaken.
//
// The booking ID is generated here as a UUID so the insert is a single
// statement with a known primary key.
func (r *BookingRepo) CreateActive(ctx context.Context, userID, seatID uint64, date time.Time) (*model.Booking, error) {
	day := date.Format("2006-01-02")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Re-check both invariants under row locks. A concurrent committed
	// booking shows up here; a concurrent uncommitted one blocks us
	// until it resolves, after which either this SELECT or the insert
	// below reports the conflict.
	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM bookings WHERE seat_id = ? AND date = ? AND active = 1 FOR UPDATE`,
		seatID, day,
	).Scan(&existing)
	if err == nil {
		return nil, ErrSeatDayTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM bookings WHERE user_id = ? AND date = ? AND active = 1 FOR UPDATE`,
		userID, day,
	).Scan(&existing)
	if err == nil {
		return nil, ErrUserDayTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	b := &model.Booking{
		ID:     uuid.NewString(),
		UserID: userID,
		SeatID: seatID,
		Date:   StartOfDayUTC(date),
		Status: model.BookingActive,
	}
	const ins = `INSERT INTO bookings (id, user_id, seat_id, date, status, active)
	             VALUES (?, ?, ?, ?, 'ACTIVE', 1)`
	if _, err := tx.ExecContext(ctx, ins, b.ID, b.UserID, b.SeatID, day); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry {
			return nil, dupToSentinel(me)
		}
		return nil, err
	}
	// Query back timestamps set by the database.
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return b, nil
}

// StartOfDayUTC normalizes a date to midnight UTC of the same calendar
// day, matching how the DATE column round-trips through the driver.
func StartOfDayUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GetByID retrieves a booking with its seat joined. Returns
// ErrBookingNotFound when no such booking exists.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	const q = `SELECT b.id, b.user_id, b.seat_id, b.date, b.status, b.created_at, b.updated_at,
	                  s.id, s.seat_number, s.type, s.created_at
	           FROM bookings b
	           JOIN seats s ON s.id = b.seat_id
	           WHERE b.id = ?`
	var b model.Booking
	var s model.Seat
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.UserID, &b.SeatID, &b.Date, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		&s.ID, &s.SeatNumber, &s.Type, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	b.Seat = &s
	return &b, nil
}

// MarkInactive transitions an ACTIVE booking to the given terminal
// status and clears the active flag so the unique keys free the slot.
// The update is conditional on the current status: if the booking was
// already cancelled or released by a concurrent request, it returns
// ErrBookingNotActive instead of overwriting the terminal status.
func (r *BookingRepo) MarkInactive(ctx context.Context, id, newStatus string) error {
	const q = `UPDATE bookings
	           SET status = ?, active = NULL, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = 'ACTIVE'`
	res, err := r.db.ExecContext(ctx, q, newStatus, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish a missing row from a terminal one.
		var status string
		err := r.db.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = ?`, id).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}
		return ErrBookingNotActive
	}
	return nil
}

// ActiveByDate retrieves all ACTIVE bookings for a calendar day. The
// eligibility evaluator consumes this as the occupancy snapshot.
func (r *BookingRepo) ActiveByDate(ctx context.Context, date time.Time) ([]model.Booking, error) {
	const q = `SELECT id, user_id, seat_id, date, status, created_at, updated_at
	           FROM bookings
	           WHERE date = ? AND active = 1`
	rows, err := r.db.QueryContext(ctx, q, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.SeatID, &b.Date, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByUser returns a user's bookings with seats joined, newest date
// first. When upcoming is true only ACTIVE bookings from today onward
// are returned, oldest first, which is the order the dashboard shows.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, upcoming bool) ([]model.Booking, error) {
	q := `SELECT b.id, b.user_id, b.seat_id, b.date, b.status, b.created_at, b.updated_at,
	             s.id, s.seat_number, s.type, s.created_at
	      FROM bookings b
	      JOIN seats s ON s.id = b.seat_id
	      WHERE b.user_id = ?`
	args := []interface{}{userID}
	if upcoming {
		q += ` AND b.active = 1 AND b.date >= ? ORDER BY b.date ASC`
		args = append(args, time.Now().UTC().Format("2006-01-02"))
	} else {
		q += ` ORDER BY b.date DESC, b.created_at DESC`
	}
	return r.queryBookings(ctx, q, args...)
}

// ListAll returns every booking with seats joined, for admin review.
// The upcoming filter behaves as in ListByUser.
func (r *BookingRepo) ListAll(ctx context.Context, upcoming bool) ([]model.Booking, error) {
	q := `SELECT b.id, b.user_id, b.seat_id, b.date, b.status, b.created_at, b.updated_at,
	             s.id, s.seat_number, s.type, s.created_at
	      FROM bookings b
	      JOIN seats s ON s.id = b.seat_id`
	var args []interface{}
	if upcoming {
		q += ` WHERE b.active = 1 AND b.date >= ? ORDER BY b.date ASC`
		args = append(args, time.Now().UTC().Format("2006-01-02"))
	} else {
		q += ` ORDER BY b.date DESC, b.created_at DESC`
	}
	return r.queryBookings(ctx, q, args...)
}

func (r *BookingRepo) queryBookings(ctx context.Context, q string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Booking
	for rows.Next() {
		var b model.Booking
		var s model.Seat
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.SeatID, &b.Date, &b.Status, &b.CreatedAt, &b.UpdatedAt,
			&s.ID, &s.SeatNumber, &s.Type, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		b.Seat = &s
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
