package repository // repository defines data access for seats

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Haswanth2005/wissen/internal/model"
)

// SeatRepo provides read access to the seats table. Seats are created
// by the seed migration and treated as immutable reference data, so
// there are no insert or update methods here.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// GetByID retrieves a seat by its id. Returns ErrSeatNotFound when no
// such seat exists.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT id, seat_number, type, created_at FROM seats WHERE id = ?`
	var s model.Seat
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.SeatNumber, &s.Type, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetAll retrieves every seat ordered by type then label, designated
// block first. The ordering is deterministic so the seat map renders
// the same way on every request.
func (r *SeatRepo) GetAll(ctx context.Context) ([]model.Seat, error) {
	const q = `SELECT id, seat_number, type, created_at
	           FROM seats
	           ORDER BY type, seat_number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.SeatNumber, &s.Type, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
