package service

import (
	"context"
	"time"

	"github.com/Haswanth2005/wissen/internal/model"
)

// The engine talks to persistence through these small interfaces. The
// repository package provides the MySQL implementations; tests supply
// in-memory ones.

// SeatStore is read-only access to the seat reference data.
type SeatStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Seat, error)
	GetAll(ctx context.Context) ([]model.Seat, error)
}

// BookingStore persists bookings. CreateActive is the atomic
// primitive: it must guarantee that concurrent calls for the same
// seat+date (or user+date) yield exactly one success, with the losers
// seeing ErrSeatDayTaken (or ErrUserDayTaken) from the repository
// package. MarkInactive must be conditional on the ACTIVE status.
type BookingStore interface {
	CreateActive(ctx context.Context, userID, seatID uint64, date time.Time) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	MarkInactive(ctx context.Context, id, newStatus string) error
	ActiveByDate(ctx context.Context, date time.Time) ([]model.Booking, error)
	ListByUser(ctx context.Context, userID uint64, upcoming bool) ([]model.Booking, error)
	ListAll(ctx context.Context, upcoming bool) ([]model.Booking, error)
}

// ConfigStore reads the rotation cycle anchor. The zero time means no
// anchor is configured.
type ConfigStore interface {
	CycleStart(ctx context.Context) (time.Time, error)
}

// Actor identifies the authenticated caller of an engine operation.
// The identity collaborator (JWT middleware) resolves credentials into
// this triple; the engine never sees raw tokens.
type Actor struct {
	ID    uint64
	Role  string
	Batch string
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }
