package service

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/Haswanth2005/wissen/internal/model"
	"github.com/Haswanth2005/wissen/internal/repository"
	"github.com/Haswanth2005/wissen/internal/schedule"
)

// createAttempts bounds how often the conditional insert is retried on
// transient lock failures (deadlock, lock-wait timeout). Uniqueness
// conflicts are final and never retried; a second insert after an
// ambiguous failure risks double booking, so anything else propagates
// to the caller as ErrStorage.
const createAttempts = 3

// BookingService is the transaction manager for bookings: it validates
// a request against the calendar, rotation and unlock policies and
// then delegates the check-and-insert to the atomic store primitive.
type BookingService struct {
	seats    SeatStore
	bookings BookingStore
	config   ConfigStore
	logger   *zap.Logger

	// now is the wall clock, swapped out by tests.
	now func() time.Time
}

// NewBookingService constructs a BookingService. All dependencies must
// be non-nil.
func NewBookingService(seats SeatStore, bookings BookingStore, config ConfigStore, logger *zap.Logger) *BookingService {
	if seats == nil || bookings == nil || config == nil || logger == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{
		seats:    seats,
		bookings: bookings,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// Create books a seat for the actor on the given date. Validation runs
// in the order the caller can reason about: window, weekend, seat
// existence, policy eligibility, and finally the atomic occupancy
// check inside the store. A stale availability display is fine; the
// insert is what decides, and a lost race surfaces as ErrAlreadyBooked
// or ErrDuplicateUserBooking rather than a second ACTIVE row.
func (s *BookingService) Create(ctx context.Context, actor Actor, seatID uint64, date time.Time) (*model.Booking, error) {
	now := s.now()
	if !schedule.IsWithinBookingWindow(date, now) {
		return nil, ErrOutOfWindow
	}
	if schedule.IsWeekend(date) {
		return nil, ErrWeekendNotBookable
	}

	seat, err := s.seats.GetByID(ctx, seatID)
	if err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, storageErr(err)
	}

	cycleStart, err := s.config.CycleStart(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	if ok, reason := schedule.SeatEligible(*seat, actor.Batch, date, cycleStart, now); !ok {
		return nil, &NotEligibleError{Reason: reason}
	}

	var booking *model.Booking
	backoff := retry.WithMaxRetries(createAttempts-1, retry.NewConstant(50*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		b, err := s.bookings.CreateActive(ctx, actor.ID, seatID, date)
		if err != nil {
			if repository.IsRetryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatDayTaken):
			return nil, ErrAlreadyBooked
		case errors.Is(err, repository.ErrUserDayTaken):
			return nil, ErrDuplicateUserBooking
		default:
			return nil, storageErr(err)
		}
	}
	booking.Seat = seat

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.Uint64("user_id", actor.ID),
		zap.Uint64("seat_id", seatID),
		zap.String("seat", seat.SeatNumber),
		zap.String("date", booking.Date.Format("2006-01-02")),
	)
	return booking, nil
}

// Cancel transitions an ACTIVE booking to CANCELLED. Only the owner or
// an admin may cancel. CANCELLED is terminal.
func (s *BookingService) Cancel(ctx context.Context, actor Actor, bookingID string) (*model.Booking, error) {
	return s.finish(ctx, actor, bookingID, model.BookingCancelled)
}

// Release transitions an ACTIVE booking on a designated seat to
// RELEASED, freeing the desk for that date as a one-off floating-style
// slot while keeping the distinct status for reporting. Only the owner
// or an admin may release, and only designated seats qualify.
func (s *BookingService) Release(ctx context.Context, actor Actor, bookingID string) (*model.Booking, error) {
	return s.finish(ctx, actor, bookingID, model.BookingReleased)
}

// finish implements the shared cancel/release state machine. The
// ownership and status checks run on a fresh read, and the store's
// conditional update re-verifies ACTIVE so a concurrent transition
// loses cleanly with ErrNotActive.
func (s *BookingService) finish(ctx context.Context, actor Actor, bookingID, newStatus string) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, storageErr(err)
	}
	if booking.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if newStatus == model.BookingReleased && booking.Seat != nil && booking.Seat.Type != model.SeatDesignated {
		return nil, ErrNotReleasable
	}
	if booking.Status != model.BookingActive {
		return nil, ErrNotActive
	}

	if err := s.bookings.MarkInactive(ctx, bookingID, newStatus); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		case errors.Is(err, repository.ErrBookingNotActive):
			return nil, ErrNotActive
		default:
			return nil, storageErr(err)
		}
	}
	booking.Status = newStatus

	s.logger.Info("booking closed",
		zap.String("booking_id", booking.ID),
		zap.String("status", newStatus),
		zap.Uint64("actor_id", actor.ID),
		zap.Bool("by_admin", actor.ID != booking.UserID),
	)
	return booking, nil
}

// ListForActor returns the actor's bookings, or every booking when the
// actor is an admin. With upcoming set, only ACTIVE bookings from
// today onward are included.
func (s *BookingService) ListForActor(ctx context.Context, actor Actor, upcoming bool) ([]model.Booking, error) {
	var (
		bookings []model.Booking
		err      error
	)
	if actor.IsAdmin() {
		bookings, err = s.bookings.ListAll(ctx, upcoming)
	} else {
		bookings, err = s.bookings.ListByUser(ctx, actor.ID, upcoming)
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return bookings, nil
}
