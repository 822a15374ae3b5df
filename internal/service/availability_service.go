package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Haswanth2005/wissen/internal/schedule"
)

// Availability is the read-path answer for one user and one date: a
// verdict per seat plus the meta the UI needs to explain the day
// (which cycle week it is, whether the caller's batch is scheduled,
// whether floating seats are open yet).
type Availability struct {
	Seats []schedule.SeatVerdict `json:"seats"`
	Meta  AvailabilityMeta       `json:"meta"`
}

// AvailabilityMeta summarizes the policy inputs behind the verdicts.
type AvailabilityMeta struct {
	Date             string `json:"date"`
	WeekNumber       int    `json:"week_number"`
	BatchScheduled   bool   `json:"batch_scheduled"`
	FloatingUnlocked bool   `json:"floating_unlocked"`
	UserBatch        string `json:"user_batch"`
}

// AvailabilityService is the read path of the engine. It never writes,
// so a verdict can be stale by the time the user acts on it; the
// booking write path re-checks everything.
type AvailabilityService struct {
	seats    SeatStore
	bookings BookingStore
	config   ConfigStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewAvailabilityService constructs an AvailabilityService. All
// dependencies must be non-nil.
func NewAvailabilityService(seats SeatStore, bookings BookingStore, config ConfigStore, logger *zap.Logger) *AvailabilityService {
	if seats == nil || bookings == nil || config == nil || logger == nil {
		panic("nil dependency passed to NewAvailabilityService")
	}
	return &AvailabilityService{
		seats:    seats,
		bookings: bookings,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// SeatsForDate evaluates every seat for the actor on the given date.
// Weekends return an empty seat list; the handler turns that into its
// "no seats on weekends" message. Two calls with no intervening writes
// return identical verdicts.
func (s *AvailabilityService) SeatsForDate(ctx context.Context, actor Actor, date time.Time) (*Availability, error) {
	now := s.now()
	cycleStart, err := s.config.CycleStart(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	meta := AvailabilityMeta{
		Date:             date.Format("2006-01-02"),
		WeekNumber:       schedule.WeekNumber(date, cycleStart),
		BatchScheduled:   schedule.IsBatchScheduled(actor.Batch, date, cycleStart),
		FloatingUnlocked: schedule.IsFloatingUnlocked(date, now),
		UserBatch:        actor.Batch,
	}
	if schedule.IsWeekend(date) {
		return &Availability{Seats: []schedule.SeatVerdict{}, Meta: meta}, nil
	}

	seats, err := s.seats.GetAll(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	active, err := s.bookings.ActiveByDate(ctx, date)
	if err != nil {
		return nil, storageErr(err)
	}

	verdicts := schedule.EvaluateSeats(actor.ID, actor.Batch, date, cycleStart, now, seats, active)
	return &Availability{Seats: verdicts, Meta: meta}, nil
}
