package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Haswanth2005/wissen/internal/model"
	"github.com/Haswanth2005/wissen/internal/repository"
	"github.com/Haswanth2005/wissen/internal/schedule"
)

// Fixed calendar for the tests: the anchor is Monday 2024-01-01, "now"
// is Tuesday 2024-01-02 at 09:00, so Wednesday 2024-01-03 is a week 1
// batch A day.
var (
	testAnchor = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	testNow    = time.Date(2024, time.January, 2, 9, 0, 0, 0, time.UTC)
	week1Wed   = time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)

	seatD01 = model.Seat{ID: 1, SeatNumber: "D01", Type: model.SeatDesignated}
	seatD02 = model.Seat{ID: 2, SeatNumber: "D02", Type: model.SeatDesignated}
	seatF01 = model.Seat{ID: 41, SeatNumber: "F01", Type: model.SeatFloating}

	actorA     = Actor{ID: 7, Role: model.RoleEmployee, Batch: model.BatchA}
	actorA2    = Actor{ID: 8, Role: model.RoleEmployee, Batch: model.BatchA}
	actorB     = Actor{ID: 9, Role: model.RoleEmployee, Batch: model.BatchB}
	actorAdmin = Actor{ID: 1, Role: model.RoleAdmin, Batch: model.BatchNone}
)

// seatStoreMock serves seats from a fixed set.
type seatStoreMock struct {
	seats []model.Seat
}

func (m *seatStoreMock) GetByID(_ context.Context, id uint64) (*model.Seat, error) {
	for i := range m.seats {
		if m.seats[i].ID == id {
			s := m.seats[i]
			return &s, nil
		}
	}
	return nil, repository.ErrSeatNotFound
}

func (m *seatStoreMock) GetAll(_ context.Context) ([]model.Seat, error) {
	return append([]model.Seat(nil), m.seats...), nil
}

// configStoreMock returns a fixed cycle anchor.
type configStoreMock struct {
	anchor time.Time
}

func (m *configStoreMock) CycleStart(_ context.Context) (time.Time, error) {
	return m.anchor, nil
}

// memBookings is a mutex-guarded in-memory BookingStore that enforces
// the same uniqueness semantics as the MySQL schema, so the service
// concurrency tests exercise real contention.
type memBookings struct {
	mu    sync.Mutex
	byID  map[string]*model.Booking
	seq   int
	seats map[uint64]model.Seat

	// failures are consumed, one per CreateActive call, before the
	// normal insert logic runs. Used to script transient errors.
	failures []error
}

func newMemBookings(seats ...model.Seat) *memBookings {
	m := &memBookings{byID: map[string]*model.Booking{}, seats: map[uint64]model.Seat{}}
	for _, s := range seats {
		m.seats[s.ID] = s
	}
	return m
}

func (m *memBookings) CreateActive(_ context.Context, userID, seatID uint64, date time.Time) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.failures) > 0 {
		err := m.failures[0]
		m.failures = m.failures[1:]
		return nil, err
	}

	for _, b := range m.byID {
		if b.Status != model.BookingActive || !b.Date.Equal(date) {
			continue
		}
		if b.SeatID == seatID {
			return nil, repository.ErrSeatDayTaken
		}
		if b.UserID == userID {
			return nil, repository.ErrUserDayTaken
		}
	}

	m.seq++
	b := &model.Booking{
		ID:        fmt.Sprintf("bk-%d", m.seq),
		UserID:    userID,
		SeatID:    seatID,
		Date:      date,
		Status:    model.BookingActive,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	if seat, ok := m.seats[seatID]; ok {
		s := seat
		b.Seat = &s
	}
	m.byID[b.ID] = b
	cp := *b
	return &cp, nil
}

func (m *memBookings) GetByID(_ context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBookings) MarkInactive(_ context.Context, id, newStatus string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	if b.Status != model.BookingActive {
		return repository.ErrBookingNotActive
	}
	b.Status = newStatus
	return nil
}

func (m *memBookings) ActiveByDate(_ context.Context, date time.Time) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Booking
	for _, b := range m.byID {
		if b.Status == model.BookingActive && b.Date.Equal(date) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBookings) ListByUser(_ context.Context, userID uint64, _ bool) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Booking
	for _, b := range m.byID {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBookings) ListAll(_ context.Context, _ bool) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Booking
	for _, b := range m.byID {
		out = append(out, *b)
	}
	return out, nil
}

func newTestService(store *memBookings) *BookingService {
	s := NewBookingService(
		&seatStoreMock{seats: []model.Seat{seatD01, seatD02, seatF01}},
		store,
		&configStoreMock{anchor: testAnchor},
		zap.NewNop(),
	)
	s.now = func() time.Time { return testNow }
	return s
}

func TestCreateWindowBoundaries(t *testing.T) {
	svc := newTestService(newMemBookings(seatD01))
	ctx := context.Background()

	// Day 14 is the last bookable day; it falls on Tuesday 2024-01-16,
	// a week 1 Mon-Wed band where batch A is scheduled, so only the
	// window is under test for actorA.
	day14 := testNow.AddDate(0, 0, 14)
	require.Equal(t, 14, schedule.DaysFromToday(day14, testNow))
	_, err := svc.Create(ctx, actorA, seatD01.ID, day14)
	require.NoError(t, err)

	_, err = svc.Create(ctx, actorA, seatD01.ID, testNow.AddDate(0, 0, 15))
	require.ErrorIs(t, err, ErrOutOfWindow)

	_, err = svc.Create(ctx, actorA, seatD01.ID, testNow.AddDate(0, 0, -1))
	require.ErrorIs(t, err, ErrOutOfWindow)
}

func TestCreateWeekendRejected(t *testing.T) {
	svc := newTestService(newMemBookings(seatD01))
	saturday := time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), actorA, seatD01.ID, saturday)
	require.ErrorIs(t, err, ErrWeekendNotBookable)
}

func TestCreateUnknownSeat(t *testing.T) {
	svc := newTestService(newMemBookings())
	_, err := svc.Create(context.Background(), actorA, 999, week1Wed)
	require.ErrorIs(t, err, ErrSeatNotFound)
}

func TestCreateEligibilityEnforced(t *testing.T) {
	svc := newTestService(newMemBookings(seatD01, seatF01))
	ctx := context.Background()

	// Off-batch user on a designated seat.
	_, err := svc.Create(ctx, actorB, seatD01.ID, week1Wed)
	require.ErrorIs(t, err, ErrNotEligible)
	var ne *NotEligibleError
	require.ErrorAs(t, err, &ne)
	require.Equal(t, schedule.ReasonNotYourBatchDay, ne.Reason)

	// Floating seat for tomorrow before the 15:00 cutoff.
	_, err = svc.Create(ctx, actorB, seatF01.ID, week1Wed)
	require.ErrorIs(t, err, ErrNotEligible)
	require.ErrorAs(t, err, &ne)
	require.Equal(t, schedule.ReasonFloatingLocked, ne.Reason)

	// Scheduled batch cannot take floating even after the cutoff.
	svc.now = func() time.Time {
		return time.Date(2024, time.January, 2, 16, 0, 0, 0, time.UTC)
	}
	_, err = svc.Create(ctx, actorA, seatF01.ID, week1Wed)
	require.ErrorIs(t, err, ErrNotEligible)
	require.ErrorAs(t, err, &ne)
	require.Equal(t, schedule.ReasonBatchScheduled, ne.Reason)

	// The off-batch user gets it once unlocked.
	b, err := svc.Create(ctx, actorB, seatF01.ID, week1Wed)
	require.NoError(t, err)
	require.Equal(t, model.BookingActive, b.Status)
}

func TestCreateSuccess(t *testing.T) {
	svc := newTestService(newMemBookings(seatD01))

	b, err := svc.Create(context.Background(), actorA, seatD01.ID, week1Wed)
	require.NoError(t, err)
	require.NotEmpty(t, b.ID)
	require.Equal(t, actorA.ID, b.UserID)
	require.Equal(t, seatD01.ID, b.SeatID)
	require.Equal(t, model.BookingActive, b.Status)
	require.NotNil(t, b.Seat)
	require.Equal(t, "D01", b.Seat.SeatNumber)
}

func TestCreateDuplicateSeatAndUser(t *testing.T) {
	svc := newTestService(newMemBookings(seatD01, seatD02))
	ctx := context.Background()

	_, err := svc.Create(ctx, actorA, seatD01.ID, week1Wed)
	require.NoError(t, err)

	// Another user on the taken seat.
	_, err = svc.Create(ctx, actorA2, seatD01.ID, week1Wed)
	require.ErrorIs(t, err, ErrAlreadyBooked)

	// The same user on a second seat the same day.
	_, err = svc.Create(ctx, actorA, seatD02.ID, week1Wed)
	require.ErrorIs(t, err, ErrDuplicateUserBooking)

	// A different day is fine. 2024-01-09 is a week 2 Tuesday where
	// batch B sits Mon-Wed, so send batch A to Thursday 2024-01-11.
	week2Thu := time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC)
	_, err = svc.Create(ctx, actorA, seatD02.ID, week2Thu)
	require.NoError(t, err)
}

func TestCreateRetriesTransientFailures(t *testing.T) {
	store := newMemBookings(seatD01)
	store.failures = []error{
		&mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"},
	}
	svc := newTestService(store)

	b, err := svc.Create(context.Background(), actorA, seatD01.ID, week1Wed)
	require.NoError(t, err)
	require.Equal(t, model.BookingActive, b.Status)
}

func TestCreateDoesNotRetryUniquenessConflicts(t *testing.T) {
	store := newMemBookings(seatD01)
	store.failures = []error{repository.ErrSeatDayTaken}
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), actorA, seatD01.ID, week1Wed)
	require.ErrorIs(t, err, ErrAlreadyBooked)
	// The scripted conflict was consumed and nothing retried past it,
	// so no booking exists.
	require.Empty(t, store.byID)
}

func TestCreateGivesUpAfterRepeatedDeadlocks(t *testing.T) {
	store := newMemBookings(seatD01)
	for i := 0; i < createAttempts; i++ {
		store.failures = append(store.failures,
			&mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"})
	}
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), actorA, seatD01.ID, week1Wed)
	require.ErrorIs(t, err, ErrStorage)
}

func TestCreateConcurrentSameSeat(t *testing.T) {
	const n = 16
	svc := newTestService(newMemBookings(seatD01))

	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			actor := Actor{ID: userID, Role: model.RoleEmployee, Batch: model.BatchA}
			_, err := svc.Create(context.Background(), actor, seatD01.ID, week1Wed)
			errs <- err
		}(uint64(100 + i))
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrAlreadyBooked):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, won)
	require.Equal(t, n-1, lost)
}

func TestCreateConcurrentSameUser(t *testing.T) {
	// One user races over distinct seats on the same day; exactly one
	// booking may stick.
	seats := make([]model.Seat, 16)
	for i := range seats {
		seats[i] = model.Seat{ID: uint64(i + 1), SeatNumber: fmt.Sprintf("D%02d", i+1), Type: model.SeatDesignated}
	}
	store := newMemBookings(seats...)
	svc := NewBookingService(&seatStoreMock{seats: seats}, store, &configStoreMock{anchor: testAnchor}, zap.NewNop())
	svc.now = func() time.Time { return testNow }

	errs := make(chan error, len(seats))
	var wg sync.WaitGroup
	for _, seat := range seats {
		wg.Add(1)
		go func(seatID uint64) {
			defer wg.Done()
			_, err := svc.Create(context.Background(), actorA, seatID, week1Wed)
			errs <- err
		}(seat.ID)
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrDuplicateUserBooking):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, won)
	require.Equal(t, len(seats)-1, lost)
}

func TestCancelLifecycle(t *testing.T) {
	store := newMemBookings(seatD01)
	svc := newTestService(store)
	ctx := context.Background()

	b, err := svc.Create(ctx, actorA, seatD01.ID, week1Wed)
	require.NoError(t, err)

	// A stranger cannot cancel.
	_, err = svc.Cancel(ctx, actorB, b.ID)
	require.ErrorIs(t, err, ErrForbidden)

	// The owner can.
	got, err := svc.Cancel(ctx, actorA, b.ID)
	require.NoError(t, err)
	require.Equal(t, model.BookingCancelled, got.Status)

	// CANCELLED is terminal.
	_, err = svc.Cancel(ctx, actorA, b.ID)
	require.ErrorIs(t, err, ErrNotActive)
	_, err = svc.Release(ctx, actorA, b.ID)
	require.ErrorIs(t, err, ErrNotActive)

	// The slot is free again.
	_, err = svc.Create(ctx, actorA2, seatD01.ID, week1Wed)
	require.NoError(t, err)
}

func TestCancelByAdmin(t *testing.T) {
	svc := newTestService(newMemBookings(seatD01))
	ctx := context.Background()

	b, err := svc.Create(ctx, actorA, seatD01.ID, week1Wed)
	require.NoError(t, err)

	got, err := svc.Cancel(ctx, actorAdmin, b.ID)
	require.NoError(t, err)
	require.Equal(t, model.BookingCancelled, got.Status)
}

func TestCancelUnknownBooking(t *testing.T) {
	svc := newTestService(newMemBookings(seatD01))
	_, err := svc.Cancel(context.Background(), actorA, "no-such-id")
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestReleaseDesignatedOnly(t *testing.T) {
	svc := newTestService(newMemBookings(seatD01, seatF01))
	ctx := context.Background()

	// Floating bookings cannot be released. Use the off-batch user
	// after the unlock cutoff to get a floating booking in place.
	svc.now = func() time.Time {
		return time.Date(2024, time.January, 2, 16, 0, 0, 0, time.UTC)
	}
	floating, err := svc.Create(ctx, actorB, seatF01.ID, week1Wed)
	require.NoError(t, err)
	_, err = svc.Release(ctx, actorB, floating.ID)
	require.ErrorIs(t, err, ErrNotReleasable)

	// Designated bookings can, by the owner or an admin.
	designated, err := svc.Create(ctx, actorA, seatD01.ID, week1Wed)
	require.NoError(t, err)
	got, err := svc.Release(ctx, actorAdmin, designated.ID)
	require.NoError(t, err)
	require.Equal(t, model.BookingReleased, got.Status)

	// RELEASED is terminal too.
	_, err = svc.Cancel(ctx, actorA, designated.ID)
	require.ErrorIs(t, err, ErrNotActive)
}

func TestListForActor(t *testing.T) {
	store := newMemBookings(seatD01, seatD02)
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, actorA, seatD01.ID, week1Wed)
	require.NoError(t, err)
	_, err = svc.Create(ctx, actorA2, seatD02.ID, week1Wed)
	require.NoError(t, err)

	mine, err := svc.ListForActor(ctx, actorA, false)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, actorA.ID, mine[0].UserID)

	all, err := svc.ListForActor(ctx, actorAdmin, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
