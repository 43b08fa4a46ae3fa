package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"kino-tickets/internal/booking"
	"kino-tickets/internal/data/entity"
	"kino-tickets/internal/data/repository"
	"kino-tickets/internal/dto/request"
	"kino-tickets/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type seatEnv struct {
	service   SeatService
	backend   *fakeBackend
	tickets   *memTickets
	publisher *recordingPublisher
	repo      *repository.Repository
	logs      *observer.ObservedLogs
}

func testBookingConfig() utils.BookingConfig {
	return utils.BookingConfig{
		Rows:         5,
		Columns:      7,
		PriceAdult:   1200,
		PriceChild:   800,
		PriceStudent: 1000,
		Inventory:    utils.InventoryStore,
		SelectionTTL: time.Minute,
		LockTTL:      5 * time.Second,
	}
}

func newSeatEnv(t *testing.T, mutate func(*utils.BookingConfig)) *seatEnv {
	t.Helper()

	config := testBookingConfig()
	if mutate != nil {
		mutate(&config)
	}

	env := &seatEnv{
		backend:   &fakeBackend{nextID: 41},
		tickets:   &memTickets{},
		publisher: &recordingPublisher{},
	}
	env.repo = &repository.Repository{
		Ticket:    env.tickets,
		Selection: repository.NewMemorySelectionRepository(),
		Catalog:   repository.NewMemoryCatalogCache(),
	}

	core, logs := observer.New(zap.InfoLevel)
	env.logs = logs
	log := zap.New(core)
	booker := booking.NewBooker(env.backend, log, booking.WithTimeout(time.Second))
	env.service = NewSeatService(env.repo, NewTicketService(env.repo, env.publisher, log), booker, config, log)
	return env
}

func openRequest() *request.OpenSelectionRequest {
	return &request.OpenSelectionRequest{
		SessionID: 7,
		Date:      "2026-10-20",
		Time:      "19:30",
		Cinema:    "Chaplin MEGA",
		CinemaID:  3,
		Price:     1200,
		Title:     "Kelinzhan",
	}
}

func (env *seatEnv) open(t *testing.T, owner string) string {
	t.Helper()
	e, err := env.service.Open(context.Background(), owner, openRequest())
	require.NoError(t, err)
	return e.ID()
}

func (env *seatEnv) pick(t *testing.T, owner, id string, row, col int, tt booking.TicketType) {
	t.Helper()
	ctx := context.Background()
	e, err := env.service.SelectSeat(ctx, owner, id, row, col)
	require.NoError(t, err)
	require.NotNil(t, e.Pending())

	_, err = env.service.ConfirmTicketType(ctx, owner, id, row, col, tt)
	require.NoError(t, err)
}

func TestSeatService_OpenMarksIssuedSeatsTaken(t *testing.T) {
	env := newSeatEnv(t, nil)
	require.NoError(t, env.tickets.Create(context.Background(), &entity.Ticket{
		BookingID: 1,
		SessionID: 7,
		Seats:     []entity.TicketSeat{{Number: 1, TicketType: "adult"}, {Number: 9, TicketType: "child"}},
	}))
	require.NoError(t, env.tickets.Create(context.Background(), &entity.Ticket{
		BookingID: 2,
		SessionID: 8,
		Seats:     []entity.TicketSeat{{Number: 2, TicketType: "adult"}},
	}))

	e, err := env.service.Open(context.Background(), "", openRequest())
	require.NoError(t, err)

	grid := e.Grid()
	assert.Equal(t, 5, grid.Rows)
	assert.Equal(t, 7, grid.Columns)
	assert.True(t, grid.Seats[0][0].Taken)
	assert.False(t, grid.Seats[0][1].Taken, "seat of another session")
	assert.True(t, grid.Seats[1][1].Taken)
	assert.Equal(t, booking.StateEmpty, e.State())
}

func TestSeatService_OpenInventoryFailure(t *testing.T) {
	env := newSeatEnv(t, nil)
	env.tickets.takenErr = errors.New("connection refused")

	_, err := env.service.Open(context.Background(), "", openRequest())
	require.Error(t, err)
}

func TestSeatService_OpenRandomInventorySkipsStore(t *testing.T) {
	env := newSeatEnv(t, func(c *utils.BookingConfig) { c.Inventory = utils.InventoryRandom })
	env.tickets.takenErr = errors.New("must not be called")

	e, err := env.service.Open(context.Background(), "", openRequest())
	require.NoError(t, err)
	assert.Equal(t, 35, e.Grid().Capacity())
}

func TestSeatService_OpenValidation(t *testing.T) {
	env := newSeatEnv(t, nil)
	req := openRequest()
	req.SessionID = 0

	_, err := env.service.Open(context.Background(), "", req)
	require.ErrorIs(t, err, ErrValidation)
}

func TestSeatService_SelectionFlowPersists(t *testing.T) {
	env := newSeatEnv(t, nil)
	ctx := context.Background()
	id := env.open(t, "")

	env.pick(t, "", id, 0, 0, booking.TicketAdult)
	env.pick(t, "", id, 0, 1, booking.TicketChild)

	e, err := env.service.Get(ctx, "", id)
	require.NoError(t, err)
	assert.Equal(t, booking.StateHasSelection, e.State())
	assert.True(t, e.Totals().TotalPrice.Equal(decimal.NewFromInt(2000)))
	assert.Nil(t, e.Pending())

	// tapping a selected seat deselects it
	e, err = env.service.SelectSeat(ctx, "", id, 0, 0)
	require.NoError(t, err)
	assert.True(t, e.Totals().TotalPrice.Equal(decimal.NewFromInt(800)))

	// prompt then cancel leaves the grid alone
	_, err = env.service.SelectSeat(ctx, "", id, 2, 2)
	require.NoError(t, err)
	e, err = env.service.CancelPending(ctx, "", id)
	require.NoError(t, err)
	assert.Nil(t, e.Pending())
	assert.False(t, e.Grid().Seats[2][2].Selected)
}

func TestSeatService_ErrorsFromEngine(t *testing.T) {
	env := newSeatEnv(t, nil)
	ctx := context.Background()
	id := env.open(t, "")

	_, err := env.service.SelectSeat(ctx, "", id, 9, 0)
	assert.ErrorIs(t, err, booking.ErrSeatOutOfRange)

	_, err = env.service.ConfirmTicketType(ctx, "", id, 1, 1, booking.TicketAdult)
	assert.ErrorIs(t, err, booking.ErrNoPendingSelection)

	_, err = env.service.Get(ctx, "", "missing")
	assert.ErrorIs(t, err, ErrSelectionNotFound)
}

func TestSeatService_OwnerIsolation(t *testing.T) {
	env := newSeatEnv(t, nil)
	ctx := context.Background()
	id := env.open(t, utils.HashToken("alice"))

	_, err := env.service.Get(ctx, utils.HashToken("bob"), id)
	assert.ErrorIs(t, err, ErrSelectionNotFound)

	_, err = env.service.Get(ctx, "", id)
	assert.ErrorIs(t, err, ErrSelectionNotFound)

	_, err = env.service.Get(ctx, utils.HashToken("alice"), id)
	assert.NoError(t, err)
}

func TestSeatService_SubmitSuccess(t *testing.T) {
	env := newSeatEnv(t, nil)
	ctx := context.Background()
	id := env.open(t, "")
	env.pick(t, "", id, 0, 2, booking.TicketAdult)
	env.pick(t, "", id, 1, 0, booking.TicketStudent)

	outcome, e, err := env.service.Submit(ctx, id, "tok")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, int64(42), outcome.BookingID)
	assert.Equal(t, booking.NavigateSuccess, outcome.Navigation)
	assert.True(t, outcome.TotalPrice.Equal(decimal.NewFromInt(2200)))
	require.NotNil(t, e)
	assert.Equal(t, booking.StateSucceeded, e.State())
	assert.Equal(t, int32(1), env.backend.submitCalls.Load())
	assert.Equal(t, "tok", env.backend.lastToken)

	// the selection is gone once booked
	_, err = env.service.Get(ctx, "", id)
	assert.ErrorIs(t, err, ErrSelectionNotFound)

	ticket, err := env.tickets.FindByBookingID(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, ticket)
	assert.Equal(t, utils.HashToken("tok"), ticket.OwnerKey)
	assert.Equal(t, "Kelinzhan", ticket.Title)
	assert.Equal(t, []entity.TicketSeat{{Number: 3, TicketType: "adult"}, {Number: 8, TicketType: "student"}}, ticket.Seats)

	events := env.publisher.published()
	require.Len(t, events, 1)
	issued, ok := events[0].(TicketIssued)
	require.True(t, ok)
	assert.Equal(t, int64(42), issued.BookingID)
	assert.Equal(t, 7, issued.SessionID)

	// the booked seats come back taken for the next viewer
	next, err := env.service.Open(ctx, "", openRequest())
	require.NoError(t, err)
	assert.True(t, next.Grid().Seats[0][2].Taken)
	assert.True(t, next.Grid().Seats[1][0].Taken)
}

func TestSeatService_SubmitLocalFailuresSendNothing(t *testing.T) {
	env := newSeatEnv(t, nil)
	ctx := context.Background()
	id := env.open(t, "")

	_, _, err := env.service.Submit(ctx, id, "tok")
	assert.Equal(t, booking.KindEmptySelection, booking.KindOf(err))

	env.pick(t, "", id, 0, 0, booking.TicketAdult)
	_, e, err := env.service.Submit(ctx, id, "")
	assert.Equal(t, booking.KindUnauthenticated, booking.KindOf(err))
	assert.Equal(t, booking.NavigateLogin, booking.KindUnauthenticated.Navigation())
	require.NotNil(t, e)
	assert.Equal(t, booking.StateHasSelection, e.State())

	assert.Equal(t, int32(0), env.backend.submitCalls.Load())
	assert.Equal(t, 2, env.logs.FilterMessage("Submit refused").Len())
	assert.Zero(t, env.logs.FilterMessage("Booking rejected").Len())
}

func TestSeatService_SubmitConflictKeepsSelection(t *testing.T) {
	env := newSeatEnv(t, nil)
	ctx := context.Background()
	id := env.open(t, "")
	env.pick(t, "", id, 0, 0, booking.TicketAdult)

	env.backend.setSubmitErr(&booking.BackendError{StatusCode: http.StatusConflict})
	outcome, e, err := env.service.Submit(ctx, id, "tok")
	assert.Nil(t, outcome)
	require.ErrorIs(t, err, booking.ErrAlreadyBooked)
	require.NotNil(t, e)
	assert.Equal(t, booking.StateHasSelection, e.State())
	assert.Equal(t, booking.KindAlreadyBooked, e.LastError())
	assert.Equal(t, 0, env.tickets.count())

	stored, err := env.service.Get(ctx, utils.HashToken("tok"), id)
	require.NoError(t, err)
	assert.Equal(t, booking.KindAlreadyBooked, stored.LastError())
	assert.True(t, stored.Grid().Seats[0][0].Selected)

	// submitting claimed the selection for the token holder
	_, err = env.service.Get(ctx, "", id)
	assert.ErrorIs(t, err, ErrSelectionNotFound)

	env.backend.setSubmitErr(nil)
	outcome, _, err = env.service.Submit(ctx, id, "tok")
	require.NoError(t, err)
	assert.Equal(t, int64(42), outcome.BookingID)
	assert.Equal(t, int32(2), env.backend.submitCalls.Load())
}

func TestSeatService_ConcurrentSubmitSendsOnce(t *testing.T) {
	env := newSeatEnv(t, nil)
	env.backend.delay = 100 * time.Millisecond
	id := env.open(t, "")
	env.pick(t, "", id, 3, 3, booking.TicketChild)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		errs    []error
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := env.service.Submit(context.Background(), id, "tok")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				success++
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	require.Len(t, errs, 1)
	assert.True(t,
		errors.Is(errs[0], booking.ErrSubmissionInProgress) ||
			errors.Is(errs[0], repository.ErrSelectionBusy) ||
			errors.Is(errs[0], ErrSelectionNotFound),
		"unexpected error: %v", errs[0])
	assert.Equal(t, int32(1), env.backend.submitCalls.Load())
}

func TestSeatService_SelectionClosedDuringSubmit(t *testing.T) {
	env := newSeatEnv(t, nil)
	env.backend.delay = 100 * time.Millisecond
	id := env.open(t, "")
	env.pick(t, "", id, 0, 0, booking.TicketAdult)

	type result struct {
		outcome *booking.Outcome
		err     error
	}
	done := make(chan result, 1)
	go func() {
		outcome, _, err := env.service.Submit(context.Background(), id, "tok")
		done <- result{outcome, err}
	}()

	require.Eventually(t, func() bool { return env.backend.submitCalls.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, env.service.Close(context.Background(), utils.HashToken("tok"), id))

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, int64(42), res.outcome.BookingID)
	assert.Equal(t, 1, env.tickets.count())
}

func TestSeatService_SubmitWhileSubmittingIsRejected(t *testing.T) {
	env := newSeatEnv(t, nil)
	env.backend.delay = 150 * time.Millisecond
	ctx := context.Background()
	id := env.open(t, "")
	env.pick(t, "", id, 0, 0, booking.TicketAdult)

	done := make(chan error, 1)
	go func() {
		_, _, err := env.service.Submit(ctx, id, "tok")
		done <- err
	}()
	require.Eventually(t, func() bool { return env.backend.submitCalls.Load() == 1 }, time.Second, 5*time.Millisecond)

	owner := utils.HashToken("tok")
	e, err := env.service.Get(ctx, owner, id)
	require.NoError(t, err)
	assert.Equal(t, booking.StateSubmitting, e.State())

	_, _, err = env.service.Submit(ctx, id, "tok")
	assert.ErrorIs(t, err, booking.ErrSubmissionInProgress)

	require.NoError(t, <-done)
	assert.Equal(t, int32(1), env.backend.submitCalls.Load())
}

func TestSeatService_CloseRemovesSelection(t *testing.T) {
	env := newSeatEnv(t, nil)
	ctx := context.Background()
	id := env.open(t, "")

	require.NoError(t, env.service.Close(ctx, "", id))
	assert.ErrorIs(t, env.service.Close(ctx, "", id), ErrSelectionNotFound)
}
