package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kino-tickets/internal/booking"
	"kino-tickets/internal/data/repository"
	"kino-tickets/internal/dto/request"
	"kino-tickets/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const lockWait = 2 * time.Second

type SeatService interface {
	Open(ctx context.Context, owner string, req *request.OpenSelectionRequest) (*booking.Engine, error)
	Get(ctx context.Context, owner, id string) (*booking.Engine, error)
	SelectSeat(ctx context.Context, owner, id string, row, col int) (*booking.Engine, error)
	ConfirmTicketType(ctx context.Context, owner, id string, row, col int, ticketType booking.TicketType) (*booking.Engine, error)
	CancelPending(ctx context.Context, owner, id string) (*booking.Engine, error)
	Close(ctx context.Context, owner, id string) error

	// Submit books the selection for the token holder. On failure the returned
	// engine reflects the selection after the attempt and may be nil when
	// the selection is gone.
	Submit(ctx context.Context, id, token string) (*booking.Outcome, *booking.Engine, error)
}

type seatService struct {
	repo    *repository.Repository
	tickets TicketService
	booker  *booking.Booker
	pricing booking.Pricing
	config  utils.BookingConfig
	log     *zap.Logger
}

func NewSeatService(
	repo *repository.Repository,
	tickets TicketService,
	booker *booking.Booker,
	config utils.BookingConfig,
	log *zap.Logger,
) SeatService {
	return &seatService{
		repo:    repo,
		tickets: tickets,
		booker:  booker,
		pricing: booking.NewPricing(config.PriceAdult, config.PriceChild, config.PriceStudent),
		config:  config,
		log:     log.With(zap.String("service", "seat")),
	}
}

func (s *seatService) Open(ctx context.Context, owner string, req *request.OpenSelectionRequest) (*booking.Engine, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Open selection validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	taken, err := s.availability(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	grid, err := booking.GenerateGrid(s.config.Rows, s.config.Columns, taken)
	if err != nil {
		return nil, fmt.Errorf("generate grid: %w", err)
	}

	e := booking.NewEngine(uuid.NewString(), req.Showing(), grid, s.pricing)
	snap := e.Snapshot()
	snap.Owner = owner

	if err := s.repo.Selection.Save(ctx, snap, s.config.SelectionTTL); err != nil {
		return nil, fmt.Errorf("save selection: %w", err)
	}

	s.log.Info("Selection opened",
		zap.String("selection_id", e.ID()),
		zap.Int("session_id", req.SessionID),
		zap.Int("seats", grid.Capacity()),
	)

	return e, nil
}

// availability decides which seats start out taken for a session.
func (s *seatService) availability(ctx context.Context, sessionID int) (booking.Availability, error) {
	if s.config.Inventory == utils.InventoryRandom {
		return booking.RandomAvailability(nil), nil
	}

	numbers, err := s.repo.Ticket.FindTakenSeats(ctx, sessionID)
	if err != nil {
		s.log.Error("Failed to load taken seats", zap.Error(err), zap.Int("session_id", sessionID))
		return nil, fmt.Errorf("load taken seats for session %d: %w", sessionID, err)
	}
	return booking.TakenSet(numbers), nil
}

func (s *seatService) Get(ctx context.Context, owner, id string) (*booking.Engine, error) {
	snap, err := s.load(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	return booking.Restore(*snap)
}

func (s *seatService) SelectSeat(ctx context.Context, owner, id string, row, col int) (*booking.Engine, error) {
	return s.mutate(ctx, owner, id, func(e *booking.Engine) error {
		_, err := e.SelectSeat(row, col)
		return err
	})
}

func (s *seatService) ConfirmTicketType(ctx context.Context, owner, id string, row, col int, ticketType booking.TicketType) (*booking.Engine, error) {
	return s.mutate(ctx, owner, id, func(e *booking.Engine) error {
		return e.ConfirmTicketType(row, col, ticketType)
	})
}

func (s *seatService) CancelPending(ctx context.Context, owner, id string) (*booking.Engine, error) {
	return s.mutate(ctx, owner, id, func(e *booking.Engine) error {
		e.CancelPending()
		return nil
	})
}

func (s *seatService) Close(ctx context.Context, owner, id string) error {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.load(ctx, owner, id); err != nil {
		return err
	}

	if err := s.repo.Selection.Delete(ctx, id); err != nil {
		return fmt.Errorf("close selection: %w", err)
	}

	s.log.Info("Selection closed", zap.String("selection_id", id))
	return nil
}

func (s *seatService) Submit(ctx context.Context, id, token string) (*booking.Outcome, *booking.Engine, error) {
	owner := utils.HashToken(token)

	var req *booking.BookingRequest
	e, err := s.mutate(ctx, owner, id, func(e *booking.Engine) error {
		r, err := e.BeginSubmit(token)
		if err != nil {
			return err
		}
		req = r
		return nil
	})
	if err != nil {
		if kind := booking.KindOf(err); kind.Local() {
			s.log.Info("Submit refused", zap.String("selection_id", id), zap.String("kind", string(kind)))
		}
		return nil, e, err
	}
	showing := e.Showing()

	// the booking may finish even if the client goes away
	ctx = context.WithoutCancel(ctx)

	conf, dispatchErr := s.booker.Dispatch(ctx, token, *req)

	var (
		outcome *booking.Outcome
		bookErr error
	)
	e, err = s.mutate(ctx, owner, id, func(e *booking.Engine) error {
		outcome, bookErr = e.CompleteSubmit(*req, conf, dispatchErr)
		return nil
	})

	if err != nil {
		if !errors.Is(err, ErrSelectionNotFound) {
			s.log.Error("Failed to store submit result", zap.Error(err), zap.String("selection_id", id))
		}
		// selection closed or expired mid-flight; the backend result still stands
		if dispatchErr != nil || conf == nil {
			return nil, nil, booking.Classify(dispatchErr)
		}
		outcome = booking.NewOutcome(*req, conf)
		e = nil
		if err := s.repo.Selection.Delete(ctx, id); err != nil {
			s.log.Warn("Failed to delete booked selection", zap.Error(err), zap.String("selection_id", id))
		}
	} else if bookErr != nil {
		s.log.Warn("Booking rejected",
			zap.String("selection_id", id),
			zap.String("kind", string(booking.KindOf(bookErr))),
			zap.Error(bookErr),
		)
		return nil, e, bookErr
	}

	if _, err := s.tickets.Record(ctx, owner, showing, outcome); err != nil {
		s.log.Error("Failed to record ticket",
			zap.Error(err),
			zap.Int64("booking_id", outcome.BookingID),
		)
	}

	return outcome, e, nil
}

// mutate runs fn on the stored selection under its lock and persists the result.
// A selection that reached Succeeded is removed instead of saved. The engine is
// returned even when fn fails so callers can render the current state.
func (s *seatService) mutate(ctx context.Context, owner, id string, fn func(e *booking.Engine) error) (*booking.Engine, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	snap, err := s.load(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	e, err := booking.Restore(*snap)
	if err != nil {
		s.log.Error("Stored selection is corrupt", zap.Error(err), zap.String("selection_id", id))
		return nil, fmt.Errorf("restore selection %s: %w", id, err)
	}

	if fnErr := fn(e); fnErr != nil {
		return e, fnErr
	}

	if e.State() == booking.StateSucceeded {
		if err := s.repo.Selection.Delete(ctx, id); err != nil {
			s.log.Warn("Failed to delete booked selection", zap.Error(err), zap.String("selection_id", id))
		}
		return e, nil
	}

	next := e.Snapshot()
	next.Owner = snap.Owner
	if next.Owner == "" {
		next.Owner = owner
	}
	if err := s.repo.Selection.Save(ctx, next, s.config.SelectionTTL); err != nil {
		return nil, fmt.Errorf("save selection: %w", err)
	}

	return e, nil
}

func (s *seatService) lock(ctx context.Context, id string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	unlock, err := s.repo.Selection.Lock(lockCtx, id, s.config.LockTTL)
	if err != nil {
		if errors.Is(err, repository.ErrSelectionBusy) {
			s.log.Warn("Selection busy", zap.String("selection_id", id))
		}
		return nil, err
	}
	return unlock, nil
}

// load finds a selection the caller may access. Selections opened without a
// token are open to anyone holding the id until a token holder claims them.
func (s *seatService) load(ctx context.Context, owner, id string) (*booking.Snapshot, error) {
	snap, err := s.repo.Selection.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find selection: %w", err)
	}
	if snap == nil || (snap.Owner != "" && snap.Owner != owner) {
		return nil, fmt.Errorf("%w: %s", ErrSelectionNotFound, id)
	}
	return snap, nil
}
