package booking

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Submitter posts a booking request to the backend on behalf of the token holder.
type Submitter interface {
	SubmitBooking(ctx context.Context, token string, req BookingRequest) (*Confirmation, error)
}

const DefaultSubmitTimeout = 15 * time.Second

// Booker sends booking requests with a bounded wait.
type Booker struct {
	submitter Submitter
	timeout   time.Duration
	expired   func(token string) bool
	log       *zap.Logger
}

type BookerOption func(*Booker)

func WithTimeout(d time.Duration) BookerOption {
	return func(b *Booker) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithExpiryCheck rejects tokens the check reports as expired without a round trip.
func WithExpiryCheck(expired func(token string) bool) BookerOption {
	return func(b *Booker) { b.expired = expired }
}

func NewBooker(submitter Submitter, log *zap.Logger, opts ...BookerOption) *Booker {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Booker{
		submitter: submitter,
		timeout:   DefaultSubmitTimeout,
		log:       log.With(zap.String("component", "booker")),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Dispatch performs exactly one backend call for req.
func (b *Booker) Dispatch(ctx context.Context, token string, req BookingRequest) (*Confirmation, error) {
	if b.expired != nil && b.expired(token) {
		b.log.Info("token expired before submit", zap.Int("session_id", req.SessionID))
		return nil, newError(KindLoginRequired)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	conf, err := b.submitter.SubmitBooking(ctx, token, req)
	if err != nil {
		b.log.Warn("booking submit failed",
			zap.Int("session_id", req.SessionID),
			zap.Int("seats", len(req.Seats)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	b.log.Info("booking confirmed",
		zap.Int("session_id", req.SessionID),
		zap.Int64("booking_id", conf.ID),
		zap.String("total_price", req.TotalPrice.String()),
	)
	return conf, nil
}

// Submit runs the whole submission against e in one call.
// Callers that hold e across requests split it into BeginSubmit, Dispatch and CompleteSubmit.
func (b *Booker) Submit(ctx context.Context, e *Engine, token string) (*Outcome, error) {
	req, err := e.BeginSubmit(token)
	if err != nil {
		return nil, err
	}
	conf, err := b.Dispatch(ctx, token, *req)
	return e.CompleteSubmit(*req, conf, err)
}
