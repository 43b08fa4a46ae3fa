package booking

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type State string

const (
	StateEmpty        State = "empty"
	StateHasSelection State = "has_selection"
	StateSubmitting   State = "submitting"
	StateSucceeded    State = "succeeded"
	StateFailed       State = "failed"
)

type Navigation string

const (
	NavigateNone    Navigation = ""
	NavigateSuccess Navigation = "success"
	NavigateLogin   Navigation = "login"
)

// Showing holds the navigation params the details screen passes along.
type Showing struct {
	SessionID   int     `json:"session_id"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Cinema      string  `json:"cinema"`
	CinemaID    int     `json:"cinema_id"`
	Price       float64 `json:"price"`
	PosterImage string  `json:"poster_image"`
	BgImage     string  `json:"bg_image"`
	Title       string  `json:"title"`
}

// PendingSelection is a tapped seat waiting for its ticket type.
type PendingSelection struct {
	Row    int `json:"row"`
	Col    int `json:"col"`
	Number int `json:"number"`
}

type BookingRequest struct {
	SessionID  int             `json:"session_id" validate:"required,min=1"`
	Seats      []SelectedSeat  `json:"seats" validate:"required,min=1,dive"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// MarshalJSON writes total_price as a JSON number.
func (r BookingRequest) MarshalJSON() ([]byte, error) {
	type plain BookingRequest
	return json.Marshal(struct {
		plain
		TotalPrice json.Number `json:"total_price"`
	}{
		plain:      plain(r),
		TotalPrice: json.Number(r.TotalPrice.String()),
	})
}

// Confirmation is the backend's 201 body; only the id is relied upon.
type Confirmation struct {
	ID     int64  `json:"id" validate:"required,min=1"`
	Status string `json:"status,omitempty"`
}

type Outcome struct {
	BookingID  int64           `json:"booking_id"`
	SessionID  int             `json:"session_id"`
	Seats      []SelectedSeat  `json:"seats"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Navigation Navigation      `json:"navigation"`
}

// Engine is the seat-selection state machine for one showing.
// It is not safe for concurrent use; callers serialize access per selection.
type Engine struct {
	id        string
	showing   Showing
	grid      Grid
	pricing   Pricing
	pending   *PendingSelection
	state     State
	lastError ErrorKind
	totals    Totals
	updatedAt time.Time
}

func NewEngine(id string, showing Showing, grid Grid, pricing Pricing) *Engine {
	if pricing == nil {
		pricing = DefaultPricing()
	}
	e := &Engine{
		id:      id,
		showing: showing,
		grid:    grid.Clone(),
		pricing: pricing.clone(),
	}
	e.refresh()
	return e
}

func (e *Engine) ID() string           { return e.id }
func (e *Engine) Showing() Showing     { return e.showing }
func (e *Engine) Grid() Grid           { return e.grid.Clone() }
func (e *Engine) Pricing() Pricing     { return e.pricing.clone() }
func (e *Engine) State() State         { return e.state }
func (e *Engine) LastError() ErrorKind { return e.lastError }
func (e *Engine) UpdatedAt() time.Time { return e.updatedAt }

func (e *Engine) Pending() *PendingSelection {
	if e.pending == nil {
		return nil
	}
	p := *e.pending
	return &p
}

// Totals returns the selected seats and their summed price.
func (e *Engine) Totals() Totals {
	return Totals{
		Seats:      append([]SelectedSeat{}, e.totals.Seats...),
		TotalPrice: e.totals.TotalPrice,
	}
}

// SelectSeat handles a tap on a seat. Taken seats are ignored. An unselected
// seat becomes pending and the caller must ask for a ticket type. A selected
// seat is deselected immediately.
func (e *Engine) SelectSeat(row, col int) (bool, error) {
	if e.state == StateSucceeded {
		return false, ErrSelectionClosed
	}
	if !e.grid.InBounds(row, col) {
		return false, fmt.Errorf("%w: row %d col %d", ErrSeatOutOfRange, row, col)
	}

	seat := &e.grid.Seats[row][col]
	switch {
	case seat.Taken:
		return false, nil
	case !seat.Selected:
		e.pending = &PendingSelection{Row: row, Col: col, Number: seat.Number}
		e.touch()
		return true, nil
	default:
		seat.Selected = false
		seat.TicketType = ""
		if e.pending != nil && e.pending.Row == row && e.pending.Col == col {
			e.pending = nil
		}
		e.refresh()
		return false, nil
	}
}

// ConfirmTicketType completes a pending selection on the same seat.
func (e *Engine) ConfirmTicketType(row, col int, t TicketType) error {
	if e.state == StateSucceeded {
		return ErrSelectionClosed
	}
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTicketType, t)
	}
	if e.pending == nil || e.pending.Row != row || e.pending.Col != col {
		return fmt.Errorf("%w: row %d col %d", ErrNoPendingSelection, row, col)
	}

	seat := &e.grid.Seats[row][col]
	if seat.Taken {
		e.pending = nil
		e.touch()
		return fmt.Errorf("%w: seat %d is taken", ErrNoPendingSelection, seat.Number)
	}

	seat.Selected = true
	seat.TicketType = t
	e.pending = nil
	e.refresh()
	return nil
}

// CancelPending dismisses the ticket-type prompt without selecting.
func (e *Engine) CancelPending() {
	if e.pending == nil {
		return
	}
	e.pending = nil
	e.touch()
}

// BeginSubmit validates the selection locally and moves to Submitting.
// No request may be sent when it returns an error.
func (e *Engine) BeginSubmit(token string) (*BookingRequest, error) {
	switch e.state {
	case StateSucceeded:
		return nil, ErrSelectionClosed
	case StateSubmitting:
		return nil, ErrSubmissionInProgress
	}

	if len(e.totals.Seats) == 0 {
		return nil, newError(KindEmptySelection)
	}
	if token == "" {
		return nil, newError(KindUnauthenticated)
	}

	req := &BookingRequest{
		SessionID:  e.showing.SessionID,
		Seats:      append([]SelectedSeat{}, e.totals.Seats...),
		TotalPrice: e.totals.TotalPrice,
	}

	e.state = StateSubmitting
	e.lastError = ""
	e.touch()
	return req, nil
}

// CompleteSubmit applies the result of the backend call started by BeginSubmit.
// On failure the selection is kept and the state returns to HasSelection.
func (e *Engine) CompleteSubmit(req BookingRequest, conf *Confirmation, err error) (*Outcome, error) {
	if err == nil && conf == nil {
		err = fmt.Errorf("empty confirmation")
	}

	if err != nil {
		be := Classify(err)
		e.state = StateFailed
		e.lastError = be.Kind
		e.refresh()
		return nil, be
	}

	e.state = StateSucceeded
	e.pending = nil
	e.lastError = ""
	e.touch()
	return NewOutcome(req, conf), nil
}

// NewOutcome builds the success outcome for a confirmed request.
func NewOutcome(req BookingRequest, conf *Confirmation) *Outcome {
	return &Outcome{
		BookingID:  conf.ID,
		SessionID:  req.SessionID,
		Seats:      append([]SelectedSeat{}, req.Seats...),
		TotalPrice: req.TotalPrice,
		Navigation: NavigateSuccess,
	}
}

// refresh recomputes totals and the derived Empty/HasSelection state.
// Submitting and Succeeded are left alone; Failed falls back to a selection state.
func (e *Engine) refresh() {
	e.totals = ComputeTotals(e.grid, e.pricing)
	switch e.state {
	case StateSubmitting, StateSucceeded:
	default:
		if len(e.totals.Seats) == 0 {
			e.state = StateEmpty
		} else {
			e.state = StateHasSelection
		}
	}
	e.touch()
}

func (e *Engine) touch() {
	e.updatedAt = time.Now().UTC()
}
