package booking

import (
	"fmt"
	"time"
)

// Snapshot is the persisted form of an Engine, stored between requests.
type Snapshot struct {
	ID        string            `json:"id"`
	Owner     string            `json:"owner,omitempty"`
	Showing   Showing           `json:"showing"`
	Grid      Grid              `json:"grid"`
	Pricing   Pricing           `json:"pricing"`
	Pending   *PendingSelection `json:"pending,omitempty"`
	State     State             `json:"state"`
	LastError ErrorKind         `json:"last_error,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		ID:        e.id,
		Showing:   e.showing,
		Grid:      e.grid.Clone(),
		Pricing:   e.pricing.clone(),
		Pending:   e.Pending(),
		State:     e.state,
		LastError: e.lastError,
		UpdatedAt: e.updatedAt,
	}
}

// Restore rebuilds an Engine from a snapshot. Totals are recomputed from the
// grid, and a snapshot whose seats break the grid invariants is rejected.
func Restore(s Snapshot) (*Engine, error) {
	if s.Grid.Capacity() == 0 {
		return nil, fmt.Errorf("snapshot %s: empty grid", s.ID)
	}
	for _, row := range s.Grid.Seats {
		for _, seat := range row {
			if seat.Taken && seat.Selected {
				return nil, fmt.Errorf("snapshot %s: seat %d is taken and selected", s.ID, seat.Number)
			}
			if seat.Selected && !seat.TicketType.Valid() {
				return nil, fmt.Errorf("snapshot %s: seat %d has no ticket type", s.ID, seat.Number)
			}
		}
	}
	if s.Pending != nil && !s.Grid.InBounds(s.Pending.Row, s.Pending.Col) {
		return nil, fmt.Errorf("snapshot %s: pending seat out of range", s.ID)
	}

	pricing := s.Pricing
	if len(pricing) == 0 {
		pricing = DefaultPricing()
	}

	e := &Engine{
		id:        s.ID,
		showing:   s.Showing,
		grid:      s.Grid.Clone(),
		pricing:   pricing.clone(),
		state:     s.State,
		lastError: s.LastError,
	}
	if s.Pending != nil {
		p := *s.Pending
		e.pending = &p
	}
	e.totals = ComputeTotals(e.grid, e.pricing)
	e.updatedAt = s.UpdatedAt
	if e.state == "" {
		e.state = StateEmpty
	}
	return e, nil
}
