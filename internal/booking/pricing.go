package booking

import "github.com/shopspring/decimal"

// Pricing maps each ticket type to its price in the local currency.
type Pricing map[TicketType]decimal.Decimal

func NewPricing(adult, child, student int64) Pricing {
	return Pricing{
		TicketAdult:   decimal.NewFromInt(adult),
		TicketChild:   decimal.NewFromInt(child),
		TicketStudent: decimal.NewFromInt(student),
	}
}

func DefaultPricing() Pricing {
	return NewPricing(1200, 800, 1000)
}

func (p Pricing) PriceOf(t TicketType) decimal.Decimal {
	if price, ok := p[t]; ok {
		return price
	}
	return decimal.Zero
}

func (p Pricing) clone() Pricing {
	out := make(Pricing, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

type SelectedSeat struct {
	Number     int        `json:"number" validate:"required,min=1"`
	TicketType TicketType `json:"ticket_type" validate:"required,oneof=adult child student"`
}

type Totals struct {
	Seats      []SelectedSeat  `json:"selected_seats"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// ComputeTotals scans the grid row-major and sums the price of every selected seat.
func ComputeTotals(g Grid, p Pricing) Totals {
	totals := Totals{
		Seats:      []SelectedSeat{},
		TotalPrice: decimal.Zero,
	}

	for _, row := range g.Seats {
		for _, seat := range row {
			if !seat.Selected {
				continue
			}
			totals.Seats = append(totals.Seats, SelectedSeat{
				Number:     seat.Number,
				TicketType: seat.TicketType,
			})
			totals.TotalPrice = totals.TotalPrice.Add(p.PriceOf(seat.TicketType))
		}
	}

	return totals
}
