package booking

import (
	"fmt"
	"math/rand"
	"strings"
)

type TicketType string

const (
	TicketAdult   TicketType = "adult"
	TicketChild   TicketType = "child"
	TicketStudent TicketType = "student"
)

// TicketTypes lists the pricing categories in display order.
var TicketTypes = []TicketType{TicketAdult, TicketChild, TicketStudent}

func (t TicketType) Valid() bool {
	switch t {
	case TicketAdult, TicketChild, TicketStudent:
		return true
	}
	return false
}

// ParseTicketType accepts the lower-case wire names (adult, child, student).
func ParseTicketType(s string) (TicketType, error) {
	t := TicketType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicketType, s)
	}
	return t, nil
}

// Seat is one bookable position in a showing's layout.
// A taken seat is never selected, and a selected seat always has a ticket type.
type Seat struct {
	Number     int        `json:"number"`
	Taken      bool       `json:"taken"`
	Selected   bool       `json:"selected"`
	TicketType TicketType `json:"ticket_type,omitempty"`
}

const (
	DefaultRows    = 5
	DefaultColumns = 7
)

// Grid is the rows x columns seat arrangement of one showing.
type Grid struct {
	Rows    int      `json:"rows"`
	Columns int      `json:"columns"`
	Seats   [][]Seat `json:"seats"`
}

// Availability reports whether the seat with the given number is already taken.
type Availability func(number int) bool

// GenerateGrid numbers seats 1..rows*columns row-major. A nil taken function
// leaves every seat free.
func GenerateGrid(rows, columns int, taken Availability) (Grid, error) {
	if rows < 1 || columns < 1 {
		return Grid{}, fmt.Errorf("invalid grid size %dx%d", rows, columns)
	}

	grid := Grid{
		Rows:    rows,
		Columns: columns,
		Seats:   make([][]Seat, rows),
	}

	number := 1
	for i := 0; i < rows; i++ {
		row := make([]Seat, columns)
		for j := 0; j < columns; j++ {
			row[j] = Seat{
				Number: number,
				Taken:  taken != nil && taken(number),
			}
			number++
		}
		grid.Seats[i] = row
	}

	return grid, nil
}

// RandomAvailability marks each seat taken with probability 0.5.
// It stands in for a real inventory lookup. A nil rng uses the global source.
func RandomAvailability(rng *rand.Rand) Availability {
	return func(int) bool {
		if rng == nil {
			return rand.Intn(2) == 1
		}
		return rng.Intn(2) == 1
	}
}

// TakenSet marks exactly the given seat numbers as taken.
func TakenSet(numbers []int) Availability {
	set := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		set[n] = struct{}{}
	}
	return func(number int) bool {
		_, ok := set[number]
		return ok
	}
}

func (g Grid) InBounds(row, col int) bool {
	return row >= 0 && row < len(g.Seats) && col >= 0 && col < len(g.Seats[row])
}

func (g Grid) Capacity() int {
	n := 0
	for _, row := range g.Seats {
		n += len(row)
	}
	return n
}

// Clone returns a deep copy so callers can't mutate engine state.
func (g Grid) Clone() Grid {
	out := Grid{Rows: g.Rows, Columns: g.Columns, Seats: make([][]Seat, len(g.Seats))}
	for i, row := range g.Seats {
		out.Seats[i] = append([]Seat(nil), row...)
	}
	return out
}
