package seatmap

import (
	"fmt"
	"math/rand"
)

// SeatType classifies a seat by its position in the row. The mapping is fixed
// for the 6-across cabin: A and F are windows, C and D are aisles, B and E
// are middles.
type SeatType string

const (
	Window SeatType = "window"
	Middle SeatType = "middle"
	Aisle  SeatType = "aisle"
)

// Seat is one cell of the preview map. It is derived data, regenerated from
// scratch for every preview; nothing here is real seat inventory and nothing
// here may drive an actual seat assignment.
type Seat struct {
	ID               string   `json:"id"`
	Row              int      `json:"row"`
	Letter           string   `json:"letter"`
	Type             SeatType `json:"type"`
	IsAvailable      bool     `json:"isAvailable"`
	IsSelected       bool     `json:"isSelected"`
	StrategyPriority int      `json:"strategyPriority,omitempty"`
}

const (
	rowCount      = 10
	rowLetters    = "ABCDEF"
	availabilityP = 0.7
)

// Availability decides whether a generated seat shows as available. It is an
// injected dependency so the preview's randomness can be replaced with a
// deterministic source in tests.
type Availability func(row int, letter string) bool

// RandomAvailability draws each seat independently with P(available) = 0.7
// from the given source. Successive previews over the same map will differ;
// that is accepted because the widget is a non-binding preview.
func RandomAvailability(r *rand.Rand) Availability {
	return func(int, string) bool {
		return r.Float64() < availabilityP
	}
}

// AllAvailable marks every seat available.
func AllAvailable() Availability {
	return func(int, string) bool { return true }
}

// Generate builds the fixed 10-row, 6-across map with availability drawn from
// the given source.
func Generate(available Availability) []Seat {
	seats := make([]Seat, 0, rowCount*len(rowLetters))
	for row := 1; row <= rowCount; row++ {
		for _, letter := range rowLetters {
			l := string(letter)
			seats = append(seats, Seat{
				ID:          fmt.Sprintf("%d%s", row, l),
				Row:         row,
				Letter:      l,
				Type:        classify(l),
				IsAvailable: available(row, l),
			})
		}
	}
	return seats
}

func classify(letter string) SeatType {
	switch letter {
	case "A", "F":
		return Window
	case "C", "D":
		return Aisle
	default:
		return Middle
	}
}
