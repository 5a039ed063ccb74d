package seatmap

import (
	"fmt"

	"github.com/google/uuid"
)

// Preference tags a strategy with the rule used when resolving the preview.
// Unknown tags fall back to "any available seat" at resolution time.
type Preference string

const (
	NearWindow        Preference = "near_window"
	NearAisle         Preference = "near_aisle"
	TogetherWindow    Preference = "together_window"
	TogetherAisle     Preference = "together_aisle"
	SeatsTogether     Preference = "seats_together"
	AnySeat           Preference = "any_seat"
	CustomArrangement Preference = "custom_arrangement"
)

// Strategy is one named seat-preference rule. Priority is a 1-based rank
// within its passenger-count bucket; lower means higher priority.
type Strategy struct {
	ID          string     `json:"id"`
	Priority    int        `json:"priority"`
	Preference  Preference `json:"preference"`
	Description string     `json:"description"`
	Seats       []string   `json:"seats,omitempty"`
	IsActive    bool       `json:"isActive"`
}

// Preferences maps a passenger count (1 through 4) to its ordered strategy
// list. Order is significant: it defines priority, and priorities are always
// re-derived from array position after any mutation.
type Preferences map[int][]Strategy

// MinPassengers and MaxPassengers bound the bucket keys.
const (
	MinPassengers = 1
	MaxPassengers = 4
)

// NewPreferences returns an empty bucket for every passenger count.
func NewPreferences() Preferences {
	p := make(Preferences, MaxPassengers)
	for count := MinPassengers; count <= MaxPassengers; count++ {
		p[count] = []Strategy{}
	}
	return p
}

// Clone returns a deep copy, seat lists included, so the result can be read
// or marshalled while another goroutine keeps mutating the original.
func (p Preferences) Clone() Preferences {
	out := make(Preferences, len(p))
	for count, bucket := range p {
		copied := make([]Strategy, len(bucket))
		copy(copied, bucket)
		for i := range copied {
			copied[i].Seats = append([]string(nil), bucket[i].Seats...)
		}
		out[count] = copied
	}
	return out
}

// renumber overwrites every strategy's Priority with its array position + 1,
// keeping the dense-ranking invariant after every add, delete and reorder.
func renumber(strategies []Strategy) {
	for i := range strategies {
		strategies[i].Priority = i + 1
	}
}

// Add appends a new strategy with defaults to the bucket and returns it.
func (p Preferences) Add(passengerCount int) (Strategy, error) {
	if err := p.checkBucket(passengerCount); err != nil {
		return Strategy{}, err
	}
	s := Strategy{
		ID:          uuid.New().String(),
		Preference:  SeatsTogether,
		Description: "New strategy",
		IsActive:    true,
	}
	p[passengerCount] = append(p[passengerCount], s)
	renumber(p[passengerCount])
	return p[passengerCount][len(p[passengerCount])-1], nil
}

// Update replaces the editable fields of the strategy with the given ID.
func (p Preferences) Update(passengerCount int, updated Strategy) error {
	if err := p.checkBucket(passengerCount); err != nil {
		return err
	}
	bucket := p[passengerCount]
	for i := range bucket {
		if bucket[i].ID == updated.ID {
			bucket[i].Preference = updated.Preference
			bucket[i].Description = updated.Description
			bucket[i].Seats = updated.Seats
			bucket[i].IsActive = updated.IsActive
			return nil
		}
	}
	return fmt.Errorf("[Update] strategy %s not found in bucket %d", updated.ID, passengerCount)
}

// Delete removes the strategy with the given ID and renumbers the rest.
func (p Preferences) Delete(passengerCount int, id string) error {
	if err := p.checkBucket(passengerCount); err != nil {
		return err
	}
	bucket := p[passengerCount]
	for i := range bucket {
		if bucket[i].ID == id {
			p[passengerCount] = append(bucket[:i], bucket[i+1:]...)
			renumber(p[passengerCount])
			return nil
		}
	}
	return fmt.Errorf("[Delete] strategy %s not found in bucket %d", id, passengerCount)
}

// Move relocates the strategy at fromIndex to toIndex within the bucket, then
// renumbers the whole bucket. This is the drag-and-drop drop handler.
func (p Preferences) Move(passengerCount, fromIndex, toIndex int) error {
	if err := p.checkBucket(passengerCount); err != nil {
		return err
	}
	bucket := p[passengerCount]
	if fromIndex < 0 || fromIndex >= len(bucket) || toIndex < 0 || toIndex >= len(bucket) {
		return fmt.Errorf("[Move] index out of range (from=%d to=%d len=%d)", fromIndex, toIndex, len(bucket))
	}
	moved := bucket[fromIndex]
	bucket = append(bucket[:fromIndex], bucket[fromIndex+1:]...)

	rest := make([]Strategy, 0, len(bucket)+1)
	rest = append(rest, bucket[:toIndex]...)
	rest = append(rest, moved)
	rest = append(rest, bucket[toIndex:]...)

	renumber(rest)
	p[passengerCount] = rest
	return nil
}

func (p Preferences) checkBucket(passengerCount int) error {
	if passengerCount < MinPassengers || passengerCount > MaxPassengers {
		return fmt.Errorf("[checkBucket] passenger count %d out of range", passengerCount)
	}
	if _, ok := p[passengerCount]; !ok {
		p[passengerCount] = []Strategy{}
	}
	return nil
}
