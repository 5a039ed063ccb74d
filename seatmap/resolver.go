package seatmap

// Resolve annotates the seat list with the preview highlight for the single
// top-priority strategy. It cannot fail: with no priority-1 strategy (empty
// list, corrupted data) it returns the seats untouched, and duplicate
// priority-1 entries resolve to the first one in list order.
//
// The result is rendering input only; it has no side effects and is never
// persisted.
func Resolve(strategies []Strategy, seats []Seat) []Seat {
	var top *Strategy
	for i := range strategies {
		if strategies[i].Priority == 1 {
			top = &strategies[i]
			break
		}
	}
	if top == nil {
		return seats
	}

	for i := range seats {
		if matches(top.Preference, seats[i]) {
			seats[i].IsSelected = true
			seats[i].StrategyPriority = top.Priority
		}
	}
	return seats
}

// matches is the highlight predicate per preference tag. Unavailable seats
// never match. Unknown tags (any_seat, custom_arrangement, typos) fall back
// to "any available seat".
func matches(pref Preference, seat Seat) bool {
	if !seat.IsAvailable {
		return false
	}
	switch pref {
	case NearWindow:
		return seat.Type == Window
	case NearAisle:
		return seat.Type == Aisle
	case TogetherWindow:
		return seat.Type == Window || seat.Type == Middle
	case TogetherAisle:
		return seat.Type == Aisle || seat.Type == Middle
	case SeatsTogether:
		// Togetherness is not enforced at this layer; any available seat can
		// be part of a together group.
		return true
	default:
		return true
	}
}
