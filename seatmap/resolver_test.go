package seatmap_test

import (
	"math/rand"
	"testing"

	"github.com/flyodesk/agency-console/seatmap"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Classification(t *testing.T) {
	seats := seatmap.Generate(seatmap.AllAvailable())
	require.Len(t, seats, 60)

	byID := make(map[string]seatmap.Seat, len(seats))
	for _, s := range seats {
		byID[s.ID] = s
	}

	require.Equal(t, seatmap.Window, byID["1A"].Type)
	require.Equal(t, seatmap.Middle, byID["1B"].Type)
	require.Equal(t, seatmap.Aisle, byID["1C"].Type)
	require.Equal(t, seatmap.Aisle, byID["1D"].Type)
	require.Equal(t, seatmap.Middle, byID["1E"].Type)
	require.Equal(t, seatmap.Window, byID["10F"].Type)
}

func TestGenerate_DeterministicWithSeededSource(t *testing.T) {
	first := seatmap.Generate(seatmap.RandomAvailability(rand.New(rand.NewSource(42))))
	second := seatmap.Generate(seatmap.RandomAvailability(rand.New(rand.NewSource(42))))
	require.Equal(t, first, second)
}

func TestResolve_NearWindowSelectsOnlyAvailableWindows(t *testing.T) {
	// Columns A and D unavailable, everything else available.
	avail := func(row int, letter string) bool {
		return letter != "A" && letter != "D"
	}
	seats := seatmap.Resolve(
		[]seatmap.Strategy{{ID: "s1", Priority: 1, Preference: seatmap.NearWindow, IsActive: true}},
		seatmap.Generate(avail),
	)

	selected := 0
	for _, s := range seats {
		if s.IsSelected {
			selected++
			require.Equal(t, seatmap.Window, s.Type)
			require.True(t, s.IsAvailable)
			require.Equal(t, "F", s.Letter) // A column is unavailable
			require.Equal(t, 1, s.StrategyPriority)
		}
	}
	require.Equal(t, 10, selected)
}

func TestResolve_EmptyStrategyListSelectsNothing(t *testing.T) {
	seats := seatmap.Resolve(nil, seatmap.Generate(seatmap.AllAvailable()))
	for _, s := range seats {
		require.False(t, s.IsSelected)
		require.Zero(t, s.StrategyPriority)
	}
}

func TestResolve_NoPriorityOneIsANoOp(t *testing.T) {
	strategies := []seatmap.Strategy{
		{ID: "s2", Priority: 2, Preference: seatmap.NearWindow, IsActive: true},
		{ID: "s3", Priority: 3, Preference: seatmap.NearAisle, IsActive: true},
	}
	seats := seatmap.Resolve(strategies, seatmap.Generate(seatmap.AllAvailable()))
	for _, s := range seats {
		require.False(t, s.IsSelected)
	}
}

func TestResolve_DuplicatePriorityOnePicksFirst(t *testing.T) {
	strategies := []seatmap.Strategy{
		{ID: "first", Priority: 1, Preference: seatmap.NearWindow, IsActive: true},
		{ID: "second", Priority: 1, Preference: seatmap.NearAisle, IsActive: true},
	}
	seats := seatmap.Resolve(strategies, seatmap.Generate(seatmap.AllAvailable()))
	for _, s := range seats {
		if s.IsSelected {
			require.Equal(t, seatmap.Window, s.Type)
		}
	}
}

// Worked example: 1C and 1D are aisle seats and available, 1A is a window
// seat and available; a priority-1 near_aisle strategy must select exactly
// the aisle pair in row 1.
func TestResolve_NearAisleWorkedExample(t *testing.T) {
	avail := func(row int, letter string) bool { return row == 1 }
	seats := seatmap.Resolve(
		[]seatmap.Strategy{{ID: "s1", Priority: 1, Preference: seatmap.NearAisle, IsActive: true}},
		seatmap.Generate(avail),
	)

	var selected []string
	for _, s := range seats {
		if s.IsSelected {
			selected = append(selected, s.ID)
		}
	}
	require.ElementsMatch(t, []string{"1C", "1D"}, selected)
}

func TestResolve_PredicateTable(t *testing.T) {
	cases := []struct {
		pref     seatmap.Preference
		selected map[seatmap.SeatType]bool
	}{
		{seatmap.NearWindow, map[seatmap.SeatType]bool{seatmap.Window: true}},
		{seatmap.NearAisle, map[seatmap.SeatType]bool{seatmap.Aisle: true}},
		{seatmap.TogetherWindow, map[seatmap.SeatType]bool{seatmap.Window: true, seatmap.Middle: true}},
		{seatmap.TogetherAisle, map[seatmap.SeatType]bool{seatmap.Aisle: true, seatmap.Middle: true}},
		{seatmap.SeatsTogether, map[seatmap.SeatType]bool{seatmap.Window: true, seatmap.Middle: true, seatmap.Aisle: true}},
		{seatmap.AnySeat, map[seatmap.SeatType]bool{seatmap.Window: true, seatmap.Middle: true, seatmap.Aisle: true}},
		{seatmap.Preference("unheard_of"), map[seatmap.SeatType]bool{seatmap.Window: true, seatmap.Middle: true, seatmap.Aisle: true}},
	}

	for _, tc := range cases {
		t.Run(string(tc.pref), func(t *testing.T) {
			seats := seatmap.Resolve(
				[]seatmap.Strategy{{ID: "s1", Priority: 1, Preference: tc.pref, IsActive: true}},
				seatmap.Generate(seatmap.AllAvailable()),
			)
			for _, s := range seats {
				require.Equal(t, tc.selected[s.Type], s.IsSelected, "seat %s", s.ID)
			}
		})
	}
}

func TestResolve_UnavailableSeatsNeverSelected(t *testing.T) {
	none := func(int, string) bool { return false }
	seats := seatmap.Resolve(
		[]seatmap.Strategy{{ID: "s1", Priority: 1, Preference: seatmap.SeatsTogether, IsActive: true}},
		seatmap.Generate(none),
	)
	for _, s := range seats {
		require.False(t, s.IsSelected)
	}
}
