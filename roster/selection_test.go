package roster_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flyodesk/agency-console/roster"
)

func TestSelection_ToggleAndIDs(t *testing.T) {
	s := roster.NewSelection()
	s.Toggle(5)
	s.Toggle(2)
	s.Toggle(9)
	s.Toggle(5) // off again

	require.Equal(t, 2, s.Count())
	require.True(t, s.Has(2))
	require.False(t, s.Has(5))
	require.Equal(t, []int64{2, 9}, s.IDs(), "IDs come back in ascending order")
}

func TestSelection_ToggleAllOperatesOnVisibleRowsOnly(t *testing.T) {
	s := roster.NewSelection()
	s.Toggle(100) // selected but filtered out of view

	visible := []int64{1, 2, 3}
	s.ToggleAll(visible)
	require.Equal(t, []int64{1, 2, 3, 100}, s.IDs())

	// All visible selected: toggling again clears only the visible ones.
	s.ToggleAll(visible)
	require.Equal(t, []int64{100}, s.IDs(), "hidden selection survives the header toggle")
}

func TestSelection_ToggleAllWithPartialSelection(t *testing.T) {
	s := roster.NewSelection()
	s.Toggle(2)

	s.ToggleAll([]int64{1, 2, 3})
	require.Equal(t, []int64{1, 2, 3}, s.IDs(), "partial selection becomes select-all")
}

func TestSelection_Clear(t *testing.T) {
	s := roster.NewSelection()
	s.Toggle(1)
	s.Toggle(2)
	s.Clear()
	require.Zero(t, s.Count())
}
