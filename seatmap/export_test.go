package seatmap_test

import (
	"testing"

	"github.com/flyodesk/agency-console/seatmap"
	"github.com/stretchr/testify/require"
)

func TestExportImport_RoundTrip(t *testing.T) {
	p := seatmap.NewPreferences()
	for count := seatmap.MinPassengers; count <= seatmap.MaxPassengers; count++ {
		for i := 0; i < count; i++ {
			s, err := p.Add(count)
			require.NoError(t, err)
			require.NoError(t, p.Update(count, seatmap.Strategy{
				ID:          s.ID,
				Preference:  seatmap.NearAisle,
				Description: "aisle",
				IsActive:    true,
			}))
		}
	}
	// Give one bucket a non-trivial order before exporting.
	require.NoError(t, p.Move(4, 3, 0))

	data, err := seatmap.Export(p)
	require.NoError(t, err)

	got, err := seatmap.Import(data)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestImport_RenumbersStalePriorities(t *testing.T) {
	payload := []byte(`{
		"2": [
			{"id": "a", "priority": 7, "preference": "near_window", "isActive": true},
			{"id": "b", "priority": 3, "preference": "near_aisle", "isActive": true}
		]
	}`)

	p, err := seatmap.Import(payload)
	require.NoError(t, err)
	require.Len(t, p[2], 2)
	require.Equal(t, 1, p[2][0].Priority)
	require.Equal(t, 2, p[2][1].Priority)
	require.Equal(t, "a", p[2][0].ID, "order is preserved, ranks are re-derived")
}

func TestImport_Rejections(t *testing.T) {
	t.Run("not json", func(t *testing.T) {
		_, err := seatmap.Import([]byte("not json"))
		require.Error(t, err)
	})

	t.Run("non numeric bucket", func(t *testing.T) {
		_, err := seatmap.Import([]byte(`{"two": []}`))
		require.Error(t, err)
	})

	t.Run("bucket out of range", func(t *testing.T) {
		_, err := seatmap.Import([]byte(`{"9": []}`))
		require.Error(t, err)
	})
}
