package roster_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flyodesk/agency-console/coreapi"
	"github.com/flyodesk/agency-console/roster"
)

func TestBulkDelete_AllSucceed(t *testing.T) {
	var calls []int64
	deleted, err := roster.BulkDelete(context.Background(), []int64{1, 2, 3}, func(_ context.Context, id int64) error {
		calls = append(calls, id)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, deleted)
	require.Equal(t, []int64{1, 2, 3}, calls)
}

func TestBulkDelete_FirstFailureAborts(t *testing.T) {
	var calls []int64
	deleted, err := roster.BulkDelete(context.Background(), []int64{10, 20, 30, 40}, func(_ context.Context, id int64) error {
		calls = append(calls, id)
		if id == 30 {
			return fmt.Errorf("backend said no")
		}
		return nil
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "30", "error must reference the failing ID")
	require.Equal(t, []int64{10, 20}, deleted, "exactly the IDs before the failure are gone")
	require.Equal(t, []int64{10, 20, 30}, calls, "IDs after the failure are never attempted")
}

func TestBulkDelete_Empty(t *testing.T) {
	deleted, err := roster.BulkDelete(context.Background(), nil, func(context.Context, int64) error {
		t.Fatal("delete must not be called")
		return nil
	})
	require.NoError(t, err)
	require.Empty(t, deleted)
}

type fakePassengerAPI struct {
	updated     map[int64]coreapi.PassengerInput
	deleteCalls []int64
	failDeletes map[int64]error
	failUpdate  error
}

func newFakePassengerAPI() *fakePassengerAPI {
	return &fakePassengerAPI{
		updated:     make(map[int64]coreapi.PassengerInput),
		failDeletes: make(map[int64]error),
	}
}

func (f *fakePassengerAPI) UpdatePassenger(_ context.Context, _ string, id int64, in coreapi.PassengerInput) (coreapi.Passenger, error) {
	if f.failUpdate != nil {
		return coreapi.Passenger{}, f.failUpdate
	}
	f.updated[id] = in
	return coreapi.Passenger{ID: id, FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}, nil
}

func (f *fakePassengerAPI) DeletePassenger(_ context.Context, _ string, id int64) error {
	f.deleteCalls = append(f.deleteCalls, id)
	return f.failDeletes[id]
}

func (f *fakePassengerAPI) MergePassengers(context.Context, string, coreapi.MergePassengersRequest) (coreapi.Passenger, error) {
	return coreapi.Passenger{}, nil
}

func TestLegacyMergePassengers_BestEffortThroughDeleteFailures(t *testing.T) {
	api := newFakePassengerAPI()
	api.failDeletes[21] = fmt.Errorf("record is locked")

	canonical := coreapi.PassengerInput{FirstName: "Dana", LastName: "Reyes", Email: "dana@agency.test"}
	result, err := roster.LegacyMergePassengers(context.Background(), api, "tok", 10, []int64{20, 21, 22}, canonical)
	require.NoError(t, err, "a failed secondary delete does not fail the merge")

	require.Equal(t, int64(10), result.Primary.ID)
	require.Equal(t, canonical, api.updated[10])
	require.Equal(t, []int64{20, 21, 22}, api.deleteCalls, "the loop continues past the failure")
	require.Equal(t, []int64{20, 22}, result.Removed)
	require.Equal(t, []int64{21}, result.Orphaned, "the failed secondary is reported, not hidden")
}

func TestLegacyMergePassengers_PrimaryUpdateFailureAborts(t *testing.T) {
	api := newFakePassengerAPI()
	api.failUpdate = fmt.Errorf("validation failed upstream")

	_, err := roster.LegacyMergePassengers(context.Background(), api, "tok", 10, []int64{20}, coreapi.PassengerInput{})
	require.Error(t, err)
	require.Empty(t, api.deleteCalls, "no secondary is deleted when the primary update fails")
}

func TestPassengerMergeDefaults(t *testing.T) {
	selected := []coreapi.Passenger{
		{ID: 3, FirstName: "Ada", LastName: "Byron", Email: "ada@agency.test"},
		{ID: 7, FirstName: "Grace", LastName: "Hopper", Email: "grace@agency.test"},
	}
	req := roster.PassengerMergeDefaults(selected)
	require.Equal(t, []int64{3, 7}, req.IDs)
	require.Equal(t, "Ada", req.FirstName)
	require.Equal(t, "Byron", req.LastName)
	require.Equal(t, "ada@agency.test", req.Email)
}
