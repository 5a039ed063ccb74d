package roster

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/flyodesk/agency-console/coreapi"
)

// PassengerAPI is the slice of the core API the merge/delete orchestration
// needs. *coreapi.Client satisfies it.
type PassengerAPI interface {
	UpdatePassenger(ctx context.Context, token string, id int64, in coreapi.PassengerInput) (coreapi.Passenger, error)
	DeletePassenger(ctx context.Context, token string, id int64) error
	MergePassengers(ctx context.Context, token string, req coreapi.MergePassengersRequest) (coreapi.Passenger, error)
}

// BulkDelete deletes IDs one by one (there is no bulk endpoint). The first
// failure aborts the loop: earlier IDs are gone, later ones untouched, and
// the returned error names the ID that failed. Callers refresh the list from
// the backend afterwards either way.
func BulkDelete(ctx context.Context, ids []int64, deleteFn func(ctx context.Context, id int64) error) ([]int64, error) {
	deleted := make([]int64, 0, len(ids))
	for _, id := range ids {
		if err := deleteFn(ctx, id); err != nil {
			return deleted, fmt.Errorf("delete of record %d failed: %w", id, err)
		}
		deleted = append(deleted, id)
	}
	return deleted, nil
}

// PassengerMergeDefaults prefills the canonical fields of a merge form from
// the first selected record. The agent confirms or edits them before the
// merge is submitted.
func PassengerMergeDefaults(selected []coreapi.Passenger) coreapi.MergePassengersRequest {
	req := coreapi.MergePassengersRequest{}
	for _, p := range selected {
		req.IDs = append(req.IDs, p.ID)
	}
	if len(selected) > 0 {
		req.FirstName = selected[0].FirstName
		req.LastName = selected[0].LastName
		req.Email = selected[0].Email
	}
	return req
}

// ClientMergeDefaults mirrors PassengerMergeDefaults for client contacts.
func ClientMergeDefaults(selected []coreapi.ClientRecord) coreapi.MergeClientsRequest {
	req := coreapi.MergeClientsRequest{}
	for _, c := range selected {
		req.IDs = append(req.IDs, c.ID)
	}
	if len(selected) > 0 {
		req.Name = selected[0].Name
		req.Email = selected[0].Email
	}
	return req
}

// LegacyMergeResult reports what the synthesized merge actually did. Orphaned
// holds secondaries whose delete failed: they are still present on the
// backend even though the merge "succeeded".
type LegacyMergeResult struct {
	Primary  coreapi.Passenger
	Removed  []int64
	Orphaned []int64
}

// LegacyMergePassengers synthesizes a merge for the legacy path, where the
// backend has no atomic merge endpoint: the primary record is updated with
// the canonical fields, then each secondary is deleted sequentially,
// best-effort. A failed secondary delete is logged and the loop continues,
// which can leave orphaned records behind. That partial-failure policy is
// long-standing product behavior; do not quietly make it transactional.
func LegacyMergePassengers(ctx context.Context, api PassengerAPI, token string, primaryID int64, secondaryIDs []int64, canonical coreapi.PassengerInput) (LegacyMergeResult, error) {
	primary, err := api.UpdatePassenger(ctx, token, primaryID, canonical)
	if err != nil {
		return LegacyMergeResult{}, fmt.Errorf("[LegacyMergePassengers] update primary %d: %w", primaryID, err)
	}

	result := LegacyMergeResult{Primary: primary}
	for _, id := range secondaryIDs {
		if err := api.DeletePassenger(ctx, token, id); err != nil {
			log.Warn().Err(err).Int64("passengerID", id).Msg("legacy merge: secondary delete failed, continuing")
			result.Orphaned = append(result.Orphaned, id)
			continue
		}
		result.Removed = append(result.Removed, id)
	}
	return result, nil
}
