package coreapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flyodesk/agency-console/coreapi"
)

func TestClient_ListPassengers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/core/v1/admin/passengers", r.URL.Path)
		require.Equal(t, "Bearer agent-jwt", r.Header.Get("Authorization"))
		require.Equal(t, "smith", r.URL.Query().Get("query"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"passengers": []map[string]any{
					{"id": 1, "firstName": "Jo", "lastName": "Smith", "email": "jo@x.test", "bookingCount": 4},
				},
				"total": 1,
			},
		})
	}))
	defer srv.Close()

	c := coreapi.NewWithBaseURL(srv.URL)
	page, err := c.ListPassengers(context.Background(), "agent-jwt", "smith", 0, 25)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, "Smith", page.Passengers[0].LastName)
	require.Equal(t, 4, page.Passengers[0].BookingCount)
}

func TestClient_BusinessFailureInA200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "passenger has open bookings",
		})
	}))
	defer srv.Close()

	c := coreapi.NewWithBaseURL(srv.URL)
	err := c.DeletePassenger(context.Background(), "agent-jwt", 9)
	require.Error(t, err)

	var apiErr *coreapi.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "passenger has open bookings", apiErr.Message, "the backend message is surfaced literally")
}

func TestClient_NonTwoHundredWithJSONMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "duplicate email"})
	}))
	defer srv.Close()

	c := coreapi.NewWithBaseURL(srv.URL)
	_, err := c.CreateClient(context.Background(), "agent-jwt", coreapi.ClientInput{Name: "N", Email: "n@x.test"})

	var apiErr *coreapi.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
	require.Equal(t, "duplicate email", apiErr.Message)
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream down</html>"))
	}))
	defer srv.Close()

	c := coreapi.NewWithBaseURL(srv.URL)
	_, err := c.ListTrips(context.Background(), "agent-jwt", "")

	var apiErr *coreapi.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Contains(t, apiErr.Error(), "502")
}

func TestClient_MergePassengersCarriesAllIDs(t *testing.T) {
	var got coreapi.MergePassengersRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/core/v1/admin/passengers/merge", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"id": 3, "firstName": "Jo", "lastName": "Smith", "email": "jo@x.test"},
		})
	}))
	defer srv.Close()

	c := coreapi.NewWithBaseURL(srv.URL)
	merged, err := c.MergePassengers(context.Background(), "agent-jwt", coreapi.MergePassengersRequest{
		IDs: []int64{3, 5, 8}, FirstName: "Jo", LastName: "Smith", Email: "jo@x.test",
	})
	require.NoError(t, err)
	require.Equal(t, []int64{3, 5, 8}, got.IDs)
	require.Equal(t, int64(3), merged.ID)
}

func TestClient_ContextCancellationAbortsRequest(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	c := coreapi.NewWithBaseURL(srv.URL)
	_, err := c.ListTrips(ctx, "agent-jwt", "")
	require.ErrorIs(t, err, context.Canceled)
}
