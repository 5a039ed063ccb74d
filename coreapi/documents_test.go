package coreapi_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flyodesk/agency-console/coreapi"
)

func TestParseTicketResponse_AcceptedShapes(t *testing.T) {
	want := coreapi.TicketParse{
		PassengerName: "Jo Smith",
		FlightNumber:  "SK1429",
		DepartureDate: "2026-09-14",
		Origin:        "CPH",
		Destination:   "ARN",
		Seats:         []string{"14A", "14B"},
	}

	cases := map[string]string{
		"nested ticket": `{"ticket": {"passengerName": "Jo Smith", "flightNumber": "SK1429",
			"departureDate": "2026-09-14", "origin": "CPH", "destination": "ARN", "seats": ["14A", "14B"]}}`,
		"data wrapped": `{"data": {"ticket": {"passengerName": "Jo Smith", "flightNumber": "SK1429",
			"departureDate": "2026-09-14", "origin": "CPH", "destination": "ARN", "seats": ["14A", "14B"]}}}`,
		"parsed key": `{"parsed": {"passenger": "Jo Smith", "flight": "SK1429",
			"date": "2026-09-14", "from": "CPH", "to": "ARN", "seats": ["14A", "14B"]}}`,
		"results array": `{"results": [{"name": "Jo Smith", "flightNumber": "SK1429",
			"departureDate": "2026-09-14", "origin": "CPH", "destination": "ARN", "seats": ["14A", "14B"]}]}`,
		"flat": `{"passengerName": "Jo Smith", "flightNumber": "SK1429",
			"departureDate": "2026-09-14", "origin": "CPH", "destination": "ARN", "seats": ["14A", "14B"]}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := coreapi.ParseTicketResponse(json.RawMessage(payload))
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}
}

func TestParseTicketResponse_NonStringSeatsAreDropped(t *testing.T) {
	got, err := coreapi.ParseTicketResponse(json.RawMessage(
		`{"flightNumber": "SK1429", "seats": ["14A", 7, null, "14B"]}`))
	require.NoError(t, err)
	require.Equal(t, []string{"14A", "14B"}, got.Seats)
}

func TestParseTicketResponse_Unrecognizable(t *testing.T) {
	_, err := coreapi.ParseTicketResponse(json.RawMessage(`{"unrelated": true}`))
	require.Error(t, err)

	_, err = coreapi.ParseTicketResponse(json.RawMessage(`[1, 2, 3]`))
	require.Error(t, err)
}

func TestValidateUpload(t *testing.T) {
	t.Run("accepted types", func(t *testing.T) {
		for _, name := range []string{"passport.pdf", "scan.JPG", "photo.jpeg", "page.png"} {
			require.NoError(t, coreapi.ValidateUpload(name, 1024, coreapi.MaxPassportSize), name)
		}
	})

	t.Run("rejected type", func(t *testing.T) {
		err := coreapi.ValidateUpload("notes.docx", 1024, coreapi.MaxPassportSize)
		require.Error(t, err)
		require.Contains(t, err.Error(), ".docx")
	})

	t.Run("over the limit", func(t *testing.T) {
		err := coreapi.ValidateUpload("big.pdf", coreapi.MaxPassportSize+1, coreapi.MaxPassportSize)
		require.Error(t, err)
		require.Contains(t, err.Error(), "5MB")
	})

	t.Run("ticket limit is higher", func(t *testing.T) {
		require.NoError(t, coreapi.ValidateUpload("ticket.pdf", coreapi.MaxPassportSize+1, coreapi.MaxTicketSize))
	})

	t.Run("empty file", func(t *testing.T) {
		require.Error(t, coreapi.ValidateUpload("empty.pdf", 0, coreapi.MaxPassportSize))
	})
}
