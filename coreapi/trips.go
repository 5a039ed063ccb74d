package coreapi

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Flight is a single leg inside a trip.
type Flight struct {
	ID            int64     `json:"id"`
	FlightNumber  string    `json:"flightNumber"`
	Airline       string    `json:"airline"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
}

// Trip groups the flights booked together, with the backend-computed
// check-in state per passenger.
type Trip struct {
	ID             int64    `json:"id"`
	BookingRef     string   `json:"bookingRef"`
	Flights        []Flight `json:"flights"`
	PassengerIDs   []int64  `json:"passengerIds"`
	CheckInStatus  string   `json:"checkInStatus"`
	PassengerCount int      `json:"passengerCount"`
}

// ListTrips returns upcoming trips for the agency, optionally filtered by a
// free-text query.
func (c *Client) ListTrips(ctx context.Context, token, query string) ([]Trip, error) {
	u := c.businessURL("/trips")
	if query != "" {
		u += "?query=" + url.QueryEscape(query)
	}
	raw, err := c.doJSON(ctx, token, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]Trip](raw)
}
