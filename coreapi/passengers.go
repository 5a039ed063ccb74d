package coreapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Passenger is a traveller record owned by the core API. BookingCount is
// backend-computed, which is why list refreshes always go back to the server
// instead of patching locally.
type Passenger struct {
	ID           int64         `json:"id"`
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone,omitempty"`
	DateOfBirth  string        `json:"dateOfBirth,omitempty"`
	BookingCount int           `json:"bookingCount"`
	Documents    []PassportDoc `json:"documents,omitempty"`
}

// PassengerInput carries the writable fields for create/update.
type PassengerInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

// PassengerPage is one page of a passenger listing.
type PassengerPage struct {
	Passengers []Passenger `json:"passengers"`
	Total      int         `json:"total"`
}

func (c *Client) ListPassengers(ctx context.Context, token, query string, offset, limit int) (PassengerPage, error) {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}
	params.Set("offset", fmt.Sprintf("%d", offset))
	params.Set("limit", fmt.Sprintf("%d", limit))

	raw, err := c.doJSON(ctx, token, http.MethodGet, c.adminURL("/passengers?"+params.Encode()), nil)
	if err != nil {
		return PassengerPage{}, err
	}
	return decode[PassengerPage](raw)
}

func (c *Client) GetPassenger(ctx context.Context, token string, id int64) (Passenger, error) {
	raw, err := c.doJSON(ctx, token, http.MethodGet, c.adminURL(fmt.Sprintf("/passengers/%d", id)), nil)
	if err != nil {
		return Passenger{}, err
	}
	return decode[Passenger](raw)
}

func (c *Client) CreatePassenger(ctx context.Context, token string, in PassengerInput) (Passenger, error) {
	raw, err := c.doJSON(ctx, token, http.MethodPost, c.adminURL("/passengers"), in)
	if err != nil {
		return Passenger{}, err
	}
	return decode[Passenger](raw)
}

func (c *Client) UpdatePassenger(ctx context.Context, token string, id int64, in PassengerInput) (Passenger, error) {
	raw, err := c.doJSON(ctx, token, http.MethodPut, c.adminURL(fmt.Sprintf("/passengers/%d", id)), in)
	if err != nil {
		return Passenger{}, err
	}
	return decode[Passenger](raw)
}

func (c *Client) DeletePassenger(ctx context.Context, token string, id int64) error {
	_, err := c.doJSON(ctx, token, http.MethodDelete, c.adminURL(fmt.Sprintf("/passengers/%d", id)), nil)
	return err
}

// MergePassengersRequest carries every selected ID plus the canonical fields
// the surviving record should end up with.
type MergePassengersRequest struct {
	IDs       []int64 `json:"ids"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
}

// MergePassengers merges the given records atomically on the backend.
func (c *Client) MergePassengers(ctx context.Context, token string, req MergePassengersRequest) (Passenger, error) {
	raw, err := c.doJSON(ctx, token, http.MethodPost, c.adminURL("/passengers/merge"), req)
	if err != nil {
		return Passenger{}, err
	}
	return decode[Passenger](raw)
}
