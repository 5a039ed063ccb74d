package coreapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ClientRecord is an agency client contact (the people who book, as opposed
// to the people who fly).
type ClientRecord struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Company   string `json:"company,omitempty"`
	TripCount int    `json:"tripCount"`
}

type ClientInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

func (c *Client) ListClients(ctx context.Context, token, query string) ([]ClientRecord, error) {
	u := c.adminURL("/clients")
	if query != "" {
		u += "?query=" + url.QueryEscape(query)
	}
	raw, err := c.doJSON(ctx, token, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]ClientRecord](raw)
}

func (c *Client) CreateClient(ctx context.Context, token string, in ClientInput) (ClientRecord, error) {
	raw, err := c.doJSON(ctx, token, http.MethodPost, c.adminURL("/clients"), in)
	if err != nil {
		return ClientRecord{}, err
	}
	return decode[ClientRecord](raw)
}

func (c *Client) UpdateClient(ctx context.Context, token string, id int64, in ClientInput) (ClientRecord, error) {
	raw, err := c.doJSON(ctx, token, http.MethodPut, c.adminURL(fmt.Sprintf("/clients/%d", id)), in)
	if err != nil {
		return ClientRecord{}, err
	}
	return decode[ClientRecord](raw)
}

func (c *Client) DeleteClient(ctx context.Context, token string, id int64) error {
	_, err := c.doJSON(ctx, token, http.MethodDelete, c.adminURL(fmt.Sprintf("/clients/%d", id)), nil)
	return err
}

type MergeClientsRequest struct {
	IDs   []int64 `json:"ids"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
}

func (c *Client) MergeClients(ctx context.Context, token string, req MergeClientsRequest) (ClientRecord, error) {
	raw, err := c.doJSON(ctx, token, http.MethodPost, c.adminURL("/clients/merge"), req)
	if err != nil {
		return ClientRecord{}, err
	}
	return decode[ClientRecord](raw)
}
