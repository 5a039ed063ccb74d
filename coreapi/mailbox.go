package coreapi

import (
	"context"
	"net/http"
)

// AddEmailBoxRequest links a shared mailbox to the agency account. Exactly one
// of Code or the RefreshToken/IDToken pair is set, depending on which side
// performed the token exchange:
//
//   - outlook: the raw authorization code, exchanged by the backend
//   - gmail: refresh_token + id_token, exchanged by this service
type AddEmailBoxRequest struct {
	Provider     string `json:"provider"`
	Code         string `json:"code,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	IDToken      string `json:"idToken,omitempty"`
}

// LinkedEmail is a mailbox attached to the agency profile.
type LinkedEmail struct {
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

func (c *Client) AddEmailBox(ctx context.Context, token string, req AddEmailBoxRequest) (LinkedEmail, error) {
	raw, err := c.doJSON(ctx, token, http.MethodPost, c.businessURL("/emailBox"), req)
	if err != nil {
		return LinkedEmail{}, err
	}
	return decode[LinkedEmail](raw)
}
