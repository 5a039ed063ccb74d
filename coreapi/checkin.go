package coreapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// SeatPreferenceRecord is the per-booking seat preference payload stored by
// the check-in service. Preferences is kept opaque here; the seatmap package
// owns its structure.
type SeatPreferenceRecord struct {
	BookingRef  string          `json:"bookingRef"`
	Preferences json.RawMessage `json:"preferences"`
}

func (c *Client) SaveSeatPreferences(ctx context.Context, token string, rec SeatPreferenceRecord) error {
	url := c.businessURL(fmt.Sprintf("/checkin/%s/seat-preferences", rec.BookingRef))
	_, err := c.doJSON(ctx, token, http.MethodPut, url, rec)
	return err
}

func (c *Client) GetSeatPreferences(ctx context.Context, token, bookingRef string) (SeatPreferenceRecord, error) {
	url := c.businessURL(fmt.Sprintf("/checkin/%s/seat-preferences", bookingRef))
	raw, err := c.doJSON(ctx, token, http.MethodGet, url, nil)
	if err != nil {
		return SeatPreferenceRecord{}, err
	}
	return decode[SeatPreferenceRecord](raw)
}
