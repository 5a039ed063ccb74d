package coreapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/flyodesk/agency-console/internal/utils"
)

// Upload limits per endpoint. Passports are capped lower than tickets.
const (
	MaxPassportSize = 5 << 20  // 5MB
	MaxTicketSize   = 10 << 20 // 10MB
)

var allowedUploadExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidateUpload checks file type and size before anything is sent over the
// wire, mirroring what the console enforces in the upload dialogs.
func ValidateUpload(filename string, size, maxSize int64) error {
	ext := strings.ToLower(path.Ext(filename))
	if !allowedUploadExtensions[ext] {
		return fmt.Errorf("unsupported file type %q: only PDF, JPG and PNG are accepted", ext)
	}
	if size <= 0 {
		return fmt.Errorf("file %q is empty", filename)
	}
	if size > maxSize {
		return fmt.Errorf("file %q exceeds the %dMB limit", filename, maxSize>>20)
	}
	return nil
}

// PassportDoc is a stored travel document attached to a passenger.
type PassportDoc struct {
	ID             int64  `json:"id"`
	PassengerID    int64  `json:"passengerId"`
	DocumentNumber string `json:"documentNumber"`
	Nationality    string `json:"nationality"`
	ExpiryDate     string `json:"expiryDate"`
	FileName       string `json:"fileName"`
}

// UploadPassport uploads a passport scan plus its metadata as multipart form
// data and returns the stored document.
func (c *Client) UploadPassport(ctx context.Context, token string, passengerID int64, doc PassportDoc, filename string, content io.Reader) (PassportDoc, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"documentNumber": doc.DocumentNumber,
		"nationality":    doc.Nationality,
		"expiryDate":     doc.ExpiryDate,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return PassportDoc{}, fmt.Errorf("[UploadPassport] write field %s: %w", name, err)
		}
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return PassportDoc{}, fmt.Errorf("[UploadPassport] create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return PassportDoc{}, fmt.Errorf("[UploadPassport] copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return PassportDoc{}, fmt.Errorf("[UploadPassport] close multipart writer: %w", err)
	}

	url := c.adminURL(fmt.Sprintf("/passengers/%d/passport", passengerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return PassportDoc{}, fmt.Errorf("[UploadPassport] build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	raw, err := c.send(req, token)
	if err != nil {
		return PassportDoc{}, err
	}
	return decode[PassportDoc](raw)
}

func (c *Client) DeletePassport(ctx context.Context, token string, passengerID, documentID int64) error {
	url := c.adminURL(fmt.Sprintf("/passengers/%d/passport/%d", passengerID, documentID))
	_, err := c.doJSON(ctx, token, http.MethodDelete, url, nil)
	return err
}

// TicketParse is the canonical result of a ticket upload. The backend's parser
// has shipped several response shapes over time; everything past this adapter
// only ever sees this struct.
type TicketParse struct {
	PassengerName string   `json:"passengerName"`
	FlightNumber  string   `json:"flightNumber"`
	DepartureDate string   `json:"departureDate"`
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	Seats         []string `json:"seats,omitempty"`
}

// UploadTicket uploads a ticket for parsing and normalizes whatever shape the
// backend answers with.
func (c *Client) UploadTicket(ctx context.Context, token, filename string, content io.Reader) (TicketParse, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return TicketParse{}, fmt.Errorf("[UploadTicket] create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return TicketParse{}, fmt.Errorf("[UploadTicket] copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return TicketParse{}, fmt.Errorf("[UploadTicket] close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.businessURL("/tickets/upload"), body)
	if err != nil {
		return TicketParse{}, fmt.Errorf("[UploadTicket] build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	raw, err := c.send(req, token)
	if err != nil {
		return TicketParse{}, err
	}
	return ParseTicketResponse(raw)
}

// ticketWire is the superset of field spellings the parser endpoint has been
// seen to return. Nested variants are tried before the flat one.
type ticketWire struct {
	PassengerName string `json:"passengerName"`
	Passenger     string `json:"passenger"`
	Name          string `json:"name"`
	FlightNumber  string `json:"flightNumber"`
	Flight        string `json:"flight"`
	DepartureDate string `json:"departureDate"`
	Date          string `json:"date"`
	Origin        string `json:"origin"`
	From          string `json:"from"`
	Destination   string `json:"destination"`
	To            string `json:"to"`
	Seats         []any  `json:"seats"`
}

// ParseTicketResponse maps any accepted wire shape to the canonical
// TicketParse. Accepted shapes, in order of preference:
//
//	{"ticket": {...}}
//	{"data": {"ticket": {...}}}
//	{"parsed": {...}}
//	{"results": [{...}]}
//	{...} (flat)
func ParseTicketResponse(raw json.RawMessage) (TicketParse, error) {
	var nested struct {
		Ticket *ticketWire `json:"ticket"`
		Data   *struct {
			Ticket *ticketWire `json:"ticket"`
		} `json:"data"`
		Parsed  *ticketWire  `json:"parsed"`
		Results []ticketWire `json:"results"`
	}
	// Decode errors are ignored here: a flat payload will not match the nested
	// shape, and the flat attempt below has the final say.
	_ = json.Unmarshal(raw, &nested)

	var wire *ticketWire
	switch {
	case nested.Ticket != nil:
		wire = nested.Ticket
	case nested.Data != nil && nested.Data.Ticket != nil:
		wire = nested.Data.Ticket
	case nested.Parsed != nil:
		wire = nested.Parsed
	case len(nested.Results) > 0:
		wire = &nested.Results[0]
	default:
		var flat ticketWire
		if err := json.Unmarshal(raw, &flat); err != nil {
			return TicketParse{}, fmt.Errorf("[ParseTicketResponse] unrecognized ticket response: %w", err)
		}
		wire = &flat
	}

	parsed := TicketParse{
		PassengerName: utils.FirstNonEmpty(wire.PassengerName, wire.Passenger, wire.Name),
		FlightNumber:  utils.FirstNonEmpty(wire.FlightNumber, wire.Flight),
		DepartureDate: utils.FirstNonEmpty(wire.DepartureDate, wire.Date),
		Origin:        utils.FirstNonEmpty(wire.Origin, wire.From),
		Destination:   utils.FirstNonEmpty(wire.Destination, wire.To),
		Seats:         utils.ToStringSlice(wire.Seats),
	}
	if parsed.PassengerName == "" && parsed.FlightNumber == "" {
		return TicketParse{}, fmt.Errorf("[ParseTicketResponse] ticket response carried no recognizable fields")
	}
	return parsed, nil
}
