package capcorn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sbergsmann/lookingcom-backend/internal/config"
)

// Client talks to the CapCorn reservation backend. All calls are plain
// request/response operations; any transport, status or decode failure is
// returned as an error and classified uniformly by callers.
type Client struct {
	baseURL  string
	system   string
	user     string
	password string
	hotelID  string
	pin      string
	http     *http.Client
	logger   *slog.Logger
}

func NewClient(cfg config.Config, logger *slog.Logger) *Client {
	return &Client{
		baseURL:  cfg.CapCornBaseURL,
		system:   cfg.CapCornSystem,
		user:     cfg.CapCornUser,
		password: cfg.CapCornPassword,
		hotelID:  cfg.CapCornHotelID,
		pin:      cfg.CapCornPIN,
		http:     &http.Client{Timeout: cfg.BackendTimeout},
		logger:   logger,
	}
}

// HotelID returns the configured hotel the gateway fronts.
func (c *Client) HotelID() string {
	return c.hotelID
}

// SearchRoomAvailability performs one availability query for a single
// (arrival, departure, party) window.
func (c *Client) SearchRoomAvailability(ctx context.Context, req AvailabilityRequest) (AvailabilityResponse, error) {
	body, err := buildAvailabilityXML(req)
	if err != nil {
		return AvailabilityResponse{}, err
	}

	q := url.Values{}
	q.Set("user", c.user)
	q.Set("password", c.password)
	q.Set("system", c.system)

	raw, err := c.post(ctx, "/RoomAvailability", q, body)
	if err != nil {
		return AvailabilityResponse{}, err
	}
	return parseAvailabilityXML(raw)
}

// CreateReservation submits a booking. A rejection by the backend is
// reported inside the response rather than as an error so the caller can
// surface the backend's message.
func (c *Client) CreateReservation(ctx context.Context, req ReservationRequest) (ReservationResponse, error) {
	body, err := buildReservationXML(req, time.Now())
	if err != nil {
		return ReservationResponse{}, err
	}

	q := url.Values{}
	q.Set("hotelId", req.HotelID)
	q.Set("pin", c.pin)

	if _, err := c.post(ctx, "/OTA_HotelResNotifRQ", q, body); err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return ReservationResponse{
				Success: false,
				Message: fmt.Sprintf("failed to create reservation: %d", se.code),
				Errors:  []string{se.body},
			}, nil
		}
		return ReservationResponse{}, err
	}

	return ReservationResponse{
		Success:       true,
		Message:       "reservation created successfully",
		ReservationID: req.ReservationID,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, query url.Values, body []byte) ([]byte, error) {
	u := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/xml")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read backend response: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug("backend call completed",
			"path", path,
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode, body: string(raw)}
	}
	return raw, nil
}

// statusError carries the backend's HTTP status and body for callers that
// need to distinguish rejections from transport failures.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("backend returned status %d", e.code)
}
