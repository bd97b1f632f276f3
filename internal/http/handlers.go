package http

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/sbergsmann/lookingcom-backend/internal/analytics"
	"github.com/sbergsmann/lookingcom-backend/internal/capcorn"
	"github.com/sbergsmann/lookingcom-backend/internal/config"
	"github.com/sbergsmann/lookingcom-backend/internal/models"
	"github.com/sbergsmann/lookingcom-backend/internal/obs"
	"github.com/sbergsmann/lookingcom-backend/internal/search"
)

// BackendClient is the slice of the backend client the handlers depend on.
type BackendClient interface {
	SearchRoomAvailability(ctx context.Context, req capcorn.AvailabilityRequest) (capcorn.AvailabilityResponse, error)
	CreateReservation(ctx context.Context, req capcorn.ReservationRequest) (capcorn.ReservationResponse, error)
}

type Handler struct {
	sweep       search.SweepService
	backend     BackendClient
	recorder    *analytics.Recorder
	ratelimiter search.RateLimiter
	metrics     *obs.Metrics
}

func NewHandler(sweep search.SweepService, backend BackendClient, recorder *analytics.Recorder, rl search.RateLimiter, m *obs.Metrics) *Handler {
	return &Handler{sweep: sweep, backend: backend, recorder: recorder, ratelimiter: rl, metrics: m}
}

func (h *Handler) ipFromRequest(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func requestID(r *http.Request) string {
	// chi's middleware.RequestID sets X-Request-Id header
	if id := r.Header.Get("X-Request-Id"); id != "" {
		return id
	}
	return uuid.New().String()
}

// SweepSearch handles the flexible-duration room search: every sliding
// window of the requested duration inside the timespan is searched in
// parallel and the options are returned as one date-tagged list.
func (h *Handler) SweepSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.metrics.IncSweepSearches()
	reqID := requestID(r)

	var req models.SweepSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body: "+err.Error(), map[string]string{"request_id": reqID})
		return
	}
	if err := req.Validate(); err != nil {
		BadRequest(w, err.Error(), map[string]string{"request_id": reqID})
		return
	}

	ip := h.ipFromRequest(r)
	if !h.ratelimiter.Allow(ip) {
		h.metrics.IncRateLimitDrops()
		TooManyRequests(w, "rate limit exceeded", map[string]string{"request_id": reqID})
		return
	}

	res, err := h.sweep.Search(ctx, search.SweepRequest{
		Language:     req.Language,
		Timespan:     req.Timespan,
		DurationDays: req.Duration,
		Adults:       req.Adults,
		ChildAges:    req.ChildAges(),
	})
	if err != nil {
		if errors.Is(err, search.ErrInvalidRange) || errors.Is(err, search.ErrNoWindows) {
			BadRequest(w, err.Error(), map[string]string{"request_id": reqID})
			return
		}
		InternalError(w, "failed to search room availability: "+err.Error(), map[string]string{"request_id": reqID})
		return
	}

	// Recorded once per request, after the join, never inside the
	// per-window tasks.
	h.recorder.LogRoomSearch(map[string]any{
		"language": req.Language,
		"from":     req.Timespan.From.String(),
		"to":       req.Timespan.To.String(),
		"duration": req.Duration,
		"adults":   req.Adults,
		"children": len(req.Children),
	}, res.TotalOptions)

	WriteJSON(w, http.StatusOK, res)
}

// Availability is the direct single-window passthrough in the backend's
// original request shape.
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	var req capcorn.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body: "+err.Error(), map[string]string{"request_id": reqID})
		return
	}
	if err := req.Validate(); err != nil {
		BadRequest(w, err.Error(), map[string]string{"request_id": reqID})
		return
	}

	ip := h.ipFromRequest(r)
	if !h.ratelimiter.Allow(ip) {
		h.metrics.IncRateLimitDrops()
		TooManyRequests(w, "rate limit exceeded", map[string]string{"request_id": reqID})
		return
	}

	resp, err := h.backend.SearchRoomAvailability(r.Context(), req)
	if err != nil {
		h.metrics.IncBackendError("room_availability")
		InternalError(w, "failed to search room availability: "+err.Error(), map[string]string{"request_id": reqID})
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

// CreateReservation books a room option through the backend.
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	var req capcorn.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body: "+err.Error(), map[string]string{"request_id": reqID})
		return
	}
	if err := req.Validate(); err != nil {
		BadRequest(w, err.Error(), map[string]string{"request_id": reqID})
		return
	}

	resp, err := h.backend.CreateReservation(r.Context(), req)
	if err != nil {
		h.metrics.IncReservations("error")
		h.metrics.IncBackendError("reservation")
		InternalError(w, "failed to create reservation: "+err.Error(), map[string]string{"request_id": reqID})
		return
	}
	if !resp.Success {
		h.metrics.IncReservations("rejected")
		WriteJSON(w, http.StatusBadRequest, resp)
		return
	}

	h.metrics.IncReservations("created")
	h.recorder.LogReservation(map[string]any{
		"hotel_id":       req.HotelID,
		"room_type_code": req.RoomTypeCode,
		"arrival":        req.Arrival.String(),
		"departure":      req.Departure.String(),
		"total_amount":   req.TotalAmount,
		"reservation_id": req.ReservationID,
	})
	WriteJSON(w, http.StatusCreated, resp)
}

// AnalyticsSummary reports aggregated search and reservation statistics
// for the last 1-24 hours.
func (h *Handler) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	hours := 24
	if v := r.URL.Query().Get("hours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 24 {
			BadRequest(w, "hours must be an integer between 1 and 24", nil)
			return
		}
		hours = n
	}
	WriteJSON(w, http.StatusOK, h.recorder.Summarize(hours))
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"app":     config.AppName,
		"version": config.AppVersion,
	})
}
