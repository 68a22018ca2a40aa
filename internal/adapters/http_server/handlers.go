// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"heritage_pulse/internal/app"
	"heritage_pulse/internal/domain"
)

// DiscoveryService is the pipeline surface the handlers need.
type DiscoveryService interface {
	Discover(ctx context.Context, req app.DiscoverRequest) (app.DiscoverResponse, error)
	GenerateItinerary(ctx context.Context, req app.ItineraryRequest) (domain.Itinerary, error)
	GetItinerary(ctx context.Context, id string) (domain.Itinerary, error)
	Route(ctx context.Context, coords []domain.Coordinates) (domain.RouteEstimate, error)
}

// Chatter is the conversation surface the handlers need.
type Chatter interface {
	SendMessage(ctx context.Context, conversationID, message string) (app.ChatReply, error)
	History(ctx context.Context, conversationID string) ([]domain.ChatMessage, error)
	Clear(ctx context.Context, conversationID string) error
}

type Handlers struct {
	Discovery DiscoveryService
	Chat      Chatter
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/heritage/discover", h.discover)
	s.mux.Post("/v1/heritage/route", h.route)
	s.mux.Post("/v1/itineraries", h.createItinerary)
	s.mux.Get("/v1/itineraries/{id}", h.getItinerary)
	s.mux.Post("/v1/chat", h.sendChat)
	s.mux.Get("/v1/chat/{conversationId}", h.chatHistory)
	s.mux.Delete("/v1/chat/{conversationId}", h.clearChat)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeServiceError maps domain sentinels onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrLocationNotFound):
		writeProblem(w, http.StatusNotFound, "Location Not Found", err.Error())
	case errors.Is(err, domain.ErrItineraryNotFound):
		writeProblem(w, http.StatusNotFound, "Itinerary Not Found", err.Error())
	case errors.Is(err, domain.ErrGeneration):
		writeProblem(w, http.StatusInternalServerError, "Generation Failed", "itinerary generation failed")
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "request could not be completed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

var clockRe = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

var validPaces = map[string]bool{"": true, "relaxed": true, "moderate": true, "packed": true}

func validLocation(loc string) bool {
	return len(strings.TrimSpace(loc)) >= 2
}

// validateRadius applies the default and bounds check shared by discover and
// itinerary requests.
func validateRadius(radiusKm *float64) (ok bool) {
	if *radiusKm == 0 {
		*radiusKm = 50
	}
	return *radiusKm >= 5 && *radiusKm <= 100
}

func validatePreferences(p domain.Preferences) string {
	if !validPaces[p.Pace] {
		return "pace must be one of relaxed, moderate, packed"
	}
	if p.StartTime != "" && !clockRe.MatchString(p.StartTime) {
		return "start_time must be HH:MM"
	}
	if p.EndTime != "" && !clockRe.MatchString(p.EndTime) {
		return "end_time must be HH:MM"
	}
	return ""
}

func (h *Handlers) discover(w http.ResponseWriter, r *http.Request) {
	var req app.DiscoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if !validLocation(req.Location) {
		writeProblem(w, http.StatusBadRequest, "Invalid Location", "location must be at least 2 characters")
		return
	}
	if !validateRadius(&req.RadiusKm) {
		writeProblem(w, http.StatusBadRequest, "Invalid Radius", "radius_km must be between 5 and 100")
		return
	}

	resp, err := h.Discovery.Discover(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) createItinerary(w http.ResponseWriter, r *http.Request) {
	var req app.ItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if !validLocation(req.Location) {
		writeProblem(w, http.StatusBadRequest, "Invalid Location", "location must be at least 2 characters")
		return
	}
	if req.Days < 1 || req.Days > 14 {
		writeProblem(w, http.StatusBadRequest, "Invalid Days", "days must be between 1 and 14")
		return
	}
	if !validateRadius(&req.RadiusKm) {
		writeProblem(w, http.StatusBadRequest, "Invalid Radius", "radius_km must be between 5 and 100")
		return
	}
	if msg := validatePreferences(req.Preferences); msg != "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Preferences", msg)
		return
	}

	it, err := h.Discovery.GenerateItinerary(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *Handlers) getItinerary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	it, err := h.Discovery.GetItinerary(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	etag, body := calcETagAndBody(it)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getItinerary body")
	}
}

type routeRequest struct {
	Coordinates []domain.Coordinates `json:"coordinates"`
}

func (h *Handlers) route(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if len(req.Coordinates) < 2 || len(req.Coordinates) > 25 {
		writeProblem(w, http.StatusBadRequest, "Invalid Coordinates", "between 2 and 25 coordinates required")
		return
	}

	est, err := h.Discovery.Route(r.Context(), req.Coordinates)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

type chatRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

func (h *Handlers) sendChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Message", "message must not be empty")
		return
	}

	reply, err := h.Chat.SendMessage(r.Context(), req.ConversationID, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

type chatHistoryResponse struct {
	ConversationID string               `json:"conversation_id"`
	Messages       []domain.ChatMessage `json:"messages"`
}

func (h *Handlers) chatHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationId")
	msgs, err := h.Chat.History(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, chatHistoryResponse{ConversationID: id, Messages: msgs})
}

func (h *Handlers) clearChat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationId")
	if err := h.Chat.Clear(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
