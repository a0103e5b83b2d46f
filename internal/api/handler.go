// Package api provides HTTP handlers for the voice agent API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sukanya1426/Voice-Agent/internal/bot"
	"github.com/sukanya1426/Voice-Agent/internal/catalog"
	"github.com/sukanya1426/Voice-Agent/internal/dialer"
	"github.com/sukanya1426/Voice-Agent/internal/identity"
)

// Handler serves the frontend-facing API.
type Handler struct {
	catalog   *catalog.Catalog
	dialer    *dialer.Client
	responder *bot.Responder
}

// NewHandler creates a new Handler with its dependencies.
func NewHandler(c *catalog.Catalog, d *dialer.Client, r *bot.Responder) *Handler {
	return &Handler{catalog: c, dialer: d, responder: r}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// RegisterRoutes mounts all API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/health", h.Health)
	r.Get("/api/products", h.Products)
	r.Post("/api/initiate-call", h.InitiateCall)
	r.Get("/api/call-status/{callID}", h.CallStatus)
	r.Post("/api/end-call", h.EndCall)
	r.With(identity.Middleware).Post("/api/chat", h.Chat)
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"message":   "Voice agent backend is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Products returns catalog entries, optionally filtered by ?search=.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	products := h.catalog.All()
	if search != "" {
		products = h.catalog.Search(search, 0)
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(products),
		"products": products,
	})
}

type initiateCallRequest struct {
	To   string `json:"to"`
	From string `json:"from"`
}

// InitiateCall dials the visitor's phone and connects the answer to the
// voice application.
func (h *Handler) InitiateCall(w http.ResponseWriter, r *http.Request) {
	var req initiateCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.To == "" || req.From == "" {
		Error(w, http.StatusBadRequest, `both "to" and "from" phone numbers are required`)
		return
	}
	if !dialer.ValidE164(req.To) || !dialer.ValidE164(req.From) {
		Error(w, http.StatusBadRequest, "phone numbers must be in E.164 format (e.g., +1234567890)")
		return
	}

	call, err := h.dialer.CreateCall(r.Context(), dialer.Request{
		From: req.From,
		To:   req.To,
		Metadata: map[string]string{
			"call_type": "outbound",
			"source":    "frontend_web_app",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		status, message := dialErrorResponse(err)
		slog.Error("Outbound call failed", "to", req.To, "error", err)
		Error(w, status, message)
		return
	}

	slog.Info("Outbound call initiated", "call_id", call.CallID, "to", req.To)
	JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"call_id": call.CallID,
		"status":  call.Status,
	})
}

func dialErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, dialer.ErrMissingCredentials):
		return http.StatusInternalServerError, "missing telephony credentials in server configuration"
	case errors.Is(err, dialer.ErrMissingApplication):
		return http.StatusInternalServerError, "missing voice application reference in server configuration"
	case errors.Is(err, dialer.ErrInvalidNumber):
		return http.StatusBadRequest, "phone number was rejected; check E.164 format"
	case errors.Is(err, dialer.ErrAuthentication):
		return http.StatusBadGateway, "telephony authentication failed; check API credentials"
	case errors.Is(err, dialer.ErrApplicationNotFound):
		return http.StatusBadGateway, "voice application not found; check that it is deployed"
	default:
		return http.StatusBadGateway, "failed to initiate call"
	}
}

// CallStatus fetches the current state of a call.
func (h *Handler) CallStatus(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callID")
	if callID == "" {
		Error(w, http.StatusBadRequest, "call ID is required")
		return
	}

	call, err := h.dialer.GetCall(r.Context(), callID)
	if err != nil {
		slog.Error("Call status lookup failed", "call_id", callID, "error", err)
		status, message := dialErrorResponse(err)
		Error(w, status, message)
		return
	}
	JSON(w, http.StatusOK, call)
}

type endCallRequest struct {
	CallID string `json:"call_id"`
}

// EndCall asks the platform to release a live call.
func (h *Handler) EndCall(w http.ResponseWriter, r *http.Request) {
	var req endCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CallID == "" {
		Error(w, http.StatusBadRequest, "call_id is required")
		return
	}

	if err := h.dialer.EndCall(r.Context(), req.CallID); err != nil {
		slog.Error("End call failed", "call_id", req.CallID, "error", err)
		status, message := dialErrorResponse(err)
		Error(w, status, message)
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat answers a web widget message through the same responder the
// voice bot uses, scoped to the visitor's cookie session.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		Error(w, http.StatusBadRequest, "message is required")
		return
	}

	sessionRef := identity.ChatSessionFromContext(r.Context())
	if sessionRef == "" {
		Error(w, http.StatusInternalServerError, "no chat session")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	reply := h.responder.Respond(ctx, sessionRef, req.Message)
	JSON(w, http.StatusOK, map[string]string{
		"response":   reply,
		"session_id": sessionRef,
	})
}
