// Package httpx provides HTTP handlers and utilities for the climatewatch monitoring API.
package httpx

import (
	"errors"
	"net/http"

	"github.com/clearskies/climatewatch/internal/service"
)

// SessionHandlers provides HTTP handlers for monitoring session operations.
type SessionHandlers struct {
	Svc *service.SessionService
}

// StartSessionRequest is the request body for starting a monitoring session.
type StartSessionRequest struct {
	// Identifier is optional. Empty means a fresh purchaser identity; a
	// previously used identifier resumes that purchaser's latest job.
	Identifier string `json:"identifier"`
	Location   string `json:"location"`
}

// StartSession handles HTTP requests to begin a monitoring session.
func (h *SessionHandlers) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	view, err := h.Svc.Start(r.Context(), req.Identifier, req.Location)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, view)
}

// GetSession handles HTTP requests to inspect a monitoring session.
func (h *SessionHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("session id is required")})
		return
	}

	view, err := h.Svc.Get(id)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

// ConfirmPayment handles HTTP requests to fund a session's escrow.
func (h *SessionHandlers) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("session id is required")})
		return
	}

	view, err := h.Svc.ConfirmPayment(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

func registerSessionRoutes(mux *http.ServeMux, h *SessionHandlers) {
	mux.HandleFunc("POST /api/sessions", h.StartSession)
	mux.HandleFunc("GET /api/sessions/{id}", h.GetSession)
	mux.HandleFunc("POST /api/sessions/{id}/payment", h.ConfirmPayment)
}
