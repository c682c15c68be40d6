package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/keep-terminal/internal/game"
	"github.com/jwebster45206/keep-terminal/pkg/chat"
	"github.com/jwebster45206/keep-terminal/pkg/scenario"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateSessionRequest optionally names the module to play.
type CreateSessionRequest struct {
	Scenario string `json:"scenario"`
}

// SessionManager is the session surface the API needs.
type SessionManager interface {
	Create(ctx context.Context, scenarioID string) (game.View, error)
	Get(ctx context.Context, id string) (game.View, error)
	Submit(ctx context.Context, id, input string) (game.View, error)
	ClickCell(ctx context.Context, id string, x, y int) (game.View, bool, error)
	Start(ctx context.Context, id string) (game.View, error)
	Reset(ctx context.Context, id string) (game.View, error)
	Scenarios() map[string]string
}

type SessionHandler struct {
	sessions SessionManager
	logger   *slog.Logger
}

func NewSessionHandler(sessions SessionManager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// ServeHTTP routes session requests.
// Routes:
// POST   /v1/sessions               - Create a session
// GET    /v1/sessions/{id}          - Read a session
// DELETE /v1/sessions/{id}          - Reset a session
// POST   /v1/sessions/{id}/commands - Submit player input
// POST   /v1/sessions/{id}/map      - Cycle a map cell
// POST   /v1/sessions/{id}/start    - Dismiss the title screen
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	parts := strings.Split(path, "/")
	if path == "" {
		parts = nil
	}

	switch {
	case len(parts) == 0 && r.Method == http.MethodPost:
		h.handleCreate(w, r)
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleGet(w, r, parts[0])
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.handleReset(w, r, parts[0])
	case len(parts) == 2 && r.Method == http.MethodPost:
		switch parts[1] {
		case "commands":
			h.handleCommand(w, r, parts[0])
		case "map":
			h.handleMap(w, r, parts[0])
		case "start":
			h.handleStart(w, r, parts[0])
		default:
			h.writeError(w, http.StatusNotFound, "Unknown session action")
		}
	case len(parts) > 2:
		h.writeError(w, http.StatusNotFound, "Not found")
	default:
		h.logger.Warn("Method not allowed for session endpoint", "method", r.Method, "path", r.URL.Path)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("Invalid create session request", "error", err)
			h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
			return
		}
	}

	view, err := h.sessions.Create(r.Context(), strings.TrimSpace(req.Scenario))
	if err != nil {
		if errors.Is(err, scenario.ErrNotFound) {
			h.writeError(w, http.StatusBadRequest, "Unknown scenario")
			return
		}
		h.fail(w, err, "")
		return
	}
	h.writeJSON(w, http.StatusCreated, view)
}

func (h *SessionHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	view, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err, id)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) handleReset(w http.ResponseWriter, r *http.Request, id string) {
	view, err := h.sessions.Reset(r.Context(), id)
	if err != nil {
		h.fail(w, err, id)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) handleCommand(w http.ResponseWriter, r *http.Request, id string) {
	var req chat.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid command request", "session_id", id, "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.sessions.Submit(r.Context(), id, req.Input)
	if err != nil {
		h.fail(w, err, id)
		return
	}
	h.writeJSON(w, http.StatusAccepted, view)
}

func (h *SessionHandler) handleMap(w http.ResponseWriter, r *http.Request, id string) {
	var req chat.CellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	view, ok, err := h.sessions.ClickCell(r.Context(), id, req.X, req.Y)
	if err != nil {
		h.fail(w, err, id)
		return
	}
	if !ok {
		h.logger.Debug("Ignoring out-of-range map cell", "session_id", id, "x", req.X, "y", req.Y)
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) handleStart(w http.ResponseWriter, r *http.Request, id string) {
	view, err := h.sessions.Start(r.Context(), id)
	if err != nil {
		h.fail(w, err, id)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

// fail maps manager errors onto status codes.
func (h *SessionHandler) fail(w http.ResponseWriter, err error, id string) {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		h.writeError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, game.ErrBusy):
		h.writeError(w, http.StatusConflict, "Narrator is busy; try again when the session is ready")
	case errors.Is(err, game.ErrManagerClosed):
		h.writeError(w, http.StatusServiceUnavailable, "Server is shutting down")
	default:
		h.logger.Error("Session request failed", "session_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *SessionHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, v, h.logger)
}

func (h *SessionHandler) writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg}, h.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
