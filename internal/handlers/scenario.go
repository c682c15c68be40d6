package handlers

import (
	"log/slog"
	"net/http"
	"slices"
)

// ScenarioSummary is one entry of the scenario list.
type ScenarioSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ScenarioHandler struct {
	sessions SessionManager
	log      *slog.Logger
}

func NewScenarioHandler(log *slog.Logger, sessions SessionManager) *ScenarioHandler {
	return &ScenarioHandler{
		log:      log,
		sessions: sessions,
	}
}

func (h *ScenarioHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"}, h.log)
		return
	}

	list := h.sessions.Scenarios()
	ids := make([]string, 0, len(list))
	for id := range list {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]ScenarioSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, ScenarioSummary{ID: id, Name: list[id]})
	}
	writeJSON(w, http.StatusOK, out, h.log)
}
