package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/finbrief/internal/history"
	"github.com/wonny/finbrief/pkg/logger"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// BriefingHandler serves the JSON API
// ⭐ SSOT: 브리핑 JSON API 핸들러는 이 구조체에서만
type BriefingHandler struct {
	runner Runner
	store  history.Store
	logger *logger.Logger
}

// NewBriefingHandler creates a new briefing handler
func NewBriefingHandler(runner Runner, store history.Store, log *logger.Logger) *BriefingHandler {
	return &BriefingHandler{
		runner: runner,
		store:  store,
		logger: log,
	}
}

// CreateRequest is the body of POST /api/briefings
type CreateRequest struct {
	Query string `json:"query"`
}

// Create runs the pipeline synchronously
// POST /api/briefings
func (h *BriefingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b := h.runner.Run(r.Context(), req.Query, nil)
	respondJSON(w, StatusCode(b), b)
}

// List returns the most recent runs
// GET /api/briefings?limit=20
func (h *BriefingHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	runs, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list briefing runs")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve briefing history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"briefings": runs,
		"count":     len(runs),
	})
}

// Get returns one run
// GET /api/briefings/{id}
func (h *BriefingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	b, err := h.store.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Briefing not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get briefing run")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve briefing")
		return
	}

	respondJSON(w, http.StatusOK, b)
}
