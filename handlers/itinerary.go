// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/tripcanvas/genai"
	"github.com/danielhkuo/tripcanvas/middleware"
	"github.com/danielhkuo/tripcanvas/models"
)

type ItineraryHandler struct {
	db  *sql.DB
	gen genai.Generator
}

func NewItineraryHandler(db *sql.DB, gen genai.Generator) *ItineraryHandler {
	return &ItineraryHandler{db: db, gen: gen}
}

// GenerateItinerary handles POST /canvases/{id}/itinerary
// Requires a converged canvas: pinned locations plus aggregated days and
// budget. Calling it again regenerates and overwrites the stored itinerary.
func (h *ItineraryHandler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	canvasID := r.PathValue("id")
	if canvasID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var locationIDs sql.NullString
	var totalDays, budgetPerDay sql.NullFloat64
	err := h.db.QueryRow(`
		SELECT final_location_ids, final_total_days, final_budget_per_day
		FROM canvases WHERE id = $1
	`, canvasID).Scan(&locationIDs, &totalDays, &budgetPerDay)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Canvas not found")
		return
	}
	if err != nil {
		slog.Error("failed to query canvas", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	cities, err := decodeStrings(locationIDs)
	if err != nil {
		slog.Error("corrupt final_location_ids", "error", err, "canvas_id", canvasID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(cities) == 0 || !totalDays.Valid || totalDays.Float64 <= 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Canvas has not converged on a destination yet")
		return
	}

	itinerary, err := h.gen.GenerateItinerary(r.Context(), genai.ItineraryRequest{
		Cities:       cities,
		TotalDays:    totalDays.Float64,
		BudgetPerDay: budgetPerDay.Float64,
	})
	if err != nil {
		slog.Error("itinerary generation failed", "error", err, "canvas_id", canvasID)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Itinerary generation failed")
		return
	}

	if _, err := h.db.Exec(`
		UPDATE canvases SET final_itinerary = $1 WHERE id = $2
	`, string(itinerary), canvasID); err != nil {
		slog.Error("failed to store itinerary", "error", err, "canvas_id", canvasID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store itinerary")
		return
	}

	slog.Info("itinerary generated", "canvas_id", canvasID, "cities", len(cities))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(itinerary)
}

// Suggestions handles POST /itinerary/suggestions
// Stateless review of a caller-supplied itinerary; nothing is persisted.
func (h *ItineraryHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	var req models.SuggestionsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Itinerary) == 0 || !json.Valid(req.Itinerary) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "itinerary must be a JSON document")
		return
	}

	suggestions, err := h.gen.SuggestImprovements(r.Context(), req.Itinerary)
	if err != nil {
		slog.Error("suggestion generation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Suggestion generation failed")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuggestionsResponse{
		Suggestions: suggestions,
	})
}
