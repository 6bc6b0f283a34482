// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/tripcanvas/cliparse"
	"github.com/danielhkuo/tripcanvas/consensus"
	"github.com/danielhkuo/tripcanvas/middleware"
	"github.com/danielhkuo/tripcanvas/models"
)

type NavigateHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewNavigateHandler(db *sql.DB, cfg cliparse.Config) *NavigateHandler {
	return &NavigateHandler{db: db, cfg: cfg}
}

// Advance handles POST /canvases/{id}/advance
//
// The request carries the full decision path so far (the list of winning
// option labels, root first). The walk is stateless and idempotent: posting
// the same path twice gives the same answer, and there is no per-question
// status to flip. On convergence the winning proposal's cities are pinned
// onto the canvas for the itinerary step.
func (h *NavigateHandler) Advance(w http.ResponseWriter, r *http.Request) {
	canvasID := r.PathValue("id")
	if canvasID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var req models.AdvanceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	tree, err := loadTree(h.db, canvasID, h.cfg.MaxProposals)
	if errors.Is(err, errNoRound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Canvas has no active decision round")
		return
	}
	if err != nil {
		// The stored round was validated on write; failing to rebuild it is
		// an internal inconsistency, never the caller's fault.
		slog.Error("failed to load decision tree", "error", err, "canvas_id", canvasID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Stored decision round is inconsistent")
		return
	}

	step, err := consensus.Advance(tree, req.Path)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	if !step.Done {
		middleware.JSONResponse(w, http.StatusOK, models.AdvanceResponse{
			NextQuestion: step.NextQuestion,
		})
		return
	}

	winner, ok := tree.ProposalByTag(step.WinningTag)
	if !ok {
		slog.Error("winning tag has no proposal", "tag", step.WinningTag, "canvas_id", canvasID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Stored decision round is inconsistent")
		return
	}

	if _, err := h.db.Exec(`
		UPDATE canvases SET final_location_ids = $1 WHERE id = $2
	`, encodeStrings(winner.Cities), canvasID); err != nil {
		slog.Error("failed to pin winning proposal", "error", err, "canvas_id", canvasID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record convergence")
		return
	}

	slog.Info("canvas converged", "canvas_id", canvasID, "winning_tag", winner.Tag)

	middleware.JSONResponse(w, http.StatusOK, models.AdvanceResponse{
		Done:   true,
		Winner: &winner,
	})
}
