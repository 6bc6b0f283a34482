// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/tripcanvas/auth"
	"github.com/danielhkuo/tripcanvas/cliparse"
	"github.com/danielhkuo/tripcanvas/middleware"
	"github.com/danielhkuo/tripcanvas/models"
)

type CanvasHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCanvasHandler(db *sql.DB, cfg cliparse.Config) *CanvasHandler {
	return &CanvasHandler{db: db, cfg: cfg}
}

// CreateCanvas handles POST /canvases
func (h *CanvasHandler) CreateCanvas(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.CreateCanvasRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	canvasID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate canvas ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create canvas")
		return
	}

	ownerKey := auth.GenerateOwnerKey(canvasID, h.cfg.OwnerKeySalt)

	_, err = h.db.Exec(`
		INSERT INTO canvases (id, name, owner_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, canvasID, req.Name, userID, time.Now())
	if err != nil {
		slog.Error("failed to insert canvas", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create canvas")
		return
	}

	// The owner is also a collaborator so their preferences count.
	_, err = h.db.Exec(`
		INSERT INTO canvas_collaborators (canvas_id, user_id, role)
		VALUES ($1, $2, $3)
	`, canvasID, userID, models.RoleOwner)
	if err != nil {
		slog.Error("failed to insert owner collaborator", "error", err, "canvas_id", canvasID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create canvas")
		return
	}

	slog.Info("canvas created", "canvas_id", canvasID, "owner", userID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateCanvasResponse{
		CanvasID: canvasID,
		OwnerKey: ownerKey,
	})
}

// ShareCanvas handles POST /canvases/{id}/share
// The owner mints a stable share slug others can join through.
func (h *CanvasHandler) ShareCanvas(w http.ResponseWriter, r *http.Request) {
	canvasID := r.PathValue("id")
	if canvasID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	ownerKey := r.Header.Get("X-Owner-Key")
	if err := auth.ValidateOwnerKey(canvasID, ownerKey, h.cfg.OwnerKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid owner key")
		return
	}

	exists, err := canvasExists(h.db, canvasID)
	if err != nil {
		slog.Error("failed to query canvas", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Canvas not found")
		return
	}

	slug := auth.GenerateShareSlug(canvasID, h.cfg.ShareSlugSalt)
	_, err = h.db.Exec(`
		UPDATE canvases SET share_slug = $1 WHERE id = $2
	`, slug, canvasID)
	if err != nil {
		slog.Error("failed to set share slug", "error", err, "canvas_id", canvasID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to share canvas")
		return
	}

	slog.Info("canvas shared", "canvas_id", canvasID, "slug", slug)

	middleware.JSONResponse(w, http.StatusOK, models.ShareCanvasResponse{
		ShareSlug: slug,
		ShareURL:  "/c/" + slug,
	})
}

// GetCanvasBySlug handles GET /c/{slug}
func (h *CanvasHandler) GetCanvasBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var canvas models.Canvas
	var shareSlug sql.NullString
	var locationIDs sql.NullString
	var totalDays, budgetPerDay sql.NullFloat64
	var finalProposal, finalItinerary sql.NullString
	err := h.db.QueryRow(`
		SELECT id, name, owner_id, share_slug, final_location_ids,
		       final_total_days, final_budget_per_day, final_proposal,
		       final_itinerary, created_at
		FROM canvases WHERE share_slug = $1
	`, slug).Scan(
		&canvas.ID, &canvas.Name, &canvas.OwnerID, &shareSlug, &locationIDs,
		&totalDays, &budgetPerDay, &finalProposal, &finalItinerary, &canvas.CreatedAt,
	)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Canvas not found")
		return
	}
	if err != nil {
		slog.Error("failed to query canvas by slug", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if shareSlug.Valid {
		canvas.ShareSlug = &shareSlug.String
	}
	canvas.FinalTotalDays = nullToPtr(totalDays)
	canvas.FinalBudgetPerDay = nullToPtr(budgetPerDay)
	if canvas.FinalLocationIDs, err = decodeStrings(locationIDs); err != nil {
		slog.Error("corrupt final_location_ids", "error", err, "canvas_id", canvas.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if finalProposal.Valid {
		canvas.FinalProposal = []byte(finalProposal.String)
	}
	if finalItinerary.Valid {
		canvas.FinalItinerary = []byte(finalItinerary.String)
	}

	middleware.JSONResponse(w, http.StatusOK, canvas)
}

// Invite handles POST /canvases/{id}/invite
// The owner invites a registered user by email as an editor.
func (h *CanvasHandler) Invite(w http.ResponseWriter, r *http.Request) {
	canvasID := r.PathValue("id")
	if canvasID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	ownerKey := r.Header.Get("X-Owner-Key")
	if err := auth.ValidateOwnerKey(canvasID, ownerKey, h.cfg.OwnerKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid owner key")
		return
	}

	var req models.InviteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	var userID string
	err := h.db.QueryRow(`
		SELECT id FROM users WHERE email = $1
	`, req.Email).Scan(&userID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found. Make sure they have signed up.")
		return
	}
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// DO NOTHING keeps an existing row's role and preferences intact.
	_, err = h.db.Exec(`
		INSERT INTO canvas_collaborators (canvas_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (canvas_id, user_id) DO NOTHING
	`, canvasID, userID, models.RoleEditor)
	if err != nil {
		slog.Error("failed to insert collaborator", "error", err, "canvas_id", canvasID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to invite user")
		return
	}

	slog.Info("collaborator invited", "canvas_id", canvasID, "user_id", userID)

	middleware.JSONResponse(w, http.StatusOK, models.InviteResponse{
		Message: "Successfully invited!",
	})
}

// SubmitPreferences handles PUT /canvases/{id}/preferences
// A collaborator submits or overwrites their budget, day count, and
// location votes. One row per (canvas, user), always.
func (h *CanvasHandler) SubmitPreferences(w http.ResponseWriter, r *http.Request) {
	canvasID := r.PathValue("id")
	if canvasID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.PreferencesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Budget != nil && *req.Budget < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "budget must not be negative")
		return
	}
	if req.Days != nil && *req.Days < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "days must not be negative")
		return
	}

	exists, err := canvasExists(h.db, canvasID)
	if err != nil {
		slog.Error("failed to query canvas", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Canvas not found")
		return
	}

	// Joining by voting is allowed; the upsert never demotes an owner.
	_, err = h.db.Exec(`
		INSERT INTO canvas_collaborators (canvas_id, user_id, role, budget, days, voted_location_ids)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (canvas_id, user_id) DO UPDATE SET
			budget = excluded.budget,
			days = excluded.days,
			voted_location_ids = excluded.voted_location_ids
	`, canvasID, userID, models.RoleEditor, req.Budget, req.Days, encodeStrings(req.VotedLocationIDs))
	if err != nil {
		slog.Error("failed to upsert preferences", "error", err, "canvas_id", canvasID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save preferences")
		return
	}

	slog.Info("preferences saved", "canvas_id", canvasID, "user_id", userID)

	middleware.JSONResponse(w, http.StatusOK, models.Collaborator{
		CanvasID:         canvasID,
		UserID:           userID,
		Role:             models.RoleEditor,
		Budget:           req.Budget,
		Days:             req.Days,
		VotedLocationIDs: req.VotedLocationIDs,
	})
}
