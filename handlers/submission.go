// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/danielhkuo/tripcanvas/cliparse"
	"github.com/danielhkuo/tripcanvas/consensus"
	"github.com/danielhkuo/tripcanvas/genai"
	"github.com/danielhkuo/tripcanvas/middleware"
	"github.com/danielhkuo/tripcanvas/models"
)

// keyedMutex serializes work per key. Rebuilding a canvas's decision round
// is a read-aggregate-generate-replace sequence; two concurrent rebuilds of
// the same canvas would interleave their replaces, so each canvas gets a
// single-writer lock. Different canvases proceed in parallel.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

type SubmissionHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	gen   genai.Generator
	locks *keyedMutex
}

func NewSubmissionHandler(db *sql.DB, cfg cliparse.Config, gen genai.Generator) *SubmissionHandler {
	return &SubmissionHandler{db: db, cfg: cfg, gen: gen, locks: newKeyedMutex()}
}

// ProcessSubmission handles POST /canvases/{id}/submission
//
// This is the pipeline that turns collected preferences into a live
// decision round: aggregate, generate, validate, replace. The replace is
// all-or-nothing; a generator failure or an invalid payload leaves the
// previous round (if any) untouched.
func (h *SubmissionHandler) ProcessSubmission(w http.ResponseWriter, r *http.Request) {
	canvasID := r.PathValue("id")
	if canvasID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
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

	unlock := h.locks.lock(canvasID)
	defer unlock()

	prefs, err := h.loadPreferences(canvasID)
	if err != nil {
		slog.Error("failed to load preferences", "error", err, "canvas_id", canvasID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	summary, err := consensus.Aggregate(prefs)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	// The consensus snapshot persists even if generation fails, matching the
	// two-phase shape of the flow: numbers first, proposals second.
	if err := h.saveSummary(canvasID, summary); err != nil {
		slog.Error("failed to save aggregate summary", "error", err, "canvas_id", canvasID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	payload, err := h.gen.GeneratePlan(r.Context(), summary)
	if err != nil {
		slog.Error("plan generation failed", "error", err, "canvas_id", canvasID)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Plan generation failed")
		return
	}

	tree, err := consensus.BuildTree(payload.Proposals, payload.Questions, h.cfg.MaxProposals)
	if err != nil {
		slog.Error("generated plan failed validation", "error", err, "canvas_id", canvasID)
		writeCoreError(w, err)
		return
	}

	if err := h.replaceRound(canvasID, tree); err != nil {
		slog.Error("failed to store decision round", "error", err, "canvas_id", canvasID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store decision round")
		return
	}

	slog.Info("decision round created",
		"canvas_id", canvasID,
		"group_size", summary.GroupSize,
		"proposals", len(tree.Proposals),
		"questions", len(tree.Questions))

	middleware.JSONResponse(w, http.StatusCreated, models.SubmissionResponse{
		Message:   "Decision round is live",
		Summary:   summary,
		Proposals: tree.Proposals,
		Root:      tree.Root(),
	})
}

func (h *SubmissionHandler) loadPreferences(canvasID string) ([]consensus.Preference, error) {
	rows, err := h.db.Query(`
		SELECT budget, days, voted_location_ids
		FROM canvas_collaborators WHERE canvas_id = $1
	`, canvasID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []consensus.Preference
	for rows.Next() {
		var budget, days sql.NullFloat64
		var votes sql.NullString
		if err := rows.Scan(&budget, &days, &votes); err != nil {
			return nil, err
		}
		voteList, err := decodeStrings(votes)
		if err != nil {
			return nil, err
		}
		prefs = append(prefs, consensus.Preference{
			Budget:           nullToPtr(budget),
			Days:             nullToPtr(days),
			VotedLocationIDs: voteList,
		})
	}
	return prefs, rows.Err()
}

func (h *SubmissionHandler) saveSummary(canvasID string, summary consensus.AggregateSummary) error {
	locations := make([]string, len(summary.VotedLocations))
	for i, lv := range summary.VotedLocations {
		locations[i] = lv.LocationID
	}
	_, err := h.db.Exec(`
		UPDATE canvases SET
			final_budget_per_day = $1,
			final_total_days = $2,
			final_proposal = $3
		WHERE id = $4
	`, summary.TotalBudget, summary.AverageDays, encodeStrings(locations), canvasID)
	return err
}

// replaceRound swaps the canvas's stored round for the new tree in one
// transaction. Answers go first because they reference the old questions.
func (h *SubmissionHandler) replaceRound(canvasID string, tree *consensus.Tree) error {
	tx, err := h.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM live_poll_answers WHERE question_id IN (
			SELECT id FROM decision_tree_questions WHERE canvas_id = $1
		)
	`, canvasID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		DELETE FROM decision_tree_questions WHERE canvas_id = $1
	`, canvasID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		DELETE FROM canvas_proposals WHERE canvas_id = $1
	`, canvasID); err != nil {
		return err
	}

	for _, p := range tree.Proposals {
		if _, err := tx.Exec(`
			INSERT INTO canvas_proposals (id, canvas_id, tag, cities, description)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.NewString(), canvasID, p.Tag, encodeStrings(p.Cities), p.Description); err != nil {
			return err
		}
	}
	for _, q := range tree.Questions {
		if _, err := tx.Exec(`
			INSERT INTO decision_tree_questions
				(id, canvas_id, level, parent_option, question_text,
				 option_a_text, option_a_tags, option_b_text, option_b_tags)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, uuid.NewString(), canvasID, q.Level, q.ParentOption, q.QuestionText,
			q.OptionAText, encodeStrings(q.OptionATags),
			q.OptionBText, encodeStrings(q.OptionBTags)); err != nil {
			return err
		}
	}

	return tx.Commit()
}
