// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/tripcanvas/auth"
	"github.com/danielhkuo/tripcanvas/cliparse"
	"github.com/danielhkuo/tripcanvas/consensus"
	"github.com/danielhkuo/tripcanvas/middleware"
	"github.com/danielhkuo/tripcanvas/models"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// SubmitAnswer handles POST /questions/{id}/answers
// Ballots accumulate: a user voting twice counts twice. The tally reads
// whatever rows exist, so there is no dedup pass here.
func (h *VotingHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.SubmitAnswerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	option := strings.ToUpper(strings.TrimSpace(req.SelectedOption))
	if option != consensus.OptionA && option != consensus.OptionB {
		middleware.ErrorResponse(w, http.StatusBadRequest, "selected_option must be A or B")
		return
	}

	var canvasID string
	err := h.db.QueryRow(`
		SELECT canvas_id FROM decision_tree_questions WHERE id = $1
	`, questionID).Scan(&canvasID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to query question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	answerID := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO live_poll_answers (id, question_id, user_id, selected_option, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, answerID, questionID, userID, option, time.Now())
	if err != nil {
		slog.Error("failed to insert answer", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record answer")
		return
	}

	slog.Info("answer recorded",
		"canvas_id", canvasID,
		"question_id", questionID,
		"option", option,
		"voter_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.OwnerKeySalt))

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitAnswerResponse{
		AnswerID: answerID,
	})
}

// GetTally handles GET /questions/{id}/tally
// A tie spanning both options returns 409 with the standings attached, so a
// caller can render "deadlocked at N votes" instead of a blank error.
func (h *VotingHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var q consensus.Question
	var canvasID string
	var aTags, bTags sql.NullString
	err := h.db.QueryRow(`
		SELECT canvas_id, level, parent_option, question_text,
		       option_a_text, option_a_tags, option_b_text, option_b_tags
		FROM decision_tree_questions WHERE id = $1
	`, questionID).Scan(&canvasID, &q.Level, &q.ParentOption, &q.QuestionText,
		&q.OptionAText, &aTags, &q.OptionBText, &bTags)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to query question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if q.OptionATags, err = decodeStrings(aTags); err == nil {
		q.OptionBTags, err = decodeStrings(bTags)
	}
	if err != nil {
		slog.Error("corrupt option tags", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	ballots, err := h.loadBallots(questionID)
	if err != nil {
		slog.Error("failed to load answers", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	result, err := consensus.Tally(q, ballots, h.cfg.CountingStrategy)
	if err != nil {
		// Surface the standings alongside the conflict.
		middleware.JSONResponse(w, http.StatusConflict, models.TallyResponse{
			Results: result.Counts,
		})
		return
	}

	proposals, err := h.loadProposalsByTags(canvasID, result.WinningTags)
	if err != nil {
		slog.Error("failed to load winning proposals", "error", err, "canvas_id", canvasID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TallyResponse{
		Results:        result.Counts,
		WinningOption:  result.WinningOption,
		FinalProposals: proposals,
	})
}

func (h *VotingHandler) loadBallots(questionID string) ([]consensus.Ballot, error) {
	rows, err := h.db.Query(`
		SELECT user_id, selected_option FROM live_poll_answers WHERE question_id = $1
	`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ballots []consensus.Ballot
	for rows.Next() {
		var b consensus.Ballot
		if err := rows.Scan(&b.UserID, &b.Option); err != nil {
			return nil, err
		}
		ballots = append(ballots, b)
	}
	return ballots, rows.Err()
}

func (h *VotingHandler) loadProposalsByTags(canvasID string, tags []string) ([]consensus.Proposal, error) {
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[t] = true
	}

	rows, err := h.db.Query(`
		SELECT tag, cities, description FROM canvas_proposals
		WHERE canvas_id = $1 ORDER BY tag
	`, canvasID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proposals []consensus.Proposal
	for rows.Next() {
		var p consensus.Proposal
		var cities sql.NullString
		if err := rows.Scan(&p.Tag, &cities, &p.Description); err != nil {
			return nil, err
		}
		if !want[p.Tag] {
			continue
		}
		if p.Cities, err = decodeStrings(cities); err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}
