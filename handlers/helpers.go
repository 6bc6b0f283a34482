// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielhkuo/tripcanvas/consensus"
	"github.com/danielhkuo/tripcanvas/middleware"
)

// errNoRound means a canvas has no generated decision round yet.
var errNoRound = errors.New("canvas has no decision round")

// encodeStrings marshals a string slice into a TEXT column.
func encodeStrings(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// decodeStrings unmarshals a TEXT column back into a string slice.
// NULL and empty come back as nil.
func decodeStrings(s sql.NullString) ([]string, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s.String), &out); err != nil {
		return nil, fmt.Errorf("corrupt string-array column: %w", err)
	}
	return out, nil
}

func nullToPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// loadTree reads a canvas's stored proposals and questions and runs them
// back through the builder. Storage is written only from validated trees,
// so a failure here is an internal contract violation, not user error.
func loadTree(db *sql.DB, canvasID string, maxProposals int) (*consensus.Tree, error) {
	rows, err := db.Query(`
		SELECT tag, cities, description FROM canvas_proposals WHERE canvas_id = $1
	`, canvasID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proposals []consensus.Proposal
	for rows.Next() {
		var tag string
		var cities sql.NullString
		var description sql.NullString
		if err := rows.Scan(&tag, &cities, &description); err != nil {
			return nil, err
		}
		cityList, err := decodeStrings(cities)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, consensus.Proposal{
			Tag:         tag,
			Cities:      cityList,
			Description: description.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(proposals) == 0 {
		return nil, errNoRound
	}

	qrows, err := db.Query(`
		SELECT level, parent_option, question_text,
		       option_a_text, option_a_tags, option_b_text, option_b_tags
		FROM decision_tree_questions WHERE canvas_id = $1
	`, canvasID)
	if err != nil {
		return nil, err
	}
	defer qrows.Close()

	var questions []consensus.QuestionSpec
	for qrows.Next() {
		var q consensus.QuestionSpec
		var aTags, bTags sql.NullString
		if err := qrows.Scan(&q.Level, &q.ParentOption, &q.QuestionText,
			&q.OptionAText, &aTags, &q.OptionBText, &bTags); err != nil {
			return nil, err
		}
		if q.OptionATags, err = decodeStrings(aTags); err != nil {
			return nil, err
		}
		if q.OptionBTags, err = decodeStrings(bTags); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := qrows.Err(); err != nil {
		return nil, err
	}

	return consensus.BuildTree(proposals, questions, maxProposals)
}

// writeCoreError maps an engine failure onto the HTTP taxonomy: bad input
// is 4xx, internal contract violations are 5xx.
func writeCoreError(w http.ResponseWriter, err error) {
	var verr *consensus.ValidationError
	switch {
	case errors.Is(err, consensus.ErrEmptyInput):
		middleware.ErrorResponse(w, http.StatusBadRequest, "no collaborator preferences submitted yet")
	case errors.Is(err, consensus.ErrInvalidPath):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, consensus.ErrAmbiguousTally):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.As(err, &verr):
		middleware.ErrorResponse(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, consensus.ErrBrokenTree):
		middleware.ErrorResponse(w, http.StatusInternalServerError, "decision tree is broken")
	default:
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}

// requireUser pulls the acting user from the X-User-ID header. Real
// authentication lives in front of this service; the engine only needs a
// stable identity per collaborator.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-User-ID header required")
		return "", false
	}
	return userID, true
}

// canvasExists checks a canvas ID without loading the row.
func canvasExists(db *sql.DB, canvasID string) (bool, error) {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM canvases WHERE id = $1)
	`, canvasID).Scan(&exists)
	return exists, err
}
