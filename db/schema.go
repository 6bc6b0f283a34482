// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// String-array columns (cities, option tags, voted location ids) and the
// final proposal/itinerary blobs are stored as JSON text so the same DDL
// works on both sqlite and postgres. Timestamps are written from Go.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Users (needed so invites can resolve an email to an account)
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL
);

-- Canvases: one collaborative planning session each
CREATE TABLE IF NOT EXISTS canvases (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    owner_id TEXT NOT NULL,
    share_slug TEXT UNIQUE,
    final_location_ids TEXT,
    final_total_days REAL,
    final_budget_per_day REAL,
    final_proposal TEXT,
    final_itinerary TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_canvases_share_slug ON canvases(share_slug);
CREATE INDEX IF NOT EXISTS idx_canvases_owner ON canvases(owner_id);

-- Collaborator preferences: at most one row per (canvas, user)
CREATE TABLE IF NOT EXISTS canvas_collaborators (
    canvas_id TEXT NOT NULL REFERENCES canvases(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'editor' CHECK (role IN ('owner', 'editor')),
    budget REAL,
    days REAL,
    voted_location_ids TEXT,
    PRIMARY KEY (canvas_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_collaborators_canvas ON canvas_collaborators(canvas_id);

-- Proposals: the tagged candidate outcomes of the current round
CREATE TABLE IF NOT EXISTS canvas_proposals (
    id TEXT PRIMARY KEY,
    canvas_id TEXT NOT NULL REFERENCES canvases(id) ON DELETE CASCADE,
    tag TEXT NOT NULL,
    cities TEXT NOT NULL,
    description TEXT,
    UNIQUE (canvas_id, tag)
);

CREATE INDEX IF NOT EXISTS idx_proposals_canvas ON canvas_proposals(canvas_id);

-- Decision tree questions: binary splits over the proposal tags
CREATE TABLE IF NOT EXISTS decision_tree_questions (
    id TEXT PRIMARY KEY,
    canvas_id TEXT NOT NULL REFERENCES canvases(id) ON DELETE CASCADE,
    level INTEGER NOT NULL,
    parent_option TEXT NOT NULL DEFAULT '',
    question_text TEXT NOT NULL,
    option_a_text TEXT NOT NULL,
    option_a_tags TEXT NOT NULL,
    option_b_text TEXT NOT NULL,
    option_b_tags TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_questions_canvas ON decision_tree_questions(canvas_id);

-- Live poll answers: one ballot per row, repeats allowed
CREATE TABLE IF NOT EXISTS live_poll_answers (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES decision_tree_questions(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    selected_option TEXT NOT NULL CHECK (selected_option IN ('A', 'B')),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_answers_question ON live_poll_answers(question_id);
`
