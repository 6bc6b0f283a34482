// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

Open selects the driver by database type ("sqlite" or "postgres"); schema
creation is idempotent:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	...
	err = db.CreateSchema(conn)

# Tables

  - users: registered accounts, keyed by id, unique email
  - canvases: planning sessions with their final chosen parameters
  - canvas_collaborators: one preference row per (canvas, user)
  - canvas_proposals: the current round's tagged candidate outcomes
  - decision_tree_questions: binary splits over the proposal tags
  - live_poll_answers: ballots, one row each, repeats allowed

A round's proposals and questions are always replaced together
(delete-then-insert inside one transaction); see handlers.SubmissionHandler.
*/
package db
