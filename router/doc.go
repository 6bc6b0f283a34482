// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the tripcanvas API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, gen)

# Endpoints

Health:

	GET /health

Users:

	POST /users - Register (idempotent per email)

Canvas management (owner, requires X-Owner-Key):

	POST /canvases             - Create canvas (returns owner key)
	POST /canvases/{id}/share  - Mint share slug
	POST /canvases/{id}/invite - Invite a registered user by email

Collaboration (requires X-User-ID):

	GET /c/{slug}                   - Canvas info via share slug
	PUT /canvases/{id}/preferences  - Submit/overwrite preferences

Decision round:

	POST /canvases/{id}/submission - Aggregate, generate, and go live
	POST /questions/{id}/answers   - Cast a ballot
	GET  /questions/{id}/tally     - Standings and winning branch
	POST /canvases/{id}/advance    - Walk the tree along a decision path

Itinerary:

	POST /canvases/{id}/itinerary - Generate (converged canvases only)
	POST /itinerary/suggestions   - Review a caller-supplied itinerary

# Handler Initialization

The router creates handler instances with dependency injection:

	canvasHandler := handlers.NewCanvasHandler(db, cfg)
	submissionHandler := handlers.NewSubmissionHandler(db, cfg, gen)

Handlers receive the database connection, configuration, and (where they
call out) the generator.
*/
package router
