// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the tripcanvas API server.

Tripcanvas is a group consensus engine for trip planning: collaborators
submit budgets, day counts, and location votes on a shared canvas; the
engine aggregates them, has an external generator draft tagged trip
proposals with a binary decision tree over them, and then walks the group
down that tree one live poll at a time until a single proposal wins.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=trips.db OWNER_KEY_SALT=... SHARE_SLUG_SALT=... OPENAI_API_KEY=... go run main.go

Or with flags:

	go run main.go -p 3321 -d trips.db -t sqlite

A .env file in the working directory is loaded if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file path (or ":memory:") or postgres URL
  - OWNER_KEY_SALT (--owner-salt): Secret for owner key HMAC
  - SHARE_SLUG_SALT (--slug-salt): Secret for share slug generation
  - OPENAI_API_KEY (--generator-key): Key for the proposal generator

Optional settings:

  - PORT (-p): Server port (default: 3321)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - OPENAI_BASE_URL (--generator-url): Any OpenAI-compatible endpoint
  - GENERATOR_MODEL (--generator-model): Model name (default: gpt-4o)
  - COUNTING_STRATEGY (--counting): "per-tag" (default) or "per-option"
  - MAX_PROPOSALS (--max-proposals): Proposal bound per round (default: 5)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - consensus: The pure engine (aggregate, tree build, tally, navigate)
  - genai: Generator interface and OpenAI-compatible client
  - handlers: HTTP request handlers (canvases, submission, voting, itinerary)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Key and slug generation and validation
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
