// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateCanvasRequest: name
  - RegisterUserRequest: email
  - InviteRequest: email
  - PreferencesRequest: budget, days, voted_location_ids
  - SubmitAnswerRequest: selected_option ("A" or "B")
  - AdvanceRequest: path (ordered chosen option labels)
  - SuggestionsRequest: itinerary (opaque JSON)

# Response Types

Types for JSON responses:

  - CreateCanvasResponse: canvas_id, owner_key
  - ShareCanvasResponse: share_slug, share_url
  - SubmissionResponse: summary, proposals, root_question
  - TallyResponse: results, winning_option, final_proposals
  - AdvanceResponse: done, next_question, winner
  - ErrorResponse: error, message

# Domain Types

Internal data structures mirroring the storage schema:

  - Canvas: planning session with its final chosen parameters
  - Collaborator: one (canvas, user) preference row
  - Answer: one live-poll ballot on one question

The consensus-engine types (Proposal, Question, AggregateSummary, ...) live
in package consensus and are embedded in responses directly.

# Constants

Collaborator roles:

	RoleOwner  = "owner"
	RoleEditor = "editor"
*/
package models
