// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"time"

	"github.com/danielhkuo/tripcanvas/consensus"
)

// Collaborator roles
const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
)

// Request types

type CreateCanvasRequest struct {
	Name string `json:"name"`
}

type RegisterUserRequest struct {
	Email string `json:"email"`
}

type InviteRequest struct {
	Email string `json:"email"`
}

type PreferencesRequest struct {
	Budget           *float64 `json:"budget"`
	Days             *float64 `json:"days"`
	VotedLocationIDs []string `json:"voted_location_ids"`
}

type SubmitAnswerRequest struct {
	SelectedOption string `json:"selected_option"`
}

type AdvanceRequest struct {
	Path []string `json:"path"`
}

type SuggestionsRequest struct {
	Itinerary json.RawMessage `json:"itinerary"`
}

// Response types

type CreateCanvasResponse struct {
	CanvasID string `json:"canvas_id"`
	OwnerKey string `json:"owner_key"`
}

type RegisterUserResponse struct {
	UserID string `json:"user_id"`
	IsNew  bool   `json:"is_new"`
}

type ShareCanvasResponse struct {
	ShareSlug string `json:"share_slug"`
	ShareURL  string `json:"share_url"`
}

type InviteResponse struct {
	Message string `json:"message"`
}

type SubmissionResponse struct {
	Message   string                     `json:"message"`
	Summary   consensus.AggregateSummary `json:"summary"`
	Proposals []consensus.Proposal       `json:"proposals"`
	Root      consensus.Question         `json:"root_question"`
}

type SubmitAnswerResponse struct {
	AnswerID string `json:"answer_id"`
}

type TallyResponse struct {
	Results        map[string]int       `json:"results"`
	WinningOption  string               `json:"winning_option"`
	FinalProposals []consensus.Proposal `json:"final_proposals"`
}

type AdvanceResponse struct {
	Done         bool                `json:"done"`
	NextQuestion *consensus.Question `json:"next_question,omitempty"`
	Winner       *consensus.Proposal `json:"winner,omitempty"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// Domain types

type Canvas struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	OwnerID           string          `json:"owner_id"`
	ShareSlug         *string         `json:"share_slug,omitempty"`
	FinalLocationIDs  []string        `json:"final_location_ids,omitempty"`
	FinalTotalDays    *float64        `json:"final_total_days,omitempty"`
	FinalBudgetPerDay *float64        `json:"final_budget_per_day,omitempty"`
	FinalProposal     json.RawMessage `json:"final_proposal,omitempty"`
	FinalItinerary    json.RawMessage `json:"final_itinerary,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

type Collaborator struct {
	CanvasID         string   `json:"canvas_id"`
	UserID           string   `json:"user_id"`
	Role             string   `json:"role"`
	Budget           *float64 `json:"budget,omitempty"`
	Days             *float64 `json:"days,omitempty"`
	VotedLocationIDs []string `json:"voted_location_ids,omitempty"`
}

type Answer struct {
	ID             string    `json:"id"`
	QuestionID     string    `json:"question_id"`
	UserID         string    `json:"user_id"`
	SelectedOption string    `json:"selected_option"`
	CreatedAt      time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
