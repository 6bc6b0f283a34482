// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package genai

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/danielhkuo/tripcanvas/consensus"
)

// ErrMalformedOutput is returned when the generator replies with something
// that is not the JSON shape it was asked for. The generator is an untrusted
// producer; callers map this to a 502-class failure, never a retry loop.
var ErrMalformedOutput = errors.New("generator returned malformed output")

// PlanPayload is the raw decision-round payload produced by the creative
// generator: tagged proposals plus the binary question tree over their tags.
// It is structurally unvalidated here - consensus.BuildTree is the gate.
type PlanPayload struct {
	Proposals []consensus.Proposal     `json:"proposals"`
	Questions []consensus.QuestionSpec `json:"questions"`
}

// ItineraryRequest carries the winning proposal's resolved parameters to the
// itinerary generator.
type ItineraryRequest struct {
	Cities       []string `json:"cities"`
	TotalDays    float64  `json:"total_days"`
	BudgetPerDay float64  `json:"budget_per_day"`
}

// Generator is the narrow interface the handlers depend on. The production
// implementation is Client; tests substitute stubs.
type Generator interface {
	// GeneratePlan turns an aggregate preference summary into a proposal
	// set and decision tree for one round.
	GeneratePlan(ctx context.Context, summary consensus.AggregateSummary) (*PlanPayload, error)

	// GenerateItinerary produces an opaque structured itinerary for the
	// winning proposal. The content is stored verbatim.
	GenerateItinerary(ctx context.Context, req ItineraryRequest) (json.RawMessage, error)

	// SuggestImprovements reviews an itinerary and returns feedback notes.
	SuggestImprovements(ctx context.Context, itinerary json.RawMessage) ([]string, error)
}
