// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package genai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/danielhkuo/tripcanvas/consensus"
)

func planPrompt(summary consensus.AggregateSummary, maxProposals int) string {
	prefs, _ := json.MarshalIndent(summary, "", "  ")
	return fmt.Sprintf(`You are a world-class travel agent and a master facilitator for group decisions. Analyze this group's travel preferences and produce %d distinct, creative travel proposals, then a binary decision tree of questions that narrows them down to one.

Group preferences:
%s

Part 1 - Proposals:
1. Synthesize the voted locations, budgets, and day counts into %d diverse proposals. A proposal may cover one city or several.
2. Vary the angle across proposals (adventure, relaxation, budget, culture).
3. Assign each proposal a unique single-letter tag, in order: "A", "B", "C", ...

Part 2 - Decision tree:
1. Write binary-choice questions that progressively split the proposals.
2. The level-1 question splits all tags into two non-empty groups. Each later question carries "parent_option" ("A" or "B"), naming the branch of the previous level it continues, and splits exactly that branch's tags.
3. Keep splitting until every branch holds a single tag. A branch with one tag gets no further question.
4. Each question should name the core trade-off between its two sides.

Part 3 - Output. Reply with a single valid JSON object, nothing else:
{
  "proposals": [
    { "tag": "A", "cities": ["Kuala Lumpur", "Penang"], "description": "..." }
  ],
  "questions": [
    {
      "level": 1,
      "question_text": "...",
      "option_a_text": "...", "option_a_tags": ["A", "B"],
      "option_b_text": "...", "option_b_tags": ["C", "D", "E"]
    },
    {
      "level": 2, "parent_option": "A",
      "question_text": "...",
      "option_a_text": "...", "option_a_tags": ["A"],
      "option_b_text": "...", "option_b_tags": ["B"]
    }
  ]
}`, maxProposals, prefs, maxProposals)
}

func itineraryPrompt(req ItineraryRequest) string {
	return fmt.Sprintf(`You are a world-class travel planner. Build a complete day-by-day itinerary for the group's final choice.

Inputs:
- Cities: %s
- Total days: %g
- Budget per day: %g USD

Rules:
1. Distribute the days across the cities in a logical travel order.
2. Every day has an "items" array; each item has "id", "type" (one of "Hotel", "Restaurant", "Location"), "name", "link" (always "https://example.com") and "image" (always "/image-placeholder.png").
3. Each day carries 1-2 hotels, 2-3 restaurants, and 2-3 locations.
4. Reply with a single valid JSON object keyed "day1", "day2", ... and nothing else.`,
		strings.Join(req.Cities, ", "), req.TotalDays, req.BudgetPerDay)
}

func suggestionsPrompt(itinerary json.RawMessage) string {
	return fmt.Sprintf(`You are a travel assistant reviewing a group's itinerary. Look for days that are too empty or too full, missing hotels, restaurants or attractions, and imbalance across days.

Reply with ONLY a JSON array of short feedback strings. No markdown, no code fences, no other text. Example:
["Day 1 is heavy on attractions, consider moving one to Day 3.", "Day 4 has no hotel entries."]

Itinerary JSON:
%s`, string(itinerary))
}
