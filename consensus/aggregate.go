// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package consensus

import "sort"

// Preference is one collaborator's raw input: how much they want to spend,
// how long they want to travel, and which candidate locations they voted for.
// Budget and Days are pointers because collaborators may join a canvas before
// filling either in.
type Preference struct {
	Budget           *float64
	Days             *float64
	VotedLocationIDs []string
}

// LocationVotes is one entry of the ranked location list.
type LocationVotes struct {
	LocationID string `json:"location_id"`
	Votes      int    `json:"votes"`
}

// AggregateSummary is the reduced view of a group's preferences, used as the
// input to the external proposal generator. It is derived, never persisted.
//
// GroupSize is the sum of all location vote counts, not a headcount. A
// collaborator who voted for three locations weighs three times as much as
// one who voted for one. This is a deliberate participation-weight policy
// inherited from the product, so do not "fix" it to len(preferences).
type AggregateSummary struct {
	GroupSize      int             `json:"group_size"`
	TotalBudget    float64         `json:"total_budget"`
	AverageDays    float64         `json:"average_days"`
	VotedLocations []LocationVotes `json:"voted_locations"`
}

// Aggregate reduces per-collaborator preferences into a single summary.
//
// Total budget is the sum of all budgets (nil counts as 0). Average days is
// the exact arithmetic mean over all preferences, including those with nil
// days (also counted as 0). An empty input fails with ErrEmptyInput rather
// than dividing by zero.
//
// Aggregate is a pure function: it reads its input and touches nothing else.
func Aggregate(prefs []Preference) (AggregateSummary, error) {
	if len(prefs) == 0 {
		return AggregateSummary{}, ErrEmptyInput
	}

	var totalBudget, totalDays float64
	locationCounts := make(map[string]int)

	for _, p := range prefs {
		if p.Budget != nil {
			totalBudget += *p.Budget
		}
		if p.Days != nil {
			totalDays += *p.Days
		}
		for _, loc := range p.VotedLocationIDs {
			locationCounts[loc]++
		}
	}

	ranked := make([]LocationVotes, 0, len(locationCounts))
	groupSize := 0
	for id, votes := range locationCounts {
		ranked = append(ranked, LocationVotes{LocationID: id, Votes: votes})
		groupSize += votes
	}

	// Rank by votes, ties kept and ordered by location ID for determinism.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Votes != ranked[j].Votes {
			return ranked[i].Votes > ranked[j].Votes
		}
		return ranked[i].LocationID < ranked[j].LocationID
	})

	return AggregateSummary{
		GroupSize:      groupSize,
		TotalBudget:    totalBudget,
		AverageDays:    totalDays / float64(len(prefs)),
		VotedLocations: ranked,
	}, nil
}
