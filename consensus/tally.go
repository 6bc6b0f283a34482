// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package consensus

import (
	"fmt"
	"sort"
)

// CountingStrategy selects how ballots are turned into counts. The two
// strategies agree on which option wins; they differ in what the count map
// is keyed by, which matters to anyone reading the counts downstream.
type CountingStrategy string

const (
	// CountPerTag expands each ballot into one vote for every proposal tag
	// under its chosen option. A ballot for an option covering three
	// proposals therefore shows up three times in the count map. This is the
	// product's original voting semantics and the default.
	CountPerTag CountingStrategy = "per-tag"

	// CountPerOption counts ballots against the option labels themselves.
	CountPerOption CountingStrategy = "per-option"
)

// ParseCountingStrategy validates a strategy name from config.
func ParseCountingStrategy(s string) (CountingStrategy, error) {
	switch CountingStrategy(s) {
	case CountPerTag, CountPerOption:
		return CountingStrategy(s), nil
	case "":
		return CountPerTag, nil
	}
	return "", fmt.Errorf("unknown counting strategy %q", s)
}

// Ballot is one user's vote for one option of one question. The model allows
// multiple ballots per user per question; the tally counts every one of them
// (accumulation, not overwrite).
type Ballot struct {
	UserID string `json:"user_id"`
	Option string `json:"selected_option"`
}

// TallyResult is the outcome of tallying one question's ballots. Counts is
// always populated, even when tallying fails with ErrAmbiguousTally, so
// callers can show the standings behind a tie.
type TallyResult struct {
	Counts        map[string]int `json:"counts"`
	WinningTags   []string       `json:"winning_tags"`
	WinningOption string         `json:"winning_option"`
}

// Tally counts the ballots cast on a question and resolves the winning
// branch. It is a pure function of its inputs and order-independent: any
// permutation of ballots produces the same result.
//
// An empty ballot list, or a maximum count shared by entries spanning both
// options, fails with ErrAmbiguousTally; the partial result (with counts)
// accompanies the error.
func Tally(q Question, ballots []Ballot, strategy CountingStrategy) (TallyResult, error) {
	counts := make(map[string]int)
	result := TallyResult{Counts: counts}

	for i, b := range ballots {
		tags, ok := q.OptionTags(b.Option)
		if !ok {
			return result, fmt.Errorf("ballot %d: invalid option %q", i, b.Option)
		}
		switch strategy {
		case CountPerOption:
			counts[b.Option]++
		default:
			for _, t := range tags {
				counts[t]++
			}
		}
	}

	if len(ballots) == 0 {
		return result, fmt.Errorf("no ballots cast: %w", ErrAmbiguousTally)
	}

	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	var winners []string
	for k, c := range counts {
		if c == max {
			winners = append(winners, k)
		}
	}
	sort.Strings(winners)

	if strategy == CountPerOption {
		if len(winners) > 1 {
			return result, fmt.Errorf("options tied at %d votes: %w", max, ErrAmbiguousTally)
		}
		result.WinningOption = winners[0]
		tags, _ := q.OptionTags(winners[0])
		result.WinningTags = append([]string{}, tags...)
		return result, nil
	}

	// Per-tag: the winners must all live under one option, otherwise the
	// original Math.max semantics give no answer and we refuse to guess.
	option, ok := optionCovering(q, winners)
	if !ok {
		return result, fmt.Errorf("winning tags %v span both options: %w", winners, ErrAmbiguousTally)
	}
	result.WinningTags = winners
	result.WinningOption = option
	return result, nil
}

// optionCovering reports which single option contains every given tag.
func optionCovering(q Question, tags []string) (string, bool) {
	for _, label := range []string{OptionA, OptionB} {
		optTags, _ := q.OptionTags(label)
		set := make(map[string]bool, len(optTags))
		for _, t := range optTags {
			set[t] = true
		}
		all := true
		for _, t := range tags {
			if !set[t] {
				all = false
				break
			}
		}
		if all {
			return label, true
		}
	}
	return "", false
}
