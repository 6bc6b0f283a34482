// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package consensus implements the group-consensus engine: the pure data
structures and algorithms that take a group of collaborators from raw travel
preferences to a single agreed proposal.

# Pipeline

	prefs := []consensus.Preference{...}
	summary, err := consensus.Aggregate(prefs)          // reduce preferences
	// ... hand summary to the external generator (package genai) ...
	tree, err := consensus.BuildTree(proposals, questions, 0)
	result, err := consensus.Tally(tree.Root(), ballots, consensus.CountPerTag)
	step, err := consensus.Advance(tree, []string{result.WinningOption})

Aggregate reduces per-collaborator inputs (budget, days, location votes)
into an AggregateSummary. BuildTree validates the generator's output — five
tagged proposals plus a binary question tree over the tags — and rejects the
whole batch on any structural violation. Tally counts ballots on one
question and resolves the winning branch. Advance walks the validated tree
along the history of winning option labels and reports either the next
question or convergence on one proposal tag.

Every function in this package is pure: no storage, no clock, no I/O.
Callers own snapshot consistency (read all ballots for a question in one
consistent read before tallying) and serialization of tree regeneration per
canvas.

# Errors

	ErrEmptyInput     — Aggregate called with zero preferences
	*ValidationError  — BuildTree rejected the batch (carries a reason code)
	ErrAmbiguousTally — no ballots, or the maximum spans both options
	ErrBrokenTree     — Advance found a non-terminal branch with no child;
	                    always an internal contract violation
	ErrInvalidPath    — bad option label or path past convergence

None of these leave partial state behind; the engine never retries.
*/
package consensus
