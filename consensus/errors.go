// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package consensus

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when aggregation is invoked with zero preferences.
	ErrEmptyInput = errors.New("no preferences to aggregate")

	// ErrAmbiguousTally is returned when a tally has no ballots or the maximum
	// vote count is shared across both options. Callers decide the resolution
	// policy (re-vote, default, etc.); the engine never guesses.
	ErrAmbiguousTally = errors.New("tally is ambiguous")

	// ErrBrokenTree is returned when navigation expects a child question that
	// does not exist. This means builder validation was bypassed and is always
	// an internal contract violation, never a user error.
	ErrBrokenTree = errors.New("decision tree is broken")

	// ErrInvalidPath is returned when a navigation path contains an unknown
	// option label or runs past convergence.
	ErrInvalidPath = errors.New("invalid navigation path")
)

// ValidationReason identifies which structural rule a decision tree violated.
type ValidationReason string

const (
	ReasonNoProposals        ValidationReason = "no_proposals"
	ReasonTooManyProposals   ValidationReason = "too_many_proposals"
	ReasonDuplicateTag       ValidationReason = "duplicate_tag"
	ReasonUnknownTag         ValidationReason = "unknown_tag"
	ReasonEmptyOption        ValidationReason = "empty_option"
	ReasonOverlappingOptions ValidationReason = "overlapping_options"
	ReasonMissingRoot        ValidationReason = "missing_root"
	ReasonTagSetMismatch     ValidationReason = "tag_set_mismatch"
	ReasonMissingChild       ValidationReason = "missing_child"
	ReasonChildOfSingleton   ValidationReason = "child_of_singleton"
	ReasonOrphanQuestion     ValidationReason = "orphan_question"
	ReasonAmbiguousBranch    ValidationReason = "ambiguous_branch"
)

// ValidationError reports a rejected proposal/question batch. The whole batch
// is rejected on the first violation; nothing is persisted.
type ValidationError struct {
	Reason ValidationReason
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid decision tree (%s): %s", e.Reason, e.Detail)
}

func validationErrorf(reason ValidationReason, format string, args ...interface{}) error {
	return &ValidationError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
