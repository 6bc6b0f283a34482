// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package consensus

import "fmt"

// NextStep is the navigator's answer: either the next question to put to the
// group, or convergence on a single winning proposal tag.
type NextStep struct {
	Done         bool      `json:"done"`
	NextQuestion *Question `json:"next_question,omitempty"`
	WinningTag   string    `json:"winning_tag,omitempty"`
}

// Advance walks the tree from the root along a path of chosen option labels
// and returns the next active step. It is a pure function of (tree, path):
// calling it twice with the same arguments yields the same NextStep, and
// nothing is mutated. The path is the full decision history, so there is no
// per-question status flag to keep in sync.
//
// An empty path continues at the root. A label other than "A"/"B", or a path
// that keeps going after convergence, fails with ErrInvalidPath (bad input).
// A non-terminal branch with no child question fails with ErrBrokenTree;
// that means validation was bypassed upstream and is never a user error.
func Advance(tree *Tree, path []string) (NextStep, error) {
	current := tree.Root()

	for i, label := range path {
		label = normalizeTag(label)
		tags, ok := current.OptionTags(label)
		if !ok {
			return NextStep{}, fmt.Errorf("path element %d: unknown option label %q: %w", i, label, ErrInvalidPath)
		}

		if len(tags) == 1 {
			if i != len(path)-1 {
				return NextStep{}, fmt.Errorf("path continues past convergence at element %d: %w", i, ErrInvalidPath)
			}
			return NextStep{Done: true, WinningTag: tags[0]}, nil
		}

		child, ok := tree.Child(current.Level, label)
		if !ok {
			return NextStep{}, fmt.Errorf("no question at level %d for option %q: %w", current.Level+1, label, ErrBrokenTree)
		}
		current = child
	}

	next := current
	return NextStep{NextQuestion: &next}, nil
}
