// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package consensus

import (
	"errors"
	"testing"
)

// fiveProposals is the standard A-E round used across the tree tests.
func fiveProposals() []Proposal {
	return []Proposal{
		{Tag: "A", Cities: []string{"Kuala Lumpur", "Penang"}, Description: "Culture and food"},
		{Tag: "B", Cities: []string{"Singapore"}, Description: "Modern metropolis"},
		{Tag: "C", Cities: []string{"Shanghai"}, Description: "Historic skylines"},
		{Tag: "D", Cities: []string{"Dubai"}, Description: "Desert luxury"},
		{Tag: "E", Cities: []string{"London"}, Description: "Royal landmarks"},
	}
}

// fiveQuestions splits A-E as: root {A,B}|{C,D,E}, then {A}|{B},
// {C}|{D,E}, and finally {D}|{E}.
func fiveQuestions() []QuestionSpec {
	return []QuestionSpec{
		{
			Level:        1,
			QuestionText: "Southeast Asia or further afield?",
			OptionAText:  "Southeast Asia", OptionATags: []string{"A", "B"},
			OptionBText: "Further afield", OptionBTags: []string{"C", "D", "E"},
		},
		{
			Level: 2, ParentOption: "A",
			QuestionText: "Multi-city or single hub?",
			OptionAText:  "Multi-city", OptionATags: []string{"A"},
			OptionBText: "Single hub", OptionBTags: []string{"B"},
		},
		{
			Level: 2, ParentOption: "B",
			QuestionText: "History or indulgence?",
			OptionAText:  "History", OptionATags: []string{"C"},
			OptionBText: "Indulgence", OptionBTags: []string{"D", "E"},
		},
		{
			Level: 3, ParentOption: "B",
			QuestionText: "Desert heat or city drizzle?",
			OptionAText:  "Desert heat", OptionATags: []string{"D"},
			OptionBText: "City drizzle", OptionBTags: []string{"E"},
		},
	}
}

func mustBuildTree(t *testing.T) *Tree {
	t.Helper()
	tree, err := BuildTree(fiveProposals(), fiveQuestions(), 0)
	if err != nil {
		t.Fatalf("BuildTree failed on a valid batch: %v", err)
	}
	return tree
}

func TestBuildTreeValid(t *testing.T) {
	tree := mustBuildTree(t)

	root := tree.Root()
	if root.Level != 1 || root.ParentOption != "" {
		t.Errorf("Unexpected root: %+v", root)
	}

	child, ok := tree.Child(1, "B")
	if !ok {
		t.Fatal("Expected child question for option B at level 1")
	}
	if child.QuestionText != "History or indulgence?" {
		t.Errorf("Wrong child question: %q", child.QuestionText)
	}

	if _, ok := tree.ProposalByTag("d"); !ok {
		t.Error("Expected ProposalByTag to normalize lookup casing")
	}
}

func TestBuildTreeNormalizesLowercaseTags(t *testing.T) {
	questions := fiveQuestions()
	questions[3].OptionBTags = []string{"e"} // generators emit stray lowercase tags

	tree, err := BuildTree(fiveProposals(), questions, 0)
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}

	leaf, _ := tree.Child(2, "B")
	if leaf.OptionBTags[0] != "E" {
		t.Errorf("Expected normalized tag E, got %q", leaf.OptionBTags[0])
	}
}

func assertValidationReason(t *testing.T, err error, want ValidationReason) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *ValidationError, got %v", err)
	}
	if verr.Reason != want {
		t.Errorf("Expected reason %q, got %q (%s)", want, verr.Reason, verr.Detail)
	}
}

func TestBuildTreeRejectsEachViolation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p []Proposal, q []QuestionSpec) ([]Proposal, []QuestionSpec)
		reason ValidationReason
	}{
		{
			name: "duplicate proposal tag",
			mutate: func(p []Proposal, q []QuestionSpec) ([]Proposal, []QuestionSpec) {
				p[1].Tag = "A"
				return p, q
			},
			reason: ReasonDuplicateTag,
		},
		{
			name: "too many proposals",
			mutate: func(p []Proposal, q []QuestionSpec) ([]Proposal, []QuestionSpec) {
				return append(p, Proposal{Tag: "F", Cities: []string{"Oslo"}}), q
			},
			reason: ReasonTooManyProposals,
		},
		{
			name: "no proposals",
			mutate: func(p []Proposal, q []QuestionSpec) ([]Proposal, []QuestionSpec) {
				return nil, q
			},
			reason: ReasonNoProposals,
		},
		{
			name: "overlapping options",
			mutate: func(p []Proposal, q []QuestionSpec) ([]Proposal, []QuestionSpec) {
				q[0].OptionBTags = []string{"B", "C", "D", "E"}
				return p, q
			},
			reason: ReasonOverlappingOptions,
		},
		{
			name: "empty option",
			mutate: func(p []Proposal, q []QuestionSpec) ([]Proposal, []QuestionSpec) {
				q[2].OptionATags = nil
				return p, q
			},
			reason: ReasonEmptyOption,
		},
		{
			name: "unknown tag",
			mutate: func(p []Proposal, q []QuestionSpec) ([]Proposal, []QuestionSpec) {
				q[0].OptionBTags = []string{"C", "D", "Z"}
				return p, q
			},
			reason: ReasonUnknownTag,
		},
		{
			name: "root does not cover the proposal set",
			mutate: func(p []Proposal, q []QuestionSpec) ([]Proposal, []QuestionSpec) {
				q[0].OptionBTags = []string{"C", "D"}
				return p, q
			},
			reason: ReasonTagSetMismatch,
		},
		{
			name: "missing root",
			mutate: func(p []Proposal, q []QuestionSpec) ([]Proposal, []QuestionSpec) {
				return p, q[1:]
			},
			reason: ReasonMissingRoot,
		},
		{
			name: "missing child for a non-singleton branch",
			mutate: func(p []Proposal, q []QuestionSpec) ([]Proposal, []QuestionSpec) {
				return p, q[:3] // drop the {D}|{E} question
			},
			reason: ReasonMissingChild,
		},
		{
			name: "child tag-set mismatch",
			mutate: func(p []Proposal, q []QuestionSpec) ([]Proposal, []QuestionSpec) {
				q[3].OptionATags = []string{"C"} // should split {D,E}
				return p, q
			},
			reason: ReasonTagSetMismatch,
		},
		{
			name: "child of a singleton branch",
			mutate: func(p []Proposal, q []QuestionSpec) ([]Proposal, []QuestionSpec) {
				// Hang a question off the terminal {C} branch.
				return p, append(q, QuestionSpec{
					Level: 3, ParentOption: "A",
					QuestionText: "Should not exist",
					OptionAText:  "x", OptionATags: []string{"C"},
					OptionBText: "y", OptionBTags: []string{"D"},
				})
			},
			reason: ReasonChildOfSingleton,
		},
		{
			name: "ambiguous branch addressing",
			mutate: func(p []Proposal, q []QuestionSpec) ([]Proposal, []QuestionSpec) {
				dup := q[3]
				return p, append(q, dup)
			},
			reason: ReasonAmbiguousBranch,
		},
		{
			name: "orphan question",
			mutate: func(p []Proposal, q []QuestionSpec) ([]Proposal, []QuestionSpec) {
				return p, append(q, QuestionSpec{
					Level: 5, ParentOption: "A",
					QuestionText: "Unreachable",
					OptionAText:  "x", OptionATags: []string{"A"},
					OptionBText: "y", OptionBTags: []string{"B"},
				})
			},
			reason: ReasonOrphanQuestion,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, q := tc.mutate(fiveProposals(), fiveQuestions())
			_, err := BuildTree(p, q, 0)
			if err == nil {
				t.Fatal("Expected BuildTree to reject the batch")
			}
			assertValidationReason(t, err, tc.reason)
		})
	}
}
