// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package consensus

import (
	"sort"
	"strings"
)

// Option labels. Every question is a binary split between these two.
const (
	OptionA = "A"
	OptionB = "B"
)

// DefaultMaxProposals bounds how many candidate outcomes a canvas round may
// carry. Five single-letter tags (A-E) is the product default.
const DefaultMaxProposals = 5

// Proposal is one candidate final outcome of a canvas round. The description
// is opaque, externally generated text; the engine only cares about the tag.
type Proposal struct {
	Tag         string   `json:"tag"`
	Cities      []string `json:"cities"`
	Description string   `json:"description"`
}

// Question is one node of the decision tree: a binary split of a subset of
// proposal tags into two labeled branches. The root has Level 1 and an empty
// ParentOption; every other question is addressed by (Level, ParentOption).
type Question struct {
	Level        int      `json:"level"`
	ParentOption string   `json:"parent_option"`
	QuestionText string   `json:"question_text"`
	OptionAText  string   `json:"option_a_text"`
	OptionATags  []string `json:"option_a_tags"`
	OptionBText  string   `json:"option_b_text"`
	OptionBTags  []string `json:"option_b_tags"`
}

// OptionTags returns the tag-set behind one of the question's two options.
func (q Question) OptionTags(label string) ([]string, bool) {
	switch label {
	case OptionA:
		return q.OptionATags, true
	case OptionB:
		return q.OptionBTags, true
	}
	return nil, false
}

type childKey struct {
	level  int
	parent string
}

// Tree is a validated decision tree. Construct one only through BuildTree;
// a Tree that exists has passed every structural rule.
type Tree struct {
	Proposals []Proposal
	Questions []Question

	root     int
	children map[childKey]int
}

// Root returns the level-1 question.
func (t *Tree) Root() Question {
	return t.Questions[t.root]
}

// Child looks up the question reached by choosing option label at the given
// level, i.e. the question at (level+1, label).
func (t *Tree) Child(level int, label string) (Question, bool) {
	idx, ok := t.children[childKey{level: level + 1, parent: label}]
	if !ok {
		return Question{}, false
	}
	return t.Questions[idx], true
}

// ProposalByTag returns the proposal carrying the given tag.
func (t *Tree) ProposalByTag(tag string) (Proposal, bool) {
	tag = normalizeTag(tag)
	for _, p := range t.Proposals {
		if p.Tag == tag {
			return p, true
		}
	}
	return Proposal{}, false
}

func normalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}

func normalizeTags(tags []string) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = normalizeTag(t)
	}
	return out
}

func sameTagSet(a map[string]bool, tags []string) bool {
	if len(a) != len(tags) {
		return false
	}
	for _, t := range tags {
		if !a[t] {
			return false
		}
	}
	return true
}

// BuildTree validates a generated proposal/question batch and assembles it
// into a navigable Tree. The generator is untrusted: every structural rule
// is checked here, and a single violation rejects the whole batch.
//
// Rules, in order:
//  1. 1..maxProposals proposals, unique tags (maxProposals <= 0 means the
//     default of 5)
//  2. both option tag-sets of every question are non-empty and disjoint
//  3. exactly one root (level 1, no parent option) whose combined tag-set is
//     exactly the full proposal tag set
//  4. every non-singleton option at level N with label L has exactly one
//     child question at (N+1, L) whose combined tag-set equals the option's
//  5. singleton options are terminal: a child question for one is an error
//  6. tags are normalized (trimmed, upper-cased) and checked against the
//     proposal tag set; unknown tags and unreachable questions are rejected
//
// Tag normalization exists because generators emit stray lowercase tags;
// the stored tree only ever contains normalized tags.
func BuildTree(proposals []Proposal, questions []QuestionSpec, maxProposals int) (*Tree, error) {
	if maxProposals <= 0 {
		maxProposals = DefaultMaxProposals
	}
	if len(proposals) == 0 {
		return nil, validationErrorf(ReasonNoProposals, "a round needs at least one proposal")
	}
	if len(proposals) > maxProposals {
		return nil, validationErrorf(ReasonTooManyProposals, "%d proposals exceeds the bound of %d", len(proposals), maxProposals)
	}

	// Rule 1: unique, normalized proposal tags.
	fullSet := make(map[string]bool, len(proposals))
	normProposals := make([]Proposal, len(proposals))
	for i, p := range proposals {
		tag := normalizeTag(p.Tag)
		if tag == "" {
			return nil, validationErrorf(ReasonUnknownTag, "proposal %d has an empty tag", i)
		}
		if fullSet[tag] {
			return nil, validationErrorf(ReasonDuplicateTag, "proposal tag %q appears more than once", tag)
		}
		fullSet[tag] = true
		normProposals[i] = Proposal{Tag: tag, Cities: p.Cities, Description: p.Description}
	}

	// Normalize questions, then check rules 2 and 6 per question.
	normQuestions := make([]Question, len(questions))
	for i, spec := range questions {
		q := Question{
			Level:        spec.Level,
			ParentOption: normalizeTag(spec.ParentOption),
			QuestionText: spec.QuestionText,
			OptionAText:  spec.OptionAText,
			OptionATags:  normalizeTags(spec.OptionATags),
			OptionBText:  spec.OptionBText,
			OptionBTags:  normalizeTags(spec.OptionBTags),
		}
		if len(q.OptionATags) == 0 || len(q.OptionBTags) == 0 {
			return nil, validationErrorf(ReasonEmptyOption, "question %d has an empty option tag-set", i)
		}
		seen := make(map[string]bool)
		for _, t := range append(append([]string{}, q.OptionATags...), q.OptionBTags...) {
			if !fullSet[t] {
				return nil, validationErrorf(ReasonUnknownTag, "question %d references unknown tag %q", i, t)
			}
			if seen[t] {
				return nil, validationErrorf(ReasonOverlappingOptions, "question %d lists tag %q on both options", i, t)
			}
			seen[t] = true
		}
		normQuestions[i] = q
	}

	// Index children by (level, parent option). A duplicate key makes the
	// navigator's addressing ambiguous, so it is rejected outright.
	children := make(map[childKey]int)
	rootIdx := -1
	for i, q := range normQuestions {
		if q.Level == 1 && q.ParentOption == "" {
			if rootIdx != -1 {
				return nil, validationErrorf(ReasonAmbiguousBranch, "more than one root question")
			}
			rootIdx = i
			continue
		}
		if q.Level <= 1 || (q.ParentOption != OptionA && q.ParentOption != OptionB) {
			return nil, validationErrorf(ReasonOrphanQuestion, "question %d has level %d and parent option %q", i, q.Level, q.ParentOption)
		}
		key := childKey{level: q.Level, parent: q.ParentOption}
		if _, dup := children[key]; dup {
			return nil, validationErrorf(ReasonAmbiguousBranch, "two questions at level %d share parent option %q", q.Level, q.ParentOption)
		}
		children[key] = i
	}
	if rootIdx == -1 {
		return nil, validationErrorf(ReasonMissingRoot, "no level-1 root question")
	}

	// Rule 3: the root covers the full tag set.
	root := normQuestions[rootIdx]
	if !sameTagSet(fullSet, append(append([]string{}, root.OptionATags...), root.OptionBTags...)) {
		return nil, validationErrorf(ReasonTagSetMismatch, "root tag-sets do not cover the proposal set exactly")
	}

	// Walk down from the root, pairing every non-singleton branch with its
	// child (rules 4 and 5) and marking the questions we reach.
	visited := map[int]bool{rootIdx: true}
	queue := []int{rootIdx}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		q := normQuestions[idx]

		for _, label := range []string{OptionA, OptionB} {
			tags, _ := q.OptionTags(label)
			key := childKey{level: q.Level + 1, parent: label}
			childIdx, hasChild := children[key]

			if len(tags) == 1 {
				// Terminal branch; rule 5 is checked after the walk so a
				// child claimed by a sibling branch is not misreported.
				continue
			}

			if !hasChild {
				return nil, validationErrorf(ReasonMissingChild, "option %s at level %d splits %d proposals but has no child question", label, q.Level, len(tags))
			}
			want := make(map[string]bool, len(tags))
			for _, t := range tags {
				want[t] = true
			}
			if !sameTagSet(want, unionTags(normQuestions[childIdx])) {
				return nil, validationErrorf(ReasonTagSetMismatch, "child of option %s at level %d does not split the same tags", label, q.Level)
			}
			visited[childIdx] = true
			queue = append(queue, childIdx)
		}
	}

	// Rule 5: a question sitting behind a singleton branch was never claimed
	// by the walk above. Report it as a child-of-singleton before the generic
	// orphan check so the error names the actual violation.
	for idx := range visited {
		q := normQuestions[idx]
		for _, label := range []string{OptionA, OptionB} {
			tags, _ := q.OptionTags(label)
			if len(tags) != 1 {
				continue
			}
			if childIdx, hasChild := children[childKey{level: q.Level + 1, parent: label}]; hasChild && !visited[childIdx] {
				return nil, validationErrorf(ReasonChildOfSingleton, "option %s at level %d is terminal but has a child question", label, q.Level)
			}
		}
	}

	// Rule 6 tail: every question must be reachable from the root.
	for i := range normQuestions {
		if !visited[i] {
			return nil, validationErrorf(ReasonOrphanQuestion, "question %d is not reachable from the root", i)
		}
	}

	// Stable proposal order for callers that render the round.
	sort.Slice(normProposals, func(i, j int) bool { return normProposals[i].Tag < normProposals[j].Tag })

	return &Tree{
		Proposals: normProposals,
		Questions: normQuestions,
		root:      rootIdx,
		children:  children,
	}, nil
}

func unionTags(q Question) []string {
	return append(append([]string{}, q.OptionATags...), q.OptionBTags...)
}

// QuestionSpec is the raw, untrusted question shape as emitted by the
// external generator (or read back from storage). BuildTree turns a batch of
// these into validated Questions.
type QuestionSpec struct {
	Level        int      `json:"level"`
	ParentOption string   `json:"parent_option"`
	QuestionText string   `json:"question_text"`
	OptionAText  string   `json:"option_a_text"`
	OptionATags  []string `json:"option_a_tags"`
	OptionBText  string   `json:"option_b_text"`
	OptionBTags  []string `json:"option_b_tags"`
}
