// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package consensus

import (
	"errors"
	"reflect"
	"testing"
)

func TestAdvanceEmptyPathStartsAtRoot(t *testing.T) {
	tree := mustBuildTree(t)

	step, err := Advance(tree, nil)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if step.Done {
		t.Fatal("Expected the root question, not convergence")
	}
	if step.NextQuestion == nil || step.NextQuestion.Level != 1 {
		t.Fatalf("Expected the level-1 root, got %+v", step.NextQuestion)
	}
}

func TestAdvanceEndToEnd(t *testing.T) {
	tree := mustBuildTree(t)

	// Round one: the group picks the Southeast Asia side. Next question is
	// the level-2 split of {A,B}.
	step, err := Advance(tree, []string{"A"})
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if step.Done || step.NextQuestion == nil {
		t.Fatalf("Expected a follow-up question, got %+v", step)
	}
	if step.NextQuestion.Level != 2 || step.NextQuestion.ParentOption != "A" {
		t.Fatalf("Expected the (level 2, parent A) question, got %+v", step.NextQuestion)
	}

	// Round two: option A again, which is the singleton {A}. Converged.
	step, err = Advance(tree, []string{"A", "A"})
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if !step.Done || step.WinningTag != "A" {
		t.Fatalf("Expected convergence on tag A, got %+v", step)
	}
}

func TestAdvanceDeepPath(t *testing.T) {
	tree := mustBuildTree(t)

	// B at the root, B at level 2 ({D,E}), then A at level 3 ({D}).
	step, err := Advance(tree, []string{"B", "B", "A"})
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if !step.Done || step.WinningTag != "D" {
		t.Fatalf("Expected convergence on tag D, got %+v", step)
	}
}

func TestAdvanceIsIdempotent(t *testing.T) {
	tree := mustBuildTree(t)
	path := []string{"B", "B"}

	first, err := Advance(tree, path)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	second, err := Advance(tree, path)
	if err != nil {
		t.Fatalf("Second Advance failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Advance is not idempotent: %+v vs %+v", first, second)
	}
}

func TestAdvanceInvalidPath(t *testing.T) {
	tree := mustBuildTree(t)

	if _, err := Advance(tree, []string{"C"}); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath for an unknown label, got %v", err)
	}

	// {A,A} converges; a third element runs past the end.
	if _, err := Advance(tree, []string{"A", "A", "B"}); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath past convergence, got %v", err)
	}
}

func TestAdvanceNormalizesPathLabels(t *testing.T) {
	tree := mustBuildTree(t)

	step, err := Advance(tree, []string{"a", " a "})
	if err != nil {
		t.Fatalf("Advance failed on lowercase path labels: %v", err)
	}
	if !step.Done || step.WinningTag != "A" {
		t.Fatalf("Expected convergence on tag A, got %+v", step)
	}
}

func TestAdvanceBrokenTree(t *testing.T) {
	tree := mustBuildTree(t)

	// Simulate bypassed validation by dropping the child the {D,E} branch
	// needs. This must surface as ErrBrokenTree, never as convergence.
	delete(tree.children, childKey{level: 3, parent: "B"})

	_, err := Advance(tree, []string{"B", "B"})
	if !errors.Is(err, ErrBrokenTree) {
		t.Fatalf("Expected ErrBrokenTree, got %v", err)
	}
}
