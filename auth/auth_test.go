// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"testing"
)

func TestGenerateID(t *testing.T) {
	id1, err := GenerateID(16)
	if err != nil {
		t.Fatalf("GenerateID failed: %v", err)
	}
	if len(id1) != 32 { // 16 bytes = 32 hex chars
		t.Errorf("Expected 32 hex chars, got %d", len(id1))
	}

	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("Two generated IDs should not collide")
	}
}

func TestOwnerKeyRoundTrip(t *testing.T) {
	canvasID := "canvas-123"
	salt := "test-salt"

	key := GenerateOwnerKey(canvasID, salt)
	if key == "" {
		t.Fatal("Expected a non-empty owner key")
	}

	if err := ValidateOwnerKey(canvasID, key, salt); err != nil {
		t.Errorf("Valid key rejected: %v", err)
	}

	if err := ValidateOwnerKey(canvasID, key, "other-salt"); !errors.Is(err, ErrInvalidOwnerKey) {
		t.Errorf("Expected ErrInvalidOwnerKey with wrong salt, got %v", err)
	}

	if err := ValidateOwnerKey("other-canvas", key, salt); !errors.Is(err, ErrInvalidOwnerKey) {
		t.Errorf("Expected ErrInvalidOwnerKey for wrong canvas, got %v", err)
	}
}

func TestGenerateShareSlug(t *testing.T) {
	slug := GenerateShareSlug("canvas-123", "slug-salt")
	if slug == "" {
		t.Fatal("Expected a non-empty slug")
	}

	// Deterministic for the same inputs
	if slug != GenerateShareSlug("canvas-123", "slug-salt") {
		t.Error("Slug generation should be deterministic")
	}

	// Alphanumeric only
	for _, c := range slug {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			t.Errorf("Slug contains non-base62 character %q", c)
		}
	}

	if slug == GenerateShareSlug("canvas-456", "slug-salt") {
		t.Error("Different canvases should get different slugs")
	}
}

func TestHashIP(t *testing.T) {
	h1 := HashIP("192.168.1.1", "salt")
	h2 := HashIP("192.168.1.1", "salt")
	if h1 != h2 {
		t.Error("HashIP should be deterministic")
	}
	if len(h1) != 16 {
		t.Errorf("Expected 16 hex chars, got %d", len(h1))
	}
	if h1 == HashIP("192.168.1.2", "salt") {
		t.Error("Different IPs should hash differently")
	}
}
