// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/tripcanvas/auth"
	"github.com/danielhkuo/tripcanvas/models"
	"github.com/danielhkuo/tripcanvas/testutil"
)

func TestCreateCanvas(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	h := NewCanvasHandler(db, cfg)

	ownerID := testutil.CreateTestUser(t, db, "owner@example.com")

	req := testutil.MakeRequest("POST", "/canvases",
		models.CreateCanvasRequest{Name: "Summer Trip"},
		map[string]string{"X-User-ID": ownerID})
	w := httptest.NewRecorder()
	h.CreateCanvas(w, req)

	testutil.AssertStatus(t, w, 201)

	var resp models.CreateCanvasResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.CanvasID == "" {
		t.Fatal("Expected a canvas ID")
	}
	if err := auth.ValidateOwnerKey(resp.CanvasID, resp.OwnerKey, cfg.OwnerKeySalt); err != nil {
		t.Errorf("Returned owner key does not validate: %v", err)
	}

	// The owner must exist as a collaborator so their preferences count.
	var role string
	err := db.QueryRow(`
		SELECT role FROM canvas_collaborators WHERE canvas_id = $1 AND user_id = $2
	`, resp.CanvasID, ownerID).Scan(&role)
	if err != nil {
		t.Fatalf("Owner collaborator row missing: %v", err)
	}
	if role != models.RoleOwner {
		t.Errorf("Expected owner role, got %q", role)
	}
}

func TestCreateCanvasRequiresUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewCanvasHandler(db, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/canvases",
		models.CreateCanvasRequest{Name: "Summer Trip"}, nil)
	w := httptest.NewRecorder()
	h.CreateCanvas(w, req)

	testutil.AssertStatus(t, w, 401)
}

func TestCreateCanvasRequiresName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewCanvasHandler(db, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/canvases",
		models.CreateCanvasRequest{}, map[string]string{"X-User-ID": "u1"})
	w := httptest.NewRecorder()
	h.CreateCanvas(w, req)

	testutil.AssertStatus(t, w, 400)
}

func TestShareCanvas(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	h := NewCanvasHandler(db, cfg)

	ownerID := testutil.CreateTestUser(t, db, "owner@example.com")
	canvasID, ownerKey := testutil.CreateTestCanvas(t, db, cfg, ownerID)

	req := testutil.MakeRequest("POST", "/canvases/"+canvasID+"/share", nil,
		map[string]string{"X-Owner-Key": ownerKey})
	req.SetPathValue("id", canvasID)
	w := httptest.NewRecorder()
	h.ShareCanvas(w, req)

	testutil.AssertStatus(t, w, 200)

	var resp models.ShareCanvasResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.ShareSlug == "" {
		t.Fatal("Expected a share slug")
	}
	if resp.ShareURL != "/c/"+resp.ShareSlug {
		t.Errorf("Unexpected share URL %q", resp.ShareURL)
	}

	// Slug is deterministic per canvas; sharing twice keeps the same link.
	w2 := httptest.NewRecorder()
	req2 := testutil.MakeRequest("POST", "/canvases/"+canvasID+"/share", nil,
		map[string]string{"X-Owner-Key": ownerKey})
	req2.SetPathValue("id", canvasID)
	h.ShareCanvas(w2, req2)

	var resp2 models.ShareCanvasResponse
	testutil.AssertJSON(t, w2, &resp2)
	if resp2.ShareSlug != resp.ShareSlug {
		t.Errorf("Slug changed across shares: %q vs %q", resp.ShareSlug, resp2.ShareSlug)
	}
}

func TestShareCanvasRejectsBadKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	h := NewCanvasHandler(db, cfg)

	ownerID := testutil.CreateTestUser(t, db, "owner@example.com")
	canvasID, _ := testutil.CreateTestCanvas(t, db, cfg, ownerID)

	req := testutil.MakeRequest("POST", "/canvases/"+canvasID+"/share", nil,
		map[string]string{"X-Owner-Key": "forged"})
	req.SetPathValue("id", canvasID)
	w := httptest.NewRecorder()
	h.ShareCanvas(w, req)

	testutil.AssertStatus(t, w, 401)
}

func TestGetCanvasBySlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	h := NewCanvasHandler(db, cfg)

	ownerID := testutil.CreateTestUser(t, db, "owner@example.com")
	canvasID, ownerKey := testutil.CreateTestCanvas(t, db, cfg, ownerID)

	shareReq := testutil.MakeRequest("POST", "/canvases/"+canvasID+"/share", nil,
		map[string]string{"X-Owner-Key": ownerKey})
	shareReq.SetPathValue("id", canvasID)
	shareW := httptest.NewRecorder()
	h.ShareCanvas(shareW, shareReq)

	var shared models.ShareCanvasResponse
	testutil.AssertJSON(t, shareW, &shared)

	req := testutil.MakeRequest("GET", "/c/"+shared.ShareSlug, nil, nil)
	req.SetPathValue("slug", shared.ShareSlug)
	w := httptest.NewRecorder()
	h.GetCanvasBySlug(w, req)

	testutil.AssertStatus(t, w, 200)

	var canvas models.Canvas
	testutil.AssertJSON(t, w, &canvas)
	if canvas.ID != canvasID {
		t.Errorf("Expected canvas %s, got %s", canvasID, canvas.ID)
	}
	if canvas.Name != "Test Trip" {
		t.Errorf("Unexpected canvas name %q", canvas.Name)
	}
}

func TestGetCanvasBySlugNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewCanvasHandler(db, testutil.GetTestConfig())

	req := testutil.MakeRequest("GET", "/c/nope", nil, nil)
	req.SetPathValue("slug", "nope")
	w := httptest.NewRecorder()
	h.GetCanvasBySlug(w, req)

	testutil.AssertStatus(t, w, 404)
}

func TestInvite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	h := NewCanvasHandler(db, cfg)

	ownerID := testutil.CreateTestUser(t, db, "owner@example.com")
	friendID := testutil.CreateTestUser(t, db, "friend@example.com")
	canvasID, ownerKey := testutil.CreateTestCanvas(t, db, cfg, ownerID)

	req := testutil.MakeRequest("POST", "/canvases/"+canvasID+"/invite",
		models.InviteRequest{Email: "friend@example.com"},
		map[string]string{"X-Owner-Key": ownerKey})
	req.SetPathValue("id", canvasID)
	w := httptest.NewRecorder()
	h.Invite(w, req)

	testutil.AssertStatus(t, w, 200)

	var role string
	err := db.QueryRow(`
		SELECT role FROM canvas_collaborators WHERE canvas_id = $1 AND user_id = $2
	`, canvasID, friendID).Scan(&role)
	if err != nil {
		t.Fatalf("Invited collaborator row missing: %v", err)
	}
	if role != models.RoleEditor {
		t.Errorf("Expected editor role, got %q", role)
	}
}

func TestInviteUnknownEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	h := NewCanvasHandler(db, cfg)

	ownerID := testutil.CreateTestUser(t, db, "owner@example.com")
	canvasID, ownerKey := testutil.CreateTestCanvas(t, db, cfg, ownerID)

	req := testutil.MakeRequest("POST", "/canvases/"+canvasID+"/invite",
		models.InviteRequest{Email: "stranger@example.com"},
		map[string]string{"X-Owner-Key": ownerKey})
	req.SetPathValue("id", canvasID)
	w := httptest.NewRecorder()
	h.Invite(w, req)

	testutil.AssertStatus(t, w, 404)
}

func TestInviteDoesNotDemoteOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	h := NewCanvasHandler(db, cfg)

	ownerID := testutil.CreateTestUser(t, db, "owner@example.com")
	canvasID, ownerKey := testutil.CreateTestCanvas(t, db, cfg, ownerID)

	// Inviting the owner by their own email must not overwrite their role.
	req := testutil.MakeRequest("POST", "/canvases/"+canvasID+"/invite",
		models.InviteRequest{Email: "owner@example.com"},
		map[string]string{"X-Owner-Key": ownerKey})
	req.SetPathValue("id", canvasID)
	w := httptest.NewRecorder()
	h.Invite(w, req)

	testutil.AssertStatus(t, w, 200)

	var role string
	if err := db.QueryRow(`
		SELECT role FROM canvas_collaborators WHERE canvas_id = $1 AND user_id = $2
	`, canvasID, ownerID).Scan(&role); err != nil {
		t.Fatal(err)
	}
	if role != models.RoleOwner {
		t.Errorf("Owner was demoted to %q", role)
	}
}

func TestSubmitPreferences(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	h := NewCanvasHandler(db, cfg)

	ownerID := testutil.CreateTestUser(t, db, "owner@example.com")
	canvasID, _ := testutil.CreateTestCanvas(t, db, cfg, ownerID)
	userID := testutil.CreateTestUser(t, db, "friend@example.com")

	budget := 150.0
	days := 5.0
	req := testutil.MakeRequest("PUT", "/canvases/"+canvasID+"/preferences",
		models.PreferencesRequest{Budget: &budget, Days: &days, VotedLocationIDs: []string{"lisbon", "porto"}},
		map[string]string{"X-User-ID": userID})
	req.SetPathValue("id", canvasID)
	w := httptest.NewRecorder()
	h.SubmitPreferences(w, req)

	testutil.AssertStatus(t, w, 200)

	// Resubmitting overwrites rather than duplicating.
	budget2 := 200.0
	req2 := testutil.MakeRequest("PUT", "/canvases/"+canvasID+"/preferences",
		models.PreferencesRequest{Budget: &budget2, Days: &days, VotedLocationIDs: []string{"prague"}},
		map[string]string{"X-User-ID": userID})
	req2.SetPathValue("id", canvasID)
	w2 := httptest.NewRecorder()
	h.SubmitPreferences(w2, req2)

	testutil.AssertStatus(t, w2, 200)

	var count int
	var storedBudget float64
	if err := db.QueryRow(`
		SELECT COUNT(*) FROM canvas_collaborators WHERE canvas_id = $1 AND user_id = $2
	`, canvasID, userID).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected one collaborator row, got %d", count)
	}
	if err := db.QueryRow(`
		SELECT budget FROM canvas_collaborators WHERE canvas_id = $1 AND user_id = $2
	`, canvasID, userID).Scan(&storedBudget); err != nil {
		t.Fatal(err)
	}
	if storedBudget != 200.0 {
		t.Errorf("Expected budget 200, got %v", storedBudget)
	}
}

func TestSubmitPreferencesKeepsOwnerRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	h := NewCanvasHandler(db, cfg)

	ownerID := testutil.CreateTestUser(t, db, "owner@example.com")
	canvasID, _ := testutil.CreateTestCanvas(t, db, cfg, ownerID)

	budget := 100.0
	req := testutil.MakeRequest("PUT", "/canvases/"+canvasID+"/preferences",
		models.PreferencesRequest{Budget: &budget},
		map[string]string{"X-User-ID": ownerID})
	req.SetPathValue("id", canvasID)
	w := httptest.NewRecorder()
	h.SubmitPreferences(w, req)

	testutil.AssertStatus(t, w, 200)

	var role string
	if err := db.QueryRow(`
		SELECT role FROM canvas_collaborators WHERE canvas_id = $1 AND user_id = $2
	`, canvasID, ownerID).Scan(&role); err != nil {
		t.Fatal(err)
	}
	if role != models.RoleOwner {
		t.Errorf("Preference upsert demoted the owner to %q", role)
	}
}

func TestSubmitPreferencesRejectsNegatives(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	h := NewCanvasHandler(db, cfg)

	ownerID := testutil.CreateTestUser(t, db, "owner@example.com")
	canvasID, _ := testutil.CreateTestCanvas(t, db, cfg, ownerID)

	bad := -10.0
	req := testutil.MakeRequest("PUT", "/canvases/"+canvasID+"/preferences",
		models.PreferencesRequest{Budget: &bad},
		map[string]string{"X-User-ID": ownerID})
	req.SetPathValue("id", canvasID)
	w := httptest.NewRecorder()
	h.SubmitPreferences(w, req)

	testutil.AssertStatus(t, w, 400)
}

func TestSubmitPreferencesUnknownCanvas(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewCanvasHandler(db, testutil.GetTestConfig())

	req := testutil.MakeRequest("PUT", "/canvases/missing/preferences",
		models.PreferencesRequest{}, map[string]string{"X-User-ID": "u1"})
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	h.SubmitPreferences(w, req)

	testutil.AssertStatus(t, w, 404)
}
