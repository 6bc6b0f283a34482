// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/tripcanvas/auth"
	"github.com/danielhkuo/tripcanvas/cliparse"
	"github.com/danielhkuo/tripcanvas/consensus"
	"github.com/danielhkuo/tripcanvas/db"
	"github.com/danielhkuo/tripcanvas/genai"
)

// SetupTestDB creates a fresh in-memory database with the full schema.
// Each test gets its own database, so no cleanup between tests is needed.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3321,
		DatabaseURL:      ":memory:",
		DatabaseType:     "sqlite",
		OwnerKeySalt:     "test-owner-salt",
		ShareSlugSalt:    "test-slug-salt",
		GeneratorModel:   "test-model",
		CountingStrategy: consensus.CountPerTag,
		MaxProposals:     consensus.DefaultMaxProposals,
	}
}

// CreateTestUser inserts a user and returns its ID
func CreateTestUser(t *testing.T, conn *sql.DB, email string) string {
	t.Helper()

	userID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO users (id, email, created_at)
		VALUES ($1, $2, $3)
	`, userID, email, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// CreateTestCanvas inserts a canvas owned by ownerID and returns the canvas
// ID and its owner key
func CreateTestCanvas(t *testing.T, conn *sql.DB, cfg cliparse.Config, ownerID string) (canvasID, ownerKey string) {
	t.Helper()

	canvasID, _ = auth.GenerateID(16)
	ownerKey = auth.GenerateOwnerKey(canvasID, cfg.OwnerKeySalt)

	_, err := conn.Exec(`
		INSERT INTO canvases (id, name, owner_id, created_at)
		VALUES ($1, 'Test Trip', $2, $3)
	`, canvasID, ownerID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test canvas: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO canvas_collaborators (canvas_id, user_id, role)
		VALUES ($1, $2, 'owner')
	`, canvasID, ownerID)
	if err != nil {
		t.Fatalf("Failed to create owner collaborator: %v", err)
	}

	return canvasID, ownerKey
}

// AddTestPreference upserts a collaborator's preferences on a canvas
func AddTestPreference(t *testing.T, conn *sql.DB, canvasID, userID string, budget, days float64, votes []string) {
	t.Helper()

	encoded, _ := json.Marshal(votes)
	_, err := conn.Exec(`
		INSERT INTO canvas_collaborators (canvas_id, user_id, role, budget, days, voted_location_ids)
		VALUES ($1, $2, 'editor', $3, $4, $5)
		ON CONFLICT (canvas_id, user_id) DO UPDATE SET
			budget = excluded.budget,
			days = excluded.days,
			voted_location_ids = excluded.voted_location_ids
	`, canvasID, userID, budget, days, string(encoded))
	if err != nil {
		t.Fatalf("Failed to add test preference: %v", err)
	}
}

// InsertTestRound stores a five-proposal decision round on a canvas and
// returns the question IDs keyed by "level/parent" (the root is "1/").
//
// The fixture tree splits {A,B,C,D,E} as {A,B} vs {C,D,E}, then {A} vs {B},
// {C} vs {D,E}, and finally {D} vs {E}.
func InsertTestRound(t *testing.T, conn *sql.DB, canvasID string) map[string]string {
	t.Helper()

	proposals := []consensus.Proposal{
		{Tag: "A", Cities: []string{"Lisbon"}, Description: "Coastal escape"},
		{Tag: "B", Cities: []string{"Porto"}, Description: "River city"},
		{Tag: "C", Cities: []string{"Prague"}, Description: "Old town"},
		{Tag: "D", Cities: []string{"Vienna"}, Description: "Museums"},
		{Tag: "E", Cities: []string{"Budapest"}, Description: "Thermal baths"},
	}
	for _, p := range proposals {
		cities, _ := json.Marshal(p.Cities)
		_, err := conn.Exec(`
			INSERT INTO canvas_proposals (id, canvas_id, tag, cities, description)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.NewString(), canvasID, p.Tag, string(cities), p.Description)
		if err != nil {
			t.Fatalf("Failed to insert test proposal: %v", err)
		}
	}

	questions := []struct {
		level        int
		parent       string
		text         string
		aText, bText string
		aTags, bTags []string
	}{
		{1, "", "Coast or cities?", "Coast", "Cities", []string{"A", "B"}, []string{"C", "D", "E"}},
		{2, "A", "Beach or river?", "Beach", "River", []string{"A"}, []string{"B"}},
		{2, "B", "One city or two?", "One", "Two", []string{"C"}, []string{"D", "E"}},
		{3, "B", "West or east?", "West", "East", []string{"D"}, []string{"E"}},
	}

	ids := make(map[string]string, len(questions))
	for _, q := range questions {
		id := uuid.NewString()
		aTags, _ := json.Marshal(q.aTags)
		bTags, _ := json.Marshal(q.bTags)
		_, err := conn.Exec(`
			INSERT INTO decision_tree_questions
				(id, canvas_id, level, parent_option, question_text,
				 option_a_text, option_a_tags, option_b_text, option_b_tags)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, id, canvasID, q.level, q.parent, q.text, q.aText, string(aTags), q.bText, string(bTags))
		if err != nil {
			t.Fatalf("Failed to insert test question: %v", err)
		}
		ids[QuestionKey(q.level, q.parent)] = id
	}

	return ids
}

// QuestionKey addresses a question inserted by InsertTestRound.
func QuestionKey(level int, parent string) string {
	return fmt.Sprintf("%d/%s", level, parent)
}

// InsertTestAnswer records one ballot on a question
func InsertTestAnswer(t *testing.T, conn *sql.DB, questionID, userID, option string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO live_poll_answers (id, question_id, user_id, selected_option, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), questionID, userID, option, time.Now())
	if err != nil {
		t.Fatalf("Failed to insert test answer: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// StubGenerator is a canned genai.Generator for handler tests. Zero value
// fails every call; set the fields a test needs.
type StubGenerator struct {
	Plan        *genai.PlanPayload
	PlanErr     error
	Itinerary   json.RawMessage
	Suggestions []string
	Err         error
}

func (s *StubGenerator) GeneratePlan(ctx context.Context, summary consensus.AggregateSummary) (*genai.PlanPayload, error) {
	if s.PlanErr != nil {
		return nil, s.PlanErr
	}
	if s.Plan == nil {
		return nil, genai.ErrMalformedOutput
	}
	return s.Plan, nil
}

func (s *StubGenerator) GenerateItinerary(ctx context.Context, req genai.ItineraryRequest) (json.RawMessage, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Itinerary == nil {
		return nil, genai.ErrMalformedOutput
	}
	return s.Itinerary, nil
}

func (s *StubGenerator) SuggestImprovements(ctx context.Context, itinerary json.RawMessage) ([]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Suggestions, nil
}

// FiveProposalPlan returns a generator payload matching the InsertTestRound
// fixture, for tests that drive the full submission pipeline.
func FiveProposalPlan() *genai.PlanPayload {
	return &genai.PlanPayload{
		Proposals: []consensus.Proposal{
			{Tag: "A", Cities: []string{"Lisbon"}, Description: "Coastal escape"},
			{Tag: "B", Cities: []string{"Porto"}, Description: "River city"},
			{Tag: "C", Cities: []string{"Prague"}, Description: "Old town"},
			{Tag: "D", Cities: []string{"Vienna"}, Description: "Museums"},
			{Tag: "E", Cities: []string{"Budapest"}, Description: "Thermal baths"},
		},
		Questions: []consensus.QuestionSpec{
			{Level: 1, QuestionText: "Coast or cities?", OptionAText: "Coast", OptionATags: []string{"A", "B"}, OptionBText: "Cities", OptionBTags: []string{"C", "D", "E"}},
			{Level: 2, ParentOption: "A", QuestionText: "Beach or river?", OptionAText: "Beach", OptionATags: []string{"A"}, OptionBText: "River", OptionBTags: []string{"B"}},
			{Level: 2, ParentOption: "B", QuestionText: "One city or two?", OptionAText: "One", OptionATags: []string{"C"}, OptionBText: "Two", OptionBTags: []string{"D", "E"}},
			{Level: 3, ParentOption: "B", QuestionText: "West or east?", OptionAText: "West", OptionATags: []string{"D"}, OptionBText: "East", OptionBTags: []string{"E"}},
		},
	}
}
