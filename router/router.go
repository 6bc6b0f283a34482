// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/tripcanvas/cliparse"
	"github.com/danielhkuo/tripcanvas/genai"
	"github.com/danielhkuo/tripcanvas/handlers"
	"github.com/danielhkuo/tripcanvas/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, gen genai.Generator) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	canvasHandler := handlers.NewCanvasHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	submissionHandler := handlers.NewSubmissionHandler(db, cfg, gen)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	navigateHandler := handlers.NewNavigateHandler(db, cfg)
	itineraryHandler := handlers.NewItineraryHandler(db, gen)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Users
	mux.HandleFunc("POST /users", middleware.WithLogging(userHandler.Register))

	// Canvas management (owner operations)
	mux.HandleFunc("POST /canvases", middleware.WithLogging(canvasHandler.CreateCanvas))
	mux.HandleFunc("POST /canvases/{id}/share", middleware.WithLogging(canvasHandler.ShareCanvas))
	mux.HandleFunc("POST /canvases/{id}/invite", middleware.WithLogging(canvasHandler.Invite))

	// Collaboration (collaborator operations)
	mux.HandleFunc("GET /c/{slug}", middleware.WithLogging(canvasHandler.GetCanvasBySlug))
	mux.HandleFunc("PUT /canvases/{id}/preferences", middleware.WithLogging(canvasHandler.SubmitPreferences))

	// Decision round lifecycle
	mux.HandleFunc("POST /canvases/{id}/submission", middleware.WithLogging(submissionHandler.ProcessSubmission))
	mux.HandleFunc("POST /questions/{id}/answers", middleware.WithLogging(votingHandler.SubmitAnswer))
	mux.HandleFunc("GET /questions/{id}/tally", middleware.WithLogging(votingHandler.GetTally))
	mux.HandleFunc("POST /canvases/{id}/advance", middleware.WithLogging(navigateHandler.Advance))

	// Itinerary generation and review
	mux.HandleFunc("POST /canvases/{id}/itinerary", middleware.WithLogging(itineraryHandler.GenerateItinerary))
	mux.HandleFunc("POST /itinerary/suggestions", middleware.WithLogging(itineraryHandler.Suggestions))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tripcanvas API v1"))
	})

	return mux
}
