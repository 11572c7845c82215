package api

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yashsay/message-app/internal/config"
	"github.com/yashsay/message-app/internal/handlers"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	IngestHandler    *handlers.IngestHandler
	SearchHandlers   *handlers.SearchHandlers
	SummarizeHandler *handlers.SummarizeHandler
	Config           *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second)) // Covers slow index rebuilds on large stores

	// --- CORS Configuration ---
	// Adjust AllowedOrigins for your frontend deployment(s)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		if deps.IngestHandler != nil {
			r.Post("/bulk-update", deps.IngestHandler.HandleBulkUpdate)
		} else {
			log.Println("WARN: IngestHandler dependency is nil, skipping /api/bulk-update route.")
		}

		if deps.SearchHandlers != nil {
			r.Get("/messages", deps.SearchHandlers.HandleGetMessages)
			r.Post("/search", deps.SearchHandlers.HandleSearch)
			r.Post("/semantic-search", deps.SearchHandlers.HandleSemanticSearch)
		} else {
			log.Println("WARN: SearchHandlers dependency is nil, skipping /api search routes.")
		}

		if deps.SummarizeHandler != nil {
			r.Post("/summarize", deps.SummarizeHandler.HandleSummarize)
		} else {
			log.Println("WARN: SummarizeHandler dependency is nil, skipping /api/summarize route.")
		}
	})

	return r
}
