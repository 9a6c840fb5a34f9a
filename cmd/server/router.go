package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/phrazzld/cardchat/internal/api"
	apiMiddleware "github.com/phrazzld/cardchat/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: app.config.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{apiMiddleware.TraceIDHeader},
		MaxAge:         300,
	}).Handler)

	chatHandler := api.NewChatHandler(app.chatService, app.logger)
	flashcardHandler := api.NewFlashcardHandler(app.flashcardService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", chatHandler.Chat)

		r.Get("/flashcards", flashcardHandler.ListFlashcards)
		r.Post("/flashcards", flashcardHandler.SaveFlashcards)
		r.Get("/flashcards/{id}", flashcardHandler.GetFlashcards)
		r.Get("/flashcards/{id}/cards", flashcardHandler.GetCards)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status, body := http.StatusOK, "OK"
		if err := app.flashcardStore.Ping(r.Context()); err != nil {
			app.logger.Warn("health check failed", "error", err)
			status, body = http.StatusServiceUnavailable, "UNAVAILABLE"
		}

		w.WriteHeader(status)
		if _, err := w.Write([]byte(body)); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
