package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mkaye/ai-journal/internal/api/handlers"
	"github.com/mkaye/ai-journal/internal/api/middleware"
	"github.com/mkaye/ai-journal/internal/service"
	"github.com/mkaye/ai-journal/internal/websocket"
)

func NewRouter(services *service.Services, hub *websocket.Hub) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	chatHandler := handlers.NewChatHandler(services.Journal, hub)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	r.Route("/auth", func(r chi.Router) {
		// Public auth routes
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)

		// Protected auth routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))
			r.Get("/me", authHandler.Me)
		})
	})

	// All chat routes are protected
	r.Route("/chat", func(r chi.Router) {
		r.Use(middleware.Auth(services.Auth))

		r.Post("/message", chatHandler.PostMessage)
		r.Post("/command", chatHandler.HandleCommand)
		r.Get("/date/{date}", chatHandler.GetMessagesByDate)
		r.Get("/history", chatHandler.GetHistory)
	})

	// WebSocket endpoint (token via query parameter)
	r.Get("/ws", wsHandler.Handle)

	return r
}
