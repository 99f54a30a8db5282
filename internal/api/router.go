package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/herballink/herballink-be/internal/api/handlers"
	"github.com/herballink/herballink-be/internal/auth"
	"github.com/herballink/herballink-be/internal/services"
	"github.com/herballink/herballink-be/internal/uploads"
	ws "github.com/herballink/herballink-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(hub *ws.Hub, userService services.UserServiceProvider, scanService services.ScanServiceProvider, classifier handlers.ImageClassifier, store *uploads.Store) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	pageHandler := handlers.NewPageHandler()
	userHandler := handlers.NewUserHandler(userService)
	scanHandler := handlers.NewScanHandler(classifier, scanService, store)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// Public routes
	r.Get("/", pageHandler.Home)
	r.Get("/explore", pageHandler.Explore)
	r.Get("/register", pageHandler.RegisterPage)
	r.Post("/register", userHandler.Register)
	r.Get("/login", pageHandler.LoginPage)
	r.Post("/login", userHandler.Login)
	r.Get("/logout", userHandler.Logout)

	// Session-gated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession())

		r.Get("/scan_home", pageHandler.ScanHome)
		r.Get("/scan_leaf", pageHandler.ScanLeaf)
		r.Get("/scan_skin", pageHandler.ScanSkin)

		r.Post("/predict-leaf", scanHandler.PredictLeaf)
		r.Post("/predict", scanHandler.PredictSkin)
		r.Get("/scans", scanHandler.GetScans)

		// Live scan feed
		r.Get("/ws/scans", wsHandler.Serve)
	})

	return r
}
