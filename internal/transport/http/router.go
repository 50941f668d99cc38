package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"nycarrests/internal/handler"
	"nycarrests/internal/httputil"
	authmw "nycarrests/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	ArrestHandler  *handler.ArrestHandler
	StatsHandler   *handler.StatsHandler
	CommentHandler *handler.CommentHandler
	UserHandler    *handler.UserHandler
	JWTSecret      string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(300, 1*time.Minute))

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	// Public read endpoints
	r.Route("/arrests", func(r chi.Router) {
		r.Get("/", cfg.ArrestHandler.List)
		r.Get("/filter", cfg.ArrestHandler.Filter)
		r.Get("/search", cfg.ArrestHandler.Search)
		r.Get("/{id}", cfg.ArrestHandler.Get)
		r.Get("/{id}/comments", cfg.CommentHandler.ListByArrest)
	})

	r.Route("/stats", func(r chi.Router) {
		r.Get("/crime-ranking", cfg.StatsHandler.CrimeRanking)
		r.Get("/demographics", cfg.StatsHandler.Demographics)
		r.Get("/trends/monthly", cfg.StatsHandler.MonthlyTrend)
		r.Get("/trends/weekly", cfg.StatsHandler.WeeklyTrend)
	})

	r.Get("/users/{id}", cfg.UserHandler.Get)
	r.Get("/users/{id}/comments", cfg.CommentHandler.ListByUser)

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		// Current user endpoints
		r.Get("/me", cfg.AuthHandler.Me)
		r.Get("/me/favorites", cfg.UserHandler.ListFavorites)
		r.Post("/me/favorites/{arrestId}", cfg.UserHandler.AddFavorite)
		r.Delete("/me/favorites/{arrestId}", cfg.UserHandler.RemoveFavorite)

		// Arrest record writes
		r.Post("/arrests", cfg.ArrestHandler.Create)
		r.Delete("/arrests/{id}", cfg.ArrestHandler.Delete)

		// Comment writes
		r.Post("/comments", cfg.CommentHandler.Add)
		r.Put("/comments/{id}", cfg.CommentHandler.Update)
		r.Delete("/comments/{id}", cfg.CommentHandler.Delete)
	})

	return r
}
