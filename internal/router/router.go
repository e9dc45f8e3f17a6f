package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-item-reviews/internal/api"
	"github.com/FACorreiaa/go-item-reviews/internal/api/auth"
	"github.com/FACorreiaa/go-item-reviews/internal/api/comments"
	"github.com/FACorreiaa/go-item-reviews/internal/api/items"
	"github.com/FACorreiaa/go-item-reviews/internal/api/reviews"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler            auth.Handler
	ItemsHandler           items.Handler
	ReviewsHandler         reviews.Handler
	CommentsHandler        comments.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Heartbeat endpoint, public.
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSONResponse(w, r, http.StatusOK, api.HealthResponse{
			Status:    "UP",
			Timestamp: time.Now(),
		})
	})

	r.Route("/api/v1", func(r chi.Router) {

		// --- Public routes ---
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)

			r.Get("/items", cfg.ItemsHandler.ListItems)
			r.Get("/items/{itemID}", cfg.ItemsHandler.GetItem)
			r.Get("/items/{itemID}/reviews", cfg.ReviewsHandler.ListItemReviews)

			r.Get("/reviews/{reviewID}", cfg.ReviewsHandler.GetReview)
			r.Get("/reviews/{reviewID}/comments", cfg.CommentsHandler.ListReviewComments)
		})

		// --- Protected routes ---
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/auth/me", cfg.AuthHandler.Me)

			r.Post("/items/{itemID}/reviews", cfg.ReviewsHandler.CreateReview)
			r.Get("/reviews/me", cfg.ReviewsHandler.ListMyReviews)
			r.Put("/reviews/{reviewID}", cfg.ReviewsHandler.UpdateReview)
			r.Delete("/reviews/{reviewID}", cfg.ReviewsHandler.DeleteReview)

			r.Post("/reviews/{reviewID}/comments", cfg.CommentsHandler.CreateComment)
			r.Get("/comments/me", cfg.CommentsHandler.ListMyComments)
			r.Put("/comments/{commentID}", cfg.CommentsHandler.UpdateComment)
			r.Delete("/comments/{commentID}", cfg.CommentsHandler.DeleteComment)
		})
	})

	return r
}
