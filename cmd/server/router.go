package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/ulule/limiter/v3"

	"github.com/sbilibin2017/gw-money-tracker/internal/handlers"
	"github.com/sbilibin2017/gw-money-tracker/internal/jwt"
	"github.com/sbilibin2017/gw-money-tracker/internal/logger"
	"github.com/sbilibin2017/gw-money-tracker/internal/middlewares"
	"github.com/sbilibin2017/gw-money-tracker/internal/services"
)

// routerDeps groups what the HTTP router is built from.
type routerDeps struct {
	db          *sqlx.DB
	svc         *services.UserTransactionService
	tokens      *jwt.JWT
	limiter     *limiter.Limiter
	corsOrigins []string
	swaggerURL  string
}

// newRouter wires middlewares and handlers. Writes run inside a per-request SQL transaction.
func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middlewares.RequestIDHeader},
		ExposedHeaders: []string{middlewares.RequestIDHeader},
		MaxAge:         300,
	}))
	if d.limiter != nil {
		r.Use(middlewares.RateLimitMiddleware(d.limiter))
	}

	// Public routes
	r.Get("/categories", handlers.NewCategoriesHandler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(d.swaggerURL)))

	// Protected routes with JWT middleware
	r.Group(func(r chi.Router) {
		r.Use(middlewares.AuthMiddleware(d.tokens))

		r.Get("/transactions", handlers.NewListTransactionsHandler(d.svc, d.tokens))
		r.Get("/transactions/{id}", handlers.NewGetTransactionHandler(d.svc, d.tokens))

		r.Group(func(r chi.Router) {
			r.Use(middlewares.TxMiddleware(d.db))

			r.Post("/transactions", handlers.NewCreateTransactionHandler(d.svc, d.tokens))
			r.Put("/transactions/{id}", handlers.NewUpdateTransactionHandler(d.svc, d.tokens))
			r.Delete("/transactions/{id}", handlers.NewDeleteTransactionHandler(d.svc, d.tokens))
		})
	})

	return r
}
