package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/unitrack/internal/api/handlers"
	"github.com/baharkarakas/unitrack/internal/auth"
	"github.com/baharkarakas/unitrack/internal/authz"
	"github.com/baharkarakas/unitrack/internal/config"
	"github.com/baharkarakas/unitrack/internal/metrics"
	"github.com/baharkarakas/unitrack/internal/middleware"
	"github.com/baharkarakas/unitrack/internal/services"
)

type RouterDeps struct {
	Cfg     config.Config
	Tokens  *auth.TokenManager
	Users   *services.UserService
	Stats   *services.StatsService
	GraphQL http.Handler
	Chat    http.Handler
	// Pool is nil for the memory store.
	Pool *pgxpool.Pool
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.AccessLog, middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if d.Pool != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.Pool.Ping(ctx); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	// chat authenticates from its own query parameter
	r.Handle("/ws", d.Chat)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(d.Cfg.RateRPS), middleware.Identify(d.Tokens))

		r.Handle("/graphql", d.GraphQL)

		ah := handlers.NewAuthHandler(d.Users, d.Stats)
		r.Route("/api/v1", func(r chi.Router) {
			r.Post("/auth/signup", ah.SignUp)
			r.Post("/auth/login", ah.Login)
			r.With(middleware.Require(authz.Authenticated)).Get("/auth/me", ah.Me)
			r.With(middleware.Require(authz.Authenticated)).Get("/dashboard", ah.Dashboard)
		})
	})

	return r
}
