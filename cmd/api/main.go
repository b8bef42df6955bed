package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/unitrack/internal/api"
	"github.com/baharkarakas/unitrack/internal/auth"
	"github.com/baharkarakas/unitrack/internal/chat"
	"github.com/baharkarakas/unitrack/internal/config"
	"github.com/baharkarakas/unitrack/internal/db"
	"github.com/baharkarakas/unitrack/internal/graph"
	"github.com/baharkarakas/unitrack/internal/logger"
	"github.com/baharkarakas/unitrack/internal/metrics"
	"github.com/baharkarakas/unitrack/internal/repository"
	"github.com/baharkarakas/unitrack/internal/repository/memory"
	"github.com/baharkarakas/unitrack/internal/repository/postgres"
	"github.com/baharkarakas/unitrack/internal/services"
	"github.com/baharkarakas/unitrack/internal/telemetry"
	"github.com/baharkarakas/unitrack/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.Error("telemetry", "err", err)
		os.Exit(1)
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(tctx)
	}()

	metrics.Init()

	var (
		pool  *pgxpool.Pool
		repos repository.Repositories
	)
	if cfg.StoreDriver == "postgres" {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("db connect", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		if cfg.Migrate {
			if err := db.RunMigrations(ctx, pool); err != nil {
				log.Error("migrations", "err", err)
				os.Exit(1)
			}
		}
		repos = postgres.NewRepositories(pool)
	} else {
		log.Warn("using in-memory store, data is lost on restart")
		repos = memory.NewRepositories()
	}

	wp := worker.NewPool(cfg.WorkerCount, worker.JobTimeout(cfg.RequestTimeout))
	defer wp.Stop()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	hub := chat.NewHub()
	audit := services.NewAuditor(repos.AuditLogs, wp)

	userSvc := services.NewUserService(repos.Users, tokens)
	statsSvc := services.NewStatsService(repos.Stats)
	chatSvc := services.NewChatService(repos.Messages, repos.Users, hub)
	deps := graph.Deps{
		Users:      userSvc,
		Categories: services.NewCategoryService(repos.Categories, repos.Projects, audit),
		Projects:   services.NewProjectService(repos.Projects, repos.Categories, repos.Users, audit),
		Tasks:      services.NewTaskService(repos.Tasks, repos.Projects, repos.Users, repos.Stats, audit),
		Stats:      statsSvc,
		Chat:       chatSvc,
	}
	schema, err := graph.NewSchema(deps)
	if err != nil {
		log.Error("graphql schema", "err", err)
		os.Exit(1)
	}

	r := api.NewRouter(api.RouterDeps{
		Cfg:     cfg,
		Tokens:  tokens,
		Users:   userSvc,
		Stats:   statsSvc,
		GraphQL: graph.NewHandler(schema, cfg.RequestTimeout),
		Chat:    chat.NewHandler(hub, chatSvc, tokens, cfg.RequestTimeout, cfg.AllowedOrigins),
		Pool:    pool,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "store", cfg.StoreDriver, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("chat connections at shutdown", "count", hub.Count())
}
