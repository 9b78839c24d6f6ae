package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"orgboard-backend/internal/auth"
	"orgboard-backend/internal/bus"
	"orgboard-backend/internal/cache"
	"orgboard-backend/internal/config"
	"orgboard-backend/internal/handlers"
	"orgboard-backend/internal/ingest"
	"orgboard-backend/internal/middleware"
	"orgboard-backend/internal/storage"
	"orgboard-backend/internal/workers"
)

// @title OrgBoard API
// @version 1.0
// @description Multi-tenant organization and post management backend.
// @BasePath /
func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Database connection (with retries)
	var db *sqlx.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("postgres", cfg.DatabaseDSN)
		if err == nil {
			break
		}
		log.Printf("DB connection attempt %d failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	store := storage.NewStorage(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Redis cache (rate limiting, token revocation)
	redisClient, err := cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// NATS connection (activity event bus)
	natsClient, err := bus.Connect(cfg.NATSURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsClient.Close()

	activityConsumer := ingest.NewActivityConsumer(natsClient.JS(), store)
	if err := activityConsumer.Start(ctx); err != nil {
		log.Fatalf("Failed to start activity consumer: %v", err)
	}

	workers.StartActivityRetention(ctx, store, cfg.ActivityMaxAge)

	// HTTP handlers
	authHandler := auth.NewHandler(store, redisClient)
	h := handlers.New(store, natsClient)
	authMW := auth.Middleware(redisClient)

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", handlers.Health)
	r.Mount("/swagger", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.With(middleware.RateLimitAuth(redisClient)).Post("/auth", authHandler.Auth)
	r.Group(func(r chi.Router) {
		r.Use(authMW)
		r.Get("/auth/me", authHandler.Me)
		r.Post("/auth/logout", authHandler.Logout)
	})

	h.RegisterRoutes(r, authMW)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		_ = activityConsumer.Stop()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("Server starting on %s", cfg.Addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
