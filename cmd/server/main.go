package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/crossings/gridlight/internal/api"
	"github.com/crossings/gridlight/internal/config"
	"github.com/crossings/gridlight/internal/pkg/distlock"
	"github.com/crossings/gridlight/internal/repository/postgres"
	"github.com/crossings/gridlight/internal/service/assignment"
	"github.com/crossings/gridlight/internal/service/grid"
	"github.com/crossings/gridlight/internal/worker"
)

func main() {
	log.Println("Starting GRIDLIGHT assignment server...")

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL (or database.url in config) is required")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	gridResolver := grid.NewResolver(postgres.NewGridRepo(db))
	catalog, err := gridResolver.Catalog(ctx)
	if err != nil {
		log.Fatalf("Failed to load language catalog: %v", err)
	}

	rules := assignment.NewRuleEngine(cfg.BusinessRules(), cfg.Exclusion.BillCodeKeywords)
	assignments := postgres.NewAssignmentRepo(db)
	spots := postgres.NewSpotRepo(db)
	pipeline := assignment.NewService(gridResolver, rules, catalog, assignments)

	var (
		progress    *worker.ProgressPublisher
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer redisClient.Close()
		progress = worker.NewProgressPublisher(redisClient, 0)
		log.Printf("Progress publishing enabled (%s)", cfg.Redis.Addr)
	}

	processor := worker.NewBatchProcessor(spots, pipeline, assignments, progress, cfg.Batch.ProgressInterval)
	processor.UseLock(distlock.New(redisClient, db, "assign:run", 2*time.Hour))
	handlers := api.NewHandlers(processor, assignments, spots, progress, cfg.Batch.TestRunLimit)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: api.SetupRoutes(handlers),
	}

	go func() {
		log.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
