package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/crossings/gridlight/internal/config"
	"github.com/crossings/gridlight/internal/domain"
	"github.com/crossings/gridlight/internal/pkg/distlock"
	"github.com/crossings/gridlight/internal/repository/postgres"
	"github.com/crossings/gridlight/internal/service/assignment"
	"github.com/crossings/gridlight/internal/service/grid"
	"github.com/crossings/gridlight/internal/worker"
)

// Run lock shared with the API server: a CLI run and a dashboard run
// must never interleave their assignment rewrites.
const (
	runLockKey = "assign:run"
	runLockTTL = 2 * time.Hour
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "path to config file")
		mode       = flag.String("mode", "batch", "test | batch | year | spots")
		limit      = flag.Int("limit", 0, "max spots for batch mode (0 = config default)")
		year       = flag.Int("year", time.Now().Year(), "broadcast year for year mode")
		force      = flag.Bool("force", false, "reassign spots that already hold rows (year mode)")
		spotIDs    = flag.String("spots", "", "comma-separated spot ids for spots mode")
	)
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
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

	// Cancellation between spots is safe; SIGINT stops after the
	// current spot finishes its write.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Interrupt received, stopping after current spot...")
		cancel()
	}()

	processor, err := buildProcessor(ctx, cfg, db)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	run, err := dispatch(ctx, processor, cfg, *mode, *limit, *year, *force, *spotIDs)
	if err != nil && err != context.Canceled {
		log.Fatalf("Batch run failed: %v", err)
	}
	if run != nil {
		fmt.Printf("run %s (%s)\n", run.ID, run.Mode)
		fmt.Printf("  processed:   %d\n", run.Processed)
		fmt.Printf("  assigned:    %d\n", run.Assigned)
		fmt.Printf("  multi_block: %d\n", run.MultiBlock)
		fmt.Printf("  no_coverage: %d\n", run.NoCoverage)
		fmt.Printf("  excluded:    %d\n", run.Excluded)
		fmt.Printf("  errors:      %d\n", run.Errors)
	}
}

// buildProcessor wires repositories, the grid resolver, the rule
// engine, and the pattern layer into a batch processor. The language
// catalog and rule list are built once here and shared by reference.
func buildProcessor(ctx context.Context, cfg *config.Config, db *sql.DB) (*worker.BatchProcessor, error) {
	gridResolver := grid.NewResolver(postgres.NewGridRepo(db))
	catalog, err := gridResolver.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	rules := assignment.NewRuleEngine(cfg.BusinessRules(), cfg.Exclusion.BillCodeKeywords)
	assignments := postgres.NewAssignmentRepo(db)
	pipeline := assignment.NewService(gridResolver, rules, catalog, assignments)

	var (
		progress    *worker.ProgressPublisher
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		progress = worker.NewProgressPublisher(redisClient, 0)
		log.Printf("Progress publishing enabled (%s)", cfg.Redis.Addr)
	}

	p := worker.NewBatchProcessor(
		postgres.NewSpotRepo(db), pipeline, assignments, progress, cfg.Batch.ProgressInterval,
	)
	p.UseLock(distlock.New(redisClient, db, runLockKey, runLockTTL))
	return p, nil
}

func dispatch(ctx context.Context, p *worker.BatchProcessor, cfg *config.Config, mode string, limit, year int, force bool, spotCSV string) (*domain.BatchRun, error) {
	switch mode {
	case "test":
		return p.RunUnassigned(ctx, worker.ModeTestRun, cfg.Batch.TestRunLimit)
	case "batch":
		if limit <= 0 {
			limit = cfg.Batch.DefaultLimit
		}
		return p.RunUnassigned(ctx, worker.ModeBatch, limit)
	case "year":
		return p.RunYear(ctx, year, force)
	case "spots":
		ids := splitIDs(spotCSV)
		if len(ids) == 0 {
			return nil, fmt.Errorf("-spots is required for spots mode")
		}
		return p.Run(ctx, worker.ModeExplicit, ids)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

func splitIDs(csv string) []string {
	var out []string
	for _, id := range strings.Split(csv, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
