package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modvault/modvault/internal/cache"
	"github.com/modvault/modvault/internal/config"
	"github.com/modvault/modvault/internal/db"
	"github.com/modvault/modvault/internal/jobs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config error:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("config error:", err)
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal("unable to connect to database:", err)
	}
	defer pool.Close()
	q := db.New(pool)
	source := &db.Source{Queries: q, BaseURL: cfg.BaseURL}

	var store cache.Store = db.NewIndexCacheStore(pool)
	if cfg.CacheDir != "" {
		fs, err := cache.NewFileStore(cfg.CacheDir)
		if err != nil {
			log.Fatal("cache dir error:", err)
		}
		store = fs
	}
	builder := &cache.Builder{Source: source, Store: store}

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{
		Concurrency:    8,
		StrictPriority: false,
		Queues: map[string]int{
			"regen":   10, // higher priority
			"default": 5,  // default priority
		},
	})
	mux := asynq.NewServeMux()

	mux.HandleFunc(jobs.TaskRegenerateIndex, func(ctx context.Context, t *asynq.Task) error {
		var p jobs.RegenerateIndexPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			log.Printf("[asynq] bad payload: %v", err)
			return err
		}
		log.Printf("[regen] start community=%s", p.Community)
		start := time.Now()
		entry, err := builder.Regenerate(ctx, p.Community)
		duration := time.Since(start)

		if err != nil {
			if isRetryableError(err) {
				log.Printf("[regen] retryable error community=%s duration=%v: %v", p.Community, duration, err)
				return err // allow retry
			}
			log.Printf("[regen] permanent error community=%s duration=%v: %v (dropping job)", p.Community, duration, err)
			return nil // don't retry permanent failures
		}
		log.Printf("[regen] done community=%s bytes=%d duration=%v", p.Community, len(entry.Content), duration)
		return nil
	})

	mux.HandleFunc(jobs.TaskRegenerateAllIndex, func(ctx context.Context, t *asynq.Task) error {
		log.Printf("[regen-all] start")
		start := time.Now()
		err := builder.RegenerateAll(ctx)
		duration := time.Since(start)

		if err != nil {
			if isRetryableError(err) {
				log.Printf("[regen-all] retryable error duration=%v: %v", duration, err)
				return err
			}
			log.Printf("[regen-all] permanent error duration=%v: %v (dropping job)", duration, err)
			return nil
		}
		log.Printf("[regen-all] done duration=%v", duration)
		return nil
	})

	// Rebuild every community on an interval so caches stay warm even
	// without request traffic.
	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, nil)
	cronspec := fmt.Sprintf("@every %s", cfg.RegenInterval)
	if _, err := scheduler.Register(cronspec,
		asynq.NewTask(jobs.TaskRegenerateAllIndex, nil),
		asynq.Queue("regen"), asynq.MaxRetry(1),
	); err != nil {
		log.Fatal("register schedule:", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatal("scheduler:", err)
		}
	}()

	log.Println("Worker running...")
	log.Fatal(srv.Run(mux))
}

// isRetryableError determines if an error should trigger a job retry
func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())

	// Network/connectivity issues - should retry
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "dns") {
		return true
	}

	// Postgres going away mid-query - should retry
	if strings.Contains(errStr, "conn closed") ||
		strings.Contains(errStr, "too many clients") {
		return true
	}

	// Everything else (unknown community, bad data, etc.) - don't retry
	return false
}
