// cmd/api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/modvault/modvault/internal/cache"
	"github.com/modvault/modvault/internal/config"
	"github.com/modvault/modvault/internal/db"
	"github.com/modvault/modvault/internal/http/routes"
	"github.com/modvault/modvault/internal/listing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	log.Printf("starting app on :%s", cfg.Port)

	// DB
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()
	queries := db.New(pool)
	source := &db.Source{Queries: queries, BaseURL: cfg.BaseURL}

	// Index cache store: Postgres by default, local files when a cache
	// directory is configured.
	var store cache.Store = db.NewIndexCacheStore(pool)
	if cfg.CacheDir != "" {
		fs, err := cache.NewFileStore(cfg.CacheDir)
		if err != nil {
			log.Fatalf("cache dir error: %v", err)
		}
		store = fs
	}

	// Router / server
	s := routes.New(routes.ServerOptions{
		Listing:          &listing.Service{Source: source, BaseURL: cfg.BaseURL},
		Cache:            store,
		Detail:           source,
		Registry:         queries,
		DefaultCommunity: cfg.DefaultCommunity,
		RedisAddr:        cfg.RedisAddr,
		Logger:           logger,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: s.Router}
	log.Fatal(srv.ListenAndServe())
}
