package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/foodmood/foodmood/internal/config"
	"github.com/foodmood/foodmood/internal/database"
	"github.com/foodmood/foodmood/internal/foodmood"
	"github.com/foodmood/foodmood/internal/form"
	"github.com/foodmood/foodmood/internal/handler/health"
	"github.com/foodmood/foodmood/internal/identity"
	"github.com/foodmood/foodmood/internal/kv"
	"github.com/foodmood/foodmood/internal/location"
	"github.com/foodmood/foodmood/internal/migrations"
	"github.com/foodmood/foodmood/internal/render"
	"github.com/foodmood/foodmood/internal/search"
	"github.com/foodmood/foodmood/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	g, gctx := errgroup.WithContext(ctx)

	// --- Session store ---
	var store kv.Store
	switch cfg.StateBackend {
	case "redis":
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		store = kv.NewRedisStore(rdb, cfg.SessionTTL)
		logger.Info("connected to redis")
	default:
		db, err := database.Open(ctx, cfg.DBPath)
		if err != nil {
			return fmt.Errorf("connecting to sqlite: %w", err)
		}
		defer db.Close()

		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("connected to sqlite", "path", cfg.DBPath)

		sqlStore := kv.NewSQLiteStore(db)
		store = sqlStore
		g.Go(func() error {
			purgeSessions(gctx, logger, sqlStore, cfg.SessionTTL)
			return nil
		})
	}

	// --- Search service ---
	searchClient := search.NewClient(cfg.SearchBaseURL, logger,
		search.WithMethod(cfg.SearchMethod),
		search.WithHTTPClient(&http.Client{Timeout: cfg.SearchTimeout}),
	)
	dispatcher := search.NewDispatcher(logger, cfg.NotifyTimeout)

	// --- Identity ---
	var keys *identity.KeySet
	if cfg.IdentityJWKSURL != "" {
		keys = identity.NewKeySet(cfg.IdentityJWKSURL, nil)
	}
	verifier := identity.NewVerifier(identity.Config{
		ClientID:   cfg.IdentityClientID,
		Issuers:    cfg.IdentityIssuers,
		JWKSURL:    cfg.IdentityJWKSURL,
		HMACSecret: cfg.IdentityHMACSecret,
	}, keys)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Store:      store,
		Search:     searchClient,
		Dispatcher: dispatcher,
		Renderer:   render.NewRenderer(cfg.PhoneRegion),
		Verifier:   verifier,
		GeoIP:      location.NewIPGeolocator(cfg.GeoIPURL, nil),
		Health: map[string]health.Checker{
			"sessions": health.CheckerFunc(store.Ping),
			"search":   searchClient,
		},
		Schema:       form.DefaultSchema(),
		Fallback:     foodmood.LatLng{Lat: cfg.FallbackLat, Lng: cfg.FallbackLng},
		MapsKey:      cfg.MapsAPIKey,
		ClientID:     cfg.IdentityClientID,
		CookieSecure: cfg.CookieSecure,
		SessionTTL:   cfg.SessionTTL,
		SearchRate:   rate.Limit(cfg.SearchRate),
		SearchBurst:  cfg.SearchBurst,
	})

	// --- Run ---
	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		err := srv.Shutdown(context.Background())

		drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if derr := dispatcher.Close(drainCtx); derr != nil {
			logger.Warn("background calls cut short", "error", derr)
		}
		return err
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}

// purgeSessions drops SQLite session values idle for longer than ttl. Redis
// expires them on its own.
func purgeSessions(ctx context.Context, logger *slog.Logger, store *kv.SQLiteStore, ttl time.Duration) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.Purge(ctx, now.Add(-ttl))
			if err != nil {
				logger.Warn("purging sessions", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("purged idle session values", "rows", n)
			}
		}
	}
}
