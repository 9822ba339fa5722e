// Command prixwatch runs one price-refresh sweep over the product
// catalogue and exits. Configuration is environment-driven; a .env file in
// the working directory is honored.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/hazyhaar/prixwatch/aggregate"
	"github.com/hazyhaar/prixwatch/browse"
	"github.com/hazyhaar/prixwatch/events"
	"github.com/hazyhaar/prixwatch/fetchlog"
	"github.com/hazyhaar/prixwatch/provider"
	"github.com/hazyhaar/prixwatch/refresh"
)

func main() {
	_ = godotenv.Load()

	// Logging.
	var lvl slog.Level
	switch env("LOG_LEVEL", "info") {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	paths := refresh.Paths{
		Catalogue:  env("CATALOGUE_PATH", "data/catalogue.json"),
		Identities: env("IDENTITIES_PATH", "data/identities.json"),
		History:    env("HISTORY_PATH", "data/price_history.json"),
	}

	// Providers.
	pcfg := provider.Config{
		Browse: browse.Config{
			RemoteURL: os.Getenv("CHROME_WS_URL"),
			Logger:    logger,
		},
		MarketplaceURL:   os.Getenv("MARKETPLACE_API_URL"),
		MarketplaceToken: os.Getenv("MARKETPLACE_API_TOKEN"),
		Logger:           logger,
	}
	if pcfg.MarketplaceToken == "" {
		slog.Info("marketplace provider disabled: no MARKETPLACE_API_TOKEN")
	}
	if p := os.Getenv("VENDORS_CONFIG"); p != "" {
		overrides, err := provider.LoadOverrides(p)
		if err != nil {
			slog.Error("vendor overrides", "path", p, "error", err)
			os.Exit(1)
		}
		pcfg.Overrides = overrides
	}

	// Fetch log.
	store, err := fetchlog.Open(env("FETCHLOG_DB", "data/fetchlog.db"))
	if err != nil {
		slog.Error("fetch log", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	runID := uuid.NewString()

	collector := aggregate.New(provider.All(pcfg),
		aggregate.WithLogger(logger),
		aggregate.WithRecorder(store.NewRecorder(runID)),
	)

	// Optional event stream.
	publisher := events.NewPublisher(splitBrokers(os.Getenv("KAFKA_BROKERS")), logger)
	defer publisher.Close()

	job := refresh.New(collector, paths, publisher, refresh.Config{
		CheckpointEvery: envInt("CHECKPOINT_EVERY", 0),
		Logger:          logger,
	})

	updated, err := job.Run(ctx)
	if err != nil {
		slog.Error("refresh failed", "run_id", runID, "error", err)
		os.Exit(1)
	}

	if sum, err := store.Summarize(ctx, runID); err == nil {
		slog.Info("run summary", "run_id", runID,
			"ok", sum.OK, "empty", sum.Empty, "errors", sum.Errors)
	}
	fmt.Printf("updated %d products\n", updated)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitBrokers(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
