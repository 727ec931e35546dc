// Package main is the entry point for Terminal Realm.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"

	"github.com/samdwyer/terminalrealm/internal/config"
	"github.com/samdwyer/terminalrealm/internal/game"
	"github.com/samdwyer/terminalrealm/internal/gamedata"
	"github.com/samdwyer/terminalrealm/internal/logger"
	"github.com/samdwyer/terminalrealm/internal/rng"
	"github.com/samdwyer/terminalrealm/internal/save"
	"github.com/samdwyer/terminalrealm/internal/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The screen owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file %s: %v", cfg.LogFile, err)
	}
	defer logFile.Close()

	lg := logger.New(logFile, logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Version: version}.Resolve())
	slog.SetDefault(lg)

	setupOTelEnv(cfg)

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx, telemetry.Config{Enabled: cfg.TelemetryEnabled, ServiceVersion: version})
	if err != nil {
		lg.Warn("telemetry setup failed, running without tracing", "error", err)
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				lg.Error("telemetry shutdown failed", "error", err)
			}
		}()
	}

	catalog, err := gamedata.LoadCatalog(cfg.WeaponsFile)
	switch {
	case errors.Is(err, gamedata.ErrCatalogNotFound):
		lg.Warn("weapon file not found, playing without weapons", "path", cfg.WeaponsFile)
	case err != nil:
		log.Fatalf("Failed to load weapons: %v", err)
	default:
		lg.Info("weapons loaded", "path", cfg.WeaponsFile, "count", catalog.Count(), "skipped", catalog.Skipped())
	}

	bestiary, err := gamedata.LoadBestiary()
	if err != nil {
		log.Fatalf("Failed to load enemies: %v", err)
	}

	session := game.NewSession(game.Deps{
		PlayerName: cfg.PlayerName,
		Balance:    cfg.Balance,
		Catalog:    catalog,
		Bestiary:   bestiary,
		Store:      save.NewStore(cfg.SaveFile, lg),
		Rng:        rng.New(cfg.Seed),
		Log:        lg,
	})

	g, err := game.New(session, lg)
	if err != nil {
		log.Fatalf("Failed to initialize game: %v", err)
	}

	if err := g.Run(ctx); err != nil {
		log.Fatalf("Game error: %v", err)
	}
}

// setupOTelEnv points the OTLP exporter at Honeycomb using our own env vars.
func setupOTelEnv(cfg *config.Config) {
	if _, ok := os.LookupEnv("OTEL_EXPORTER_OTLP_ENDPOINT"); !ok {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}
	if headers := cfg.OTelHeaders(); headers != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS", headers)
	}
}
