package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"tutorgo/internal/api"
	"tutorgo/pkg/cache"
	"tutorgo/pkg/config"
	"tutorgo/pkg/db"
	"tutorgo/pkg/logging"
	"tutorgo/pkg/playback"
	"tutorgo/pkg/store"
	"tutorgo/pkg/version"
)

var (
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
	configPath = flag.String("config", "configs/tutorgo.yaml", "Path to config file")
	importPath = flag.String("import", "", "Import a YAML module file and exit")
)

func main() {
	flag.Parse()

	// .env is optional; real env always wins.
	_ = godotenv.Load()

	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config file generated: %s\n", *configPath)
		return
	}

	if err := run(context.Background(), *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("TutorGo Started", "version", version.Version)

	dbConn, err := db.Init(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbConn.Close()
	st := store.NewSQLiteStore(dbConn)

	if *importPath != "" {
		mod, err := st.ImportFile(ctx, *importPath)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		slog.Info("Module imported", "id", mod.ID, "title", mod.Title)
		return nil
	}

	rects := cache.NewRectCache(cfg.Geometry.CacheSize, time.Duration(cfg.Geometry.CacheTTL))
	machine := playback.NewMachine(playback.Options{
		DebounceWindow:   time.Duration(cfg.Playback.DebounceWindow),
		AutoAdvanceDelay: time.Duration(cfg.Playback.AutoAdvanceDelay),
		Rects:            rects,
	})
	defer machine.Close()

	hub := api.NewSyncHub(machine)

	server := api.NewServer(
		cfg.Server.Address,
		api.NewModuleHandler(st, machine),
		api.NewPlaybackHandler(machine, cfg.Playback.TimedByDefault),
		api.NewGeometryHandler(machine),
		hub,
		cancel,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		slog.Info("HTTP server listening", "addr", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			slog.Info("Signal received, shutting down", "signal", sig.String())
			cancel()
		case <-gctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
