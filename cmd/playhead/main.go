package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"playhead/api"
	"playhead/internal/audio"
	"playhead/internal/config"
	"playhead/internal/media"
	"playhead/internal/player"
	"playhead/internal/settings"
	"playhead/internal/state"
	"playhead/internal/ui"
	"playhead/pkg/events"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadOrCreate(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logPath := filepath.Join(cfg.DataDir, "playhead.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, nil))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	store, err := settingsStore(cfg)
	if err != nil {
		return err
	}

	bus := events.NewBus(logger)
	playerState := state.New(bus,
		state.WithSettings(store),
		state.WithLogger(logger),
	)
	defer playerState.Close()

	// Config theme is the first-run default; a persisted choice wins
	if _, ok := store.Get(settings.KeyTheme); !ok {
		if theme := api.Theme(cfg.Theme); theme == api.ThemeDark || theme == api.ThemeLight {
			playerState.SetTheme(theme)
		}
	}

	engine := audio.NewEngine(playerState, bus, logger)
	engine.Start(ctx)

	ctrl := player.NewController(playerState, bus, engine, logger)
	ctrl.Start()
	defer ctrl.Close()

	if len(cfg.MediaDirectories) > 0 {
		tracks := scanLibrary(ctx, cfg, logger)
		logger.Info("scan complete", "tracks", len(tracks))
		playerState.SetPlaylist(tracks)
	}

	if err := ui.Run(cfg, playerState, ctrl, engine.Tap()); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	return nil
}

func settingsStore(cfg *config.Config) (*settings.Store, error) {
	path := filepath.Join(cfg.DataDir, "settings.json")
	store, err := settings.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	return store, nil
}

// scanLibrary walks the configured media directories and collects
// every playable track. Per-file errors are logged, not fatal.
func scanLibrary(ctx context.Context, cfg *config.Config, logger *slog.Logger) []api.Track {
	scanner := media.NewScanner(cfg.ScanWorkers)
	trackCh, errCh := scanner.Scan(ctx, cfg.MediaDirectories)

	var tracks []api.Track
	for trackCh != nil || errCh != nil {
		select {
		case track, ok := <-trackCh:
			if !ok {
				trackCh = nil
				continue
			}
			tracks = append(tracks, *track)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			logger.Warn("scan", "err", err)
		}
	}
	return tracks
}
