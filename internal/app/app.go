package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"clickcounter/internal/config"
	"clickcounter/internal/display"
	"clickcounter/internal/logger"
	"clickcounter/internal/render"
	"clickcounter/internal/repository/sqlite"
	"clickcounter/internal/service/export"
	"clickcounter/internal/service/storage"
	"clickcounter/internal/session"
	"clickcounter/internal/source"
)

type App struct {
	config    *config.Config
	logger    *logger.Logger
	imagePath string
	journal   *sqlite.DB
	window    *display.Window
	session   *session.Session
}

// NewApp loads configuration, resolves and decodes the base image and builds
// the session. Errors returned here are fatal: the session cannot start.
func NewApp() (*App, error) {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{config: cfg, logger: log}
	if err := a.build(); err != nil {
		log.Error("%v", err)
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build() error {
	cfg := a.config

	resolver := source.NewResolver(cfg.ImagePath, cfg.FallbackDir)
	path, img, err := resolver.ResolveAndLoad()
	if err != nil {
		return err
	}
	a.imagePath = path
	a.logger.Info("Loaded %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())

	style := render.DefaultStyle()
	style.DotRadius = float64(cfg.DotRadius)
	style.HUDSize = float64(cfg.HUDSize)
	renderer, err := render.New(style)
	if err != nil {
		return err
	}

	var opts []export.Option
	if cfg.JournalPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.JournalPath), 0755); err != nil {
			return fmt.Errorf("failed to create journal directory: %w", err)
		}
		db, err := sqlite.New(cfg.JournalPath)
		if err != nil {
			return err
		}
		a.journal = db
		opts = append(opts, export.WithJournal(sqlite.NewExportRepository(db)))
		a.logger.Info("Recording exports in %s", cfg.JournalPath)
	}
	saver := export.NewService(storage.NewFileWriter(a.logger), a.logger, opts...)

	a.window = display.NewWindow(display.Title, a.logger)
	a.session = session.New(
		session.Base{Path: path, Image: img},
		renderer,
		a.window,
		saver,
		a.logger,
		session.Options{PollInterval: cfg.PollInterval, ToastDuration: cfg.ToastDuration},
	)
	return nil
}

// Run runs the session until the user quits or ctx is cancelled, then
// releases the window and the journal.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	fmt.Printf("🖱️  Click Counter\n")
	fmt.Printf("📁 Image: %s\n", a.imagePath)
	fmt.Printf("⌨️  Keys: Q/Esc quit • R reset • U undo • S save\n")

	return a.session.Run(ctx)
}

// Close releases everything the App opened. It is safe to call more than once.
func (a *App) Close() error {
	if a.window != nil {
		if err := a.window.Close(); err != nil {
			a.logger.Warning("Error closing window: %v", err)
		}
		a.window = nil
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.logger.Warning("Error closing journal: %v", err)
		}
		a.journal = nil
	}
	return a.logger.Close()
}
