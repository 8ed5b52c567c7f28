package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/hushapp/hush/internal/adapter/geocode"
	"github.com/hushapp/hush/internal/adapter/location"
	"github.com/hushapp/hush/internal/adapter/prefs"
	"github.com/hushapp/hush/internal/adapter/screentime"
	"github.com/hushapp/hush/internal/adapter/sysopen"
	"github.com/hushapp/hush/internal/config"
	"github.com/hushapp/hush/internal/database"
	"github.com/hushapp/hush/internal/database/repository"
	"github.com/hushapp/hush/internal/feature"
	"github.com/hushapp/hush/internal/service"
)

const appDir = "hush"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	logger, err := newLogger(filepath.Dir(cfg.Database.Path))
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	prefStore, err := prefs.NewFileStore(appDir)
	if err != nil {
		logger.Fatal("prefs store", zap.Error(err))
	}
	locAuthority, err := location.NewSimulator(appDir, logger)
	if err != nil {
		logger.Fatal("location simulator", zap.Error(err))
	}
	stAuthority, err := screentime.NewFileAuthority(appDir, logger)
	if err != nil {
		logger.Fatal("screen time authority", zap.Error(err))
	}

	areaRepo := repository.NewFocusAreaRepo(db)
	geocoder := geocode.NewNominatim(cfg.Geocoder.BaseURL,
		time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second, logger)
	monitor := &service.Monitor{Location: locAuthority, Radius: cfg.Map.RadiusMeters, Log: logger}
	opener := sysopen.New(filepath.Dir(locAuthority.Path()), logger)

	logger.Info("starting", zap.String("db", cfg.Database.Path))

	app := feature.NewApp(ctx, feature.Deps{
		Prefs:      prefStore,
		Location:   locAuthority,
		Geocoder:   geocoder,
		ScreenTime: stAuthority,
		Areas:      areaRepo,
		Settings:   opener,
		Monitor:    monitor,
		Log:        logger,
		DateFormat: cfg.UI.DateFormat,
		MapStep:    cfg.Map.StepDegrees,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// newLogger writes structured logs to a file; stderr belongs to the TUI.
func newLogger(dir string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{filepath.Join(dir, "hush.log")}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	return cfg.Build()
}
