package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/xvierd/tempo/internal/adapters/git"
	"github.com/xvierd/tempo/internal/adapters/notification"
	"github.com/xvierd/tempo/internal/adapters/storage"
	"github.com/xvierd/tempo/internal/background"
	"github.com/xvierd/tempo/internal/config"
	"github.com/xvierd/tempo/internal/event"
	"github.com/xvierd/tempo/internal/logging"
	"github.com/xvierd/tempo/internal/ports"
	"github.com/xvierd/tempo/internal/services"
	"github.com/xvierd/tempo/internal/timer"
)

// alarmBeeps is how many times the completion sound repeats.
const alarmBeeps = 3

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	settings   *config.Store
	storage    ports.Storage
	tasks      *services.TaskService
	stats      *services.StatisticsService
	git        ports.GitDetector
	notifier   *notification.Notifier
	sound      *notification.Sound
	vibration  ports.VibrationService
	background *background.Watchdog
	bus        *event.Bus
	logger     *slog.Logger
	logCloser  io.Closer
	workingDir string
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices(ctx context.Context) error {
	settings, err := config.NewStore(configPath)
	if err != nil {
		return fmt.Errorf("failed to locate config: %w", err)
	}
	if err := settings.Load(ctx); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.settings = settings
	cfg := settings.Config()

	if dbPath == "" {
		dbPath = config.GetDBPath(&cfg)
	}
	dataDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	app.logger, app.logCloser, err = logging.New(dataDir, cfg.Logging.Level)
	if err != nil {
		return err
	}

	app.storage, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.workingDir, _ = os.Getwd()
	app.git = git.NewDetector(app.workingDir)
	app.notifier = notification.New()
	app.sound = notification.NewSound(alarmBeeps, app.logger)
	app.vibration = notification.NoVibration{}
	app.background = background.NewWatchdog(app.sound, app.vibration, app.notifier, app.logger)
	app.bus = event.NewBus(app.logger)

	app.tasks = services.NewTaskService(app.storage)
	app.stats = services.NewStatisticsService(app.storage, app.settings)

	app.logger.Debug("services initialized", "db", dbPath, "config", settings.Path())
	return nil
}

// newController builds a session controller on the shared dependencies.
// Ticks and alarm callbacks are delivered through dispatch.
func newController(dispatch timer.Dispatcher) *services.Controller {
	return services.NewController(services.ControllerDeps{
		Storage:    app.storage,
		Settings:   app.settings,
		Stats:      app.stats,
		Sound:      app.sound,
		Vibration:  app.vibration,
		Notifier:   app.notifier,
		Background: app.background,
		Git:        app.git,
		Bus:        app.bus,
		Logger:     app.logger,
		Dispatch:   dispatch,
		WorkingDir: app.workingDir,
	})
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var err error
	if app.storage != nil {
		err = app.storage.Close()
		app.storage = nil
	}
	if app.logCloser != nil {
		_ = app.logCloser.Close()
		app.logCloser = nil
	}
	return err
}

// setupSignalHandler returns a context cancelled on SIGINT or SIGTERM.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
