package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jrazmi/taskdeck/app/taskdeck/api"
	"github.com/jrazmi/taskdeck/app/taskdeck/config"
	"github.com/jrazmi/taskdeck/bridge/scaffolding/mid"
	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo/stores/taskmemstore"
	"github.com/jrazmi/taskdeck/infrastructure/web"
	"github.com/jrazmi/taskdeck/sdk/logger"
	"github.com/jrazmi/taskdeck/sdk/telemetry"
)

var build = "develop"

const appName = "TASKDECK"

func main() {
	godotenv.Load()
	ctx := context.Background()

	log, err := logger.NewFromEnv(appName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuring logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(ctx, log); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0))

	// REPOSITORIES //
	log.InfoContext(ctx, "startup", "status", "initializing repository support")
	taskStore := taskmemstore.NewStore()

	siteCfg := config.Taskdeck{
		Build:  build,
		Logger: log,
		Repositories: config.Repositories{
			Tasks: tasksrepo.NewRepository(log, taskStore),
		},
		Telemetry: telemetry.NewTelemetry(),
	}

	server, err := web.NewServerFromEnv(appName,
		web.WithHandler(webHandler(siteCfg)),
		web.WithErrorLog(logger.NewStdLogger(log, slog.LevelError)),
	)
	if err != nil {
		return fmt.Errorf("webserver: %w", err)
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "startup", "status", "api router started", "host", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.InfoContext(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		defer log.InfoContext(ctx, "shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(ctx, server.Config.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func webHandler(cfg config.Taskdeck) http.Handler {
	app := web.NewWebHandler(
		web.WithLogging(cfg.Logger),
		web.WithTelemetry(cfg.Telemetry),
		web.WithGlobalMiddleware(
			mid.PublicCORS(),
			mid.Logger(cfg.Logger),
			mid.Errors(cfg.Logger),
			mid.Metrics(),
			mid.Panics(),
		),
	)

	api.AddHandlers(app, api.Config{
		Build:          cfg.Build,
		Log:            cfg.Logger,
		TaskRepository: cfg.Repositories.Tasks,
	})

	return app
}
