package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autofocus_analysis/internal/config"
	"autofocus_analysis/internal/handlers"
	"autofocus_analysis/internal/logger"
	"autofocus_analysis/internal/repository"
	"autofocus_analysis/internal/repository/db"
	"autofocus_analysis/internal/server"
	"autofocus_analysis/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.Get(logger.InfoLevel)

	cfg, err := config.Load("configs")
	if err != nil {
		log.Fatalw("error reading config", "err", err)
	}
	logger.SetLevel(cfg.LogLevel)

	sqlDB, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DBPath)
	}
	defer closeDB(sqlDB, log)

	repos := repository.NewRepository(sqlDB, cfg.Reports.Workers)
	services := service.NewService(repos, log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loadInitialReports(ctx, services, cfg.Reports, log)
	if cfg.Reports.Watch {
		go services.Watcher.Run(ctx, cfg.Reports.Dir, cfg.Reports.Debounce)
	}

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

// loadInitialReports restores the stored snapshot, then reloads the configured
// folder. Failures are logged; the service starts with whatever it has.
func loadInitialReports(ctx context.Context, services *service.Service, rc config.ReportsConfig, log *logger.Logger) {
	if _, err := services.Reports.Restore(ctx); err != nil {
		log.Warnw("report_snapshot_restore_failed", "err", err)
	}
	if rc.Dir == "" {
		return
	}
	if _, err := services.Reports.LoadDirectory(ctx, rc.Dir); err != nil {
		log.Warnw("initial_report_load_failed", "dir", rc.Dir, "err", err)
	}
}

func closeDB(sqlDB *sql.DB, log *logger.Logger) {
	if err := sqlDB.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_server_starting", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the folder watcher
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
