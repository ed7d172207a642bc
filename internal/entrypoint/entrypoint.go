package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AvivElectis/electisSpace-sub002/internal/config"
	http_controllers "github.com/AvivElectis/electisSpace-sub002/internal/http"
	"github.com/AvivElectis/electisSpace-sub002/internal/scheduler"
	"github.com/AvivElectis/electisSpace-sub002/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		// service connections
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener so in-flight sweeps finish.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}

// tasksDBPath picks the backlite database file. MySQL deployments still keep
// tasks in a local SQLite file.
func tasksDBPath(cfg *config.Config) string {
	if cfg.Tasks.DBPath != "" {
		return cfg.Tasks.DBPath
	}
	if cfg.Database.Driver == "mysql" {
		return tasks.TasksDBPath(config.DefaultDatabasePath)
	}
	return tasks.TasksDBPath(cfg.Database.Path)
}

func Run(cfg *config.Config, logger *zap.Logger, version string) {
	logger.Info("starting electisSpace sync service", zap.String("version", version))

	app, err := NewApp(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize", zap.Error(err))
	}
	defer app.Close()

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var maintenance *scheduler.MaintenanceScheduler
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(tasksDBPath(cfg), taskCfg, logger.Named("tasks"))
		if err != nil {
			logger.Fatal("failed to initialize task queue", zap.Error(err))
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Warn("error closing task client", zap.Error(err))
			}
		}()

		tasks.RegisterQueues(taskClient, tasks.Dependencies{
			Sweeper:      app.Processor,
			Reprocessor:  app.Processor,
			QueueCleaner: app.Queue,
			AuditCleaner: app.Audit,
			Logger:       logger.Named("tasks"),
		})

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		maintenance = scheduler.NewMaintenanceScheduler(taskClient, scheduler.MaintenanceConfig{
			Enabled:            cfg.Maintenance.Enabled,
			Schedule:           cfg.Maintenance.Schedule,
			QueueRetentionDays: cfg.Maintenance.QueueRetentionDays,
			AuditRetentionDays: cfg.Audit.RetentionDays,
		}, logger.Named("scheduler"))
		if err := maintenance.Start(taskCtx); err != nil {
			logger.Error("failed to start maintenance scheduler", zap.Error(err))
		}
	} else if cfg.Maintenance.Enabled {
		logger.Warn("maintenance scheduler needs the task queue; set TASKS_ENABLED=true")
	}

	if cfg.SyncQueue.Enabled {
		app.Processor.Start(cfg.SyncQueue.Interval)
	} else {
		logger.Info("sync queue processor disabled")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:  app.DB,
		Processor: app.Processor,
		Queue:     app.Queue,
		Settings:  app.Settings,
		Validator: app.AIMS,
		Audit:     app.Audit,
		Version:   version,
		Logger:    logger,
	}
	if taskClient != nil {
		routerCfg.TaskClient = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		app.Processor.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, logger, onShutdown)
}
