package entrypoint

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/AvivElectis/electisSpace-sub002/internal/aims"
	"github.com/AvivElectis/electisSpace-sub002/internal/audit"
	"github.com/AvivElectis/electisSpace-sub002/internal/config"
	"github.com/AvivElectis/electisSpace-sub002/internal/crypto"
	"github.com/AvivElectis/electisSpace-sub002/internal/database"
	auditRepo "github.com/AvivElectis/electisSpace-sub002/internal/database/audit"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/conference"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/people"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/queue"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/settings"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/spaces"
	"github.com/AvivElectis/electisSpace-sub002/internal/database/stores"
	"github.com/AvivElectis/electisSpace-sub002/internal/lock"
	"github.com/AvivElectis/electisSpace-sub002/internal/settingsstore"
	"github.com/AvivElectis/electisSpace-sub002/internal/syncqueue"
)

// App holds the services shared by the server and the one-shot commands.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	DB        *database.Database
	Queue     *queue.Repository
	Stores    *stores.Repository
	Settings  *settingsstore.SettingsStore
	AIMS      *aims.Client
	Audit     *audit.Service
	Processor *syncqueue.Processor

	redis *redis.Client
}

// NewApp opens the database and wires the sync processor. The processor is
// not started.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.NewDatabase(cfg.Database.Driver, cfg.Database.DataSource())
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	logger.Info("database initialized", zap.String("driver", cfg.Database.Driver))

	app := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Queue:  queue.NewRepository(db.DB, cfg.SyncQueue.MaxAttempts),
		Stores: stores.NewRepository(db.DB),
		Audit:  audit.NewService(auditRepo.NewRepository(db.DB), logger.Named("audit")),
	}

	var sealer *crypto.Sealer
	if cfg.AIMS.EncryptionKey != "" {
		sealer, err = crypto.NewSealer(cfg.AIMS.EncryptionKey)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("AIMS_ENCRYPTION_KEY: %w", err)
		}
	} else {
		logger.Warn("AIMS_ENCRYPTION_KEY is not set; the AIMS password can only come from the environment")
	}

	app.Settings = settingsstore.New(settings.NewRepository(db.DB), aims.Credentials{
		BaseURL:  cfg.AIMS.BaseURL,
		Company:  cfg.AIMS.Company,
		Username: cfg.AIMS.Username,
		Password: cfg.AIMS.Password,
	}, sealer)

	app.AIMS = aims.NewClient(aims.Options{
		Credentials: app.Settings.AIMSCredentials,
		Timeout:     cfg.AIMS.Timeout,
		MaxRetries:  cfg.AIMS.MaxRetries,
		Logger:      logger.Named("aims"),
	})

	deps := syncqueue.Deps{
		Queue:      app.Queue,
		Stores:     app.Stores,
		Spaces:     spaces.NewRepository(db.DB),
		People:     people.NewRepository(db.DB),
		Conference: conference.NewRepository(db.DB),
		Gateway:    aims.NewStoreGateway(app.AIMS, app.Stores),
		Auditor:    app.Audit,
	}

	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := lock.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		app.redis = client
		deps.Lock = lock.NewRedisLock(client, cfg.Redis.LockKey, cfg.Redis.LockTTL, logger.Named("lock"))
		logger.Info("distributed sweep lock enabled", zap.String("redis_addr", cfg.Redis.Addr))
	}

	app.Processor = syncqueue.New(deps, syncqueue.Config{
		BatchSize:      cfg.SyncQueue.BatchSize,
		SettleDelay:    cfg.SyncQueue.SettleDelay,
		RetryBaseDelay: cfg.SyncQueue.RetryBaseDelay,
		RetryMaxDelay:  cfg.SyncQueue.RetryMaxDelay,
	}, logger.Named("syncqueue"))

	return app, nil
}

// Close waits for pending audit writes and releases connections.
func (a *App) Close() {
	if a.Audit != nil {
		a.Audit.Wait()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("error closing redis client", zap.Error(err))
		}
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Warn("error closing database", zap.Error(err))
	}
}
