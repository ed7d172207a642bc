package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Log
		Database
		AIMS
		SyncQueue
		Tasks
		Redis
		Maintenance
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Log struct {
		Level  string // debug, info, warn, error
		Format string // json or console
	}
	Database struct {
		Driver string // sqlite or mysql
		Path   string // sqlite file
		DSN    string // mysql DSN
	}
	AIMS struct {
		BaseURL       string
		Company       string
		Username      string
		Password      string
		Timeout       time.Duration
		MaxRetries    int
		EncryptionKey string // base64 AES-256 key for the stored password
	}
	SyncQueue struct {
		Enabled        bool
		Interval       time.Duration
		BatchSize      int
		SettleDelay    time.Duration
		RetryBaseDelay time.Duration
		RetryMaxDelay  time.Duration
		MaxAttempts    int
	}
	Tasks struct {
		Enabled         bool
		DBPath          string // defaults to "<database>-tasks.db" next to the sqlite database
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Redis struct {
		Addr     string // empty disables the distributed sweep lock
		Password string
		DB       int
		LockKey  string
		LockTTL  time.Duration
	}
	Maintenance struct {
		Enabled            bool
		Schedule           string // Cron format: "0 3 * * *" = daily at 03:00
		QueueRetentionDays int
	}
	Audit struct {
		RetentionDays int // Days to keep audit events (default: 30)
	}
)

// DataSource returns the driver-specific connection string.
func (d Database) DataSource() string {
	if d.Driver == "mysql" {
		return d.DSN
	}
	return d.Path
}

// LoadDotEnv loads variables from the given .env files without overriding
// ones already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DefaultDotEnvPath}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 10)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")

	// AIMS defaults; connection settings may be overridden at runtime
	v.SetDefault("aims_base_url", "")
	v.SetDefault("aims_company", "")
	v.SetDefault("aims_username", "")
	v.SetDefault("aims_password", "")
	v.SetDefault("aims_timeout", "30s")
	v.SetDefault("aims_max_retries", 3)
	v.SetDefault("aims_encryption_key", "")

	// Sync queue defaults
	v.SetDefault("sync_queue_enabled", true)
	v.SetDefault("sync_queue_interval", "10s")
	v.SetDefault("sync_queue_batch_size", 50)
	v.SetDefault("sync_queue_settle_delay", "5s")
	v.SetDefault("sync_queue_retry_base_delay", "1s")
	v.SetDefault("sync_queue_retry_max_delay", "60s")
	v.SetDefault("sync_queue_max_attempts", 5)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_db_path", "")
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_lock_key", "electisspace:sync-sweep")
	v.SetDefault("redis_lock_ttl", "5m")

	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", "0 3 * * *")
	v.SetDefault("sync_queue_retention_days", 7)
	v.SetDefault("audit_retention_days", 30)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Database: Database{
			Driver: v.GetString("DATABASE_DRIVER"),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		AIMS: AIMS{
			BaseURL:       v.GetString("AIMS_BASE_URL"),
			Company:       v.GetString("AIMS_COMPANY"),
			Username:      v.GetString("AIMS_USERNAME"),
			Password:      v.GetString("AIMS_PASSWORD"),
			Timeout:       v.GetDuration("AIMS_TIMEOUT"),
			MaxRetries:    v.GetInt("AIMS_MAX_RETRIES"),
			EncryptionKey: v.GetString("AIMS_ENCRYPTION_KEY"),
		},
		SyncQueue: SyncQueue{
			Enabled:        v.GetBool("SYNC_QUEUE_ENABLED"),
			Interval:       v.GetDuration("SYNC_QUEUE_INTERVAL"),
			BatchSize:      v.GetInt("SYNC_QUEUE_BATCH_SIZE"),
			SettleDelay:    v.GetDuration("SYNC_QUEUE_SETTLE_DELAY"),
			RetryBaseDelay: v.GetDuration("SYNC_QUEUE_RETRY_BASE_DELAY"),
			RetryMaxDelay:  v.GetDuration("SYNC_QUEUE_RETRY_MAX_DELAY"),
			MaxAttempts:    v.GetInt("SYNC_QUEUE_MAX_ATTEMPTS"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			DBPath:          v.GetString("TASKS_DB_PATH"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Redis: Redis{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			LockKey:  v.GetString("REDIS_LOCK_KEY"),
			LockTTL:  v.GetDuration("REDIS_LOCK_TTL"),
		},
		Maintenance: Maintenance{
			Enabled:            v.GetBool("MAINTENANCE_ENABLED"),
			Schedule:           v.GetString("MAINTENANCE_SCHEDULE"),
			QueueRetentionDays: v.GetInt("SYNC_QUEUE_RETENTION_DAYS"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
	}
}
