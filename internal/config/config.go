package config

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mrlokans/lending/internal/database"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Tasks
		Sweep
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		URL             string
		Path            string // URL with any sqlite:// prefix removed
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
		AcquireTimeout  time.Duration
		BusyTimeout     time.Duration
		LogLevel        string // silent, error, warn or info
	}

	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}

	Sweep struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
		DryRun   bool
	}
)

// Options converts the database section into pool options.
func (d Database) Options() database.Options {
	return database.Options{
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		AcquireTimeout:  d.AcquireTimeout,
		BusyTimeout:     d.BusyTimeout,
		LogLevel:        d.LogLevel,
	}
}

// LoadEnvFiles copies variables from dotenv files into the process
// environment. Variables that are already set win. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		log.Printf("Loaded environment from %s", path)
	}
	return nil
}

func NewConfig() *Config {
	if err := LoadEnvFiles(DefaultEnvFile); err != nil {
		log.Printf("WARNING: could not load %s: %v", DefaultEnvFile, err)
	}

	defaults := database.DefaultOptions()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("database_url", DefaultDatabaseURL)
	v.SetDefault("database_max_open_conns", defaults.MaxOpenConns)
	v.SetDefault("database_max_idle_conns", defaults.MaxIdleConns)
	v.SetDefault("database_conn_max_lifetime", defaults.ConnMaxLifetime.String())
	v.SetDefault("database_acquire_timeout", defaults.AcquireTimeout.String())
	v.SetDefault("database_busy_timeout", defaults.BusyTimeout.String())
	v.SetDefault("database_log_level", defaults.LogLevel)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Orphan sweep defaults
	v.SetDefault("sweep_enabled", false)
	v.SetDefault("sweep_schedule", DefaultSweepSchedule)
	v.SetDefault("sweep_dry_run", false)

	url := v.GetString("DATABASE_URL")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			URL:             url,
			Path:            database.PathFromURL(url),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
			AcquireTimeout:  v.GetDuration("DATABASE_ACQUIRE_TIMEOUT"),
			BusyTimeout:     v.GetDuration("DATABASE_BUSY_TIMEOUT"),
			LogLevel:        v.GetString("DATABASE_LOG_LEVEL"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Sweep: Sweep{
			Enabled:  v.GetBool("SWEEP_ENABLED"),
			Schedule: v.GetString("SWEEP_SCHEDULE"),
			DryRun:   v.GetBool("SWEEP_DRY_RUN"),
		},
	}
}
