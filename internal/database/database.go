package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TimestampLayout is the layout of every created_at/updated_at/borrowed_at column.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Now returns the current UTC time formatted for storage.
func Now() string {
	return time.Now().UTC().Format(TimestampLayout)
}

// Options configures the connection pool.
type Options struct {
	// MaxOpenConns bounds the number of connections checked out at once. Default: 4
	MaxOpenConns int

	// MaxIdleConns is the number of connections kept open between calls. Default: 2
	MaxIdleConns int

	// ConnMaxLifetime recycles connections after this long. Default: 1h
	ConnMaxLifetime time.Duration

	// AcquireTimeout bounds the wait for a free connection. Default: 5s
	AcquireTimeout time.Duration

	// BusyTimeout is how long SQLite waits on a locked database. Default: 5s
	BusyTimeout time.Duration

	// LogLevel is one of silent, error, warn, info. Default: warn
	LogLevel string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		AcquireTimeout:  5 * time.Second,
		BusyTimeout:     5 * time.Second,
		LogLevel:        "warn",
	}
}

// Database owns the connection pool to the embedded store.
type Database struct {
	DB *gorm.DB

	acquireTimeout time.Duration
}

// NewDatabase opens the store at dbPath with default pool options.
func NewDatabase(dbPath string) (*Database, error) {
	return Open(dbPath, DefaultOptions())
}

// Open opens the store at dbPath. The schema is not touched; call EnsureSchema.
func Open(dbPath string, opts Options) (*Database, error) {
	defaults := DefaultOptions()
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = defaults.MaxOpenConns
	}
	if opts.MaxIdleConns <= 0 || opts.MaxIdleConns > opts.MaxOpenConns {
		opts.MaxIdleConns = min(defaults.MaxIdleConns, opts.MaxOpenConns)
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = defaults.ConnMaxLifetime
	}
	if opts.AcquireTimeout <= 0 {
		opts.AcquireTimeout = defaults.AcquireTimeout
	}
	if opts.BusyTimeout <= 0 {
		opts.BusyTimeout = defaults.BusyTimeout
	}

	db, err := gorm.Open(sqlite.Open(DSN(dbPath, opts.BusyTimeout)), &gorm.Config{
		Logger: logger.Default.LogMode(ParseLogLevel(opts.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	log.Printf("Database opened at %s (max %d connections)", dbPath, opts.MaxOpenConns)

	return &Database{DB: db, acquireTimeout: opts.AcquireTimeout}, nil
}

// DSN builds the go-sqlite3 connection string. Every connection enforces
// foreign keys and takes the write lock when a transaction begins.
func DSN(dbPath string, busyTimeout time.Duration) string {
	params := url.Values{}
	params.Set("_foreign_keys", "1")
	params.Set("_busy_timeout", fmt.Sprintf("%d", busyTimeout.Milliseconds()))
	params.Set("_journal_mode", "WAL")
	params.Set("_txlock", "immediate")
	return "file:" + dbPath + "?" + params.Encode()
}

// PathFromURL accepts either a plain path or a sqlite:// URL.
func PathFromURL(databaseURL string) string {
	for _, prefix := range []string{"sqlite://", "sqlite:", "file:"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return strings.TrimPrefix(databaseURL, prefix)
		}
	}
	return databaseURL
}

// ParseLogLevel maps a config string to a gorm log level.
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that a connection can be obtained and used.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Transaction checks out one connection, waiting at most the configured
// acquire timeout, and runs fc inside a single transaction on it. The
// transaction commits when fc returns nil and rolls back otherwise. The
// connection goes back to the pool before Transaction returns.
func (d *Database) Transaction(ctx context.Context, fc func(tx *gorm.DB) error) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}

	acquireCtx, cancel := context.WithTimeout(ctx, d.acquireTimeout)
	conn, err := sqlDB.Conn(acquireCtx)
	cancel()
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w after %v", ErrPoolExhausted, d.acquireTimeout)
		}
		return err
	}
	defer conn.Close()

	// Same approach as gorm's DB.Connection: pin the session to one connection.
	session := d.DB.WithContext(ctx)
	session.Statement.ConnPool = conn
	return session.Transaction(fc)
}
