package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chitchat/desktop/internal/models"
)

const (
	appDirName = "chitchat"
	dbFileName = "chitchat.db"

	// Passed through to go-sqlite3. The tracker and the local API write
	// concurrently, so writers wait instead of failing with SQLITE_BUSY.
	dsnOptions = "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"

	slowQueryThreshold = 500 * time.Millisecond
)

// DB is the play-time store
type DB struct {
	*gorm.DB
	path string
}

// Option configures Connect
type Option func(*gorm.Config)

// WithLogger routes slow queries and storage errors to logger
func WithLogger(l *zap.Logger) Option {
	return func(c *gorm.Config) {
		c.Logger = logger.New(zapWriter{l.Sugar()}, logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}
}

type zapWriter struct {
	s *zap.SugaredLogger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.s.Warnf(format, args...)
}

// DefaultPath is <user config dir>/chitchat/chitchat.db
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(base, appDirName, dbFileName), nil
}

// Connect opens the play-time database, using DefaultPath when dbPath is empty.
// The parent directory is created if needed.
func Connect(dbPath string, opts ...Option) (*DB, error) {
	if dbPath == "" {
		var err error
		if dbPath, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	for _, opt := range opts {
		opt(gormCfg)
	}

	gdb, err := gorm.Open(sqlite.Open(dbPath+dsnOptions), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &DB{DB: gdb, path: dbPath}, nil
}

// Path is the database file in use
func (db *DB) Path() string {
	return db.path
}

// Initialize creates or migrates the schema
func (db *DB) Initialize() error {
	if err := db.AutoMigrate(&models.GameSession{}, &models.ErrorLog{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (db *DB) Ping() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
