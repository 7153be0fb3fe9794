package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	ProcessSourceCommand  = "command"
	ProcessSourceGopsutil = "gopsutil"
)

// Config holds all application configuration.
// Leaf fields are only tagged for multi-word names: envconfig falls back to the
// bare tag (e.g. $PATH) when the prefixed variable is unset.
type Config struct {
	// Application identity shown in the tray and window
	App AppConfig `envconfig:"APP"`

	// Database configuration
	Database DatabaseConfig `envconfig:"DB"`

	// Game detection configuration
	Detect DetectConfig `envconfig:"DETECT"`

	// Play-time tracker configuration
	Tracker TrackerConfig `envconfig:"TRACKER"`

	// Daemon configuration
	Daemon DaemonConfig `envconfig:"DAEMON"`

	// Local API server configuration
	Web WebConfig `envconfig:"WEB"`

	Log LogConfig `envconfig:"LOG"`
}

type AppConfig struct {
	Name string
	ID   string `ignored:"true"` // fyne application ID
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // Path to SQLite database file
}

// DetectConfig controls how running games are found
type DetectConfig struct {
	GuessUnknown   bool          `envconfig:"GUESS_UNKNOWN"`   // Use the heuristic for games missing from the catalog
	ProcessSource  string        `envconfig:"PROCESS_SOURCE"`  // "command" or "gopsutil"
	CommandTimeout time.Duration `envconfig:"COMMAND_TIMEOUT"` // Upper bound for tasklist/ps
}

// TrackerConfig holds play-time tracking configuration
type TrackerConfig struct {
	Enabled         bool
	PollInterval    time.Duration `envconfig:"POLL_INTERVAL"` // How often to run detection
	MinPollInterval time.Duration `ignored:"true"`
	MaxPollInterval time.Duration `ignored:"true"`
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string `envconfig:"PID_FILE"` // Path to PID file for the single-instance guard
}

// WebConfig holds local API server configuration
type WebConfig struct {
	Host string
	Port int

	// Browser origins besides the API's own that may call it, e.g. a
	// companion web UI. Requests from any other origin are refused.
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string
	Development bool
	File        string // Optional log file next to stderr
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name: "ChitChat",
			ID:   "app.chitchat.desktop",
		},
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/chitchat/chitchat.db
		},
		Detect: DetectConfig{
			GuessUnknown:   true,
			ProcessSource:  ProcessSourceCommand,
			CommandTimeout: 5 * time.Second,
		},
		Tracker: TrackerConfig{
			Enabled:         true,
			PollInterval:    15 * time.Second,
			MinPollInterval: 5 * time.Second,
			MaxPollInterval: 300 * time.Second,
		},
		Daemon: DaemonConfig{
			PIDFile: filepath.Join(os.TempDir(), fmt.Sprintf("chitchat-%d.pid", os.Getuid())),
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 17000 + os.Getuid()%1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name cannot be empty")
	}

	// Validate tracker intervals
	if c.Tracker.PollInterval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Tracker.PollInterval, c.Tracker.MinPollInterval)
	}

	if c.Tracker.PollInterval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Tracker.PollInterval, c.Tracker.MaxPollInterval)
	}

	switch c.Detect.ProcessSource {
	case ProcessSourceCommand, ProcessSourceGopsutil:
	default:
		return fmt.Errorf("unknown process source %q", c.Detect.ProcessSource)
	}

	if c.Detect.CommandTimeout <= 0 {
		return fmt.Errorf("command timeout must be positive, got %v", c.Detect.CommandTimeout)
	}

	// Validate web config
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	for _, origin := range c.Web.AllowedOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("allowed origin %q must start with http:// or https://", origin)
		}
	}

	// Validate daemon config
	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Tracker.MinPollInterval)
	}
	if interval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Tracker.MaxPollInterval)
	}
	c.Tracker.PollInterval = interval
	return nil
}

// SetWebPort sets the web server port with validation
func (c *Config) SetWebPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	c.Web.Port = port
	return nil
}

// BaseURL is the address of the local API of the running instance
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Web.Host, c.Web.Port)
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  App:
    Name: %s
  Database:
    Path: %s
  Detect:
    Guess Unknown: %v
    Process Source: %s
    Command Timeout: %v
  Tracker:
    Enabled: %v
    Poll Interval: %v
    Min Interval: %v
    Max Interval: %v
  Daemon:
    PID File: %s
  Web:
    Host: %s
    Port: %d
    Allowed Origins: %v
  Log:
    Level: %s
    Development: %v
    File: %s`,
		c.App.Name,
		c.Database.Path,
		c.Detect.GuessUnknown,
		c.Detect.ProcessSource,
		c.Detect.CommandTimeout,
		c.Tracker.Enabled,
		c.Tracker.PollInterval,
		c.Tracker.MinPollInterval,
		c.Tracker.MaxPollInterval,
		c.Daemon.PIDFile,
		c.Web.Host,
		c.Web.Port,
		c.Web.AllowedOrigins,
		c.Log.Level,
		c.Log.Development,
		c.Log.File,
	)
}
