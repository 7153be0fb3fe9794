package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/chitchat/desktop/internal/config"
	"github.com/chitchat/desktop/internal/daemon"
	"github.com/chitchat/desktop/internal/database"
	"github.com/chitchat/desktop/internal/logging"
	"github.com/chitchat/desktop/internal/reporter"
	"github.com/chitchat/desktop/internal/web"
	"github.com/chitchat/desktop/pkg/detector"
	"github.com/chitchat/desktop/pkg/games"
	"github.com/chitchat/desktop/pkg/integrations/robotgo"
	"github.com/chitchat/desktop/pkg/remote"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	command := "run"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "run":
		runApp()
	case "detect":
		detectGame()
	case "input":
		applyInput()
	case "badge":
		setBadge()
	case "show":
		showWindow()
	case "stop":
		stopApp()
	case "status":
		showStatus()
	case "report":
		generateReport()
	case "clear":
		clearDatabase()
	case "config":
		fmt.Println(loadConfig().String())
	case "version":
		fmt.Printf("chitchat version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`chitchat - desktop companion with game detection and remote control

Usage:
  chitchat [command] [options]

Commands:
  run                     Start the tray application (default)
  detect                  Print the running game as JSON
  input <event-json>      Inject one remote-control input event
  badge <count>           Set the unread count on the running instance's tray
  show                    Show the window of the running instance
  stop                    Stop the running instance
  status                  Show instance status and the running game
  report [period] [--json]
                          Play time report (period: day, yesterday, week, month, all)
  clear                   Clear all play-time history
  config                  Print the effective configuration
  version                 Show version information
  help                    Show this help message

Examples:
  chitchat detect
  chitchat input '{"type":"pointer_move","xNorm":0.5,"yNorm":0.5}'
  chitchat badge 3
  chitchat report week --json

Environment Variables:
  CHITCHAT_DB_PATH                 Database file path
  CHITCHAT_TRACKER_ENABLED         Record play time (true/false)
  CHITCHAT_TRACKER_POLL_INTERVAL   Detection interval (5s-5m)
  CHITCHAT_DETECT_GUESS_UNKNOWN    Guess games missing from the catalog (true/false)
  CHITCHAT_DETECT_PROCESS_SOURCE   Process listing backend (command, gopsutil)
  CHITCHAT_DETECT_COMMAND_TIMEOUT  Timeout of tasklist/ps
  CHITCHAT_DAEMON_PID_FILE         PID file path
  CHITCHAT_WEB_HOST                Local API host
  CHITCHAT_WEB_PORT                Local API port
  CHITCHAT_LOG_LEVEL               debug, info, warn, error
  CHITCHAT_LOG_DEVELOPMENT         Console log format (true/false)
  CHITCHAT_LOG_FILE                Additional log file
  CHITCHAT_APP_NAME                Name shown in the tray and window

Version: %s
`, version)
}

func loadConfig() *config.Config {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func newLogger(cfg *config.Config) *logging.Logger {
	logCfg := logging.DefaultConfig()
	if cfg.Log.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Log.Level != "" {
		logCfg.Level = cfg.Log.Level
	}

	logger, err := logging.New(logCfg.WithFile(cfg.Log.File))
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	return logger
}

// openStore connects to and migrates the play-time database
func openStore(cfg *config.Config, logger *zap.Logger) *database.DB {
	db, err := database.Connect(cfg.Database.Path, database.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Initialize(); err != nil {
		db.Close()
		log.Fatalf("Failed to initialize database: %v", err)
	}
	return db
}

func newDetector(cfg *config.Config, logger *zap.Logger) *games.Detector {
	lister, err := detector.NewProcessLister(cfg.Detect.ProcessSource, cfg.Detect.CommandTimeout)
	if err != nil {
		log.Fatalf("Failed to create process lister: %v", err)
	}

	return games.NewDetector(lister,
		games.WithUnknownGames(cfg.Detect.GuessUnknown),
		games.WithLogger(logger.Named("detector")))
}

func newDispatcher(logger *zap.Logger) *remote.Dispatcher {
	monitors := detector.NewMonitorProvider(robotgo.NewMonitorProvider(), logger.Named("monitor"))
	return remote.NewDispatcher(robotgo.NewInjector, monitors, logger.Named("input"))
}

// newClient talks to the running instance with the token it left next to its
// PID file. Without a token only read requests succeed.
func newClient(cfg *config.Config) *web.Client {
	token, err := daemon.New(cfg.Daemon.PIDFile).ReadToken()
	if err != nil {
		token = ""
	}
	return web.NewClient(cfg.BaseURL(), token)
}

func detectGame() {
	cfg := loadConfig()
	logger := newLogger(cfg)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Detect.CommandTimeout+time.Second)
	defer cancel()

	detection := newDetector(cfg, logger.Logger).Detect(ctx)

	out, err := json.Marshal(detection)
	if err != nil {
		log.Fatalf("Failed to encode detection: %v", err)
	}
	fmt.Println(string(out))
}

func applyInput() {
	if len(os.Args) < 3 {
		log.Fatalf("Usage: chitchat input '<event-json>'")
	}

	cfg := loadConfig()
	logger := newLogger(cfg)
	defer logger.Sync()

	ev, err := remote.DecodeEvent([]byte(os.Args[2]))
	if err != nil {
		log.Fatalf("Invalid event: %v", err)
	}

	if err := newDispatcher(logger.Logger).Apply(ev); err != nil {
		log.Fatalf("Input injection failed: %v", err)
	}
}

func setBadge() {
	if len(os.Args) < 3 {
		log.Fatalf("Usage: chitchat badge <count>")
	}

	count, err := strconv.Atoi(os.Args[2])
	if err != nil || count < 0 {
		log.Fatalf("Invalid count: %s", os.Args[2])
	}

	cfg := loadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := newClient(cfg).SetBadge(ctx, count); err != nil {
		log.Fatalf("Failed to set badge: %v", err)
	}
}

func showWindow() {
	cfg := loadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := newClient(cfg).ShowWindow(ctx); err != nil {
		log.Fatalf("Failed to show window: %v", err)
	}
}

func stopApp() {
	cfg := loadConfig()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check instance status: %v", err)
	}

	if !running {
		fmt.Println("ChitChat is not running")
		return
	}

	fmt.Printf("Stopping ChitChat (PID: %d)...\n", pid)
	if err := dm.Stop(); err != nil {
		log.Fatalf("Failed to stop ChitChat: %v", err)
	}

	fmt.Println("ChitChat stopped successfully")
}

func showStatus() {
	cfg := loadConfig()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check instance status: %v", err)
	}

	if !running {
		fmt.Println("Status: Not running")
	} else {
		fmt.Printf("Status: Running (PID: %d, process: %s)\n", pid, dm.OwnerName())
		fmt.Printf("Local API: %s\n", cfg.BaseURL())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		status, err := newClient(cfg).Status(ctx)
		if err != nil {
			fmt.Printf("Could not query running instance: %v\n", err)
		} else {
			keys := make([]string, 0, len(status))
			for k := range status {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("  %s: %v\n", k, status[k])
			}
		}
	}

	fmt.Printf("Display Server: %s\n", detector.DetectDisplayServer())

	// Detection works without a running instance
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Detect.CommandTimeout+time.Second)
	defer cancel()

	detection := newDetector(cfg, zap.NewNop()).Detect(ctx)
	if detection.IsNone() {
		fmt.Println("\nNo game running")
		return
	}

	fmt.Printf("\nCurrent Game:\n")
	fmt.Printf("  Name: %s\n", detection.DisplayName())
	fmt.Printf("  Executable: %s\n", detection.Executable)
	fmt.Printf("  Kind: %s\n", detection.Kind)
}

func generateReport() {
	periodType := "day"
	if len(os.Args) > 2 && os.Args[2] != "--json" {
		periodType = os.Args[2]
	}

	jsonOutput := false
	for _, arg := range os.Args[2:] {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	cfg := loadConfig()

	db := openStore(cfg, zap.NewNop())
	defer db.Close()

	rep := reporter.New(database.NewRepository(db))

	report, err := rep.GenerateReport(periodType)
	if err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}

	if jsonOutput {
		jsonStr, err := reporter.FormatReportJSON(report)
		if err != nil {
			log.Fatalf("Failed to format JSON: %v", err)
		}
		fmt.Println(jsonStr)
	} else {
		fmt.Println(reporter.FormatReportText(report))
	}
}

func clearDatabase() {
	cfg := loadConfig()

	fmt.Print("This will delete all play-time history. Are you sure? (yes/no): ")
	var response string
	fmt.Scanln(&response)

	if response != "yes" && response != "y" {
		fmt.Println("Operation cancelled")
		return
	}

	db := openStore(cfg, zap.NewNop())
	defer db.Close()

	if err := database.NewRepository(db).Clear(); err != nil {
		log.Fatalf("Failed to clear database: %v", err)
	}

	fmt.Println("Play-time history cleared successfully")
}
