package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/chitchat/desktop/internal/config"
	"github.com/chitchat/desktop/internal/daemon"
	"github.com/chitchat/desktop/internal/database"
	"github.com/chitchat/desktop/internal/tracker"
	"github.com/chitchat/desktop/internal/tray"
	"github.com/chitchat/desktop/internal/ui"
	"github.com/chitchat/desktop/internal/web"
	"github.com/chitchat/desktop/pkg/detector"
)

// runApp starts the single tray instance. A second launch asks the running
// instance to show its window and exits.
func runApp() {
	cfg := loadConfig()
	logger := newLogger(cfg)
	defer logger.Sync()

	dm := daemon.New(cfg.Daemon.PIDFile)
	if pid, err := dm.Acquire(); err != nil {
		if !errors.Is(err, daemon.ErrAlreadyRunning) {
			log.Fatalf("Failed to acquire instance lock: %v", err)
		}

		logger.Info("instance already running, showing its window", zap.Int("pid", pid))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := newClient(cfg).ShowWindow(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "ChitChat is already running (PID: %d) but did not respond: %v\n", pid, err)
			os.Exit(1)
		}
		return
	}
	defer dm.RemovePID()

	token, err := dm.IssueToken()
	if err != nil {
		log.Fatalf("Failed to create local API token: %v", err)
	}
	defer dm.RemoveToken()

	db := openStore(cfg, logger.Named("database"))
	defer db.Close()
	repo := database.NewRepository(db)

	a := app.NewWithID(cfg.App.ID)
	win := ui.New(a, cfg.App.Name, logger.Named("window"))

	backend := tray.NewNativeBackend(a)
	trayCtl := tray.NewController(cfg.App.Name, backend, win, func() {
		fyne.Do(a.Quit)
	}, logger.Named("tray"))
	trayCtl.OnBadge(win.SetUnread)

	det := newDetector(cfg, logger.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var svc *tracker.Service
	if cfg.Tracker.Enabled {
		svc = tracker.NewService(cfg, repo, det, logger.Named("tracker"))
		svc.OnDetection(win.SetDetection)
	}

	handler := web.NewHandler(cfg, web.Deps{
		Detector: det,
		Input:    newDispatcher(logger.Logger),
		Badge:    trayCtl,
		Window:   win,
		Opener:   win,
		Tracker:  svc,
		Repo:     repo,
		Logger:   logger.Named("web"),
	})
	server := web.NewServer(cfg, handler, token, logger.Named("web"))

	ln, err := server.Listen()
	if err != nil {
		log.Fatalf("Failed to start local API on %s: %v", server.GetAddress(), err)
	}
	go func() {
		if err := server.Serve(ln); err != nil {
			logger.Error("local API stopped", zap.Error(err))
		}
	}()

	trackerDone := make(chan struct{})
	if svc != nil {
		go func() {
			defer close(trackerDone)
			if err := svc.Start(ctx); err != nil {
				logger.Error("tracker stopped", zap.Error(err))
			}
		}()
	} else {
		close(trackerDone)
	}

	var stopTray func()
	a.Lifecycle().SetOnStarted(func() {
		stopTray = backend.Start(trayCtl.Setup, nil)
		win.Show()
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
			fyne.Do(a.Quit)
		case <-ctx.Done():
		}
	}()

	logger.Info("ChitChat started",
		zap.String("version", version),
		zap.String("api", cfg.BaseURL()),
		zap.String("display_server", detector.DetectDisplayServer()),
		zap.Bool("tracker", cfg.Tracker.Enabled))

	a.Run()

	shutdown(logger.Logger, cfg, svc, trackerDone, server, stopTray)
}

func shutdown(logger *zap.Logger, cfg *config.Config, svc *tracker.Service, trackerDone <-chan struct{}, server *web.Server, stopTray func()) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if svc != nil {
		svc.Stop()
	}
	// The open session is closed by the tracker loop on its way out
	select {
	case <-trackerDone:
	case <-ctx.Done():
		logger.Warn("tracker did not stop in time")
	}
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("local API shutdown failed", zap.Error(err))
	}

	if stopTray != nil {
		stopTray()
	}

	logger.Info("ChitChat stopped", zap.String("name", cfg.App.Name))
}
