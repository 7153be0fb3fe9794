package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chitchat/desktop/internal/config"
	"github.com/chitchat/desktop/internal/database"
	"github.com/chitchat/desktop/internal/models"
	"github.com/chitchat/desktop/pkg/games"
)

// GameDetector is satisfied by games.Detector
type GameDetector interface {
	Detect(ctx context.Context) games.Detection
}

// Service polls the game detector and records one GameSession per
// continuous detection of the same game.
type Service struct {
	config   *config.Config
	repo     *database.Repository
	detector GameDetector
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.RWMutex
	running   bool
	stopChan  chan struct{}
	current   *models.GameSession
	last      games.Detection
	listeners []func(games.Detection)
}

func NewService(cfg *config.Config, repo *database.Repository, detector GameDetector, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		config:   cfg,
		repo:     repo,
		detector: detector,
		logger:   logger,
		now:      time.Now,
		last:     games.None(),
	}
}

// OnDetection registers a callback run after every poll with its result
func (s *Service) OnDetection(fn func(games.Detection)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Start runs the poll loop until ctx is cancelled or Stop is called.
// Sessions left active by a previous run are closed first.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("tracker is already running")
	}
	s.running = true
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	defer s.finish()

	if closed, err := s.repo.CloseActiveSessions(); err != nil {
		s.storeError(err)
	} else if closed > 0 {
		s.logger.Info("closed stale sessions", zap.Int64("count", closed))
	}

	s.logger.Info("starting tracker", zap.Duration("poll_interval", s.config.Tracker.PollInterval))

	ticker := time.NewTicker(s.config.Tracker.PollInterval)
	defer ticker.Stop()

	s.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("tracker stopped by context")
			return ctx.Err()

		case <-stop:
			s.logger.Info("tracker stopped")
			return nil

		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running && s.stopChan != nil {
		close(s.stopChan)
		s.stopChan = nil
	}
}

func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Current returns the last detection and the session being recorded, if any
func (s *Service) Current() (games.Detection, *models.GameSession) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return s.last, nil
	}
	session := *s.current
	return s.last, &session
}

func (s *Service) poll(ctx context.Context) {
	detection, err := s.TrackOnce(ctx)
	if err != nil {
		s.storeError(err)
	}

	s.mu.RLock()
	listeners := append([]func(games.Detection){}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(detection)
	}
}

// TrackOnce runs a single detection and updates the session history.
// Detection never fails; the returned error is always a storage error.
func (s *Service) TrackOnce(ctx context.Context) (games.Detection, error) {
	detection := s.detector.Detect(ctx)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = detection

	if s.current != nil && sameGame(s.current, detection) {
		if err := s.repo.TouchSession(s.current, now); err != nil {
			return detection, fmt.Errorf("failed to extend session: %w", err)
		}
		return detection, nil
	}

	if s.current != nil {
		ended := s.current
		s.current = nil
		if err := s.repo.EndSession(ended, now); err != nil {
			return detection, fmt.Errorf("failed to end session: %w", err)
		}
		s.logger.Info("game session ended",
			zap.String("game", ended.GameName),
			zap.Duration("duration", ended.Duration()))
	}

	if detection.IsNone() {
		return detection, nil
	}

	session, err := s.repo.StartSession(detection.DisplayName(), detection.Executable, string(detection.Kind), now)
	if err != nil {
		return detection, fmt.Errorf("failed to start session: %w", err)
	}
	s.current = session
	s.logger.Info("game session started",
		zap.String("game", session.GameName),
		zap.String("executable", session.Executable),
		zap.String("kind", session.Kind))

	return detection, nil
}

func (s *Service) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		if err := s.repo.EndSession(s.current, s.now()); err != nil {
			s.logger.Warn("failed to end session on shutdown", zap.Error(err))
		}
		s.current = nil
	}
	s.running = false
	s.stopChan = nil
}

func (s *Service) storeError(err error) {
	errorLog := &models.ErrorLog{
		Timestamp: s.now(),
		Component: "tracker",
		ErrorMsg:  err.Error(),
	}

	if dbErr := s.repo.CreateErrorLog(errorLog); dbErr != nil {
		s.logger.Error("failed to store error in database", zap.Error(dbErr), zap.NamedError("original", err))
	} else {
		s.logger.Warn("error logged to database", zap.Error(err))
	}
}

func sameGame(session *models.GameSession, d games.Detection) bool {
	if d.IsNone() {
		return false
	}
	return session.Executable == d.Executable && session.GameName == d.DisplayName()
}
