package hybrid

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/chitchat/desktop/pkg/integrations/common"
	"github.com/chitchat/desktop/pkg/integrations/wayland"
	"github.com/chitchat/desktop/pkg/integrations/x11"
	"github.com/chitchat/desktop/pkg/remote"
)

// Backend is a monitor provider that can tell whether it works on this system
type Backend interface {
	remote.MonitorProvider
	common.Provider
}

// MonitorProvider tries the session's native backends in order and falls back
// to a portable provider when none of them can answer.
type MonitorProvider struct {
	backends []Backend
	fallback remote.MonitorProvider

	lastSuccessfulMethod string
	logger               *zap.Logger
}

// NewMonitorProvider builds the provider chain for the current session.
// fallback may be nil.
func NewMonitorProvider(fallback remote.MonitorProvider, logger *zap.Logger) *MonitorProvider {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &MonitorProvider{
		backends: detectBackends(),
		fallback: fallback,
		logger:   logger,
	}

	if len(p.backends) > 0 {
		logger.Info("Monitor provider initialized", zap.String("backend", p.backends[0].Name()))
	} else {
		logger.Info("Native monitor backend unavailable, using fallback only")
	}

	return p
}

// NewWithBackends is used when the backend list is already known
func NewWithBackends(backends []Backend, fallback remote.MonitorProvider, logger *zap.Logger) *MonitorProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MonitorProvider{backends: backends, fallback: fallback, logger: logger}
}

func detectBackends() []Backend {
	var backends []Backend

	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	xdgSessionType := os.Getenv("XDG_SESSION_TYPE")

	if waylandDisplay != "" || xdgSessionType == "wayland" {
		p := wayland.NewMonitorProvider()
		if p.IsAvailable() {
			backends = append(backends, p)
		}
	}

	// XWayland sessions also expose DISPLAY.
	if os.Getenv("DISPLAY") != "" {
		p := x11.NewMonitorProvider("")
		if p.IsAvailable() {
			backends = append(backends, p)
		}
	}

	return backends
}

// PrimaryMonitor returns the first answer from the backend chain
func (p *MonitorProvider) PrimaryMonitor() (remote.Monitor, error) {
	var errs []error

	for _, b := range p.backends {
		if !b.IsAvailable() {
			continue
		}
		m, err := b.PrimaryMonitor()
		if err == nil {
			p.lastSuccessfulMethod = b.Name()
			return m, nil
		}
		p.logger.Debug("Monitor backend failed", zap.String("backend", b.Name()), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
	}

	if p.fallback != nil {
		m, err := p.fallback.PrimaryMonitor()
		if err == nil {
			p.lastSuccessfulMethod = "fallback"
			return m, nil
		}
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return remote.Monitor{}, remote.ErrNoPrimaryMonitor
	}

	p.logger.Warn("All monitor backends failed", zap.Error(errors.Join(errs...)))

	// Report the most portable failure; ErrNoPrimaryMonitor stays matchable.
	return remote.Monitor{}, errs[len(errs)-1]
}

// BackendInfo describes one entry of the provider chain
type BackendInfo struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

func (p *MonitorProvider) Backends() []BackendInfo {
	infos := make([]BackendInfo, 0, len(p.backends)+1)
	for _, b := range p.backends {
		infos = append(infos, BackendInfo{Name: b.Name(), Available: b.IsAvailable()})
	}
	if p.fallback != nil {
		infos = append(infos, BackendInfo{Name: "fallback", Available: true})
	}
	return infos
}

// LastSuccessfulMethod returns the backend that answered the previous query
func (p *MonitorProvider) LastSuccessfulMethod() string {
	return p.lastSuccessfulMethod
}
