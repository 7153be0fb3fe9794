package detector

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/chitchat/desktop/pkg/integrations/common"
	"github.com/chitchat/desktop/pkg/integrations/hybrid"
	"github.com/chitchat/desktop/pkg/integrations/process"
	"github.com/chitchat/desktop/pkg/remote"
)

// Process sources accepted by NewProcessLister
const (
	SourceCommand  = "command"
	SourceGopsutil = "gopsutil"
)

// NewProcessLister returns the process snapshot backend named by source
func NewProcessLister(source string, timeout time.Duration) (process.Lister, error) {
	switch source {
	case "", SourceCommand:
		return process.NewCommandLister(timeout), nil
	case SourceGopsutil:
		return process.NewGopsutilLister(), nil
	default:
		return nil, fmt.Errorf("unknown process source: %s (valid: %s, %s)", source, SourceCommand, SourceGopsutil)
	}
}

// NewMonitorProvider returns the monitor chain for the current session,
// ending with fallback when it is not nil.
func NewMonitorProvider(fallback remote.MonitorProvider, logger *zap.Logger) *hybrid.MonitorProvider {
	return hybrid.NewMonitorProvider(fallback, logger)
}

// DetectDisplayServer names the windowing system input is injected into
func DetectDisplayServer() string {
	return displayServer(runtime.GOOS, os.Getenv)
}

func displayServer(goos string, getenv func(string) string) string {
	switch goos {
	case "windows":
		return common.DisplayServerWindows
	case "darwin":
		return common.DisplayServerQuartz
	}

	if getenv("XDG_SESSION_TYPE") == "wayland" || getenv("WAYLAND_DISPLAY") != "" {
		return common.DisplayServerWayland
	}

	if getenv("XDG_SESSION_TYPE") == "x11" || getenv("DISPLAY") != "" {
		return common.DisplayServerX11
	}

	return common.DisplayServerUnknown
}
