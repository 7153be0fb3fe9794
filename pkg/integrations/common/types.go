package common

import "os/exec"

// Display server identifiers
const (
	DisplayServerX11     = "x11"
	DisplayServerWayland = "wayland"
	DisplayServerWindows = "windows"
	DisplayServerQuartz  = "quartz"
	DisplayServerUnknown = "unknown"
)

// CommandExists checks if a command is available in PATH
func CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// Provider is implemented by every native backend that can report a name and availability
type Provider interface {
	// Name identifies the backend in logs and status output
	Name() string

	// IsAvailable checks if this backend can run on the current system
	IsAvailable() bool
}
