package x11

import (
	"os"
	"testing"
)

func TestNewMonitorProvider(t *testing.T) {
	provider := NewMonitorProvider("")
	if provider == nil {
		t.Fatal("NewMonitorProvider() returned nil")
	}
}

func TestName(t *testing.T) {
	provider := NewMonitorProvider("")
	if name := provider.Name(); name != "x11" {
		t.Errorf("Name() = %s, want %s", name, "x11")
	}
}

func TestIsAvailable(t *testing.T) {
	orig := os.Getenv("DISPLAY")
	defer os.Setenv("DISPLAY", orig)

	os.Unsetenv("DISPLAY")
	if NewMonitorProvider("").IsAvailable() {
		t.Error("IsAvailable() = true without DISPLAY, want false")
	}
	if !NewMonitorProvider(":0").IsAvailable() {
		t.Error("IsAvailable() = false with explicit display, want true")
	}
}

func TestPrimaryMonitor(t *testing.T) {
	provider := NewMonitorProvider("")
	if !provider.IsAvailable() {
		t.Skip("X11 display not available on this system")
	}

	monitor, err := provider.PrimaryMonitor()
	if err != nil {
		t.Logf("PrimaryMonitor() error (may be expected): %v", err)
		return
	}

	if monitor.Width <= 0 || monitor.Height <= 0 {
		t.Errorf("PrimaryMonitor() = %+v, want positive size", monitor)
	}
	t.Logf("Primary monitor: %+v", monitor)
}
