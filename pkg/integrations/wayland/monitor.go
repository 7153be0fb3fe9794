package wayland

import (
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/chitchat/desktop/pkg/integrations/common"
	"github.com/chitchat/desktop/pkg/remote"
)

// MonitorProvider reads output geometry from the running Wayland compositor
type MonitorProvider struct {
	compositor string
	hasSwaymsg bool
	hasHyprctl bool
}

// NewMonitorProvider creates a new Wayland monitor provider
func NewMonitorProvider() *MonitorProvider {
	p := &MonitorProvider{}
	p.hasSwaymsg = common.CommandExists("swaymsg")
	p.hasHyprctl = common.CommandExists("hyprctl")
	p.compositor = detectCompositor()
	return p
}

// detectCompositor attempts to detect the Wayland compositor
func detectCompositor() string {
	compositors := map[string]string{
		"sway":         "sway",
		"Hyprland":     "hyprland",
		"wayfire":      "wayfire",
		"river":        "river",
		"gnome-shell":  "gnome",
		"kwin_wayland": "kde",
	}

	for process, name := range compositors {
		cmd := exec.Command("pgrep", "-x", process)
		if err := cmd.Run(); err == nil {
			return name
		}
	}

	return "unknown"
}

// Name returns "wayland"
func (p *MonitorProvider) Name() string {
	return common.DisplayServerWayland
}

// Compositor returns the detected compositor name
func (p *MonitorProvider) Compositor() string {
	return p.compositor
}

// IsAvailable checks if output geometry can be queried for this compositor
func (p *MonitorProvider) IsAvailable() bool {
	switch p.compositor {
	case "sway":
		return p.hasSwaymsg
	case "hyprland":
		return p.hasHyprctl
	default:
		return false
	}
}

// PrimaryMonitor returns the focused output, or the first active one
func (p *MonitorProvider) PrimaryMonitor() (remote.Monitor, error) {
	switch p.compositor {
	case "sway":
		output, err := exec.Command("swaymsg", "-t", "get_outputs", "-r").Output()
		if err != nil {
			return remote.Monitor{}, fmt.Errorf("failed to execute swaymsg: %w", err)
		}
		return parseSwayOutputs(output)
	case "hyprland":
		output, err := exec.Command("hyprctl", "monitors", "-j").Output()
		if err != nil {
			return remote.Monitor{}, fmt.Errorf("failed to execute hyprctl: %w", err)
		}
		return parseHyprlandMonitors(output)
	default:
		return remote.Monitor{}, fmt.Errorf("unsupported wayland compositor: %s", p.compositor)
	}
}

type swayOutput struct {
	Name    string `json:"name"`
	Active  bool   `json:"active"`
	Focused bool   `json:"focused"`
	Rect    struct {
		X      int `json:"x"`
		Y      int `json:"y"`
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"rect"`
}

// parseSwayOutputs parses `swaymsg -t get_outputs -r` JSON
func parseSwayOutputs(data []byte) (remote.Monitor, error) {
	var outputs []swayOutput
	if err := json.Unmarshal(data, &outputs); err != nil {
		return remote.Monitor{}, fmt.Errorf("failed to parse sway outputs: %w", err)
	}

	var candidates []remote.Monitor
	focused := -1
	for _, o := range outputs {
		if !o.Active || o.Rect.Width <= 0 || o.Rect.Height <= 0 {
			continue
		}
		if o.Focused && focused < 0 {
			focused = len(candidates)
		}
		candidates = append(candidates, remote.Monitor{X: o.Rect.X, Y: o.Rect.Y, Width: o.Rect.Width, Height: o.Rect.Height})
	}

	return pick(candidates, focused)
}

type hyprlandMonitor struct {
	Name     string `json:"name"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Focused  bool   `json:"focused"`
	Disabled bool   `json:"disabled"`
}

// parseHyprlandMonitors parses `hyprctl monitors -j` JSON
func parseHyprlandMonitors(data []byte) (remote.Monitor, error) {
	var monitors []hyprlandMonitor
	if err := json.Unmarshal(data, &monitors); err != nil {
		return remote.Monitor{}, fmt.Errorf("failed to parse hyprland monitors: %w", err)
	}

	var candidates []remote.Monitor
	focused := -1
	for _, m := range monitors {
		if m.Disabled || m.Width <= 0 || m.Height <= 0 {
			continue
		}
		if m.Focused && focused < 0 {
			focused = len(candidates)
		}
		candidates = append(candidates, remote.Monitor{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height})
	}

	return pick(candidates, focused)
}

func pick(candidates []remote.Monitor, focused int) (remote.Monitor, error) {
	if len(candidates) == 0 {
		return remote.Monitor{}, remote.ErrNoPrimaryMonitor
	}
	if focused >= 0 {
		return candidates[focused], nil
	}
	return candidates[0], nil
}
