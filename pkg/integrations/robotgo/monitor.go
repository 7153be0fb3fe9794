package robotgo

import (
	"github.com/go-vgo/robotgo"

	"github.com/chitchat/desktop/pkg/remote"
)

// MonitorProvider reads the main display bounds from robotgo.
// It works on every platform robotgo supports and is used as the last fallback.
type MonitorProvider struct{}

func NewMonitorProvider() *MonitorProvider {
	return &MonitorProvider{}
}

func (p *MonitorProvider) PrimaryMonitor() (remote.Monitor, error) {
	if robotgo.DisplaysNum() < 1 {
		return remote.Monitor{}, remote.ErrNoPrimaryMonitor
	}

	x, y, w, h := robotgo.GetDisplayBounds(robotgo.GetMainId())
	if w <= 0 || h <= 0 {
		return remote.Monitor{}, remote.ErrNoPrimaryMonitor
	}

	return remote.Monitor{X: x, Y: y, Width: w, Height: h}, nil
}

// Name identifies the provider in logs and status output
func (p *MonitorProvider) Name() string {
	return "robotgo"
}
