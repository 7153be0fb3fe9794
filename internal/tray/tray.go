package tray

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/chitchat/desktop/pkg/window"
)

// Backend is the native tray icon surface
type Backend interface {
	SetIcon(icon []byte)
	SetTooltip(tooltip string)
	AddMenuItem(title, tooltip string, onClick func())
	// AddQuitItem adds the entry that exits the application
	AddQuitItem(title, tooltip string, onClick func())
	// SetOnClick registers the handler for a primary click on the icon
	SetOnClick(fn func())
	Quit()
}

// NativeBackend is a Backend bound to the platform tray.
// Start installs the tray on the caller's event loop and returns its teardown.
type NativeBackend interface {
	Backend
	Start(onReady, onExit func()) func()
}

// TooltipText is the tray tooltip for the given unread count
func TooltipText(appName string, unread int) string {
	if unread <= 0 {
		return appName
	}
	return fmt.Sprintf("%s (%d unread)", appName, unread)
}

// Controller owns the tray icon and routes its events to the main window
type Controller struct {
	appName string
	backend Backend
	window  window.Controller
	onQuit  func()
	logger  *zap.Logger

	mu        sync.Mutex
	unread    int
	listeners []func(unread int)
}

func NewController(appName string, backend Backend, win window.Controller, onQuit func(), logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		appName: appName,
		backend: backend,
		window:  win,
		onQuit:  onQuit,
		logger:  logger,
	}
}

// Setup installs the icon, tooltip and two-item menu.
// It must run from the tray's ready callback.
func (c *Controller) Setup() {
	c.backend.SetIcon(Icon())
	c.backend.SetTooltip(TooltipText(c.appName, c.Unread()))

	c.backend.AddMenuItem("Open "+c.appName, "Show the "+c.appName+" window", c.ShowWindow)
	c.backend.AddQuitItem("Quit "+c.appName, "Exit "+c.appName, c.Quit)

	c.backend.SetOnClick(c.ShowWindow)
}

// SetBadge shows the unread message count in the tooltip
func (c *Controller) SetBadge(count int) {
	if count < 0 {
		count = 0
	}

	c.mu.Lock()
	c.unread = count
	listeners := append([]func(int){}, c.listeners...)
	c.mu.Unlock()

	c.backend.SetTooltip(TooltipText(c.appName, count))
	c.logger.Debug("tray badge updated", zap.Int("unread", count))

	for _, fn := range listeners {
		fn(count)
	}
}

func (c *Controller) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unread
}

// OnBadge registers a callback run after every badge update
func (c *Controller) OnBadge(fn func(unread int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// ShowWindow shows and focuses the main window
func (c *Controller) ShowWindow() {
	if c.window == nil {
		return
	}
	c.window.Show()
}

// Quit runs the quit hook and removes the tray icon
func (c *Controller) Quit() {
	c.logger.Info("quit requested from tray")
	if c.onQuit != nil {
		c.onQuit()
	}
	c.backend.Quit()
}
