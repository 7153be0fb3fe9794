package ui

import (
	"fmt"
	"net/url"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/chitchat/desktop/pkg/games"
	"github.com/chitchat/desktop/pkg/window"
)

// Window is the main application window. Closing it hides it to the tray.
type Window struct {
	app    fyne.App
	win    fyne.Window
	logger *zap.Logger

	mu    sync.Mutex
	state window.State

	gameLabel   *widget.Label
	unreadLabel *widget.Label
}

func New(a fyne.App, title string, logger *zap.Logger) *Window {
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Window{
		app:         a,
		win:         a.NewWindow(title),
		logger:      logger,
		state:       window.Hidden,
		gameLabel:   widget.NewLabel(DetectionText(games.None())),
		unreadLabel: widget.NewLabel(UnreadText(0)),
	}

	titleLabel := widget.NewLabel(title)
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.Alignment = fyne.TextAlignCenter

	content := container.NewVBox(
		container.NewPadded(titleLabel),
		widget.NewSeparator(),
		container.NewPadded(w.gameLabel),
		container.NewPadded(w.unreadLabel),
	)

	w.win.SetContent(container.NewPadded(content))
	w.win.Resize(fyne.NewSize(420, 220))
	w.win.SetCloseIntercept(w.Hide)

	return w
}

// Show makes the window visible and focuses it
func (w *Window) Show() {
	w.setState(window.Visible)
	fyne.Do(func() {
		w.win.Show()
		w.win.RequestFocus()
	})
}

// Hide removes the window from the screen; the application keeps running
func (w *Window) Hide() {
	w.setState(window.Hidden)
	fyne.Do(w.win.Hide)
}

func (w *Window) State() window.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Window) setState(s window.State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != s {
		w.logger.Debug("window state changed", zap.Stringer("state", s))
	}
	w.state = s
}

// SetDetection shows the latest detection result
func (w *Window) SetDetection(d games.Detection) {
	text := DetectionText(d)
	fyne.Do(func() { w.gameLabel.SetText(text) })
}

// SetUnread shows the unread message count
func (w *Window) SetUnread(count int) {
	text := UnreadText(count)
	fyne.Do(func() { w.unreadLabel.SetText(text) })
}

// OpenURL opens a link in the system browser
func (w *Window) OpenURL(u *url.URL) error {
	if err := w.app.OpenURL(u); err != nil {
		return fmt.Errorf("failed to open %s: %w", u, err)
	}
	return nil
}

// DetectionText is the label shown for a detection result
func DetectionText(d games.Detection) string {
	switch d.Kind {
	case games.KindKnown:
		return "Playing: " + d.Game
	case games.KindUnknown:
		return fmt.Sprintf("Playing: %s (guessed from %s)", d.SuggestedName, d.Executable)
	default:
		return "No game detected"
	}
}

// UnreadText is the label shown for the unread message count
func UnreadText(count int) string {
	switch {
	case count <= 0:
		return "No unread messages"
	case count == 1:
		return "1 unread message"
	default:
		return fmt.Sprintf("%d unread messages", count)
	}
}
