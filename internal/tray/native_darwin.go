//go:build darwin

package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// NewNativeBackend returns fyne's tray on macOS. fyne's desktop driver already
// links a Cocoa systray, and a second one would clash at link time.
func NewNativeBackend(a fyne.App) NativeBackend {
	d, _ := a.(desktop.App)
	return NewFyneBackend(d)
}
