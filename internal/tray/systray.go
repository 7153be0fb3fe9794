//go:build !darwin

package tray

import (
	"fyne.io/fyne/v2"
	"github.com/energye/systray"
)

// NewNativeBackend returns the energye/systray backend; fyne keeps the main loop
func NewNativeBackend(_ fyne.App) NativeBackend {
	return NewSystrayBackend()
}

// SystrayBackend drives the native tray icon through energye/systray
type SystrayBackend struct{}

func NewSystrayBackend() *SystrayBackend {
	return &SystrayBackend{}
}

// Start runs the tray on the caller's event loop. onReady is called once
// the icon exists; the returned function tears the tray down.
func (b *SystrayBackend) Start(onReady, onExit func()) func() {
	start, end := systray.RunWithExternalLoop(onReady, onExit)
	start()
	return end
}

func (b *SystrayBackend) SetIcon(icon []byte) {
	systray.SetIcon(icon)
}

func (b *SystrayBackend) SetTooltip(tooltip string) {
	systray.SetTooltip(tooltip)
}

func (b *SystrayBackend) AddMenuItem(title, tooltip string, onClick func()) {
	item := systray.AddMenuItem(title, tooltip)
	item.Click(onClick)
}

func (b *SystrayBackend) AddQuitItem(title, tooltip string, onClick func()) {
	systray.AddSeparator()
	b.AddMenuItem(title, tooltip, onClick)
}

func (b *SystrayBackend) SetOnClick(fn func()) {
	systray.SetOnClick(func(menu systray.IMenu) {
		fn()
	})
	systray.SetOnRClick(func(menu systray.IMenu) {
		_ = menu.ShowMenu()
	})
}

func (b *SystrayBackend) Quit() {
	systray.Quit()
}
