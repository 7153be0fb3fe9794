package tray

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const iconResourceName = "chitchat-tray.png"

// FyneBackend drives the tray through fyne's own system tray.
// fyne exposes no tooltip or icon click hooks, so the tooltip text is shown as a
// disabled first menu entry and clicking the icon opens the menu.
type FyneBackend struct {
	app desktop.App
	run func(func())

	mu      sync.Mutex
	started bool
	icon    fyne.Resource
	header  string
	items   []*fyne.MenuItem
}

func NewFyneBackend(a desktop.App) *FyneBackend {
	return &FyneBackend{app: a, run: fyne.Do}
}

// Start runs onReady and then installs the collected menu and icon.
// It must be called once the fyne app is running.
func (b *FyneBackend) Start(onReady, onExit func()) func() {
	if onReady != nil {
		onReady()
	}

	b.mu.Lock()
	b.started = true
	b.mu.Unlock()
	b.refresh()

	return func() {
		if onExit != nil {
			onExit()
		}
	}
}

func (b *FyneBackend) SetIcon(icon []byte) {
	b.mu.Lock()
	b.icon = fyne.NewStaticResource(iconResourceName, icon)
	b.mu.Unlock()
	b.refresh()
}

func (b *FyneBackend) SetTooltip(tooltip string) {
	b.mu.Lock()
	b.header = tooltip
	b.mu.Unlock()
	b.refresh()
}

func (b *FyneBackend) AddMenuItem(title, _ string, onClick func()) {
	b.addItem(fyne.NewMenuItem(title, onClick))
}

func (b *FyneBackend) AddQuitItem(title, _ string, onClick func()) {
	item := fyne.NewMenuItem(title, onClick)
	item.IsQuit = true
	b.addItem(item)
}

// SetOnClick is a no-op: fyne opens the menu on click
func (b *FyneBackend) SetOnClick(func()) {}

// Quit is a no-op: the tray goes away with the fyne app
func (b *FyneBackend) Quit() {}

// Menu is the tray menu as currently configured
func (b *FyneBackend) Menu() *fyne.Menu {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.menuLocked()
}

func (b *FyneBackend) addItem(item *fyne.MenuItem) {
	b.mu.Lock()
	b.items = append(b.items, item)
	b.mu.Unlock()
	b.refresh()
}

// refresh pushes the menu and then the icon; fyne needs the menu first
func (b *FyneBackend) refresh() {
	b.mu.Lock()
	if !b.started || b.app == nil {
		b.mu.Unlock()
		return
	}
	menu := b.menuLocked()
	icon := b.icon
	b.mu.Unlock()

	b.run(func() {
		b.app.SetSystemTrayMenu(menu)
		if icon != nil {
			b.app.SetSystemTrayIcon(icon)
		}
	})
}

func (b *FyneBackend) menuLocked() *fyne.Menu {
	items := make([]*fyne.MenuItem, 0, len(b.items)+2)
	if b.header != "" {
		header := fyne.NewMenuItem(b.header, nil)
		header.Disabled = true
		items = append(items, header, fyne.NewMenuItemSeparator())
	}
	items = append(items, b.items...)
	return fyne.NewMenu("", items...)
}
