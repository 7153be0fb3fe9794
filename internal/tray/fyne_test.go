package tray

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDesktopApp struct {
	calls []string
	menu  *fyne.Menu
	icon  fyne.Resource
}

func (f *fakeDesktopApp) SetSystemTrayMenu(menu *fyne.Menu) {
	f.calls = append(f.calls, "menu")
	f.menu = menu
}

func (f *fakeDesktopApp) SetSystemTrayIcon(icon fyne.Resource) {
	f.calls = append(f.calls, "icon")
	f.icon = icon
}

func newTestFyneBackend() (*FyneBackend, *fakeDesktopApp) {
	app := &fakeDesktopApp{}
	b := NewFyneBackend(app)
	b.run = func(fn func()) { fn() }
	return b, app
}

func labels(menu *fyne.Menu) []string {
	var out []string
	for _, item := range menu.Items {
		if item.IsSeparator {
			out = append(out, "---")
			continue
		}
		out = append(out, item.Label)
	}
	return out
}

func TestFyneBackendWaitsForStart(t *testing.T) {
	b, app := newTestFyneBackend()

	b.SetIcon(Icon())
	b.AddMenuItem("Open", "", nil)
	assert.Empty(t, app.calls)

	b.Start(nil, nil)
	assert.Equal(t, []string{"menu", "icon"}, app.calls)
	assert.Equal(t, iconResourceName, app.icon.Name())
}

func TestFyneBackendWithController(t *testing.T) {
	b, app := newTestFyneBackend()
	win := &fakeWindow{}
	quit := 0
	c := NewController("ChitChat", b, win, func() { quit++ }, nil)

	b.Start(c.Setup, nil)
	require.NotNil(t, app.menu)
	assert.Equal(t, []string{"ChitChat", "---", "Open ChitChat", "Quit ChitChat"}, labels(app.menu))
	assert.True(t, app.menu.Items[0].Disabled)
	assert.True(t, app.menu.Items[3].IsQuit)

	c.SetBadge(4)
	assert.Equal(t, "ChitChat (4 unread)", app.menu.Items[0].Label)

	app.menu.Items[2].Action()
	assert.Equal(t, 1, win.shown)

	app.menu.Items[3].Action()
	assert.Equal(t, 1, quit)
}

func TestFyneBackendWithoutDesktopApp(t *testing.T) {
	b := NewFyneBackend(nil)
	b.run = func(fn func()) { fn() }

	stop := b.Start(func() { b.AddMenuItem("Open", "", nil) }, nil)
	stop()
	assert.Equal(t, []string{"Open"}, labels(b.Menu()))
}
