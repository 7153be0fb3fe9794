package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chitchat/desktop/pkg/window"
)

type menuItem struct {
	title   string
	onClick func()
	quit    bool
}

type fakeBackend struct {
	icon     []byte
	tooltips []string
	items    []menuItem
	onClick  func()
	quit     bool
}

func (f *fakeBackend) SetIcon(icon []byte)       { f.icon = icon }
func (f *fakeBackend) SetTooltip(tooltip string) { f.tooltips = append(f.tooltips, tooltip) }
func (f *fakeBackend) SetOnClick(fn func())      { f.onClick = fn }
func (f *fakeBackend) Quit()                     { f.quit = true }
func (f *fakeBackend) AddMenuItem(title, tooltip string, onClick func()) {
	f.items = append(f.items, menuItem{title: title, onClick: onClick})
}

func (f *fakeBackend) AddQuitItem(title, tooltip string, onClick func()) {
	f.items = append(f.items, menuItem{title: title, onClick: onClick, quit: true})
}

func (f *fakeBackend) tooltip() string {
	if len(f.tooltips) == 0 {
		return ""
	}
	return f.tooltips[len(f.tooltips)-1]
}

type fakeWindow struct {
	state window.State
	shown int
}

func (f *fakeWindow) Show() {
	f.shown++
	f.state = window.Visible
}

func (f *fakeWindow) Hide()               { f.state = window.Hidden }
func (f *fakeWindow) State() window.State { return f.state }

func TestTooltipText(t *testing.T) {
	assert.Equal(t, "ChitChat", TooltipText("ChitChat", 0))
	assert.Equal(t, "ChitChat (5 unread)", TooltipText("ChitChat", 5))
	assert.Equal(t, "ChitChat (1 unread)", TooltipText("ChitChat", 1))
	assert.Equal(t, "ChitChat", TooltipText("ChitChat", -3))
}

func TestSetupMenu(t *testing.T) {
	backend := &fakeBackend{}
	win := &fakeWindow{}
	quitCalled := false

	c := NewController("ChitChat", backend, win, func() { quitCalled = true }, nil)
	c.Setup()

	assert.NotEmpty(t, backend.icon)
	assert.Equal(t, "ChitChat", backend.tooltip())
	require.Len(t, backend.items, 2)
	assert.Equal(t, "Open ChitChat", backend.items[0].title)
	assert.Equal(t, "Quit ChitChat", backend.items[1].title)
	assert.False(t, backend.items[0].quit)
	assert.True(t, backend.items[1].quit)

	backend.items[0].onClick()
	assert.Equal(t, window.Visible, win.state)

	win.Hide()
	require.NotNil(t, backend.onClick)
	backend.onClick()
	assert.Equal(t, window.Visible, win.state)
	assert.Equal(t, 2, win.shown)

	backend.items[1].onClick()
	assert.True(t, quitCalled)
	assert.True(t, backend.quit)
}

func TestSetBadge(t *testing.T) {
	backend := &fakeBackend{}
	c := NewController("ChitChat", backend, nil, nil, nil)

	var seen []int
	c.OnBadge(func(unread int) { seen = append(seen, unread) })

	c.SetBadge(5)
	assert.Equal(t, "ChitChat (5 unread)", backend.tooltip())
	assert.Equal(t, 5, c.Unread())

	c.SetBadge(0)
	assert.Equal(t, "ChitChat", backend.tooltip())

	assert.Equal(t, []int{5, 0}, seen)
}

func TestShowWindowWithoutWindow(t *testing.T) {
	c := NewController("ChitChat", &fakeBackend{}, nil, nil, nil)
	assert.NotPanics(t, c.ShowWindow)
}
