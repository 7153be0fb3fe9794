// Package robotgo implements the native input surface on top of robotgo.
package robotgo

import (
	"fmt"

	"github.com/go-vgo/robotgo"

	"github.com/chitchat/desktop/pkg/remote"
)

// Injector sends synthesized input to the desktop session
type Injector struct{}

// NewInjector satisfies remote.InjectorFactory
func NewInjector() (remote.Injector, error) {
	return &Injector{}, nil
}

// MoveMouse never fails: robotgo.Move reports no error, so a move the
// platform drops is indistinguishable from a successful one.
func (i *Injector) MoveMouse(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

func (i *Injector) Button(button remote.Button, dir remote.Direction) error {
	name, ok := buttonNames[button]
	if !ok {
		return fmt.Errorf("unsupported mouse button: %s", button)
	}
	return robotgo.Toggle(name, dir.String())
}

func (i *Injector) Scroll(steps int) error {
	switch {
	case steps > 0:
		robotgo.ScrollDir(steps, "down")
	case steps < 0:
		robotgo.ScrollDir(-steps, "up")
	}
	return nil
}

func (i *Injector) Key(key remote.Key, dir remote.Direction) error {
	if key.Code == remote.KeyUnicode {
		if key.Char < 0x80 {
			return robotgo.KeyToggle(string(key.Char), dir.String())
		}
		// Non-ASCII characters have no key to hold down; type them once on press.
		if dir == remote.Press {
			robotgo.UnicodeType(uint32(key.Char))
		}
		return nil
	}

	name, ok := keyNames[key.Code]
	if !ok {
		return fmt.Errorf("unsupported key code: %d", key.Code)
	}
	return robotgo.KeyToggle(name, dir.String())
}

var buttonNames = map[remote.Button]string{
	remote.ButtonLeft:   "left",
	remote.ButtonRight:  "right",
	remote.ButtonMiddle: "center",
}

var keyNames = map[remote.KeyCode]string{
	remote.KeyReturn:     "enter",
	remote.KeyEscape:     "esc",
	remote.KeyBackspace:  "backspace",
	remote.KeyTab:        "tab",
	remote.KeySpace:      "space",
	remote.KeyUpArrow:    "up",
	remote.KeyDownArrow:  "down",
	remote.KeyLeftArrow:  "left",
	remote.KeyRightArrow: "right",
}
