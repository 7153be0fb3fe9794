package remote

import "unicode/utf8"

// Button is a native mouse button
type Button int

const (
	ButtonLeft Button = iota + 1
	ButtonRight
	ButtonMiddle
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

// ButtonFromName maps a UI button name; unrecognized names report false
func ButtonFromName(name string) (Button, bool) {
	switch name {
	case "left":
		return ButtonLeft, true
	case "right":
		return ButtonRight, true
	case "middle":
		return ButtonMiddle, true
	default:
		return 0, false
	}
}

// Direction of a button or key transition
type Direction int

const (
	Press Direction = iota
	Release
)

func (d Direction) String() string {
	if d == Release {
		return "up"
	}
	return "down"
}

// KeyCode identifies a named key. KeyUnicode means Key.Char carries the character.
type KeyCode int

const (
	KeyUnicode KeyCode = iota
	KeyReturn
	KeyEscape
	KeyBackspace
	KeyTab
	KeySpace
	KeyUpArrow
	KeyDownArrow
	KeyLeftArrow
	KeyRightArrow
)

// Key is a native key to press or release
type Key struct {
	Code KeyCode
	Char rune
}

// UnicodeKey returns a Key sending the literal character r
func UnicodeKey(r rune) Key {
	return Key{Code: KeyUnicode, Char: r}
}

var namedKeys = map[string]KeyCode{
	"Enter":      KeyReturn,
	"Escape":     KeyEscape,
	"Backspace":  KeyBackspace,
	"Tab":        KeyTab,
	"Space":      KeySpace,
	" ":          KeySpace,
	"ArrowUp":    KeyUpArrow,
	"ArrowDown":  KeyDownArrow,
	"ArrowLeft":  KeyLeftArrow,
	"ArrowRight": KeyRightArrow,
}

// KeyFromName maps a DOM key name. Single characters are sent literally,
// anything else unrecognized falls back to a space.
func KeyFromName(name string) Key {
	if code, ok := namedKeys[name]; ok {
		return Key{Code: code}
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return UnicodeKey(r)
	}
	return UnicodeKey(' ')
}
