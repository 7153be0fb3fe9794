package window

// State is the observable state of the main window
type State int

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

// Controller is the interface the main window implementation must satisfy.
// Closing the window only hides it; the application keeps running in the tray.
type Controller interface {
	// Show makes the window visible and gives it focus
	Show()

	// Hide removes the window from the screen without exiting
	Hide()

	// State reports whether the window is currently shown
	State() State
}

// Toggle shows a hidden window and hides a visible one
func Toggle(c Controller) {
	if c.State() == Visible {
		c.Hide()
		return
	}
	c.Show()
}
