package remote

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNoPrimaryMonitor is returned for pointer moves when no display can be resolved
var ErrNoPrimaryMonitor = errors.New("No primary monitor available")

// Injector is the native input surface
type Injector interface {
	MoveMouse(x, y int) error
	Button(button Button, dir Direction) error
	Scroll(steps int) error
	Key(key Key, dir Direction) error
}

// InjectorFactory creates the native injector used for one event
type InjectorFactory func() (Injector, error)

// MonitorProvider resolves the primary display geometry.
// Implementations return ErrNoPrimaryMonitor when there is none.
type MonitorProvider interface {
	PrimaryMonitor() (Monitor, error)
}

// MonitorProviderFunc adapts a function to the MonitorProvider interface
type MonitorProviderFunc func() (Monitor, error)

func (f MonitorProviderFunc) PrimaryMonitor() (Monitor, error) {
	return f()
}

// Dispatcher applies remote-control events through a native injector.
// Each call is synchronous and independent of the others.
type Dispatcher struct {
	newInjector InjectorFactory
	monitors    MonitorProvider
	logger      *zap.Logger
}

func NewDispatcher(newInjector InjectorFactory, monitors MonitorProvider, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		newInjector: newInjector,
		monitors:    monitors,
		logger:      logger,
	}
}

// Apply performs exactly one native action for ev.
// Native errors are returned unchanged so their text can be shown to the user.
func (d *Dispatcher) Apply(ev Event) error {
	if d.newInjector == nil {
		return errors.New("input injection is not available")
	}

	injector, err := d.newInjector()
	if err != nil {
		return err
	}

	switch ev.Type {
	case PointerMove:
		return d.move(injector, ev.XNorm, ev.YNorm)

	case PointerDown, PointerUp:
		button, ok := ButtonFromName(ev.Button)
		if !ok {
			d.logger.Debug("ignoring unknown mouse button", zap.String("button", ev.Button))
			return nil
		}
		return injector.Button(button, directionOf(ev.Type))

	case Wheel:
		steps := WheelSteps(ev.DeltaY)
		if steps == 0 {
			return nil
		}
		return injector.Scroll(steps)

	case KeyDown, KeyUp:
		return injector.Key(KeyFromName(ev.Key), directionOf(ev.Type))

	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
}

func (d *Dispatcher) move(injector Injector, xNorm, yNorm float64) error {
	if d.monitors == nil {
		return ErrNoPrimaryMonitor
	}

	monitor, err := d.monitors.PrimaryMonitor()
	if err != nil {
		return err
	}

	x, y := monitor.ToAbsolute(xNorm, yNorm)
	return injector.MoveMouse(x, y)
}

func directionOf(t EventType) Direction {
	switch t {
	case PointerUp, KeyUp:
		return Release
	default:
		return Press
	}
}
