package x11

import (
	"fmt"
	"os"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"

	"github.com/chitchat/desktop/pkg/integrations/common"
	"github.com/chitchat/desktop/pkg/remote"
)

// MonitorProvider resolves the primary monitor through the X11 RandR extension
type MonitorProvider struct {
	display string
}

// NewMonitorProvider creates a provider for the given display; empty means $DISPLAY
func NewMonitorProvider(display string) *MonitorProvider {
	return &MonitorProvider{display: display}
}

// Name returns "x11"
func (p *MonitorProvider) Name() string {
	return common.DisplayServerX11
}

// IsAvailable checks if an X display is configured
func (p *MonitorProvider) IsAvailable() bool {
	return p.display != "" || os.Getenv("DISPLAY") != ""
}

// PrimaryMonitor returns the geometry of the RandR primary output.
// Without RandR or a primary output it falls back to the whole default screen.
func (p *MonitorProvider) PrimaryMonitor() (remote.Monitor, error) {
	conn, err := xgb.NewConnDisplay(p.display)
	if err != nil {
		return remote.Monitor{}, fmt.Errorf("failed to connect to X server: %w", err)
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)

	if m, ok := primaryOutput(conn, screen.Root); ok {
		return m, nil
	}

	if screen.WidthInPixels == 0 || screen.HeightInPixels == 0 {
		return remote.Monitor{}, remote.ErrNoPrimaryMonitor
	}

	return remote.Monitor{
		Width:  int(screen.WidthInPixels),
		Height: int(screen.HeightInPixels),
	}, nil
}

func primaryOutput(conn *xgb.Conn, root xproto.Window) (remote.Monitor, bool) {
	if err := randr.Init(conn); err != nil {
		return remote.Monitor{}, false
	}

	primary, err := randr.GetOutputPrimary(conn, root).Reply()
	if err != nil || primary.Output == 0 {
		return remote.Monitor{}, false
	}

	output, err := randr.GetOutputInfo(conn, primary.Output, xproto.TimeCurrentTime).Reply()
	if err != nil || output.Crtc == 0 {
		return remote.Monitor{}, false
	}

	crtc, err := randr.GetCrtcInfo(conn, output.Crtc, xproto.TimeCurrentTime).Reply()
	if err != nil || crtc.Width == 0 || crtc.Height == 0 {
		return remote.Monitor{}, false
	}

	return remote.Monitor{
		X:      int(crtc.X),
		Y:      int(crtc.Y),
		Width:  int(crtc.Width),
		Height: int(crtc.Height),
	}, true
}
