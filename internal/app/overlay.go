package app

import (
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// Overlay is drawn after the scene pass, into the same encoder and target.
type Overlay interface {
	Toggle()
	Visible() bool
	Resize(width, height int)
	Render(provider gpucontext.DeviceProvider, encoder hal.CommandEncoder, target hal.TextureView) error
}

// StatsOverlay reports frame rate, surface size and adapter in the window
// title once per second while visible.
type StatsOverlay struct {
	setTitle func(string)
	title    string
	now      func() time.Time

	visible bool
	width   int
	height  int
	frames  int
	since   time.Time
}

// NewStatsOverlay returns a hidden overlay that writes through setTitle.
// title is restored when the overlay is hidden.
func NewStatsOverlay(title string, setTitle func(string)) *StatsOverlay {
	return &StatsOverlay{setTitle: setTitle, title: title, now: time.Now}
}

// Toggle shows or hides the overlay.
func (o *StatsOverlay) Toggle() {
	o.visible = !o.visible
	o.frames = 0
	o.since = o.now()
	if !o.visible {
		o.setTitle(o.title)
	}
}

// Visible reports whether the overlay is shown.
func (o *StatsOverlay) Visible() bool { return o.visible }

// Resize records the surface size.
func (o *StatsOverlay) Resize(width, height int) {
	o.width, o.height = width, height
}

// Render counts a frame and refreshes the title when a second has passed.
func (o *StatsOverlay) Render(provider gpucontext.DeviceProvider, _ hal.CommandEncoder, _ hal.TextureView) error {
	o.frames++
	elapsed := o.now().Sub(o.since)
	if elapsed < time.Second {
		return nil
	}
	fps := float64(o.frames) / elapsed.Seconds()
	o.setTitle(fmt.Sprintf("%s | %.0f fps | %dx%d | %s",
		o.title, fps, o.width, o.height, provider.AdapterInfo().Name))
	o.frames = 0
	o.since = o.now()
	return nil
}
