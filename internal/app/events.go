package app

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/papercut"
)

type eventKind uint8

const (
	eventResize eventKind = iota
	eventScale
	eventClose
	eventKey
)

type event struct {
	kind   eventKind
	width  int
	height int
	key    gpucontext.Key
}

func (l *Loop) push(e event) {
	l.events = append(l.events, e)
}

// drain handles queued events in arrival order.
func (l *Loop) drain() error {
	events := l.events
	l.events = nil
	for _, e := range events {
		if err := l.handle(e); err != nil {
			return err
		}
	}
	l.events = events[:0]
	return nil
}

func (l *Loop) handle(e event) error {
	switch e.kind {
	case eventResize:
		return l.resize(e.width, e.height)
	case eventScale:
		// The framebuffer size changes with the scale factor even when the
		// logical size does not.
		return l.resize(l.window.FramebufferSize())
	case eventClose:
		l.closing = true
	case eventKey:
		l.handleKey(e.key)
	}
	return nil
}

func (l *Loop) handleKey(k gpucontext.Key) {
	switch k {
	case gpucontext.KeyEscape:
		l.closing = true
	case gpucontext.KeyGrave:
		if l.overlay != nil {
			l.overlay.Toggle()
			papercut.Logger().Debug("app: overlay toggled", "visible", l.overlay.Visible())
		}
	case gpucontext.KeyLeft:
		l.camera.Pan(-PanStep, 0)
	case gpucontext.KeyRight:
		l.camera.Pan(PanStep, 0)
	case gpucontext.KeyUp:
		l.camera.Pan(0, PanStep)
	case gpucontext.KeyDown:
		l.camera.Pan(0, -PanStep)
	}
}
