// Package platform wraps a GLFW window for the frame loop: it creates a
// window without a client API for the GPU surface, exposes the native
// handles the surface needs, and translates GLFW callbacks into
// gpucontext events.
//
// GLFW must be driven from the main OS thread; the package locks it in
// init.
package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gpucontext"
)

func init() {
	// GLFW event handling must run on the main OS thread.
	runtime.LockOSThread()
}

// Init initializes GLFW. Call Terminate when done.
func Init() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("platform: init glfw: %w", err)
	}
	return nil
}

// Terminate releases GLFW.
func Terminate() {
	glfw.Terminate()
}

// Window is a GLFW window. Callbacks registered through the On* methods
// run synchronously inside PollEvents.
type Window struct {
	glw *glfw.Window

	keyPress     func(gpucontext.Key, gpucontext.Modifiers)
	keyRelease   func(gpucontext.Key, gpucontext.Modifiers)
	textInput    func(string)
	mouseMove    func(x, y float64)
	mousePress   func(gpucontext.MouseButton, float64, float64)
	mouseRelease func(gpucontext.MouseButton, float64, float64)
	scroll       func(dx, dy float64)
	resize       func(width, height int)
	focus        func(bool)
	imeStart     func()
	imeUpdate    func(gpucontext.IMEState)
	imeEnd       func(string)
	closeReq     func()
	scale        func(x, y float32)
}

// NewWindow opens a resizable window of the given logical size.
func NewWindow(title string, width, height int) (*Window, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)

	glw, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("platform: create window: %w", err)
	}

	w := &Window{glw: glw}
	glw.SetKeyCallback(w.onKey)
	glw.SetCharCallback(w.onChar)
	glw.SetCursorPosCallback(w.onCursorPos)
	glw.SetMouseButtonCallback(w.onMouseButton)
	glw.SetScrollCallback(w.onScroll)
	glw.SetFramebufferSizeCallback(w.onFramebufferSize)
	glw.SetFocusCallback(w.onFocus)
	glw.SetCloseCallback(w.onClose)
	glw.SetContentScaleCallback(w.onContentScale)
	return w, nil
}

// FramebufferSize returns the drawable size in physical pixels.
func (w *Window) FramebufferSize() (width, height int) {
	return w.glw.GetFramebufferSize()
}

// ContentScale returns the ratio between physical and logical pixels.
func (w *Window) ContentScale() (x, y float32) {
	return w.glw.GetContentScale()
}

// PollEvents processes pending events and runs the registered callbacks.
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// SetTitle changes the window title.
func (w *Window) SetTitle(title string) {
	w.glw.SetTitle(title)
}

// ShouldClose reports whether the user asked to close the window.
func (w *Window) ShouldClose() bool {
	return w.glw.ShouldClose()
}

// Destroy closes the window.
func (w *Window) Destroy() {
	if w.glw != nil {
		w.glw.Destroy()
		w.glw = nil
	}
}

// OnClose registers a callback for close requests.
func (w *Window) OnClose(fn func()) { w.closeReq = fn }

// OnContentScale registers a callback for scale-factor changes, such as
// moving the window to another monitor.
func (w *Window) OnContentScale(fn func(x, y float32)) { w.scale = fn }

// gpucontext.EventSource.

func (w *Window) OnKeyPress(fn func(gpucontext.Key, gpucontext.Modifiers))   { w.keyPress = fn }
func (w *Window) OnKeyRelease(fn func(gpucontext.Key, gpucontext.Modifiers)) { w.keyRelease = fn }
func (w *Window) OnTextInput(fn func(string))                                { w.textInput = fn }
func (w *Window) OnMouseMove(fn func(x, y float64))                          { w.mouseMove = fn }
func (w *Window) OnMousePress(fn func(gpucontext.MouseButton, float64, float64)) {
	w.mousePress = fn
}
func (w *Window) OnMouseRelease(fn func(gpucontext.MouseButton, float64, float64)) {
	w.mouseRelease = fn
}
func (w *Window) OnScroll(fn func(dx, dy float64))                      { w.scroll = fn }
func (w *Window) OnResize(fn func(width, height int))                   { w.resize = fn }
func (w *Window) OnFocus(fn func(bool))                                 { w.focus = fn }
func (w *Window) OnIMECompositionStart(fn func())                       { w.imeStart = fn }
func (w *Window) OnIMECompositionUpdate(fn func(gpucontext.IMEState))   { w.imeUpdate = fn }
func (w *Window) OnIMECompositionEnd(fn func(committed string))         { w.imeEnd = fn }

var _ gpucontext.EventSource = (*Window)(nil)

func (w *Window) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
	k, m := translateKey(key), translateMods(mods)
	switch action {
	case glfw.Press, glfw.Repeat:
		if w.keyPress != nil {
			w.keyPress(k, m)
		}
	case glfw.Release:
		if w.keyRelease != nil {
			w.keyRelease(k, m)
		}
	}
}

func (w *Window) onChar(_ *glfw.Window, r rune) {
	if w.textInput != nil {
		w.textInput(string(r))
	}
}

func (w *Window) onCursorPos(_ *glfw.Window, x, y float64) {
	if w.mouseMove != nil {
		w.mouseMove(x, y)
	}
}

func (w *Window) onMouseButton(glw *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	x, y := glw.GetCursorPos()
	b := translateButton(button)
	switch action {
	case glfw.Press:
		if w.mousePress != nil {
			w.mousePress(b, x, y)
		}
	case glfw.Release:
		if w.mouseRelease != nil {
			w.mouseRelease(b, x, y)
		}
	}
}

func (w *Window) onScroll(_ *glfw.Window, dx, dy float64) {
	if w.scroll != nil {
		w.scroll(dx, dy)
	}
}

func (w *Window) onFramebufferSize(_ *glfw.Window, width, height int) {
	if w.resize != nil {
		w.resize(width, height)
	}
}

func (w *Window) onFocus(_ *glfw.Window, focused bool) {
	if w.focus != nil {
		w.focus(focused)
	}
}

func (w *Window) onClose(_ *glfw.Window) {
	if w.closeReq != nil {
		w.closeReq()
	}
}

func (w *Window) onContentScale(_ *glfw.Window, x, y float32) {
	if w.scale != nil {
		w.scale(x, y)
	}
}
