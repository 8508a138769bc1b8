//go:build windows

package platform

import "unsafe"

// NativeHandles returns the window's HWND. The module handle is left zero
// for the HAL to resolve.
func (w *Window) NativeHandles() (display, window uintptr) {
	return 0, uintptr(unsafe.Pointer(w.glw.GetWin32Window()))
}
