//go:build !linux && !windows

package platform

// NativeHandles returns zero handles; surface creation is only wired for
// X11 and Win32.
func (w *Window) NativeHandles() (display, window uintptr) {
	return 0, 0
}
