package gfx

import (
	"errors"

	"github.com/gogpu/wgpu/hal"
)

// Errors returned by Context. Lost, Outdated and Timeout are recoverable:
// the frame is skipped and, for the first two, the surface is reconfigured
// with the last known size. OutOfMemory and NoAdapter end the process.
var (
	ErrNoAdapter       = errors.New("gfx: no adapter compatible with the surface")
	ErrSurfaceLost     = errors.New("gfx: surface lost")
	ErrSurfaceOutdated = errors.New("gfx: surface outdated")
	ErrOutOfMemory     = errors.New("gfx: out of memory")
	ErrTimeout         = errors.New("gfx: timed out acquiring frame")
	ErrNotConfigured   = errors.New("gfx: surface not configured")
)

// Fatal reports whether err should terminate the frame loop.
func Fatal(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrSurfaceLost),
		errors.Is(err, ErrSurfaceOutdated),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrNotConfigured):
		return false
	default:
		return true
	}
}

// Recoverable reports whether err is cured by reconfiguring the surface.
func Recoverable(err error) bool {
	return errors.Is(err, ErrSurfaceLost) || errors.Is(err, ErrSurfaceOutdated)
}

// translate maps HAL surface errors onto the gfx taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, hal.ErrSurfaceLost):
		return ErrSurfaceLost
	case errors.Is(err, hal.ErrSurfaceOutdated):
		return ErrSurfaceOutdated
	case errors.Is(err, hal.ErrTimeout), errors.Is(err, hal.ErrNotReady):
		return ErrTimeout
	case errors.Is(err, hal.ErrDeviceOutOfMemory):
		return ErrOutOfMemory
	default:
		return err
	}
}
