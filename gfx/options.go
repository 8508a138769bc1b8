package gfx

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/papercut"
)

type options struct {
	backend     gputypes.Backend
	forced      bool
	presentMode papercut.PresentMode
}

func defaultOptions() options {
	return options{presentMode: papercut.PresentFifo}
}

// preferred is the search order used when no backend is forced.
var preferred = []gputypes.Backend{
	gputypes.BackendVulkan,
	gputypes.BackendMetal,
	gputypes.BackendDX12,
	gputypes.BackendGL,
}

// Option configures Initialize and New.
type Option func(*options)

// WithBackend forces a HAL backend. By default the first registered
// hardware backend is used, in the order Vulkan, Metal, DX12, GL.
func WithBackend(b gputypes.Backend) Option {
	return func(o *options) {
		o.backend = b
		o.forced = true
	}
}

// WithPresentMode requests a presentation mode. Unsupported modes fall
// back to FIFO.
func WithPresentMode(m papercut.PresentMode) Option {
	return func(o *options) {
		if m != "" {
			o.presentMode = m
		}
	}
}

// halPresentMode converts the configured mode to its HAL value.
func halPresentMode(m papercut.PresentMode) gputypes.PresentMode {
	switch m {
	case papercut.PresentMailbox:
		return gputypes.PresentModeMailbox
	case papercut.PresentImmediate:
		return gputypes.PresentModeImmediate
	default:
		return gputypes.PresentModeFifo
	}
}
