package render

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/papercut"
)

type options struct {
	clear papercut.Color
	blend papercut.BlendMode
}

func defaultOptions() options {
	cfg := papercut.DefaultConfig()
	return options{
		clear: cfg.Render.ClearColor,
		blend: cfg.Render.Blend,
	}
}

// Option configures a Renderer.
type Option func(*options)

// WithClearColor sets the colour the pass clears to.
func WithClearColor(c papercut.Color) Option {
	return func(o *options) {
		o.clear = c
	}
}

// WithBlend sets the blend state shared by all pipelines.
func WithBlend(m papercut.BlendMode) Option {
	return func(o *options) {
		if m != "" {
			o.blend = m
		}
	}
}

func blendState(m papercut.BlendMode) gputypes.BlendState {
	switch m {
	case papercut.BlendAlpha:
		return gputypes.BlendStateAlpha()
	case papercut.BlendPremultiplied:
		return gputypes.BlendStatePremultiplied()
	default:
		return gputypes.BlendStateReplace()
	}
}
