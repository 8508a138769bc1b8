package papercut

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is wrapped by every Config.Validate failure.
var ErrInvalidConfig = errors.New("papercut: invalid config")

// BlendMode selects the colour blend state shared by all pipelines.
type BlendMode string

// Blend modes.
const (
	BlendReplace       BlendMode = "replace"
	BlendAlpha         BlendMode = "alpha"
	BlendPremultiplied BlendMode = "premultiplied"
)

// PresentMode selects how frames are queued for display.
type PresentMode string

// Present modes. Fifo waits for vertical sync and is always supported.
const (
	PresentFifo      PresentMode = "fifo"
	PresentMailbox   PresentMode = "mailbox"
	PresentImmediate PresentMode = "immediate"
)

// Config holds everything the binary reads from papercut.toml.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Render   RenderConfig   `toml:"render"`
	Geometry GeometryConfig `toml:"geometry"`
	Assets   AssetsConfig   `toml:"assets"`
	LogLevel string         `toml:"log_level"`
}

// WindowConfig describes the initial window.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// RenderConfig configures the renderer and surface.
type RenderConfig struct {
	ClearColor  Color       `toml:"clear_color"`
	Blend       BlendMode   `toml:"blend"`
	PresentMode PresentMode `toml:"present_mode"`
}

// GeometryConfig configures tessellation of the vector scene.
type GeometryConfig struct {
	FillTolerance   float64 `toml:"fill_tolerance"`
	StrokeTolerance float64 `toml:"stroke_tolerance"`
	StrokeWidth     float64 `toml:"stroke_width"`
}

// AssetsConfig locates startup assets. An empty Sprite path selects the
// built-in checkerboard.
type AssetsConfig struct {
	Sprite string `toml:"sprite"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Papercut",
			Width:  1024,
			Height: 576,
		},
		Render: RenderConfig{
			ClearColor:  RGB(0.1, 0.2, 0.3),
			Blend:       BlendAlpha,
			PresentMode: PresentFifo,
		},
		Geometry: GeometryConfig{
			FillTolerance:   0.02,
			StrokeTolerance: 0.02,
			StrokeWidth:     2.0,
		},
		LogLevel: "info",
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig. A missing file is
// not an error: the defaults are returned unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Encode renders the configuration as TOML.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Geometry.FillTolerance <= 0:
		return fmt.Errorf("%w: fill_tolerance %v", ErrInvalidConfig, c.Geometry.FillTolerance)
	case c.Geometry.StrokeTolerance <= 0:
		return fmt.Errorf("%w: stroke_tolerance %v", ErrInvalidConfig, c.Geometry.StrokeTolerance)
	case c.Geometry.StrokeWidth <= 0:
		return fmt.Errorf("%w: stroke_width %v", ErrInvalidConfig, c.Geometry.StrokeWidth)
	}

	switch c.Render.Blend {
	case BlendReplace, BlendAlpha, BlendPremultiplied:
	default:
		return fmt.Errorf("%w: blend %q", ErrInvalidConfig, c.Render.Blend)
	}

	switch c.Render.PresentMode {
	case PresentFifo, PresentMailbox, PresentImmediate:
	default:
		return fmt.Errorf("%w: present_mode %q", ErrInvalidConfig, c.Render.PresentMode)
	}
	return nil
}
