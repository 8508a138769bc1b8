package papercut

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.Window.Width != 1024 || cfg.Window.Height != 576 {
		t.Errorf("window = %dx%d, want 1024x576", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Title != "Papercut" {
		t.Errorf("title = %q, want Papercut", cfg.Window.Title)
	}
	if cfg.Render.PresentMode != PresentFifo {
		t.Errorf("present mode = %q, want fifo", cfg.Render.PresentMode)
	}
	if cfg.Geometry.FillTolerance != 0.02 || cfg.Geometry.StrokeTolerance != 0.02 {
		t.Errorf("tolerances = %v/%v, want 0.02", cfg.Geometry.FillTolerance, cfg.Geometry.StrokeTolerance)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig(missing) = %+v, want defaults", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papercut.toml")
	data := `
log_level = "debug"

[window]
width = 800
height = 600

[render]
clear_color = "#333333"
blend = "premultiplied"

[geometry]
stroke_width = 4.0

[assets]
sprite = "assets/banana.png"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("window = %dx%d, want 800x600", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Title != "Papercut" {
		t.Errorf("title = %q, want default to survive", cfg.Window.Title)
	}
	if got := cfg.Render.ClearColor.Hex(); got != "#333333ff" {
		t.Errorf("clear color = %s, want #333333ff", got)
	}
	if cfg.Render.Blend != BlendPremultiplied {
		t.Errorf("blend = %q, want premultiplied", cfg.Render.Blend)
	}
	if cfg.Geometry.StrokeWidth != 4 {
		t.Errorf("stroke width = %v, want 4", cfg.Geometry.StrokeWidth)
	}
	if cfg.Geometry.FillTolerance != 0.02 {
		t.Errorf("fill tolerance = %v, want default 0.02", cfg.Geometry.FillTolerance)
	}
	if cfg.Assets.Sprite != "assets/banana.png" {
		t.Errorf("sprite = %q", cfg.Assets.Sprite)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"zero width", "[window]\nwidth = 0\n"},
		{"negative tolerance", "[geometry]\nfill_tolerance = -1.0\n"},
		{"unknown blend", "[render]\nblend = \"multiply\"\n"},
		{"unknown present mode", "[render]\npresent_mode = \"vsync\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("LoadConfig() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadConfigBadColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[render]\nclear_color = \"#xyz\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() with a malformed clear_color should fail")
	}
}

func TestConfigEncodeRoundTrip(t *testing.T) {
	want := DefaultConfig()
	want.Render.ClearColor = MustHex("#336699")

	data, err := want.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.toml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if got.Render.ClearColor.Hex() != "#336699ff" {
		t.Errorf("clear color = %s", got.Render.ClearColor.Hex())
	}
	if got.Window != want.Window || got.Geometry != want.Geometry {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}
