// Command papercut opens a window and renders a flat shape, a textured
// sprite and a tessellated rectangle every frame.
//
// Settings come from a TOML file (see papercut.Config); flags override the
// file. The back-tick key toggles the frame statistics overlay and the
// arrow keys pan the camera.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/papercut"
	"github.com/gogpu/papercut/camera"
	"github.com/gogpu/papercut/gfx"
	"github.com/gogpu/papercut/internal/app"
	"github.com/gogpu/papercut/internal/platform"
	"github.com/gogpu/papercut/render"
	"github.com/gogpu/papercut/tess"
	"github.com/gogpu/papercut/texture"
	"github.com/gogpu/wgpu/hal"

	_ "github.com/gogpu/wgpu/hal/allbackends"
)

var backends = map[string]gputypes.Backend{
	"vulkan":   gputypes.BackendVulkan,
	"metal":    gputypes.BackendMetal,
	"dx12":     gputypes.BackendDX12,
	"gl":       gputypes.BackendGL,
	"software": gputypes.BackendEmpty,
}

func main() {
	var (
		configPath = flag.String("config", "papercut.toml", "config file")
		width      = flag.Int("width", 0, "window width (overrides config)")
		height     = flag.Int("height", 0, "window height (overrides config)")
		sprite     = flag.String("sprite", "", "sprite image (overrides config)")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error (overrides config)")
		watch      = flag.Bool("watch", false, "reload the config file when it changes")
		dumpConfig = flag.Bool("dump-config", false, "print the effective config and exit")
		backend    = flag.String("backend", "", "force a GPU backend: vulkan, metal, dx12, gl or software")
	)
	flag.Parse()

	cfg, err := papercut.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "papercut: %v\n", err)
		os.Exit(1)
	}
	if *width > 0 {
		cfg.Window.Width = *width
	}
	if *height > 0 {
		cfg.Window.Height = *height
	}
	if *sprite != "" {
		cfg.Assets.Sprite = *sprite
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "papercut: %v\n", err)
		os.Exit(1)
	}

	gfxOpts := []gfx.Option{gfx.WithPresentMode(cfg.Render.PresentMode)}
	if *backend != "" {
		b, ok := backends[*backend]
		if !ok {
			fmt.Fprintf(os.Stderr, "papercut: unknown backend %q\n", *backend)
			os.Exit(2)
		}
		gfxOpts = append(gfxOpts, gfx.WithBackend(b))
	}

	if *dumpConfig {
		data, err := cfg.Encode()
		if err != nil {
			fmt.Fprintf(os.Stderr, "papercut: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "papercut: %v\n", err)
		os.Exit(1)
	}
	papercut.SetLogger(logger)

	watchPath := ""
	if *watch {
		watchPath = *configPath
	}
	if err := run(cfg, watchPath, gfxOpts); err != nil {
		logger.Error("papercut exited", "err", err)
		os.Exit(1)
	}
}

func newLogger(level string) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		ReportCaller:    lvl == log.DebugLevel,
		TimeFormat:      time.TimeOnly,
		Prefix:          "papercut",
	})
	return slog.New(handler), nil
}

// run opens the window and GPU context and drives the frame loop. A
// non-empty watchPath enables config reloading.
func run(cfg papercut.Config, watchPath string, gfxOpts []gfx.Option) error {
	if err := platform.Init(); err != nil {
		return err
	}
	defer platform.Terminate()

	window, err := platform.NewWindow(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	defer window.Destroy()

	gc, err := gfx.Initialize(window, gfxOpts...)
	if err != nil {
		return err
	}
	defer gc.Close()

	r, err := render.New(gc.Device(), gc.Queue(), gc.Format(),
		render.WithClearColor(cfg.Render.ClearColor),
		render.WithBlend(cfg.Render.Blend),
	)
	if err != nil {
		return err
	}
	defer r.Close()

	mesh, err := sceneMesh(cfg.Geometry)
	if err != nil {
		return err
	}
	if err := r.SetGeometry(mesh); err != nil {
		return err
	}

	tex, err := loadSprite(gc.Device(), gc.Queue(), cfg.Assets.Sprite)
	if err != nil {
		return err
	}
	material, err := r.CreateMaterialBinding(tex)
	tex.Release()
	if err != nil {
		return err
	}
	defer material.Release()

	width, height := window.FramebufferSize()
	cam := camera.New(width, height)
	cam.LookAt(mgl32.Vec3{-200, -200, -1}, mgl32.Vec3{-200, -200, 0}, mgl32.Vec3{0, 1, 0})

	opts := []app.Option{
		app.WithOverlay(app.NewStatsOverlay(cfg.Window.Title, window.SetTitle)),
	}
	if watchPath != "" {
		cw, err := app.WatchConfig(watchPath)
		if err != nil {
			return err
		}
		defer cw.Close()
		opts = append(opts, app.WithConfigUpdates(cw.Updates()))
	}
	loop := app.New(window, gc, r, cam, material, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return loop.Run(ctx)
}

// sceneMesh tessellates the 500x500 rectangle drawn behind the sprite.
func sceneMesh(g papercut.GeometryConfig) (*tess.Mesh, error) {
	style := tess.DefaultStrokeStyle()
	style.Width = g.StrokeWidth

	p := tess.BuildPath().
		Rectangle(tess.NewRect(tess.Pt(0, 0), tess.Pt(500, 500)), tess.WindingNegative).
		Build()
	return tess.Tessellate(p, g.FillTolerance, g.StrokeTolerance, tess.WithStrokeStyle(style))
}

func loadSprite(device hal.Device, queue hal.Queue, path string) (*texture.Texture, error) {
	if path == "" {
		return texture.LoadFromImage(device, queue, texture.Checkerboard(8, 16), "checkerboard")
	}
	return texture.LoadFromFile(device, queue, path)
}
