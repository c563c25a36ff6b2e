package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagScene      = flag.String("scene", "", "Scene file to open (.json, .gltf, .glb)")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagOrtho      = flag.Bool("ortho", false, "Use an orthographic projection")
	flagWatch      = flag.Bool("watch", false, "Reload the scene when it changes on disk")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
	if *flagScene == "" && flag.NArg() > 0 {
		*flagScene = flag.Arg(0)
	}
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScene != "" {
		cfg.Scene.Path = *flagScene
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagOrtho {
		cfg.Camera.Orthographic = true
	}
	if *flagWatch {
		cfg.Scene.Watch = true
	}
}
