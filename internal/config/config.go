// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// CameraConfig holds projection and initial orbit settings. Angles are in
// degrees.
type CameraConfig struct {
	FieldOfView      float32 `yaml:"field_of_view"`
	Near             float32 `yaml:"near"`
	Far              float32 `yaml:"far"`
	Orthographic     bool    `yaml:"orthographic"`
	OrthographicSize float32 `yaml:"orthographic_size"`
	Distance         float32 `yaml:"distance"`
	Pitch            float32 `yaml:"pitch"`
	Yaw              float32 `yaml:"yaw"`
}

// SceneConfig selects the scene file to view.
type SceneConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"` // Reload when the file changes on disk
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "sheep3d",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			FieldOfView:      45,
			Near:             0.1,
			Far:              1000,
			Orthographic:     false,
			OrthographicSize: 5,
			Distance:         5,
			Pitch:            20,
			Yaw:              30,
		},
		Scene: SceneConfig{
			Path:  "",
			Watch: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
