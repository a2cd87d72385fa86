// Package config defines the globe viewer configuration and its loader.
package config

import (
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`
	// LogFile receives the logs; empty discards them.
	LogFile string `koanf:"log_file"`

	// DataSource is a file path or http(s) URL of the city document.
	DataSource string `koanf:"data_source"`
	// TexturePath is the equirectangular globe texture (PNG or JPEG).
	TexturePath string `koanf:"texture_path"`
	// MetricsAddr serves /metrics when set, e.g. ":9464".
	MetricsAddr string `koanf:"metrics_addr"`

	// FPS is the render loop rate.
	FPS int `koanf:"fps"`
	// FOVDegrees is the vertical field of view.
	FOVDegrees float64 `koanf:"fov_degrees"`
	// InitialDistance is the starting camera distance from the globe center.
	InitialDistance float64 `koanf:"initial_distance"`
	MinZoom         float64 `koanf:"min_zoom"`
	MaxZoom         float64 `koanf:"max_zoom"`
	// ZoomSmoothing is the per-frame fraction of the remaining zoom travel.
	ZoomSmoothing float64 `koanf:"zoom_smoothing"`
	// WheelScale converts wheel delta units to camera distance.
	WheelScale float64 `koanf:"wheel_scale"`
	// WheelNotch is the wheel delta of one notch (100 = one browser line).
	WheelNotch float64 `koanf:"wheel_notch"`
	// DragSensitivity is radians of rotation per pointer unit.
	DragSensitivity float64 `koanf:"drag_sensitivity"`
	// CellAspect is the height/width ratio of a terminal cell.
	CellAspect float64 `koanf:"cell_aspect"`
	// PickTolerance widens glyphs for picking, in radians of view angle.
	PickTolerance float64 `koanf:"pick_tolerance"`

	HighlightFactor float64 `koanf:"highlight_factor"`
	HighlightScale  float64 `koanf:"highlight_scale"`
	MarkerAltitude  float64 `koanf:"marker_altitude"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		LogFile:         "globeview.log",
		DataSource:      "assets/location.json",
		TexturePath:     "assets/img/texture.jpg",
		FPS:             30,
		FOVDegrees:      75,
		InitialDistance: 3,
		MinZoom:         1.5,
		MaxZoom:         8,
		ZoomSmoothing:   0.1,
		WheelScale:      0.01,
		WheelNotch:      100,
		DragSensitivity: 0.05,
		CellAspect:      2,
		PickTolerance:   0.012,
		HighlightFactor: 1.5,
		HighlightScale:  1.2,
		MarkerAltitude:  1.01,
	}
}

// FrameInterval is the delay between two render loop ticks.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// Validate checks ranges the globe depends on.
func (c *Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	switch {
	case c.FPS <= 0 || c.FPS > 240:
		return bad("fps must be in (0, 240], got %d", c.FPS)
	case c.FOVDegrees <= 0 || c.FOVDegrees >= 180:
		return bad("fov_degrees must be in (0, 180), got %v", c.FOVDegrees)
	case c.MinZoom <= 1:
		return bad("min_zoom must keep the camera outside the globe, got %v", c.MinZoom)
	case c.MaxZoom <= c.MinZoom:
		return bad("max_zoom (%v) must exceed min_zoom (%v)", c.MaxZoom, c.MinZoom)
	case c.ZoomSmoothing <= 0 || c.ZoomSmoothing > 1:
		return bad("zoom_smoothing must be in (0, 1], got %v", c.ZoomSmoothing)
	case c.WheelNotch <= 0:
		return bad("wheel_notch must be positive, got %v", c.WheelNotch)
	case c.CellAspect <= 0:
		return bad("cell_aspect must be positive, got %v", c.CellAspect)
	case c.PickTolerance < 0:
		return bad("pick_tolerance must not be negative, got %v", c.PickTolerance)
	case c.HighlightScale <= 0:
		return bad("highlight_scale must be positive, got %v", c.HighlightScale)
	case c.MarkerAltitude <= 1:
		return bad("marker_altitude must exceed the sphere radius, got %v", c.MarkerAltitude)
	}
	return nil
}
