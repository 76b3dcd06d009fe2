// Package config loads the viewer's JSON configuration. Every field is
// optional; the Get* methods supply defaults for omitted values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Config is the root configuration document.
type Config struct {
	// Extraction
	HeadRadius            *float64 `json:"head_radius,omitempty"` // metres
	InitialCapacity       *int     `json:"initial_capacity,omitempty"`
	NormalizeFaceRotation *bool    `json:"normalize_face_rotation,omitempty"`
	LogDroppedPublishes   *bool    `json:"log_dropped_publishes,omitempty"`

	// Camera
	CameraSmoothing       *string  `json:"camera_smoothing,omitempty"` // "snap" or "smoothed"
	CameraDistance        *float64 `json:"camera_distance,omitempty"`  // metres
	VerticalOffset        *float64 `json:"vertical_offset,omitempty"`  // metres along the view up vector
	SmoothingPositionRate *float64 `json:"smoothing_position_rate,omitempty"`
	SmoothingRotationRate *float64 `json:"smoothing_rotation_rate,omitempty"`

	// Display
	PointSize    *float64 `json:"point_size,omitempty"` // pixels
	WindowWidth  *int     `json:"window_width,omitempty"`
	WindowHeight *int     `json:"window_height,omitempty"`

	// Synthetic source
	SyntheticFPS *float64 `json:"synthetic_fps,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// Default returns a Config with every field set to its default.
func Default() *Config {
	return &Config{
		HeadRadius:            ptrFloat64(0.3),
		InitialCapacity:       ptrInt(4096),
		NormalizeFaceRotation: ptrBool(false),
		LogDroppedPublishes:   ptrBool(false),
		CameraSmoothing:       ptrString("snap"),
		CameraDistance:        ptrFloat64(0.5),
		VerticalOffset:        ptrFloat64(-0.1),
		SmoothingPositionRate: ptrFloat64(8),
		SmoothingRotationRate: ptrFloat64(8),
		PointSize:             ptrFloat64(3),
		WindowWidth:           ptrInt(1280),
		WindowHeight:          ptrInt(720),
		SyntheticFPS:          ptrFloat64(30),
	}
}

// Load reads a Config from a JSON file. The path must have a .json
// extension and the file must be under 1MB. Omitted fields stay nil.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that are set.
func (c *Config) Validate() error {
	if c.HeadRadius != nil && *c.HeadRadius <= 0 {
		return fmt.Errorf("head_radius must be positive, got %f", *c.HeadRadius)
	}
	if c.InitialCapacity != nil && *c.InitialCapacity < 0 {
		return fmt.Errorf("initial_capacity must be non-negative, got %d", *c.InitialCapacity)
	}
	if c.CameraSmoothing != nil {
		switch *c.CameraSmoothing {
		case "", "snap", "smoothed":
		default:
			return fmt.Errorf("camera_smoothing must be \"snap\" or \"smoothed\", got %q", *c.CameraSmoothing)
		}
	}
	if c.CameraDistance != nil && *c.CameraDistance <= 0 {
		return fmt.Errorf("camera_distance must be positive, got %f", *c.CameraDistance)
	}
	if c.PointSize != nil && *c.PointSize <= 0 {
		return fmt.Errorf("point_size must be positive, got %f", *c.PointSize)
	}
	if c.SmoothingPositionRate != nil && *c.SmoothingPositionRate < 0 {
		return fmt.Errorf("smoothing_position_rate must be non-negative, got %f", *c.SmoothingPositionRate)
	}
	if c.SmoothingRotationRate != nil && *c.SmoothingRotationRate < 0 {
		return fmt.Errorf("smoothing_rotation_rate must be non-negative, got %f", *c.SmoothingRotationRate)
	}
	if c.WindowWidth != nil && *c.WindowWidth <= 0 {
		return fmt.Errorf("window_width must be positive, got %d", *c.WindowWidth)
	}
	if c.WindowHeight != nil && *c.WindowHeight <= 0 {
		return fmt.Errorf("window_height must be positive, got %d", *c.WindowHeight)
	}
	if c.SyntheticFPS != nil && *c.SyntheticFPS < 0 {
		return fmt.Errorf("synthetic_fps must be non-negative, got %f", *c.SyntheticFPS)
	}
	return nil
}

// GetHeadRadius returns the head_radius value or the default.
func (c *Config) GetHeadRadius() float64 {
	if c.HeadRadius == nil {
		return 0.3
	}
	return *c.HeadRadius
}

// GetInitialCapacity returns the initial_capacity value or the default.
func (c *Config) GetInitialCapacity() int {
	if c.InitialCapacity == nil {
		return 4096
	}
	return *c.InitialCapacity
}

// GetNormalizeFaceRotation returns the normalize_face_rotation value or the default.
func (c *Config) GetNormalizeFaceRotation() bool {
	if c.NormalizeFaceRotation == nil {
		return false // default: trust the tracker
	}
	return *c.NormalizeFaceRotation
}

// GetLogDroppedPublishes returns the log_dropped_publishes value or the default.
func (c *Config) GetLogDroppedPublishes() bool {
	if c.LogDroppedPublishes == nil {
		return false
	}
	return *c.LogDroppedPublishes
}

// GetCameraSmoothing returns the camera_smoothing value or the default.
func (c *Config) GetCameraSmoothing() string {
	if c.CameraSmoothing == nil || *c.CameraSmoothing == "" {
		return "snap"
	}
	return *c.CameraSmoothing
}

// GetCameraDistance returns the camera_distance value or the default.
func (c *Config) GetCameraDistance() float64 {
	if c.CameraDistance == nil {
		return 0.5
	}
	return *c.CameraDistance
}

// GetVerticalOffset returns the vertical_offset value or the default.
func (c *Config) GetVerticalOffset() float64 {
	if c.VerticalOffset == nil {
		return -0.1
	}
	return *c.VerticalOffset
}

// GetSmoothingPositionRate returns the smoothing_position_rate value or the default.
func (c *Config) GetSmoothingPositionRate() float64 {
	if c.SmoothingPositionRate == nil {
		return 8
	}
	return *c.SmoothingPositionRate
}

// GetSmoothingRotationRate returns the smoothing_rotation_rate value or the default.
func (c *Config) GetSmoothingRotationRate() float64 {
	if c.SmoothingRotationRate == nil {
		return 8
	}
	return *c.SmoothingRotationRate
}

// GetPointSize returns the point_size value or the default.
func (c *Config) GetPointSize() float64 {
	if c.PointSize == nil {
		return 3
	}
	return *c.PointSize
}

// GetWindowWidth returns the window_width value or the default.
func (c *Config) GetWindowWidth() int {
	if c.WindowWidth == nil {
		return 1280
	}
	return *c.WindowWidth
}

// GetWindowHeight returns the window_height value or the default.
func (c *Config) GetWindowHeight() int {
	if c.WindowHeight == nil {
		return 720
	}
	return *c.WindowHeight
}

// GetSyntheticFPS returns the synthetic_fps value or the default.
func (c *Config) GetSyntheticFPS() float64 {
	if c.SyntheticFPS == nil {
		return 30
	}
	return *c.SyntheticFPS
}
