package render

import (
	"fmt"

	"github.com/banshee-data/headcloud/internal/config"
)

// OptionsFromConfig builds renderer options, including the camera, from
// the display and camera settings.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	mode, ok := ParseCameraMode(cfg.GetCameraSmoothing())
	if !ok {
		return Options{}, fmt.Errorf("unknown camera_smoothing %q", cfg.GetCameraSmoothing())
	}
	cam := NewCamera()
	cam.Mode = mode
	cam.Distance = float32(cfg.GetCameraDistance())
	cam.VerticalOffset = float32(cfg.GetVerticalOffset())
	cam.PositionRate = float32(cfg.GetSmoothingPositionRate())
	cam.RotationRate = float32(cfg.GetSmoothingRotationRate())
	return Options{PointSize: float32(cfg.GetPointSize()), Camera: cam}, nil
}
