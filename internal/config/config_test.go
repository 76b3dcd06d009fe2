package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/headcloud/internal/extract"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault_MatchesGetters(t *testing.T) {
	def := Default()
	empty := &Config{}

	assert.Equal(t, *def.HeadRadius, empty.GetHeadRadius())
	assert.Equal(t, *def.InitialCapacity, empty.GetInitialCapacity())
	assert.Equal(t, *def.NormalizeFaceRotation, empty.GetNormalizeFaceRotation())
	assert.Equal(t, *def.LogDroppedPublishes, empty.GetLogDroppedPublishes())
	assert.Equal(t, *def.CameraSmoothing, empty.GetCameraSmoothing())
	assert.Equal(t, *def.CameraDistance, empty.GetCameraDistance())
	assert.Equal(t, *def.VerticalOffset, empty.GetVerticalOffset())
	assert.Equal(t, *def.SmoothingPositionRate, empty.GetSmoothingPositionRate())
	assert.Equal(t, *def.SmoothingRotationRate, empty.GetSmoothingRotationRate())
	assert.Equal(t, *def.PointSize, empty.GetPointSize())
	assert.Equal(t, *def.WindowWidth, empty.GetWindowWidth())
	assert.Equal(t, *def.WindowHeight, empty.GetWindowHeight())
	assert.Equal(t, *def.SyntheticFPS, empty.GetSyntheticFPS())
	assert.NoError(t, def.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "headcloud.json", `{
  "head_radius": 0.25,
  "camera_smoothing": "smoothed",
  "log_dropped_publishes": true,
  "window_width": 640
}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.GetHeadRadius())
	assert.Equal(t, "smoothed", cfg.GetCameraSmoothing())
	assert.True(t, cfg.GetLogDroppedPublishes())
	assert.Equal(t, 640, cfg.GetWindowWidth())
	assert.Nil(t, cfg.PointSize, "omitted fields stay nil")
	assert.Equal(t, 3.0, cfg.GetPointSize())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{"wrong extension", func(t *testing.T) string { return writeConfig(t, "cfg.yaml", "{}") }, ".json extension"},
		{"missing", func(t *testing.T) string { return "/nonexistent/headcloud.json" }, "failed to stat"},
		{"bad json", func(t *testing.T) string { return writeConfig(t, "cfg.json", `{"head_radius": "wide"`) }, "failed to parse"},
		{"invalid value", func(t *testing.T) string { return writeConfig(t, "cfg.json", `{"head_radius": -1}`) }, "invalid configuration"},
		{"too large", func(t *testing.T) string {
			return writeConfig(t, "cfg.json", `{"x":"`+strings.Repeat("a", maxFileSize)+`"}`)
		}, "too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"empty", Config{}, true},
		{"zero capacity", Config{InitialCapacity: ptrInt(0)}, true},
		{"negative capacity", Config{InitialCapacity: ptrInt(-1)}, false},
		{"zero radius", Config{HeadRadius: ptrFloat64(0)}, false},
		{"unknown smoothing", Config{CameraSmoothing: ptrString("orbit")}, false},
		{"zero distance", Config{CameraDistance: ptrFloat64(0)}, false},
		{"zero point size", Config{PointSize: ptrFloat64(0)}, false},
		{"negative rate", Config{SmoothingPositionRate: ptrFloat64(-1)}, false},
		{"negative rotation rate", Config{SmoothingRotationRate: ptrFloat64(-1)}, false},
		{"zero window", Config{WindowHeight: ptrInt(0)}, false},
		{"zero window width", Config{WindowWidth: ptrInt(0)}, false},
		{"unpaced synthetic", Config{SyntheticFPS: ptrFloat64(0)}, true},
		{"negative fps", Config{SyntheticFPS: ptrFloat64(-5)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestExtractOptions(t *testing.T) {
	cfg := &Config{
		HeadRadius:            ptrFloat64(0.2),
		NormalizeFaceRotation: ptrBool(true),
	}
	assert.Equal(t, extract.Options{HeadRadius: 0.2, NormalizeRotation: true}, cfg.ExtractOptions())
}
