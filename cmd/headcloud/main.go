// Command headcloud shows the point cloud around the tracked head in a
// window, viewed from a camera that follows the head pose.
//
// Usage:
//
//	go run ./cmd/headcloud [flags]
//
// Flags:
//
//	-config   Path to a JSON config file (optional)
//	-frames   Stop the sensor after this many frames (default: unlimited)
//	-version  Print the version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/mobile/app"

	"github.com/banshee-data/headcloud/internal/config"
	"github.com/banshee-data/headcloud/internal/display"
	"github.com/banshee-data/headcloud/internal/extract"
	"github.com/banshee-data/headcloud/internal/latest"
	"github.com/banshee-data/headcloud/internal/pointbuf"
	"github.com/banshee-data/headcloud/internal/render"
	"github.com/banshee-data/headcloud/internal/sensor"
	"github.com/banshee-data/headcloud/internal/timeutil"
	"github.com/banshee-data/headcloud/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to JSON config file (optional)")
	maxFrames   = flag.Int("frames", 0, "Stop the sensor after this many frames (0 = unlimited)")
	showVersion = flag.Bool("version", false, "Print the version and exit")
)

// loadConfig returns the defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	renderOpts, err := render.OptionsFromConfig(cfg)
	if err != nil {
		log.Fatalf("Invalid render config: %v", err)
	}

	log.Printf("[Headcloud] Starting %s session=%s", version.String(), uuid.New())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := timeutil.RealClock{}
	src := sensor.NewSynthetic(clock, cfg.GetSyntheticFPS())
	src.MaxFrames = *maxFrames
	info := src.Info()
	log.Printf("[Headcloud] Sensor %dx%d fov=%.1f° depth=[%d, %d]mm",
		info.Width, info.Height, info.HorizontalFOV, info.MinReliableDepth, info.MaxReliableDepth)

	pool := pointbuf.NewPool(cfg.GetInitialCapacity())
	points := &latest.Slot[*pointbuf.Buffer]{}
	poses := &latest.Slot[extract.HeadPose]{}
	extractor := extract.New(src, pool, points, poses, cfg.ExtractOptions())
	renderer := render.New(info, pool, points, poses, renderOpts)

	var wg sync.WaitGroup
	var sensorErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := extractor.Run(ctx, src); err != nil && !errors.Is(err, context.Canceled) {
			sensorErr = fmt.Errorf("sensor loop: %w", err)
		}
	}()

	var displayErr error
	app.Main(func(a app.App) {
		displayErr = display.Run(ctx, a, renderer, display.Options{
			Clock:         clock,
			InitialWidth:  cfg.GetWindowWidth(),
			InitialHeight: cfg.GetWindowHeight(),
		})
	})

	stop()
	wg.Wait()

	st := extractor.Stats()
	log.Printf("[Headcloud] Shutdown: frames=%d published=%d dropped=%d paints=%d",
		st.Frames, st.Published, st.Dropped, renderer.Stats().Paints)

	if err := multierr.Combine(displayErr, sensorErr, src.Close()); err != nil {
		log.Fatalf("Exited with errors: %v", err)
	}
}
