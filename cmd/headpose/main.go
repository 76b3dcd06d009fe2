// Command headpose prints the tracked head position, head rotation and
// nose position to the terminal, redrawn in place.
//
// Usage:
//
//	go run ./cmd/headpose [flags]
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/banshee-data/headcloud/internal/config"
	"github.com/banshee-data/headcloud/internal/console"
	"github.com/banshee-data/headcloud/internal/extract"
	"github.com/banshee-data/headcloud/internal/monitoring"
	"github.com/banshee-data/headcloud/internal/sensor"
	"github.com/banshee-data/headcloud/internal/timeutil"
	"github.com/banshee-data/headcloud/internal/version"
)

var (
	configPath = flag.String("config", "", "Path to JSON config file (optional)")
	maxFrames  = flag.Int("frames", 0, "Stop after this many frames (0 = unlimited)")
	verbose    = flag.Bool("verbose", false, "Keep diagnostic logging on while the pose is displayed")
)

// run prints a pose line set for every processed frame until ctx is done
// or src is exhausted. Only the pose is extracted; no point cloud is built.
func run(ctx context.Context, src sensor.FrameSource, face sensor.FaceTracker, opts extract.Options, p *console.Printer) error {
	opts.OnResult = p.Show
	ex := extract.New(face, nil, nil, nil, opts)
	err := ex.Run(ctx, src)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	log.Printf("[Headpose] Starting %s session=%s", version.String(), uuid.New())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src := sensor.NewSynthetic(timeutil.RealClock{}, cfg.GetSyntheticFPS())
	src.MaxFrames = *maxFrames

	printer, err := console.Start()
	if err != nil {
		log.Fatalf("Failed to open terminal: %v", err)
	}
	if !*verbose {
		// Log lines would scroll the redrawn area.
		monitoring.SetLogger(nil)
	}

	runErr := run(ctx, src, src, cfg.ExtractOptions(), printer)
	if err := multierr.Combine(runErr, printer.Stop(), src.Close()); err != nil {
		log.Fatalf("Exited with errors: %v", err)
	}
}
