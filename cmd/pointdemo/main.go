// Command pointdemo draws three fixed colored points through the same
// publish slot and renderer as headcloud. It checks the GL pipeline
// without a sensor.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/mobile/app"

	"github.com/banshee-data/headcloud/internal/display"
	"github.com/banshee-data/headcloud/internal/extract"
	"github.com/banshee-data/headcloud/internal/latest"
	"github.com/banshee-data/headcloud/internal/pointbuf"
	"github.com/banshee-data/headcloud/internal/render"
	"github.com/banshee-data/headcloud/internal/sensor"
)

// demoInfo is a camera with a 60° field of view and a 0.1 to 10 m range.
var demoInfo = sensor.SourceInfo{
	Width:            640,
	Height:           480,
	HorizontalFOV:    60,
	MinReliableDepth: 100,
	MaxReliableDepth: 10000,
}

// demoCloud returns red, green and blue points one metre in front of the
// camera.
func demoCloud(pool *pointbuf.Pool) *pointbuf.Buffer {
	b := pool.Get()
	b.Append(pointbuf.Vertex{Position: [3]float32{-0.1, 0, 1}, Color: [4]float32{1, 0, 0, 1}})
	b.Append(pointbuf.Vertex{Position: [3]float32{0, 0.1, 1}, Color: [4]float32{0, 1, 0, 1}})
	b.Append(pointbuf.Vertex{Position: [3]float32{0.1, 0, 1}, Color: [4]float32{0, 0, 1, 1}})
	return b
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := pointbuf.NewPool(4)
	points := &latest.Slot[*pointbuf.Buffer]{}
	poses := &latest.Slot[extract.HeadPose]{}
	points.Publish(demoCloud(pool))
	poses.Publish(extract.HeadPose{Center: mgl32.Vec3{0, 0, 1}})

	renderer := render.New(demoInfo, pool, points, poses, render.Options{})

	var err error
	app.Main(func(a app.App) {
		err = display.Run(ctx, a, renderer, display.Options{})
	})
	if err != nil {
		log.Fatalf("Display failed: %v", err)
	}
}
