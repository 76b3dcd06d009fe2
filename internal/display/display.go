// Package display drives a Painter from the x/mobile app event loop.
package display

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/mobile/app"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/gl"

	"github.com/banshee-data/headcloud/internal/monitoring"
	"github.com/banshee-data/headcloud/internal/timeutil"
)

// ErrNoDrawContext is returned when the window becomes visible without a
// GL context.
var ErrNoDrawContext = errors.New("no GL draw context")

var logf = monitoring.Component("Display")

// Painter is the GL work done on the display context. *render.Renderer
// satisfies it.
type Painter interface {
	Init(glctx gl.Context) error
	Resize(width, height int)
	Paint(dt time.Duration) error
	Release()
}

// Options configures Run.
type Options struct {
	// Clock measures the interval between paints. Defaults to RealClock.
	Clock timeutil.Clock
	// InitialWidth and InitialHeight size the viewport until the window
	// reports its real size.
	InitialWidth  int
	InitialHeight int
}

// Run handles app events until ctx is done, the event channel closes or
// the app reaches StageDead. GL resources are created each time the window
// becomes visible and released when it stops being visible. Paints are
// requested back to back while visible.
func Run(ctx context.Context, a app.App, p Painter, opts Options) error {
	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	sw := timeutil.NewStopwatch(opts.Clock)
	width, height := opts.InitialWidth, opts.InitialHeight
	visible := false
	paints := 0

	release := func() {
		if visible {
			p.Release()
			visible = false
		}
	}
	defer release()

	for {
		var e interface{}
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-a.Events():
			if !ok {
				return nil
			}
			e = a.Filter(ev)
		}

		switch e := e.(type) {
		case lifecycle.Event:
			switch e.Crosses(lifecycle.StageVisible) {
			case lifecycle.CrossOn:
				glctx, ok := e.DrawContext.(gl.Context)
				if !ok {
					return ErrNoDrawContext
				}
				if err := p.Init(glctx); err != nil {
					return fmt.Errorf("init renderer: %w", err)
				}
				visible = true
				if width > 0 && height > 0 {
					p.Resize(width, height)
				}
				sw.Lap()
				a.Send(paint.Event{})
			case lifecycle.CrossOff:
				release()
			}
			if e.To == lifecycle.StageDead {
				logf("Window closed after %d paints", paints)
				return nil
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			p.Resize(width, height)
		case paint.Event:
			if !visible || e.External {
				continue
			}
			if err := p.Paint(sw.Lap()); err != nil {
				logf("Paint failed: %v", err)
			}
			paints++
			a.Publish()
			a.Send(paint.Event{})
		}
	}
}
