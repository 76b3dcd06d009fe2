// Package console prints head and face pose diagnostics to a terminal,
// redrawing them in place.
package console

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/banshee-data/headcloud/internal/extract"
	"github.com/banshee-data/headcloud/internal/geom"
)

// Area is a region of the terminal that can be redrawn in place.
// *pterm.AreaPrinter satisfies it.
type Area interface {
	Update(text ...any)
	Stop() error
}

// Printer renders extraction results into an Area.
type Printer struct {
	area Area
	last string
}

// Start opens a pterm area on stdout.
func Start() (*Printer, error) {
	area, err := pterm.DefaultArea.Start()
	if err != nil {
		return nil, fmt.Errorf("start terminal area: %w", err)
	}
	return NewPrinter(area), nil
}

// NewPrinter returns a Printer drawing into area.
func NewPrinter(area Area) *Printer {
	return &Printer{area: area}
}

// Show redraws the area for res. Unchanged output is not redrawn.
func (p *Printer) Show(res extract.Result) {
	text := Format(res)
	if text == p.last {
		return
	}
	p.last = text
	p.area.Update(text)
}

// Stop releases the terminal area, leaving the last output on screen.
func (p *Printer) Stop() error {
	return p.area.Stop()
}

// Format renders the pose lines for res. Values the tracker did not supply
// are shown as "-".
func Format(res extract.Result) string {
	var b strings.Builder
	if !res.Tracked {
		b.WriteString("No body tracked\n")
	}

	if res.HasPose {
		c := res.Pose.Center
		fmt.Fprintf(&b, "Head position: (%.3f, %.3f, %.3f)\n", c[0], c[1], c[2])
	} else {
		b.WriteString("Head position: -\n")
	}

	if res.HasPose && res.Pose.Rotation != nil {
		pitch, yaw, roll := geom.EulerDegrees(*res.Pose.Rotation)
		fmt.Fprintf(&b, "Head rotation: pitch=%.1f° yaw=%.1f° roll=%.1f°\n", pitch, yaw, roll)
	} else {
		b.WriteString("Head rotation: -\n")
	}

	if res.Nose != nil {
		fmt.Fprintf(&b, "Nose position: (%.1f, %.1f)", res.Nose.X, res.Nose.Y)
	} else {
		b.WriteString("Nose position: -")
	}
	return b.String()
}
