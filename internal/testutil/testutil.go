// Package testutil provides shared test helpers and sensor fixtures.
package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/banshee-data/headcloud/internal/monitoring"
	"github.com/banshee-data/headcloud/internal/sensor"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// Logs collects formatted monitoring output.
type Logs struct {
	mu    sync.Mutex
	lines []string
}

// Lines returns a copy of the captured lines.
func (l *Logs) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// CaptureLogs redirects the monitoring logger into the returned Logs for
// the rest of the test.
func CaptureLogs(t testing.TB) *Logs {
	t.Helper()
	l := &Logs{}
	monitoring.SetLogger(func(format string, v ...interface{}) {
		l.mu.Lock()
		l.lines = append(l.lines, fmt.Sprintf(format, v...))
		l.mu.Unlock()
	})
	t.Cleanup(func() { monitoring.SetLogger(nil) })
	return l
}

// MuteLogs silences the monitoring logger for the rest of the test.
func MuteLogs(t testing.TB) {
	t.Helper()
	monitoring.SetLogger(nil)
}

// UniformFrame returns a w×h frame whose pixels all sit at p with color c
// and which has no tracked bodies.
func UniformFrame(w, h int, p sensor.CameraSpacePoint, c sensor.RGBA8) *sensor.Frame {
	n := w * h
	f := &sensor.Frame{
		Width:  w,
		Height: h,
		Points: make([]sensor.CameraSpacePoint, n),
		Colors: make([]sensor.RGBA8, n),
		Bodies: make([]sensor.Body, sensor.MaxBodies),
	}
	for i := 0; i < n; i++ {
		f.Points[i], f.Colors[i] = p, c
	}
	return f
}

// TrackBody marks body slot i as tracked with the given id and head joint
// position, and returns the body.
func TrackBody(f *sensor.Frame, i int, id uint64, head sensor.CameraSpacePoint) *sensor.Body {
	b := &f.Bodies[i]
	b.Tracked = true
	b.TrackingID = id
	for j := sensor.JointType(0); j < sensor.JointCount; j++ {
		b.Joints[j].Type = j
	}
	b.Joints[sensor.JointHead].Position = head
	b.Joints[sensor.JointHead].State = sensor.Tracked
	return b
}
