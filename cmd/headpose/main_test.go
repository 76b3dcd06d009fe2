package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/headcloud/internal/console"
	"github.com/banshee-data/headcloud/internal/extract"
	"github.com/banshee-data/headcloud/internal/monitoring"
	"github.com/banshee-data/headcloud/internal/sensor"
	"github.com/banshee-data/headcloud/internal/timeutil"
)

type captureArea struct {
	updates []string
}

func (a *captureArea) Update(text ...any) { a.updates = append(a.updates, text[0].(string)) }
func (a *captureArea) Stop() error        { return nil }

func TestRun_PrintsPoseForSyntheticHead(t *testing.T) {
	monitoring.SetLogger(nil)
	clock := timeutil.NewMockClock(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	src := sensor.NewSynthetic(clock, 0)
	src.MaxFrames = 4

	area := &captureArea{}
	require.NoError(t, run(context.Background(), src, src, extract.Options{}, console.NewPrinter(area)))

	require.NotEmpty(t, area.updates)
	last := area.updates[len(area.updates)-1]
	assert.True(t, strings.HasPrefix(last, "Head position: (0.050, 0.000, 1.200)\n"), "got %q", last)
	assert.Contains(t, last, "Head rotation: pitch=")
	assert.Contains(t, last, "Nose position: (")
}

func TestRun_CancelIsClean(t *testing.T) {
	monitoring.SetLogger(nil)
	clock := timeutil.NewMockClock(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	src := sensor.NewSynthetic(clock, 30)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, run(ctx, src, src, extract.Options{}, console.NewPrinter(&captureArea{})))
}
