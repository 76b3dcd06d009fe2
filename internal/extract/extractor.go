// Package extract turns sensor frames into a head-centred point cloud and
// head pose, publishing both for the display context.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/banshee-data/headcloud/internal/geom"
	"github.com/banshee-data/headcloud/internal/latest"
	"github.com/banshee-data/headcloud/internal/monitoring"
	"github.com/banshee-data/headcloud/internal/pointbuf"
	"github.com/banshee-data/headcloud/internal/sensor"
	"github.com/banshee-data/headcloud/internal/timeutil"
)

// DefaultHeadRadius is the distance in metres from the head joint within
// which pixels are kept.
const DefaultHeadRadius = 0.3

// statsInterval is how often Run logs throughput and repeated acquisition
// failures.
const statsInterval = 5 * time.Second

// ErrInvalidFrame is returned when a frame's grids disagree with its size.
var ErrInvalidFrame = errors.New("invalid frame")

var logf = monitoring.Component("Extractor")

// HeadPose is the head position in camera space and, when the face tracker
// supplied one, its orientation.
type HeadPose struct {
	Center   mgl32.Vec3
	Rotation *mgl32.Quat
}

// Options tunes an Extractor. The zero value uses the defaults.
type Options struct {
	// HeadRadius is the inclusion radius in metres. Pixels exactly on the
	// boundary are excluded.
	HeadRadius float32
	// NormalizeRotation rescales face rotations to unit length and drops
	// those that cannot be normalised.
	NormalizeRotation bool
	// LogDropped logs every point cloud the display did not consume in time.
	LogDropped bool
	// OnResult, if set, is called by Run after each processed frame.
	OnResult func(Result)
	// Clock paces acquisition failure reports. Defaults to the real clock.
	Clock timeutil.Clock
}

// Result describes what one Process call produced.
type Result struct {
	// Tracked is false when no body was tracked in the frame.
	Tracked bool
	// PoseUpdated is true when the head joint was located in this frame.
	PoseUpdated bool
	Pose        HeadPose
	HasPose     bool
	// Nose is the face tracker's nose point for the tracked body, if any.
	Nose *sensor.PointF
	// Points is the size of the published cloud; -1 when none was built.
	Points int
	// Replaced is true when publishing displaced an unconsumed cloud.
	Replaced bool
}

// Stats counts extractor activity.
type Stats struct {
	Frames         uint64
	Invalid        uint64
	Skipped        uint64
	Published      uint64
	Dropped        uint64
	AcquireErrors  uint64
	LastPointCount int
}

// Extractor runs on the sensor context. Points and Poses may be nil, in
// which case the corresponding output is not produced.
type Extractor struct {
	opts   Options
	face   sensor.FaceTracker
	pool   *pointbuf.Pool
	points *latest.Slot[*pointbuf.Buffer]
	poses  *latest.Slot[HeadPose]

	mu      sync.Mutex
	pose    HeadPose
	hasPose bool

	frames    atomic.Uint64
	invalid   atomic.Uint64
	skipped   atomic.Uint64
	published atomic.Uint64
	dropped   atomic.Uint64
	lastCount atomic.Int64
	acqErrors atomic.Uint64

	lastStatsTime   time.Time
	lastStatsFrames uint64
	lastErrLog      time.Time
	errsSinceLog    uint64
}

// New returns an Extractor that retargets face, fills buffers from pool
// and publishes to points and poses.
func New(face sensor.FaceTracker, pool *pointbuf.Pool, points *latest.Slot[*pointbuf.Buffer], poses *latest.Slot[HeadPose], opts Options) *Extractor {
	if opts.HeadRadius <= 0 {
		opts.HeadRadius = DefaultHeadRadius
	}
	if pool == nil {
		pool = pointbuf.NewPool(pointbuf.DefaultCapacity)
	}
	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	return &Extractor{
		opts:   opts,
		face:   face,
		pool:   pool,
		points: points,
		poses:  poses,
	}
}

// Pose returns the most recently established head pose.
func (e *Extractor) Pose() (HeadPose, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pose, e.hasPose
}

// Stats returns a snapshot of the counters. Safe from any goroutine.
func (e *Extractor) Stats() Stats {
	return Stats{
		Frames:         e.frames.Load(),
		Invalid:        e.invalid.Load(),
		Skipped:        e.skipped.Load(),
		Published:      e.published.Load(),
		Dropped:        e.dropped.Load(),
		AcquireErrors:  e.acqErrors.Load(),
		LastPointCount: int(e.lastCount.Load()),
	}
}

// Process handles one frame. When no body is tracked nothing is published
// and the previous pose and cloud stay in effect.
func (e *Extractor) Process(f *sensor.Frame) (Result, error) {
	res := Result{Points: -1}
	if err := validate(f); err != nil {
		e.invalid.Add(1)
		return res, err
	}
	e.frames.Add(1)

	body := firstTracked(f.Bodies)
	if body == nil {
		e.skipped.Add(1)
		res.Pose, res.HasPose = e.Pose()
		return res, nil
	}
	res.Tracked = true

	if e.face != nil {
		e.face.SetTrackingID(body.TrackingID)
	}

	var rotation *sensor.Vector4
	if f.Face != nil && f.Face.TrackingID == body.TrackingID {
		rotation = f.Face.Rotation
		res.Nose = f.Face.Nose
	}

	if head := body.Joints[sensor.JointHead]; head.State != sensor.NotTracked {
		pose := HeadPose{Center: geom.ToVector3(head.Position), Rotation: e.rotation(rotation)}
		e.mu.Lock()
		e.pose, e.hasPose = pose, true
		e.mu.Unlock()
		res.PoseUpdated = true
		if e.poses != nil {
			e.poses.Publish(pose)
		}
	}

	res.Pose, res.HasPose = e.Pose()
	if !res.HasPose {
		e.skipped.Add(1)
		return res, nil
	}

	if e.points != nil {
		buf := e.pool.Get()
		e.fill(buf, f, res.Pose.Center)
		res.Points = buf.Len()
		e.lastCount.Store(int64(res.Points))
		res.Replaced = e.publish(buf)
	}

	return res, nil
}

func (e *Extractor) rotation(v *sensor.Vector4) *mgl32.Quat {
	q := geom.ToQuaternion(v)
	if q == nil || !e.opts.NormalizeRotation {
		return q
	}
	n, ok := geom.NormalizeQuaternion(q)
	if !ok {
		return nil
	}
	return n
}

// fill appends every pixel strictly inside the head sphere in scan order.
func (e *Extractor) fill(buf *pointbuf.Buffer, f *sensor.Frame, center mgl32.Vec3) {
	r2 := e.opts.HeadRadius * e.opts.HeadRadius
	for i := range f.Points {
		p := geom.ToVector3(f.Points[i])
		d := p.Sub(center)
		if !(d.Dot(d) < r2) {
			continue
		}
		c := f.Colors[i]
		buf.Append(pointbuf.Vertex{
			Position: p,
			Color: [4]float32{
				float32(c.R) / 255,
				float32(c.G) / 255,
				float32(c.B) / 255,
				float32(c.A) / 255,
			},
		})
	}
}

func (e *Extractor) publish(buf *pointbuf.Buffer) bool {
	e.published.Add(1)
	displaced, replaced := e.points.Publish(buf)
	if !replaced {
		return false
	}
	e.pool.Put(displaced)
	dropped := e.dropped.Add(1)
	if e.opts.LogDropped {
		logf("Could not hand point cloud to renderer, replaced unconsumed frame (total dropped: %d)", dropped)
	}
	return true
}

// Run processes frames from src until ctx is done or src is exhausted.
// Acquisition and frame errors are logged and the frame is skipped. A
// source that keeps failing is reported at most once per stats interval.
func (e *Extractor) Run(ctx context.Context, src sensor.FrameSource) error {
	for {
		f, err := src.NextFrame(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				e.logStats("source exhausted")
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				e.logStats("stopped")
				return ctxErr
			}
			e.reportAcquireError(err)
			continue
		}
		res, err := e.Process(f)
		if err != nil {
			logf("Dropping frame: %v", err)
			continue
		}
		if e.opts.OnResult != nil {
			e.opts.OnResult(res)
		}
		e.logPeriodicStats(f.Timestamp)
	}
}

func (e *Extractor) reportAcquireError(err error) {
	e.acqErrors.Add(1)
	e.errsSinceLog++
	now := e.opts.Clock.Now()
	if !e.lastErrLog.IsZero() && now.Sub(e.lastErrLog) < statsInterval {
		return
	}
	logf("%v (failures since last report: %d)", fmt.Errorf("acquire frame: %w", err), e.errsSinceLog)
	e.lastErrLog = now
	e.errsSinceLog = 0
}

func (e *Extractor) logPeriodicStats(now time.Time) {
	frames := e.frames.Load()
	if e.lastStatsTime.IsZero() {
		e.lastStatsTime = now
		e.lastStatsFrames = frames
		return
	}
	elapsed := now.Sub(e.lastStatsTime)
	if elapsed < statsInterval {
		return
	}
	fps := float64(frames-e.lastStatsFrames) / elapsed.Seconds()
	st := e.Stats()
	logf("Stats: fps=%.1f frames=%d skipped=%d published=%d dropped=%d acquire_errors=%d last_points=%d",
		fps, st.Frames, st.Skipped, st.Published, st.Dropped, st.AcquireErrors, st.LastPointCount)
	e.lastStatsTime = now
	e.lastStatsFrames = frames
}

func (e *Extractor) logStats(reason string) {
	st := e.Stats()
	logf("%s: frames=%d invalid=%d skipped=%d published=%d dropped=%d acquire_errors=%d",
		reason, st.Frames, st.Invalid, st.Skipped, st.Published, st.Dropped, st.AcquireErrors)
}

func validate(f *sensor.Frame) error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidFrame)
	}
	if f.Width < 0 || f.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidFrame, f.Width, f.Height)
	}
	n := f.Width * f.Height
	if len(f.Points) != n || len(f.Colors) != n {
		return fmt.Errorf("%w: %dx%d frame has %d points and %d colors",
			ErrInvalidFrame, f.Width, f.Height, len(f.Points), len(f.Colors))
	}
	return nil
}

func firstTracked(bodies []sensor.Body) *sensor.Body {
	for i := range bodies {
		if bodies[i].Tracked {
			return &bodies[i]
		}
	}
	return nil
}
