package sensor

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/banshee-data/headcloud/internal/timeutil"
)

// Synthetic is a FrameSource and FaceTracker that ray-casts a head-sized
// sphere in front of a flat wall. The head drifts on a small circle and
// turns left and right; one body is tracked. Face results follow the
// tracked body one frame after SetTrackingID, as a real tracker does.
type Synthetic struct {
	// Geometry, in metres unless noted. Exported fields may be changed
	// before the first NextFrame call.
	Width         int
	Height        int
	HorizontalFOV float32 // degrees
	HeadRadius    float32
	HeadDistance  float32
	OrbitRadius   float32
	OrbitSpeed    float64 // radians per second
	YawAmplitude  float32 // degrees
	WallDistance  float32
	DropoutRate   float64 // fraction of pixels with no depth reading
	TrackingID    uint64
	MaxFrames     int // 0 means unlimited

	clock  timeutil.Clock
	ticker timeutil.Ticker
	start  time.Time
	frames atomic.Uint64
	closed atomic.Bool

	mu         sync.Mutex
	rng        *rand.Rand
	faceTarget uint64
	faceActive uint64
}

// NewSynthetic returns a synthetic source paced at fps frames per second
// by clock. fps <= 0 delivers frames as fast as they are requested.
func NewSynthetic(clock timeutil.Clock, fps float64) *Synthetic {
	s := &Synthetic{
		Width:         64,
		Height:        48,
		HorizontalFOV: 84.1,
		HeadRadius:    0.1,
		HeadDistance:  1.2,
		OrbitRadius:   0.05,
		OrbitSpeed:    1.0,
		YawAmplitude:  30,
		WallDistance:  3.0,
		DropoutRate:   0.02,
		TrackingID:    trackingIDFromUUID(uuid.New()),
		clock:         clock,
		start:         clock.Now(),
		rng:           rand.New(rand.NewSource(1)),
	}
	if fps > 0 {
		s.ticker = clock.NewTicker(time.Duration(float64(time.Second) / fps))
	}
	return s
}

func trackingIDFromUUID(id uuid.UUID) uint64 {
	return binary.BigEndian.Uint64(id[:8])
}

// Info reports the synthetic camera geometry. The depth range matches a
// time-of-flight sensor's reliable band.
func (s *Synthetic) Info() SourceInfo {
	return SourceInfo{
		Width:            s.Width,
		Height:           s.Height,
		HorizontalFOV:    s.HorizontalFOV,
		MinReliableDepth: 500,
		MaxReliableDepth: 4500,
	}
}

// SetTrackingID points the face tracker at a body. It takes effect on the
// next frame.
func (s *Synthetic) SetTrackingID(id uint64) {
	s.mu.Lock()
	s.faceTarget = id
	s.mu.Unlock()
}

// NextFrame waits for the next tick and renders a frame. It returns
// io.EOF once the source is closed or MaxFrames have been delivered.
func (s *Synthetic) NextFrame(ctx context.Context) (*Frame, error) {
	if s.closed.Load() {
		return nil, io.EOF
	}
	if s.MaxFrames > 0 && s.frames.Load() >= uint64(s.MaxFrames) {
		return nil, io.EOF
	}
	if s.ticker != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.ticker.C():
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.frames.Add(1)
	return s.render(s.clock.Now()), nil
}

// Close stops pacing. Subsequent NextFrame calls return io.EOF.
func (s *Synthetic) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	return nil
}

// HeadCenter returns the head position at elapsed time t.
func (s *Synthetic) HeadCenter(t time.Duration) mgl32.Vec3 {
	phase := s.OrbitSpeed * t.Seconds()
	return mgl32.Vec3{
		s.OrbitRadius * float32(math.Cos(phase)),
		s.OrbitRadius * float32(math.Sin(phase)),
		s.HeadDistance,
	}
}

// HeadRotation returns the head orientation at elapsed time t.
func (s *Synthetic) HeadRotation(t time.Duration) mgl32.Quat {
	yaw := s.YawAmplitude * float32(math.Sin(s.OrbitSpeed*t.Seconds()))
	return mgl32.QuatRotate(mgl32.DegToRad(yaw), mgl32.Vec3{0, 1, 0})
}

func (s *Synthetic) render(now time.Time) *Frame {
	elapsed := now.Sub(s.start)
	center := s.HeadCenter(elapsed)
	rotation := s.HeadRotation(elapsed)

	n := s.Width * s.Height
	f := &Frame{
		Timestamp: now,
		Width:     s.Width,
		Height:    s.Height,
		Colors:    make([]RGBA8, n),
		Points:    make([]CameraSpacePoint, n),
		Bodies:    make([]Body, MaxBodies),
	}

	focal := s.focal()
	cx, cy := float32(s.Width)/2, float32(s.Height)/2
	r2 := s.HeadRadius * s.HeadRadius

	s.mu.Lock()
	defer s.mu.Unlock()

	for v := 0; v < s.Height; v++ {
		for u := 0; u < s.Width; u++ {
			i := v*s.Width + u
			if s.rng.Float64() < s.DropoutRate {
				inf := float32(math.Inf(-1))
				f.Points[i] = CameraSpacePoint{inf, inf, inf}
				continue
			}
			dir := mgl32.Vec3{
				(float32(u) + 0.5 - cx) / focal,
				-(float32(v) + 0.5 - cy) / focal,
				1,
			}
			if p, ok := raySphere(dir, center, r2); ok {
				normal := p.Sub(center).Normalize()
				shade := 0.4 + 0.6*clamp01(-normal.Dot(dir.Normalize()))
				f.Points[i] = CameraSpacePoint{p[0], p[1], p[2]}
				f.Colors[i] = RGBA8{
					R: uint8(224 * shade),
					G: uint8(172 * shade),
					B: uint8(105 * shade),
					A: 255,
				}
				continue
			}
			p := dir.Mul(s.WallDistance)
			f.Points[i] = CameraSpacePoint{p[0], p[1], p[2]}
			grey := uint8(40 + s.rng.Intn(16))
			f.Colors[i] = RGBA8{R: grey, G: grey, B: grey + 8, A: 255}
		}
	}

	body := &f.Bodies[0]
	body.Tracked = true
	body.TrackingID = s.TrackingID
	for j := JointType(0); j < JointCount; j++ {
		body.Joints[j] = Joint{Type: j, State: Tracked}
	}
	body.Joints[JointHead].Position = CameraSpacePoint{center[0], center[1], center[2]}
	body.Joints[JointNeck].Position = CameraSpacePoint{center[0], center[1] - 0.15, center[2]}
	body.Joints[JointSpineMid].Position = CameraSpacePoint{center[0], center[1] - 0.45, center[2]}
	body.Joints[JointSpineBase].Position = CameraSpacePoint{center[0], center[1] - 0.75, center[2]}
	body.Joints[JointShoulderLeft].Position = CameraSpacePoint{center[0] - 0.18, center[1] - 0.2, center[2]}
	body.Joints[JointShoulderRight].Position = CameraSpacePoint{center[0] + 0.18, center[1] - 0.2, center[2]}

	if s.faceActive == s.TrackingID {
		nose := center.Add(rotation.Rotate(mgl32.Vec3{0, 0, -s.HeadRadius}))
		f.Face = &FaceResult{
			TrackingID: s.faceActive,
			Rotation:   &Vector4{X: rotation.V[0], Y: rotation.V[1], Z: rotation.V[2], W: rotation.W},
			Nose: &PointF{
				X: focal*nose[0]/nose[2] + cx,
				Y: -focal*nose[1]/nose[2] + cy,
			},
		}
	}
	s.faceActive = s.faceTarget

	return f
}

func (s *Synthetic) focal() float32 {
	half := float64(mgl32.DegToRad(s.HorizontalFOV)) / 2
	return float32(float64(s.Width) / 2 / math.Tan(half))
}

// raySphere intersects the ray from the origin along dir with the sphere of
// squared radius r2 at center, returning the nearest hit.
func raySphere(dir, center mgl32.Vec3, r2 float32) (mgl32.Vec3, bool) {
	a := dir.Dot(dir)
	b := -2 * dir.Dot(center)
	c := center.Dot(center) - r2
	disc := b*b - 4*a*c
	if disc < 0 {
		return mgl32.Vec3{}, false
	}
	t := (-b - float32(math.Sqrt(float64(disc)))) / (2 * a)
	if t <= 0 {
		return mgl32.Vec3{}, false
	}
	return dir.Mul(t), true
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
