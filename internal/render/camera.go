package render

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/banshee-data/headcloud/internal/extract"
)

// CameraMode selects how the camera follows pose updates.
type CameraMode int

const (
	// CameraSnap jumps to each new pose.
	CameraSnap CameraMode = iota
	// CameraSmoothed approaches each new pose exponentially.
	CameraSmoothed
)

// ParseCameraMode maps "snap" and "smoothed" to a CameraMode.
func ParseCameraMode(s string) (CameraMode, bool) {
	switch s {
	case "", "snap":
		return CameraSnap, true
	case "smoothed":
		return CameraSmoothed, true
	default:
		return CameraSnap, false
	}
}

var (
	worldUp = mgl32.Vec3{0, 1, 0}
	forward = mgl32.Vec3{0, 0, 1}
)

// LookAt places the eye for a head pose. With a rotation the eye sits
// distance in front of the face and shares its up vector; without one it
// stays at the sensor origin with +Y up. Eye and target are both shifted by
// offset along the up vector.
func LookAt(pose extract.HeadPose, distance, offset float32) (eye, target, up mgl32.Vec3) {
	target = pose.Center
	up = worldUp
	if pose.Rotation != nil {
		r := *pose.Rotation
		eye = pose.Center.Sub(r.Rotate(forward.Mul(distance)))
		up = r.Rotate(worldUp)
	}
	shift := up.Mul(offset)
	return eye.Add(shift), target.Add(shift), up
}

// Camera turns head poses into a view matrix.
type Camera struct {
	Mode           CameraMode
	Distance       float32
	VerticalOffset float32
	// PositionRate and RotationRate are the smoothing rates in 1/s.
	PositionRate float32
	RotationRate float32

	goal    extract.HeadPose
	center  mgl32.Vec3
	rot     *mgl32.Quat
	hasGoal bool
	primed  bool
}

// NewCamera returns a snapping camera with the default geometry.
func NewCamera() *Camera {
	return &Camera{
		Distance:       0.5,
		VerticalOffset: -0.1,
		PositionRate:   8,
		RotationRate:   8,
	}
}

// SetPose sets the pose the camera moves towards.
func (c *Camera) SetPose(p extract.HeadPose) {
	c.goal = p
	c.hasGoal = true
}

// View advances the camera by dt and returns the view matrix. Before any
// pose the camera looks down +Z from the origin.
func (c *Camera) View(dt time.Duration) mgl32.Mat4 {
	if !c.hasGoal {
		return mgl32.LookAtV(mgl32.Vec3{}, forward, worldUp)
	}

	if c.Mode == CameraSnap || !c.primed {
		c.center = c.goal.Center
		c.rot = copyQuat(c.goal.Rotation)
		c.primed = true
	} else {
		secs := float32(dt.Seconds())
		c.center = c.center.Add(c.goal.Center.Sub(c.center).Mul(approach(c.PositionRate, secs)))
		switch {
		case c.goal.Rotation == nil:
			c.rot = nil
		case c.rot == nil:
			c.rot = copyQuat(c.goal.Rotation)
		default:
			q := mgl32.QuatSlerp(*c.rot, *c.goal.Rotation, approach(c.RotationRate, secs))
			c.rot = &q
		}
	}

	eye, target, up := LookAt(extract.HeadPose{Center: c.center, Rotation: c.rot}, c.Distance, c.VerticalOffset)
	return mgl32.LookAtV(eye, target, up)
}

// approach returns the fraction of the remaining distance covered in secs
// at rate. A non-positive rate snaps.
func approach(rate, secs float32) float32 {
	if rate <= 0 {
		return 1
	}
	if secs <= 0 {
		return 0
	}
	return 1 - float32(math.Exp(float64(-rate*secs)))
}

func copyQuat(q *mgl32.Quat) *mgl32.Quat {
	if q == nil {
		return nil
	}
	c := *q
	return &c
}
