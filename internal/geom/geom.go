// Package geom converts sensor-native geometry into mgl32 values.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/banshee-data/headcloud/internal/sensor"
)

// ToVector3 copies a camera-space point. Non-finite components propagate.
func ToVector3(p sensor.CameraSpacePoint) mgl32.Vec3 {
	return mgl32.Vec3{p.X, p.Y, p.Z}
}

// ToQuaternion copies a face-tracker orientation verbatim. A nil input
// means no rotation is available and yields nil.
func ToQuaternion(v *sensor.Vector4) *mgl32.Quat {
	if v == nil {
		return nil
	}
	return &mgl32.Quat{W: v.W, V: mgl32.Vec3{v.X, v.Y, v.Z}}
}

// NormalizeQuaternion returns a unit copy of q. It reports false for nil,
// zero-length or non-finite input.
func NormalizeQuaternion(q *mgl32.Quat) (*mgl32.Quat, bool) {
	if q == nil {
		return nil, false
	}
	l := float64(q.Len())
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return nil, false
	}
	n := q.Scale(float32(1 / l))
	return &n, true
}

// EulerDegrees decomposes a rotation into pitch (about X), yaw (about Y)
// and roll (about Z), in degrees.
func EulerDegrees(q mgl32.Quat) (pitch, yaw, roll float32) {
	x, y, z, w := float64(q.V[0]), float64(q.V[1]), float64(q.V[2]), float64(q.W)

	pitch = float32(math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y)))

	s := 2 * (w*y - z*x)
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	yaw = float32(math.Asin(s))

	roll = float32(math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z)))

	return mgl32.RadToDeg(pitch), mgl32.RadToDeg(yaw), mgl32.RadToDeg(roll)
}
