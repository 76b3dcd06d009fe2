// Package sensor models the data delivered by a depth camera with body and
// face tracking, and the interfaces the rest of the program uses to reach it.
package sensor

import (
	"context"
	"time"
)

// MaxBodies is the number of body slots the tracker reports per frame.
const MaxBodies = 6

// TrackingState reports how confidently a joint was located.
type TrackingState int

const (
	NotTracked TrackingState = iota
	Inferred
	Tracked
)

func (s TrackingState) String() string {
	switch s {
	case NotTracked:
		return "not_tracked"
	case Inferred:
		return "inferred"
	case Tracked:
		return "tracked"
	default:
		return "unknown"
	}
}

// JointType indexes Body.Joints.
type JointType int

const (
	JointSpineBase JointType = iota
	JointSpineMid
	JointNeck
	JointHead
	JointShoulderLeft
	JointShoulderRight
	JointCount
)

// CameraSpacePoint is a position in metres in the camera's coordinate frame.
// Pixels with no depth reading carry -Inf or NaN components.
type CameraSpacePoint struct {
	X, Y, Z float32
}

// Vector4 is a raw orientation as delivered by the face tracker (x, y, z, w).
type Vector4 struct {
	X, Y, Z, W float32
}

// PointF is a 2D point in color-image pixel coordinates.
type PointF struct {
	X, Y float32
}

// RGBA8 is one color pixel.
type RGBA8 struct {
	R, G, B, A uint8
}

// Joint is one skeleton joint.
type Joint struct {
	Type     JointType
	Position CameraSpacePoint
	State    TrackingState
}

// Body is one slot of the body tracker.
type Body struct {
	Tracked    bool
	TrackingID uint64
	Joints     [JointCount]Joint
}

// FaceResult is the most recent output of the face tracker. Rotation and
// Nose are nil when the tracker produced no value.
type FaceResult struct {
	TrackingID uint64
	Rotation   *Vector4
	Nose       *PointF
}

// Frame is one synchronised acquisition. Colors and Points are parallel
// row-major grids of Width*Height elements.
type Frame struct {
	Timestamp time.Time
	Width     int
	Height    int
	Colors    []RGBA8
	Points    []CameraSpacePoint
	Bodies    []Body
	Face      *FaceResult
}

// SourceInfo describes the camera's fixed geometry.
type SourceInfo struct {
	Width  int
	Height int
	// HorizontalFOV is the color camera's horizontal field of view in degrees.
	HorizontalFOV float32
	// MinReliableDepth and MaxReliableDepth are in millimetres.
	MinReliableDepth uint16
	MaxReliableDepth uint16
}

// FrameSource delivers synchronised frames. NextFrame blocks until a frame
// is available, ctx is done, or the source is exhausted (io.EOF).
type FrameSource interface {
	Info() SourceInfo
	NextFrame(ctx context.Context) (*Frame, error)
	Close() error
}

// FaceTracker follows a single body. Results for the new body arrive on
// later frames.
type FaceTracker interface {
	SetTrackingID(id uint64)
}
