// Package render draws the published head point cloud with a single point
// shader, viewed from a camera that follows the head pose.
package render

import (
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/mobile/gl"

	"github.com/banshee-data/headcloud/internal/extract"
	"github.com/banshee-data/headcloud/internal/latest"
	"github.com/banshee-data/headcloud/internal/monitoring"
	"github.com/banshee-data/headcloud/internal/pointbuf"
	"github.com/banshee-data/headcloud/internal/sensor"
)

// DefaultPointSize is the rasterised point size in pixels.
const DefaultPointSize = 3

// ErrNotReady is returned by operations that need a successful Init.
var ErrNotReady = errors.New("renderer not initialised")

var logf = monitoring.Component("Renderer")

// Options configures a Renderer. Zero fields take their defaults.
type Options struct {
	PointSize float32
	Camera    *Camera
}

// Stats counts renderer activity.
type Stats struct {
	Paints  uint64
	Uploads uint64
	Points  int
}

// Renderer owns the GL objects for the point cloud. All methods must be
// called on the display context.
type Renderer struct {
	info   sensor.SourceInfo
	pool   *pointbuf.Pool
	points *latest.Slot[*pointbuf.Buffer]
	poses  *latest.Slot[extract.HeadPose]

	pointSize float32
	camera    *Camera

	glctx      gl.Context
	program    gl.Program
	vao        gl.VertexArray
	vbo        gl.Buffer
	uTransform gl.Uniform
	uPointSize gl.Uniform

	projection mgl32.Mat4
	scratch    []byte
	count      int
	stats      Stats
}

// New returns an uninitialised renderer that consumes clouds from points,
// hands them back to pool once uploaded, and follows poses. Either slot may
// be nil. info supplies the projection's field of view and depth range.
func New(info sensor.SourceInfo, pool *pointbuf.Pool, points *latest.Slot[*pointbuf.Buffer], poses *latest.Slot[extract.HeadPose], opts Options) *Renderer {
	if opts.PointSize <= 0 {
		opts.PointSize = DefaultPointSize
	}
	if opts.Camera == nil {
		opts.Camera = NewCamera()
	}
	r := &Renderer{
		info:      info,
		pool:      pool,
		points:    points,
		poses:     poses,
		pointSize: opts.PointSize,
		camera:    opts.Camera,
	}
	r.projection = r.perspective(info.Width, info.Height)
	return r
}

// Ready reports whether Init has succeeded and Release has not been called.
func (r *Renderer) Ready() bool { return r.glctx != nil }

// Stats returns the paint counters.
func (r *Renderer) Stats() Stats { return r.stats }

// Init compiles the shader and creates the vertex array and buffer. The
// last uploaded cloud, if any, is uploaded again so a re-created context
// keeps drawing it. A *ShaderError is returned when compilation or linking
// fails.
func (r *Renderer) Init(glctx gl.Context) error {
	program, err := createProgram(glctx, vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return err
	}
	r.glctx = glctx
	r.program = program
	r.uTransform = glctx.GetUniformLocation(program, "uTransformation")
	r.uPointSize = glctx.GetUniformLocation(program, "uPointSize")

	r.vao = glctx.CreateVertexArray()
	r.vbo = glctx.CreateBuffer()
	glctx.BindVertexArray(r.vao)
	glctx.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	glctx.EnableVertexAttribArray(gl.Attrib{Value: positionAttrib})
	glctx.VertexAttribPointer(gl.Attrib{Value: positionAttrib}, 3, gl.FLOAT, false, pointbuf.VertexSize, 0)
	glctx.EnableVertexAttribArray(gl.Attrib{Value: colorAttrib})
	glctx.VertexAttribPointer(gl.Attrib{Value: colorAttrib}, 4, gl.FLOAT, false, pointbuf.VertexSize, pointbuf.ColorOffset)
	glctx.BindVertexArray(gl.VertexArray{})
	glctx.BindBuffer(gl.ARRAY_BUFFER, gl.Buffer{})

	glctx.ClearColor(0, 0, 0, 1)
	glctx.Enable(gl.DEPTH_TEST)

	if r.count > 0 {
		r.bufferData(r.scratch[:r.count*pointbuf.VertexSize])
	}
	logf("Initialised: fov=%.1f° depth=[%d, %d]mm point_size=%.0f",
		r.info.HorizontalFOV, r.info.MinReliableDepth, r.info.MaxReliableDepth, r.pointSize)
	return nil
}

// Resize sets the viewport and rebuilds the projection for a width×height
// surface in pixels. A zero-area surface is ignored.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.projection = r.perspective(width, height)
	if r.glctx != nil {
		r.glctx.Viewport(0, 0, width, height)
	}
}

// Projection returns the current projection matrix.
func (r *Renderer) Projection() mgl32.Mat4 { return r.projection }

func (r *Renderer) perspective(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(
		mgl32.DegToRad(r.info.HorizontalFOV),
		aspect,
		float32(r.info.MinReliableDepth)/1000,
		float32(r.info.MaxReliableDepth)/1000,
	)
}

// Paint draws one frame. A newly published cloud replaces the uploaded
// one; otherwise the previous cloud is drawn again. dt is the time since
// the previous paint and drives camera smoothing.
func (r *Renderer) Paint(dt time.Duration) error {
	glctx := r.glctx
	if glctx == nil {
		return ErrNotReady
	}
	glctx.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if r.points != nil {
		if buf, ok := r.points.TryConsume(); ok {
			r.upload(buf)
		}
	}
	if r.poses != nil {
		if pose, ok := r.poses.TryConsume(); ok {
			r.camera.SetPose(pose)
		}
	}
	transform := r.projection.Mul4(r.camera.View(dt))

	glctx.UseProgram(r.program)
	glctx.UniformMatrix4fv(r.uTransform, transform[:])
	glctx.Uniform1f(r.uPointSize, r.pointSize)
	glctx.BindVertexArray(r.vao)
	if r.count > 0 {
		glctx.DrawArrays(gl.POINTS, 0, r.count)
	}
	glctx.BindVertexArray(gl.VertexArray{})
	glctx.UseProgram(gl.Program{})

	r.stats.Paints++
	return nil
}

// upload replaces the vertex buffer contents and returns buf to the pool.
func (r *Renderer) upload(buf *pointbuf.Buffer) {
	defer r.pool.Put(buf)

	r.count = buf.Len()
	r.stats.Uploads++
	r.stats.Points = r.count
	if r.count == 0 {
		return
	}
	r.scratch = buf.Bytes(r.scratch)
	r.bufferData(r.scratch)
}

func (r *Renderer) bufferData(data []byte) {
	r.glctx.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	r.glctx.BufferData(gl.ARRAY_BUFFER, data, gl.STREAM_DRAW)
	r.glctx.BindBuffer(gl.ARRAY_BUFFER, gl.Buffer{})
}

// Release deletes the GL objects. The renderer may be initialised again
// with a new context; the current cloud is kept for that.
func (r *Renderer) Release() {
	if r.glctx == nil {
		return
	}
	r.glctx.DeleteBuffer(r.vbo)
	r.glctx.DeleteVertexArray(r.vao)
	r.glctx.DeleteProgram(r.program)
	r.glctx = nil
	logf("Released after %d paints, %d uploads", r.stats.Paints, r.stats.Uploads)
}
