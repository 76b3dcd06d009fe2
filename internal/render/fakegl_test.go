package render

import (
	"fmt"

	"golang.org/x/mobile/gl"
)

// fakeGL records the calls the renderer makes. Methods the renderer does
// not use fall through to the nil embedded interface and panic.
type fakeGL struct {
	gl.Context

	calls []string
	next  uint32

	failCompile gl.Enum // shader type whose compile fails, 0 for none
	failLink    bool
	deleted     map[string]int

	shaderTypes map[uint32]gl.Enum
	uploads     [][]byte
	draws       []int
	matrix      []float32
	pointSize   float32
	viewport    [4]int
	vertexArray gl.VertexArray
	program     gl.Program
	arrayBuffer gl.Buffer
	attribs     map[uint]string
}

func newFakeGL() *fakeGL {
	return &fakeGL{
		deleted:     map[string]int{},
		shaderTypes: map[uint32]gl.Enum{},
		attribs:     map[uint]string{},
	}
}

func (f *fakeGL) id() uint32 {
	f.next++
	return f.next
}

func (f *fakeGL) record(format string, v ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, v...))
}

func (f *fakeGL) CreateShader(ty gl.Enum) gl.Shader {
	s := gl.Shader{Value: f.id()}
	f.shaderTypes[s.Value] = ty
	return s
}

func (f *fakeGL) ShaderSource(gl.Shader, string) {}
func (f *fakeGL) CompileShader(gl.Shader)        {}

func (f *fakeGL) GetShaderi(s gl.Shader, pname gl.Enum) int {
	if pname == gl.COMPILE_STATUS && f.shaderTypes[s.Value] == f.failCompile {
		return 0
	}
	return 1
}

func (f *fakeGL) GetShaderInfoLog(gl.Shader) string { return "0:3: syntax error" }
func (f *fakeGL) DeleteShader(gl.Shader)            { f.deleted["shader"]++ }

func (f *fakeGL) CreateProgram() gl.Program          { return gl.Program{Init: true, Value: f.id()} }
func (f *fakeGL) AttachShader(gl.Program, gl.Shader) {}
func (f *fakeGL) LinkProgram(gl.Program)             {}

func (f *fakeGL) GetProgrami(p gl.Program, pname gl.Enum) int {
	if pname == gl.LINK_STATUS && f.failLink {
		return 0
	}
	return 1
}

func (f *fakeGL) GetProgramInfoLog(gl.Program) string { return "link: unresolved varying" }
func (f *fakeGL) DeleteProgram(gl.Program)            { f.deleted["program"]++ }

func (f *fakeGL) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	switch name {
	case "uTransformation":
		return gl.Uniform{Value: 1}
	case "uPointSize":
		return gl.Uniform{Value: 2}
	}
	return gl.Uniform{Value: -1}
}

func (f *fakeGL) CreateVertexArray() gl.VertexArray   { return gl.VertexArray{Value: f.id()} }
func (f *fakeGL) BindVertexArray(v gl.VertexArray)    { f.vertexArray = v }
func (f *fakeGL) DeleteVertexArray(gl.VertexArray)    { f.deleted["vertex_array"]++ }
func (f *fakeGL) CreateBuffer() gl.Buffer             { return gl.Buffer{Value: f.id()} }
func (f *fakeGL) BindBuffer(_ gl.Enum, b gl.Buffer)   { f.arrayBuffer = b }
func (f *fakeGL) DeleteBuffer(gl.Buffer)              { f.deleted["buffer"]++ }
func (f *fakeGL) EnableVertexAttribArray(a gl.Attrib) { f.record("enable attrib %d", a.Value) }

func (f *fakeGL) VertexAttribPointer(a gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	f.attribs[a.Value] = fmt.Sprintf("size=%d stride=%d offset=%d", size, stride, offset)
}

func (f *fakeGL) BufferData(target gl.Enum, src []byte, usage gl.Enum) {
	if f.arrayBuffer == (gl.Buffer{}) {
		panic("BufferData with no buffer bound")
	}
	f.uploads = append(f.uploads, append([]byte(nil), src...))
	f.record("buffer data %d bytes usage=%v", len(src), usage == gl.STREAM_DRAW)
}

func (f *fakeGL) ClearColor(r, g, b, a float32) { f.record("clear color %v %v %v %v", r, g, b, a) }
func (f *fakeGL) Enable(c gl.Enum)              { f.record("enable depth=%v", c == gl.DEPTH_TEST) }
func (f *fakeGL) Clear(mask gl.Enum)            { f.record("clear") }
func (f *fakeGL) UseProgram(p gl.Program)       { f.program = p }

func (f *fakeGL) UniformMatrix4fv(dst gl.Uniform, src []float32) {
	f.matrix = append([]float32(nil), src...)
}

func (f *fakeGL) Uniform1f(dst gl.Uniform, v float32) { f.pointSize = v }

func (f *fakeGL) DrawArrays(mode gl.Enum, first, count int) {
	if f.vertexArray == (gl.VertexArray{}) || !f.program.Init {
		panic("DrawArrays without program and vertex array bound")
	}
	f.draws = append(f.draws, count)
}

func (f *fakeGL) Viewport(x, y, w, h int) { f.viewport = [4]int{x, y, w, h} }

const (
	vertexShaderType   = gl.VERTEX_SHADER
	fragmentShaderType = gl.FRAGMENT_SHADER
)
