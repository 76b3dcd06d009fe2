package display

import "golang.org/x/mobile/gl"

// stubGL accepts every call a render.Renderer makes and records uploads
// and draws. Everything else falls through to the nil embedded interface.
type stubGL struct {
	gl.Context

	next    uint32
	uploads [][]byte
	draws   []int
}

func (s *stubGL) id() uint32 {
	s.next++
	return s.next
}

func (s *stubGL) CreateShader(gl.Enum) gl.Shader                              { return gl.Shader{Value: s.id()} }
func (s *stubGL) ShaderSource(gl.Shader, string)                              {}
func (s *stubGL) CompileShader(gl.Shader)                                     {}
func (s *stubGL) GetShaderi(gl.Shader, gl.Enum) int                           { return 1 }
func (s *stubGL) GetShaderInfoLog(gl.Shader) string                           { return "" }
func (s *stubGL) DeleteShader(gl.Shader)                                      {}
func (s *stubGL) CreateProgram() gl.Program                                   { return gl.Program{Init: true, Value: s.id()} }
func (s *stubGL) AttachShader(gl.Program, gl.Shader)                          {}
func (s *stubGL) LinkProgram(gl.Program)                                      {}
func (s *stubGL) GetProgrami(gl.Program, gl.Enum) int                         { return 1 }
func (s *stubGL) GetProgramInfoLog(gl.Program) string                         { return "" }
func (s *stubGL) DeleteProgram(gl.Program)                                    {}
func (s *stubGL) GetUniformLocation(gl.Program, string) gl.Uniform            { return gl.Uniform{} }
func (s *stubGL) CreateVertexArray() gl.VertexArray                           { return gl.VertexArray{Value: s.id()} }
func (s *stubGL) BindVertexArray(gl.VertexArray)                              {}
func (s *stubGL) DeleteVertexArray(gl.VertexArray)                            {}
func (s *stubGL) CreateBuffer() gl.Buffer                                     { return gl.Buffer{Value: s.id()} }
func (s *stubGL) BindBuffer(gl.Enum, gl.Buffer)                               {}
func (s *stubGL) DeleteBuffer(gl.Buffer)                                      {}
func (s *stubGL) EnableVertexAttribArray(gl.Attrib)                           {}
func (s *stubGL) VertexAttribPointer(gl.Attrib, int, gl.Enum, bool, int, int) {}
func (s *stubGL) ClearColor(r, g, b, a float32)                               {}
func (s *stubGL) Enable(gl.Enum)                                              {}
func (s *stubGL) Clear(gl.Enum)                                               {}
func (s *stubGL) UseProgram(gl.Program)                                       {}
func (s *stubGL) UniformMatrix4fv(gl.Uniform, []float32)                      {}
func (s *stubGL) Uniform1f(gl.Uniform, float32)                               {}
func (s *stubGL) Viewport(x, y, w, h int)                                     {}

func (s *stubGL) BufferData(_ gl.Enum, src []byte, _ gl.Enum) {
	s.uploads = append(s.uploads, append([]byte(nil), src...))
}

func (s *stubGL) DrawArrays(_ gl.Enum, _, count int) { s.draws = append(s.draws, count) }
