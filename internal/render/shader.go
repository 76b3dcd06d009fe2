package render

import (
	"fmt"

	"golang.org/x/mobile/gl"
)

// Attribute slots fixed by the vertex shader's layout qualifiers.
const (
	positionAttrib = 0
	colorAttrib    = 1
)

const vertexShaderSource = `#version 300 es
layout(location = 0) in vec3 position;
layout(location = 1) in vec4 color;

uniform mat4 uTransformation;
uniform float uPointSize;

out vec4 vColor;

void main() {
	gl_Position = uTransformation * vec4(position, 1.0);
	gl_PointSize = uPointSize;
	vColor = color;
}
`

const fragmentShaderSource = `#version 300 es
precision mediump float;

in vec4 vColor;
out vec4 outColor;

void main() {
	outColor = vColor;
}
`

// ShaderError reports a shader that failed to compile or a program that
// failed to link, with the driver's info log.
type ShaderError struct {
	Stage string // "vertex", "fragment" or "link"
	Log   string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("%s shader failed: %s", e.Stage, e.Log)
}

func compileShader(glctx gl.Context, ty gl.Enum, stage, src string) (gl.Shader, error) {
	s := glctx.CreateShader(ty)
	glctx.ShaderSource(s, src)
	glctx.CompileShader(s)
	if glctx.GetShaderi(s, gl.COMPILE_STATUS) == 0 {
		log := glctx.GetShaderInfoLog(s)
		glctx.DeleteShader(s)
		return gl.Shader{}, &ShaderError{Stage: stage, Log: log}
	}
	return s, nil
}

// createProgram compiles and links the point shader pair. The shader
// objects are released once linked.
func createProgram(glctx gl.Context, vertexSrc, fragmentSrc string) (gl.Program, error) {
	vs, err := compileShader(glctx, gl.VERTEX_SHADER, "vertex", vertexSrc)
	if err != nil {
		return gl.Program{}, err
	}
	defer glctx.DeleteShader(vs)

	fs, err := compileShader(glctx, gl.FRAGMENT_SHADER, "fragment", fragmentSrc)
	if err != nil {
		return gl.Program{}, err
	}
	defer glctx.DeleteShader(fs)

	p := glctx.CreateProgram()
	glctx.AttachShader(p, vs)
	glctx.AttachShader(p, fs)
	glctx.LinkProgram(p)
	if glctx.GetProgrami(p, gl.LINK_STATUS) == 0 {
		log := glctx.GetProgramInfoLog(p)
		glctx.DeleteProgram(p)
		return gl.Program{}, &ShaderError{Stage: "link", Log: log}
	}
	return p, nil
}
