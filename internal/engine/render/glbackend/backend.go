// Package glbackend implements render.Backend on OpenGL 4.1 core.
package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/sheep3d/internal/engine/render"
	"github.com/Faultbox/sheep3d/internal/logger"
	"github.com/Faultbox/sheep3d/pkg/math"
)

// Config holds backend configuration.
type Config struct {
	ClearColor [4]float32
	CullFaces  bool
}

// DefaultConfig returns a dark blue-gray clear colour with back-face culling.
func DefaultConfig() Config {
	return Config{
		ClearColor: [4]float32{0.1, 0.1, 0.15, 1.0},
		CullFaces:  true,
	}
}

// Backend issues GL calls on the current context.
type Backend struct {
	config Config
	vao    uint32
}

// New initializes OpenGL and sets the default pipeline state.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(cfg Config) (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	if cfg.CullFaces {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])

	b := &Backend{config: cfg}

	// Core profile refuses attribute setup without a bound VAO. Attribute
	// pointers are re-specified before every draw, so one is enough.
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	return b, nil
}

// Close releases the shared vertex array.
func (b *Backend) Close() {
	logger.Info("closing GL backend")
	if b.vao != 0 {
		gl.BindVertexArray(0)
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}

func target(t render.BufferTarget) uint32 {
	if t == render.ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func (b *Backend) CreateBuffer() (render.BufferID, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("failed to create buffer (error 0x%x)", gl.GetError())
	}
	return render.BufferID(id), nil
}

func (b *Backend) DeleteBuffer(id render.BufferID) {
	name := uint32(id)
	gl.DeleteBuffers(1, &name)
}

func (b *Backend) BindBuffer(t render.BufferTarget, id render.BufferID) {
	gl.BindBuffer(target(t), uint32(id))
}

func (b *Backend) BufferFloat32(t render.BufferTarget, data []float32) {
	if len(data) == 0 {
		gl.BufferData(target(t), 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(target(t), len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (b *Backend) BufferUint16(t render.BufferTarget, data []uint16) {
	if len(data) == 0 {
		gl.BufferData(target(t), 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(target(t), len(data)*2, gl.Ptr(data), gl.STATIC_DRAW)
}

// CreateProgram compiles vertex and fragment shaders and links them into a program.
func (b *Backend) CreateProgram(vertexSrc, fragmentSrc string) (render.ProgramID, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	if program == 0 {
		return 0, fmt.Errorf("failed to create shader program (error 0x%x)", gl.GetError())
	}
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", strings.TrimRight(log, "\x00"))
	}

	logger.Debug("shader program linked", zap.Uint32("program", program))
	return render.ProgramID(program), nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, strings.TrimRight(log, "\x00"))
	}

	return shader, nil
}

func (b *Backend) DeleteProgram(id render.ProgramID) {
	gl.DeleteProgram(uint32(id))
}

func (b *Backend) UseProgram(id render.ProgramID) {
	gl.UseProgram(uint32(id))
}

func (b *Backend) AttribLocation(id render.ProgramID, name string) int32 {
	return gl.GetAttribLocation(uint32(id), gl.Str(name+"\x00"))
}

func (b *Backend) UniformLocation(id render.ProgramID, name string) int32 {
	return gl.GetUniformLocation(uint32(id), gl.Str(name+"\x00"))
}

func (b *Backend) EnableVertexAttrib(location uint32) {
	gl.EnableVertexAttribArray(location)
}

func (b *Backend) VertexAttribPointer(location uint32, size int32, strideBytes int32, offsetBytes int) {
	gl.VertexAttribPointerWithOffset(location, size, gl.FLOAT, false, strideBytes, uintptr(offsetBytes))
}

func (b *Backend) UniformMatrix4(location int32, m *math.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, m.Ptr())
}

func (b *Backend) UniformMatrix3(location int32, m *math.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, m.Ptr())
}

func (b *Backend) UniformVector3(location int32, v math.Vec3) {
	gl.Uniform3f(location, v.X, v.Y, v.Z)
}

func (b *Backend) UniformInt(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (b *Backend) DrawArrays(first, count int32) {
	gl.DrawArrays(gl.TRIANGLES, first, count)
}

func (b *Backend) DrawElements(count int32, offsetBytes int) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_SHORT, gl.PtrOffset(offsetBytes))
}

// Clear clears the colour and depth buffers.
func (b *Backend) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Viewport handles window resize.
func (b *Backend) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("viewport resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

var _ render.Backend = (*Backend)(nil)
