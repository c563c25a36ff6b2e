// Package render defines the GPU capabilities the engine depends on and the
// vertex specification that draws packed meshes through them.
package render

import (
	"github.com/Faultbox/sheep3d/pkg/math"
)

// BufferID names a GPU buffer object. Zero is never a valid buffer.
type BufferID uint32

// ProgramID names a linked shader program. Zero is never a valid program.
type ProgramID uint32

// TextureID names a 2D texture. Zero is never a valid texture.
type TextureID uint32

// BufferTarget selects the binding point of a buffer.
type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

func (t BufferTarget) String() string {
	if t == ElementArrayBuffer {
		return "element_array_buffer"
	}
	return "array_buffer"
}

// Backend is the set of side-effecting GPU calls the engine issues.
// Implementations must be used from the thread that owns the context.
type Backend interface {
	CreateBuffer() (BufferID, error)
	DeleteBuffer(id BufferID)
	BindBuffer(target BufferTarget, id BufferID)
	// BufferFloat32 uploads data to the buffer bound at target (static draw).
	BufferFloat32(target BufferTarget, data []float32)
	// BufferUint16 uploads data to the buffer bound at target (static draw).
	BufferUint16(target BufferTarget, data []uint16)

	// CreateProgram compiles and links a vertex and fragment shader.
	CreateProgram(vertexSrc, fragmentSrc string) (ProgramID, error)
	DeleteProgram(id ProgramID)
	UseProgram(id ProgramID)
	// AttribLocation returns -1 when the program has no active attribute name.
	AttribLocation(id ProgramID, name string) int32
	// UniformLocation returns -1 when the program has no active uniform name.
	UniformLocation(id ProgramID, name string) int32
	EnableVertexAttrib(location uint32)
	// VertexAttribPointer describes a float attribute within the bound array buffer.
	VertexAttribPointer(location uint32, size int32, strideBytes int32, offsetBytes int)
	UniformMatrix4(location int32, m *math.Mat4)
	UniformMatrix3(location int32, m *math.Mat3)
	UniformVector3(location int32, v math.Vec3)
	UniformInt(location int32, v int32)

	CreateTexture() (TextureID, error)
	DeleteTexture(id TextureID)
	// UploadTexture stores tightly packed RGBA8 pixels in the texture.
	UploadTexture(id TextureID, width, height int, pixels []byte)
	// BindTexture binds the texture to the given texture unit.
	BindTexture(unit uint32, id TextureID)

	// DrawArrays draws count vertices as triangles starting at first.
	DrawArrays(first, count int32)
	// DrawElements draws count 16-bit indices as triangles from the bound
	// element buffer, starting offsetBytes into it.
	DrawElements(count int32, offsetBytes int)
	Clear()
	Viewport(width, height int)
}

// Shader is what a VertexSpec needs from a program to draw with it.
type Shader interface {
	Use()
	SetupVertexAttributes()
}
