// Package rendertest provides a render.Backend that records calls instead
// of talking to a GPU.
package rendertest

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/Faultbox/sheep3d/internal/engine/render"
	"github.com/Faultbox/sheep3d/pkg/math"
)

// Call is one recorded backend call.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// Buffer is the recorded state of a buffer object.
type Buffer struct {
	Floats  []float32
	Indices []uint16
	Deleted bool
}

// Program is the recorded state of a program.
type Program struct {
	VertexSource   string
	FragmentSource string
	Deleted        bool
}

// Texture is the recorded state of a texture.
type Texture struct {
	Width, Height int
	Pixels        []byte
	Deleted       bool
}

// Recorder implements render.Backend in memory.
//
// Attribute and uniform names are resolved against the sets passed to
// Declare; every program sees the same declarations.
type Recorder struct {
	Calls []Call

	// CreateProgramErr, when set, is returned by CreateProgram.
	CreateProgramErr error
	// CreateBufferErr, when set, is returned by CreateBuffer.
	CreateBufferErr error

	Buffers  map[render.BufferID]*Buffer
	Programs map[render.ProgramID]*Program
	Textures map[render.TextureID]*Texture

	Matrix4 map[int32]math.Mat4
	Matrix3 map[int32]math.Mat3
	Vector3 map[int32]math.Vec3
	Int     map[int32]int32

	Bound          map[render.BufferTarget]render.BufferID
	BoundTexture   map[uint32]render.TextureID
	CurrentProgram render.ProgramID
	Enabled        map[uint32]bool

	ViewportWidth, ViewportHeight int

	attributes map[string]int32
	uniforms   map[string]int32
	next       uint32
}

// NewRecorder returns an empty recorder with no declared attributes or uniforms.
func NewRecorder() *Recorder {
	return &Recorder{
		Buffers:      make(map[render.BufferID]*Buffer),
		Programs:     make(map[render.ProgramID]*Program),
		Textures:     make(map[render.TextureID]*Texture),
		Matrix4:      make(map[int32]math.Mat4),
		Matrix3:      make(map[int32]math.Mat3),
		Vector3:      make(map[int32]math.Vec3),
		Int:          make(map[int32]int32),
		Bound:        make(map[render.BufferTarget]render.BufferID),
		BoundTexture: make(map[uint32]render.TextureID),
		Enabled:      make(map[uint32]bool),
		attributes:   make(map[string]int32),
		uniforms:     make(map[string]int32),
	}
}

// Declare makes attribute and uniform names resolvable. Locations are
// assigned in the order given, starting at 0.
func (r *Recorder) Declare(attributes, uniforms []string) *Recorder {
	for _, name := range attributes {
		r.attributes[name] = int32(len(r.attributes))
	}
	for _, name := range uniforms {
		r.uniforms[name] = int32(len(r.uniforms))
	}
	return r
}

// Count returns how many times the named call was recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Last returns the most recent call with the given name.
func (r *Recorder) Last(name string) (Call, bool) {
	for i := len(r.Calls) - 1; i >= 0; i-- {
		if r.Calls[i].Name == name {
			return r.Calls[i], true
		}
	}
	return Call{}, false
}

// Names returns the recorded call names in order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		names[i] = c.Name
	}
	return names
}

// Reset forgets recorded calls but keeps object state.
func (r *Recorder) Reset() {
	r.Calls = nil
}

// Live returns the ids of buffers that have not been deleted, sorted.
func (r *Recorder) Live() []render.BufferID {
	var ids []render.BufferID
	for id, b := range r.Buffers {
		if !b.Deleted {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// UniformMatrix4Named returns the last Matrix4 written to the named uniform.
func (r *Recorder) UniformMatrix4Named(name string) (math.Mat4, bool) {
	loc, ok := r.uniforms[name]
	if !ok {
		return math.Mat4{}, false
	}
	m, ok := r.Matrix4[loc]
	return m, ok
}

// UniformMatrix3Named returns the last Matrix3 written to the named uniform.
func (r *Recorder) UniformMatrix3Named(name string) (math.Mat3, bool) {
	loc, ok := r.uniforms[name]
	if !ok {
		return math.Mat3{}, false
	}
	m, ok := r.Matrix3[loc]
	return m, ok
}

// UniformVector3Named returns the last Vec3 written to the named uniform.
func (r *Recorder) UniformVector3Named(name string) (math.Vec3, bool) {
	loc, ok := r.uniforms[name]
	if !ok {
		return math.Vec3{}, false
	}
	v, ok := r.Vector3[loc]
	return v, ok
}

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) id() uint32 {
	r.next++
	return r.next
}

func (r *Recorder) CreateBuffer() (render.BufferID, error) {
	if r.CreateBufferErr != nil {
		return 0, r.CreateBufferErr
	}
	id := render.BufferID(r.id())
	r.Buffers[id] = &Buffer{}
	r.record("CreateBuffer", id)
	return id, nil
}

func (r *Recorder) DeleteBuffer(id render.BufferID) {
	if b, ok := r.Buffers[id]; ok {
		b.Deleted = true
	}
	r.record("DeleteBuffer", id)
}

func (r *Recorder) BindBuffer(target render.BufferTarget, id render.BufferID) {
	r.Bound[target] = id
	r.record("BindBuffer", target, id)
}

func (r *Recorder) bound(target render.BufferTarget) *Buffer {
	b, ok := r.Buffers[r.Bound[target]]
	if !ok {
		panic(fmt.Sprintf("rendertest: upload to %s with no buffer bound", target))
	}
	return b
}

func (r *Recorder) BufferFloat32(target render.BufferTarget, data []float32) {
	r.bound(target).Floats = append([]float32(nil), data...)
	r.record("BufferFloat32", target, len(data))
}

func (r *Recorder) BufferUint16(target render.BufferTarget, data []uint16) {
	r.bound(target).Indices = append([]uint16(nil), data...)
	r.record("BufferUint16", target, len(data))
}

func (r *Recorder) CreateProgram(vertexSrc, fragmentSrc string) (render.ProgramID, error) {
	if r.CreateProgramErr != nil {
		return 0, errors.Wrap(r.CreateProgramErr, "link")
	}
	id := render.ProgramID(r.id())
	r.Programs[id] = &Program{VertexSource: vertexSrc, FragmentSource: fragmentSrc}
	r.record("CreateProgram", id)
	return id, nil
}

func (r *Recorder) DeleteProgram(id render.ProgramID) {
	if p, ok := r.Programs[id]; ok {
		p.Deleted = true
	}
	r.record("DeleteProgram", id)
}

func (r *Recorder) UseProgram(id render.ProgramID) {
	r.CurrentProgram = id
	r.record("UseProgram", id)
}

func (r *Recorder) AttribLocation(_ render.ProgramID, name string) int32 {
	if loc, ok := r.attributes[name]; ok {
		return loc
	}
	return -1
}

func (r *Recorder) UniformLocation(_ render.ProgramID, name string) int32 {
	if loc, ok := r.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (r *Recorder) EnableVertexAttrib(location uint32) {
	r.Enabled[location] = true
	r.record("EnableVertexAttrib", location)
}

func (r *Recorder) VertexAttribPointer(location uint32, size int32, strideBytes int32, offsetBytes int) {
	r.record("VertexAttribPointer", location, size, strideBytes, offsetBytes)
}

func (r *Recorder) UniformMatrix4(location int32, m *math.Mat4) {
	r.Matrix4[location] = *m
	r.record("UniformMatrix4", location)
}

func (r *Recorder) UniformMatrix3(location int32, m *math.Mat3) {
	r.Matrix3[location] = *m
	r.record("UniformMatrix3", location)
}

func (r *Recorder) UniformVector3(location int32, v math.Vec3) {
	r.Vector3[location] = v
	r.record("UniformVector3", location, v)
}

func (r *Recorder) UniformInt(location int32, v int32) {
	r.Int[location] = v
	r.record("UniformInt", location, v)
}

func (r *Recorder) CreateTexture() (render.TextureID, error) {
	id := render.TextureID(r.id())
	r.Textures[id] = &Texture{}
	r.record("CreateTexture", id)
	return id, nil
}

func (r *Recorder) DeleteTexture(id render.TextureID) {
	if t, ok := r.Textures[id]; ok {
		t.Deleted = true
	}
	r.record("DeleteTexture", id)
}

func (r *Recorder) UploadTexture(id render.TextureID, width, height int, pixels []byte) {
	if t, ok := r.Textures[id]; ok {
		t.Width, t.Height = width, height
		t.Pixels = append([]byte(nil), pixels...)
	}
	r.record("UploadTexture", id, width, height)
}

func (r *Recorder) BindTexture(unit uint32, id render.TextureID) {
	r.BoundTexture[unit] = id
	r.record("BindTexture", unit, id)
}

func (r *Recorder) DrawArrays(first, count int32) {
	r.record("DrawArrays", first, count)
}

func (r *Recorder) DrawElements(count int32, offsetBytes int) {
	r.record("DrawElements", count, offsetBytes)
}

func (r *Recorder) Clear() {
	r.record("Clear")
}

func (r *Recorder) Viewport(width, height int) {
	r.ViewportWidth, r.ViewportHeight = width, height
	r.record("Viewport", width, height)
}

var _ render.Backend = (*Recorder)(nil)
