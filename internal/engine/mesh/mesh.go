// Package mesh holds raw per-vertex attribute arrays and packs them into
// interleaved, GPU-ready vertex and index buffers.
package mesh

import (
	"github.com/pkg/errors"
)

// MaxVertices is the largest vertex count a 16-bit index buffer can address.
const MaxVertices = 1 << 16

var (
	// ErrInvalidLayout reports a malformed attribute layout.
	ErrInvalidLayout = errors.New("mesh: invalid attribute layout")
	// ErrLengthMismatch reports attribute arrays that disagree on vertex count.
	ErrLengthMismatch = errors.New("mesh: attribute length mismatch")
	// ErrIndexOutOfRange reports a face index that does not name a vertex.
	ErrIndexOutOfRange = errors.New("mesh: face index out of range")
	// ErrTooManyVertices reports a mesh that 16-bit indices cannot address.
	ErrTooManyVertices = errors.New("mesh: too many vertices for 16-bit indices")
	// ErrMissingAttribute reports a layout attribute the mesh does not supply.
	ErrMissingAttribute = errors.New("mesh: missing attribute")
)

// Mesh stores independent, non-interleaved vertex attributes.
type Mesh struct {
	Vertices  []float32 // 3 per vertex
	Normals   []float32 // 3 per vertex
	TexCoords []float32 // 2 per vertex
	Faces     []uint32  // 3 per triangle
}

// VertexCount returns the number of vertices described by Vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Faces) / 3
}

// Has reports whether the mesh supplies data for kind.
func (m *Mesh) Has(kind AttributeKind) bool {
	return len(m.data(kind)) > 0
}

func (m *Mesh) data(kind AttributeKind) []float32 {
	switch kind {
	case Position:
		return m.Vertices
	case Normal:
		return m.Normals
	case TextureCoordinate:
		return m.TexCoords
	}
	return nil
}

// Validate checks the shape of the mesh: whole vertices per array, equal
// vertex counts across populated arrays, whole triangles, in-range indices
// and the 16-bit vertex limit.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return errors.Wrapf(ErrLengthMismatch, "%d position floats is not a multiple of 3", len(m.Vertices))
	}
	count := m.VertexCount()
	if count > MaxVertices {
		return errors.Wrapf(ErrTooManyVertices, "%d vertices, limit %d", count, MaxVertices)
	}

	for _, kind := range []AttributeKind{Normal, TextureCoordinate} {
		data := m.data(kind)
		if len(data) == 0 {
			continue
		}
		n := kind.Components()
		if len(data)%n != 0 {
			return errors.Wrapf(ErrLengthMismatch, "%d %s floats is not a multiple of %d", len(data), kind, n)
		}
		if len(data)/n != count {
			return errors.Wrapf(ErrLengthMismatch, "%d %s values for %d vertices", len(data)/n, kind, count)
		}
	}

	if len(m.Faces)%3 != 0 {
		return errors.Wrapf(ErrLengthMismatch, "%d face indices is not a multiple of 3", len(m.Faces))
	}
	for i, idx := range m.Faces {
		if int(idx) >= count {
			return errors.Wrapf(ErrIndexOutOfRange, "face %d index %d, vertex count %d", i/3, idx, count)
		}
	}
	return nil
}
