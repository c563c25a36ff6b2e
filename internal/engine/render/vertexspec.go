package render

import (
	"github.com/pkg/errors"
)

// VertexSpec owns one vertex buffer and one index buffer and draws them
// with a shader.
type VertexSpec struct {
	backend Backend

	vertexBuffer BufferID
	indexBuffer  BufferID
}

// NewVertexSpec creates the vertex and index buffers.
func NewVertexSpec(b Backend) (*VertexSpec, error) {
	vb, err := b.CreateBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "create vertex buffer")
	}
	ib, err := b.CreateBuffer()
	if err != nil {
		b.DeleteBuffer(vb)
		return nil, errors.Wrap(err, "create index buffer")
	}
	return &VertexSpec{backend: b, vertexBuffer: vb, indexBuffer: ib}, nil
}

// VertexBuffer returns the vertex buffer name.
func (v *VertexSpec) VertexBuffer() BufferID { return v.vertexBuffer }

// IndexBuffer returns the index buffer name.
func (v *VertexSpec) IndexBuffer() BufferID { return v.indexBuffer }

// SetVertexData uploads interleaved vertices.
func (v *VertexSpec) SetVertexData(vertices []float32) {
	v.backend.BindBuffer(ArrayBuffer, v.vertexBuffer)
	v.backend.BufferFloat32(ArrayBuffer, vertices)
	v.backend.BindBuffer(ArrayBuffer, 0)
}

// SetIndexData uploads triangle indices.
func (v *VertexSpec) SetIndexData(indices []uint16) {
	v.backend.BindBuffer(ElementArrayBuffer, v.indexBuffer)
	v.backend.BufferUint16(ElementArrayBuffer, indices)
	v.backend.BindBuffer(ElementArrayBuffer, 0)
}

// DrawTriangles draws count triangles from the vertex buffer, skipping the
// first offset triangles.
func (v *VertexSpec) DrawTriangles(s Shader, count, offset int) {
	v.backend.BindBuffer(ArrayBuffer, v.vertexBuffer)

	s.Use()
	s.SetupVertexAttributes()

	v.backend.DrawArrays(int32(offset*3), int32(count*3))
}

// DrawIndexedTriangles draws count triangles from the index buffer,
// skipping the first offset triangles. The backend takes a byte offset
// into 16-bit indices.
func (v *VertexSpec) DrawIndexedTriangles(s Shader, count, offset int) {
	v.backend.BindBuffer(ArrayBuffer, v.vertexBuffer)
	v.backend.BindBuffer(ElementArrayBuffer, v.indexBuffer)

	s.Use()
	s.SetupVertexAttributes()

	v.backend.DrawElements(int32(count*3), offset*3*2)
}

// Delete releases both buffers. The spec must not be drawn afterwards.
func (v *VertexSpec) Delete() {
	if v.vertexBuffer != 0 {
		v.backend.DeleteBuffer(v.vertexBuffer)
		v.vertexBuffer = 0
	}
	if v.indexBuffer != 0 {
		v.backend.DeleteBuffer(v.indexBuffer)
		v.indexBuffer = 0
	}
}
