package mesh

import (
	"github.com/pkg/errors"
)

// PackOptions controls Pack.
type PackOptions struct {
	// ZeroFillMissing leaves attributes the mesh does not supply as zeros
	// instead of failing with ErrMissingAttribute.
	ZeroFillMissing bool
}

// Packed is an interleaved vertex buffer plus a 16-bit index buffer.
type Packed struct {
	Layout   Layout
	Stride   int // floats per vertex
	Vertices []float32
	Indices  []uint16
}

// Pack interleaves the mesh attributes in layout order and flattens the
// faces into a 16-bit index buffer. The mesh is validated first; nothing is
// packed when it is malformed.
func Pack(m *Mesh, layout Layout, opts PackOptions) (*Packed, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	count := m.VertexCount()
	if !opts.ZeroFillMissing {
		for _, kind := range layout {
			if count > 0 && !m.Has(kind) {
				return nil, errors.Wrapf(ErrMissingAttribute, "layout requires %s", kind)
			}
		}
	}

	stride := layout.Stride()
	vertices := make([]float32, count*stride)

	offset := 0
	for _, kind := range layout {
		n := kind.Components()
		scatter(vertices, m.data(kind), n, stride, offset)
		offset += n
	}

	indices := make([]uint16, len(m.Faces))
	for i, idx := range m.Faces {
		indices[i] = uint16(idx)
	}

	return &Packed{
		Layout:   layout,
		Stride:   stride,
		Vertices: vertices,
		Indices:  indices,
	}, nil
}

// scatter copies n-component values from src into dst at
// vertex*stride + offset.
func scatter(dst, src []float32, n, stride, offset int) {
	for v := 0; v*n < len(src); v++ {
		copy(dst[v*stride+offset:v*stride+offset+n], src[v*n:v*n+n])
	}
}

// VertexCount returns the number of packed vertices.
func (p *Packed) VertexCount() int {
	if p.Stride == 0 {
		return 0
	}
	return len(p.Vertices) / p.Stride
}

// FaceCount returns the number of packed triangles.
func (p *Packed) FaceCount() int {
	return len(p.Indices) / 3
}

// VertexBytes returns the size of the vertex buffer in bytes.
func (p *Packed) VertexBytes() int {
	return len(p.Vertices) * 4
}

// StrideBytes returns the size of one vertex in bytes.
func (p *Packed) StrideBytes() int {
	return p.Stride * 4
}

// Attribute reads one attribute back out of the interleaved buffer.
// It returns nil when the layout does not contain kind.
func (p *Packed) Attribute(kind AttributeKind) []float32 {
	offset, ok := p.Layout.Offset(kind)
	if !ok {
		return nil
	}
	n := kind.Components()
	count := p.VertexCount()
	out := make([]float32, 0, count*n)
	for v := 0; v < count; v++ {
		base := v*p.Stride + offset
		out = append(out, p.Vertices[base:base+n]...)
	}
	return out
}
