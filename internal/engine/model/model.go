// Package model groups packed, uploaded meshes under a transform hierarchy
// and draws them with a mesh shader.
package model

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/sheep3d/internal/engine/mesh"
	"github.com/Faultbox/sheep3d/internal/engine/render"
	"github.com/Faultbox/sheep3d/internal/engine/transform"
	"github.com/Faultbox/sheep3d/internal/logger"
)

// MeshShader is a shader that can draw a mesh with material type M.
type MeshShader[M any] interface {
	render.Shader
	// Inputs is the vertex layout meshes are packed into.
	Inputs() mesh.Layout
	// Setup writes per-draw state for the material and transform.
	Setup(material M, t *transform.Transform) error
}

// ModelMesh is one mesh packed for a shader, with its own transform.
type ModelMesh[M any] struct {
	Name      string
	Material  M
	Shader    MeshShader[M]
	Mesh      *mesh.Mesh
	Transform *transform.Transform

	packed *mesh.Packed
	spec   *render.VertexSpec
}

// NewModelMesh packs m for shader and uploads it. A mesh that does not
// satisfy the shader's layout is rejected.
func NewModelMesh[M any](b render.Backend, material M, shader MeshShader[M], m *mesh.Mesh) (*ModelMesh[M], error) {
	return NewModelMeshWithOptions(b, material, shader, m, mesh.PackOptions{})
}

// NewModelMeshWithOptions is NewModelMesh with explicit packing options.
func NewModelMeshWithOptions[M any](b render.Backend, material M, shader MeshShader[M], m *mesh.Mesh, opts mesh.PackOptions) (*ModelMesh[M], error) {
	packed, err := mesh.Pack(m, shader.Inputs(), opts)
	if err != nil {
		return nil, errors.Wrap(err, "pack mesh")
	}
	spec, err := render.NewVertexSpec(b)
	if err != nil {
		return nil, err
	}
	spec.SetIndexData(packed.Indices)
	spec.SetVertexData(packed.Vertices)

	logger.Debug("model mesh uploaded",
		zap.Int("vertices", packed.VertexCount()),
		zap.Int("faces", packed.FaceCount()),
		zap.Int("stride", packed.StrideBytes()),
	)

	return &ModelMesh[M]{
		Material:  material,
		Shader:    shader,
		Mesh:      m,
		Transform: transform.New(),
		packed:    packed,
		spec:      spec,
	}, nil
}

// Packed returns the buffers that were uploaded.
func (mm *ModelMesh[M]) Packed() *mesh.Packed { return mm.packed }

// Draw sets up the shader for this mesh and issues an indexed draw.
func (mm *ModelMesh[M]) Draw() error {
	mm.Shader.Use()
	if err := mm.Shader.Setup(mm.Material, mm.Transform); err != nil {
		return errors.Wrapf(err, "setup mesh %q", mm.Name)
	}
	mm.spec.DrawIndexedTriangles(mm.Shader, mm.packed.FaceCount(), 0)
	return nil
}

// Delete releases the GPU buffers.
func (mm *ModelMesh[M]) Delete() {
	mm.spec.Delete()
}

// Model is an ordered set of meshes rooted at one transform.
type Model[M any] struct {
	ID        uuid.UUID
	Name      string
	Transform *transform.Transform
	// Nodes are the scene-graph transforms between Transform and the
	// mesh transforms, parents before children.
	Nodes  []*transform.Transform
	Meshes []*ModelMesh[M]
}

// New returns an empty model with a fresh ID.
func New[M any](name string) *Model[M] {
	return &Model[M]{
		ID:        uuid.New(),
		Name:      name,
		Transform: transform.New(),
	}
}

// Add appends mm. A mesh whose transform has no parent is attached to the
// model root.
func (m *Model[M]) Add(mm *ModelMesh[M]) error {
	if mm.Transform.Parent() == nil {
		if err := mm.Transform.SetParent(m.Transform); err != nil {
			return err
		}
	}
	m.Meshes = append(m.Meshes, mm)
	return nil
}

// Draw draws every mesh in order, stopping at the first failure.
func (m *Model[M]) Draw() error {
	for _, mm := range m.Meshes {
		if err := mm.Draw(); err != nil {
			return err
		}
	}
	return nil
}

// Bounds returns the world-space box around every mesh.
func (m *Model[M]) Bounds() mesh.Bounds {
	var b mesh.Bounds
	for _, mm := range m.Meshes {
		b.Union(mm.Mesh.Bounds(*mm.Transform.WorldMatrix(nil)))
	}
	return b
}

// Counts returns the total vertex and face counts over all meshes.
func (m *Model[M]) Counts() (vertices, faces int) {
	for _, mm := range m.Meshes {
		vertices += mm.packed.VertexCount()
		faces += mm.packed.FaceCount()
	}
	return vertices, faces
}

// Delete releases every mesh.
func (m *Model[M]) Delete() {
	for _, mm := range m.Meshes {
		mm.Delete()
	}
	logger.Debug("model deleted", zap.String("model", m.Name), zap.Stringer("id", m.ID))
	m.Meshes = nil
}
