package scene

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/sheep3d/internal/engine/material"
	"github.com/Faultbox/sheep3d/internal/engine/mesh"
	"github.com/Faultbox/sheep3d/internal/engine/model"
	"github.com/Faultbox/sheep3d/internal/engine/render"
	"github.com/Faultbox/sheep3d/internal/engine/transform"
	"github.com/Faultbox/sheep3d/internal/logger"
)

// maxNodeDepth bounds imported hierarchies so that a mesh transform, its
// node and the model root still fit within transform.MaxDepth.
const maxNodeDepth = transform.MaxDepth - 2

// MaterialConverter turns a scene material into the shader's material type.
// A nil *Material is passed for meshes without one.
type MaterialConverter[M any] func(m *Material) (M, error)

// ToMesh flattens the descriptor into an engine mesh. Every face must be a
// triangle.
func (d *Mesh) ToMesh() (*mesh.Mesh, error) {
	faces := make([]uint32, 0, len(d.Faces)*3)
	for i, f := range d.Faces {
		if len(f) != 3 {
			return nil, errors.Wrapf(ErrInvalidScene, "mesh %q face %d has %d indices", d.Name, i, len(f))
		}
		faces = append(faces, f...)
	}
	return &mesh.Mesh{
		Vertices:  d.Vertices,
		Normals:   d.Normals,
		TexCoords: d.TexCoords,
		Faces:     faces,
	}, nil
}

// Build adds s to mdl: one transform per node carrying the node's
// transformation as its node matrix, parented like the source hierarchy
// under mdl.Transform, and one ModelMesh per mesh reference parented to its
// node. Each material is converted once.
//
// Meshes lacking normals get computed ones, smoothed across vertices
// sharing a position, when the shader reads normals;
// missing texture coordinates are zero-filled. On error nothing is added
// and every buffer created so far is released.
func Build[M any](b render.Backend, s *Scene, sh model.MeshShader[M], convert MaterialConverter[M], mdl *model.Model[M]) error {
	if s.Root == nil {
		return errors.Wrap(ErrInvalidScene, "no root node")
	}
	bld := &builder[M]{
		backend:   b,
		scene:     s,
		shader:    sh,
		convert:   convert,
		materials: make(map[int]M),
	}
	if err := bld.node(s.Root, mdl.Transform, 0); err != nil {
		for _, mm := range bld.meshes {
			mm.Delete()
		}
		return err
	}

	mdl.Nodes = append(mdl.Nodes, bld.nodes...)
	for _, mm := range bld.meshes {
		if err := mdl.Add(mm); err != nil {
			return err
		}
	}
	logger.Info("model built",
		zap.String("model", mdl.Name),
		zap.Int("nodes", len(bld.nodes)),
		zap.Int("meshes", len(bld.meshes)),
	)
	return nil
}

type builder[M any] struct {
	backend render.Backend
	scene   *Scene
	shader  model.MeshShader[M]
	convert MaterialConverter[M]

	materials map[int]M
	nodes     []*transform.Transform
	meshes    []*model.ModelMesh[M]
}

func (b *builder[M]) node(n *Node, parent *transform.Transform, depth int) error {
	if depth > maxNodeDepth {
		return errors.Wrapf(ErrInvalidScene, "node hierarchy deeper than %d", maxNodeDepth)
	}
	t := transform.New()
	t.SetNodeMatrix(n.Transformation)
	if err := t.SetParent(parent); err != nil {
		return err
	}
	b.nodes = append(b.nodes, t)

	for _, idx := range n.Meshes {
		if idx < 0 || idx >= len(b.scene.Meshes) {
			return errors.Wrapf(ErrInvalidScene, "node %q references mesh %d of %d", n.Name, idx, len(b.scene.Meshes))
		}
		mm, err := b.mesh(b.scene.Meshes[idx])
		if err != nil {
			return err
		}
		if err := mm.Transform.SetParent(t); err != nil {
			return err
		}
		b.meshes = append(b.meshes, mm)
	}

	for _, c := range n.Children {
		if err := b.node(c, t, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder[M]) mesh(d *Mesh) (*model.ModelMesh[M], error) {
	m, err := d.ToMesh()
	if err != nil {
		return nil, err
	}
	mat, err := b.material(d.MaterialIndex)
	if err != nil {
		return nil, errors.Wrapf(err, "mesh %q", d.Name)
	}

	layout := b.shader.Inputs()
	var opts mesh.PackOptions
	if _, ok := layout.Offset(mesh.Normal); ok && !m.Has(mesh.Normal) {
		if err := m.Validate(); err != nil {
			return nil, errors.Wrapf(err, "mesh %q", d.Name)
		}
		m.ComputeNormals()
		m.SmoothNormals()
		logger.Debug("computed normals", zap.String("mesh", d.Name))
	}
	if _, ok := layout.Offset(mesh.TextureCoordinate); ok && !m.Has(mesh.TextureCoordinate) {
		opts.ZeroFillMissing = true
	}

	mm, err := model.NewModelMeshWithOptions(b.backend, mat, b.shader, m, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "mesh %q", d.Name)
	}
	mm.Name = d.Name
	return mm, nil
}

func (b *builder[M]) material(idx int) (M, error) {
	if mat, ok := b.materials[idx]; ok {
		return mat, nil
	}
	var src *Material
	switch {
	case idx >= 0 && idx < len(b.scene.Materials):
		src = b.scene.Materials[idx]
	case idx == -1 || len(b.scene.Materials) == 0:
	default:
		var zero M
		return zero, errors.Wrapf(ErrInvalidScene, "material %d of %d", idx, len(b.scene.Materials))
	}
	mat, err := b.convert(src)
	if err != nil {
		var zero M
		return zero, errors.Wrap(err, "convert material")
	}
	b.materials[idx] = mat
	return mat, nil
}

// BasicMaterial converts a scene material into an untextured engine
// material. Attaching textures is left to the caller.
func BasicMaterial(m *Material) (*material.Material, error) {
	if m == nil {
		return material.New("default"), nil
	}
	mat := material.New(m.Name)
	mat.DiffuseColor = m.DiffuseColor
	mat.DiffuseTexture = m.DiffuseTexture
	return mat, nil
}
