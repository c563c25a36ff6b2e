package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/sheep3d/internal/engine/camera"
	"github.com/Faultbox/sheep3d/internal/engine/material"
	"github.com/Faultbox/sheep3d/internal/engine/mesh"
	"github.com/Faultbox/sheep3d/internal/engine/render"
	"github.com/Faultbox/sheep3d/internal/engine/render/rendertest"
	"github.com/Faultbox/sheep3d/internal/engine/shader"
	"github.com/Faultbox/sheep3d/internal/engine/transform"
	"github.com/Faultbox/sheep3d/pkg/math"
)

// tagShader records the materials it was set up with.
type tagShader struct {
	b      render.Backend
	layout mesh.Layout
	setups []string
	fail   error
}

func (s *tagShader) Use()                   { s.b.UseProgram(1) }
func (s *tagShader) SetupVertexAttributes() {}
func (s *tagShader) Inputs() mesh.Layout    { return s.layout }

func (s *tagShader) Setup(tag string, _ *transform.Transform) error {
	s.setups = append(s.setups, tag)
	return s.fail
}

func quad() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices:  []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		TexCoords: []float32{0, 0, 1, 0, 1, 1, 0, 1},
		Faces:     []uint32{0, 1, 2, 0, 2, 3},
	}
}

func TestNewModelMeshPacksOnce(t *testing.T) {
	rec := rendertest.NewRecorder()
	sh := &tagShader{b: rec, layout: mesh.Layout{mesh.Position, mesh.TextureCoordinate}}

	mm, err := NewModelMesh[string](rec, "stone", sh, quad())
	require.NoError(t, err)

	assert.Equal(t, 5, mm.Packed().Stride)
	assert.Len(t, rec.Live(), 2)
	assert.Equal(t, 1, rec.Count("BufferFloat32"))
	assert.Equal(t, 1, rec.Count("BufferUint16"))

	require.NoError(t, mm.Draw())
	require.NoError(t, mm.Draw())
	assert.Equal(t, 1, rec.Count("BufferFloat32"), "draws must not repack")
	assert.Equal(t, []string{"stone", "stone"}, sh.setups)

	call, ok := rec.Last("DrawElements")
	require.True(t, ok)
	assert.Equal(t, []any{int32(6), 0}, call.Args)
}

func TestNewModelMeshRejectsMissingAttribute(t *testing.T) {
	rec := rendertest.NewRecorder()
	sh := &tagShader{b: rec, layout: mesh.Layout{mesh.Position, mesh.Normal}}
	m := quad()
	m.Normals = nil

	_, err := NewModelMesh[string](rec, "", sh, m)
	assert.True(t, errors.Is(err, mesh.ErrMissingAttribute))
	assert.Empty(t, rec.Live(), "nothing uploaded")

	mm, err := NewModelMeshWithOptions[string](rec, "", sh, m, mesh.PackOptions{ZeroFillMissing: true})
	require.NoError(t, err)
	assert.Equal(t, 6, mm.Packed().Stride)
}

func TestModelMeshDrawSetupFailure(t *testing.T) {
	rec := rendertest.NewRecorder()
	sh := &tagShader{b: rec, layout: mesh.Layout{mesh.Position}, fail: errors.New("boom")}
	mm, err := NewModelMesh[string](rec, "", sh, quad())
	require.NoError(t, err)
	mm.Name = "hull"

	err = mm.Draw()
	assert.ErrorContains(t, err, `setup mesh "hull"`)
	assert.Zero(t, rec.Count("DrawElements"))
}

func TestModelDrawsMeshesInOrder(t *testing.T) {
	rec := rendertest.NewRecorder()
	sh := &tagShader{b: rec, layout: mesh.Layout{mesh.Position}}
	mdl := New[string]("pair")
	assert.NotEqual(t, uuid.Nil, mdl.ID)

	for _, tag := range []string{"first", "second"} {
		mm, err := NewModelMesh[string](rec, tag, sh, quad())
		require.NoError(t, err)
		require.NoError(t, mdl.Add(mm))
		assert.Same(t, mdl.Transform, mm.Transform.Parent())
	}

	require.NoError(t, mdl.Draw())
	assert.Equal(t, []string{"first", "second"}, sh.setups)
	assert.Equal(t, 2, rec.Count("DrawElements"))

	v, f := mdl.Counts()
	assert.Equal(t, 8, v)
	assert.Equal(t, 4, f)

	mdl.Delete()
	assert.Empty(t, rec.Live())
	assert.Empty(t, mdl.Meshes)
}

func TestModelKeepsExistingParent(t *testing.T) {
	rec := rendertest.NewRecorder()
	sh := &tagShader{b: rec, layout: mesh.Layout{mesh.Position}}
	mdl := New[string]("nested")

	node := transform.New()
	require.NoError(t, node.SetParent(mdl.Transform))
	mdl.Nodes = append(mdl.Nodes, node)

	mm, err := NewModelMesh[string](rec, "", sh, quad())
	require.NoError(t, err)
	require.NoError(t, mm.Transform.SetParent(node))
	require.NoError(t, mdl.Add(mm))

	assert.Same(t, node, mm.Transform.Parent())
}

func TestModelBounds(t *testing.T) {
	rec := rendertest.NewRecorder()
	sh := &tagShader{b: rec, layout: mesh.Layout{mesh.Position}}
	mdl := New[string]("moved")
	mdl.Transform.Position = math.Vec3{X: 10}

	mm, err := NewModelMesh[string](rec, "", sh, quad())
	require.NoError(t, err)
	require.NoError(t, mdl.Add(mm))

	b := mdl.Bounds()
	assert.Equal(t, math.Vec3{X: 10}, b.Min)
	assert.Equal(t, math.Vec3{X: 11, Y: 1}, b.Max)
}

func TestModelWithBasicShader(t *testing.T) {
	rec := rendertest.NewRecorder().Declare(
		[]string{shader.AttributePosition, shader.AttributeNormal, shader.AttributeTextureCoords},
		[]string{
			shader.UniformProjectionViewModel,
			shader.UniformTransposedInversedModel,
			shader.UniformDiffuseColor,
			shader.UniformHasTexture,
		},
	)
	cam := camera.NewDefault(640, 480, false)
	sh, err := shader.NewBasicShader(rec, cam)
	require.NoError(t, err)

	mdl := New[*material.Material]("quad")
	mm, err := NewModelMesh[*material.Material](rec, material.New("white"), sh, quad())
	require.NoError(t, err)
	require.NoError(t, mdl.Add(mm))
	mdl.Transform.Position = math.Vec3{Y: -1}

	require.NoError(t, mdl.Draw())

	got, ok := rec.UniformMatrix4Named(shader.UniformProjectionViewModel)
	require.True(t, ok)
	want := cam.ProjectionViewWorld(mm.Transform.WorldMatrix(nil), nil)
	assert.True(t, want.ApproxEqual(got, 1e-5))
	assert.Equal(t, 8, mm.Packed().Stride)
	assert.Equal(t, 3, rec.Count("VertexAttribPointer"))
}
