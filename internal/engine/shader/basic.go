package shader

import (
	_ "embed"

	"github.com/pkg/errors"

	"github.com/Faultbox/sheep3d/internal/engine/camera"
	"github.com/Faultbox/sheep3d/internal/engine/material"
	"github.com/Faultbox/sheep3d/internal/engine/mesh"
	"github.com/Faultbox/sheep3d/internal/engine/render"
	"github.com/Faultbox/sheep3d/internal/engine/transform"
	"github.com/Faultbox/sheep3d/pkg/math"
	"github.com/Faultbox/sheep3d/pkg/pool"
)

// BasicVertexShader is the vertex shader for lit, optionally textured meshes.
//
//go:embed shaders/basic.vert
var BasicVertexShader string

// BasicFragmentShader is the fragment shader for lit, optionally textured meshes.
//
//go:embed shaders/basic.frag
var BasicFragmentShader string

// Uniform and attribute names used by the basic shader sources.
const (
	UniformProjectionViewModel     = "projectionViewModel"
	UniformTransposedInversedModel = "transposedInversedModel"
	UniformDiffuseColor            = "diffuseColor"
	UniformHasTexture              = "hasTexture"
	UniformSampler                 = "sampler"

	AttributePosition      = "position"
	AttributeNormal        = "normal"
	AttributeTextureCoords = "textureCoords"
)

var matrices = pool.New[math.Mat4](10)

// BasicShader draws meshes with a single directional light, the material's
// diffuse colour and, when attached, its diffuse texture.
type BasicShader struct {
	*Program
	Camera *camera.Camera
}

// NewBasicShader compiles the embedded sources against b. Every uniform the
// shader writes is resolved here so a mismatched program fails at
// construction rather than on the first draw.
func NewBasicShader(b render.Backend, cam *camera.Camera) (*BasicShader, error) {
	p, err := NewProgram(b, BasicVertexShader, BasicFragmentShader, []Attribute{
		Vec3(AttributePosition),
		Vec3(AttributeNormal),
		Vec2(AttributeTextureCoords),
	})
	if err != nil {
		return nil, err
	}
	for _, name := range []string{
		UniformProjectionViewModel,
		UniformTransposedInversedModel,
		UniformDiffuseColor,
		UniformHasTexture,
	} {
		if _, err := p.Uniform(name); err != nil {
			p.Delete()
			return nil, errors.Wrap(err, "basic shader")
		}
	}
	return &BasicShader{Program: p, Camera: cam}, nil
}

// Inputs returns the packed vertex layout the shader consumes.
func (s *BasicShader) Inputs() mesh.Layout {
	return mesh.Layout{mesh.Position, mesh.Normal, mesh.TextureCoordinate}
}

// Setup writes the per-draw uniforms for t and activates the material.
func (s *BasicShader) Setup(m *material.Material, t *transform.Transform) error {
	world := t.WorldMatrix(matrices.Next())
	pvw := s.Camera.ProjectionViewWorld(world, matrices.Next())
	if err := s.SetUniformMatrix4(UniformProjectionViewModel, pvw); err != nil {
		return err
	}

	normal := math.NormalMatrix(*world)
	if err := s.SetUniformMatrix3(UniformTransposedInversedModel, &normal); err != nil {
		return err
	}

	color := math.Vec3{X: 1, Y: 1, Z: 1}
	var textured int32
	if m != nil {
		color = m.DiffuseColor
		if m.Textured() {
			textured = 1
		}
	}
	if err := s.SetUniformVector3(UniformDiffuseColor, color); err != nil {
		return err
	}
	if err := s.SetUniformInt(UniformHasTexture, textured); err != nil {
		return err
	}
	if textured == 1 {
		if loc, err := s.Uniform(UniformSampler); err == nil {
			s.backend.UniformInt(loc, 0)
		}
		m.Activate()
	}
	return nil
}
