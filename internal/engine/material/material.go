// Package material holds the per-mesh surface description shaders consume.
package material

import (
	"github.com/Faultbox/sheep3d/pkg/math"
)

// Binder is anything that can make itself current before a draw,
// typically a texture.
type Binder interface {
	Bind()
}

// Material describes how a mesh surface is shaded.
type Material struct {
	Name         string
	DiffuseColor math.Vec3

	// DiffuseTexture is the texture path as named by the source scene.
	DiffuseTexture string
	// Texture is bound on Activate when set. The caller attaches it after
	// loading DiffuseTexture.
	Texture Binder
}

// New returns a white, untextured material.
func New(name string) *Material {
	return &Material{
		Name:         name,
		DiffuseColor: math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// Textured reports whether a texture is attached.
func (m *Material) Textured() bool {
	return m.Texture != nil
}

// Activate binds the attached texture, if any.
func (m *Material) Activate() {
	if m.Texture != nil {
		m.Texture.Bind()
	}
}
