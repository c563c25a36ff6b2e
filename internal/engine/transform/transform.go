// Package transform implements the spatial node hierarchy.
//
// A Transform owns its local position, rotation and scale plus an optional
// node matrix baked in by a scene importer. Parents are weak references:
// a Transform never owns or frees its parent, it only reads it while
// composing world-space values.
package transform

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Faultbox/sheep3d/pkg/math"
)

// MaxDepth bounds how many ancestors a world-space query will walk.
// Chains deeper than this are treated as corrupted (a cycle introduced
// without SetParent) and abort with a panic.
const MaxDepth = 1024

// ErrCycle is returned by SetParent when the new parent is the node itself
// or one of its descendants.
var ErrCycle = errors.New("transform: parent would create a cycle")

// Transform is a node in a parent-pointing tree.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3

	parent *Transform

	// node is pre-multiplied onto the TRS matrix when hasNode is set.
	node    math.Mat4
	hasNode bool
}

// New returns a root transform at the origin with identity rotation and unit scale.
func New() *Transform {
	return &Transform{
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// Parent returns the parent transform, or nil for a root.
func (t *Transform) Parent() *Transform {
	return t.parent
}

// SetParent attaches t under p. Passing nil detaches t and makes it a root.
func (t *Transform) SetParent(p *Transform) error {
	for a, depth := p, 0; a != nil; a, depth = a.parent, depth+1 {
		if a == t {
			return ErrCycle
		}
		if depth >= MaxDepth {
			return errors.Errorf("transform: parent chain deeper than %d", MaxDepth)
		}
	}
	t.parent = p
	return nil
}

// SetNodeMatrix sets the matrix applied before the TRS matrix, typically a
// baked node transformation from an imported scene.
func (t *Transform) SetNodeMatrix(m math.Mat4) {
	t.node = m
	t.hasNode = true
}

// NodeMatrix returns the node matrix and whether one is set.
func (t *Transform) NodeMatrix() (math.Mat4, bool) {
	if !t.hasNode {
		return math.Identity(), false
	}
	return t.node, true
}

// ClearNodeMatrix removes the node matrix.
func (t *Transform) ClearNodeMatrix() {
	t.node = math.Mat4{}
	t.hasNode = false
}

// LocalMatrix returns node * T * R * S for this transform alone.
func (t *Transform) LocalMatrix() math.Mat4 {
	local := math.FromRotationTranslationScale(t.Rotation, t.Position, t.Scale)
	if t.hasNode {
		return t.node.Mul(local)
	}
	return local
}

// WorldMatrix writes parent.World * Local into out and returns it.
// A nil out allocates a new matrix.
func (t *Transform) WorldMatrix(out *math.Mat4) *math.Mat4 {
	if out == nil {
		out = new(math.Mat4)
	}
	*out = t.world(0)
	return out
}

func (t *Transform) world(depth int) math.Mat4 {
	if depth > MaxDepth {
		panic(fmt.Sprintf("transform: world matrix walked more than %d ancestors, hierarchy is cyclic", MaxDepth))
	}
	local := t.LocalMatrix()
	if t.parent == nil {
		return local
	}
	return t.parent.world(depth + 1).Mul(local)
}

// WorldPosition writes the sum of this and every ancestor's local position
// into out and returns it. A nil out allocates a new vector.
//
// Only translations are accumulated: ancestor rotation and scale do not
// affect the result, unlike WorldMatrix. Use WorldMatrix().Translation()
// for the fully transformed origin.
func (t *Transform) WorldPosition(out *math.Vec3) *math.Vec3 {
	if out == nil {
		out = new(math.Vec3)
	}
	*out = t.worldPosition(0)
	return out
}

func (t *Transform) worldPosition(depth int) math.Vec3 {
	if depth > MaxDepth {
		panic(fmt.Sprintf("transform: world position walked more than %d ancestors, hierarchy is cyclic", MaxDepth))
	}
	if t.parent == nil {
		return t.Position
	}
	return t.parent.worldPosition(depth + 1).Add(t.Position)
}

// Forward writes the world-space forward axis (column 2 of the world
// matrix) into out. It is not normalized.
func (t *Transform) Forward(out *math.Vec3) *math.Vec3 {
	if out == nil {
		out = new(math.Vec3)
	}
	*out = t.world(0).Forward()
	return out
}

// Up writes the world-space up axis (column 1 of the world matrix) into out.
func (t *Transform) Up(out *math.Vec3) *math.Vec3 {
	if out == nil {
		out = new(math.Vec3)
	}
	*out = t.world(0).Up()
	return out
}
