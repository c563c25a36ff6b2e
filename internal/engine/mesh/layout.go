package mesh

import (
	"fmt"

	"github.com/pkg/errors"
)

// AttributeKind identifies a per-vertex attribute a shader consumes.
type AttributeKind int

const (
	Position AttributeKind = iota
	Normal
	TextureCoordinate
)

// Components returns the number of floats one vertex stores for the kind.
func (k AttributeKind) Components() int {
	switch k {
	case Position, Normal:
		return 3
	case TextureCoordinate:
		return 2
	}
	return 0
}

func (k AttributeKind) String() string {
	switch k {
	case Position:
		return "position"
	case Normal:
		return "normal"
	case TextureCoordinate:
		return "texture_coordinate"
	}
	return fmt.Sprintf("AttributeKind(%d)", int(k))
}

// ParseAttributeKind maps a name such as "position", "normal" or "uv" to its kind.
func ParseAttributeKind(name string) (AttributeKind, error) {
	switch name {
	case "position", "pos":
		return Position, nil
	case "normal":
		return Normal, nil
	case "texture_coordinate", "texcoord", "uv":
		return TextureCoordinate, nil
	}
	return 0, errors.Wrapf(ErrInvalidLayout, "unknown attribute %q", name)
}

// Layout is the ordered list of attributes a shader declares.
// Vertices are interleaved in exactly this order.
type Layout []AttributeKind

// Validate rejects empty layouts, unknown kinds and repeated kinds.
func (l Layout) Validate() error {
	if len(l) == 0 {
		return errors.Wrap(ErrInvalidLayout, "no attributes declared")
	}
	seen := make(map[AttributeKind]bool, len(l))
	for i, k := range l {
		if k.Components() == 0 {
			return errors.Wrapf(ErrInvalidLayout, "attribute %d: unknown kind %d", i, int(k))
		}
		if seen[k] {
			return errors.Wrapf(ErrInvalidLayout, "attribute %d: %s declared twice", i, k)
		}
		seen[k] = true
	}
	return nil
}

// Stride returns the number of floats per interleaved vertex.
func (l Layout) Stride() int {
	n := 0
	for _, k := range l {
		n += k.Components()
	}
	return n
}

// Offset returns the float offset of kind within a vertex, and false if the
// layout does not contain it.
func (l Layout) Offset(kind AttributeKind) (int, bool) {
	off := 0
	for _, k := range l {
		if k == kind {
			return off, true
		}
		off += k.Components()
	}
	return 0, false
}
