package shader

import (
	"github.com/pkg/errors"
)

// MaxAttributeSize is the largest attribute, a 4x4 matrix.
const MaxAttributeSize = 16

// Attribute declares one per-vertex float input of a program.
type Attribute struct {
	Name string
	Size int // float components
}

func Float(name string) Attribute { return Attribute{Name: name, Size: 1} }
func Vec2(name string) Attribute  { return Attribute{Name: name, Size: 2} }
func Vec3(name string) Attribute  { return Attribute{Name: name, Size: 3} }
func Vec4(name string) Attribute  { return Attribute{Name: name, Size: 4} }
func Mat4(name string) Attribute  { return Attribute{Name: name, Size: 16} }

// Stride returns the size of the attribute in bytes.
func (a Attribute) Stride() int {
	return a.Size * 4
}

// slots returns how many attribute locations the input occupies. GL caps a
// single location at 4 components, so larger inputs span consecutive ones.
func (a Attribute) slots() int {
	return (a.Size + 3) / 4
}

func validateAttributes(attrs []Attribute) error {
	if len(attrs) == 0 {
		return errors.Wrap(ErrInvalidAttribute, "no attributes declared")
	}
	seen := make(map[string]bool, len(attrs))
	for i, a := range attrs {
		if a.Name == "" {
			return errors.Wrapf(ErrInvalidAttribute, "attribute %d has no name", i)
		}
		if a.Size < 1 || a.Size > MaxAttributeSize {
			return errors.Wrapf(ErrInvalidAttribute, "attribute %q has size %d", a.Name, a.Size)
		}
		if a.Size > 4 && a.Size%4 != 0 {
			return errors.Wrapf(ErrInvalidAttribute, "attribute %q has size %d, not a whole number of vec4 columns", a.Name, a.Size)
		}
		if seen[a.Name] {
			return errors.Wrapf(ErrInvalidAttribute, "attribute %q declared twice", a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}
