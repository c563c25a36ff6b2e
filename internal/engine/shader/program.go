// Package shader wraps linked GPU programs with declared vertex inputs and
// validated uniform access.
package shader

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/sheep3d/internal/engine/render"
	"github.com/Faultbox/sheep3d/internal/logger"
	"github.com/Faultbox/sheep3d/pkg/math"
)

var (
	// ErrInvalidAttribute reports a malformed attribute declaration.
	ErrInvalidAttribute = errors.New("shader: invalid attribute declaration")
	// ErrAttributeNotFound reports a declared attribute the linked program lacks.
	ErrAttributeNotFound = errors.New("shader: attribute not found")
	// ErrUniformNotFound reports a uniform the linked program lacks.
	ErrUniformNotFound = errors.New("shader: uniform not found")
)

// Program is a linked shader program plus its declared vertex layout.
type Program struct {
	backend render.Backend
	id      render.ProgramID

	attributes []Attribute
	locations  []uint32
	stride     int32

	uniforms map[string]int32
}

// NewProgram validates the attribute declarations, compiles and links the
// sources, and resolves every attribute. Any failure aborts construction
// and releases the program.
func NewProgram(b render.Backend, vertexSrc, fragmentSrc string, attrs []Attribute) (*Program, error) {
	if err := validateAttributes(attrs); err != nil {
		return nil, err
	}

	id, err := b.CreateProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, errors.Wrap(err, "create shader program")
	}

	p := &Program{
		backend:    b,
		id:         id,
		attributes: append([]Attribute(nil), attrs...),
		locations:  make([]uint32, len(attrs)),
		uniforms:   make(map[string]int32),
	}
	for i, a := range attrs {
		loc := b.AttribLocation(id, a.Name)
		if loc < 0 {
			b.DeleteProgram(id)
			return nil, errors.Wrapf(ErrAttributeNotFound, "%q", a.Name)
		}
		p.locations[i] = uint32(loc)
		p.stride += int32(a.Stride())
	}

	logger.Debug("shader program ready",
		zap.Uint32("program", uint32(id)),
		zap.Int("attributes", len(attrs)),
		zap.Int32("stride", p.stride),
	)
	return p, nil
}

// ID returns the backend program name.
func (p *Program) ID() render.ProgramID { return p.id }

// Attributes returns the declared attributes in order.
func (p *Program) Attributes() []Attribute { return p.attributes }

// Stride returns the bytes per vertex the declared attributes occupy.
func (p *Program) Stride() int { return int(p.stride) }

// Use makes the program current.
func (p *Program) Use() {
	p.backend.UseProgram(p.id)
}

// SetupVertexAttributes points every declared attribute into the bound
// array buffer, interleaved in declaration order.
func (p *Program) SetupVertexAttributes() {
	offset := 0
	for i, a := range p.attributes {
		for s := 0; s < a.slots(); s++ {
			loc := p.locations[i] + uint32(s)
			size := a.Size - s*4
			if size > 4 {
				size = 4
			}
			p.backend.EnableVertexAttrib(loc)
			p.backend.VertexAttribPointer(loc, int32(size), p.stride, offset+s*16)
		}
		offset += a.Stride()
	}
}

// Uniform returns the cached location of the named uniform.
func (p *Program) Uniform(name string) (int32, error) {
	if loc, ok := p.uniforms[name]; ok {
		return loc, nil
	}
	loc := p.backend.UniformLocation(p.id, name)
	if loc < 0 {
		return -1, errors.Wrapf(ErrUniformNotFound, "%q", name)
	}
	p.uniforms[name] = loc
	return loc, nil
}

// MustUniform returns the uniform location for the given name.
// Panics if the uniform is not found (useful for required uniforms).
func (p *Program) MustUniform(name string) int32 {
	loc, err := p.Uniform(name)
	if err != nil {
		panic(fmt.Sprintf("uniform %q not found in program %d", name, p.id))
	}
	return loc
}

func (p *Program) SetUniformMatrix4(name string, m *math.Mat4) error {
	loc, err := p.Uniform(name)
	if err != nil {
		return err
	}
	p.backend.UniformMatrix4(loc, m)
	return nil
}

func (p *Program) SetUniformMatrix3(name string, m *math.Mat3) error {
	loc, err := p.Uniform(name)
	if err != nil {
		return err
	}
	p.backend.UniformMatrix3(loc, m)
	return nil
}

func (p *Program) SetUniformVector3(name string, v math.Vec3) error {
	loc, err := p.Uniform(name)
	if err != nil {
		return err
	}
	p.backend.UniformVector3(loc, v)
	return nil
}

func (p *Program) SetUniformInt(name string, v int32) error {
	loc, err := p.Uniform(name)
	if err != nil {
		return err
	}
	p.backend.UniformInt(loc, v)
	return nil
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.id != 0 {
		p.backend.DeleteProgram(p.id)
		p.id = 0
	}
}
