package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/sheep3d/pkg/math"
)

func TestComputeNormals(t *testing.T) {
	m := quad()
	m.Normals = nil
	m.Vertices = append(m.Vertices, 5, 5, 5) // unreferenced
	m.TexCoords = append(m.TexCoords, 0, 0)

	m.ComputeNormals()

	assert.Len(t, m.Normals, 15)
	for v := 0; v < 4; v++ {
		assert.InDeltaSlice(t, []float32{0, 0, 1}, m.Normals[v*3:v*3+3], 1e-6, "vertex %d", v)
	}
	assert.Equal(t, []float32{0, 1, 0}, m.Normals[12:15])
}

func TestSmoothNormalsAveragesSharedPositions(t *testing.T) {
	m := &Mesh{
		Vertices: []float32{
			0, 0, 0,
			0, 0, 0,
			1, 0, 0,
		},
		Normals: []float32{
			1, 0, 0,
			0, 1, 0,
			0, 0, 1,
		},
	}
	m.SmoothNormals()

	const h = 0.70710677
	assert.InDeltaSlice(t, []float32{h, h, 0, h, h, 0, 0, 0, 1}, m.Normals, 1e-6)
}

func TestSmoothNormalsGroupsByDistance(t *testing.T) {
	tests := []struct {
		name   string
		a, b   float32
		merged bool
	}{
		{"across a cell boundary", 0.0199, 0.0201, true},
		{"across zero", -0.0004, 0.0004, true},
		{"straddling zero too far apart", -0.0009, 0.0009, false},
		{"apart", 0, 0.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{
				Vertices: []float32{tt.a, 0, 0, tt.b, 0, 0},
				Normals:  []float32{1, 0, 0, 0, 1, 0},
			}
			m.SmoothNormals()
			if tt.merged {
				assert.InDeltaSlice(t, m.Normals[0:3], m.Normals[3:6], 1e-6)
			} else {
				assert.Equal(t, []float32{1, 0, 0, 0, 1, 0}, m.Normals)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	var b Bounds
	assert.True(t, b.Empty())

	b = quad().Bounds(math.Translate(0, 0, 2))
	assert.False(t, b.Empty())
	assert.Equal(t, math.Vec3{Z: 2}, b.Min)
	assert.Equal(t, math.Vec3{X: 1, Y: 1, Z: 2}, b.Max)
	assert.Equal(t, math.Vec3{X: 0.5, Y: 0.5, Z: 2}, b.Center())
	assert.InDelta(t, 0.70710677, b.Radius(), 1e-6)

	var all Bounds
	all.Union(Bounds{})
	assert.True(t, all.Empty())
	all.Union(b)
	all.Extend(math.Vec3{X: -1})
	assert.Equal(t, math.Vec3{X: -1, Z: 2}, all.Min)
}
