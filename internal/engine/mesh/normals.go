package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/sheep3d/pkg/math"
)

// smoothEpsilon is the per-axis distance under which two vertices share a
// position.
const smoothEpsilon float32 = 0.001

func (m *Mesh) position(i int) math.Vec3 {
	return math.Vec3{X: m.Vertices[i*3], Y: m.Vertices[i*3+1], Z: m.Vertices[i*3+2]}
}

// ComputeNormals replaces Normals with area-weighted vertex normals built
// from the faces. Vertices no face touches get +Y. The mesh must be valid.
func (m *Mesh) ComputeNormals() {
	count := m.VertexCount()
	sums := make([]math.Vec3, count)
	for f := 0; f+2 < len(m.Faces); f += 3 {
		a, b, c := int(m.Faces[f]), int(m.Faces[f+1]), int(m.Faces[f+2])
		pa := m.position(a)
		// unnormalized: longer cross products weigh larger triangles more
		n := m.position(b).Sub(pa).Cross(m.position(c).Sub(pa))
		sums[a] = sums[a].Add(n)
		sums[b] = sums[b].Add(n)
		sums[c] = sums[c].Add(n)
	}

	m.Normals = make([]float32, count*3)
	for i, s := range sums {
		n := s.Normalize()
		if n.IsZero() {
			n = math.Vec3{Y: 1}
		}
		m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2] = n.X, n.Y, n.Z
	}
}

// SmoothNormals averages normals at vertices sharing a position, hiding
// seams where a mesh duplicates vertices to split texture coordinates.
// Positions closer than smoothEpsilon on every axis count as shared.
func (m *Mesh) SmoothNormals() {
	if len(m.Normals) != len(m.Vertices) {
		return
	}

	for _, idxs := range m.sharedPositions() {
		if len(idxs) < 2 {
			continue
		}
		var sum math.Vec3
		for _, i := range idxs {
			sum = sum.Add(math.Vec3{X: m.Normals[i*3], Y: m.Normals[i*3+1], Z: m.Normals[i*3+2]})
		}
		avg := sum.Normalize()
		if avg.IsZero() {
			continue
		}
		for _, i := range idxs {
			m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2] = avg.X, avg.Y, avg.Z
		}
	}
}

type cell [3]int32

func cellOf(p math.Vec3) cell {
	return cell{
		int32(math32.Floor(p.X / smoothEpsilon)),
		int32(math32.Floor(p.Y / smoothEpsilon)),
		int32(math32.Floor(p.Z / smoothEpsilon)),
	}
}

// sharedPositions groups vertex indices by position. A vertex joins the
// first group whose first vertex lies within smoothEpsilon; candidates are
// looked up in the vertex's grid cell and its neighbours, so points on
// either side of a cell boundary still meet.
func (m *Mesh) sharedPositions() [][]int {
	var groups [][]int
	cells := make(map[cell][]int) // cell -> group ids
	for i := 0; i < m.VertexCount(); i++ {
		p := m.position(i)
		c := cellOf(p)

		group := -1
	search:
		for dx := int32(-1); dx <= 1; dx++ {
			for dy := int32(-1); dy <= 1; dy++ {
				for dz := int32(-1); dz <= 1; dz++ {
					for _, g := range cells[cell{c[0] + dx, c[1] + dy, c[2] + dz}] {
						if near(m.position(groups[g][0]), p) {
							group = g
							break search
						}
					}
				}
			}
		}

		if group < 0 {
			group = len(groups)
			groups = append(groups, nil)
			cells[c] = append(cells[c], group)
		}
		groups[group] = append(groups[group], i)
	}
	return groups
}

func near(a, b math.Vec3) bool {
	return math32.Abs(a.X-b.X) <= smoothEpsilon &&
		math32.Abs(a.Y-b.Y) <= smoothEpsilon &&
		math32.Abs(a.Z-b.Z) <= smoothEpsilon
}
