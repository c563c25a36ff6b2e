// Package scene reads external scene files into plain node and mesh
// descriptors and builds model hierarchies from them.
package scene

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/sheep3d/internal/logger"
	"github.com/Faultbox/sheep3d/pkg/math"
)

var (
	// ErrUnsupportedFormat reports a file extension no reader handles.
	ErrUnsupportedFormat = errors.New("scene: unsupported format")
	// ErrInvalidScene reports descriptors that cannot be built: dangling
	// mesh or material indices, or faces that are not triangles.
	ErrInvalidScene = errors.New("scene: invalid scene")
)

// Node is one entry of the imported node hierarchy.
type Node struct {
	Name string
	// Transformation is the node's local matrix, column-major.
	Transformation math.Mat4
	// Meshes indexes Scene.Meshes.
	Meshes   []int
	Children []*Node
}

// Mesh holds raw per-vertex arrays as read from the file.
type Mesh struct {
	Name      string
	Vertices  []float32 // 3 per vertex
	Normals   []float32 // 3 per vertex, may be empty
	TexCoords []float32 // 2 per vertex, may be empty
	// Faces lists vertex indices per face; only triangles can be built.
	Faces         [][]uint32
	MaterialIndex int
}

// Material is the subset of a source material the engine uses.
type Material struct {
	Name         string
	DiffuseColor math.Vec3
	// DiffuseTexture is the texture path as written in the file, usually
	// relative to it.
	DiffuseTexture string
}

// Scene is a parsed scene file.
type Scene struct {
	// Source is the path the scene was loaded from, if any.
	Source    string
	Root      *Node
	Meshes    []*Mesh
	Materials []*Material
}

// Walk visits every node depth-first, parents before children.
func (s *Scene) Walk(fn func(n *Node, depth int)) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	if s.Root != nil {
		walk(s.Root, 0)
	}
}

// NodeCount returns the number of nodes in the hierarchy.
func (s *Scene) NodeCount() int {
	n := 0
	s.Walk(func(*Node, int) { n++ })
	return n
}

// ResolveTexture returns the path of a material texture relative to the
// scene file. Absolute paths are returned unchanged.
func (s *Scene) ResolveTexture(m *Material) string {
	if m.DiffuseTexture == "" || filepath.IsAbs(m.DiffuseTexture) || s.Source == "" {
		return m.DiffuseTexture
	}
	return filepath.Join(filepath.Dir(s.Source), filepath.FromSlash(m.DiffuseTexture))
}

// Formats lists the file extensions Load accepts.
var Formats = []string{".json", ".gltf", ".glb"}

// Load reads a scene file, choosing the reader by extension: .json for
// assimp2json exports, .gltf and .glb for glTF 2.0.
func Load(path string) (*Scene, error) {
	var (
		s   *Scene
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open scene")
		}
		defer f.Close()
		s, err = ReadAssimp(f)
	case ".gltf", ".glb":
		s, err = ReadGLTF(path)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", filepath.Ext(path))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	s.Source = path

	logger.Info("scene loaded",
		zap.String("path", path),
		zap.Int("nodes", s.NodeCount()),
		zap.Int("meshes", len(s.Meshes)),
		zap.Int("materials", len(s.Materials)),
	)
	return s, nil
}
