package scene

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/Faultbox/sheep3d/pkg/math"
)

// assimp2json document layout. Keys are matched case-insensitively, so
// both "rootnode" and "rootNode" spellings decode.
type assimpScene struct {
	RootNode  *assimpNode      `json:"rootnode"`
	Meshes    []assimpMesh     `json:"meshes"`
	Materials []assimpMaterial `json:"materials"`
}

type assimpNode struct {
	Name           string        `json:"name"`
	Transformation []float32     `json:"transformation"`
	Meshes         []int         `json:"meshes"`
	Children       []*assimpNode `json:"children"`
}

type assimpMesh struct {
	Name          string      `json:"name"`
	MaterialIndex int         `json:"materialindex"`
	Vertices      []float32   `json:"vertices"`
	Normals       []float32   `json:"normals"`
	TextureCoords [][]float32 `json:"texturecoords"`
	Faces         [][]uint32  `json:"faces"`
}

type assimpMaterial struct {
	Properties []assimpProperty `json:"properties"`
}

type assimpProperty struct {
	Key      string          `json:"key"`
	Semantic int             `json:"semantic"`
	Index    int             `json:"index"`
	Value    json.RawMessage `json:"value"`
}

// Material property keys read from assimp materials.
const (
	keyName    = "?mat.name"
	keyDiffuse = "$clr.diffuse"
	keyTexture = "$tex.file"
)

// ReadAssimp decodes an assimp2json scene.
func ReadAssimp(r io.Reader) (*Scene, error) {
	var doc assimpScene
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode assimp json")
	}
	if doc.RootNode == nil {
		return nil, errors.Wrap(ErrInvalidScene, "no root node")
	}

	root, err := readAssimpNode(doc.RootNode, 0)
	if err != nil {
		return nil, err
	}
	s := &Scene{Root: root}

	for _, m := range doc.Meshes {
		mesh := &Mesh{
			Name:          m.Name,
			Vertices:      m.Vertices,
			Normals:       m.Normals,
			Faces:         m.Faces,
			MaterialIndex: m.MaterialIndex,
		}
		// only the first UV channel is used
		if len(m.TextureCoords) > 0 {
			mesh.TexCoords = m.TextureCoords[0]
		}
		s.Meshes = append(s.Meshes, mesh)
	}

	for i, m := range doc.Materials {
		mat, err := readAssimpMaterial(m)
		if err != nil {
			return nil, errors.Wrapf(err, "material %d", i)
		}
		s.Materials = append(s.Materials, mat)
	}
	return s, nil
}

func readAssimpNode(n *assimpNode, depth int) (*Node, error) {
	if depth > maxNodeDepth {
		return nil, errors.Wrapf(ErrInvalidScene, "node hierarchy deeper than %d", maxNodeDepth)
	}
	node := &Node{
		Name:           n.Name,
		Transformation: math.Identity(),
		Meshes:         n.Meshes,
	}
	switch len(n.Transformation) {
	case 0:
	case 16:
		// assimp matrices are row-major
		var m math.Mat4
		copy(m[:], n.Transformation)
		node.Transformation = m.Transpose()
	default:
		return nil, errors.Wrapf(ErrInvalidScene, "node %q: transformation has %d values", n.Name, len(n.Transformation))
	}
	for _, c := range n.Children {
		child, err := readAssimpNode(c, depth+1)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func readAssimpMaterial(m assimpMaterial) (*Material, error) {
	mat := &Material{DiffuseColor: math.Vec3{X: 1, Y: 1, Z: 1}}
	for _, p := range m.Properties {
		switch p.Key {
		case keyName:
			if err := json.Unmarshal(p.Value, &mat.Name); err != nil {
				return nil, errors.Wrap(err, keyName)
			}
		case keyDiffuse:
			var c []float32
			if err := json.Unmarshal(p.Value, &c); err != nil {
				return nil, errors.Wrap(err, keyDiffuse)
			}
			if len(c) < 3 {
				return nil, errors.Errorf("%s: %d components", keyDiffuse, len(c))
			}
			mat.DiffuseColor = math.Vec3{X: c[0], Y: c[1], Z: c[2]}
		case keyTexture:
			// semantic 1 is aiTextureType_DIFFUSE
			if p.Semantic != 0 && p.Semantic != 1 {
				continue
			}
			if err := json.Unmarshal(p.Value, &mat.DiffuseTexture); err != nil {
				return nil, errors.Wrap(err, keyTexture)
			}
		}
	}
	return mat, nil
}
