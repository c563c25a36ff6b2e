package scene

import (
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/sheep3d/internal/logger"
	"github.com/Faultbox/sheep3d/pkg/math"
)

// ReadGLTF opens a .gltf or .glb file.
func ReadGLTF(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open gltf")
	}
	return ReadGLTFDocument(doc)
}

// ReadGLTFDocument converts the default scene of a decoded document.
// Every triangle primitive becomes its own Mesh; other primitive modes are
// skipped.
func ReadGLTFDocument(doc *gltf.Document) (*Scene, error) {
	r := &gltfReader{doc: doc, meshes: make(map[uint32][]int)}

	s := &Scene{}
	for i, m := range doc.Materials {
		s.Materials = append(s.Materials, r.material(i, m))
	}
	r.scene = s

	root := &Node{Name: "root", Transformation: math.Identity()}
	if len(doc.Scenes) > 0 {
		idx := uint32(0)
		if doc.Scene != nil {
			idx = *doc.Scene
		}
		if int(idx) >= len(doc.Scenes) {
			return nil, errors.Wrapf(ErrInvalidScene, "default scene %d of %d", idx, len(doc.Scenes))
		}
		sc := doc.Scenes[idx]
		root.Name = sc.Name
		for _, n := range sc.Nodes {
			child, err := r.node(n, 0)
			if err != nil {
				return nil, err
			}
			root.Children = append(root.Children, child)
		}
	}
	s.Root = root
	return s, nil
}

type gltfReader struct {
	doc   *gltf.Document
	scene *Scene
	// meshes maps a glTF mesh to the Scene.Meshes built from its primitives.
	meshes map[uint32][]int
}

func (r *gltfReader) node(idx uint32, depth int) (*Node, error) {
	if depth > maxNodeDepth {
		return nil, errors.Wrapf(ErrInvalidScene, "node hierarchy deeper than %d", maxNodeDepth)
	}
	if int(idx) >= len(r.doc.Nodes) {
		return nil, errors.Wrapf(ErrInvalidScene, "node %d of %d", idx, len(r.doc.Nodes))
	}
	n := r.doc.Nodes[idx]
	node := &Node{Name: n.Name, Transformation: nodeMatrix(n)}

	if n.Mesh != nil {
		meshes, err := r.mesh(*n.Mesh)
		if err != nil {
			return nil, err
		}
		node.Meshes = meshes
	}
	for _, c := range n.Children {
		child, err := r.node(c, depth+1)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// nodeMatrix returns the node's matrix, or T*R*S when no matrix is given.
// Decoding fills absent rotation and scale with their glTF defaults, so the
// TRS fields are used as authored; a scale of zero collapses the node.
// Nodes built in code must set Rotation and Scale themselves.
func nodeMatrix(n *gltf.Node) math.Mat4 {
	if n.Matrix != [16]float32{} && n.Matrix != gltf.DefaultMatrix {
		return math.Mat4(n.Matrix)
	}
	rot := math.Quat{X: n.Rotation[0], Y: n.Rotation[1], Z: n.Rotation[2], W: n.Rotation[3]}
	scale := math.Vec3{X: n.Scale[0], Y: n.Scale[1], Z: n.Scale[2]}
	t := math.Vec3{X: n.Translation[0], Y: n.Translation[1], Z: n.Translation[2]}
	return math.FromRotationTranslationScale(rot, t, scale)
}

func (r *gltfReader) mesh(idx uint32) ([]int, error) {
	if built, ok := r.meshes[idx]; ok {
		return built, nil
	}
	if int(idx) >= len(r.doc.Meshes) {
		return nil, errors.Wrapf(ErrInvalidScene, "mesh %d of %d", idx, len(r.doc.Meshes))
	}
	m := r.doc.Meshes[idx]

	var built []int
	for i, p := range m.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			logger.Warn("skipping non-triangle primitive",
				zap.String("mesh", m.Name),
				zap.Int("primitive", i),
			)
			continue
		}
		mesh, err := r.primitive(p)
		if err != nil {
			return nil, errors.Wrapf(err, "mesh %q primitive %d", m.Name, i)
		}
		mesh.Name = m.Name
		built = append(built, len(r.scene.Meshes))
		r.scene.Meshes = append(r.scene.Meshes, mesh)
	}
	r.meshes[idx] = built
	return built, nil
}

func (r *gltfReader) accessor(idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(r.doc.Accessors) {
		return nil, errors.Wrapf(ErrInvalidScene, "accessor %d of %d", idx, len(r.doc.Accessors))
	}
	return r.doc.Accessors[idx], nil
}

func (r *gltfReader) primitive(p *gltf.Primitive) (*Mesh, error) {
	mesh := &Mesh{}

	posIdx, ok := p.Attributes["POSITION"]
	if !ok {
		return nil, errors.Wrap(ErrInvalidScene, "primitive has no POSITION")
	}
	acr, err := r.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(r.doc, acr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "read positions")
	}
	mesh.Vertices = flatten3(positions)

	if idx, ok := p.Attributes["NORMAL"]; ok {
		acr, err := r.accessor(idx)
		if err != nil {
			return nil, err
		}
		normals, err := modeler.ReadNormal(r.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrap(err, "read normals")
		}
		mesh.Normals = flatten3(normals)
	}

	if idx, ok := p.Attributes["TEXCOORD_0"]; ok {
		acr, err := r.accessor(idx)
		if err != nil {
			return nil, err
		}
		uvs, err := modeler.ReadTextureCoord(r.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrap(err, "read texture coordinates")
		}
		mesh.TexCoords = make([]float32, 0, len(uvs)*2)
		for _, uv := range uvs {
			mesh.TexCoords = append(mesh.TexCoords, uv[0], uv[1])
		}
	}

	var indices []uint32
	if p.Indices != nil {
		acr, err := r.accessor(*p.Indices)
		if err != nil {
			return nil, err
		}
		indices, err = modeler.ReadIndices(r.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrap(err, "read indices")
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, errors.Wrapf(ErrInvalidScene, "%d indices is not a whole number of triangles", len(indices))
	}
	mesh.Faces = make([][]uint32, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		mesh.Faces = append(mesh.Faces, indices[i:i+3:i+3])
	}

	mesh.MaterialIndex = -1
	if p.Material != nil {
		mesh.MaterialIndex = int(*p.Material)
	}
	return mesh, nil
}

func (r *gltfReader) material(i int, m *gltf.Material) *Material {
	mat := &Material{Name: m.Name, DiffuseColor: math.Vec3{X: 1, Y: 1, Z: 1}}
	pbr := m.PBRMetallicRoughness
	if pbr == nil {
		return mat
	}
	if c := pbr.BaseColorFactor; c != nil {
		mat.DiffuseColor = math.Vec3{X: c[0], Y: c[1], Z: c[2]}
	}
	if pbr.BaseColorTexture != nil {
		mat.DiffuseTexture = r.textureURI(pbr.BaseColorTexture.Index)
		if mat.DiffuseTexture == "" {
			logger.Debug("material texture is not an external file",
				zap.Int("material", i),
				zap.String("name", m.Name),
			)
		}
	}
	return mat
}

// textureURI returns the external image path of a texture, or "" for
// embedded and data-URI images.
func (r *gltfReader) textureURI(idx uint32) string {
	if int(idx) >= len(r.doc.Textures) {
		return ""
	}
	tex := r.doc.Textures[idx]
	if tex.Source == nil || int(*tex.Source) >= len(r.doc.Images) {
		return ""
	}
	img := r.doc.Images[*tex.Source]
	if img.IsEmbeddedResource() || img.BufferView != nil {
		return ""
	}
	return img.URI
}

func flatten3(v [][3]float32) []float32 {
	out := make([]float32, 0, len(v)*3)
	for _, e := range v {
		out = append(out, e[0], e[1], e[2])
	}
	return out
}
