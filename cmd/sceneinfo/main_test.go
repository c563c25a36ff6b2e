package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/sheep3d/internal/engine/mesh"
	"github.com/Faultbox/sheep3d/internal/scene"
)

func TestParseLayout(t *testing.T) {
	l, err := parseLayout("position, uv")
	require.NoError(t, err)
	assert.Equal(t, mesh.Layout{mesh.Position, mesh.TextureCoordinate}, l)
	assert.Equal(t, "position,texture_coordinate", layoutString(l))

	for _, bad := range []string{"", "position,colour", "normal,normal"} {
		_, err := parseLayout(bad)
		assert.True(t, errors.Is(err, mesh.ErrInvalidLayout), "layout %q", bad)
	}
}

func TestReportQuad(t *testing.T) {
	s, err := scene.Load(filepath.Join("..", "..", "internal", "scene", "testdata", "quad.json"))
	require.NoError(t, err)

	var out bytes.Buffer
	failed := report(&out, s, mesh.Layout{mesh.Position, mesh.TextureCoordinate}, mesh.PackOptions{})
	assert.Zero(t, failed)

	text := out.String()
	assert.Contains(t, text, "Nodes: 2  Meshes: 1  Materials: 1")
	assert.Contains(t, text, "    quad meshes=[0]")
	// 4 vertices at 5 floats each
	assert.Contains(t, text, "stride=20B vertexData=80B indices=6")
	assert.Contains(t, text, "Painted")
}

func TestReportCountsFailures(t *testing.T) {
	s := &scene.Scene{
		Root: &scene.Node{Name: "root", Meshes: []int{0, 1}},
		Meshes: []*scene.Mesh{
			{Name: "bare", Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, Faces: [][]uint32{{0, 1, 2}}},
			{Name: "quads", Vertices: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, Faces: [][]uint32{{0, 1, 2, 3}}},
		},
	}
	layout := mesh.Layout{mesh.Position, mesh.Normal}

	var out bytes.Buffer
	assert.Equal(t, 2, report(&out, s, layout, mesh.PackOptions{}))
	assert.Contains(t, out.String(), "missing attribute")

	out.Reset()
	assert.Equal(t, 1, report(&out, s, layout, mesh.PackOptions{ZeroFillMissing: true}))
	assert.Contains(t, out.String(), "stride=24B")
}

func TestDumpIncludesDescriptors(t *testing.T) {
	s := &scene.Scene{Root: &scene.Node{Name: "spewed"}}
	var out bytes.Buffer
	dumper().Fdump(&out, s)
	assert.Contains(t, out.String(), "spewed")
}
