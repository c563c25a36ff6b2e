// sceneinfo loads a scene file without opening a window and reports its
// node hierarchy and how each mesh packs into a vertex layout.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/Faultbox/sheep3d/internal/engine/mesh"
	"github.com/Faultbox/sheep3d/internal/logger"
	"github.com/Faultbox/sheep3d/internal/scene"
)

func main() {
	var (
		dump     = flag.Bool("dump", false, "Dump the parsed scene descriptors")
		layout   = flag.String("layout", "position,normal,uv", "Comma separated vertex layout to pack meshes into")
		zeroFill = flag.Bool("zero-fill", false, "Zero-fill attributes a mesh does not have instead of failing")
		verbose  = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(1)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	l, err := parseLayout(*layout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s, err := scene.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dump {
		dumper().Fdump(os.Stdout, s)
		return
	}

	if failed := report(os.Stdout, s, l, mesh.PackOptions{ZeroFillMissing: *zeroFill}); failed > 0 {
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `sceneinfo - inspect a scene file

Usage:
  sceneinfo [options] <file>

Formats: %s

Options:
`, strings.Join(scene.Formats, ", "))
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, `
Examples:
  sceneinfo models/ship.json
  sceneinfo -layout position,uv models/ship.gltf
  sceneinfo -dump models/box.glb`)
}

func dumper() *spew.ConfigState {
	return &spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
}

// parseLayout parses a comma separated attribute list.
func parseLayout(s string) (mesh.Layout, error) {
	var l mesh.Layout
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kind, err := mesh.ParseAttributeKind(part)
		if err != nil {
			return nil, err
		}
		l = append(l, kind)
	}
	if err := l.Validate(); err != nil {
		return nil, errors.Wrapf(err, "layout %q", s)
	}
	return l, nil
}

// report prints the hierarchy and packing results and returns the number
// of meshes that could not be packed.
func report(w io.Writer, s *scene.Scene, l mesh.Layout, opts mesh.PackOptions) int {
	fmt.Fprintf(w, "Scene: %s\n", s.Source)
	fmt.Fprintf(w, "Nodes: %d  Meshes: %d  Materials: %d\n\n", s.NodeCount(), len(s.Meshes), len(s.Materials))

	fmt.Fprintln(w, "Hierarchy:")
	s.Walk(func(n *scene.Node, depth int) {
		name := n.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(w, "  %s%s", strings.Repeat("  ", depth), name)
		if len(n.Meshes) > 0 {
			fmt.Fprintf(w, " meshes=%v", n.Meshes)
		}
		fmt.Fprintln(w)
	})

	fmt.Fprintf(w, "\nMeshes (layout %s):\n", layoutString(l))
	failed := 0
	for i, d := range s.Meshes {
		fmt.Fprintf(w, "  [%d] %-24s", i, d.Name)
		m, err := d.ToMesh()
		if err == nil {
			fmt.Fprintf(w, " vertices=%-6d faces=%-6d", m.VertexCount(), m.FaceCount())
			var p *mesh.Packed
			if p, err = mesh.Pack(m, l, opts); err == nil {
				fmt.Fprintf(w, " stride=%dB vertexData=%dB indices=%d\n", p.StrideBytes(), p.VertexBytes(), len(p.Indices))
				continue
			}
		}
		failed++
		fmt.Fprintf(w, " ERROR: %v\n", err)
	}

	if len(s.Materials) > 0 {
		fmt.Fprintln(w, "\nMaterials:")
		for i, m := range s.Materials {
			fmt.Fprintf(w, "  [%d] %-24s diffuse=(%.2f, %.2f, %.2f)", i, m.Name, m.DiffuseColor.X, m.DiffuseColor.Y, m.DiffuseColor.Z)
			if tex := s.ResolveTexture(m); tex != "" {
				fmt.Fprintf(w, " texture=%s", tex)
			}
			fmt.Fprintln(w)
		}
	}
	return failed
}

func layoutString(l mesh.Layout) string {
	names := make([]string, len(l))
	for i, k := range l {
		names[i] = k.String()
	}
	return strings.Join(names, ",")
}
