package collision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Deep-In-Sight/ply2lcc/geom"
)

func writeOBJ(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write obj: %v", err)
	}
}

func TestEncodeSingleCell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.obj")
	writeOBJ(t, path, "v 0 0 0\nv 1 0 0\nv 1 1 0\nf 1 2 3\n")

	bbox := geom.BBox{Min: geom.Vec3{X: 0, Y: 0, Z: 0}, Max: geom.Vec3{X: 10, Y: 10, Z: 10}}
	data, err := Encode(path, 100, 100, bbox)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(data.Cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(data.Cells))
	}
	if data.TotalTriangles() != 1 {
		t.Errorf("expected 1 triangle total, got %d", data.TotalTriangles())
	}
	if len(data.Cells[0].BVHData) != 16+32 {
		t.Errorf("expected 48-byte bvh data for single leaf, got %d", len(data.Cells[0].BVHData))
	}
}

func TestBuildBVHEmptyFaces(t *testing.T) {
	nodes, faces := buildBVH(nil, nil)
	if nodes != nil {
		t.Errorf("expected nil nodes for empty faces")
	}
	if len(faces) != 0 {
		t.Errorf("expected no faces")
	}
}

func TestBuildBVHInternalNodeFlagsZero(t *testing.T) {
	// A 3-quad strip (6 triangles) exceeds maxLeafSize (4), forcing the
	// builder to split and emit at least one internal node.
	path := filepath.Join(t.TempDir(), "strip.obj")
	writeOBJ(t, path, ""+
		"v 0 0 0\nv 1 0 0\nv 2 0 0\nv 3 0 0\n"+
		"v 0 1 0\nv 1 1 0\nv 2 1 0\nv 3 1 0\n"+
		"f 1 2 6\nf 1 6 5\n"+
		"f 2 3 7\nf 2 7 6\n"+
		"f 3 4 8\nf 3 8 7\n")

	m, err := Encode(path, 100, 100, geom.BBox{Min: geom.Vec3{X: 0, Y: 0, Z: 0}, Max: geom.Vec3{X: 10, Y: 10, Z: 10}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if m.TotalTriangles() != 6 {
		t.Fatalf("expected 6 triangles, got %d", m.TotalTriangles())
	}
	if len(m.Cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(m.Cells))
	}

	bvhData := m.Cells[0].BVHData
	nodeCount := (len(bvhData) - 16) / 32
	if nodeCount < 2 {
		t.Fatalf("expected at least one internal node plus leaves, got %d nodes", nodeCount)
	}

	sawInternal := false
	for i := 0; i < nodeCount; i++ {
		rec := bvhData[16+i*32 : 16+(i+1)*32]
		flags := uint16(rec[30]) | uint16(rec[31])<<8
		if flags != leafFlag {
			sawInternal = true
			if flags != 0 {
				t.Errorf("node %d: expected internal node flags == 0, got %d", i, flags)
			}
		}
	}
	if !sawInternal {
		t.Fatalf("expected at least one internal node among %d nodes", nodeCount)
	}
}

func TestPartitionDedupVertices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.obj")
	writeOBJ(t, path, "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3\nf 1 3 4\n")

	bbox := geom.BBox{Min: geom.Vec3{X: 0, Y: 0, Z: 0}, Max: geom.Vec3{X: 10, Y: 10, Z: 10}}
	data, err := Encode(path, 100, 100, bbox)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(data.Cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(data.Cells))
	}
	if len(data.Cells[0].Vertices) != 4 {
		t.Errorf("expected 4 deduplicated vertices, got %d", len(data.Cells[0].Vertices))
	}
}
