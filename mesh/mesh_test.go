package mesh

import (
	"os"
	"path/filepath"
	"testing"
)

func writeOBJ(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write obj: %v", err)
	}
}

func TestReadOBJTriangleFan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.obj")
	writeOBJ(t, path, "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n")

	m, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(m.Vertices) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(m.Vertices))
	}
	if len(m.Faces) != 2 {
		t.Fatalf("expected 2 triangles from fan of quad, got %d", len(m.Faces))
	}
	if m.Faces[0] != (Triangle{V0: 0, V1: 1, V2: 2}) {
		t.Errorf("unexpected first triangle: %+v", m.Faces[0])
	}
	if m.Faces[1] != (Triangle{V0: 0, V1: 2, V2: 3}) {
		t.Errorf("unexpected second triangle: %+v", m.Faces[1])
	}
}

func TestReadOBJNegativeIndices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.obj")
	writeOBJ(t, path, "v 0 0 0\nv 1 0 0\nv 1 1 0\nf -3 -2 -1\n")

	m, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(m.Faces) != 1 {
		t.Fatalf("expected 1 triangle, got %d", len(m.Faces))
	}
	if m.Faces[0] != (Triangle{V0: 0, V1: 1, V2: 2}) {
		t.Errorf("negative index resolution wrong: %+v", m.Faces[0])
	}
}

func TestReadOBJSlashTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.obj")
	writeOBJ(t, path, "v 0 0 0\nv 1 0 0\nv 1 1 0\nf 1/1/1 2/2/2 3/3/3\n")

	m, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(m.Faces) != 1 || m.Faces[0] != (Triangle{V0: 0, V1: 1, V2: 2}) {
		t.Errorf("slash-token parsing wrong: %+v", m.Faces)
	}
}

func TestReadUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.stl")
	writeOBJ(t, path, "")
	if _, err := Read(path); err == nil {
		t.Errorf("expected error for unsupported extension")
	}
}
