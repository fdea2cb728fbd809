package lcc

import (
	"strings"
	"testing"

	"github.com/Deep-In-Sight/ply2lcc/encode"
	"github.com/Deep-In-Sight/ply2lcc/grid"
)

func TestWriteMetaFieldOrder(t *testing.T) {
	m := MetaInfo{
		GUID:         strings.Repeat("a", 32),
		Name:         "scene",
		SplatsPerLOD: []int{10, 5},
		FileType:     "Quality",
	}
	out := WriteMeta(m)

	order := []string{
		"\"version\"", "\"guid\"", "\"name\"", "\"description\"", "\"source\"",
		"\"dataType\"", "\"totalSplats\"", "\"totalLevel\"", "\"cellLengthX\"",
		"\"cellLengthY\"", "\"indexDataSize\"", "\"offset\"", "\"epsg\"",
		"\"shift\"", "\"scale\"", "\"splats\"", "\"boundingBox\"", "\"encoding\"",
		"\"fileType\"", "\"attributes\"",
	}
	pos := -1
	for _, key := range order {
		idx := strings.Index(out, key)
		if idx < 0 {
			t.Fatalf("missing key %s", key)
		}
		if idx <= pos {
			t.Errorf("key %s out of order", key)
		}
		pos = idx
	}
	if !strings.Contains(out, "\"dataType\": \"DIMENVUE\"") {
		t.Errorf("expected literal dataType DIMENVUE")
	}
}

func TestWriteMetaPortableSHPlaceholder(t *testing.T) {
	m := MetaInfo{FileType: "Portable"}
	out := WriteMeta(m)
	if !strings.Contains(out, "\"name\": \"shcoef\",\n\t\t\t\"min\": [0, 0, 0],\n\t\t\t\"max\": [1, 1, 1]") {
		t.Errorf("expected placeholder shcoef range in Portable mode:\n%s", out)
	}
}

func TestWriteAttrsNoCollider(t *testing.T) {
	out := WriteAttrs(false, "")
	if strings.Contains(out, "collider") {
		t.Errorf("expected no collider clause")
	}
	if !strings.Contains(out, "spawnPoint") {
		t.Errorf("expected spawnPoint")
	}
}

func TestWriteAttrsWithCollider(t *testing.T) {
	out := WriteAttrs(true, "")
	if !strings.Contains(out, `"collider":{"simpleMesh":{"type":"ply","path":"collision.lci"}}`) {
		t.Errorf("expected collider clause, got %s", out)
	}
}

func TestBuildDataAndIndexOffsets(t *testing.T) {
	cells := []encode.CellData{
		{CellID: 1, LOD: 0, Coord: grid.CellCoord{X: 0, Y: 0}, Data: make([]byte, 32), Count: 1},
		{CellID: 2, LOD: 0, Coord: grid.CellCoord{X: 1, Y: 0}, Data: make([]byte, 64), Count: 2},
	}
	data, _, index := BuildDataAndIndex(cells, 1)
	if len(data) != 96 {
		t.Fatalf("expected 96 bytes of data, got %d", len(data))
	}
	if len(index) != 2*indexRecordSize(1) {
		t.Fatalf("expected %d bytes of index, got %d", 2*indexRecordSize(1), len(index))
	}
}

func TestNewGUIDLength(t *testing.T) {
	g := NewGUID()
	if len(g) != 32 {
		t.Errorf("expected 32-char guid, got %d (%s)", len(g), g)
	}
	if strings.Contains(g, "-") {
		t.Errorf("expected no dashes in guid: %s", g)
	}
}

func TestCheckVersionMajorMismatch(t *testing.T) {
	if err := CheckVersion("4.2"); err == nil {
		t.Errorf("expected error for major version mismatch")
	}
	if err := CheckVersion("5.0"); err != nil {
		t.Errorf("expected no error for matching major version: %v", err)
	}
}

func TestValidateMetaRejectsMissingFields(t *testing.T) {
	if err := ValidateMeta(`{}`); err == nil {
		t.Errorf("expected validation error for empty meta")
	}
}
