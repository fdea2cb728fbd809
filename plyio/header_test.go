package plyio

import "testing"

func buildHeader(t *testing.T, text string) Header {
	t.Helper()
	hdr, err := ParseHeader([]byte(text))
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	return hdr
}

func TestParseHeaderVertexOffsets(t *testing.T) {
	text := "ply\n" +
		"format binary_little_endian 1.0\n" +
		"element vertex 2\n" +
		"property float x\n" +
		"property float y\n" +
		"property float z\n" +
		"property float opacity\n" +
		"end_header\n"

	hdr := buildHeader(t, text)
	el, ok := hdr.FindElement("vertex")
	if !ok {
		t.Fatalf("vertex element not found")
	}
	if el.RowStride != 16 {
		t.Errorf("expected row stride 16, got %d", el.RowStride)
	}
	if off, ok := el.PropertyOffset("opacity"); !ok || off != 12 {
		t.Errorf("expected opacity offset 12, got %d ok=%v", off, ok)
	}
}

func TestParseHeaderRejectsAscii(t *testing.T) {
	text := "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nend_header\n"
	if _, err := ParseHeader([]byte(text)); err == nil {
		t.Errorf("expected error for ascii format")
	}
}

func TestParseHeaderListProperty(t *testing.T) {
	text := "ply\n" +
		"format binary_little_endian 1.0\n" +
		"element vertex 3\n" +
		"property float x\n" +
		"property float y\n" +
		"property float z\n" +
		"element face 1\n" +
		"property list uchar int vertex_indices\n" +
		"end_header\n"
	hdr := buildHeader(t, text)
	face, ok := hdr.FindElement("face")
	if !ok {
		t.Fatalf("face element not found")
	}
	if !face.HasList {
		t.Errorf("expected face element to be flagged HasList")
	}
	if face.RowStride != 0 {
		t.Errorf("expected RowStride 0 for list element, got %d", face.RowStride)
	}
}

func TestHeaderLengthMatchesConsumedBytes(t *testing.T) {
	text := "ply\nformat binary_little_endian 1.0\nelement vertex 1\nproperty float x\nend_header\n"
	hdr := buildHeader(t, text)
	if hdr.HeaderLength != len(text) {
		t.Errorf("expected header length %d, got %d", len(text), hdr.HeaderLength)
	}
}
