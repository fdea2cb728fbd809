package splat

import (
	"testing"

	"github.com/Deep-In-Sight/ply2lcc/plyio"
)

func vertexElement(props ...string) plyio.Element {
	text := "ply\nformat binary_little_endian 1.0\nelement vertex 1\n"
	for _, p := range props {
		text += "property float " + p + "\n"
	}
	text += "end_header\n"
	hdr, err := plyio.ParseHeader([]byte(text))
	if err != nil {
		panic(err)
	}
	e, _ := hdr.FindElement("vertex")
	return e
}

func TestBuildPropTableMissingRequired(t *testing.T) {
	e := vertexElement("x", "y", "z")
	if _, err := buildPropTable(e); err == nil {
		t.Errorf("expected error for missing f_dc/opacity/scale/rot")
	}
}

func TestBuildPropTableSHDegree(t *testing.T) {
	props := []string{"x", "y", "z", "f_dc_0", "f_dc_1", "f_dc_2", "opacity",
		"scale_0", "scale_1", "scale_2", "rot_0", "rot_1", "rot_2", "rot_3"}
	for i := 0; i < 9; i++ {
		props = append(props, frestName(i))
	}
	e := vertexElement(props...)
	table, err := buildPropTable(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.NumFRest != 9 {
		t.Errorf("expected 9 f_rest props, got %d", table.NumFRest)
	}
	if table.SHDegree != 1 {
		t.Errorf("expected SH degree 1, got %d", table.SHDegree)
	}
}

func TestFRestNameFormatting(t *testing.T) {
	if frestName(0) != "f_rest_0" {
		t.Errorf("frestName(0) = %s", frestName(0))
	}
	if frestName(44) != "f_rest_44" {
		t.Errorf("frestName(44) = %s", frestName(44))
	}
}
