package encode

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Deep-In-Sight/ply2lcc/geom"
	"github.com/Deep-In-Sight/ply2lcc/quant"
	"github.com/Deep-In-Sight/ply2lcc/splat"
)

func writeTestPly(t *testing.T, path string) {
	t.Helper()
	header := "ply\nformat binary_little_endian 1.0\nelement vertex 1\n" +
		"property float x\nproperty float y\nproperty float z\n" +
		"property float f_dc_0\nproperty float f_dc_1\nproperty float f_dc_2\n" +
		"property float opacity\n" +
		"property float scale_0\nproperty float scale_1\nproperty float scale_2\n" +
		"property float rot_0\nproperty float rot_1\nproperty float rot_2\nproperty float rot_3\n" +
		"end_header\n"

	vals := []float32{1, 2, 3, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0}
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if _, err := f.Write(buf); err != nil {
		t.Fatalf("write body: %v", err)
	}
}

func TestEncodeSplatRowRecordLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "point_cloud.ply")
	writeTestPly(t, path)

	buf, err := splat.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer buf.Close()

	ranges := geom.NewAttributeRanges()
	ranges.ExpandScale(geom.Vec3{X: 1, Y: 1, Z: 1})
	ranges.ExpandOpacity(0)

	v := buf.At(0)
	data, sh := encodeSplatRow(v, ranges, false)
	if len(data) != 32 {
		t.Fatalf("expected 32-byte record, got %d", len(data))
	}
	if sh != [64]byte{} {
		t.Errorf("expected zeroed sh record when hasSH=false")
	}

	x := readF32(data[0:4])
	if x != 1 {
		t.Errorf("pos.x = %v, want 1", x)
	}
	color := readU32(data[12:16])
	if color != quant.EncodeColor(v.FDC(), v.Opacity()) {
		t.Errorf("color mismatch")
	}
}

func readF32(b []byte) float32 {
	return math.Float32frombits(readU32(b))
}

func readU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
