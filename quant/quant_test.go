package quant

import (
	"math"
	"testing"

	"github.com/Deep-In-Sight/ply2lcc/geom"
)

func TestEncodeColorRange(t *testing.T) {
	c := EncodeColor(geom.Vec3{X: 0, Y: 0, Z: 0}, 0)
	r := uint8(c & 0xff)
	g := uint8((c >> 8) & 0xff)
	b := uint8((c >> 16) & 0xff)
	a := uint8((c >> 24) & 0xff)
	if r != 127 && r != 128 {
		t.Errorf("expected mid-gray r, got %d", r)
	}
	if g != r || b != r {
		t.Errorf("expected equal channels for zero dc, got r=%d g=%d b=%d", r, g, b)
	}
	if a != 127 && a != 128 {
		t.Errorf("expected mid alpha for zero logit opacity, got %d", a)
	}
}

func TestEncodeScaleMidRange(t *testing.T) {
	logScale := geom.Vec3{X: float32(math.Log(2)), Y: float32(math.Log(2)), Z: float32(math.Log(2))}
	min := geom.Vec3{X: 1, Y: 1, Z: 1}
	max := geom.Vec3{X: 3, Y: 3, Z: 3}
	out := EncodeScale(logScale, min, max)
	want := uint16(0.5*65535.0 + 0.5)
	for i, v := range out {
		if v < want-1 || v > want+1 {
			t.Errorf("component %d = %d, want near %d", i, v, want)
		}
	}
}

func TestEncodeRotationRoundTrip(t *testing.T) {
	cases := []geom.Quat{
		{W: 1, X: 0, Y: 0, Z: 0},
		{W: 0, X: 1, Y: 0, Z: 0},
		{W: 0, X: 0, Y: 1, Z: 0},
		{W: 0, X: 0, Y: 0, Z: 1},
		{W: 0.5, X: 0.5, Y: 0.5, Z: 0.5},
	}
	for _, q := range cases {
		packed := EncodeRotation(q)
		lccIdx := (packed >> 30) & 0x3
		if lccIdx > 3 {
			t.Errorf("invalid lcc idx %d for quat %+v", lccIdx, q)
		}
		d := decodeRotation(packed)
		n := math.Sqrt(float64(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z))
		dot := (float64(q.W)*d[0] + float64(q.X)*d[1] + float64(q.Y)*d[2] + float64(q.Z)*d[3]) / n
		if math.Abs(dot) < 0.9995 {
			t.Errorf("round trip of %+v gave %v, |dot| = %v", q, d, math.Abs(dot))
		}
	}
}

// decodeRotation inverts EncodeRotation: it unpacks the three 10-bit
// components, rebuilds the dropped one from unit length, and returns
// the quaternion in (w,x,y,z) order.
func decodeRotation(packed uint32) [4]float64 {
	lccIdx := int(packed >> 30)
	var comps [3]float64
	sum := 0.0
	for k := 0; k < 3; k++ {
		v := float64((packed>>(10*k))&0x3ff) / 1023.0
		comps[k] = v*sqrt2 - rsqrt2
		sum += comps[k] * comps[k]
	}
	var wxyz [4]float64
	for k, idx := range encodeOrder[lccIdx] {
		wxyz[idx] = comps[k]
	}
	dropped := [4]int{1, 2, 3, 0}[lccIdx]
	wxyz[dropped] = math.Sqrt(math.Max(0, 1-sum))
	return wxyz
}

func TestEncodeSHTripletMidRange(t *testing.T) {
	v := EncodeSHTriplet(0, 0, 0, -1, 1)
	r := v & 0x7ff
	g := (v >> 11) & 0x3ff
	b := (v >> 21) & 0x7ff
	if r < 1023 || r > 1024 {
		t.Errorf("r = %d, want near 1023/1024", r)
	}
	if g < 511 || g > 512 {
		t.Errorf("g = %d, want near 511/512", g)
	}
	if b < 1023 || b > 1024 {
		t.Errorf("b = %d, want near 1023/1024", b)
	}
}

func TestEncodeSHCoefficientsReservedWord(t *testing.T) {
	var fRest [45]float32
	out := EncodeSHCoefficients(fRest, -1, 1)
	if out[15] != 0 {
		t.Errorf("expected reserved word to be zero, got %d", out[15])
	}
}
