// Package quant implements the fixed-point quantization formulas that
// turn floating-point splat attributes into the byte layouts defined
// by the container format: packed RGBA color, normalized scale,
// 10-10-10-2 packed rotation, and 11-10-11 packed SH triplets.
package quant

import (
	"math"

	"github.com/Deep-In-Sight/ply2lcc/geom"
)

// shC0 is the degree-0 spherical harmonic basis constant used to
// convert the f_dc term into a display color.
const shC0 = 0.28209479177387814

const (
	rsqrt2 = 0.7071067811865475
	sqrt2  = 1.414213562373095
)

func quantizeToRGB(dc float32) uint8 {
	color := 0.5 + shC0*dc
	color = geom.Clamp(color, 0, 1)
	return uint8(color*255.0 + 0.5)
}

// EncodeColor packs the DC SH term and opacity into a little-endian
// RGBA uint32 (R in the lowest byte, A in the highest).
func EncodeColor(fdc geom.Vec3, opacity float32) uint32 {
	r := quantizeToRGB(fdc.X)
	g := quantizeToRGB(fdc.Y)
	b := quantizeToRGB(fdc.Z)
	a := uint8(geom.Clamp(geom.Sigmoid(opacity), 0, 1)*255.0 + 0.5)
	return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

// EncodeScale normalizes a log-space scale triple against the
// per-dimension linear-space [min,max] range and quantizes each
// component to a uint16.
func EncodeScale(logScale, scaleMin, scaleMax geom.Vec3) [3]uint16 {
	var out [3]uint16
	logs := [3]float32{logScale.X, logScale.Y, logScale.Z}
	mins := [3]float32{scaleMin.X, scaleMin.Y, scaleMin.Z}
	maxs := [3]float32{scaleMax.X, scaleMax.Y, scaleMax.Z}
	for i := 0; i < 3; i++ {
		linear := float32(math.Exp(float64(logs[i])))
		rng := maxs[i] - mins[i]
		var normalized float32
		if rng > 0 {
			normalized = (linear - mins[i]) / rng
		}
		normalized = geom.Clamp(normalized, 0, 1)
		out[i] = uint16(normalized*65535.0 + 0.5)
	}
	return out
}

// wxyzToLccIdx maps the index of the dropped component in (w,x,y,z)
// order to its slot in (x,y,z,w) order.
var wxyzToLccIdx = [4]int{3, 0, 1, 2}

// encodeOrder[lccIdx] lists, for each destination index, which three
// of (w,x,y,z) are emitted and in what order.
var encodeOrder = [4][3]int{
	{2, 3, 0}, // lcc idx 0: emit y, z, w
	{1, 3, 0}, // lcc idx 1: emit x, z, w
	{1, 2, 0}, // lcc idx 2: emit x, y, w
	{1, 2, 3}, // lcc idx 3: emit x, y, z
}

func encodeRotComponent(v float64) uint32 {
	normalized := (v + rsqrt2) / sqrt2
	normalized = clampF64(normalized, 0, 1)
	return uint32(normalized*1023.0 + 0.5)
}

func clampF64(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// EncodeRotation packs a (w,x,y,z) quaternion using the "smallest
// three" 10-10-10-2 scheme: normalize, find the largest-magnitude
// component, ensure it is positive, drop it, and pack the remaining
// three scaled from [-1/sqrt2, 1/sqrt2] to [0,1023].
func EncodeRotation(rot geom.Quat) uint32 {
	w, x, y, z := float64(rot.W), float64(rot.X), float64(rot.Y), float64(rot.Z)

	length := math.Sqrt(w*w + x*x + y*y + z*z)
	if length > 0 {
		w /= length
		x /= length
		y /= length
		z /= length
	}

	wxyz := [4]float64{w, x, y, z}
	maxIdx := 0
	for i := 1; i < 4; i++ {
		if math.Abs(wxyz[i]) > math.Abs(wxyz[maxIdx]) {
			maxIdx = i
		}
	}
	if wxyz[maxIdx] < 0 {
		w, x, y, z = -w, -x, -y, -z
		wxyz = [4]float64{w, x, y, z}
	}

	lccIdx := wxyzToLccIdx[maxIdx]
	order := encodeOrder[lccIdx]

	p0 := encodeRotComponent(wxyz[order[0]])
	p1 := encodeRotComponent(wxyz[order[1]])
	p2 := encodeRotComponent(wxyz[order[2]])

	return p0 | p1<<10 | p2<<20 | uint32(lccIdx)<<30
}

// EncodeSHTriplet packs one band's RGB coefficients into an
// 11-10-11-bit uint32, normalized against a scalar min/max collapsed
// across channels (per spec.md §4.3 / §9).
func EncodeSHTriplet(r, g, b, shMin, shMax float32) uint32 {
	rng := shMax - shMin
	normalize := func(v float32) float32 {
		if rng <= 0 {
			return 0.5
		}
		return geom.Clamp((v-shMin)/rng, 0, 1)
	}
	rEnc := uint32(normalize(r)*2047.0 + 0.5)
	gEnc := uint32(normalize(g)*1023.0 + 0.5)
	bEnc := uint32(normalize(b)*2047.0 + 0.5)
	return rEnc | gEnc<<11 | bEnc<<21
}

// EncodeSHCoefficients packs 45 f_rest values (15 bands of RGB,
// grouped [R1..R15, G1..G15, B1..B15]) into 16 uint32s (64 bytes);
// the 16th word is reserved zero.
func EncodeSHCoefficients(fRest [45]float32, shMin, shMax float32) [16]uint32 {
	var out [16]uint32
	rCoeffs := fRest[0:15]
	gCoeffs := fRest[15:30]
	bCoeffs := fRest[30:45]
	for i := 0; i < 15; i++ {
		out[i] = EncodeSHTriplet(rCoeffs[i], gCoeffs[i], bCoeffs[i], shMin, shMax)
	}
	out[15] = 0
	return out
}
