// Package splat presents a 3DGS PLY vertex element as a zero-copy,
// fixed-stride byte array with a property-offset lookup table, so the
// encoder can read any splat field by pointer arithmetic without
// per-row parsing or allocation.
package splat

import (
	"github.com/Deep-In-Sight/ply2lcc/geom"
)

// PropTable is the byte-offset table built once per PLY at Buffer
// initialization and immutable afterward.
type PropTable struct {
	Pos       int
	Normal    int
	FDC       int
	Opacity   int
	Scale     int
	Rot       int
	FRest     int
	RowStride int
	NumRows   int
	NumFRest  int
	SHDegree  int
	HasNormal bool
}

func computeSHDegree(numFRest int) int {
	switch numFRest {
	case 0:
		return 0
	case 9:
		return 1
	case 24:
		return 2
	case 45:
		return 3
	case 72:
		return 4
	default:
		return 3
	}
}

// View is a zero-copy view into a single splat row.
type View struct {
	row   []byte
	table *PropTable
}

func (v View) f32(offset int) float32 {
	return readFloat32(v.row, offset)
}

// Pos returns the splat position.
func (v View) Pos() geom.Vec3 {
	return geom.Vec3{X: v.f32(v.table.Pos), Y: v.f32(v.table.Pos + 4), Z: v.f32(v.table.Pos + 8)}
}

// Normal returns the splat normal, or the zero vector if the PLY had
// no nx/ny/nz properties.
func (v View) Normal() geom.Vec3 {
	if !v.table.HasNormal {
		return geom.Vec3{}
	}
	return geom.Vec3{X: v.f32(v.table.Normal), Y: v.f32(v.table.Normal + 4), Z: v.f32(v.table.Normal + 8)}
}

// FDC returns the three DC (band-0) SH color coefficients.
func (v View) FDC() geom.Vec3 {
	return geom.Vec3{X: v.f32(v.table.FDC), Y: v.f32(v.table.FDC + 4), Z: v.f32(v.table.FDC + 8)}
}

// Opacity returns the logit-space opacity.
func (v View) Opacity() float32 {
	return v.f32(v.table.Opacity)
}

// Scale returns the log-space scale triple.
func (v View) Scale() geom.Vec3 {
	return geom.Vec3{X: v.f32(v.table.Scale), Y: v.f32(v.table.Scale + 4), Z: v.f32(v.table.Scale + 8)}
}

// Rot returns the (w,x,y,z) quaternion as stored in the PLY.
func (v View) Rot() geom.Quat {
	return geom.Quat{
		W: v.f32(v.table.Rot), X: v.f32(v.table.Rot + 4),
		Y: v.f32(v.table.Rot + 8), Z: v.f32(v.table.Rot + 12),
	}
}

// NumFRest reports how many higher-order SH coefficients this splat
// carries (0, 9, 24, 45 or 72).
func (v View) NumFRest() int { return v.table.NumFRest }

// FRest returns the i'th higher-order SH coefficient.
func (v View) FRest(i int) float32 {
	return v.f32(v.table.FRest + i*4)
}
