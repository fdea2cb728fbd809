// Package geom provides the small set of value types shared by every
// stage of the pipeline: 3-vectors, quaternions and axis-aligned
// bounding boxes.
package geom

import "math"

// Vec3 is a three-component float32 vector addressable by axis index.
type Vec3 struct {
	X, Y, Z float32
}

// At returns the i'th component (0=X, 1=Y, 2=Z).
func (v Vec3) At(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Quat is a quaternion stored in (w, x, y, z) order, matching the PLY
// rot_0..rot_3 property order.
type Quat struct {
	W, X, Y, Z float32
}

// BBox is an axis-aligned bounding box. The zero value is NOT empty;
// use NewEmptyBBox to get an invertible min/max pair ready for Expand.
type BBox struct {
	Min, Max Vec3
}

// NewEmptyBBox returns a box initialized to (+MaxFloat32, -MaxFloat32)
// so the first Expand call establishes real bounds.
func NewEmptyBBox() BBox {
	return BBox{
		Min: Vec3{X: math.MaxFloat32, Y: math.MaxFloat32, Z: math.MaxFloat32},
		Max: Vec3{X: -math.MaxFloat32, Y: -math.MaxFloat32, Z: -math.MaxFloat32},
	}
}

// Expand grows the box to include p.
func (b *BBox) Expand(p Vec3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}

// ExpandBox grows the box to include other.
func (b *BBox) ExpandBox(other BBox) {
	if other.Min.X < b.Min.X {
		b.Min.X = other.Min.X
	}
	if other.Min.Y < b.Min.Y {
		b.Min.Y = other.Min.Y
	}
	if other.Min.Z < b.Min.Z {
		b.Min.Z = other.Min.Z
	}
	if other.Max.X > b.Max.X {
		b.Max.X = other.Max.X
	}
	if other.Max.Y > b.Max.Y {
		b.Max.Y = other.Max.Y
	}
	if other.Max.Z > b.Max.Z {
		b.Max.Z = other.Max.Z
	}
}

// Sigmoid maps logit-space opacity to [0,1].
func Sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(-float64(x))))
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// AttributeRanges aggregates commutative min/max ranges across an
// entire splat set (or one worker's slice of it); callers merge two
// instances pairwise with Merge.
type AttributeRanges struct {
	ScaleMin, ScaleMax Vec3 // linear-space, after exp()
	SHMin, SHMax       Vec3
	OpacityMin         float32
	OpacityMax         float32
}

// NewAttributeRanges returns a range accumulator ready for ExpandX calls.
func NewAttributeRanges() AttributeRanges {
	max := Vec3{X: math.MaxFloat32, Y: math.MaxFloat32, Z: math.MaxFloat32}
	lowest := Vec3{X: -math.MaxFloat32, Y: -math.MaxFloat32, Z: -math.MaxFloat32}
	return AttributeRanges{
		ScaleMin:   max,
		ScaleMax:   lowest,
		SHMin:      max,
		SHMax:      lowest,
		OpacityMin: math.MaxFloat32,
		OpacityMax: -math.MaxFloat32,
	}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// ExpandScale folds a linear-space scale triple into the range.
func (r *AttributeRanges) ExpandScale(linearScale Vec3) {
	r.ScaleMin.X = minf(r.ScaleMin.X, linearScale.X)
	r.ScaleMin.Y = minf(r.ScaleMin.Y, linearScale.Y)
	r.ScaleMin.Z = minf(r.ScaleMin.Z, linearScale.Z)
	r.ScaleMax.X = maxf(r.ScaleMax.X, linearScale.X)
	r.ScaleMax.Y = maxf(r.ScaleMax.Y, linearScale.Y)
	r.ScaleMax.Z = maxf(r.ScaleMax.Z, linearScale.Z)
}

// ExpandSH folds one SH band's RGB triplet into the range.
func (r *AttributeRanges) ExpandSH(red, green, blue float32) {
	r.SHMin.X = minf(r.SHMin.X, red)
	r.SHMin.Y = minf(r.SHMin.Y, green)
	r.SHMin.Z = minf(r.SHMin.Z, blue)
	r.SHMax.X = maxf(r.SHMax.X, red)
	r.SHMax.Y = maxf(r.SHMax.Y, green)
	r.SHMax.Z = maxf(r.SHMax.Z, blue)
}

// ExpandOpacity folds a sigmoid-space opacity value into the range.
func (r *AttributeRanges) ExpandOpacity(sigmoidOpacity float32) {
	if sigmoidOpacity < r.OpacityMin {
		r.OpacityMin = sigmoidOpacity
	}
	if sigmoidOpacity > r.OpacityMax {
		r.OpacityMax = sigmoidOpacity
	}
}

// Merge folds other into r; used to combine thread-local accumulators.
func (r *AttributeRanges) Merge(other AttributeRanges) {
	r.ScaleMin.X = minf(r.ScaleMin.X, other.ScaleMin.X)
	r.ScaleMin.Y = minf(r.ScaleMin.Y, other.ScaleMin.Y)
	r.ScaleMin.Z = minf(r.ScaleMin.Z, other.ScaleMin.Z)
	r.ScaleMax.X = maxf(r.ScaleMax.X, other.ScaleMax.X)
	r.ScaleMax.Y = maxf(r.ScaleMax.Y, other.ScaleMax.Y)
	r.ScaleMax.Z = maxf(r.ScaleMax.Z, other.ScaleMax.Z)

	r.SHMin.X = minf(r.SHMin.X, other.SHMin.X)
	r.SHMin.Y = minf(r.SHMin.Y, other.SHMin.Y)
	r.SHMin.Z = minf(r.SHMin.Z, other.SHMin.Z)
	r.SHMax.X = maxf(r.SHMax.X, other.SHMax.X)
	r.SHMax.Y = maxf(r.SHMax.Y, other.SHMax.Y)
	r.SHMax.Z = maxf(r.SHMax.Z, other.SHMax.Z)

	r.OpacityMin = minf(r.OpacityMin, other.OpacityMin)
	r.OpacityMax = maxf(r.OpacityMax, other.OpacityMax)
}

// SHScalarRange collapses the per-channel SH range to the scalar
// min/max the 11-10-11 packer normalizes against (spec requires the
// scalar collapse across channels, not a per-channel range).
func (r AttributeRanges) SHScalarRange() (min, max float32) {
	min = minf(minf(r.SHMin.X, r.SHMin.Y), r.SHMin.Z)
	max = maxf(maxf(r.SHMax.X, r.SHMax.Y), r.SHMax.Z)
	return min, max
}

// EnvBounds tracks the separate position/SH/scale ranges used when
// encoding an environment splat set, which is not part of the grid.
type EnvBounds struct {
	PosBox    BBox
	SHMin     Vec3
	SHMax     Vec3
	ScaleMin  Vec3
	ScaleMax  Vec3
}

// NewEnvBounds returns an accumulator ready for ExpandX calls.
func NewEnvBounds() EnvBounds {
	max := Vec3{X: math.MaxFloat32, Y: math.MaxFloat32, Z: math.MaxFloat32}
	lowest := Vec3{X: -math.MaxFloat32, Y: -math.MaxFloat32, Z: -math.MaxFloat32}
	return EnvBounds{
		PosBox:   NewEmptyBBox(),
		SHMin:    max,
		SHMax:    lowest,
		ScaleMin: max,
		ScaleMax: lowest,
	}
}

func (e *EnvBounds) ExpandPos(p Vec3) { e.PosBox.Expand(p) }

func (e *EnvBounds) ExpandSH(red, green, blue float32) {
	e.SHMin.X = minf(e.SHMin.X, red)
	e.SHMin.Y = minf(e.SHMin.Y, green)
	e.SHMin.Z = minf(e.SHMin.Z, blue)
	e.SHMax.X = maxf(e.SHMax.X, red)
	e.SHMax.Y = maxf(e.SHMax.Y, green)
	e.SHMax.Z = maxf(e.SHMax.Z, blue)
}

func (e *EnvBounds) ExpandScale(s Vec3) {
	e.ScaleMin.X = minf(e.ScaleMin.X, s.X)
	e.ScaleMin.Y = minf(e.ScaleMin.Y, s.Y)
	e.ScaleMin.Z = minf(e.ScaleMin.Z, s.Z)
	e.ScaleMax.X = maxf(e.ScaleMax.X, s.X)
	e.ScaleMax.Y = maxf(e.ScaleMax.Y, s.Y)
	e.ScaleMax.Z = maxf(e.ScaleMax.Z, s.Z)
}
