package geom

import "testing"

func TestBBoxExpand(t *testing.T) {
	b := NewEmptyBBox()
	b.Expand(Vec3{X: 1, Y: 2, Z: 3})
	b.Expand(Vec3{X: -1, Y: 5, Z: 0})
	if b.Min != (Vec3{X: -1, Y: 2, Z: 0}) {
		t.Errorf("unexpected min: %+v", b.Min)
	}
	if b.Max != (Vec3{X: 1, Y: 5, Z: 3}) {
		t.Errorf("unexpected max: %+v", b.Max)
	}
}

func TestBBoxExpandBox(t *testing.T) {
	a := NewEmptyBBox()
	a.Expand(Vec3{X: 0, Y: 0, Z: 0})
	b := NewEmptyBBox()
	b.Expand(Vec3{X: 10, Y: -10, Z: 5})
	a.ExpandBox(b)
	if a.Min != (Vec3{X: 0, Y: -10, Z: 0}) {
		t.Errorf("unexpected merged min: %+v", a.Min)
	}
	if a.Max != (Vec3{X: 10, Y: 0, Z: 5}) {
		t.Errorf("unexpected merged max: %+v", a.Max)
	}
}

func TestSigmoid(t *testing.T) {
	v := Sigmoid(0)
	if v < 0.49999 || v > 0.50001 {
		t.Errorf("sigmoid(0) = %v, want ~0.5", v)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 1) != 1 {
		t.Errorf("clamp high failed")
	}
	if Clamp(-5, 0, 1) != 0 {
		t.Errorf("clamp low failed")
	}
	if Clamp(0.5, 0, 1) != 0.5 {
		t.Errorf("clamp passthrough failed")
	}
}

func TestAttributeRangesMerge(t *testing.T) {
	a := NewAttributeRanges()
	a.ExpandScale(Vec3{X: 1, Y: 1, Z: 1})
	a.ExpandOpacity(0.25)

	b := NewAttributeRanges()
	b.ExpandScale(Vec3{X: 3, Y: 0.5, Z: 2})
	b.ExpandOpacity(0.75)

	a.Merge(b)
	if a.ScaleMin != (Vec3{X: 1, Y: 0.5, Z: 1}) {
		t.Errorf("unexpected merged scale min: %+v", a.ScaleMin)
	}
	if a.ScaleMax != (Vec3{X: 3, Y: 1, Z: 2}) {
		t.Errorf("unexpected merged scale max: %+v", a.ScaleMax)
	}
	if a.OpacityMin != 0.25 || a.OpacityMax != 0.75 {
		t.Errorf("unexpected merged opacity range: %v %v", a.OpacityMin, a.OpacityMax)
	}
}

func TestSHScalarRange(t *testing.T) {
	r := NewAttributeRanges()
	r.ExpandSH(1, -2, 5)
	r.ExpandSH(-1, 4, 2)
	min, max := r.SHScalarRange()
	if min != -2 {
		t.Errorf("scalar min = %v, want -2", min)
	}
	if max != 5 {
		t.Errorf("scalar max = %v, want 5", max)
	}
}
