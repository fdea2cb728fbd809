package grid

import (
	"testing"

	"github.com/Deep-In-Sight/ply2lcc/geom"
)

func TestComputeCellIndexOrigin(t *testing.T) {
	bbox := geom.BBox{Min: geom.Vec3{X: 0, Y: 0, Z: 0}, Max: geom.Vec3{X: 100, Y: 100, Z: 100}}
	id := ComputeCellIndex(geom.Vec3{X: 5, Y: 5, Z: 0}, bbox, 10, 10)
	if id != 0 {
		t.Errorf("expected cell 0, got %d", id)
	}
}

func TestComputeCellIndexPacking(t *testing.T) {
	bbox := geom.BBox{Min: geom.Vec3{X: 0, Y: 0, Z: 0}, Max: geom.Vec3{X: 1000, Y: 1000, Z: 1000}}
	id := ComputeCellIndex(geom.Vec3{X: 25, Y: 35, Z: 0}, bbox, 10, 10)
	wantX := uint32(2)
	wantY := uint32(3)
	want := wantY<<16 | wantX
	if id != want {
		t.Errorf("got %d, want %d", id, want)
	}
}

func TestComputeCellIndexClampsNegative(t *testing.T) {
	bbox := geom.BBox{Min: geom.Vec3{X: 10, Y: 10, Z: 0}, Max: geom.Vec3{X: 100, Y: 100, Z: 100}}
	id := ComputeCellIndex(geom.Vec3{X: 0, Y: 0, Z: 0}, bbox, 10, 10)
	if id != 0 {
		t.Errorf("expected clamp to cell 0, got %d", id)
	}
}

func TestComputeCellIndexClampsUpperBound(t *testing.T) {
	bbox := geom.BBox{Min: geom.Vec3{X: 0, Y: 0, Z: 0}, Max: geom.Vec3{X: 10, Y: 10, Z: 10}}
	id := ComputeCellIndex(geom.Vec3{X: 1e9, Y: 1e9, Z: 0}, bbox, 0.001, 0.001)
	x := id & 0xffff
	y := id >> 16
	if x != 65535 || y != 65535 {
		t.Errorf("expected clamp to 65535,65535, got %d,%d", x, y)
	}
}

func TestCellCoordID(t *testing.T) {
	c := CellCoord{X: 3, Y: 7}
	if c.ID() != uint32(7)<<16|3 {
		t.Errorf("unexpected id %d", c.ID())
	}
}
