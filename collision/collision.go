// Package collision partitions a triangle mesh into the same 2D cell
// grid used for splats and builds a per-cell bounding volume hierarchy
// for runtime ray/shape queries against collision.lci.
package collision

import (
	"sort"

	"github.com/Deep-In-Sight/ply2lcc/geom"
	"github.com/Deep-In-Sight/ply2lcc/mesh"
)

// Cell holds one grid cell's local vertex/face arrays (vertex indices
// are local to the cell, not the source mesh) plus its serialized
// BVH.
type Cell struct {
	Index    uint32
	Vertices []geom.Vec3
	Faces    []mesh.Triangle
	BVHData  []byte
}

// Data is the complete collision encoding: every non-empty cell plus
// the bbox used to compute cell coordinates.
type Data struct {
	CellSizeX, CellSizeY float32
	BBox                 geom.BBox
	Cells                []Cell
}

// TotalTriangles sums face counts across all cells.
func (d Data) TotalTriangles() int {
	total := 0
	for _, c := range d.Cells {
		total += len(c.Faces)
	}
	return total
}

// Encode reads path (.obj or .ply), partitions its triangles into
// cells aligned to sceneBBox (the splat scene's bounding box, kept
// consistent with the splat grid rather than the mesh's own local
// extent), and builds a BVH per cell.
func Encode(path string, cellSizeX, cellSizeY float32, sceneBBox geom.BBox) (Data, error) {
	m, err := mesh.Read(path)
	if err != nil {
		return Data{}, err
	}

	data := Data{CellSizeX: cellSizeX, CellSizeY: cellSizeY, BBox: sceneBBox}
	data.Cells = partitionByCell(m, cellSizeX, cellSizeY, sceneBBox)

	for i := range data.Cells {
		nodes, reordered := buildBVH(data.Cells[i].Vertices, data.Cells[i].Faces)
		data.Cells[i].Faces = reordered
		data.Cells[i].BVHData = serializeBVH(nodes)
	}

	return data, nil
}

func cellIndexFromCentroid(cx, cy float32, bbox geom.BBox, cellSizeX, cellSizeY float32) uint32 {
	cellX := int((cx - bbox.Min.X) / cellSizeX)
	cellY := int((cy - bbox.Min.Y) / cellSizeY)
	if cellX < 0 {
		cellX = 0
	}
	if cellY < 0 {
		cellY = 0
	}
	return uint32(cellY)<<16 | uint32(cellX)
}

// partitionByCell assigns each triangle to a cell by its centroid,
// deduplicating vertices within a cell by exact float equality (not
// epsilon) so repeated exports of the same mesh produce identical
// local vertex lists.
func partitionByCell(m mesh.Mesh, cellSizeX, cellSizeY float32, bbox geom.BBox) []Cell {
	cellMap := make(map[uint32]*Cell)

	for _, tri := range m.Faces {
		v0, v1, v2 := m.Vertices[tri.V0], m.Vertices[tri.V1], m.Vertices[tri.V2]
		cx := (v0.X + v1.X + v2.X) / 3.0
		cy := (v0.Y + v1.Y + v2.Y) / 3.0

		idx := cellIndexFromCentroid(cx, cy, bbox, cellSizeX, cellSizeY)

		cell := cellMap[idx]
		if cell == nil {
			cell = &Cell{Index: idx}
			cellMap[idx] = cell
		}

		localTri := mesh.Triangle{
			V0: localVertexIndex(cell, m.Vertices[tri.V0]),
			V1: localVertexIndex(cell, m.Vertices[tri.V1]),
			V2: localVertexIndex(cell, m.Vertices[tri.V2]),
		}
		cell.Faces = append(cell.Faces, localTri)
	}

	cells := make([]Cell, 0, len(cellMap))
	for _, c := range cellMap {
		cells = append(cells, *c)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Index < cells[j].Index })
	return cells
}

func localVertexIndex(cell *Cell, v geom.Vec3) uint32 {
	for i, cv := range cell.Vertices {
		if cv.X == v.X && cv.Y == v.Y && cv.Z == v.Z {
			return uint32(i)
		}
	}
	idx := uint32(len(cell.Vertices))
	cell.Vertices = append(cell.Vertices, v)
	return idx
}
