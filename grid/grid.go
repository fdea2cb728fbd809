// Package grid partitions splats into a 2D (X/Y) cell grid, unbounded
// along Z, using a two-pass build: a sequential pass over every LOD
// to establish the scene bounding box (the SH degree comes from LOD0),
// followed by a parallel per-LOD pass that assigns every splat row to
// a cell.
package grid

import (
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/Deep-In-Sight/ply2lcc/geom"
	"github.com/Deep-In-Sight/ply2lcc/splat"
)

// CellCoord packs a cell's (x,y) grid coordinates into the numeric
// cell id used for map keys: cell_y<<16 | cell_x.
type CellCoord struct {
	X, Y int
}

func (c CellCoord) ID() uint32 {
	return uint32(c.Y)<<16 | uint32(c.X&0xffff)
}

// SplatRef identifies one row of one LOD's splat buffer.
type SplatRef struct {
	LOD int
	Row int
}

// Cell holds the splat rows assigned to one (x,y) grid cell, indexed
// by LOD level.
type Cell struct {
	Coord    CellCoord
	PerLOD   [][]SplatRef
	Ranges   geom.AttributeRanges
}

// SpatialGrid is the complete cell partition of a multi-LOD splat
// scene, together with the scene-wide bounding box and attribute
// ranges needed by the quantizer.
type SpatialGrid struct {
	BBox       geom.BBox
	CellSizeX  float32
	CellSizeY  float32
	SHDegree   int
	NumLODs    int
	Ranges     geom.AttributeRanges
	cells      map[uint32]*Cell
	cellOrder  []uint32
}

// ComputeCellIndex floors the splat position against the scene bbox
// origin, scales by cell size, clamps to [0,65535] per axis, and
// packs the result into a single uint32.
func ComputeCellIndex(pos geom.Vec3, bbox geom.BBox, cellSizeX, cellSizeY float32) uint32 {
	fx := (pos.X - bbox.Min.X) / cellSizeX
	fy := (pos.Y - bbox.Min.Y) / cellSizeY
	cx := clampCell(int(floorf(fx)))
	cy := clampCell(int(floorf(fy)))
	return uint32(cy)<<16 | uint32(cx)
}

func expf(logv float32) float32 {
	return float32(math.Exp(float64(logv)))
}

func floorf(v float32) float32 {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return float32(i)
}

func clampCell(v int) int {
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return v
}

// threadLocalGrid accumulates splat assignments for a contiguous
// chunk of rows processed by one goroutine, to be merged sequentially
// once all chunks complete.
type threadLocalGrid struct {
	cells  map[uint32][]int // cell id -> row indices within this chunk's LOD
	ranges geom.AttributeRanges
}

func newThreadLocalGrid() *threadLocalGrid {
	return &threadLocalGrid{cells: make(map[uint32][]int), ranges: geom.NewAttributeRanges()}
}

// buildLODChunk assigns rows [start,end) of buf to cells local to this
// goroutine; it never touches shared state.
func buildLODChunk(buf *splat.Buffer, start, end int, bbox geom.BBox, cellSizeX, cellSizeY float32) *threadLocalGrid {
	tl := newThreadLocalGrid()
	for row := start; row < end; row++ {
		v := buf.At(row)
		pos := v.Pos()
		id := ComputeCellIndex(pos, bbox, cellSizeX, cellSizeY)
		tl.cells[id] = append(tl.cells[id], row)
		logScale := v.Scale()
		tl.ranges.ExpandScale(geom.Vec3{
			X: expf(logScale.X),
			Y: expf(logScale.Y),
			Z: expf(logScale.Z),
		})
		tl.ranges.ExpandOpacity(geom.Sigmoid(v.Opacity()))
		numBands := v.NumFRest() / 3
		for i := 0; i < numBands; i++ {
			tl.ranges.ExpandSH(v.FRest(i), v.FRest(i+numBands), v.FRest(i+2*numBands))
		}
	}
	return tl
}

const chunkSize = 65536

// BuildFromFiles opens every LOD's splat file, unions every LOD's bbox
// into the scene bbox (spatial_grid.cpp's sequential pass expands the
// grid bbox across all LOD files, not just LOD0), takes the SH degree
// from LOD0, then partitions every LOD's splats into the 2D grid in
// parallel chunks merged sequentially.
func BuildFromFiles(paths []string, cellSizeX, cellSizeY float32) (*SpatialGrid, []*splat.Buffer, error) {
	buffers := make([]*splat.Buffer, len(paths))
	for i, p := range paths {
		b, err := splat.Open(p)
		if err != nil {
			for j := 0; j < i; j++ {
				buffers[j].Close()
			}
			return nil, nil, err
		}
		buffers[i] = b
	}

	bbox := geom.NewEmptyBBox()
	for _, buf := range buffers {
		bbox.ExpandBox(buf.ComputeBBox())
	}
	shDegree := buffers[0].SHDegree()

	g := &SpatialGrid{
		BBox:      bbox,
		CellSizeX: cellSizeX,
		CellSizeY: cellSizeY,
		SHDegree:  shDegree,
		NumLODs:   len(buffers),
		Ranges:    geom.NewAttributeRanges(),
		cells:     make(map[uint32]*Cell),
	}

	for lod, buf := range buffers {
		if err := g.assignLOD(lod, buf); err != nil {
			return nil, nil, err
		}
	}

	g.finalizeOrder()
	return g, buffers, nil
}

// chunkRange is one contiguous slice of splat rows to process as a
// unit of work in assignLOD's bounded worker pool.
type chunkRange struct {
	idx, start, end int
}

func (g *SpatialGrid) assignLOD(lod int, buf *splat.Buffer) error {
	n := buf.Size()
	numChunks := (n + chunkSize - 1) / chunkSize
	if numChunks < 1 {
		numChunks = 1
	}

	var chunks []chunkRange
	for c := 0; c < numChunks; c++ {
		start := c * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		chunks = append(chunks, chunkRange{idx: c, start: start, end: end})
	}

	results := make([]*threadLocalGrid, numChunks)
	jobs := make(chan chunkRange, len(chunks))
	for _, c := range chunks {
		jobs <- c
	}
	close(jobs)

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(chunks) {
		numWorkers = len(chunks)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				results[c.idx] = buildLODChunk(buf, c.start, c.end, g.BBox, g.CellSizeX, g.CellSizeY)
			}
		}()
	}
	wg.Wait()

	for _, tl := range results {
		if tl == nil {
			continue
		}
		g.Ranges.Merge(tl.ranges)
		for id, rows := range tl.cells {
			cell := g.cells[id]
			if cell == nil {
				cell = &Cell{
					Coord:  CellCoord{X: int(id & 0xffff), Y: int(id >> 16)},
					PerLOD: make([][]SplatRef, g.NumLODs),
				}
				g.cells[id] = cell
			}
			for _, row := range rows {
				cell.PerLOD[lod] = append(cell.PerLOD[lod], SplatRef{LOD: lod, Row: row})
			}
		}
	}

	for _, cell := range g.cells {
		sort.Slice(cell.PerLOD[lod], func(i, j int) bool {
			return cell.PerLOD[lod][i].Row < cell.PerLOD[lod][j].Row
		})
	}
	return nil
}

// finalizeOrder establishes the (cell_x, cell_y) lexicographic write
// order used when serializing cells into the container.
func (g *SpatialGrid) finalizeOrder() {
	ids := make([]uint32, 0, len(g.cells))
	for id := range g.cells {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := g.cells[ids[i]].Coord, g.cells[ids[j]].Coord
		if ci.X != cj.X {
			return ci.X < cj.X
		}
		return ci.Y < cj.Y
	})
	g.cellOrder = ids
}

// Cells returns the non-empty cells in write order.
func (g *SpatialGrid) Cells() []*Cell {
	out := make([]*Cell, len(g.cellOrder))
	for i, id := range g.cellOrder {
		out[i] = g.cells[id]
	}
	return out
}

// NumCells reports how many non-empty cells the grid holds.
func (g *SpatialGrid) NumCells() int {
	return len(g.cells)
}
