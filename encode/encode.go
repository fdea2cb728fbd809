// Package encode turns a partitioned spatial grid and its splat
// buffers into the quantized byte payloads written to data.bin,
// shcoef.bin, and environment.bin: a worker pool walks every non-empty
// cell across every LOD, encoding each splat row with package quant
// and merging thread-local results back in write order.
package encode

import (
	"math"
	"runtime"
	"sync"

	"github.com/Deep-In-Sight/ply2lcc/geom"
	"github.com/Deep-In-Sight/ply2lcc/grid"
	"github.com/Deep-In-Sight/ply2lcc/logging"
	"github.com/Deep-In-Sight/ply2lcc/quant"
	"github.com/Deep-In-Sight/ply2lcc/splat"
)

const dataRecordSize = 32
const shRecordSize = 64

// CellData is the quantized payload for one (cell, LOD) pair: a
// concatenation of 32-byte splat records and, when SH is present, a
// parallel concatenation of 64-byte SH records.
type CellData struct {
	CellID uint32
	LOD    int
	Coord  grid.CellCoord
	Data   []byte
	SHCoef []byte
	Count  int
}

// Result is the complete set of encoded cells plus scene-level
// metadata needed to write the container's index and metadata files.
type Result struct {
	Cells        []CellData
	SplatsPerLOD []int
	TotalSplats  int
	HasSH        bool
}

// ProgressFunc reports (percent, message) as encoding proceeds,
// mirroring the two-argument progress callback of the original tool.
type ProgressFunc func(percent int, message string)

func encodeSplatRow(v splat.View, ranges geom.AttributeRanges, hasSH bool) (data [32]byte, sh [64]byte) {
	pos := v.Pos()
	putF32(data[0:4], pos.X)
	putF32(data[4:8], pos.Y)
	putF32(data[8:12], pos.Z)

	color := quant.EncodeColor(v.FDC(), v.Opacity())
	putU32(data[12:16], color)

	scaleEnc := quant.EncodeScale(v.Scale(), ranges.ScaleMin, ranges.ScaleMax)
	putU16(data[16:18], scaleEnc[0])
	putU16(data[18:20], scaleEnc[1])
	putU16(data[20:22], scaleEnc[2])

	rotEnc := quant.EncodeRotation(v.Rot())
	putU32(data[22:26], rotEnc)
	// data[26:32] normal bytes stay zero.

	if hasSH {
		shMin, shMax := ranges.SHScalarRange()
		var fRest [45]float32
		n := v.NumFRest()
		for i := 0; i < n && i < 45; i++ {
			fRest[i] = v.FRest(i)
		}
		words := quant.EncodeSHCoefficients(fRest, shMin, shMax)
		for i, w := range words {
			putU32(sh[i*4:i*4+4], w)
		}
	}
	return data, sh
}

func putF32(b []byte, v float32) { putU32(b, math.Float32bits(v)) }

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putU16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// encodeCell runs on a single goroutine for one (cellID, lod) pair,
// producing its full data/shcoef byte slices.
func encodeCell(buf *splat.Buffer, cell *grid.Cell, lod int, ranges geom.AttributeRanges, hasSH bool) CellData {
	rows := cell.PerLOD[lod]
	out := CellData{
		CellID: cell.Coord.ID(),
		LOD:    lod,
		Coord:  cell.Coord,
		Count:  len(rows),
		Data:   make([]byte, 0, len(rows)*dataRecordSize),
	}
	if hasSH {
		out.SHCoef = make([]byte, 0, len(rows)*shRecordSize)
	}
	for _, ref := range rows {
		v := buf.At(ref.Row)
		data, sh := encodeSplatRow(v, ranges, hasSH)
		out.Data = append(out.Data, data[:]...)
		if hasSH {
			out.SHCoef = append(out.SHCoef, sh[:]...)
		}
	}
	return out
}

type cellJob struct {
	cell *grid.Cell
	lod  int
}

// Encode walks every non-empty (cell, LOD) pair of g, encoding each
// with a bounded worker pool, and returns the merged result sorted in
// (cell_x, cell_y, lod) write order.
func Encode(g *grid.SpatialGrid, buffers []*splat.Buffer, hasSH bool, log logging.Logger, progress ProgressFunc) Result {
	cells := g.Cells()
	var jobs []cellJob
	splatsPerLOD := make([]int, len(buffers))
	for _, cell := range cells {
		for lod := 0; lod < len(buffers); lod++ {
			if len(cell.PerLOD[lod]) == 0 {
				continue
			}
			jobs = append(jobs, cellJob{cell: cell, lod: lod})
			splatsPerLOD[lod] += len(cell.PerLOD[lod])
		}
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if len(jobs) < numWorkers {
		numWorkers = len(jobs)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	results := make([]CellData, len(jobs))
	jobIdx := make(chan int, len(jobs))
	for i := range jobs {
		jobIdx <- i
	}
	close(jobIdx)

	var processed int
	var mu sync.Mutex
	total := len(jobs)
	reportInterval := total / 100
	if reportInterval < 1 {
		reportInterval = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobIdx {
				job := jobs[i]
				results[i] = encodeCell(buffers[job.lod], job.cell, job.lod, g.Ranges, hasSH)

				mu.Lock()
				processed++
				p := processed
				mu.Unlock()
				if progress != nil && p%reportInterval == 0 {
					percent := p * 75 / total
					progress(15+percent, "encoding cell")
				}
			}
		}()
	}
	wg.Wait()

	if log != nil {
		log.Infof("encoded %d cell/lod pairs across %d lods", len(results), len(buffers))
	}

	totalSplats := 0
	for _, r := range results {
		totalSplats += r.Count
	}

	return Result{
		Cells:        results,
		SplatsPerLOD: splatsPerLOD,
		TotalSplats:  totalSplats,
		HasSH:        hasSH,
	}
}
