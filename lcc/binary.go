package lcc

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/Deep-In-Sight/ply2lcc/encode"
)

// indexRecordSize returns 4 + 16*numLODs, the byte length of one
// index.bin cell record.
func indexRecordSize(numLODs int) int {
	return 4 + 16*numLODs
}

// cellGroup gathers every encoded (cell, lod) entry for one cell id,
// in write order.
type cellGroup struct {
	x, y   int
	id     uint32
	perLOD [][]encode.CellData
}

// BuildDataAndIndex concatenates every encoded cell's 32-byte records
// (and, if present, 64-byte SH records) into data.bin/shcoef.bin, and
// emits the matching index.bin: one record per occupied cell with a
// (splat_count, data_offset, data_size) triple per LOD.
func BuildDataAndIndex(cells []encode.CellData, numLODs int) (data, shcoef, index []byte) {
	grouped := make(map[uint32]*cellGroup)
	var order []uint32

	for _, c := range cells {
		g := grouped[c.CellID]
		if g == nil {
			g = &cellGroup{x: c.Coord.X, y: c.Coord.Y, id: c.CellID, perLOD: make([][]encode.CellData, numLODs)}
			grouped[c.CellID] = g
			order = append(order, c.CellID)
		}
		g.perLOD[c.LOD] = append(g.perLOD[c.LOD], c)
	}

	sort.Slice(order, func(i, j int) bool {
		gi, gj := grouped[order[i]], grouped[order[j]]
		if gi.x != gj.x {
			return gi.x < gj.x
		}
		return gi.y < gj.y
	})

	var dataBuf, shBuf bytes.Buffer
	var indexBuf bytes.Buffer

	for _, id := range order {
		g := grouped[id]
		binary.Write(&indexBuf, binary.LittleEndian, id)

		for lod := 0; lod < numLODs; lod++ {
			entries := g.perLOD[lod]
			var count uint32
			var size uint32
			offset := uint64(dataBuf.Len())
			for _, e := range entries {
				count += uint32(e.Count)
				size += uint32(len(e.Data))
				dataBuf.Write(e.Data)
				shBuf.Write(e.SHCoef)
			}
			binary.Write(&indexBuf, binary.LittleEndian, count)
			binary.Write(&indexBuf, binary.LittleEndian, offset)
			binary.Write(&indexBuf, binary.LittleEndian, size)
		}
	}

	return dataBuf.Bytes(), shBuf.Bytes(), indexBuf.Bytes()
}
