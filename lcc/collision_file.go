package lcc

import (
	"bytes"
	"encoding/binary"

	"github.com/Deep-In-Sight/ply2lcc/collision"
)

const collisionMagic = 0x6c6c6f63
const collisionVersion = 2
const meshHeaderRecordSize = 40

// BuildCollisionFile serializes collision.lci: a fixed header, one
// 40-byte mesh-header record per cell, then each cell's vertex/face/
// BVH payload back to back in the same order as the headers.
func BuildCollisionFile(data collision.Data) []byte {
	meshNum := len(data.Cells)
	headerLen := 48 + meshHeaderRecordSize*meshNum

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(collisionMagic))
	binary.Write(&buf, binary.LittleEndian, uint32(collisionVersion))
	binary.Write(&buf, binary.LittleEndian, uint32(headerLen))

	binary.Write(&buf, binary.LittleEndian, data.BBox.Min.X)
	binary.Write(&buf, binary.LittleEndian, data.BBox.Min.Y)
	binary.Write(&buf, binary.LittleEndian, data.BBox.Min.Z)
	binary.Write(&buf, binary.LittleEndian, data.BBox.Max.X)
	binary.Write(&buf, binary.LittleEndian, data.BBox.Max.Y)
	binary.Write(&buf, binary.LittleEndian, data.BBox.Max.Z)

	binary.Write(&buf, binary.LittleEndian, data.CellSizeX)
	binary.Write(&buf, binary.LittleEndian, data.CellSizeY)
	binary.Write(&buf, binary.LittleEndian, uint32(meshNum))

	type cellBytes struct {
		indexX, indexY uint32
		vertexBytes    []byte
		faceBytes      []byte
		bvhBytes       []byte
	}

	cellPayloads := make([]cellBytes, meshNum)
	offset := uint64(headerLen)

	for i, cell := range data.Cells {
		var vb, fb bytes.Buffer
		for _, v := range cell.Vertices {
			binary.Write(&vb, binary.LittleEndian, v.X)
			binary.Write(&vb, binary.LittleEndian, v.Y)
			binary.Write(&vb, binary.LittleEndian, v.Z)
		}
		for _, f := range cell.Faces {
			binary.Write(&fb, binary.LittleEndian, f.V0)
			binary.Write(&fb, binary.LittleEndian, f.V1)
			binary.Write(&fb, binary.LittleEndian, f.V2)
		}

		cellPayloads[i] = cellBytes{
			indexX:      cell.Index & 0xffff,
			indexY:      cell.Index >> 16,
			vertexBytes: vb.Bytes(),
			faceBytes:   fb.Bytes(),
			bvhBytes:    cell.BVHData,
		}

		bytesSize := uint64(len(vb.Bytes()) + len(fb.Bytes()) + len(cell.BVHData))

		binary.Write(&buf, binary.LittleEndian, cellPayloads[i].indexX)
		binary.Write(&buf, binary.LittleEndian, cellPayloads[i].indexY)
		binary.Write(&buf, binary.LittleEndian, offset)
		binary.Write(&buf, binary.LittleEndian, bytesSize)
		binary.Write(&buf, binary.LittleEndian, uint32(len(cell.Vertices)))
		binary.Write(&buf, binary.LittleEndian, uint32(len(cell.Faces)))
		binary.Write(&buf, binary.LittleEndian, uint32(len(cell.BVHData)))
		binary.Write(&buf, binary.LittleEndian, uint32(0)) // reserved

		offset += bytesSize
	}

	for _, cp := range cellPayloads {
		buf.Write(cp.vertexBytes)
		buf.Write(cp.faceBytes)
		buf.Write(cp.bvhBytes)
	}

	return buf.Bytes()
}
