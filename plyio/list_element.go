package plyio

import (
	"encoding/binary"
	"math"

	"github.com/Deep-In-Sight/ply2lcc/lccerr"
)

// ReadScalarElement reads a fixed-stride element's data (no list
// properties) as a raw byte slice positioned right after the header.
// count*rowStride bytes are consumed from data starting at offset.
func ReadScalarElement(data []byte, offset int, e Element) ([]byte, int, error) {
	if e.HasList {
		return nil, 0, lccerr.Format("element "+e.Name+" has list properties, cannot read as fixed-stride", nil)
	}
	need := e.Count * e.RowStride
	if offset+need > len(data) {
		return nil, 0, lccerr.Format("truncated PLY element "+e.Name, nil)
	}
	return data[offset : offset+need], offset + need, nil
}

func readScalar(data []byte, offset int, t ScalarType) (float64, int) {
	switch t {
	case Int8:
		return float64(int8(data[offset])), offset + 1
	case UInt8:
		return float64(data[offset]), offset + 1
	case Int16:
		return float64(int16(binary.LittleEndian.Uint16(data[offset:]))), offset + 2
	case UInt16:
		return float64(binary.LittleEndian.Uint16(data[offset:])), offset + 2
	case Int32:
		return float64(int32(binary.LittleEndian.Uint32(data[offset:]))), offset + 4
	case UInt32:
		return float64(binary.LittleEndian.Uint32(data[offset:])), offset + 4
	case Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))), offset + 4
	case Float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(data[offset:])), offset + 8
	default:
		panic("plyio: unknown scalar type")
	}
}

// ReadVertexPositions reads just the x,y,z float32 triple for every
// row of a (possibly larger) fixed-stride vertex element, used by the
// mesh package which only needs positions, not the full splat schema.
func ReadVertexPositions(data []byte, offset int, e Element) ([][3]float32, int, error) {
	xOff, okX := e.PropertyOffset("x")
	yOff, okY := e.PropertyOffset("y")
	zOff, okZ := e.PropertyOffset("z")
	if !okX || !okY || !okZ {
		return nil, 0, lccerr.Format("vertex element missing x/y/z", nil)
	}
	raw, next, err := ReadScalarElement(data, offset, e)
	if err != nil {
		return nil, 0, err
	}
	out := make([][3]float32, e.Count)
	for i := 0; i < e.Count; i++ {
		row := raw[i*e.RowStride : (i+1)*e.RowStride]
		out[i] = [3]float32{
			math.Float32frombits(binary.LittleEndian.Uint32(row[xOff:])),
			math.Float32frombits(binary.LittleEndian.Uint32(row[yOff:])),
			math.Float32frombits(binary.LittleEndian.Uint32(row[zOff:])),
		}
	}
	return out, next, nil
}

// ReadFaceElement reads a face element whose single list property
// gives the vertex index list per row (the "vertex_indices" /
// "vertex_index" property of a typical mesh PLY), fan-triangulating
// any polygon with more than 3 indices. Returns triangles as
// [3]uint32 vertex index triples and the next byte offset.
func ReadFaceElement(data []byte, offset int, e Element) ([][3]uint32, int, error) {
	if !e.HasList || len(e.Properties) != 1 {
		return nil, 0, lccerr.Format("face element must have exactly one list property", nil)
	}
	prop := e.Properties[0]

	var tris [][3]uint32
	pos := offset
	for row := 0; row < e.Count; row++ {
		if pos >= len(data) {
			return nil, 0, lccerr.Format("truncated PLY face element", nil)
		}
		countF, next := readScalar(data, pos, prop.CountType)
		pos = next
		count := int(countF)
		indices := make([]uint32, count)
		for i := 0; i < count; i++ {
			v, next2 := readScalar(data, pos, prop.ItemType)
			pos = next2
			indices[i] = uint32(v)
		}
		for i := 2; i < len(indices); i++ {
			tris = append(tris, [3]uint32{indices[0], indices[i-1], indices[i]})
		}
	}
	return tris, pos, nil
}
