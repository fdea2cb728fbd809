package splat

import (
	"encoding/binary"
	"math"
)

func readFloat32(row []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(row[offset:]))
}
