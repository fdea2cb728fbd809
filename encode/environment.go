package encode

import (
	"math"

	"github.com/Deep-In-Sight/ply2lcc/geom"
	"github.com/Deep-In-Sight/ply2lcc/quant"
	"github.com/Deep-In-Sight/ply2lcc/splat"
)

const envDataRecordSize = 32
const envSHRecordSize = 64

// Environment is the encoded payload of the optional environment
// splat file: a scene backdrop encoded with its own bounds, separate
// from the cell-partitioned scene.
type Environment struct {
	Bounds geom.EnvBounds
	Data   []byte
	Count  int
}

// EncodeEnvironment scans buf once to accumulate its own bounds, then
// encodes every splat row against those bounds into fixed 32 or
// 96-byte records (96 when hasSH folds in the 64-byte SH block).
func EncodeEnvironment(buf *splat.Buffer, hasSH bool) Environment {
	bounds := geom.NewEnvBounds()
	numFRest := buf.NumFRest()
	bandsPerChannel := 0
	if numFRest > 0 {
		bandsPerChannel = numFRest / 3
	}

	n := buf.Size()
	for i := 0; i < n; i++ {
		v := buf.At(i)
		bounds.ExpandPos(v.Pos())
		scale := v.Scale()
		bounds.ExpandScale(geom.Vec3{
			X: expf(scale.X),
			Y: expf(scale.Y),
			Z: expf(scale.Z),
		})
		for band := 0; band < bandsPerChannel; band++ {
			r := v.FRest(band)
			g := v.FRest(band + bandsPerChannel)
			b := v.FRest(band + 2*bandsPerChannel)
			bounds.ExpandSH(r, g, b)
		}
	}

	recordSize := envDataRecordSize
	if hasSH {
		recordSize += envSHRecordSize
	}
	data := make([]byte, n*recordSize)

	var shMinScalar, shMaxScalar float32
	if hasSH {
		shMinScalar = minOf3(bounds.SHMin.X, bounds.SHMin.Y, bounds.SHMin.Z)
		shMaxScalar = maxOf3(bounds.SHMax.X, bounds.SHMax.Y, bounds.SHMax.Z)
	}

	for i := 0; i < n; i++ {
		v := buf.At(i)
		rec := data[i*recordSize : (i+1)*recordSize]

		pos := v.Pos()
		putF32(rec[0:4], pos.X)
		putF32(rec[4:8], pos.Y)
		putF32(rec[8:12], pos.Z)

		color := quant.EncodeColor(v.FDC(), v.Opacity())
		putU32(rec[12:16], color)

		scaleEnc := quant.EncodeScale(v.Scale(), bounds.ScaleMin, bounds.ScaleMax)
		putU16(rec[16:18], scaleEnc[0])
		putU16(rec[18:20], scaleEnc[1])
		putU16(rec[20:22], scaleEnc[2])

		rotEnc := quant.EncodeRotation(v.Rot())
		putU32(rec[22:26], rotEnc)
		// rec[26:32] normal bytes stay zero.

		if hasSH {
			var fRest [45]float32
			for j := 0; j < numFRest && j < 45; j++ {
				fRest[j] = v.FRest(j)
			}
			words := quant.EncodeSHCoefficients(fRest, shMinScalar, shMaxScalar)
			shRec := rec[32:96]
			for w := 0; w < 16; w++ {
				putU32(shRec[w*4:w*4+4], words[w])
			}
		}
	}

	return Environment{Bounds: bounds, Data: data, Count: n}
}

func expf(logv float32) float32 {
	return float32(math.Exp(float64(logv)))
}

func minOf3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func maxOf3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
