package splat

import (
	"os"

	"github.com/Deep-In-Sight/ply2lcc/geom"
	"github.com/Deep-In-Sight/ply2lcc/lccerr"
	"github.com/Deep-In-Sight/ply2lcc/plyio"
)

// posProps, fdcProps, scaleProps and rotProps name the 3DGS vertex
// properties that must be present for a PLY to be treated as splat
// data (spec.md §4.1); normalProps are optional.
var (
	posProps   = [3]string{"x", "y", "z"}
	normalProps = [3]string{"nx", "ny", "nz"}
	fdcProps   = [3]string{"f_dc_0", "f_dc_1", "f_dc_2"}
	scaleProps = [3]string{"scale_0", "scale_1", "scale_2"}
	rotProps   = [4]string{"rot_0", "rot_1", "rot_2", "rot_3"}
)

// Buffer is a memory-mapped, zero-copy view over a 3DGS PLY vertex
// element. It owns the file mapping and the PropTable; the mapping
// outlives every View taken from it, and must be released with
// Close.
type Buffer struct {
	mapping  mmapping
	data     []byte // vertex row data, sliced past the header
	table    PropTable
}

// Open memory-maps path read-only and validates it as 3DGS splat
// data. The caller must call Close when done to release the mapping.
func Open(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, lccerr.Missing(path)
		}
		return nil, lccerr.IO("open "+path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, lccerr.IO("stat "+path, err)
	}
	size := info.Size()
	if size == 0 {
		return nil, lccerr.Format("empty PLY file: "+path, nil)
	}

	m, err := mapFile(f, size)
	if err != nil {
		return nil, lccerr.IO("mmap "+path, err)
	}

	hdr, err := plyio.ParseHeader(m.bytes())
	if err != nil {
		m.unmap()
		return nil, err
	}

	vertex, ok := hdr.FindElement("vertex")
	if !ok {
		m.unmap()
		return nil, lccerr.Format("no vertex element found in "+path, nil)
	}
	if vertex.HasList {
		m.unmap()
		return nil, lccerr.Format("vertex element has variable-size properties in "+path, nil)
	}

	table, err := buildPropTable(vertex)
	if err != nil {
		m.unmap()
		return nil, err
	}

	raw, _, err := plyio.ReadScalarElement(m.bytes(), hdr.HeaderLength, vertex)
	if err != nil {
		m.unmap()
		return nil, err
	}

	return &Buffer{mapping: m, data: raw, table: table}, nil
}

func buildPropTable(e plyio.Element) (PropTable, error) {
	var t PropTable

	posOff, ok := e.PropertyOffset(posProps[0])
	if !ok {
		return t, lccerr.Format("missing position properties (x, y, z)", nil)
	}
	t.Pos = posOff

	if nOff, ok := e.PropertyOffset(normalProps[0]); ok {
		t.Normal = nOff
		t.HasNormal = true
	}

	fdcOff, ok := e.PropertyOffset(fdcProps[0])
	if !ok {
		return t, lccerr.Format("missing f_dc properties - not a Gaussian splatting file", nil)
	}
	t.FDC = fdcOff

	opOff, ok := e.PropertyOffset("opacity")
	if !ok {
		return t, lccerr.Format("missing opacity property", nil)
	}
	t.Opacity = opOff

	scaleOff, ok := e.PropertyOffset(scaleProps[0])
	if !ok {
		return t, lccerr.Format("missing scale properties", nil)
	}
	t.Scale = scaleOff

	rotOff, ok := e.PropertyOffset(rotProps[0])
	if !ok {
		return t, lccerr.Format("missing rotation properties", nil)
	}
	t.Rot = rotOff

	for _, group := range [][]string{posProps[:], fdcProps[:], scaleProps[:], rotProps[:]} {
		for _, name := range group {
			if _, ok := e.PropertyOffset(name); !ok {
				return t, lccerr.Format("missing required property "+name, nil)
			}
		}
	}

	numFRest := 0
	firstFRestOff := 0
	for i := 0; i < 128; i++ {
		name := frestName(i)
		off, ok := e.PropertyOffset(name)
		if !ok {
			break
		}
		if i == 0 {
			firstFRestOff = off
		}
		numFRest++
	}
	t.FRest = firstFRestOff
	t.NumFRest = numFRest
	t.SHDegree = computeSHDegree(numFRest)
	t.RowStride = e.RowStride
	t.NumRows = e.Count
	return t, nil
}

func frestName(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return "f_rest_" + string(digits[i])
	}
	return "f_rest_" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [8]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}

// Close releases the underlying file mapping. Views taken from this
// Buffer must not be used afterward.
func (b *Buffer) Close() error {
	return b.mapping.unmap()
}

// Size returns the number of splat rows.
func (b *Buffer) Size() int { return b.table.NumRows }

// SHDegree reports the detected spherical-harmonic degree (0-4).
func (b *Buffer) SHDegree() int { return b.table.SHDegree }

// NumFRest reports the raw f_rest property count (0, 9, 24, 45, 72).
func (b *Buffer) NumFRest() int { return b.table.NumFRest }

// HasNormal reports whether nx/ny/nz were present.
func (b *Buffer) HasNormal() bool { return b.table.HasNormal }

// Table exposes the immutable property-offset table.
func (b *Buffer) Table() PropTable { return b.table }

// At returns a zero-copy view of row i.
func (b *Buffer) At(i int) View {
	start := i * b.table.RowStride
	return View{row: b.data[start : start+b.table.RowStride], table: &b.table}
}

// Pos is a convenience accessor equivalent to At(i).Pos().
func (b *Buffer) Pos(i int) geom.Vec3 {
	return b.At(i).Pos()
}

// ComputeBBox iterates positions only.
func (b *Buffer) ComputeBBox() geom.BBox {
	box := geom.NewEmptyBBox()
	for i := 0; i < b.table.NumRows; i++ {
		box.Expand(b.Pos(i))
	}
	return box
}
