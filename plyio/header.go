// Package plyio parses binary little-endian PLY headers and exposes
// the row-stride/property-offset information the rest of the module
// needs to treat PLY vertex data as a fixed-stride byte array. It is
// deliberately small: no ASCII-format support, no big-endian support,
// and list properties are only usable through the sequential element
// reader (plyio.ReadFaceElement), never through the fixed-stride path
// SplatBuffer relies on. This mirrors miniply's role in the original
// tool — an external parser consumed only for row stride, row count
// and per-property byte offsets.
package plyio

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/Deep-In-Sight/ply2lcc/lccerr"
)

// ScalarType is one of the PLY scalar property types.
type ScalarType int

const (
	Int8 ScalarType = iota
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Float32
	Float64
)

// Size returns the byte width of t.
func (t ScalarType) Size() int {
	switch t {
	case Int8, UInt8:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32:
		return 4
	case Float64:
		return 8
	default:
		panic("plyio: unknown scalar type")
	}
}

var typeNames = map[string]ScalarType{
	"char": Int8, "int8": Int8,
	"uchar": UInt8, "uint8": UInt8,
	"short": Int16, "int16": Int16,
	"ushort": UInt16, "uint16": UInt16,
	"int": Int32, "int32": Int32,
	"uint": UInt32, "uint32": UInt32,
	"float": Float32, "float32": Float32,
	"double": Float64, "float64": Float64,
}

// Property describes one PLY element property. List properties carry
// CountType/ItemType and have no fixed Offset (Offset is meaningless
// for them, and the owning Element's fixed stride path is disabled).
type Property struct {
	Name      string
	IsList    bool
	CountType ScalarType // valid only if IsList
	ItemType  ScalarType
	Offset    int // byte offset within a fixed-stride row; 0 for list properties
}

// Element describes one PLY element block (e.g. "vertex" or "face").
type Element struct {
	Name       string
	Count      int
	Properties []Property
	RowStride  int  // 0 if the element has any list property
	HasList    bool
}

// PropertyOffset returns the byte offset of the named scalar
// property within a row, and whether it was found.
func (e Element) PropertyOffset(name string) (int, bool) {
	for _, p := range e.Properties {
		if p.Name == name && !p.IsList {
			return p.Offset, true
		}
	}
	return 0, false
}

// Header is the parsed PLY header: the ordered element list plus the
// byte length of the header itself (so callers can mmap the file and
// slice past it).
type Header struct {
	Elements     []Element
	HeaderLength int // bytes, including the trailing newline after "end_header"
}

// ParseHeader reads a binary little-endian PLY header from data. Any
// other format keyword (ascii, binary_big_endian) is rejected per the
// SplatBuffer contract (spec.md §4.1: "Fails with InvalidFormat if
// the file is not binary little-endian PLY").
func ParseHeader(data []byte) (Header, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	var hdr Header
	var bytesConsumed int
	var sawMagic, sawFormat bool
	var cur *Element

	for scanner.Scan() {
		line := scanner.Text()
		bytesConsumed += len(line) + 1 // newline

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "ply":
			sawMagic = true
		case "comment", "obj_info":
			// ignored
		case "format":
			if len(fields) < 2 || fields[1] != "binary_little_endian" {
				return Header{}, lccerr.Format("unsupported PLY format, expected binary_little_endian: "+line, nil)
			}
			sawFormat = true
		case "element":
			if len(fields) != 3 {
				return Header{}, lccerr.Format("malformed element line: "+line, nil)
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return Header{}, lccerr.Format("malformed element count: "+line, err)
			}
			if cur != nil {
				hdr.Elements = append(hdr.Elements, *cur)
			}
			cur = &Element{Name: fields[1], Count: n}
		case "property":
			if cur == nil {
				return Header{}, lccerr.Format("property line before any element: "+line, nil)
			}
			if err := parseProperty(cur, fields); err != nil {
				return Header{}, err
			}
		case "end_header":
			if cur != nil {
				hdr.Elements = append(hdr.Elements, *cur)
				cur = nil
			}
			if !sawMagic || !sawFormat {
				return Header{}, lccerr.Format("missing ply magic or format line", nil)
			}
			hdr.HeaderLength = bytesConsumed
			finalizeOffsets(&hdr)
			return hdr, nil
		default:
			// unknown header keyword; ignore for forward compatibility
		}
	}
	if err := scanner.Err(); err != nil {
		return Header{}, lccerr.IO("read PLY header", err)
	}
	return Header{}, lccerr.Format("PLY header missing end_header", nil)
}

func parseProperty(e *Element, fields []string) error {
	if fields[1] == "list" {
		if len(fields) != 5 {
			return lccerr.Format("malformed list property line", nil)
		}
		countType, ok := typeNames[fields[2]]
		if !ok {
			return lccerr.Format("unknown list count type: "+fields[2], nil)
		}
		itemType, ok := typeNames[fields[3]]
		if !ok {
			return lccerr.Format("unknown list item type: "+fields[3], nil)
		}
		e.HasList = true
		e.Properties = append(e.Properties, Property{
			Name: fields[4], IsList: true, CountType: countType, ItemType: itemType,
		})
		return nil
	}
	if len(fields) != 3 {
		return lccerr.Format("malformed property line", nil)
	}
	t, ok := typeNames[fields[1]]
	if !ok {
		return lccerr.Format("unknown property type: "+fields[1], nil)
	}
	e.Properties = append(e.Properties, Property{Name: fields[2], ItemType: t})
	return nil
}

func finalizeOffsets(hdr *Header) {
	for i := range hdr.Elements {
		e := &hdr.Elements[i]
		if e.HasList {
			e.RowStride = 0
			continue
		}
		offset := 0
		for j := range e.Properties {
			e.Properties[j].Offset = offset
			offset += e.Properties[j].ItemType.Size()
		}
		e.RowStride = offset
	}
}

// FindElement returns the element with the given name.
func (h Header) FindElement(name string) (Element, bool) {
	for _, e := range h.Elements {
		if e.Name == name {
			return e, true
		}
	}
	return Element{}, false
}

