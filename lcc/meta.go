// Package lcc assembles the quantized outputs of package encode and
// package collision into the on-disk container: data.bin, shcoef.bin,
// index.bin, meta.lcc, attrs.lcp, environment.bin, and collision.lci.
package lcc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Deep-In-Sight/ply2lcc/geom"
)

const metaVersion = "5.0"
const metaDataType = "DIMENVUE"
const metaEncoding = "COMPRESS"

// MetaInfo carries every field meta.lcc serializes, including the
// conditional environment/SH branches meta_writer follows.
type MetaInfo struct {
	GUID            string
	Name            string
	Description     string
	Source          string
	TotalSplats     int
	TotalLevels     int
	CellLengthX     float32
	CellLengthY     float32
	IndexDataSize   int
	SplatsPerLOD    []int
	BoundingBox     geom.BBox
	FileType        string // "Quality" or "Portable"
	HasEnvironment  bool
	EnvBounds       geom.EnvBounds
	AttrRanges      geom.AttributeRanges
}

func fmtFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', 15, 32)
}

func fmtVec3(v geom.Vec3) string {
	return fmt.Sprintf("%s, %s, %s", fmtFloat(v.X), fmtFloat(v.Y), fmtFloat(v.Z))
}

// WriteMeta renders meta.lcc's exact tab-indented field order.
func WriteMeta(m MetaInfo) string {
	var b strings.Builder

	b.WriteString("{\n")
	fmt.Fprintf(&b, "\t\"version\": \"%s\",\n", metaVersion)
	fmt.Fprintf(&b, "\t\"guid\": \"%s\",\n", m.GUID)
	fmt.Fprintf(&b, "\t\"name\": \"%s\",\n", m.Name)
	fmt.Fprintf(&b, "\t\"description\": \"%s\",\n", m.Description)
	fmt.Fprintf(&b, "\t\"source\": \"%s\",\n", m.Source)
	fmt.Fprintf(&b, "\t\"dataType\": \"%s\",\n", metaDataType)
	fmt.Fprintf(&b, "\t\"totalSplats\": %d,\n", m.TotalSplats)
	fmt.Fprintf(&b, "\t\"totalLevel\": %d,\n", m.TotalLevels)
	fmt.Fprintf(&b, "\t\"cellLengthX\": %s,\n", fmtFloat(m.CellLengthX))
	fmt.Fprintf(&b, "\t\"cellLengthY\": %s,\n", fmtFloat(m.CellLengthY))
	fmt.Fprintf(&b, "\t\"indexDataSize\": %d,\n", m.IndexDataSize)
	b.WriteString("\t\"offset\": [0, 0, 0],\n")
	b.WriteString("\t\"epsg\": 0,\n")
	b.WriteString("\t\"shift\": [0, 0, 0],\n")
	b.WriteString("\t\"scale\": [1, 1, 1],\n")

	b.WriteString("\t\"splats\": [")
	for i, n := range m.SplatsPerLOD {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", n)
	}
	b.WriteString("],\n")

	b.WriteString("\t\"boundingBox\": {\n")
	fmt.Fprintf(&b, "\t\t\"min\": [%s],\n", fmtVec3(m.BoundingBox.Min))
	fmt.Fprintf(&b, "\t\t\"max\": [%s]\n", fmtVec3(m.BoundingBox.Max))
	b.WriteString("\t},\n")

	fmt.Fprintf(&b, "\t\"encoding\": \"%s\",\n", metaEncoding)
	fmt.Fprintf(&b, "\t\"fileType\": \"%s\",\n", m.FileType)

	b.WriteString("\t\"attributes\": [\n")

	// position
	b.WriteString("\t\t{\n")
	b.WriteString("\t\t\t\"name\": \"position\",\n")
	if m.HasEnvironment {
		fmt.Fprintf(&b, "\t\t\t\"min\": [%s],\n", fmtVec3(m.EnvBounds.PosBox.Min))
		fmt.Fprintf(&b, "\t\t\t\"max\": [%s]\n", fmtVec3(m.EnvBounds.PosBox.Max))
	} else {
		fmt.Fprintf(&b, "\t\t\t\"min\": [%s],\n", fmtVec3(m.BoundingBox.Min))
		fmt.Fprintf(&b, "\t\t\t\"max\": [%s]\n", fmtVec3(m.BoundingBox.Max))
	}
	b.WriteString("\t\t},\n")

	// normal
	b.WriteString("\t\t{\n")
	b.WriteString("\t\t\t\"name\": \"normal\",\n")
	b.WriteString("\t\t\t\"min\": [0, 0, 0],\n")
	b.WriteString("\t\t\t\"max\": [0, 0, 0]\n")
	b.WriteString("\t\t},\n")

	// color
	b.WriteString("\t\t{\n")
	b.WriteString("\t\t\t\"name\": \"color\",\n")
	b.WriteString("\t\t\t\"min\": [0, 0, 0],\n")
	b.WriteString("\t\t\t\"max\": [1, 1, 1]\n")
	b.WriteString("\t\t},\n")

	// shcoef
	b.WriteString("\t\t{\n")
	b.WriteString("\t\t\t\"name\": \"shcoef\",\n")
	if m.FileType == "Portable" {
		b.WriteString("\t\t\t\"min\": [0, 0, 0],\n")
		b.WriteString("\t\t\t\"max\": [1, 1, 1]\n")
	} else {
		shMin, shMax := m.AttrRanges.SHMin, m.AttrRanges.SHMax
		fmt.Fprintf(&b, "\t\t\t\"min\": [%s],\n", fmtVec3(shMin))
		fmt.Fprintf(&b, "\t\t\t\"max\": [%s]\n", fmtVec3(shMax))
	}
	b.WriteString("\t\t},\n")

	// opacity
	b.WriteString("\t\t{\n")
	b.WriteString("\t\t\t\"name\": \"opacity\",\n")
	fmt.Fprintf(&b, "\t\t\t\"min\": [%s],\n", fmtFloat(m.AttrRanges.OpacityMin))
	fmt.Fprintf(&b, "\t\t\t\"max\": [%s]\n", fmtFloat(m.AttrRanges.OpacityMax))
	b.WriteString("\t\t},\n")

	// scale
	b.WriteString("\t\t{\n")
	b.WriteString("\t\t\t\"name\": \"scale\",\n")
	fmt.Fprintf(&b, "\t\t\t\"min\": [%s],\n", fmtVec3(m.AttrRanges.ScaleMin))
	fmt.Fprintf(&b, "\t\t\t\"max\": [%s]\n", fmtVec3(m.AttrRanges.ScaleMax))
	b.WriteString("\t\t},\n")

	// envnormal
	b.WriteString("\t\t{\n")
	b.WriteString("\t\t\t\"name\": \"envnormal\",\n")
	b.WriteString("\t\t\t\"min\": [0, 0, 0],\n")
	b.WriteString("\t\t\t\"max\": [0, 0, 0]\n")
	b.WriteString("\t\t},\n")

	// envshcoef
	b.WriteString("\t\t{\n")
	b.WriteString("\t\t\t\"name\": \"envshcoef\",\n")
	switch {
	case m.FileType == "Portable":
		b.WriteString("\t\t\t\"min\": [0, 0, 0],\n")
		b.WriteString("\t\t\t\"max\": [1, 1, 1]\n")
	case m.HasEnvironment:
		fmt.Fprintf(&b, "\t\t\t\"min\": [%s],\n", fmtVec3(m.EnvBounds.SHMin))
		fmt.Fprintf(&b, "\t\t\t\"max\": [%s]\n", fmtVec3(m.EnvBounds.SHMax))
	default:
		fmt.Fprintf(&b, "\t\t\t\"min\": [%s],\n", fmtVec3(m.AttrRanges.SHMin))
		fmt.Fprintf(&b, "\t\t\t\"max\": [%s]\n", fmtVec3(m.AttrRanges.SHMax))
	}
	b.WriteString("\t\t},\n")

	// envscale
	b.WriteString("\t\t{\n")
	b.WriteString("\t\t\t\"name\": \"envscale\",\n")
	if m.HasEnvironment {
		fmt.Fprintf(&b, "\t\t\t\"min\": [%s],\n", fmtVec3(m.EnvBounds.ScaleMin))
		fmt.Fprintf(&b, "\t\t\t\"max\": [%s]\n", fmtVec3(m.EnvBounds.ScaleMax))
	} else {
		fmt.Fprintf(&b, "\t\t\t\"min\": [%s],\n", fmtVec3(m.AttrRanges.ScaleMin))
		fmt.Fprintf(&b, "\t\t\t\"max\": [%s]\n", fmtVec3(m.AttrRanges.ScaleMax))
	}
	b.WriteString("\t\t}\n")

	b.WriteString("\t]\n")
	b.WriteString("}\n")

	return b.String()
}
