package collision

import (
	"sort"

	"github.com/Deep-In-Sight/ply2lcc/geom"
	"github.com/Deep-In-Sight/ply2lcc/mesh"
)

// leafFlag marks a BVHNode as a leaf in its flags field.
const leafFlag = 0xFFFF

// maxLeafSize bounds how many triangles a BVH leaf may hold before
// the builder splits it further.
const maxLeafSize = 4

// bvhNode mirrors the 32-byte on-disk BVH node layout: two float32[3]
// bounds, a data0 uint32 (right-child index or leaf face offset), a
// data1 uint16 (split axis or leaf face count), and a flags uint16
// (0xFFFF for a leaf).
type bvhNode struct {
	bboxMin [3]float32
	bboxMax [3]float32
	data0   uint32
	data1   uint16
	flags   uint16
}

func makeInternal(bmin, bmax [3]float32, rightChild uint32, axis uint16) bvhNode {
	return bvhNode{bboxMin: bmin, bboxMax: bmax, data0: rightChild, data1: axis, flags: 0}
}

func makeLeaf(bmin, bmax [3]float32, faceOffset uint32, faceCount uint16) bvhNode {
	return bvhNode{bboxMin: bmin, bboxMax: bmax, data0: faceOffset, data1: faceCount, flags: leafFlag}
}

type buildEntry struct {
	start, count uint32
	parentIdx    uint32
	isRightChild bool
}

const noParent = ^uint32(0)

func triangleBBox(verts []geom.Vec3, tri mesh.Triangle) (bmin, bmax [3]float32) {
	v0, v1, v2 := verts[tri.V0], verts[tri.V1], verts[tri.V2]
	bmin = [3]float32{min3(v0.X, v1.X, v2.X), min3(v0.Y, v1.Y, v2.Y), min3(v0.Z, v1.Z, v2.Z)}
	bmax = [3]float32{max3(v0.X, v1.X, v2.X), max3(v0.Y, v1.Y, v2.Y), max3(v0.Z, v1.Z, v2.Z)}
	return
}

func centroidAxis(verts []geom.Vec3, tri mesh.Triangle, axis int) float32 {
	v0, v1, v2 := verts[tri.V0], verts[tri.V1], verts[tri.V2]
	return (v0.At(axis) + v1.At(axis) + v2.At(axis)) / 3.0
}

func min3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// buildBVH builds a median-split BVH over faces (indexed into verts),
// returning the node array and faces reordered so every leaf's
// triangles occupy a contiguous span. An empty face list yields a nil
// node slice and an unmodified order.
func buildBVH(verts []geom.Vec3, faces []mesh.Triangle) ([]bvhNode, []mesh.Triangle) {
	if len(faces) == 0 {
		return nil, faces
	}

	indices := make([]uint32, len(faces))
	for i := range indices {
		indices[i] = uint32(i)
	}

	var nodes []bvhNode
	var faceOrder []uint32

	stack := []buildEntry{{start: 0, count: uint32(len(indices)), parentIdx: noParent, isRightChild: false}}

	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		bmin := [3]float32{1e30, 1e30, 1e30}
		bmax := [3]float32{-1e30, -1e30, -1e30}
		for i := entry.start; i < entry.start+entry.count; i++ {
			tmin, tmax := triangleBBox(verts, faces[indices[i]])
			for a := 0; a < 3; a++ {
				if tmin[a] < bmin[a] {
					bmin[a] = tmin[a]
				}
				if tmax[a] > bmax[a] {
					bmax[a] = tmax[a]
				}
			}
		}

		nodeIdx := uint32(len(nodes))
		if entry.parentIdx != noParent && entry.isRightChild {
			nodes[entry.parentIdx].data0 = nodeIdx
		}

		if entry.count <= maxLeafSize {
			faceOffset := uint32(len(faceOrder))
			for i := entry.start; i < entry.start+entry.count; i++ {
				faceOrder = append(faceOrder, indices[i])
			}
			nodes = append(nodes, makeLeaf(bmin, bmax, faceOffset, uint16(entry.count)))
			continue
		}

		axis := 0
		maxExtent := bmax[0] - bmin[0]
		for a := 1; a < 3; a++ {
			extent := bmax[a] - bmin[a]
			if extent > maxExtent {
				maxExtent = extent
				axis = a
			}
		}

		span := indices[entry.start : entry.start+entry.count]
		sort.Slice(span, func(i, j int) bool {
			return centroidAxis(verts, faces[span[i]], axis) < centroidAxis(verts, faces[span[j]], axis)
		})

		mid := entry.count / 2
		nodes = append(nodes, makeInternal(bmin, bmax, 0, uint16(axis)))

		stack = append(stack, buildEntry{start: entry.start + mid, count: entry.count - mid, parentIdx: nodeIdx, isRightChild: true})
		stack = append(stack, buildEntry{start: entry.start, count: mid, parentIdx: nodeIdx, isRightChild: false})
	}

	reordered := make([]mesh.Triangle, len(faces))
	for i, srcIdx := range faceOrder {
		reordered[i] = faces[srcIdx]
	}

	return nodes, reordered
}

func serializeBVH(nodes []bvhNode) []byte {
	out := make([]byte, 16+len(nodes)*32)
	for i, n := range nodes {
		rec := out[16+i*32 : 16+(i+1)*32]
		putF32(rec[0:4], n.bboxMin[0])
		putF32(rec[4:8], n.bboxMin[1])
		putF32(rec[8:12], n.bboxMin[2])
		putF32(rec[12:16], n.bboxMax[0])
		putF32(rec[16:20], n.bboxMax[1])
		putF32(rec[20:24], n.bboxMax[2])
		putU32(rec[24:28], n.data0)
		putU16(rec[28:30], n.data1)
		putU16(rec[30:32], n.flags)
	}
	return out
}
