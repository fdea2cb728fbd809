// Package mesh reads collision geometry from OBJ and PLY files into a
// flat vertex/triangle list, fan-triangulating any polygon with more
// than three vertices.
package mesh

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Deep-In-Sight/ply2lcc/geom"
	"github.com/Deep-In-Sight/ply2lcc/lccerr"
	"github.com/Deep-In-Sight/ply2lcc/plyio"
)

// Triangle indexes three vertices by position in the Mesh's Vertices
// slice.
type Triangle struct {
	V0, V1, V2 uint32
}

// Mesh is a flat, triangulated collision geometry loaded from disk.
type Mesh struct {
	Vertices []geom.Vec3
	Faces    []Triangle
}

// Read dispatches on the file extension (".obj" or ".ply") to load a
// collision mesh.
func Read(path string) (Mesh, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".obj":
		return readOBJ(path)
	case ".ply":
		return readPLY(path)
	default:
		return Mesh{}, lccerr.Format("unknown mesh format "+ext, nil)
	}
}

func readOBJ(path string) (Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return Mesh{}, lccerr.Missing(path)
	}
	defer f.Close()

	var m Mesh
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				continue
			}
			x, errX := strconv.ParseFloat(fields[1], 32)
			y, errY := strconv.ParseFloat(fields[2], 32)
			z, errZ := strconv.ParseFloat(fields[3], 32)
			if errX != nil || errY != nil || errZ != nil {
				continue
			}
			m.Vertices = append(m.Vertices, geom.Vec3{X: float32(x), Y: float32(y), Z: float32(z)})
		case "f":
			indices := make([]uint32, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				idxStr := tok
				if slash := strings.IndexByte(tok, '/'); slash >= 0 {
					idxStr = tok[:slash]
				}
				idx, err := strconv.Atoi(idxStr)
				if err != nil {
					continue
				}
				if idx < 0 {
					idx = len(m.Vertices) + idx
				} else {
					idx--
				}
				indices = append(indices, uint32(idx))
			}
			for i := 2; i < len(indices); i++ {
				m.Faces = append(m.Faces, Triangle{V0: indices[0], V1: indices[i-1], V2: indices[i]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Mesh{}, lccerr.IO("reading obj file", err)
	}
	if len(m.Vertices) == 0 || len(m.Faces) == 0 {
		return Mesh{}, lccerr.Format("obj file has no vertices or faces", nil)
	}
	return m, nil
}

func readPLY(path string) (Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Mesh{}, lccerr.Missing(path)
	}
	hdr, err := plyio.ParseHeader(data)
	if err != nil {
		return Mesh{}, lccerr.Format("parsing ply header", err)
	}

	vertexEl, ok := hdr.FindElement("vertex")
	if !ok {
		return Mesh{}, lccerr.Format("no vertex element in ply file", nil)
	}
	faceEl, ok := hdr.FindElement("face")
	if !ok {
		return Mesh{}, lccerr.Format("no face element in ply file", nil)
	}

	offset := hdr.HeaderLength
	positions, offset, err := plyio.ReadVertexPositions(data, offset, vertexEl)
	if err != nil {
		return Mesh{}, lccerr.Format("reading ply vertices", err)
	}
	faces, _, err := plyio.ReadFaceElement(data, offset, faceEl)
	if err != nil {
		return Mesh{}, lccerr.Format("reading ply faces", err)
	}

	m := Mesh{
		Vertices: make([]geom.Vec3, len(positions)),
		Faces:    make([]Triangle, len(faces)),
	}
	for i, p := range positions {
		m.Vertices[i] = geom.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}
	for i, f := range faces {
		m.Faces[i] = Triangle{V0: f[0], V1: f[1], V2: f[2]}
	}
	return m, nil
}
