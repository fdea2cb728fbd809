package lcc

import (
	"os"
	"path/filepath"

	"github.com/Deep-In-Sight/ply2lcc/collision"
	"github.com/Deep-In-Sight/ply2lcc/encode"
	"github.com/Deep-In-Sight/ply2lcc/geom"
	"github.com/Deep-In-Sight/ply2lcc/lccerr"
)

// WriteRequest bundles every piece the writer needs to emit a
// complete container directory.
type WriteRequest struct {
	OutputDir      string
	Name           string
	Description    string
	Source         string
	CellSizeX      float32
	CellSizeY      float32
	BoundingBox    geom.BBox
	AttrRanges     geom.AttributeRanges
	EncodeResult   encode.Result
	NumLODs        int
	Environment    *encode.Environment
	Collision      *collision.Data
	PosesPath      string
}

// Write emits every container file WriteRequest implies into
// req.OutputDir, creating the directory if necessary.
func Write(req WriteRequest) error {
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return lccerr.IO("creating output directory", err)
	}

	data, shcoef, index := BuildDataAndIndex(req.EncodeResult.Cells, req.NumLODs)

	if err := writeFile(req.OutputDir, "data.bin", data); err != nil {
		return err
	}
	if req.EncodeResult.HasSH {
		if err := writeFile(req.OutputDir, "shcoef.bin", shcoef); err != nil {
			return err
		}
	}
	if err := writeFile(req.OutputDir, "index.bin", index); err != nil {
		return err
	}

	hasEnv := req.Environment != nil
	hasCollision := req.Collision != nil

	fileType := "Portable"
	if req.EncodeResult.HasSH {
		fileType = "Quality"
	}

	meta := MetaInfo{
		GUID:           NewGUID(),
		Name:           req.Name,
		Description:    req.Description,
		Source:         req.Source,
		TotalSplats:    req.EncodeResult.TotalSplats,
		TotalLevels:    req.NumLODs,
		CellLengthX:    req.CellSizeX,
		CellLengthY:    req.CellSizeY,
		IndexDataSize:  indexRecordSize(req.NumLODs),
		SplatsPerLOD:   req.EncodeResult.SplatsPerLOD,
		BoundingBox:    req.BoundingBox,
		FileType:       fileType,
		HasEnvironment: hasEnv,
		AttrRanges:     req.AttrRanges,
	}
	if hasEnv {
		meta.EnvBounds = req.Environment.Bounds
	}

	metaJSON := WriteMeta(meta)
	if err := ValidateMeta(metaJSON); err != nil {
		return lccerr.Format("meta.lcc failed schema validation", err)
	}
	if err := writeFile(req.OutputDir, "meta.lcc", []byte(metaJSON)); err != nil {
		return err
	}

	attrsJSON := WriteAttrs(hasCollision, req.PosesPath)
	if err := ValidateAttrs(attrsJSON); err != nil {
		return lccerr.Format("attrs.lcp failed schema validation", err)
	}
	if err := writeFile(req.OutputDir, "attrs.lcp", []byte(attrsJSON)); err != nil {
		return err
	}

	if hasEnv {
		if err := writeFile(req.OutputDir, "environment.bin", req.Environment.Data); err != nil {
			return err
		}
	}

	if hasCollision {
		collisionBytes := BuildCollisionFile(*req.Collision)
		if err := writeFile(req.OutputDir, "collision.lci", collisionBytes); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(dir, name string, data []byte) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return lccerr.IO("writing "+name, err)
	}
	return nil
}
