// Package convert orchestrates the full pipeline from a directory of
// LOD'd PLY files to a written container directory: partition into a
// spatial grid, quantize every cell, optionally encode an environment
// backdrop and collision mesh, then write the container files.
package convert

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/Deep-In-Sight/ply2lcc/collision"
	"github.com/Deep-In-Sight/ply2lcc/config"
	"github.com/Deep-In-Sight/ply2lcc/encode"
	"github.com/Deep-In-Sight/ply2lcc/grid"
	"github.com/Deep-In-Sight/ply2lcc/lcc"
	"github.com/Deep-In-Sight/ply2lcc/lccerr"
	"github.com/Deep-In-Sight/ply2lcc/logging"
)

// ProgressFunc reports (percent, message) over the lifetime of a run,
// the Go-native analogue of the two GUI progress/log callbacks.
type ProgressFunc func(percent int, message string)

// App runs one end-to-end conversion from a resolved ConvertConfig.
type App struct {
	Config   config.ConvertConfig
	Logger   logging.Logger
	Progress ProgressFunc
}

func (a *App) report(percent int, message string) {
	if a.Progress != nil {
		a.Progress(percent, message)
	}
	if a.Logger != nil {
		a.Logger.Infof("%s", message)
	}
}

// Run executes the full pipeline: grid build, cell encoding, optional
// environment and collision passes, and container emission.
func (a *App) Run() error {
	cfg := a.Config.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.report(0, "starting conversion")

	lodFiles, err := config.LODFiles(cfg.InputPath, cfg.SingleLOD)
	if err != nil {
		return err
	}

	outputDir := config.ResolveOutputDir(cfg.OutputDir)

	a.report(2, fmt.Sprintf("discovered %d lod level(s)", len(lodFiles)))

	a.report(5, "building spatial grid")
	g, buffers, err := grid.BuildFromFiles(lodFiles, cfg.CellSizeX, cfg.CellSizeY)
	if err != nil {
		return lccerr.Format("building spatial grid", err)
	}
	defer func() {
		for _, b := range buffers {
			b.Close()
		}
	}()

	hasSH := g.SHDegree > 0

	a.report(15, fmt.Sprintf("encoding %d cells across %d lods", g.NumCells(), len(buffers)))
	encodeResult := encode.Encode(g, buffers, hasSH, a.Logger, func(percent int, message string) {
		a.report(percent, message)
	})

	var env *encode.Environment
	if cfg.IncludeEnv {
		envBuf, err := openEnvironment(cfg.EnvPath)
		if err != nil {
			a.report(85, fmt.Sprintf("environment file unavailable, skipping: %v", err))
		} else {
			defer envBuf.Close()
			result := encode.EncodeEnvironment(envBuf, hasSH)
			env = &result
			a.report(85, fmt.Sprintf("encoded environment: %s", humanize.Bytes(uint64(len(result.Data)))))
		}
	}

	var coll *collision.Data
	if cfg.IncludeCollision {
		a.report(85, "building collision mesh")
		data, err := collision.Encode(cfg.CollisionPath, cfg.CellSizeX, cfg.CellSizeY, g.BBox)
		if err != nil {
			a.report(85, fmt.Sprintf("collision build failed, skipping: %v", err))
		} else {
			coll = &data
			a.report(85, fmt.Sprintf("collision encoded: %d triangles in %d cells", data.TotalTriangles(), len(data.Cells)))
		}
	}

	a.report(90, "writing container")
	req := lcc.WriteRequest{
		OutputDir:    outputDir,
		Name:         "scene",
		Source:       cfg.InputPath,
		CellSizeX:    cfg.CellSizeX,
		CellSizeY:    cfg.CellSizeY,
		BoundingBox:  g.BBox,
		AttrRanges:   g.Ranges,
		EncodeResult: encodeResult,
		NumLODs:      len(buffers),
		Environment:  env,
		Collision:    coll,
		PosesPath:    cfg.PosesPath,
	}
	if err := lcc.Write(req); err != nil {
		return err
	}

	a.report(100, fmt.Sprintf("wrote %s splats to %s", humanize.Comma(int64(encodeResult.TotalSplats)), outputDir))
	return nil
}
