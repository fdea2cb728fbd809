// Package config holds the core conversion configuration record and
// the logic that resolves a user-supplied input path into an ordered
// list of LOD files, following the discovery rule of spec.md §3/§6:
// <base>.ply is LOD0, <base>_1.ply, <base>_2.ply, ... are included
// while the numbering stays contiguous from 1.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Deep-In-Sight/ply2lcc/lccerr"
	"github.com/Deep-In-Sight/ply2lcc/logging"
)

// ConvertConfig is the single configuration record the GUI/CLI hands
// to the core pipeline, per spec.md §6.
type ConvertConfig struct {
	InputPath string `toml:"input_path"`
	OutputDir string `toml:"output_dir"`

	CellSizeX float32 `toml:"cell_size_x"`
	CellSizeY float32 `toml:"cell_size_y"`

	SingleLOD bool `toml:"single_lod"`

	IncludeEnv bool   `toml:"include_env"`
	EnvPath    string `toml:"env_path"`

	IncludeCollision bool   `toml:"include_collision"`
	CollisionPath    string `toml:"collision_path"`

	PosesPath string `toml:"poses_path"`
}

// FileConfig is the optional on-disk TOML form of ConvertConfig plus
// ambient settings (logging) that don't belong in the core record.
type FileConfig struct {
	Convert ConvertConfig       `toml:"convert"`
	Log     logging.FileConfig `toml:"log"`
}

// DefaultCellSize is the fallback grid cell size in meters when
// neither a config file nor --cell-size overrides it.
const DefaultCellSize = 30.0

// LoadFile reads a TOML config file. An empty path is not an error;
// it returns a zero-value FileConfig so CLI flags are the only source
// of truth. A path naming a file that does not exist returns an
// InputMissing error.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	if path == "" {
		return fc, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fc, lccerr.Missing(path)
		}
		return fc, lccerr.IO("stat config file", err)
	}
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fc, lccerr.Format("malformed config file "+path, err)
	}
	return fc, nil
}

// ResolveTrainingOutputDir implements the common 3DGS training output
// convention: when inputPath is a directory containing a point_cloud/
// subdirectory with iteration_N children, pick the highest iteration
// that contains point_cloud.ply and return its path. A path that is not
// a directory is returned unchanged; a directory without a point_cloud/
// subdirectory resolves to the point_cloud.ply directly inside it.
// Grounded on the original tool's path_resolution.cpp.
func ResolveTrainingOutputDir(inputPath string) (string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return "", lccerr.Missing(inputPath)
	}
	if !info.IsDir() {
		return inputPath, nil
	}

	pcDir := filepath.Join(inputPath, "point_cloud")
	entries, err := os.ReadDir(pcDir)
	if err != nil {
		// Not a training-output layout; treat as a plain directory
		// containing point_cloud.ply directly (the base case).
		return filepath.Join(inputPath, "point_cloud.ply"), nil
	}

	iterRe := regexp.MustCompile(`^iteration_(\d+)$`)
	best := -1
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m := iterRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, convErr := strconv.Atoi(m[1])
		if convErr != nil {
			continue
		}
		candidate := filepath.Join(pcDir, e.Name(), "point_cloud.ply")
		if _, statErr := os.Stat(candidate); statErr == nil && n > best {
			best = n
		}
	}
	if best < 0 {
		return "", lccerr.Missing(filepath.Join(pcDir, "iteration_*/point_cloud.ply"))
	}
	return filepath.Join(pcDir, "iteration_"+strconv.Itoa(best), "point_cloud.ply"), nil
}

// ResolveOutputDir implements the "-o <project_dir>" convenience: a
// bare project directory gets results written under its LCC_Results
// subdirectory, matching resolve_output_path in path_resolution.cpp.
// A path that already ends in a recognizable results-directory name
// is returned unchanged.
func ResolveOutputDir(outputPath string) string {
	base := filepath.Base(outputPath)
	if base == "LCC_Results" {
		return outputPath
	}
	info, err := os.Stat(outputPath)
	if err == nil && info.IsDir() {
		return filepath.Join(outputPath, "LCC_Results")
	}
	return outputPath
}

// LODFiles discovers the ordered list of LOD files for the given base
// PLY path: the base path itself (LOD0) followed by <base>_1.ply,
// <base>_2.ply, ... while the numbering is contiguous from 1. If
// singleLOD is set, only LOD0 is returned.
func LODFiles(basePath string, singleLOD bool) ([]string, error) {
	if _, err := os.Stat(basePath); err != nil {
		return nil, lccerr.Missing(basePath)
	}
	if !strings.HasSuffix(strings.ToLower(basePath), ".ply") {
		return nil, lccerr.Arg("input file must have .ply extension: " + basePath)
	}

	dir := filepath.Dir(basePath)
	fileName := filepath.Base(basePath)
	baseName := fileName[:len(fileName)-len(".ply")]

	files := []string{basePath}
	if singleLOD {
		return files, nil
	}

	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(baseName) + `_(\d+)\.ply$`)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, lccerr.IO("list LOD directory "+dir, err)
	}

	type numbered struct {
		n    int
		path string
	}
	var found []numbered
	for _, e := range entries {
		m := pattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, convErr := strconv.Atoi(m[1])
		if convErr != nil {
			continue
		}
		found = append(found, numbered{n: n, path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	expected := 1
	for _, f := range found {
		if f.n != expected {
			break
		}
		files = append(files, f.path)
		expected++
	}
	return files, nil
}

// Validate checks the required fields and returns an InvalidArgument
// error describing the first violation found.
func (c ConvertConfig) Validate() error {
	if c.InputPath == "" {
		return lccerr.Arg("missing required input path (-i)")
	}
	if c.OutputDir == "" {
		return lccerr.Arg("missing required output directory (-o)")
	}
	if c.CellSizeX <= 0 || c.CellSizeY <= 0 {
		return lccerr.Arg("cell size must be positive")
	}
	if c.IncludeCollision && c.CollisionPath == "" {
		return lccerr.Arg("include_collision set but collision_path is empty")
	}
	if c.IncludeEnv && c.EnvPath == "" {
		return lccerr.Arg("include_env set but env_path is empty")
	}
	return nil
}

// WithDefaults fills in zero-valued optional fields with their
// documented defaults (cell size 30x30).
func (c ConvertConfig) WithDefaults() ConvertConfig {
	if c.CellSizeX == 0 {
		c.CellSizeX = DefaultCellSize
	}
	if c.CellSizeY == 0 {
		c.CellSizeY = DefaultCellSize
	}
	return c
}
