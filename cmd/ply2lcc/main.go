// Command ply2lcc transcodes a directory of LOD'd 3D Gaussian
// Splatting PLY files into a spatially-indexed, quantized container
// directory ready for streaming.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Deep-In-Sight/ply2lcc/config"
	"github.com/Deep-In-Sight/ply2lcc/convert"
	"github.com/Deep-In-Sight/ply2lcc/logging"
	"github.com/Deep-In-Sight/ply2lcc/progressrpc"
	"github.com/Deep-In-Sight/ply2lcc/statusweb"
)

const version = "1.0.0"

const helpMessage = `
ply2lcc transcodes 3D Gaussian Splatting point clouds into a
spatially-indexed, quantized, streamable container format.

Usage: ply2lcc -i <input.ply> -o <output_dir> [options]

      -i           =path     Input PLY file (LOD0) or training output directory.
      -o           =path     Output container directory.
      -e           =path     Optional environment/backdrop PLY file.
      -m           =path     Optional collision mesh (.ply or .obj).
      --cell-size  =X,Y      Grid cell size in scene units (default 30,30).
      --single-lod (flag)    Only process LOD0, ignoring numbered LOD files.
      --config     =path     Optional TOML config file; flags override it.
      --serve      (flag)    Start a progress relay (gorpc) and a /status
                             endpoint (goji, bound by goji's -bind flag)
                             for this run.
      --serve-addr =addr     Address for the progress relay (default
                             localhost:8302); implies --serve.
      --version    (flag)    Print version and exit.
  -h, --help       (flag)    Show this help message.
`

var (
	inputPath     = flag.String("i", "", "")
	outputDir     = flag.String("o", "", "")
	envPath       = flag.String("e", "", "")
	collisionPath = flag.String("m", "", "")
	cellSizeFlag  = flag.String("cell-size", "", "")
	singleLOD     = flag.Bool("single-lod", false, "")
	configPath    = flag.String("config", "", "")
	serveFlag     = flag.Bool("serve", false, "")
	serveAddr     = flag.String("serve-addr", "", "")
	showVersion   = flag.Bool("version", false, "")
	showHelp      = flag.Bool("h", false, "")
	showHelpLong  = flag.Bool("help", false, "")
)

func usage() {
	fmt.Print(helpMessage)
}

func parseCellSize(s string) (x, y float32, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("--cell-size must be X,Y, got %q", s)
	}
	xv, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("--cell-size: invalid X value %q", parts[0])
	}
	yv, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("--cell-size: invalid Y value %q", parts[1])
	}
	return float32(xv), float32(yv), nil
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *showHelp || *showHelpLong {
		usage()
		return
	}
	if *showVersion {
		fmt.Println("ply2lcc version " + version)
		return
	}

	cfg, err := resolveConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	log := logging.New(logging.InfoMode, nil)
	defer log.Shutdown()

	var relay *progressrpc.Server
	if *serveFlag || *serveAddr != "" {
		relay = progressrpc.NewServer(*serveAddr, nil, nil)
		errc := relay.Start()
		go func() {
			if err := <-errc; err != nil {
				fmt.Fprintln(os.Stderr, "progress relay error:", err)
			}
		}()
		statusweb.Mount(relay)
		go statusweb.Serve()
		fmt.Printf("progress relay listening on %s, /status mounted\n", relay.Address())
	}

	app := convert.App{
		Config: cfg,
		Logger: log,
		Progress: func(percent int, message string) {
			fmt.Printf("[%3d%%] %s\n", percent, message)
			if relay != nil {
				relay.ReportProgress(percent, message)
			}
		},
	}

	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func resolveConfig() (config.ConvertConfig, error) {
	var cfg config.ConvertConfig

	if *configPath != "" {
		fc, err := config.LoadFile(*configPath)
		if err != nil {
			return cfg, err
		}
		cfg = fc.Convert
	}

	if *inputPath != "" {
		resolved, err := config.ResolveTrainingOutputDir(*inputPath)
		if err != nil {
			return cfg, err
		}
		cfg.InputPath = resolved
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *envPath != "" {
		cfg.EnvPath = *envPath
		cfg.IncludeEnv = true
	}
	if *collisionPath != "" {
		cfg.CollisionPath = *collisionPath
		cfg.IncludeCollision = true
	}
	if *singleLOD {
		cfg.SingleLOD = true
	}
	if *cellSizeFlag != "" {
		x, y, err := parseCellSize(*cellSizeFlag)
		if err != nil {
			return cfg, err
		}
		cfg.CellSizeX = x
		cfg.CellSizeY = y
	}

	return cfg.WithDefaults(), nil
}
