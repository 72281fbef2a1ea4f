package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/config"
	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/density"
	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/export"
	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/heightmap"
	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/mesh"
	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/noise"
	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/voxel"
	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/world"
)

func main() {
	cfg := config.Default()
	configPath := flag.String("config", "terrain.yaml", "YAML config file (missing file is ignored)")

	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "noise seed")
	flag.StringVar(&cfg.GeneratorType, "generator", cfg.GeneratorType, `generator type ("heightmap" or "noise")`)
	flag.IntVar(&cfg.ChunkWidth, "chunk-width", cfg.ChunkWidth, "chunk width in voxels")
	flag.IntVar(&cfg.ChunkHeight, "chunk-height", cfg.ChunkHeight, "chunk height in voxels")
	flag.IntVar(&cfg.ChunkDepth, "chunk-depth", cfg.ChunkDepth, "chunk depth in voxels")
	flag.IntVar(&cfg.WorldChunksX, "world-x", cfg.WorldChunksX, "world extent in chunks along x")
	flag.IntVar(&cfg.WorldChunksY, "world-y", cfg.WorldChunksY, "world extent in chunks along y")
	flag.IntVar(&cfg.WorldChunksZ, "world-z", cfg.WorldChunksZ, "world extent in chunks along z")
	flag.StringVar(&cfg.HeightmapPath, "heightmap", cfg.HeightmapPath, "heightmap image path")
	flag.Float64Var(&cfg.Amplitude, "amplitude", cfg.Amplitude, "height amplitude applied to heightmap samples")
	flag.Float64Var(&cfg.HeightOffset, "height-offset", cfg.HeightOffset, "vertical bias subtracted from the surface height")
	flag.Float64Var(&cfg.Frequency, "frequency", cfg.Frequency, "noise frequency")
	flag.IntVar(&cfg.Octaves, "octaves", cfg.Octaves, "noise octaves")
	flag.Float64Var(&cfg.Persistence, "persistence", cfg.Persistence, "noise octave persistence")
	flag.Float64Var(&cfg.BaseHeight, "base-height", cfg.BaseHeight, "noise terrain base height")
	flag.Float64Var(&cfg.Gradient, "gradient", cfg.Gradient, "noise vertical gradient strength")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "worker count per generation batch (0 = one per CPU)")
	flag.Float64Var(&cfg.IsoLevel, "iso", cfg.IsoLevel, "iso level for surface extraction")
	flag.StringVar(&cfg.Output, "o", cfg.Output, "output mesh path (.obj, .gz suffix compresses)")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	fileCfg := config.Default()
	if err := config.Load(*configPath, fileCfg); err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}
	config.Merge(cfg, fileCfg, explicit)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("generation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	factory, err := buildFactory(cfg, log)
	if err != nil {
		return err
	}

	store, err := world.NewStore(cfg.ChunkWidth, cfg.ChunkHeight, cfg.ChunkDepth,
		cfg.Workers, factory, log)
	if err != nil {
		return err
	}

	log.Info("generating world",
		"generator", cfg.GeneratorType,
		"chunks", cfg.WorldChunksX*cfg.WorldChunksY*cfg.WorldChunksZ,
		"chunkSize", fmt.Sprintf("%dx%dx%d", cfg.ChunkWidth, cfg.ChunkHeight, cfg.ChunkDepth),
	)

	start := time.Now()
	combined := &mesh.Mesh{}
	chunks := 0
	for cz := 0; cz < cfg.WorldChunksZ; cz++ {
		for cy := 0; cy < cfg.WorldChunksY; cy++ {
			for cx := 0; cx < cfg.WorldChunksX; cx++ {
				pos := world.ChunkPos{X: cx, Y: cy, Z: cz}
				vol, err := store.GenerateChunk(ctx, pos)
				if err != nil {
					// One failed chunk fails the run; a partially stitched
					// mesh would silently miss terrain.
					return err
				}
				off := store.Offset(pos)
				chunkMesh := mesh.Extract(vol, float32(cfg.IsoLevel))
				combined.AppendTranslated(chunkMesh, float32(off.X), float32(off.Y), float32(off.Z))
				chunks++
			}
		}
	}

	if err := export.Save(cfg.Output, combined); err != nil {
		return err
	}

	elapsed := time.Since(start)
	color.Green("generated %d chunks, %d vertices, %d triangles in %s",
		chunks, combined.VertexCount(), combined.TriangleCount(), elapsed.Round(time.Millisecond))
	color.Cyan("mesh written to %s", cfg.Output)
	return nil
}

func buildFactory(cfg *config.Config, log *slog.Logger) (world.KernelFactory, error) {
	switch cfg.GeneratorType {
	case config.GeneratorNoise:
		ng := noise.New(cfg.Seed)
		return func(offset voxel.Vec3i, out *voxel.Volume) world.Keyed {
			return density.NoiseKernel{
				Noise:       ng,
				Frequency:   cfg.Frequency,
				Octaves:     cfg.Octaves,
				Persistence: cfg.Persistence,
				BaseHeight:  cfg.BaseHeight,
				Gradient:    cfg.Gradient,
				WorldOffset: offset,
				Volume:      out,
			}
		}, nil

	default:
		// Scale the source image to the world's ground extent: one sample
		// per world unit.
		hm, err := heightmap.LoadScaled(cfg.HeightmapPath,
			cfg.WorldChunksX*cfg.ChunkWidth, cfg.WorldChunksZ*cfg.ChunkDepth)
		if err != nil {
			return nil, err
		}
		log.Info("heightmap loaded", "path", cfg.HeightmapPath,
			"width", hm.Width, "height", hm.Height)
		return func(offset voxel.Vec3i, out *voxel.Volume) world.Keyed {
			return density.HeightmapKernel{
				Heightmap:    hm,
				Amplitude:    float32(cfg.Amplitude),
				HeightOffset: float32(cfg.HeightOffset),
				WorldOffset:  offset,
				Volume:       out,
			}
		}, nil
	}
}
