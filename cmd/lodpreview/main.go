package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"

	"lodterrain/internal/config"
	"lodterrain/internal/lod"
	"lodterrain/internal/preview"
	"lodterrain/internal/terrain"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults when empty)")
	out := flag.String("out", "lod.png", "output PNG path")
	x := flag.Float64("x", 0, "viewpoint x")
	z := flag.Float64("z", 0, "viewpoint z")
	step := flag.Int("step", 0, "world blocks per sampled pixel (0 picks one for a 512px map)")
	zoom := flag.Int("zoom", 2, "output pixels per sampled pixel")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	defer closer.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		closer.Fatalln("load config:", err)
	}

	tree := lod.NewTree(cfg.Chunk.Size, cfg.Chunk.MaxLOD, lod.NewPolicy(cfg.Thresholds()))
	tree.Build(mgl32.Vec2{float32(*x), float32(*z)})

	opts := preview.DefaultOptions()
	opts.Zoom = *zoom
	opts.Step = *step
	if opts.Step <= 0 {
		opts.Step = max(tree.RootSize()/512, 1)
	}

	img := preview.Render(terrain.New(cfg.Terrain), tree, opts)
	if err := preview.SavePNG(img, *out); err != nil {
		closer.Fatalln("save preview:", err)
	}
	log.Info("preview written",
		"path", *out,
		"leaves", tree.LeafCount(),
		"rootSize", tree.RootSize(),
		"pixels", img.Bounds().Dx())
}
