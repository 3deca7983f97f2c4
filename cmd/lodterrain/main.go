package main

import (
	"flag"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"

	"lodterrain/internal/config"
	"lodterrain/internal/loop"
	"lodterrain/internal/meshing"
	"lodterrain/internal/terrain"
	"lodterrain/internal/upload"
	"lodterrain/internal/world"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults when empty)")
	duration := flag.Duration("duration", 10*time.Second, "fly-through length, 0 runs until interrupted")
	speed := flag.Float64("speed", 256, "viewpoint speed in blocks per second")
	altitude := flag.Float64("altitude", 80, "viewpoint height above the terrain")
	statsEvery := flag.Duration("stats", time.Second, "stats log interval")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		closer.Fatalln("load config:", err)
	}

	field := terrain.New(cfg.Terrain)
	w := world.New(cfg, field, log)
	up := upload.New(cfg.Upload.MaxIndicesPerChunk,
		meshing.NewLight(mgl32.Vec3(cfg.Lighting.SunDirection), cfg.Lighting.Ambient))

	stop := make(chan struct{})
	done := make(chan struct{})
	var stopOnce sync.Once
	closer.Bind(func() {
		stopOnce.Do(func() { close(stop) })
		<-done
		w.Close()
	})

	f := flight{
		world:    w,
		uploader: up,
		field:    field,
		limiter:  loop.NewLimiter(cfg.Loop.FPSLimit),
		log:      log,
		speed:    *speed,
		altitude: *altitude,
		stats:    *statsEvery,
	}
	go func() {
		f.run(*duration, stop)
		close(done)
		closer.Close()
	}()
	closer.Hold()
}
