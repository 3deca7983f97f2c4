package main

import (
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"lodterrain/internal/loop"
	"lodterrain/internal/terrain"
	"lodterrain/internal/upload"
	"lodterrain/internal/world"
)

// flight drives the world along a straight line over the terrain.
type flight struct {
	world    *world.World
	uploader *upload.Uploader
	field    terrain.HeightField
	limiter  *loop.Limiter
	log      *slog.Logger

	speed    float64
	altitude float64
	stats    time.Duration
}

func (f *flight) position(dist float64) mgl32.Vec3 {
	x := int(dist)
	y := float64(f.field.HeightAt(x, 0)) + f.altitude
	return mgl32.Vec3{float32(dist), float32(y), 0}
}

func (f *flight) run(length time.Duration, stop <-chan struct{}) {
	start := time.Now()
	last := start
	lastStats := start
	dist := 0.0
	ticks := 0
	var frame *upload.Frame

	for {
		select {
		case <-stop:
			f.log.Info("flight interrupted", "ticks", ticks)
			return
		default:
		}
		now := time.Now()
		if length > 0 && now.Sub(start) >= length {
			break
		}
		dist += f.speed * now.Sub(last).Seconds()
		last = now

		if f.world.Update(f.position(dist)) {
			frame = f.uploader.Upload(f.world)
		}
		ticks++

		if now.Sub(lastStats) >= f.stats {
			f.logStats(frame, ticks)
			lastStats = now
		}
		f.limiter.Wait()
	}

	f.world.Wait()
	f.world.IntegrateCompleted()
	frame = f.uploader.Upload(f.world)
	f.logStats(frame, ticks)
	f.log.Info("flight complete", "distance", int(dist), "elapsed", time.Since(start).Round(time.Millisecond))
}

func (f *flight) logStats(frame *upload.Frame, ticks int) {
	st := f.world.Stats()
	args := []any{
		"tick", ticks,
		"generation", st.Generation,
		"leaves", st.Leaves,
		"active", st.Active,
		"loaded", st.Loaded,
		"loading", st.Loading,
		"quads", st.Quads,
		"quadBytes", st.QuadBytes,
		"evicted", st.Evicted,
	}
	if frame != nil {
		args = append(args, "frame", frame.Serial, "vertices", len(frame.Vertices), "ranges", len(frame.Ranges))
	}
	f.log.Info("stats", args...)
}
