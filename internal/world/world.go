// Package world streams LOD terrain chunks around a moving viewpoint.
package world

import (
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"lodterrain/internal/config"
	"lodterrain/internal/jobs"
	"lodterrain/internal/lod"
	"lodterrain/internal/meshing"
	"lodterrain/internal/profiling"
	"lodterrain/internal/terrain"
)

// Stats are aggregate counters for diagnostics.
type Stats struct {
	Loaded     int    // ready chunks in the store
	Loading    int    // chunks in flight
	Active     int    // tree leaves resolved to ready chunks
	Leaves     int    // leaves of the current tree
	Quads      int    // quads over all stored chunks
	QuadBytes  int    // memory of those quads
	Enqueued   uint64 // generation jobs submitted
	Completed  uint64 // generation jobs integrated
	Evicted    uint64
	Generation uint64 // tree rebuilds
}

// World owns the LOD tree, the chunk cache and the generation workers.
// Except for the workers, all methods must be called from one goroutine.
type World struct {
	cfg    config.Config
	logger *slog.Logger
	prof   *profiling.Tracker

	tree    *lod.Tree
	store   *ChunkStore
	queue   *jobs.Queue[*Chunk]
	gen     meshing.Generator
	scratch []*meshing.Scratch // indexed by worker

	inflight []*Chunk
	pending  map[Key]*Chunk

	viewpoint mgl32.Vec3
	cell      [2]int
	placed    bool

	generation uint64
	enqueued   uint64
	completed  uint64
	evicted    uint64
}

// New starts the worker pool. cfg must be valid.
func New(cfg config.Config, field terrain.HeightField, logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	size := cfg.Chunk.Size
	w := &World{
		cfg:    cfg,
		logger: logger,
		prof:   profiling.NewTracker(),
		tree:   lod.NewTree(size, cfg.Chunk.MaxLOD, lod.NewPolicy(cfg.Thresholds())),
		store:  NewChunkStore(),
		gen: meshing.Generator{
			Field:     field,
			Size:      size,
			MaxSlices: cfg.Chunk.MaxSlices,
		},
		pending: make(map[Key]*Chunk),
	}
	w.scratch = make([]*meshing.Scratch, cfg.Workers)
	for i := range w.scratch {
		w.scratch[i] = meshing.NewScratch(size, cfg.Chunk.MaxSlices)
	}
	w.queue = jobs.New(cfg.Workers, w.generate)
	logger.Info("world started",
		"chunkSize", size,
		"maxLod", cfg.Chunk.MaxLOD,
		"workers", cfg.Workers,
		"thresholds", cfg.Thresholds())
	return w
}

// generate runs on a worker goroutine.
func (w *World) generate(c *Chunk, worker int) {
	y, quads := w.gen.Build(w.scratch[worker], c.Key.X, c.Key.Z, c.Key.LOD)
	c.complete(y, quads)
}

// SetViewpoint records the viewer position and reports whether it entered
// a different chunk cell, which is when the tree must be rebuilt.
func (w *World) SetViewpoint(p mgl32.Vec3) bool {
	w.viewpoint = p
	size := float64(w.cfg.Chunk.Size)
	cell := [2]int{
		int(math.Floor(float64(p.X()) / size)),
		int(math.Floor(float64(p.Z()) / size)),
	}
	if w.placed && cell == w.cell {
		return false
	}
	w.cell = cell
	w.placed = true
	return true
}

func (w *World) Viewpoint() mgl32.Vec3 { return w.viewpoint }

// Update runs one tick: rebuilds the tree when the viewpoint changed cell
// and integrates finished chunks. It reports whether the set of active
// chunks may differ from the previous tick, either because the tree was
// rebuilt or because new chunks arrived. Callers re-upload when it does.
func (w *World) Update(p mgl32.Vec3) bool {
	w.prof.Reset()
	start := time.Now()
	rebuilt := w.SetViewpoint(p)
	if rebuilt {
		w.GenerateChunks()
	}
	arrived := w.IntegrateCompleted()
	if d := time.Since(start); w.cfg.Loop.SlowTick > 0 && d > w.cfg.Loop.SlowTick {
		w.logger.Warn("slow tick", "elapsed", d, "top", w.prof.TopN(3))
	}
	return rebuilt || arrived
}

// ForEachActive calls fn for every leaf of the current tree whose chunk is
// generated. Leaves still in flight are skipped.
func (w *World) ForEachActive(fn func(c *Chunk)) {
	w.tree.Leaves(func(n lod.Node) {
		if c, ok := w.store.Get(Key{X: n.X, Z: n.Z, LOD: n.LOD}); ok && c.Ready() {
			fn(c)
		}
	})
}

// ActiveChunks returns the chunks ForEachActive visits.
func (w *World) ActiveChunks() []*Chunk {
	out := make([]*Chunk, 0, w.tree.LeafCount())
	w.ForEachActive(func(c *Chunk) { out = append(out, c) })
	return out
}

// Chunk returns the stored chunk for k.
func (w *World) Chunk(k Key) (*Chunk, bool) { return w.store.Get(k) }

func (w *World) Tree() *lod.Tree { return w.tree }

func (w *World) Stats() Stats {
	active := 0
	w.ForEachActive(func(*Chunk) { active++ })
	return Stats{
		Loaded:     w.store.Len(),
		Loading:    len(w.inflight),
		Active:     active,
		Leaves:     w.tree.LeafCount(),
		Quads:      w.store.Quads(),
		QuadBytes:  w.store.Quads() * meshing.QuadBytes,
		Enqueued:   w.enqueued,
		Completed:  w.completed,
		Evicted:    w.evicted,
		Generation: w.generation,
	}
}

// Wait blocks until every queued chunk has been generated. Call
// IntegrateCompleted afterwards to publish them.
func (w *World) Wait() {
	defer w.prof.Track("world.Wait")()
	w.queue.WaitIdle()
}

// Close stops the workers. Queued chunks that have not started are dropped.
func (w *World) Close() {
	w.queue.Close()
	w.logger.Info("world stopped",
		"loaded", w.store.Len(),
		"dropped", len(w.inflight))
}
