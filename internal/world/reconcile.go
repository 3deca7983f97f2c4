package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"lodterrain/internal/lod"
)

// GenerateChunks rebuilds the LOD tree at the current viewpoint and
// requests every leaf chunk that is neither stored nor in flight. Stored
// chunks no longer referenced are deactivated and evicted after the grace
// period. It returns the number of chunks enqueued.
func (w *World) GenerateChunks() int {
	defer w.prof.Track("world.GenerateChunks")()

	w.generation++
	gen := w.generation
	w.tree.Build(mgl32.Vec2{w.viewpoint.X(), w.viewpoint.Z()})

	enqueued := 0
	w.tree.Leaves(func(n lod.Node) {
		k := Key{X: n.X, Z: n.Z, LOD: n.LOD}
		if c, ok := w.store.Get(k); ok {
			c.active = true
			c.lastUsed = gen
			return
		}
		if c, ok := w.pending[k]; ok {
			c.lastUsed = gen
			return
		}
		c := newPlaceholder(k, gen)
		if err := w.queue.Enqueue(c); err != nil {
			w.logger.Warn("chunk request dropped", "x", k.X, "z", k.Z, "lod", k.LOD, "error", err)
			return
		}
		w.pending[k] = c
		w.inflight = append(w.inflight, c)
		enqueued++
	})
	w.enqueued += uint64(enqueued)

	evicted := w.store.Retire(gen, uint64(w.cfg.Cache.GraceGenerations))
	w.evicted += uint64(evicted)

	w.logger.Debug("chunks requested",
		"generation", gen,
		"leaves", w.tree.LeafCount(),
		"enqueued", enqueued,
		"inflight", len(w.inflight),
		"evicted", evicted)
	return enqueued
}

// IntegrateCompleted moves finished chunks into the store and reports
// whether any arrived.
func (w *World) IntegrateCompleted() bool {
	defer w.prof.Track("world.IntegrateCompleted")()

	arrived := 0
	kept := w.inflight[:0]
	for _, c := range w.inflight {
		if !c.Ready() {
			kept = append(kept, c)
			continue
		}
		delete(w.pending, c.Key)
		c.active = c.lastUsed == w.generation
		w.store.Add(c)
		arrived++
	}
	clear(w.inflight[len(kept):])
	w.inflight = kept
	w.completed += uint64(arrived)
	return arrived > 0
}
