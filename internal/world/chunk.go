package world

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"lodterrain/internal/meshing"
)

// Key identifies a chunk: the minimum XZ corner in world blocks and the LOD.
type Key struct {
	X, Z int
	LOD  uint8
}

// Scale is the world width of one chunk cell.
func (k Key) Scale() int { return 1 << k.LOD }

// Position is a chunk's world-space minimum corner.
type Position struct {
	X, Y, Z int
}

// Chunk is one generated terrain tile. It is created as a placeholder; a
// worker fills Position.Y and Quads and then marks it ready. A ready chunk
// is never modified again.
type Chunk struct {
	Key      Key
	Position Position
	Quads    []meshing.Quad

	// Owned by the world goroutine.
	active   bool
	lastUsed uint64

	ready atomic.Bool
}

func newPlaceholder(k Key, generation uint64) *Chunk {
	return &Chunk{
		Key:      k,
		Position: Position{X: k.X, Z: k.Z},
		lastUsed: generation,
	}
}

// Ready reports whether generation finished. Quads and Position.Y may only
// be read after Ready returns true.
func (c *Chunk) Ready() bool { return c.ready.Load() }

// Active reports whether the current LOD tree references the chunk.
func (c *Chunk) Active() bool { return c.active }

// Scale is the world size of one chunk cell.
func (c *Chunk) Scale() int { return c.Key.Scale() }

// Origin is the world position of the minimum corner.
func (c *Chunk) Origin() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.Position.X), float32(c.Position.Y), float32(c.Position.Z)}
}

// QuadBytes is the memory held by the quad list.
func (c *Chunk) QuadBytes() int { return len(c.Quads) * meshing.QuadBytes }

// complete publishes the generated data. Called once by the worker.
func (c *Chunk) complete(y int, quads []meshing.Quad) {
	c.Position.Y = y
	c.Quads = quads
	c.ready.Store(true)
}
