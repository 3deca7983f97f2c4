// Package upload expands active chunks into renderer-ready vertex frames.
package upload

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"lodterrain/internal/meshing"
	"lodterrain/internal/world"
)

// Source yields the chunks to draw.
type Source interface {
	ForEachActive(fn func(c *world.Chunk))
}

// DrawRange locates one chunk in a frame. Its quads are drawn with
// IndexCount entries of the shared index pattern, offset by VertexOffset.
type DrawRange struct {
	Key          world.Key
	Origin       mgl32.Vec3
	LOD          uint8
	VertexOffset int
	IndexCount   int
}

// Frame is one complete upload.
type Frame struct {
	Serial   uint64
	Vertices []meshing.Vertex
	Ranges   []DrawRange
}

// Quads is the number of quads in the frame.
func (f *Frame) Quads() int { return len(f.Vertices) / 4 }

// Uploader double-buffers frames: Upload fills the back frame and then
// flips it to the front. The front frame is not written while published.
type Uploader struct {
	frames     [2]Frame
	front      int
	serial     uint64
	maxIndices int
	light      meshing.Light
	indices    []uint32
}

func New(maxIndicesPerChunk int, light meshing.Light) *Uploader {
	return &Uploader{
		maxIndices: maxIndicesPerChunk,
		light:      light,
		front:      0,
	}
}

// Upload rebuilds the back frame from src and publishes it. It panics if a
// chunk needs more than the per-chunk index cap.
func (u *Uploader) Upload(src Source) *Frame {
	back := &u.frames[1-u.front]
	back.Vertices = back.Vertices[:0]
	back.Ranges = back.Ranges[:0]

	src.ForEachActive(func(c *world.Chunk) {
		count := len(c.Quads) * meshing.IndicesPerQuad
		if count > u.maxIndices {
			panic(fmt.Sprintf("upload: chunk %+v needs %d indices, cap is %d", c.Key, count, u.maxIndices))
		}
		offset := len(back.Vertices)
		origin := c.Origin()
		scale := float32(c.Scale())
		for _, q := range c.Quads {
			back.Vertices = meshing.AppendQuadVertices(back.Vertices, q, origin, scale, u.light)
		}
		back.Ranges = append(back.Ranges, DrawRange{
			Key:          c.Key,
			Origin:       origin,
			LOD:          c.Key.LOD,
			VertexOffset: offset,
			IndexCount:   count,
		})
		u.growIndices(count)
	})

	u.serial++
	back.Serial = u.serial
	u.front = 1 - u.front
	return back
}

func (u *Uploader) growIndices(count int) {
	if have := len(u.indices); have < count {
		u.indices = meshing.AppendQuadIndices(u.indices, have/meshing.IndicesPerQuad, (count-have)/meshing.IndicesPerQuad)
	}
}

// Front returns the last published frame.
func (u *Uploader) Front() *Frame { return &u.frames[u.front] }

// Indices returns the shared quad index pattern, long enough for the
// largest chunk uploaded so far.
func (u *Uploader) Indices() []uint32 { return u.indices }
