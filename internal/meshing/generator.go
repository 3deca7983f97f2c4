package meshing

import (
	"fmt"
	"math"

	"lodterrain/internal/terrain"
)

// DefaultMaxSlices caps the vertical slice count of one chunk.
const DefaultMaxSlices = 128

// Generator turns a height field into chunk quads.
type Generator struct {
	Field     terrain.HeightField
	Size      int // cells per chunk edge
	MaxSlices int
}

// Scratch holds the per-worker buffers of Build. It must not be shared
// between goroutines.
type Scratch struct {
	size    int
	heights []int // (size+2)^2 with a one-cell halo ring, corners unused
	mask    []bool
	quads   []Quad
}

func NewScratch(size, maxSlices int) *Scratch {
	return &Scratch{
		size:    size,
		heights: make([]int, (size+2)*(size+2)),
		mask:    make([]bool, size*max(size, maxSlices)),
		quads:   make([]Quad, 0, 1024),
	}
}

// height returns the sampled column height; x and z range over -1..size.
func (s *Scratch) height(x, z int) int {
	return s.heights[(z+1)*(s.size+2)+x+1]
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// Build meshes the chunk whose minimum corner is (x, z) in world blocks at
// the given LOD. Cells are 2^lod blocks wide. It returns the chunk's world Y
// and a freshly allocated quad list.
//
// The footprint is sampled on a size x size grid plus one halo row on each
// side. Y is the lowest sample snapped down to the LOD scale. Build panics
// if the terrain spans MaxSlices or more slices.
func (g *Generator) Build(s *Scratch, x, z int, lod uint8) (int, []Quad) {
	size := g.Size
	if s.size != size {
		panic(fmt.Sprintf("meshing: scratch sized %d, generator %d", s.size, size))
	}
	scale := 1 << lod
	stride := size + 2

	lo, hi := math.MaxInt, math.MinInt
	for j := -1; j <= size; j++ {
		for i := -1; i <= size; i++ {
			if (i < 0 || i == size) && (j < 0 || j == size) {
				continue
			}
			h := int(math.Floor(float64(g.Field.HeightAt(x+i*scale, z+j*scale))))
			s.heights[(j+1)*stride+i+1] = h
			lo = min(lo, h)
			hi = max(hi, h)
		}
	}

	y := floorDiv(lo, scale) * scale
	slices := (floorDiv(hi, scale)*scale-y)/scale + 2
	if slices >= g.MaxSlices {
		panic(fmt.Sprintf("meshing: chunk (%d,%d) lod %d spans heights %d..%d, %d slices exceeds cap %d",
			x, z, lod, lo, hi, slices, g.MaxSlices))
	}

	quads := s.quads[:0]
	quads = g.tops(s, quads, y, scale, slices)
	quads = g.wallsX(s, quads, y, scale, slices)
	quads = g.wallsZ(s, quads, y, scale, slices)
	s.quads = quads

	out := make([]Quad, len(quads))
	copy(out, quads)
	return y, out
}

// tops emits +Y faces. Slice sl holds the columns whose surface lies in
// (y+scale*(sl-1), y+scale*sl].
func (g *Generator) tops(s *Scratch, dst []Quad, y, scale, slices int) []Quad {
	size := g.Size
	mask := s.mask[:size*size]
	for sl := 0; sl < slices; sl++ {
		lower, upper := y+scale*(sl-1), y+scale*sl
		found := false
		for z := 0; z < size; z++ {
			for x := 0; x < size; x++ {
				h := s.height(x, z)
				set := lower < h && upper >= h
				mask[z*size+x] = set
				found = found || set
			}
		}
		if found {
			dst = GreedySlice(mask, size, size, Quad{Y: uint8(sl), Normal: PosY, Palette: PaletteTop}, dst)
		}
	}
	return dst
}

// wallsX emits -X and +X faces. A slice k of column (x, z) is exposed when
// it is below the column surface and not below the neighbor's.
func (g *Generator) wallsX(s *Scratch, dst []Quad, y, scale, slices int) []Quad {
	size := g.Size
	mask := s.mask[:size*slices] // [z*slices+k]
	for x := 0; x < size; x++ {
		for _, n := range [2]Normal{NegX, PosX} {
			nx := x + n.Sign()
			found := false
			for z := 0; z < size; z++ {
				h, hn := s.height(x, z), s.height(nx, z)
				for k := 0; k < slices; k++ {
					level := y + k*scale
					set := level < h && level >= hn
					mask[z*slices+k] = set
					found = found || set
				}
			}
			if !found {
				continue
			}
			plane := x
			if n == PosX {
				plane++
			}
			dst = GreedySlice(mask, slices, size, Quad{X: uint8(plane), Normal: n, Palette: n.Palette()}, dst)
		}
	}
	return dst
}

// wallsZ emits -Z and +Z faces, masks indexed [k*size+x].
func (g *Generator) wallsZ(s *Scratch, dst []Quad, y, scale, slices int) []Quad {
	size := g.Size
	mask := s.mask[:size*slices]
	for z := 0; z < size; z++ {
		for _, n := range [2]Normal{NegZ, PosZ} {
			nz := z + n.Sign()
			found := false
			for k := 0; k < slices; k++ {
				level := y + k*scale
				for x := 0; x < size; x++ {
					set := level < s.height(x, z) && level >= s.height(x, nz)
					mask[k*size+x] = set
					found = found || set
				}
			}
			if !found {
				continue
			}
			plane := z
			if n == PosZ {
				plane++
			}
			dst = GreedySlice(mask, size, slices, Quad{Z: uint8(plane), Normal: n, Palette: n.Palette()}, dst)
		}
	}
	return dst
}
