package meshing

import "fmt"

// Volume is a cubic occupancy grid plus one halo slice per face direction.
// Halo[n] holds the cells just outside the face the normal n points through,
// indexed [v*Size+u] over the in-plane axes of n.
type Volume struct {
	Size  int
	Solid []bool // [(y*Size+z)*Size+x]
	Halo  [NumNormals][]bool

	mask []bool
}

func NewVolume(size int) *Volume {
	if size < 1 || size > maxExtent-1 {
		panic(fmt.Sprintf("meshing: volume size %d outside 1..%d", size, maxExtent-1))
	}
	v := &Volume{
		Size:  size,
		Solid: make([]bool, size*size*size),
		mask:  make([]bool, size*size),
	}
	for n := range v.Halo {
		v.Halo[n] = make([]bool, size*size)
	}
	return v
}

func (v *Volume) index(x, y, z int) int { return (y*v.Size+z)*v.Size + x }

func (v *Volume) Set(x, y, z int, solid bool) { v.Solid[v.index(x, y, z)] = solid }

func (v *Volume) At(x, y, z int) bool { return v.Solid[v.index(x, y, z)] }

// Reset clears the volume and its halos for reuse.
func (v *Volume) Reset() {
	clear(v.Solid)
	for n := range v.Halo {
		clear(v.Halo[n])
	}
}

// solidAt reads a cell that may lie one step outside the volume through
// the face of direction n.
func (v *Volume) solidAt(p [3]int, n Normal) bool {
	a := n.Axis()
	if p[a] < 0 || p[a] >= v.Size {
		ua, va := n.Plane()
		return v.Halo[n][p[va]*v.Size+p[ua]]
	}
	return v.At(p[0], p[1], p[2])
}

// MeshVolume appends the greedy-merged exposed faces of all six directions.
// A face is exposed when its cell is solid and the neighbor along the normal
// is empty; neighbors across the boundary come from the halo slices.
// It is the general occupancy entry point; streamed heightfield chunks go
// through Generator.Build, which emits the same faces without a volume.
func MeshVolume(v *Volume, dst []Quad) []Quad {
	s := v.Size
	mask := v.mask
	for n := Normal(0); n < NumNormals; n++ {
		a := n.Axis()
		ua, va := n.Plane()
		for layer := 0; layer < s; layer++ {
			found := false
			for cv := 0; cv < s; cv++ {
				for cu := 0; cu < s; cu++ {
					var p [3]int
					p[a], p[ua], p[va] = layer, cu, cv
					set := false
					if v.At(p[0], p[1], p[2]) {
						p[a] += n.Sign()
						set = !v.solidAt(p, n)
					}
					mask[cv*s+cu] = set
					found = found || set
				}
			}
			if !found {
				continue
			}
			plane := layer
			if n.Sign() > 0 {
				plane++
			}
			base := Quad{Normal: n, Palette: n.Palette()}
			base.setCoord(a, plane)
			dst = GreedySlice(mask, s, s, base, dst)
		}
	}
	return dst
}
