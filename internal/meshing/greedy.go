package meshing

import "fmt"

// maxExtent bounds slice dimensions so origins and run lengths fit a Quad.
const maxExtent = 255

// GreedySlice merges the set cells of a width x height mask into rectangles
// and appends one quad per rectangle to dst. mask is indexed [v*width+u] and
// is cleared as cells are consumed. Every quad is a copy of base with its
// in-plane origin and run lengths filled in; base supplies the normal, the
// plane coordinate and the palette.
//
// The scan is row-major. From each set cell the rectangle grows right while
// cells are set, then down while the whole span of the next row is set.
func GreedySlice(mask []bool, width, height int, base Quad, dst []Quad) []Quad {
	if width < 0 || height < 0 || width > maxExtent || height > maxExtent {
		panic(fmt.Sprintf("meshing: slice %dx%d outside 0..%d", width, height, maxExtent))
	}
	if len(mask) < width*height {
		panic(fmt.Sprintf("meshing: mask has %d cells, slice needs %d", len(mask), width*height))
	}
	if !base.Normal.Valid() {
		panic(fmt.Sprintf("meshing: invalid normal %d", base.Normal))
	}
	ua, va := base.Normal.Plane()

	for v0 := 0; v0 < height; v0++ {
		row := mask[v0*width : (v0+1)*width]
		for u0 := 0; u0 < width; {
			if !row[u0] {
				u0++
				continue
			}
			w := 1
			for u0+w < width && row[u0+w] {
				w++
			}
			h := 1
		grow:
			for v0+h < height {
				start := (v0+h)*width + u0
				for _, set := range mask[start : start+w] {
					if !set {
						break grow
					}
				}
				h++
			}
			for dv := 0; dv < h; dv++ {
				start := (v0+dv)*width + u0
				clear(mask[start : start+w])
			}

			q := base
			q.setCoord(ua, u0)
			q.setCoord(va, v0)
			q.L0 = uint8(w)
			q.L1 = uint8(h)
			dst = append(dst, q)
			u0 += w
		}
	}
	return dst
}
