package meshing

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one expanded quad corner in world space.
type Vertex struct {
	Position mgl32.Vec3
	Shade    float32
	Palette  uint8
	Normal   Normal
}

// Light is the static directional light applied at expansion time.
type Light struct {
	Sun     mgl32.Vec3 // unit vector pointing towards the sun
	Ambient float32
}

func NewLight(sun mgl32.Vec3, ambient float32) Light {
	if sun.Len() > 0 {
		sun = sun.Normalize()
	}
	return Light{Sun: sun, Ambient: ambient}
}

// Shade returns max(ambient, n.sun) for faces of direction n.
func (l Light) Shade(n Normal) float32 {
	return max(l.Ambient, n.Vec().Dot(l.Sun))
}

// IndicesPerQuad is the two-triangle index pattern length.
const IndicesPerQuad = 6

// quadCorners lists the corner offsets in (u, v) units. Faces whose in-plane
// basis u x v points against the normal use the reversed order so that
// every quad winds counter-clockwise seen from outside.
var (
	cornersCCW = [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	cornersCW  = [4][2]float32{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
)

func corners(n Normal) *[4][2]float32 {
	var u, v mgl32.Vec3
	ua, va := n.Plane()
	u[ua], v[va] = 1, 1
	if u.Cross(v).Dot(n.Vec()) > 0 {
		return &cornersCCW
	}
	return &cornersCW
}

// AppendQuadVertices expands q into four vertices. origin is the chunk's
// world minimum corner and scale the world size of one cell.
func AppendQuadVertices(dst []Vertex, q Quad, origin mgl32.Vec3, scale float32, light Light) []Vertex {
	ua, va := q.Normal.Plane()
	base := mgl32.Vec3{float32(q.X), float32(q.Y), float32(q.Z)}
	shade := light.Shade(q.Normal)
	l0, l1 := float32(q.L0), float32(q.L1)
	for _, c := range corners(q.Normal) {
		p := base
		p[ua] += c[0] * l0
		p[va] += c[1] * l1
		dst = append(dst, Vertex{
			Position: origin.Add(p.Mul(scale)),
			Shade:    shade,
			Palette:  q.Palette,
			Normal:   q.Normal,
		})
	}
	return dst
}

// AppendQuadIndices appends the 0,1,2,2,3,0 pattern for count quads
// starting at quad index first.
func AppendQuadIndices(dst []uint32, first, count int) []uint32 {
	for i := first; i < first+count; i++ {
		b := uint32(4 * i)
		dst = append(dst, b, b+1, b+2, b+2, b+3, b)
	}
	return dst
}
