package meshing

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Normal is one of the six axis-aligned face directions.
type Normal uint8

const (
	PosX Normal = iota
	NegX
	PosY
	NegY
	PosZ
	NegZ
)

// NumNormals is the number of face directions.
const NumNormals = 6

// Palette indices emitted by the heightfield generator.
const (
	PaletteTop  uint8 = 255
	PaletteNegX uint8 = 50
	PalettePosX uint8 = 100
	PaletteNegZ uint8 = 150
	PalettePosZ uint8 = 200
	PaletteNegY uint8 = 25
)

// Axis indices.
const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

type normalInfo struct {
	axis, u, v int // normal axis and the two in-plane axes
	sign       int
	palette    uint8
	name       string
}

var normals = [NumNormals]normalInfo{
	PosX: {AxisX, AxisY, AxisZ, +1, PalettePosX, "+X"},
	NegX: {AxisX, AxisY, AxisZ, -1, PaletteNegX, "-X"},
	PosY: {AxisY, AxisX, AxisZ, +1, PaletteTop, "+Y"},
	NegY: {AxisY, AxisX, AxisZ, -1, PaletteNegY, "-Y"},
	PosZ: {AxisZ, AxisX, AxisY, +1, PalettePosZ, "+Z"},
	NegZ: {AxisZ, AxisX, AxisY, -1, PaletteNegZ, "-Z"},
}

func (n Normal) Valid() bool { return n < NumNormals }

// Axis returns the axis the normal points along.
func (n Normal) Axis() int { return normals[n].axis }

// Plane returns the in-plane axes (u, v). L0 runs along u and L1 along v.
func (n Normal) Plane() (u, v int) { return normals[n].u, normals[n].v }

// Sign is +1 or -1.
func (n Normal) Sign() int { return normals[n].sign }

// Palette is the default palette index for faces of this direction.
func (n Normal) Palette() uint8 { return normals[n].palette }

func (n Normal) Vec() mgl32.Vec3 {
	var v mgl32.Vec3
	v[n.Axis()] = float32(n.Sign())
	return v
}

func (n Normal) String() string {
	if !n.Valid() {
		return fmt.Sprintf("Normal(%d)", uint8(n))
	}
	return normals[n].name
}

// Quad is one greedy-merged face rectangle in chunk cell units.
//
// X, Y, Z is the minimum corner of the rectangle. The coordinate along the
// normal axis is the face plane: a +X face of cell x lies at X = x+1.
// L0 and L1 are the run lengths along the in-plane axes returned by
// Normal.Plane.
type Quad struct {
	X, Y, Z uint8
	L0, L1  uint8
	Palette uint8
	Normal  Normal
}

// Coord returns the quad origin along axis.
func (q Quad) Coord(axis int) int {
	switch axis {
	case AxisX:
		return int(q.X)
	case AxisY:
		return int(q.Y)
	default:
		return int(q.Z)
	}
}

func (q *Quad) setCoord(axis, v int) {
	switch axis {
	case AxisX:
		q.X = uint8(v)
	case AxisY:
		q.Y = uint8(v)
	default:
		q.Z = uint8(v)
	}
}

// Area is the number of cells the quad covers.
func (q Quad) Area() int { return int(q.L0) * int(q.L1) }

func (q Quad) String() string {
	return fmt.Sprintf("%v@(%d,%d,%d) %dx%d p%d", q.Normal, q.X, q.Y, q.Z, q.L0, q.L1, q.Palette)
}

// QuadBytes is the in-memory size of one Quad.
const QuadBytes = 7
