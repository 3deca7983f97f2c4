// Package lod builds the distance-driven quadtree that selects chunk LODs.
package lod

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Tree is rebuilt from scratch around each new viewpoint. Leaves are the
// chunks to display: a leaf at LOD n is Base<<n blocks wide.
type Tree struct {
	Base   int
	MaxLOD int

	policy Policy
	arena  *Arena
	root   NodeID
	view   mgl32.Vec2
	leaves int
}

func NewTree(base, maxLOD int, policy Policy) *Tree {
	if base < 1 || maxLOD < 0 || maxLOD >= int(Internal) {
		panic(fmt.Sprintf("lod: invalid tree base %d maxLOD %d", base, maxLOD))
	}
	return &Tree{
		Base:   base,
		MaxLOD: maxLOD,
		policy: policy,
		arena:  NewArena(Capacity(maxLOD)),
		root:   NoNode,
	}
}

// RootSize is the world width covered by the root.
func (t *Tree) RootSize() int { return t.Base << t.MaxLOD }

// RootOrigin returns the root's minimum corner for a viewpoint. The root
// snaps to multiples of half its size, which keeps the viewpoint inside
// its central half and aligns every lower node to its own size.
func (t *Tree) RootOrigin(view mgl32.Vec2) (x, z int) {
	return snap(float64(view[0]), t.Base, t.MaxLOD), snap(float64(view[1]), t.Base, t.MaxLOD)
}

func snap(v float64, base, maxLOD int) int {
	if maxLOD == 0 {
		return int(math.Floor(v/float64(base))) * base
	}
	half := float64(base << (maxLOD - 1))
	return int(math.Round((v-half)/half)) * int(half)
}

// Build discards the previous tree and subdivides a new one around view,
// given as world (x, z).
func (t *Tree) Build(view mgl32.Vec2) {
	t.arena.Reset()
	t.view = view
	t.leaves = 0
	x, z := t.RootOrigin(view)
	t.root = t.build(x, z, t.RootSize(), t.MaxLOD)
}

func (t *Tree) build(x, z, size, lod int) NodeID {
	id := t.arena.Alloc()
	n := t.arena.Node(id)
	n.X, n.Z, n.Size = x, z, size
	if !t.policy.split(lod, t.farDist2(x, z, size)) {
		n.LOD = uint8(lod)
		t.leaves++
		return id
	}
	n.LOD = Internal

	half := size / 2
	var children [4]NodeID
	for i := range children {
		cx := x + (i&1)*half
		cz := z + (i>>1)*half
		children[i] = t.build(cx, cz, half, lod-1)
	}
	t.arena.Node(id).Children = children
	return id
}

// farDist2 is the squared distance from the viewpoint to the farthest
// corner of the square at (x, z).
func (t *Tree) farDist2(x, z, size int) float64 {
	vx, vz := float64(t.view[0]), float64(t.view[1])
	dx := math.Max(math.Abs(vx-float64(x)), math.Abs(vx-float64(x+size)))
	dz := math.Max(math.Abs(vz-float64(z)), math.Abs(vz-float64(z+size)))
	return dx*dx + dz*dz
}

// FarDistance is the distance from the current viewpoint to the farthest
// corner of n, the measure subdivision is decided on.
func (t *Tree) FarDistance(n Node) float64 {
	return math.Sqrt(t.farDist2(n.X, n.Z, n.Size))
}

func (t *Tree) Root() NodeID { return t.root }

// Node returns a copy of the node. ids from a previous Build are invalid.
func (t *Tree) Node(id NodeID) Node { return *t.arena.Node(id) }

// Viewpoint returns the position of the last Build.
func (t *Tree) Viewpoint() mgl32.Vec2 { return t.view }

// LeafCount returns the number of leaves of the current tree.
func (t *Tree) LeafCount() int { return t.leaves }

// NodeCount returns the number of allocated nodes.
func (t *Tree) NodeCount() int { return t.arena.Len() }

// Leaves calls fn for every leaf, depth first.
func (t *Tree) Leaves(fn func(n Node)) {
	if t.root == NoNode {
		return
	}
	t.walk(t.root, fn)
}

func (t *Tree) walk(id NodeID, fn func(n Node)) {
	n := t.arena.Node(id)
	if n.IsLeaf() {
		fn(*n)
		return
	}
	for _, c := range n.Children {
		t.walk(c, fn)
	}
}
