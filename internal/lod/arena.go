package lod

import "fmt"

// NodeID indexes a node in an Arena. IDs are invalidated by Reset.
type NodeID int32

// NoNode marks an absent child.
const NoNode NodeID = -1

// Internal is the LOD value carried by nodes that have children.
const Internal uint8 = 0xFF

// Node is a square region of the XZ plane. X and Z are the minimum corner
// in world blocks.
type Node struct {
	Children [4]NodeID
	X, Z     int
	Size     int
	LOD      uint8
}

func (n *Node) IsLeaf() bool { return n.LOD != Internal }

// Arena is a fixed-capacity bump allocator for nodes.
type Arena struct {
	nodes []Node
}

// Capacity returns the node count of a complete quadtree with maxLOD+1
// levels, the most a single build can allocate.
func Capacity(maxLOD int) int {
	return ((1 << (2 * (maxLOD + 1))) - 1) / 3
}

func NewArena(capacity int) *Arena {
	return &Arena{nodes: make([]Node, 0, capacity)}
}

// Alloc returns a zeroed node. It panics when the arena is full.
func (a *Arena) Alloc() NodeID {
	if len(a.nodes) == cap(a.nodes) {
		panic(fmt.Sprintf("lod: arena exhausted at %d nodes", cap(a.nodes)))
	}
	a.nodes = append(a.nodes, Node{Children: [4]NodeID{NoNode, NoNode, NoNode, NoNode}})
	return NodeID(len(a.nodes) - 1)
}

// Node returns the node for id. The pointer is valid until Reset.
func (a *Arena) Node(id NodeID) *Node {
	return &a.nodes[id]
}

// Reset releases every node at once.
func (a *Arena) Reset() { a.nodes = a.nodes[:0] }

func (a *Arena) Len() int { return len(a.nodes) }

func (a *Arena) Cap() int { return cap(a.nodes) }
