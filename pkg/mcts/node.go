package mcts

import (
	"fmt"
	"slices"
)

const (
	// Legal moves were generated, see untried
	generatedFlag uint32 = 1 << iota
	// Game is over in this node's position
	terminalFlag
)

// NodeBase is a single node of the search tree. Nodes live in a Tree's arena
// and point at each other by index, the root's parent is -1.
type NodeBase[T MoveLike, P any] struct {
	NodeStats
	Move     T
	Position P
	Parent   int32
	Children []int32
	Depth    int32
	Flags    uint32

	// moves that don't have a child yet, filled on the first visit
	untried []T
}

func (node *NodeBase[T, P]) Terminal() bool {
	return node.Flags&terminalFlag == terminalFlag
}

// Whether the legal moves of this node are known
func (node *NodeBase[T, P]) Generated() bool {
	return node.Flags&generatedFlag == generatedFlag
}

// Every legal move of this node has a child
func (node *NodeBase[T, P]) Expanded() bool {
	return node.Generated() && len(node.untried) == 0 && len(node.Children) > 0
}

// Moves still waiting for expansion
func (node *NodeBase[T, P]) Untried() []T {
	return node.untried
}

func (node *NodeBase[T, P]) String() string {
	return fmt.Sprintf("Node{Move=%v, N=%d, Q=%.3f, Children=%d, Untried=%d, Depth=%d}",
		node.Move, node.N(), node.Q(), len(node.Children), len(node.untried), node.Depth)
}

// Tree is a flat arena of nodes, the root is always at index 0.
// Pointers returned by Node are valid until the next node is added.
type Tree[T MoveLike, P any] struct {
	nodes []NodeBase[T, P]
}

func newTree[T MoveLike, P any](root P, terminal bool) *Tree[T, P] {
	tree := &Tree[T, P]{nodes: make([]NodeBase[T, P], 0, 64)}
	var none T
	tree.add(-1, none, root, terminal)
	return tree
}

func (tree *Tree[T, P]) Node(index int32) *NodeBase[T, P] {
	return &tree.nodes[index]
}

func (tree *Tree[T, P]) Root() *NodeBase[T, P] {
	return &tree.nodes[0]
}

// Number of nodes in the arena
func (tree *Tree[T, P]) Len() int {
	return len(tree.nodes)
}

// add appends a node and links it to its parent, returns its index
func (tree *Tree[T, P]) add(parent int32, move T, position P, terminal bool) int32 {
	index := int32(len(tree.nodes))
	node := NodeBase[T, P]{
		Move:     move,
		Position: position,
		Parent:   parent,
	}
	if terminal {
		node.Flags |= terminalFlag
	}
	if parent >= 0 {
		node.Depth = tree.nodes[parent].Depth + 1
	}

	tree.nodes = append(tree.nodes, node)
	if parent >= 0 {
		tree.nodes[parent].Children = append(tree.nodes[parent].Children, index)
	}
	return index
}

// generate fills the untried moves of a node on its first visit
func (tree *Tree[T, P]) generate(index int32, ops GameOperations[T, P]) {
	node := &tree.nodes[index]
	if node.Generated() {
		return
	}
	node.Flags |= generatedFlag
	if !node.Terminal() {
		node.untried = slices.Clone(ops.Moves(node.Position))
	}
}

// Child of parent reached with move, -1 if there is none
func (tree *Tree[T, P]) ChildByMove(parent int32, move T) int32 {
	for _, child := range tree.nodes[parent].Children {
		if tree.nodes[child].Move == move {
			return child
		}
	}
	return -1
}

// graft deep copies the subtree of src rooted at index under parent,
// returns the index of the copied root
func (tree *Tree[T, P]) graft(parent int32, src *Tree[T, P], index int32) int32 {
	node := &src.nodes[index]
	copied := tree.add(parent, node.Move, node.Position, node.Terminal())

	dst := &tree.nodes[copied]
	dst.NodeStats = node.NodeStats.Clone()
	dst.Flags = node.Flags
	dst.untried = slices.Clone(node.untried)

	for _, child := range node.Children {
		tree.graft(copied, src, child)
	}
	return copied
}

// subtree copies the subtree rooted at index into a new tree
func (tree *Tree[T, P]) subtree(index int32) *Tree[T, P] {
	other := &Tree[T, P]{nodes: make([]NodeBase[T, P], 0, len(tree.nodes))}
	other.graft(-1, tree, index)
	return other
}

// merge adds the statistics of src's subtree at srcIndex into this tree's
// node at index, matching children by move. Children missing here are
// copied over.
func (tree *Tree[T, P]) merge(index int32, src *Tree[T, P], srcIndex int32) {
	other := &src.nodes[srcIndex]
	tree.nodes[index].merge(&other.NodeStats)

	if !other.Generated() {
		return
	}
	if !tree.nodes[index].Generated() {
		tree.nodes[index].Flags |= generatedFlag
		tree.nodes[index].untried = slices.Clone(other.untried)
	}

	for _, child := range other.Children {
		move := src.nodes[child].Move
		if match := tree.ChildByMove(index, move); match != -1 {
			tree.merge(match, src, child)
			continue
		}
		tree.graft(index, src, child)
		tree.nodes[index].untried = slices.DeleteFunc(tree.nodes[index].untried, func(m T) bool {
			return m == move
		})
	}
}

// Helper function to count nodes reachable from index
func (tree *Tree[T, P]) count(index int32) int {
	nodes := 1
	for _, child := range tree.nodes[index].Children {
		nodes += tree.count(child)
	}
	return nodes
}
