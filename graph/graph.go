// Package graph implements Graph, the DAG container of Node values, and
// Evaluator, the demand-driven, content-hash-memoized traversal that
// executes it.
package graph

import (
	"github.com/dcattermole/opencompgraph-go/node"
	"github.com/dcattermole/opencompgraph-go/ocgerr"
)

// NodeIdx identifies a node within a Graph. 0 is reserved to mean "no
// node" — real indices start at 1.
type NodeIdx uint64

// EdgeIdx identifies a connection within a Graph, in insertion order.
type EdgeIdx int

// edge is one connection: dst's input slot is fed by src's output.
type edge struct {
	src  NodeIdx
	dst  NodeIdx
	slot int
}

// Graph stores a set of Node values and the edges connecting them. At
// most one edge may target a given (dst, slot) pair; multiple edges may
// share the same src. Cycles are rejected at Connect time.
type Graph struct {
	nodes  map[NodeIdx]*node.Node
	order  []NodeIdx // insertion order, for deterministic iteration
	edges  []edge
	inputs map[NodeIdx]map[int]NodeIdx // dst -> slot -> src
	nextID NodeIdx
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:  make(map[NodeIdx]*node.Node),
		inputs: make(map[NodeIdx]map[int]NodeIdx),
	}
}

// AddNode registers n and assigns it a fresh NodeIdx, overwriting
// whatever ID n previously carried.
func (g *Graph) AddNode(n *node.Node) NodeIdx {
	g.nextID++
	idx := g.nextID
	n.ID = uint64(idx)
	g.nodes[idx] = n
	g.order = append(g.order, idx)
	return idx
}

// Node returns the node at idx, if any.
func (g *Graph) Node(idx NodeIdx) (*node.Node, bool) {
	n, ok := g.nodes[idx]
	return n, ok
}

// Connect wires src's output into dst's input at slot. It rejects a
// duplicate edge at the same (dst, slot), and rejects a connection that
// would introduce a cycle: if dst already feeds src through some chain
// of existing edges, adding src as an input of dst would close a loop.
func (g *Graph) Connect(src, dst NodeIdx, slot int) (EdgeIdx, error) {
	if _, ok := g.nodes[src]; !ok {
		return -1, ocgerr.ErrInputMissing
	}
	if _, ok := g.nodes[dst]; !ok {
		return -1, ocgerr.ErrInputMissing
	}
	if slots, ok := g.inputs[dst]; ok {
		if _, taken := slots[slot]; taken {
			return -1, ocgerr.ErrDuplicateEdge
		}
	}
	if g.reachableUpstream(src, dst) {
		return -1, ocgerr.ErrCycle
	}

	if g.inputs[dst] == nil {
		g.inputs[dst] = make(map[int]NodeIdx)
	}
	g.inputs[dst][slot] = src
	g.edges = append(g.edges, edge{src: src, dst: dst, slot: slot})
	return EdgeIdx(len(g.edges) - 1), nil
}

// reachableUpstream reports whether target is from, or an ancestor of
// from, walking from's existing input edges.
func (g *Graph) reachableUpstream(from, target NodeIdx) bool {
	if from == target {
		return true
	}
	for _, src := range g.inputs[from] {
		if g.reachableUpstream(src, target) {
			return true
		}
	}
	return false
}

// orderedInputs returns dst's connected sources indexed by slot 0..maxSlot,
// with 0 (NodeIdx's reserved "no node" value) standing in for a
// disconnected slot.
func (g *Graph) orderedInputs(dst NodeIdx) []NodeIdx {
	slots := g.inputs[dst]
	if len(slots) == 0 {
		return nil
	}
	maxSlot := 0
	for s := range slots {
		if s > maxSlot {
			maxSlot = s
		}
	}
	out := make([]NodeIdx, maxSlot+1)
	for s, src := range slots {
		out[s] = src
	}
	return out
}
