package graph

import (
	"errors"
	"log/slog"

	"github.com/dcattermole/opencompgraph-go/cache"
	"github.com/dcattermole/opencompgraph-go/hash"
	"github.com/dcattermole/opencompgraph-go/node"
	"github.com/dcattermole/opencompgraph-go/stream"
)

var errOutputMissing = errors.New("graph: output node not found")

// Evaluator executes a Graph: it walks the transitive upstream subgraph
// of a requested output node, computes a content hash per (node, frame),
// consults Cache, and invokes node.Compute on misses. Logger is optional;
// a nil Logger discards every log record.
type Evaluator struct {
	Deps   node.Deps
	Cache  *cache.Cache
	Logger *slog.Logger

	outputs map[frameKey]*stream.StreamData
}

// NewEvaluator returns an Evaluator with deps and cache constructor-
// injected. A nil logger is replaced with one that discards every record.
func NewEvaluator(deps node.Deps, c *cache.Cache, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(discardWriter{}, nil))
	}
	return &Evaluator{Deps: deps, Cache: c, Logger: logger}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Execute runs outputID across every frame in frames, in order, and
// returns the least favorable status observed across all (node, frame)
// pairs visited (Error > Warning > Valid). The bound StreamData for
// outputID at each frame is available via Output after Execute returns.
func (e *Evaluator) Execute(g *Graph, outputID NodeIdx, frames []int64) (node.Status, error) {
	if _, ok := g.nodes[outputID]; !ok {
		return node.Error, errOutputMissing
	}

	overall := node.Uninitialized
	e.outputs = make(map[frameKey]*stream.StreamData)

	for _, frame := range frames {
		modes := e.propagateModes(g, outputID, frame)
		order := e.topoOrder(g, outputID)

		results := make(map[NodeIdx]*stream.StreamData, len(order))
		for _, id := range order {
			n, ok := g.nodes[id]
			if !ok {
				continue
			}
			status := e.computeOne(g, n, id, frame, modes[id], results)
			overall = worseStatus(overall, status)
		}

		if out, ok := results[outputID]; ok {
			e.outputs[frameKey{outputID, frame}] = out
		}
	}

	return overall, nil
}

// Output returns the StreamData bound to id at frame by the most recent
// Execute call, if any.
func (e *Evaluator) Output(id NodeIdx, frame int64) (*stream.StreamData, bool) {
	s, ok := e.outputs[frameKey{id, frame}]
	return s, ok
}

type frameKey struct {
	id    NodeIdx
	frame int64
}

func (e *Evaluator) computeOne(g *Graph, n *node.Node, id NodeIdx, frame int64, mode node.ComputeMode, results map[NodeIdx]*stream.StreamData) node.Status {
	srcs := g.orderedInputs(id)
	inputs := make([]*stream.StreamData, len(srcs))
	inputHashes := make([]uint64, len(srcs))
	for i, src := range srcs {
		if src == 0 {
			continue
		}
		s := results[src]
		inputs[i] = s
		if s != nil {
			inputHashes[i] = s.Hash
		}
	}

	d := hash.New()
	n.AttrHash(frame, d)
	for _, h := range inputHashes {
		d.WriteUint64(h)
	}
	nodeHash := d.Sum64()

	if e.Cache != nil {
		if cached, ok := e.Cache.Get(nodeHash); ok {
			out := node.StreamFromCached(cached)
			out.SetHash(nodeHash)
			results[id] = out
			n.Status = node.Valid
			n.Err = nil
			e.Logger.Debug("cache hit", "node", n.Type.String(), "id", id, "frame", frame)
			return node.Valid
		}
	}

	out, status := n.Compute(e.Deps, frame, nodeHash, mode, inputs)
	n.Status = status

	// A disabled node is a bit-identical pass-through: its output keeps
	// the input stream's hash and never lands in the cache under its own.
	enabled := n.Attrs.GetBool("enable")
	if enabled {
		out.SetHash(nodeHash)
	}

	if e.Cache != nil && enabled && status != node.Error && n.Attrs.GetBool("use_cache") {
		_ = e.Cache.Insert(nodeHash, cache.CachedImage{
			PixelBlock:    out.PixelBlock,
			Spec:          out.Spec,
			DataWindow:    out.DataWindow,
			DisplayWindow: out.DisplayWindow,
		})
	}

	e.Logger.Debug("computed", "node", n.Type.String(), "id", id, "frame", frame, "status", status)
	results[id] = out
	return status
}

// propagateModes walks the transitive upstream subgraph of outputID
// breadth-first, folding each node's ValidateInputs fan-out into its
// parents' accumulated compute mode (unioned across every consumer that
// shares a parent).
func (e *Evaluator) propagateModes(g *Graph, outputID NodeIdx, frame int64) map[NodeIdx]node.ComputeMode {
	modes := map[NodeIdx]node.ComputeMode{outputID: node.ModeAll}
	visited := make(map[NodeIdx]bool)
	queue := []NodeIdx{outputID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		n, ok := g.nodes[id]
		if !ok {
			continue
		}
		srcs := g.orderedInputs(id)
		childModes := n.ValidateInputs(modes[id], len(srcs))
		for i, src := range srcs {
			if src == 0 {
				continue
			}
			modes[src] |= childModes[i]
			queue = append(queue, src)
		}
	}
	return modes
}

// topoOrder returns the transitive upstream subgraph of outputID in a
// valid evaluation order (every node's inputs appear before it), via a
// depth-first postorder walk.
func (e *Evaluator) topoOrder(g *Graph, outputID NodeIdx) []NodeIdx {
	visited := make(map[NodeIdx]bool)
	var order []NodeIdx
	var visit func(id NodeIdx)
	visit = func(id NodeIdx) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, src := range g.orderedInputs(id) {
			if src == 0 {
				continue
			}
			visit(src)
		}
		order = append(order, id)
	}
	visit(outputID)
	return order
}

// worseStatus returns whichever of a, b ranks worse under Error > Warning
// > Valid > Uninitialized.
func worseStatus(a, b node.Status) node.Status {
	if statusRank(b) > statusRank(a) {
		return b
	}
	return a
}

func statusRank(s node.Status) int {
	switch s {
	case node.Error:
		return 3
	case node.Warning:
		return 2
	case node.Valid:
		return 1
	default:
		return 0
	}
}
