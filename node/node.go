package node

import (
	"github.com/dcattermole/opencompgraph-go/colorspace"
	"github.com/dcattermole/opencompgraph-go/deform"
	"github.com/dcattermole/opencompgraph-go/hash"
	"github.com/dcattermole/opencompgraph-go/pixelblock"
)

// ComputeMode is a bitmask describing what an upstream producer must
// actually materialize for a downstream consumer: full pixels, only the
// bounding-box/window math, only the deformer stack, only color
// metadata, or nothing at all.
type ComputeMode uint8

const (
	ModeNone      ComputeMode = 0
	ModePixels    ComputeMode = 1 << 0
	ModeBBox      ComputeMode = 1 << 1
	ModeDeformers ComputeMode = 1 << 2
	ModeColor     ComputeMode = 1 << 3
)

// ModeAll requests every facet of a stream.
const ModeAll = ModePixels | ModeBBox | ModeDeformers | ModeColor

// Status is a node's last-computed health, aggregated by the evaluator
// across a whole run as Error > Warning > Valid.
type Status int

const (
	Uninitialized Status = iota
	Valid
	Warning
	Error
)

// NodeType identifies one of the fixed set of compute behaviors a Node
// can have.
type NodeType int

const (
	Null NodeType = iota
	ReadImage
	WriteImage
	Grade
	Transform
	LensDistort
	CropImage
	MergeImage
	ResampleImage
	Viewer
)

func (t NodeType) String() string {
	switch t {
	case Null:
		return "Null"
	case ReadImage:
		return "ReadImage"
	case WriteImage:
		return "WriteImage"
	case Grade:
		return "Grade"
	case Transform:
		return "Transform"
	case LensDistort:
		return "LensDistort"
	case CropImage:
		return "CropImage"
	case MergeImage:
		return "MergeImage"
	case ResampleImage:
		return "ResampleImage"
	case Viewer:
		return "Viewer"
	default:
		return "Unknown"
	}
}

// disabledSentinel is folded into a node's attr hash in place of its
// parameters whenever the node's enable attribute is false, mirroring
// the same discipline deform.Deformer/ColorOp use.
const disabledSentinel = uint8(0xFE)

// Node is one vertex of a Graph: a fixed behavior (NodeType), a stable
// identity (ID), named typed attributes, and the status of its most
// recent compute.
type Node struct {
	Type   NodeType
	ID     uint64
	Status Status
	Attrs  *AttrBlock

	// Err carries the failure behind the most recent Error status,
	// comparable against the ocgerr sentinels with errors.Is. Nil
	// otherwise.
	Err error

	lensOracle deform.LensOracle
}

// NewNode returns a Node of the given type with its attributes declared
// at their defaults.
func NewNode(t NodeType, id uint64) *Node {
	n := &Node{Type: t, ID: id, Status: Uninitialized, Attrs: NewAttrBlock()}
	declareAttrs(n)
	return n
}

// NewLensDistortNode returns a LensDistort node wired to oracle, the
// coordinate-distortion collaborator its compute delegates to.
func NewLensDistortNode(id uint64, oracle deform.LensOracle) *Node {
	n := NewNode(LensDistort, id)
	n.lensOracle = oracle
	return n
}

func declareAttrs(n *Node) {
	a := n.Attrs
	switch n.Type {
	case Null:
		a.DeclareI32("enable", 1)
	case ReadImage:
		a.DeclareI32("enable", 1)
		a.DeclareStr("file_path", "")
		a.DeclareI32("frame_offset", 0)
		a.DeclareStr("colorspace", string(colorspace.Linear))
		a.DeclareI32("use_cache", 1)
	case WriteImage:
		a.DeclareI32("enable", 1)
		a.DeclareStr("file_path", "")
		a.DeclareStr("colorspace", string(colorspace.SRGB))
		a.DeclareI32("bake_option", int32(bakeAll))
	case Grade:
		a.DeclareI32("enable", 1)
		a.DeclareI32("bake", 0)
		a.DeclareF32("black_point", 0)
		a.DeclareF32("white_point", 1)
		a.DeclareF32("lift", 0)
		a.DeclareF32("gain", 1)
		a.DeclareF32("multiply", 1)
		a.DeclareF32("offset", 0)
		a.DeclareF32("gamma", 1)
		a.DeclareI32("reverse", 0)
		a.DeclareI32("clamp_black", 0)
		a.DeclareI32("clamp_white", 0)
		a.DeclareI32("premult", 0)
		a.DeclareF32("mix", 1)
	case Transform:
		a.DeclareI32("enable", 1)
		a.DeclareF32("translate_x", 0)
		a.DeclareF32("translate_y", 0)
		a.DeclareF32("rotate", 0)
		a.DeclareF32("scale_x", 1)
		a.DeclareF32("scale_y", 1)
		a.DeclareF32("pivot_x", 0.5)
		a.DeclareF32("pivot_y", 0.5)
		a.DeclareI32("invert", 0)
	case LensDistort:
		a.DeclareI32("enable", 1)
		a.DeclareF32("k1", 0)
		a.DeclareF32("k2", 0)
		a.DeclareF32("center_x", 0.5)
		a.DeclareF32("center_y", 0.5)
	case CropImage:
		a.DeclareI32("enable", 1)
		a.DeclareI32("window_min_x", 0)
		a.DeclareI32("window_min_y", 0)
		a.DeclareI32("window_max_x", 0)
		a.DeclareI32("window_max_y", 0)
		a.DeclareI32("reformat", 0)
		a.DeclareI32("black_outside", 0)
		a.DeclareI32("intersect", 1)
		a.DeclareI32("use_cache", 1)
	case MergeImage:
		a.DeclareI32("enable", 1)
		a.DeclareI32("mode", 1) // MergeOver
		a.DeclareF32("mix", 1)
		a.DeclareI32("use_cache", 1)
	case ResampleImage:
		a.DeclareI32("enable", 1)
		a.DeclareI32("factor", 0)
		a.DeclareI32("interpolate", 1)
		a.DeclareI32("use_cache", 1)
	case Viewer:
		a.DeclareI32("enable", 1)
		a.DeclareI32("bake_option", int32(bakeAll))
		a.DeclareI32("crop_to_format", 0)
	}
}

// AttrHash folds this node's type, frame, and its enabled/disabled
// attribute contents into d.
func (n *Node) AttrHash(frame int64, d *hash.Digest) {
	d.WriteInt32(int32(n.Type))
	d.WriteInt32(int32(frame))

	if !n.Attrs.GetBool("enable") {
		d.WriteUint8(disabledSentinel)
		return
	}

	a := n.Attrs
	switch n.Type {
	case Null:
	case ReadImage:
		a.hashNamedStr(d, "file_path", "colorspace")
		a.hashNamedI32(d, "frame_offset")
	case WriteImage:
		a.hashNamedStr(d, "file_path", "colorspace")
		a.hashNamedI32(d, "bake_option")
	case Grade:
		a.hashNamedI32(d, "bake", "reverse", "clamp_black", "clamp_white", "premult")
		a.hashNamedF32(d, "black_point", "white_point", "lift", "gain", "multiply", "offset", "gamma", "mix")
	case Transform:
		a.hashNamedF32(d, "translate_x", "translate_y", "rotate", "scale_x", "scale_y", "pivot_x", "pivot_y")
		a.hashNamedI32(d, "invert")
	case LensDistort:
		a.hashNamedF32(d, "k1", "k2", "center_x", "center_y")
	case CropImage:
		a.hashNamedI32(d, "window_min_x", "window_min_y", "window_max_x", "window_max_y", "reformat", "black_outside", "intersect")
	case MergeImage:
		a.hashNamedI32(d, "mode")
		a.hashNamedF32(d, "mix")
	case ResampleImage:
		a.hashNamedI32(d, "factor", "interpolate")
	case Viewer:
		a.hashNamedI32(d, "bake_option", "crop_to_format")
	}
}

// HashSelf computes the node's standalone attr_hash for frame, without
// folding any input stream hashes. The graph evaluator does not call it:
// it runs AttrHash on its own digest and folds the input hashes after.
func (n *Node) HashSelf(frame int64) uint64 {
	d := hash.New()
	n.AttrHash(frame, d)
	return d.Sum64()
}

// ValidateInputs returns, for numInputs connected input slots, the
// compute mode each parent should be asked to produce. The default
// policy: slot 0 inherits mode in full; extra slots are downgraded to
// ModeNone unless the node type explicitly needs every input in full
// (MergeImage needs both A and B at ModeAll).
func (n *Node) ValidateInputs(mode ComputeMode, numInputs int) []ComputeMode {
	modes := make([]ComputeMode, numInputs)
	if numInputs == 0 {
		return modes
	}
	switch n.Type {
	case MergeImage:
		for i := range modes {
			modes[i] = ModeAll
		}
	default:
		modes[0] = mode
		for i := 1; i < numInputs; i++ {
			modes[i] = ModeNone
		}
	}
	return modes
}

// emptyStream returns the 0x0 pixel block that emptyStreamData places in
// the Invalid stream a node emits downstream on a recoverable failure.
func emptyStream() *pixelblock.PixelBlock {
	return pixelblock.New(0, 0, 4, pixelblock.Float32)
}

// bakeOption mirrors the Viewer/WriteImage {Nothing, ColorSpaceOnly, All}
// bake setting.
type bakeOption int32

const (
	bakeNothing bakeOption = iota
	bakeColorSpaceOnly
	bakeAll
)
