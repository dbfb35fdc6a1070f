package node

import (
	"fmt"

	"github.com/dcattermole/opencompgraph-go/bbox"
	"github.com/dcattermole/opencompgraph-go/cache"
	"github.com/dcattermole/opencompgraph-go/colorspace"
	"github.com/dcattermole/opencompgraph-go/deform"
	"github.com/dcattermole/opencompgraph-go/ocgerr"
	"github.com/dcattermole/opencompgraph-go/ops"
	"github.com/dcattermole/opencompgraph-go/pixelblock"
	"github.com/dcattermole/opencompgraph-go/stream"
)

// Compute runs this node's type-specific behavior over inputs (already
// resolved upstream StreamData, one per connected slot, in slot order),
// returning the node's output stream and its resulting Status. A failure
// behind an Error status is recorded on n.Err.
func (n *Node) Compute(deps Deps, frame int64, nodeHash uint64, mode ComputeMode, inputs []*stream.StreamData) (*stream.StreamData, Status) {
	n.Err = nil
	if !n.Attrs.GetBool("enable") {
		return passthroughOrEmpty(inputs), Valid
	}

	switch n.Type {
	case Null:
		return n.computeNull(inputs)
	case ReadImage:
		return n.computeReadImage(deps, frame, nodeHash)
	case WriteImage:
		return n.computeWriteImage(deps, inputs)
	case Grade:
		return n.computeGrade(deps, inputs)
	case Transform:
		return n.computeTransform(inputs)
	case LensDistort:
		return n.computeLensDistort(inputs)
	case CropImage:
		return n.computeCrop(inputs)
	case MergeImage:
		return n.computeMerge(inputs)
	case ResampleImage:
		return n.computeResample(deps, inputs)
	case Viewer:
		return n.computeViewer(deps, inputs)
	default:
		return emptyStreamData(), Error
	}
}

func passthroughOrEmpty(inputs []*stream.StreamData) *stream.StreamData {
	if len(inputs) == 0 || inputs[0] == nil {
		return emptyStreamData()
	}
	return inputs[0].Clone()
}

func emptyStreamData() *stream.StreamData {
	s := stream.New()
	s.SetPixelBlock(emptyStream())
	return s
}

func requireInput(inputs []*stream.StreamData, slot int) (*stream.StreamData, bool) {
	if slot >= len(inputs) || inputs[slot] == nil || inputs[slot].State != stream.Valid {
		return nil, false
	}
	return inputs[slot], true
}

func (n *Node) computeNull(inputs []*stream.StreamData) (*stream.StreamData, Status) {
	if len(inputs) == 0 {
		return emptyStreamData(), Warning
	}
	return passthroughOrEmpty(inputs), Valid
}

func (n *Node) computeReadImage(deps Deps, frame int64, nodeHash uint64) (*stream.StreamData, Status) {
	path := n.Attrs.GetStr("file_path")
	if path == "" || deps.ImageIO == nil {
		return emptyStreamData(), Warning
	}
	cs := colorspace.Name(n.Attrs.GetStr("colorspace"))
	useCache := n.Attrs.GetBool("use_cache") && deps.Cache != nil

	if useCache {
		if cached, ok := deps.Cache.Get(nodeHash); ok {
			return streamFromCached(cached), Valid
		}
	}

	pb, displayWindow, dataWindow, spec, err := deps.ImageIO.ReadImage(path)
	if err != nil {
		n.Err = fmt.Errorf("read image %q: %w: %w", path, ocgerr.ErrOracleFailure, err)
		return emptyStreamData(), Error
	}
	spec.ColorSpace = cs

	s := stream.New()
	s.State = stream.Valid
	s.SetPixelBlock(pb)
	s.SetDataWindow(dataWindow)
	s.SetDisplayWindow(displayWindow)
	s.Spec = spec

	if useCache {
		_ = deps.Cache.Insert(nodeHash, cache.CachedImage{
			PixelBlock:    pb,
			Spec:          spec,
			DataWindow:    dataWindow,
			DisplayWindow: displayWindow,
		})
	}
	return s, Valid
}

// StreamFromCached reconstructs a Valid StreamData from a cache hit,
// sharing the cached pixel block by reference.
func StreamFromCached(c cache.CachedImage) *stream.StreamData {
	return streamFromCached(c)
}

func streamFromCached(c cache.CachedImage) *stream.StreamData {
	s := stream.New()
	s.State = stream.Valid
	s.SetPixelBlock(c.PixelBlock)
	s.SetDataWindow(c.DataWindow)
	s.SetDisplayWindow(c.DisplayWindow)
	s.Spec = c.Spec
	return s
}

func (n *Node) computeWriteImage(deps Deps, inputs []*stream.StreamData) (*stream.StreamData, Status) {
	in, ok := requireInput(inputs, 0)
	if !ok {
		return emptyStreamData(), Warning
	}
	path := n.Attrs.GetStr("file_path")
	if path == "" || deps.ImageIO == nil {
		return emptyStreamData(), Warning
	}

	toCS := colorspace.Name(n.Attrs.GetStr("colorspace"))
	opts := bakeOptsFor(bakeOption(n.Attrs.GetI32("bake_option")))
	baked := ops.BakeWithConverter(opts, in.PixelBlock, in.DataWindow, in.Spec.ColorSpace, toCS,
		in.Deformers, in.ColorMatrix, in.ColorOps, pixelblock.UInt8, deps.ColorConverter)

	outSpec := in.Spec
	outSpec.ColorSpace = toCS
	if err := deps.ImageIO.WriteImage(baked, outSpec, path); err != nil {
		n.Err = fmt.Errorf("write image %q: %w: %w", path, ocgerr.ErrOracleFailure, err)
		return in.Clone(), Error
	}
	return in.Clone(), Valid
}

func bakeOptsFor(opt bakeOption) ops.BakeOptions {
	switch opt {
	case bakeNothing:
		return ops.BakeNothing
	case bakeColorSpaceOnly:
		return ops.BakeColorSpaceOnly
	default:
		return ops.BakeAll
	}
}

func (n *Node) computeGrade(deps Deps, inputs []*stream.StreamData) (*stream.StreamData, Status) {
	in, ok := requireInput(inputs, 0)
	if !ok {
		return emptyStreamData(), Warning
	}
	grade := gradeFromAttrs(n.Attrs)

	if !n.Attrs.GetBool("bake") {
		out := in.Clone()
		out.PushColorOp(grade)
		return out, Valid
	}

	ops2 := deform.ColorOpStack{grade}
	baked := ops.BakeWithConverter(ops.BakeColorOps, in.PixelBlock, in.DataWindow, in.Spec.ColorSpace, in.Spec.ColorSpace,
		nil, in.ColorMatrix, ops2, in.PixelBlock.DType, deps.ColorConverter)
	out := in.Clone()
	out.SetPixelBlock(baked)
	return out, Valid
}

func gradeFromAttrs(a *AttrBlock) *deform.Grade {
	return &deform.Grade{
		Enable:     true,
		BlackPoint: a.GetF32("black_point"),
		WhitePoint: a.GetF32("white_point"),
		Lift:       a.GetF32("lift"),
		Gain:       a.GetF32("gain"),
		Multiply:   a.GetF32("multiply"),
		Offset:     a.GetF32("offset"),
		Gamma:      a.GetF32("gamma"),
		Reverse:    a.GetBool("reverse"),
		ClampBlack: a.GetBool("clamp_black"),
		ClampWhite: a.GetBool("clamp_white"),
		Premult:    a.GetBool("premult"),
		Mix:        a.GetF32("mix"),
	}
}

func (n *Node) computeTransform(inputs []*stream.StreamData) (*stream.StreamData, Status) {
	in, ok := requireInput(inputs, 0)
	if !ok {
		return emptyStreamData(), Warning
	}
	a := n.Attrs
	t := &deform.Transform{
		Enable:     true,
		TranslateX: a.GetF32("translate_x"),
		TranslateY: a.GetF32("translate_y"),
		RotateDeg:  a.GetF32("rotate"),
		ScaleX:     a.GetF32("scale_x"),
		ScaleY:     a.GetF32("scale_y"),
		PivotX:     a.GetF32("pivot_x"),
		PivotY:     a.GetF32("pivot_y"),
		Invert:     a.GetBool("invert"),
	}
	t.CommitData()
	out := in.Clone()
	out.PushDeformer(t)
	return out, Valid
}

func (n *Node) computeLensDistort(inputs []*stream.StreamData) (*stream.StreamData, Status) {
	in, ok := requireInput(inputs, 0)
	if !ok {
		return emptyStreamData(), Warning
	}
	if n.lensOracle == nil {
		return in.Clone(), Warning
	}
	a := n.Attrs
	ld := deform.NewLensDistortTDE(n.lensOracle)
	ld.SetParameter("k1", a.GetF32("k1"))
	ld.SetParameter("k2", a.GetF32("k2"))
	ld.SetParameter("center_x", a.GetF32("center_x"))
	ld.SetParameter("center_y", a.GetF32("center_y"))
	ld.CommitData()

	out := in.Clone()
	out.PushDeformer(ld)
	return out, Valid
}

func (n *Node) computeCrop(inputs []*stream.StreamData) (*stream.StreamData, Status) {
	in, ok := requireInput(inputs, 0)
	if !ok {
		return emptyStreamData(), Warning
	}
	a := n.Attrs
	window := bbox.NewI(a.GetI32("window_min_x"), a.GetI32("window_min_y"), a.GetI32("window_max_x"), a.GetI32("window_max_y"))
	reformat := a.GetBool("reformat")
	blackOutside := a.GetBool("black_outside")
	intersect := a.GetBool("intersect")

	outPB, newWindow := ops.CropImageInPlace(in.PixelBlock, in.DataWindow, window, reformat, blackOutside, intersect)

	out := in.Clone()
	out.SetPixelBlock(outPB)
	out.SetDataWindow(newWindow)
	if reformat {
		out.SetDisplayWindow(window)
	}
	return out, Valid
}

func (n *Node) computeMerge(inputs []*stream.StreamData) (*stream.StreamData, Status) {
	a, okA := requireInput(inputs, 0)
	b, okB := requireInput(inputs, 1)
	if !okA || !okB {
		return emptyStreamData(), Warning
	}
	mode := ops.MergeMode(n.Attrs.GetI32("mode"))
	mix := n.Attrs.GetF32("mix")

	outPB, outWindow := ops.Merge(mode, a.PixelBlock, b.PixelBlock, a.DataWindow, b.DataWindow, mix)

	out := stream.New()
	out.State = stream.Valid
	out.SetPixelBlock(outPB)
	out.SetDataWindow(outWindow)
	out.SetDisplayWindow(b.DisplayWindow)
	out.Spec = b.Spec
	return out, Valid
}

func (n *Node) computeResample(deps Deps, inputs []*stream.StreamData) (*stream.StreamData, Status) {
	in, ok := requireInput(inputs, 0)
	if !ok {
		return emptyStreamData(), Warning
	}
	if deps.Resampler == nil {
		return in.Clone(), Warning
	}
	factor := int(n.Attrs.GetI32("factor"))
	interpolate := n.Attrs.GetBool("interpolate")

	dst, ok := ops.ImageResample(deps.Resampler, in.PixelBlock, factor, interpolate)
	if !ok {
		n.Err = fmt.Errorf("resample by factor %d: %w", factor, ocgerr.ErrOracleFailure)
		return in.Clone(), Error
	}

	out := in.Clone()
	out.SetPixelBlock(dst)
	out.SetDataWindow(scaleWindow(in.DataWindow, factor))
	out.SetDisplayWindow(scaleWindow(in.DisplayWindow, factor))
	return out, Valid
}

func scaleWindow(w bbox.BBox2Di, factor int) bbox.BBox2Di {
	if factor > 0 {
		shift := uint(factor)
		return bbox.NewI(w.MinX<<shift, w.MinY<<shift, w.MaxX<<shift, w.MaxY<<shift)
	}
	if factor < 0 {
		shift := uint(-factor)
		return bbox.NewI(w.MinX>>shift, w.MinY>>shift, w.MaxX>>shift, w.MaxY>>shift)
	}
	return w
}

func (n *Node) computeViewer(deps Deps, inputs []*stream.StreamData) (*stream.StreamData, Status) {
	in, ok := requireInput(inputs, 0)
	if !ok {
		return emptyStreamData(), Warning
	}
	opt := bakeOption(n.Attrs.GetI32("bake_option"))
	opts := bakeOptsFor(opt)
	baked := ops.BakeWithConverter(opts, in.PixelBlock, in.DataWindow, in.Spec.ColorSpace, in.Spec.ColorSpace,
		in.Deformers, in.ColorMatrix, in.ColorOps, in.PixelBlock.DType, deps.ColorConverter)

	out := in.Clone()
	out.SetPixelBlock(baked)
	// Whatever the bake materialized must not stay deferred on the
	// stream, or a downstream consumer would apply it twice.
	if opts&ops.BakeDeformers != 0 {
		out.ClearDeformers()
	}
	if opts&ops.BakeColorOps != 0 {
		out.ClearColorOps()
	}

	if n.Attrs.GetBool("crop_to_format") {
		cropped, newWindow := ops.CropImageInPlace(baked, in.DataWindow, in.DisplayWindow, false, false, true)
		out.SetPixelBlock(cropped)
		out.SetDataWindow(newWindow)
	}
	return out, Valid
}
