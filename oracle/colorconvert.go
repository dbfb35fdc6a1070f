package oracle

import "github.com/dcattermole/opencompgraph-go/colorspace"

// ColorConverter is the color-conversion oracle.
type ColorConverter interface {
	ColorConvertInPlace(pixels []float32, width, height, channels int, srcCS, dstCS colorspace.Name) bool
}

// MatrixColorConverter is the default ColorConverter, driven by the
// gamma/transfer-function curves in package colorspace.
type MatrixColorConverter struct{}

// ColorConvertInPlace implements ColorConverter. Idempotent when
// srcCS == dstCS.
func (MatrixColorConverter) ColorConvertInPlace(pixels []float32, width, height, channels int, srcCS, dstCS colorspace.Name) bool {
	colorspace.ConvertInPlace(pixels, srcCS, dstCS)
	return true
}
