// Package renderer provides the drawing surfaces the studio renders onto.
package renderer

import (
	"fmt"
	"image/color"
)

// straight converts a premultiplied color to straight alpha.
func straight(c color.RGBA) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

// cssColor returns the hex color and opacity of c for SVG attributes.
func cssColor(c color.RGBA) (hex string, opacity float64) {
	n := straight(c)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B), float64(n.A) / 255
}
