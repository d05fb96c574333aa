package asset

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Preview renders a tone-mapped LDR preview of the environment map,
// scaled to fit within w x h. The simple Reinhard operator plus gamma
// 2.2 keeps highlights from clipping; this is for thumbnails and the
// remote viewer page, not for rendering.
func (e *Environment) Preview(w, h int) *image.RGBA {
	full := image.NewRGBA(image.Rect(0, 0, e.Width, e.Height))
	for y := 0; y < e.Height; y++ {
		for x := 0; x < e.Width; x++ {
			r, g, b := e.At(x, y)
			full.SetRGBA(x, y, color.RGBA{
				R: toneMap(r),
				G: toneMap(g),
				B: toneMap(b),
				A: 0xff,
			})
		}
	}
	if w <= 0 || h <= 0 || (e.Width <= w && e.Height <= h) {
		return full
	}

	scale := math.Min(float64(w)/float64(e.Width), float64(h)/float64(e.Height))
	dw := int(float64(e.Width) * scale)
	dh := int(float64(e.Height) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), full, full.Bounds(), draw.Src, nil)
	return dst
}

func toneMap(v float32) uint8 {
	if v < 0 {
		v = 0
	}
	mapped := float64(v) / (1 + float64(v))
	out := math.Pow(mapped, 1/2.2) * 255
	if out > 255 {
		out = 255
	}
	return uint8(out)
}
