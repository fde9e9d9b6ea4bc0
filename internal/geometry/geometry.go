// Package geometry implements aspect-preserving pad/resize onto a fixed
// canvas. The downstream vision model consumes a fixed-size square input,
// so output geometry must be exact and bit-for-bit reproducible.
package geometry

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/draw"
)

// ErrInvalidGeometry indicates a source or target dimension below 1 pixel.
var ErrInvalidGeometry = errors.New("invalid image geometry")

// Normalize scales src to fit entirely within targetW x targetH while
// preserving aspect ratio, then centers it on a canvas filled with bg.
//
// The scale factor is the smaller of the two axis ratios, guaranteeing the
// scaled image fits inside the target box without cropping. Resampling uses
// Catmull-Rom interpolation, which keeps small text legible. The same input
// always produces the same pixels.
func Normalize(src image.Image, targetW, targetH int, bg color.Color) (*image.RGBA, error) {
	b := src.Bounds()
	srcW, srcH := b.Dx(), b.Dy()

	if srcW < 1 || srcH < 1 {
		return nil, fmt.Errorf("%w: source %dx%d", ErrInvalidGeometry, srcW, srcH)
	}
	if targetW < 1 || targetH < 1 {
		return nil, fmt.Errorf("%w: target %dx%d", ErrInvalidGeometry, targetW, targetH)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	if srcW == targetW && srcH == targetH {
		// Already canonical: copy content at (0,0) without resampling.
		draw.Draw(canvas, canvas.Bounds(), src, b.Min, draw.Src)
		return canvas, nil
	}

	scale := math.Min(float64(targetW)/float64(srcW), float64(targetH)/float64(srcH))

	scaledW := int(float64(srcW) * scale)
	scaledH := int(float64(srcH) * scale)
	// Extreme aspect ratios can floor one axis to zero; keep a single pixel
	// so the resample always has a positive destination.
	if scaledW < 1 {
		scaledW = 1
	}
	if scaledH < 1 {
		scaledH = 1
	}

	offX := (targetW - scaledW) / 2
	offY := (targetH - scaledH) / 2
	dst := image.Rect(offX, offY, offX+scaledW, offY+scaledH)

	draw.CatmullRom.Scale(canvas, dst, src, b, draw.Over, nil)
	return canvas, nil
}

// EncodePNG encodes img losslessly. PNG preserves text quality and keeps
// identical inputs byte-identical.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}
