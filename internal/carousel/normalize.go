package carousel

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"

	"github.com/yungbote/postforge-backend/internal/types"
)

// normalizeToCanvas decodes an image and letterboxes it onto a white square
// canvas of the template coordinate space, re-encoded as PNG.
func normalizeToCanvas(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	size := types.TemplateCanvasSize
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("decode image: empty bounds")
	}
	scale := float64(size) / float64(b.Dx())
	if s := float64(size) / float64(b.Dy()); s < scale {
		scale = s
	}
	w := int(float64(b.Dx()) * scale)
	h := int(float64(b.Dy()) * scale)
	x0 := (size - w) / 2
	y0 := (size - h) / 2

	draw.CatmullRom.Scale(canvas, image.Rect(x0, y0, x0+w, y0+h), src, b, draw.Over, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, canvas); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}

// blankCanvas renders the white placeholder slide used for degraded PDF
// imports.
func blankCanvas() []byte {
	size := types.TemplateCanvasSize
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	var out bytes.Buffer
	_ = png.Encode(&out, canvas)
	return out.Bytes()
}
