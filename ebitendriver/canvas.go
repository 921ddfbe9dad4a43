package ebitendriver

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/canopy"
)

// Canvas implements canopy.Canvas on an ebiten image. Shapes are
// anti-aliased. Text is skipped when Face is nil.
type Canvas struct {
	Dst  *ebiten.Image
	Face text.Face
}

// LoadFace parses TrueType or OpenType data into a face of the given size.
func LoadFace(ttf []byte, size float64) (text.Face, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("ebitendriver: load face: %w", err)
	}
	return &text.GoTextFace{Source: src, Size: size}, nil
}

// FillRect fills r with c.
func (cv *Canvas) FillRect(r canopy.Rect, c canopy.Color) {
	if cv.Dst == nil || r.Width <= 0 || r.Height <= 0 {
		return
	}
	vector.DrawFilledRect(cv.Dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), toRGBA(c), true)
}

// FillCircle fills the circle at (cx, cy).
func (cv *Canvas) FillCircle(cx, cy, radius float64, c canopy.Color) {
	if cv.Dst == nil || radius <= 0 {
		return
	}
	vector.DrawFilledCircle(cv.Dst, float32(cx), float32(cy), float32(radius), toRGBA(c), true)
}

// StrokeLine draws a line of the given width.
func (cv *Canvas) StrokeLine(x0, y0, x1, y1, width float64, c canopy.Color) {
	if cv.Dst == nil || width <= 0 {
		return
	}
	vector.StrokeLine(cv.Dst, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), toRGBA(c), true)
}

// DrawText draws s with its top-left corner at (x, y).
func (cv *Canvas) DrawText(s string, x, y float64, c canopy.Color) {
	if cv.Dst == nil || cv.Face == nil || s == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(toRGBA(c))
	text.Draw(cv.Dst, s, cv.Face, op)
}

// toRGBA converts to premultiplied 8-bit color.
func toRGBA(c canopy.Color) color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
