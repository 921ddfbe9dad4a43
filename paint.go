package canopy

// Canvas is a drawing surface. Colors arrive with the entity's opacity
// already applied to their alpha.
type Canvas interface {
	FillRect(r Rect, c Color)
	FillCircle(cx, cy, radius float64, c Color)
	StrokeLine(x0, y0, x1, y1, width float64, c Color)
	// DrawText draws a single line of text with its top-left corner at (x, y).
	DrawText(s string, x, y float64, c Color)
}

// Painter is implemented by Entity.UserData values that paint their entity.
type Painter interface {
	Paint(ctx DrawContext, cv Canvas)
}

// Paint runs a draw pass that hands every visible entity whose UserData is
// a Painter to that painter.
func (m *Manager) Paint(cv Canvas) {
	m.Draw(func(ctx DrawContext) {
		p, ok := ctx.Entity.UserData.(Painter)
		if !ok {
			return
		}
		p.Paint(ctx, opacityCanvas{cv: cv, opacity: ctx.Opacity})
	})
}

// opacityCanvas scales every color's alpha by the entity's opacity.
type opacityCanvas struct {
	cv      Canvas
	opacity float64
}

func (o opacityCanvas) fade(c Color) Color {
	c.A *= o.opacity
	return c
}

func (o opacityCanvas) FillRect(r Rect, c Color) {
	o.cv.FillRect(r, o.fade(c))
}

func (o opacityCanvas) FillCircle(cx, cy, radius float64, c Color) {
	o.cv.FillCircle(cx, cy, radius, o.fade(c))
}

func (o opacityCanvas) StrokeLine(x0, y0, x1, y1, width float64, c Color) {
	o.cv.StrokeLine(x0, y0, x1, y1, width, o.fade(c))
}

func (o opacityCanvas) DrawText(s string, x, y float64, c Color) {
	o.cv.DrawText(s, x, y, o.fade(c))
}
