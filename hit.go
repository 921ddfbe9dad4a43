package canopy

// HitShape is a custom hit region in entity-local coordinates, where (0, 0)
// is the entity's resolved top-left corner.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in local coordinates.
// Points must define a convex polygon in either winding order.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside a convex polygon using cross-product sign test.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}

	var positive, negative bool
	for i := 0; i < n; i++ {
		a := p.Points[i]
		b := p.Points[(i+1)%n]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// IsTouching reports whether the screen point (x, y) hits this entity.
// Invisible entities and entities with DisableTouching never hit. A Touching
// override takes precedence, then HitShape, then the resolved bounding box.
func (e *Entity) IsTouching(x, y float64) bool {
	if e.disposed || e.DisableTouching || !e.IsVisible() {
		return false
	}
	if e.Touching != nil {
		return e.Touching(e, x, y)
	}
	r := e.Rect()
	if e.HitShape != nil {
		return e.HitShape.Contains(x-r.X, y-r.Y)
	}
	if r.Width == 0 && r.Height == 0 {
		return false
	}
	return r.Contains(x, y)
}
