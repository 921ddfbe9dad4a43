package canopy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(w, h float64) *Manager {
	m := NewManager(DefaultConfig())
	m.SetScreenSize(w, h)
	return m
}

func TestNewEntity_DefaultsToRootAndFill(t *testing.T) {
	m := newTestManager(400, 200)
	e := m.NewEntity(nil, EntityConfig{Name: "e"})

	assert.Same(t, m.Root(), e.Parent())
	assert.Equal(t, FillParent, e.Placement)
	assert.True(t, e.IsVisible())
	assert.InDelta(t, 1, e.Opacity(), 1e-9)
	assert.True(t, e.NeedsRedraw())
	assert.Equal(t, Rect{Width: 400, Height: 200}, e.Rect())
	assert.Equal(t, 2, m.Len())
}

func TestAddChild_Reparents(t *testing.T) {
	m := newTestManager(100, 100)
	a := m.NewEntity(nil, EntityConfig{Name: "a"})
	b := m.NewEntity(nil, EntityConfig{Name: "b"})
	c := m.NewEntity(a, EntityConfig{Name: "c"})

	b.AddChild(c)
	assert.Same(t, b, c.Parent())
	assert.Empty(t, a.Children())
	assert.Equal(t, []*Entity{c}, b.Children())
	assert.True(t, c.IsDescendantOf(b))
	assert.False(t, c.IsDescendantOf(a))
	assert.False(t, c.IsDescendantOf(c))
}

func TestAddChild_CyclePanics(t *testing.T) {
	m := newTestManager(100, 100)
	a := m.NewEntity(nil, EntityConfig{})
	b := m.NewEntity(a, EntityConfig{})

	assert.PanicsWithValue(t, "canopy: adding child would create a cycle", func() { b.AddChild(a) })
	assert.Panics(t, func() { a.AddChild(a) })
	assert.Panics(t, func() { a.AddChild(nil) })
}

func TestRemoveChild_WrongParentPanics(t *testing.T) {
	m := newTestManager(100, 100)
	a := m.NewEntity(nil, EntityConfig{})
	b := m.NewEntity(nil, EntityConfig{})
	assert.Panics(t, func() { a.RemoveChild(b) })
}

func TestRemove_DisposesSubtree(t *testing.T) {
	m := newTestManager(100, 100)
	a := m.NewEntity(nil, EntityConfig{Name: "a"})
	b := m.NewEntity(a, EntityConfig{Name: "b"})
	c := m.NewEntity(b, EntityConfig{Name: "c", UserData: 42})
	require.Equal(t, 4, m.Len())

	m.Remove(a)
	assert.Equal(t, 1, m.Len())
	for _, e := range []*Entity{a, b, c} {
		assert.True(t, e.IsDisposed(), e.Name)
		assert.Nil(t, e.Parent())
	}
	assert.Nil(t, c.UserData)
	assert.Empty(t, m.Root().Children())

	// Removing twice is harmless.
	m.Remove(a)
	assert.Equal(t, 1, m.Len())

	_, err := m.Rect(c)
	assert.ErrorIs(t, err, ErrStaleEntity)
}

func TestRemove_RootPanics(t *testing.T) {
	m := newTestManager(100, 100)
	assert.Panics(t, func() { m.Remove(m.Root()) })
}

func TestRemoveReparent(t *testing.T) {
	m := newTestManager(100, 100)
	a := m.NewEntity(nil, EntityConfig{Name: "a"})
	b := m.NewEntity(a, EntityConfig{Name: "b"})
	c := m.NewEntity(a, EntityConfig{Name: "c"})
	dest := m.NewEntity(nil, EntityConfig{Name: "dest"})

	m.RemoveReparent(a, dest)
	assert.True(t, a.IsDisposed())
	assert.False(t, b.IsDisposed())
	assert.Equal(t, []*Entity{b, c}, dest.Children())

	assert.Panics(t, func() { m.RemoveReparent(dest, b) })
}

func TestVisibilityIsInherited(t *testing.T) {
	m := newTestManager(100, 100)
	a := m.NewEntity(nil, EntityConfig{})
	b := m.NewEntity(a, EntityConfig{})
	hidden := m.NewEntity(nil, EntityConfig{Hidden: true})

	assert.False(t, hidden.IsVisible())
	a.SetInvisible()
	assert.False(t, b.IsVisible())
	a.SetVisible()
	assert.True(t, b.IsVisible())
}

func TestOpacity(t *testing.T) {
	m := newTestManager(100, 100)
	a := m.NewEntity(nil, EntityConfig{})
	b := m.NewEntity(a, EntityConfig{})
	c := m.NewEntity(b, EntityConfig{Geometry: Geometry{Opacity: func(*Entity) float64 { return 1.5 }}})

	a.SetAlpha(0.5)
	b.SetAlpha(0.5)
	assert.InDelta(t, 0.25, b.Opacity(), 1e-9)
	assert.InDelta(t, 1, c.Opacity(), 1e-9, "resolver wins and is clamped")

	b.SetAlpha(-1)
	assert.InDelta(t, 0, b.Alpha(), 1e-9)
}

func TestSetInvisible_ExitsHover(t *testing.T) {
	m := newTestManager(100, 100)
	var exits int
	panel := m.NewEntity(nil, EntityConfig{})
	btn := m.NewEntity(panel, EntityConfig{
		Listeners: Listeners{Hover: &HoverFuncs{Exit: func(HoverContext) { exits++ }}},
	})

	m.Interactor().MouseMove(50, 50)
	require.Same(t, btn, m.Interactor().Hovered())

	panel.SetInvisible()
	assert.Equal(t, 1, exits)
	assert.Nil(t, m.Interactor().Hovered())
}

func TestHas(t *testing.T) {
	m := newTestManager(100, 100)
	e := m.NewEntity(nil, EntityConfig{Listeners: Listeners{Click: &ClickFuncs{}, Tick: &TickFuncs{}}})

	assert.True(t, e.Has(CapClick))
	assert.True(t, e.Has(CapTick))
	assert.False(t, e.Has(CapDrag))
	assert.False(t, e.Has(CapWheel))

	e.SetListeners(Listeners{})
	assert.False(t, e.Has(CapClick))
}
