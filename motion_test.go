package canopy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"
)

func TestMotion_EasesToTarget(t *testing.T) {
	mo := NewMotion(0, 1, ease.Linear)
	assert.True(t, mo.Done())

	mo.SetTarget(10)
	assert.False(t, mo.Done())
	assert.Equal(t, 10.0, mo.Target())

	require.True(t, mo.Tick(0.5))
	assert.InDelta(t, 5, mo.Value(), 1e-4)
	assert.True(t, mo.Changed())

	require.True(t, mo.Tick(1))
	assert.Equal(t, 10.0, mo.Value())
	assert.True(t, mo.Done())

	assert.False(t, mo.Tick(1), "idle motion reports no change")
	assert.False(t, mo.Changed())
}

func TestMotion_SameTargetIsNoop(t *testing.T) {
	mo := NewMotion(3, 1, nil)
	mo.SetTarget(3)
	assert.True(t, mo.Done())

	mo.SetTarget(6)
	mo.Tick(0.25)
	v := mo.Value()
	mo.SetTarget(6)
	assert.Equal(t, v, mo.Value(), "retargeting to the current target keeps progress")
	assert.False(t, mo.Done())
}

func TestMotion_ForceAndZeroDuration(t *testing.T) {
	mo := NewMotion(0, 1, nil)
	mo.SetTarget(5)
	mo.Force(2)
	assert.Equal(t, 2.0, mo.Value())
	assert.Equal(t, 2.0, mo.Target())
	assert.True(t, mo.Done())

	instant := NewMotion(0, 0, nil)
	instant.SetTarget(1)
	assert.Equal(t, 1.0, instant.Value())
	assert.True(t, instant.Done())
}

func TestMotion_BindInvalidatesOwner(t *testing.T) {
	m := newTestManager(100, 100)
	mo := NewMotion(10, 0.5, ease.OutQuad)
	e := m.NewEntity(nil, EntityConfig{
		Geometry: Geometry{Height: func(*Entity) float64 { return mo.Value() }},
	})
	mo.Bind(e)
	require.InDelta(t, 10, e.Height(), 1e-9)

	mo.SetTarget(20)
	mo.Tick(1)
	assert.InDelta(t, 20, e.Height(), 1e-9)

	mo.Force(40)
	assert.InDelta(t, 40, e.Height(), 1e-9)

	m.Remove(e)
	assert.NotPanics(t, func() { mo.Force(0) })
}
