package ecs

import (
	"testing"

	"github.com/phanxgames/canopy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	require.NotNil(t, store)
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []canopy.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e canopy.InteractionEvent) {
		received = append(received, e)
	})

	store.EmitEvent(canopy.InteractionEvent{
		Type:     canopy.EventMouseDown,
		EntityID: 42,
		X:        100,
		Y:        200,
		Button:   canopy.MouseButtonLeft,
	})
	store.EmitEvent(canopy.InteractionEvent{
		Type:     canopy.EventDrag,
		EntityID: 42,
		DeltaX:   3,
		DeltaY:   -1,
	})

	// Events are queued until processed.
	assert.Empty(t, received)
	InteractionEventType.ProcessEvents(world)

	require.Len(t, received, 2)
	assert.Equal(t, canopy.EventMouseDown, received[0].Type)
	assert.Equal(t, uint32(42), received[0].EntityID)
	assert.Equal(t, 100.0, received[0].X)
	assert.Equal(t, 200.0, received[0].Y)
	assert.Equal(t, canopy.EventDrag, received[1].Type)
	assert.Equal(t, 3.0, received[1].DeltaX)
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	InteractionEventType.Subscribe(world, func(w donburi.World, e canopy.InteractionEvent) {
		count1++
	})
	InteractionEventType.Subscribe(world, func(w donburi.World, e canopy.InteractionEvent) {
		count2++
	})

	store.EmitEvent(canopy.InteractionEvent{Type: canopy.EventClick, EntityID: 1})
	events.ProcessAllEvents(world)

	assert.Equal(t, 1, count1)
	assert.Equal(t, 1, count2)
}

func TestDonburiStore_MirrorsState(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	store.EmitEvent(canopy.InteractionEvent{Type: canopy.EventHoverEnter, EntityID: 7, Name: "block"})
	store.EmitEvent(canopy.InteractionEvent{Type: canopy.EventSelect, EntityID: 7, Group: "commands"})
	store.EmitEvent(canopy.InteractionEvent{Type: canopy.EventClick, EntityID: 7})
	store.EmitEvent(canopy.InteractionEvent{Type: canopy.EventDoubleClick, EntityID: 7})

	st, ok := store.State(7)
	require.True(t, ok)
	assert.Equal(t, "block", st.Name)
	assert.True(t, st.Hovered)
	assert.True(t, st.Selected)
	assert.Equal(t, "commands", st.Group)
	assert.Equal(t, 2, st.Clicks)

	store.EmitEvent(canopy.InteractionEvent{Type: canopy.EventHoverExit, EntityID: 7})
	store.EmitEvent(canopy.InteractionEvent{Type: canopy.EventDeselect, EntityID: 7})
	st, _ = store.State(7)
	assert.False(t, st.Hovered)
	assert.False(t, st.Selected)

	n := 0
	store.Each(func(InteractionState) { n++ })
	assert.Equal(t, 1, n)

	store.Forget(7)
	_, ok = store.State(7)
	assert.False(t, ok)
}

func TestDonburiStore_WiredToManager(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	mgr := canopy.NewManager(canopy.DefaultConfig())
	mgr.SetScreenSize(100, 100)
	mgr.SetEntityStore(store)
	btn := mgr.NewEntity(nil, canopy.EntityConfig{
		Name:      "button",
		Placement: canopy.Placement{PWidth: 0.5, PHeight: 0.5},
		Listeners: canopy.Listeners{Click: &canopy.ClickFuncs{}},
	})

	var types []canopy.EventType
	InteractionEventType.Subscribe(world, func(w donburi.World, e canopy.InteractionEvent) {
		types = append(types, e.Type)
	})

	mgr.Interactor().MouseDown(10, 10, false, 0)
	mgr.Interactor().MouseUp(10, 10)
	InteractionEventType.ProcessEvents(world)

	assert.Equal(t, []canopy.EventType{canopy.EventMouseDown, canopy.EventClick, canopy.EventMouseUp, canopy.EventHoverEnter}, types)
	st, ok := store.State(btn.ID)
	require.True(t, ok)
	assert.Equal(t, 1, st.Clicks)
}

func TestDonburiStore_KeepsNameAcrossNamelessEvents(t *testing.T) {
	store := NewDonburiStore(donburi.NewWorld())

	store.EmitEvent(canopy.InteractionEvent{Type: canopy.EventHoverEnter, EntityID: 3, Name: "inserter"})
	store.EmitEvent(canopy.InteractionEvent{Type: canopy.EventClick, EntityID: 3})

	st, ok := store.State(3)
	require.True(t, ok)
	assert.Equal(t, "inserter", st.Name)
	assert.Equal(t, 1, st.Clicks)
}

func TestDonburiStore_ForgetsRemovedEntities(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	mgr := canopy.NewManager(canopy.DefaultConfig())
	mgr.SetScreenSize(100, 100)
	mgr.SetEntityStore(store)
	parent := mgr.NewEntity(nil, canopy.EntityConfig{
		Name:      "parent",
		Placement: canopy.Placement{PWidth: 0.5, PHeight: 0.5},
		Listeners: canopy.Listeners{Select: &canopy.SelectFuncs{Sel: canopy.Selector{Group: "g", Sticky: true}}},
	})
	child := mgr.NewEntity(parent, canopy.EntityConfig{
		Name:      "child",
		Placement: canopy.Placement{PWidth: 0.5, PHeight: 0.5},
		Listeners: canopy.Listeners{Click: &canopy.ClickFuncs{}},
	})
	other := mgr.NewEntity(nil, canopy.EntityConfig{
		Name:      "other",
		Placement: canopy.Placement{PX: 0.5, PWidth: 0.5, PHeight: 0.5},
		Listeners: canopy.Listeners{Click: &canopy.ClickFuncs{}},
	})

	for _, p := range [][2]float64{{10, 10}, {40, 40}, {60, 10}} {
		mgr.Interactor().MouseDown(p[0], p[1], false, 0)
		mgr.Interactor().MouseUp(p[0], p[1])
	}

	st, ok := store.State(parent.ID)
	require.True(t, ok)
	require.True(t, st.Selected)
	_, ok = store.State(child.ID)
	require.True(t, ok)
	_, ok = store.State(other.ID)
	require.True(t, ok)

	mgr.Remove(parent)

	_, ok = store.State(parent.ID)
	assert.False(t, ok)
	_, ok = store.State(child.ID)
	assert.False(t, ok)
	_, ok = store.State(other.ID)
	assert.True(t, ok)

	n := 0
	store.Each(func(InteractionState) { n++ })
	assert.Equal(t, 1, n)
}
