// Package ecs provides ECS adapters for canopy.
package ecs

import (
	"github.com/phanxgames/canopy"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// InteractionEventType is the Donburi event type for canopy interaction events.
// Subscribe to this in your ECS systems to receive pointer, drag and selection events.
var InteractionEventType = events.NewEventType[canopy.InteractionEvent]()

// InteractionState mirrors the interaction state of one canopy entity.
type InteractionState struct {
	EntityID uint32
	Name     string
	Hovered  bool
	Selected bool
	Dragging bool
	Clicks   int
	Group    string
}

// InteractionStateComponent holds InteractionState on mirror entities.
var InteractionStateComponent = donburi.NewComponentType[InteractionState]()

// DonburiStore is an EntityStore backed by a Donburi world.
type DonburiStore struct {
	world  donburi.World
	mirror map[uint32]donburi.Entity
}

var _ canopy.EntityStore = (*DonburiStore)(nil)

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{world: world, mirror: make(map[uint32]donburi.Entity)}
}

// EmitEvent publishes the event and updates the mirrored state of its entity.
func (s *DonburiStore) EmitEvent(event canopy.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
	s.apply(event)
}

// State returns the mirrored state for a canopy entity ID.
func (s *DonburiStore) State(id uint32) (InteractionState, bool) {
	e, ok := s.mirror[id]
	if !ok || !s.world.Valid(e) {
		return InteractionState{}, false
	}
	return *InteractionStateComponent.Get(s.world.Entry(e)), true
}

// Forget deletes the mirror entity for a removed canopy entity. EmitEvent
// calls it for EventRemoved.
func (s *DonburiStore) Forget(id uint32) {
	e, ok := s.mirror[id]
	if !ok {
		return
	}
	delete(s.mirror, id)
	if s.world.Valid(e) {
		s.world.Remove(e)
	}
}

// Each visits every mirrored state.
func (s *DonburiStore) Each(fn func(InteractionState)) {
	donburi.NewQuery(filter.Contains(InteractionStateComponent)).Each(s.world, func(entry *donburi.Entry) {
		fn(*InteractionStateComponent.Get(entry))
	})
}

func (s *DonburiStore) apply(ev canopy.InteractionEvent) {
	if ev.EntityID == 0 {
		return
	}
	if ev.Type == canopy.EventRemoved {
		s.Forget(ev.EntityID)
		return
	}
	e, ok := s.mirror[ev.EntityID]
	if !ok || !s.world.Valid(e) {
		e = s.world.Create(InteractionStateComponent)
		s.mirror[ev.EntityID] = e
		InteractionStateComponent.SetValue(s.world.Entry(e), InteractionState{EntityID: ev.EntityID})
	}
	st := InteractionStateComponent.Get(s.world.Entry(e))
	if ev.Name != "" {
		st.Name = ev.Name
	}

	switch ev.Type {
	case canopy.EventHoverEnter:
		st.Hovered = true
	case canopy.EventHoverExit:
		st.Hovered = false
	case canopy.EventSelect:
		st.Selected = true
		st.Group = ev.Group
	case canopy.EventDeselect:
		st.Selected = false
	case canopy.EventDragStart:
		st.Dragging = true
	case canopy.EventDragEnd:
		st.Dragging = false
	case canopy.EventClick, canopy.EventDoubleClick:
		st.Clicks++
	}
}
