// Package canopy is a retained-mode UI scene graph with lazily resolved,
// cached geometry and capability-based input dispatch.
//
// # Scene graph
//
// Every element is an [Entity]. Entities form a tree rooted at
// [Manager.Root] and join the tree the moment they are created:
//
//	mgr := canopy.NewManager(canopy.DefaultConfig())
//	panel := mgr.NewEntity(nil, canopy.EntityConfig{
//		Name:      "panel",
//		Placement: canopy.Placement{PX: 0.7, PWidth: 0.3, PHeight: 1},
//		DrawOrder: canopy.DrawOrderPanel,
//	})
//
// # Geometry
//
// Left, top, width, height and center are resolved on first read from the
// parent's box and the entity's [Placement], unless a [Geometry] resolver
// overrides them. Values are cached until [Entity.RecomputePosition] (the
// entity and all descendants) or [Entity.RecomputeEntity] (the entity alone,
// for animated values) clears them. A resolver that reads an attribute still
// being resolved panics with a [*GeometryError]; [Manager.Rect] turns that
// into an error.
//
// # Input
//
// Entities opt into behaviors through [Listeners]: Click, Drag, Hover,
// Select, Key, Tick and Wheel. The [Interactor] hit-tests the tree in
// reverse paint order and calls whichever capabilities the target has.
// Missing capabilities are skipped. The function-struct types ([ClickFuncs],
// [DragFuncs], ...) let callers fill in only the callbacks they need:
//
//	mgr.NewEntity(panel, canopy.EntityConfig{
//		Listeners: canopy.Listeners{
//			Click: &canopy.ClickFuncs{LeftClick: func(ctx canopy.ClickContext) { ... }},
//		},
//	})
//
// # Ordered sequences
//
// [List] is a doubly linked list whose hook runs on every node whose
// neighbors changed. [Chain] uses that hook to nest a sequence of entities
// so that each member is the child of its predecessor, which gives stacked
// layouts via [Chain.StackTop].
//
// # Frame
//
// One frame is [Manager.Update] (injected input, then ticks) followed by
// [Manager.Draw]. The tree must not be structurally changed while Draw runs.
// The ebitendriver package provides a ready-made Ebitengine game loop.
package canopy
