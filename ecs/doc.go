// Package ecs provides ECS adapters for canopy's interaction event system.
//
// The primary adapter is [NewDonburiStore], which bridges canopy interaction
// events (press, click, drag, hover, selection, keys) into a [Donburi] world
// as typed events, and mirrors each touched entity's interaction state into
// a component. Subscribe to [InteractionEventType] in your ECS systems to
// receive the events.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	mgr.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
