// Package ecs provides ECS adapters for vellum editor events.
//
// The primary adapter is [NewDonburiStore], which bridges editor
// notifications (committed shapes, selection and mode changes) into a
// [Donburi] world: every event is published as a typed event, and every
// committed shape gets an entity carrying a [ShapeData] component, with the
// current selection marked by the [Selected] tag.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	editor.AddEventSink(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
