package ecs

import (
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/vellum"
)

// EditorEventType is the Donburi event type for vellum editor events.
var EditorEventType = events.NewEventType[vellum.EditorEvent]()

// ShapeData mirrors a committed shape node.
type ShapeData struct {
	NodeID uint32
	UID    uuid.UUID
	Kind   vellum.ShapeKind
	Box    vellum.AABB
}

// Shape is the component holding ShapeData.
var Shape = donburi.NewComponentType[ShapeData]()

// Selected tags the entity of the selected shape.
var Selected = donburi.NewTag()

// DonburiStore is a vellum.EventSink backed by a Donburi world.
type DonburiStore struct {
	world    donburi.World
	entities map[uuid.UUID]donburi.Entity
	selected uuid.UUID
}

// NewDonburiStore creates an event sink backed by a Donburi world. Events
// are published to EditorEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{world: world, entities: make(map[uuid.UUID]donburi.Entity)}
}

// Entity returns the entity mirroring the shape with the given UID.
func (s *DonburiStore) Entity(uid uuid.UUID) (donburi.Entity, bool) {
	e, ok := s.entities[uid]
	if !ok || !s.world.Valid(e) {
		return donburi.Null, false
	}
	return e, true
}

// EmitEvent implements vellum.EventSink.
func (s *DonburiStore) EmitEvent(event vellum.EditorEvent) {
	switch event.Type {
	case vellum.EventShapeCommitted:
		e := s.world.Create(Shape)
		Shape.SetValue(s.world.Entry(e), ShapeData{
			NodeID: event.NodeID,
			UID:    event.UID,
			Kind:   event.Kind,
			Box:    event.Box,
		})
		s.entities[event.UID] = e
	case vellum.EventSelectionChanged:
		s.setSelected(event.UID)
	}
	EditorEventType.Publish(s.world, event)
}

func (s *DonburiStore) setSelected(uid uuid.UUID) {
	if e, ok := s.Entity(s.selected); ok {
		if entry := s.world.Entry(e); entry.HasComponent(Selected) {
			entry.RemoveComponent(Selected)
		}
	}
	s.selected = uid
	if e, ok := s.Entity(uid); ok {
		s.world.Entry(e).AddComponent(Selected)
	}
}
