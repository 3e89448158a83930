package session

import (
	"context"
	"fmt"

	"github.com/nerrad567/currently-core/internal/household"
)

// RoomChange describes an edit to a room. Empty fields keep their value.
type RoomChange struct {
	Name       string
	Type       household.RoomType
	FloorLabel string
}

// CreateRoom creates a room on the selected floor.
func (s *Session) CreateRoom(ctx context.Context, name string, roomType household.RoomType) (household.Room, error) {
	if roomType == "" {
		roomType = household.RoomCustom
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	floor := s.layout.Selected()
	s.mu.RUnlock()

	candidate := household.Room{Name: name, Type: roomType, FloorLabel: floor}
	if err := household.ValidateRoom(candidate); err != nil {
		return household.Room{}, err
	}

	created, err := s.api.CreateRoom(ctx, household.RoomRequest{Name: name, Type: roomType, FloorLabel: floor})
	if err != nil {
		return household.Room{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = append(s.rooms, created)
	s.layout.PlaceRoom(created)
	s.log.Info("room created", "room_id", created.ID, "floor", created.FloorLabel)
	return created, nil
}

// UpdateRoom renames, retypes or moves a room. A move to a floor label
// that does not exist yet adds a floor, so it is rejected before anything
// is sent when the house already has MaxFloors floors.
func (s *Session) UpdateRoom(ctx context.Context, id int64, change RoomChange) (household.Room, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	current, ok := s.findRoom(id)
	s.mu.RUnlock()
	if !ok {
		return household.Room{}, fmt.Errorf("%w: %d", household.ErrRoomNotFound, id)
	}

	next := current
	if change.Name != "" {
		next.Name = change.Name
	}
	if change.Type != "" {
		next.Type = change.Type
	}
	if change.FloorLabel != "" {
		next.FloorLabel = change.FloorLabel
	}
	if err := household.ValidateRoom(next); err != nil {
		return household.Room{}, err
	}
	if next.FloorLabel != current.FloorLabel {
		s.mu.RLock()
		err := s.layout.CanPlaceOnFloor(next.FloorLabel)
		s.mu.RUnlock()
		if err != nil {
			return household.Room{}, err
		}
	}

	updated, err := s.api.UpdateRoom(ctx, id, household.RoomRequest{
		Name: next.Name, Type: next.Type, FloorLabel: next.FloorLabel,
	})
	if err != nil {
		return household.Room{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rooms {
		if s.rooms[i].ID == id {
			s.rooms[i] = updated
		}
	}
	for i := range s.appliances {
		if a := &s.appliances[i]; a.RoomID != nil && *a.RoomID == id {
			a.RoomName = updated.Name
		}
	}
	s.layout.ReplaceRoom(updated)
	return updated, nil
}

// DeleteRoom deletes a room from the selected floor. Nothing is sent
// unless confirmed is true. The room's appliances become unassigned; the
// floor stays, even if now empty, until the next Load.
func (s *Session) DeleteRoom(ctx context.Context, id int64, confirmed bool) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	err := s.layout.AuthorizeRoomDelete(id, confirmed)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := s.api.DeleteRoom(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.layout.RemoveRoom(id)
	rooms := s.rooms[:0]
	for _, r := range s.rooms {
		if r.ID != id {
			rooms = append(rooms, r)
		}
	}
	s.rooms = rooms
	for i := range s.appliances {
		if a := &s.appliances[i]; a.RoomID != nil && *a.RoomID == id {
			a.RoomID = nil
			a.RoomName = ""
		}
	}
	s.log.Info("room deleted", "room_id", id)
	return nil
}

// findRoom looks a room up by ID. Callers hold mu.
func (s *Session) findRoom(id int64) (household.Room, bool) {
	for _, r := range s.rooms {
		if r.ID == id {
			return r, true
		}
	}
	return household.Room{}, false
}
