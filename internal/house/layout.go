package house

import (
	"fmt"
	"strconv"

	"github.com/nerrad567/currently-core/internal/household"
)

// Layout holds the current House with floor selection and expansion state,
// and guards every structural change to it.
//
// Floors added here exist only client-side until a room is created on
// them; a later Reset from fetched data drops floors no room references.
type Layout struct {
	rec      *Reconciler
	house    House
	selected string
	expanded map[string]bool
}

// NewLayout returns a Layout showing the empty house template.
func NewLayout(rec *Reconciler) *Layout {
	l := &Layout{rec: rec}
	l.Reset(rec.Empty())
	return l
}

// Reset replaces the house wholesale, as after a fresh load. The selected
// floor is kept if it still exists, otherwise the first floor is selected.
// Only the first floor is expanded.
func (l *Layout) Reset(h House) {
	l.house = h
	l.expanded = make(map[string]bool)
	if len(h.Floors) == 0 {
		l.selected = ""
		return
	}
	if l.house.FindFloor(l.selected) < 0 {
		l.selected = h.Floors[0].ID
	}
	l.expanded[h.Floors[0].ID] = true
}

// House returns a copy of the current house.
func (l *Layout) House() House {
	return l.house.Clone()
}

// Selected returns the ID of the selected floor.
func (l *Layout) Selected() string {
	return l.selected
}

// SelectFloor makes id the selected floor.
func (l *Layout) SelectFloor(id string) error {
	if l.house.FindFloor(id) < 0 {
		return violation("select floor", id, ErrFloorNotFound)
	}
	l.selected = id
	return nil
}

// IsExpanded reports whether the floor is expanded on the map.
func (l *Layout) IsExpanded(id string) bool {
	return l.expanded[id]
}

// ToggleFloor flips the expansion of a floor and returns the new state.
func (l *Layout) ToggleFloor(id string) (bool, error) {
	if l.house.FindFloor(id) < 0 {
		return false, violation("toggle floor", id, ErrFloorNotFound)
	}
	l.expanded[id] = !l.expanded[id]
	return l.expanded[id], nil
}

// AddFloor appends an empty floor named "Floor N", using the lowest N >= 2
// not already taken, then selects and expands it.
func (l *Layout) AddFloor() (Floor, error) {
	if len(l.house.Floors) >= MaxFloors {
		return Floor{}, violation("add floor", strconv.Itoa(len(l.house.Floors)+1), ErrMaxFloors)
	}

	name := ""
	for n := 2; ; n++ {
		name = fmt.Sprintf("Floor %d", n)
		if l.house.FindFloor(name) < 0 {
			break
		}
	}

	order := 0
	for _, f := range l.house.Floors {
		if f.Order >= order {
			order = f.Order + 1
		}
	}
	f := Floor{ID: name, Name: name, Order: order, Rooms: []RoomView{}}
	l.house.Floors = append(l.house.Floors, f)
	l.selected = name
	l.expanded[name] = true
	return f, nil
}

// CanDeleteFloor reports why the floor cannot be deleted, or nil.
func (l *Layout) CanDeleteFloor(id string) error {
	i := l.house.FindFloor(id)
	switch {
	case i < 0:
		return violation("delete floor", id, ErrFloorNotFound)
	case id == DefaultFloorName:
		return violation("delete floor", id, ErrDefaultFloor)
	case len(l.house.Floors) <= 1:
		return violation("delete floor", id, ErrLastFloor)
	case len(l.house.Floors[i].Rooms) > 0:
		return violation("delete floor", id, ErrFloorHasRooms)
	}
	return nil
}

// DeleteFloor removes an empty, non-default floor. If it was selected the
// first remaining floor becomes selected.
func (l *Layout) DeleteFloor(id string) error {
	if err := l.CanDeleteFloor(id); err != nil {
		return err
	}
	i := l.house.FindFloor(id)
	l.house.Floors = append(l.house.Floors[:i], l.house.Floors[i+1:]...)
	delete(l.expanded, id)
	if l.selected == id {
		l.selected = l.house.Floors[0].ID
	}
	return nil
}

// CanPlaceOnFloor reports why a room cannot move to the floor labelled
// label, or nil. An existing floor always accepts the room; a new label
// would add a floor and is subject to MaxFloors like AddFloor.
func (l *Layout) CanPlaceOnFloor(label string) error {
	if label == "" {
		label = UnlabelledFloor
	}
	if l.house.FindFloor(label) >= 0 {
		return nil
	}
	if len(l.house.Floors) >= MaxFloors {
		return violation("move room", label, ErrMaxFloors)
	}
	return nil
}

// AuthorizeRoomDelete checks a room may be deleted from the selected
// floor. The remote delete must only be issued after this returns nil.
func (l *Layout) AuthorizeRoomDelete(roomID int64, confirmed bool) error {
	target := strconv.FormatInt(roomID, 10)
	if !confirmed {
		return violation("delete room", target, ErrNotConfirmed)
	}
	if _, _, ok := l.findRoom(roomID, true); !ok {
		return violation("delete room", target, ErrRoomNotFound)
	}
	return nil
}

// RemoveRoom drops a room from the selected floor after the backend has
// deleted it. Its appliances move to Unassigned. The floor itself stays
// even when it becomes empty.
func (l *Layout) RemoveRoom(roomID int64) {
	fi, ri, ok := l.findRoom(roomID, true)
	if !ok {
		return
	}
	f := &l.house.Floors[fi]
	for _, a := range f.Rooms[ri].Appliances {
		a.RoomID = nil
		a.RoomName = ""
		l.house.Unassigned = append(l.house.Unassigned, a)
	}
	f.Rooms = append(f.Rooms[:ri], f.Rooms[ri+1:]...)
}

// PlaceRoom adds a room confirmed by the backend to the floor matching its
// label, creating that floor at the end if the label is new.
func (l *Layout) PlaceRoom(rm household.Room) {
	label := rm.FloorLabel
	if label == "" {
		label = UnlabelledFloor
	}
	fi := l.house.FindFloor(label)
	if fi < 0 {
		order := 0
		for _, f := range l.house.Floors {
			if f.Order >= order {
				order = f.Order + 1
			}
		}
		l.house.Floors = append(l.house.Floors, Floor{ID: label, Name: label, Order: order, Rooms: []RoomView{}})
		fi = len(l.house.Floors) - 1
	}
	l.house.Floors[fi].Rooms = append(l.house.Floors[fi].Rooms, newRoomView(rm))
}

// ReplaceRoom applies an update confirmed by the backend. A room whose
// label changed moves to the matching floor.
func (l *Layout) ReplaceRoom(rm household.Room) {
	fi, ri, ok := l.findRoom(rm.ID, false)
	if !ok {
		l.PlaceRoom(rm)
		return
	}
	old := l.house.Floors[fi].Rooms[ri]
	if old.FloorLabel == rm.FloorLabel {
		old.Room = rm
		old.Style = household.StyleFor(rm.Type)
		for i := range old.Appliances {
			old.Appliances[i].RoomName = rm.Name
		}
		l.house.Floors[fi].Rooms[ri] = old
		return
	}
	f := &l.house.Floors[fi]
	f.Rooms = append(f.Rooms[:ri], f.Rooms[ri+1:]...)
	l.PlaceRoom(rm)
	if nfi, nri, found := l.findRoom(rm.ID, false); found {
		moved := &l.house.Floors[nfi].Rooms[nri]
		moved.Appliances = old.Appliances
		moved.ApplianceCount = old.ApplianceCount
		moved.DailyKWh = old.DailyKWh
		moved.DailyCost = old.DailyCost
	}
}

// SetAppliances re-attaches appliances to the current rooms without
// regrouping floors, so empty floors survive until the next Reset.
func (l *Layout) SetAppliances(appliances []household.Appliance) {
	l.rec.attach(&l.house, appliances)
}

// findRoom locates a room, optionally restricted to the selected floor.
func (l *Layout) findRoom(roomID int64, selectedOnly bool) (floor, room int, ok bool) {
	for fi, f := range l.house.Floors {
		if selectedOnly && f.ID != l.selected {
			continue
		}
		for ri, r := range f.Rooms {
			if r.ID == roomID {
				return fi, ri, true
			}
		}
	}
	return -1, -1, false
}
