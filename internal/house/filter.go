package house

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nerrad567/currently-core/internal/household"
)

type roomFilterKind int

const (
	anyRoom roomFilterKind = iota
	noRoom
	inRoom
)

// RoomFilter selects appliances by placement. The zero value matches all.
type RoomFilter struct {
	kind roomFilterKind
	id   int64
}

// AnyRoom matches every appliance.
func AnyRoom() RoomFilter { return RoomFilter{kind: anyRoom} }

// NoRoom matches only appliances with no room.
func NoRoom() RoomFilter { return RoomFilter{kind: noRoom} }

// InRoom matches appliances placed in the given room.
func InRoom(id int64) RoomFilter { return RoomFilter{kind: inRoom, id: id} }

// ParseRoomFilter reads a room filter from text: "" or "all" for every
// appliance, "unassigned" or "none" for appliances with no room, or a
// base-10 room id.
func ParseRoomFilter(s string) (RoomFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return AnyRoom(), nil
	case "unassigned", "none":
		return NoRoom(), nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return RoomFilter{}, fmt.Errorf("%w: %q", ErrInvalidRoomFilter, s)
	}
	return InRoom(id), nil
}

func (f RoomFilter) String() string {
	switch f.kind {
	case noRoom:
		return "unassigned"
	case inRoom:
		return strconv.FormatInt(f.id, 10)
	default:
		return "all"
	}
}

// Match reports whether a passes the room filter.
func (f RoomFilter) Match(a household.Appliance) bool {
	switch f.kind {
	case noRoom:
		return a.RoomID == nil
	case inRoom:
		return a.RoomID != nil && *a.RoomID == f.id
	default:
		return true
	}
}

// Filter narrows the appliance list. Both conditions must hold.
type Filter struct {
	// Search matches case-insensitively anywhere in the appliance label.
	// It is used as given; surrounding spaces are part of the term.
	Search string
	Room   RoomFilter
}

// Match reports whether a passes the filter.
func (f Filter) Match(a household.Appliance) bool {
	if !f.Room.Match(a) {
		return false
	}
	term := strings.ToLower(f.Search)
	return term == "" || strings.Contains(strings.ToLower(a.Label()), term)
}

// Apply returns the appliances passing the filter, in input order.
func (f Filter) Apply(appliances []household.Appliance) []household.Appliance {
	out := make([]household.Appliance, 0, len(appliances))
	for _, a := range appliances {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}
