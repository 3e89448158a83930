package house

import (
	"github.com/nerrad567/currently-core/internal/household"
	"github.com/nerrad567/currently-core/internal/usage"
)

const (
	// DefaultHouseName names a house the user has not named.
	DefaultHouseName = "My Home"

	// DefaultFloorName is the label of the default floor. It is always
	// present in a reconciled house and can never be deleted.
	DefaultFloorName = "Ground Floor"

	// UnlabelledFloor groups rooms stored without a floor label.
	UnlabelledFloor = "Floor"

	// MaxFloors is the most floors a house may have.
	MaxFloors = 3

	// syntheticOrder marks a default floor that no room references.
	syntheticOrder = -1
)

// RoomView is a room with the appliances placed in it and their totals.
type RoomView struct {
	household.Room
	Style          household.Style       `json:"style"`
	Appliances     []household.Appliance `json:"appliances"`
	ApplianceCount int                   `json:"applianceCount"`
	DailyKWh       float64               `json:"dailyKWh"`
	DailyCost      float64               `json:"dailyCost"`
}

// Floor groups the rooms sharing a floor label. ID and Name are both the label.
type Floor struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Order int        `json:"order"`
	Rooms []RoomView `json:"rooms"`
}

// Totals sums the estimates of every room on the floor.
func (f Floor) Totals() usage.Estimate {
	var t usage.Estimate
	for _, r := range f.Rooms {
		t.DailyKWh += r.DailyKWh
		t.DailyCost += r.DailyCost
	}
	return t
}

// ApplianceCount returns the number of appliances placed on the floor.
func (f Floor) ApplianceCount() int {
	n := 0
	for _, r := range f.Rooms {
		n += r.ApplianceCount
	}
	return n
}

// House is the reconciled view of a user's home.
//
// Every fetched appliance appears exactly once: inside a room, in
// Unassigned when it has no room, or in Orphaned when its room id names
// no fetched room.
type House struct {
	Name       string                `json:"houseName"`
	Floors     []Floor               `json:"floors"`
	Unassigned []household.Appliance `json:"unassigned"`
	Orphaned   []household.Appliance `json:"orphaned,omitempty"`
}

// FindFloor returns the index of the floor with the given ID, or -1.
func (h *House) FindFloor(id string) int {
	for i := range h.Floors {
		if h.Floors[i].ID == id {
			return i
		}
	}
	return -1
}

// Rooms returns every room in floor order.
func (h House) Rooms() []household.Room {
	var out []household.Room
	for _, f := range h.Floors {
		for _, r := range f.Rooms {
			out = append(out, r.Room)
		}
	}
	return out
}

// Totals sums the estimates of every placed appliance.
func (h House) Totals() usage.Estimate {
	var t usage.Estimate
	for _, f := range h.Floors {
		ft := f.Totals()
		t.DailyKWh += ft.DailyKWh
		t.DailyCost += ft.DailyCost
	}
	return t
}

// Clone returns a deep copy of h.
func (h House) Clone() House {
	out := House{
		Name:       h.Name,
		Floors:     make([]Floor, len(h.Floors)),
		Unassigned: cloneAppliances(h.Unassigned),
		Orphaned:   cloneAppliances(h.Orphaned),
	}
	for i, f := range h.Floors {
		nf := f
		nf.Rooms = make([]RoomView, len(f.Rooms))
		for j, r := range f.Rooms {
			nr := r
			nr.Appliances = cloneAppliances(r.Appliances)
			nf.Rooms[j] = nr
		}
		out.Floors[i] = nf
	}
	return out
}

func cloneAppliances(in []household.Appliance) []household.Appliance {
	if in == nil {
		return nil
	}
	out := make([]household.Appliance, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}
