package house

import (
	"github.com/nerrad567/currently-core/internal/household"
	"github.com/nerrad567/currently-core/internal/usage"
)

// Reconciler rebuilds a House from flat rooms and appliances.
type Reconciler struct {
	calc      *usage.Calculator
	houseName string
}

// NewReconciler returns a Reconciler that derives missing appliance
// estimates with calc. An empty houseName becomes DefaultHouseName.
func NewReconciler(calc *usage.Calculator, houseName string) *Reconciler {
	if calc == nil {
		calc = usage.NewCalculator(nil, 0)
	}
	if houseName == "" {
		houseName = DefaultHouseName
	}
	return &Reconciler{calc: calc, houseName: houseName}
}

// Empty returns the template house: a single empty default floor.
func (r *Reconciler) Empty() House {
	return House{
		Name:       r.houseName,
		Floors:     []Floor{{ID: DefaultFloorName, Name: DefaultFloorName, Order: 0, Rooms: []RoomView{}}},
		Unassigned: []household.Appliance{},
	}
}

// Reconcile groups rooms into floors by label in first-seen order and
// attaches each appliance to the room it references.
//
// The default floor is always present and always first; when no room
// carries its label it is synthesized empty with Order -1. Order always
// ascends with position: a default floor seen after other labels is moved
// to the front and the floors are renumbered from 0. Rooms with a
// blank label are grouped under UnlabelledFloor. Appliance estimates the
// server omitted are derived.
//
// Reconcile is pure: the same input always yields the same House.
func (r *Reconciler) Reconcile(rooms []household.Room, appliances []household.Appliance) House {
	if len(rooms) == 0 {
		h := r.Empty()
		r.attach(&h, appliances)
		return h
	}

	var labels []string
	grouped := make(map[string][]household.Room)
	for _, rm := range rooms {
		label := rm.FloorLabel
		if label == "" {
			label = UnlabelledFloor
		}
		if _, seen := grouped[label]; !seen {
			labels = append(labels, label)
		}
		grouped[label] = append(grouped[label], rm)
	}

	floors := make([]Floor, 0, len(labels)+1)
	defaultAt := -1
	for i, label := range labels {
		f := Floor{ID: label, Name: label, Order: i, Rooms: make([]RoomView, 0, len(grouped[label]))}
		for _, rm := range grouped[label] {
			f.Rooms = append(f.Rooms, newRoomView(rm))
		}
		if label == DefaultFloorName {
			defaultAt = i
		}
		floors = append(floors, f)
	}

	switch {
	case defaultAt < 0:
		synthetic := Floor{ID: DefaultFloorName, Name: DefaultFloorName, Order: syntheticOrder, Rooms: []RoomView{}}
		floors = append([]Floor{synthetic}, floors...)
	case defaultAt > 0:
		def := floors[defaultAt]
		copy(floors[1:defaultAt+1], floors[:defaultAt])
		floors[0] = def
		for i := range floors {
			floors[i].Order = i
		}
	}

	h := House{Name: r.houseName, Floors: floors}
	r.attach(&h, appliances)
	return h
}

// attach clears and refills the appliance lists of h from appliances,
// keeping the floor and room structure as it is.
func (r *Reconciler) attach(h *House, appliances []household.Appliance) {
	type slot struct{ floor, room int }
	slots := make(map[int64]slot)
	for fi := range h.Floors {
		for ri := range h.Floors[fi].Rooms {
			rv := &h.Floors[fi].Rooms[ri]
			rv.Appliances = []household.Appliance{}
			slots[rv.ID] = slot{fi, ri}
		}
	}
	h.Unassigned = []household.Appliance{}
	h.Orphaned = nil

	for _, a := range appliances {
		derived := r.calc.Derive(a)
		if derived.RoomID == nil {
			h.Unassigned = append(h.Unassigned, derived)
			continue
		}
		s, ok := slots[*derived.RoomID]
		if !ok {
			h.Orphaned = append(h.Orphaned, derived)
			continue
		}
		rv := &h.Floors[s.floor].Rooms[s.room]
		if derived.RoomName == "" {
			derived.RoomName = rv.Name
		}
		rv.Appliances = append(rv.Appliances, derived)
	}

	for fi := range h.Floors {
		for ri := range h.Floors[fi].Rooms {
			rv := &h.Floors[fi].Rooms[ri]
			total := r.calc.Sum(rv.Appliances)
			rv.ApplianceCount = len(rv.Appliances)
			rv.DailyKWh = total.DailyKWh
			rv.DailyCost = total.DailyCost
		}
	}
}

func newRoomView(rm household.Room) RoomView {
	return RoomView{Room: rm, Style: household.StyleFor(rm.Type), Appliances: []household.Appliance{}}
}
