package session

import (
	"context"
	"fmt"

	"github.com/nerrad567/currently-core/internal/catalogue"
	"github.com/nerrad567/currently-core/internal/house"
	"github.com/nerrad567/currently-core/internal/household"
)

// ApplianceChange describes an edit to an appliance. Nil fields keep
// their value. Set Unassign to take the appliance out of its room.
type ApplianceChange struct {
	CustomName  *string
	HoursPerDay *float64
	UsesPerDay  *float64
	RoomID      *int64
	Unassign    bool
}

// AddAppliance adds an appliance from the catalogue. It starts unassigned,
// named after its archetype, with the archetype's default rate or 1.
func (s *Session) AddAppliance(ctx context.Context, archetypeName string) (household.Appliance, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	idx := s.catalogue
	s.mu.RUnlock()
	if idx == nil {
		return household.Appliance{}, ErrNotLoaded
	}
	base, ok := idx.Lookup(archetypeName)
	if !ok {
		return household.Appliance{}, fmt.Errorf("%w: %s", household.ErrUnknownAppliance, archetypeName)
	}

	req := household.ApplianceRequest{
		ApplianceName: base.Name,
		CustomName:    household.String(base.Name),
		UsageType:     base.UsageType,
	}
	switch base.UsageType {
	case catalogue.Continuous:
		req.HoursPerDay = household.Float(orOne(base.DefaultHoursPerDay))
	case catalogue.PerUse:
		req.UsesPerDay = household.Float(orOne(base.DefaultUsesPerDay))
	}

	created, err := s.api.CreateAppliance(ctx, req)
	if err != nil {
		return household.Appliance{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.appliances = append(s.appliances, created)
	s.layout.SetAppliances(s.appliances)
	s.log.Info("appliance added", "appliance_id", created.ID, "appliance", created.ApplianceName)
	return s.calc.Derive(created), nil
}

// UpdateAppliance merges change into the appliance and saves it.
func (s *Session) UpdateAppliance(ctx context.Context, id int64, change ApplianceChange) (household.Appliance, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	current, found := s.findAppliance(id)
	roomKnown := change.RoomID == nil
	if change.RoomID != nil {
		_, roomKnown = s.findRoom(*change.RoomID)
	}
	s.mu.RUnlock()
	if !found {
		return household.Appliance{}, fmt.Errorf("%w: %d", household.ErrApplianceNotFound, id)
	}
	if !roomKnown {
		return household.Appliance{}, fmt.Errorf("%w: %d", household.ErrRoomNotFound, *change.RoomID)
	}

	next := current.Clone()
	if change.CustomName != nil {
		next.CustomName = *change.CustomName
	}
	if change.HoursPerDay != nil {
		next.HoursPerDay = change.HoursPerDay
	}
	if change.UsesPerDay != nil {
		next.UsesPerDay = change.UsesPerDay
	}
	switch {
	case change.Unassign:
		next.RoomID = nil
	case change.RoomID != nil:
		next.RoomID = change.RoomID
	}
	if err := household.ValidateUsage(next); err != nil {
		return household.Appliance{}, err
	}

	updated, err := s.api.UpdateAppliance(ctx, id, household.ApplianceRequest{
		CustomName:  household.String(next.CustomName),
		HoursPerDay: next.HoursPerDay,
		UsesPerDay:  next.UsesPerDay,
		RoomID:      next.RoomID,
	})
	if err != nil {
		return household.Appliance{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appliances {
		if s.appliances[i].ID == id {
			s.appliances[i] = updated
		}
	}
	s.layout.SetAppliances(s.appliances)
	return s.calc.Derive(updated), nil
}

// AssignAppliance places an appliance in a room, or un-assigns it when
// roomID is nil.
func (s *Session) AssignAppliance(ctx context.Context, id int64, roomID *int64) (household.Appliance, error) {
	if roomID == nil {
		return s.UpdateAppliance(ctx, id, ApplianceChange{Unassign: true})
	}
	return s.UpdateAppliance(ctx, id, ApplianceChange{RoomID: roomID})
}

// RemoveAppliance deletes an appliance. Nothing is sent unless confirmed.
func (s *Session) RemoveAppliance(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return &house.ViolationError{Op: "delete appliance", Target: idString(id), Err: house.ErrNotConfirmed}
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	_, found := s.findAppliance(id)
	s.mu.RUnlock()
	if !found {
		return fmt.Errorf("%w: %d", household.ErrApplianceNotFound, id)
	}

	if err := s.api.DeleteAppliance(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.appliances[:0]
	for _, a := range s.appliances {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.appliances = kept
	s.layout.SetAppliances(s.appliances)
	s.log.Info("appliance removed", "appliance_id", id)
	return nil
}

// findAppliance looks an appliance up by ID. Callers hold mu.
func (s *Session) findAppliance(id int64) (household.Appliance, bool) {
	for _, a := range s.appliances {
		if a.ID == id {
			return a, true
		}
	}
	return household.Appliance{}, false
}

func orOne(v float64) float64 {
	if v > 0 {
		return v
	}
	return 1
}
