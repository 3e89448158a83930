package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nerrad567/currently-core/internal/catalogue"
	"github.com/nerrad567/currently-core/internal/household"
	"github.com/nerrad567/currently-core/internal/infrastructure/mqtt"
)

// handleListAppliances returns the user's appliances with derived
// dailyKWh and estimatedDailyCost.
func (s *Server) handleListAppliances(w http.ResponseWriter, r *http.Request) {
	list, err := s.households.ListAppliances(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.logger.Error("listing appliances failed", "error", err)
		writeInternalError(w, "failed to list appliances")
		return
	}
	out := make([]household.Appliance, 0, len(list))
	for _, a := range list {
		out = append(out, s.calc.Derive(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateAppliance adds an appliance from the catalogue. The usage
// type defaults to the archetype's and must match it when given; only the
// rate selected by the usage type is stored.
func (s *Server) handleCreateAppliance(w http.ResponseWriter, r *http.Request) {
	var req household.ApplianceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.ApplianceName) == "" {
		writeValidationError(w, "applianceName is required")
		return
	}

	a := household.Appliance{
		ApplianceName: strings.TrimSpace(req.ApplianceName),
		UsageType:     req.UsageType,
		HoursPerDay:   req.HoursPerDay,
		UsesPerDay:    req.UsesPerDay,
		RoomID:        req.RoomID,
	}
	if req.CustomName != nil {
		a.CustomName = strings.TrimSpace(*req.CustomName)
	}
	if base, ok := s.catalogue.Lookup(a.ApplianceName); ok {
		a.ApplianceName = base.Name
		if a.UsageType == "" {
			a.UsageType = base.UsageType
		}
	}
	base, err := household.ValidateAgainstCatalogue(a, s.catalogue)
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}
	a.UsageType = base.UsageType
	keepActiveRate(&a)

	userID := userIDFrom(r.Context())
	if err := s.households.CreateAppliance(r.Context(), userID, &a); err != nil {
		s.writeHouseholdError(w, err, "failed to create appliance")
		return
	}

	out := s.reload(r, userID, a)
	s.recordChange(r.Context(), userID, mqtt.ResourceAppliances, mqtt.ActionCreated, out.ID, out)
	s.recordEstimate(userID, out)
	writeJSON(w, http.StatusCreated, out)
}

// handleUpdateAppliance merges the non-null fields of the request into
// the stored record. applianceName and usageType cannot change; roomId is
// always applied, so null un-assigns.
func (s *Server) handleUpdateAppliance(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req household.ApplianceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	userID := userIDFrom(r.Context())
	a, err := s.households.GetAppliance(r.Context(), userID, id)
	if err != nil {
		s.writeHouseholdError(w, err, "failed to load appliance")
		return
	}
	if req.CustomName != nil {
		a.CustomName = strings.TrimSpace(*req.CustomName)
	}
	if req.HoursPerDay != nil {
		a.HoursPerDay = req.HoursPerDay
	}
	if req.UsesPerDay != nil {
		a.UsesPerDay = req.UsesPerDay
	}
	a.RoomID = req.RoomID
	if err := household.ValidateUsage(*a); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	keepActiveRate(a)

	if err := s.households.UpdateAppliance(r.Context(), userID, a); err != nil {
		s.writeHouseholdError(w, err, "failed to update appliance")
		return
	}

	out := s.reload(r, userID, *a)
	s.recordChange(r.Context(), userID, mqtt.ResourceAppliances, mqtt.ActionUpdated, out.ID, out)
	s.recordEstimate(userID, out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteAppliance(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	userID := userIDFrom(r.Context())
	if err := s.households.DeleteAppliance(r.Context(), userID, id); err != nil {
		s.writeHouseholdError(w, err, "failed to delete appliance")
		return
	}

	s.recordChange(r.Context(), userID, mqtt.ResourceAppliances, mqtt.ActionDeleted, id, map[string]int64{"id": id})
	w.WriteHeader(http.StatusNoContent)
}

// reload re-reads a just-written appliance so the response carries its
// room name, then fills in the derived figures. If the re-read fails the
// written record is used as-is.
func (s *Server) reload(r *http.Request, userID string, a household.Appliance) household.Appliance {
	if fresh, err := s.households.GetAppliance(r.Context(), userID, a.ID); err == nil {
		a = *fresh
	} else {
		s.logger.Warn("re-reading appliance failed", "appliance_id", a.ID, "error", err)
	}
	return s.calc.Derive(a)
}

// keepActiveRate clears the rate the usage type does not use.
func keepActiveRate(a *household.Appliance) {
	switch a.UsageType {
	case catalogue.Continuous:
		a.UsesPerDay = nil
	case catalogue.PerUse:
		a.HoursPerDay = nil
	}
}
