package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/currently-core/internal/household"
	"github.com/nerrad567/currently-core/internal/infrastructure/mqtt"
)

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.households.ListRooms(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.logger.Error("listing rooms failed", "error", err)
		writeInternalError(w, "failed to list rooms")
		return
	}
	if rooms == nil {
		rooms = []household.Room{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

// handleCreateRoom creates a room. The type defaults to Custom.
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req household.RoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	room := household.Room{
		Name:       strings.TrimSpace(req.Name),
		FloorLabel: strings.TrimSpace(req.FloorLabel),
		Type:       req.Type,
	}
	if room.Type == "" {
		room.Type = household.RoomCustom
	}
	if err := household.ValidateRoom(room); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	userID := userIDFrom(r.Context())
	if err := s.households.CreateRoom(r.Context(), userID, &room); err != nil {
		s.logger.Error("creating room failed", "error", err)
		writeInternalError(w, "failed to create room")
		return
	}

	s.recordChange(r.Context(), userID, mqtt.ResourceRooms, mqtt.ActionCreated, room.ID, room)
	writeJSON(w, http.StatusCreated, room)
}

// handleUpdateRoom applies the non-empty fields of the request.
func (s *Server) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req household.RoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	userID := userIDFrom(r.Context())
	room, err := s.households.GetRoom(r.Context(), userID, id)
	if err != nil {
		s.writeHouseholdError(w, err, "failed to load room")
		return
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		room.Name = v
	}
	if v := strings.TrimSpace(req.FloorLabel); v != "" {
		room.FloorLabel = v
	}
	if req.Type != "" {
		room.Type = req.Type
	}
	if err := household.ValidateRoom(*room); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := s.households.UpdateRoom(r.Context(), userID, room); err != nil {
		s.writeHouseholdError(w, err, "failed to update room")
		return
	}

	s.recordChange(r.Context(), userID, mqtt.ResourceRooms, mqtt.ActionUpdated, room.ID, room)
	writeJSON(w, http.StatusOK, room)
}

// handleDeleteRoom deletes a room. Its appliances become unassigned.
func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	userID := userIDFrom(r.Context())
	if err := s.households.DeleteRoom(r.Context(), userID, id); err != nil {
		s.writeHouseholdError(w, err, "failed to delete room")
		return
	}

	s.recordChange(r.Context(), userID, mqtt.ResourceRooms, mqtt.ActionDeleted, id, map[string]int64{"id": id})
	w.WriteHeader(http.StatusNoContent)
}

// parseID reads the {id} URL parameter, writing a 400 if it is malformed.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}

// writeHouseholdError maps repository errors to responses. Anything not
// recognised is logged and reported as fallback.
func (s *Server) writeHouseholdError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, household.ErrRoomNotFound):
		writeNotFound(w, "room not found")
	case errors.Is(err, household.ErrApplianceNotFound):
		writeNotFound(w, "appliance not found")
	case errors.Is(err, household.ErrUnknownAppliance),
		errors.Is(err, household.ErrUsageTypeMismatch),
		errors.Is(err, household.ErrInvalidUsage),
		errors.Is(err, household.ErrInvalidName),
		errors.Is(err, household.ErrInvalidRoomType):
		writeValidationError(w, err.Error())
	default:
		s.logger.Error(fallback, "error", err)
		writeInternalError(w, fallback)
	}
}
