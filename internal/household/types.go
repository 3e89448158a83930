package household

import (
	"time"

	"github.com/nerrad567/currently-core/internal/catalogue"
)

// Room is a user-defined room. FloorLabel is the only link to a floor.
type Room struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Type       RoomType  `json:"type"`
	FloorLabel string    `json:"floorLabel"`
	CreatedAt  time.Time `json:"-"`
}

// Appliance is an appliance the user owns, optionally placed in a room.
//
// Exactly one of HoursPerDay and UsesPerDay is meaningful, selected by
// UsageType. DailyKWh and EstimatedDailyCost are derived values; they are
// nil when the server did not supply them.
type Appliance struct {
	ID                 int64               `json:"id"`
	ApplianceName      string              `json:"applianceName"`
	CustomName         string              `json:"customName,omitempty"`
	UsageType          catalogue.UsageType `json:"usageType"`
	HoursPerDay        *float64            `json:"hoursPerDay"`
	UsesPerDay         *float64            `json:"usesPerDay"`
	RoomID             *int64              `json:"roomId"`
	RoomName           string              `json:"roomName,omitempty"`
	DailyKWh           *float64            `json:"dailyKWh,omitempty"`
	EstimatedDailyCost *float64            `json:"estimatedDailyCost,omitempty"`
	CreatedAt          time.Time           `json:"-"`
}

// Label returns the name shown to the user: the custom name if set,
// otherwise the catalogue name.
func (a Appliance) Label() string {
	if a.CustomName != "" {
		return a.CustomName
	}
	return a.ApplianceName
}

// Assigned reports whether the appliance is placed in a room.
func (a Appliance) Assigned() bool {
	return a.RoomID != nil
}

// Clone returns a deep copy so callers can mutate pointer fields safely.
func (a Appliance) Clone() Appliance {
	out := a
	out.HoursPerDay = cloneFloat(a.HoursPerDay)
	out.UsesPerDay = cloneFloat(a.UsesPerDay)
	out.DailyKWh = cloneFloat(a.DailyKWh)
	out.EstimatedDailyCost = cloneFloat(a.EstimatedDailyCost)
	if a.RoomID != nil {
		id := *a.RoomID
		out.RoomID = &id
	}
	return out
}

// RoomRequest is the body of room create and update calls.
// On update, empty fields keep their current value.
type RoomRequest struct {
	Name       string   `json:"name,omitempty"`
	FloorLabel string   `json:"floorLabel,omitempty"`
	Type       RoomType `json:"type,omitempty"`
}

// ApplianceRequest is the body of appliance create and update calls.
//
// On update, ApplianceName and UsageType are ignored and nil rate or
// name fields keep their current value. RoomID is always applied, so a
// nil RoomID un-assigns the appliance.
type ApplianceRequest struct {
	ApplianceName string              `json:"applianceName,omitempty"`
	CustomName    *string             `json:"customName,omitempty"`
	UsageType     catalogue.UsageType `json:"usageType,omitempty"`
	HoursPerDay   *float64            `json:"hoursPerDay,omitempty"`
	UsesPerDay    *float64            `json:"usesPerDay,omitempty"`
	RoomID        *int64              `json:"roomId"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// ID returns a pointer to v.
func ID(v int64) *int64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
