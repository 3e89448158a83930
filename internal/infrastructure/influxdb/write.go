package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementEstimate is the measurement holding appliance estimates.
const MeasurementEstimate = "appliance_estimate"

// unassignedRoom tags estimates for appliances not placed in a room.
const unassignedRoom = "unassigned"

// Estimate is one appliance's estimated daily consumption at a point in time.
type Estimate struct {
	UserID        string
	ApplianceID   int64
	ApplianceName string
	UsageType     string
	RoomID        *int64
	DailyKWh      float64
	DailyCost     float64
	At            time.Time
}

// WriteEstimate queues an estimate point. It does nothing when the client
// is not connected.
func (c *Client) WriteEstimate(e Estimate) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(estimatePoint(e))
}

// estimatePoint tags by user, archetype, usage type and room, which stay
// low-cardinality; the appliance ID is a field.
func estimatePoint(e Estimate) *write.Point {
	room := unassignedRoom
	if e.RoomID != nil {
		room = strconv.FormatInt(*e.RoomID, 10)
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	return write.NewPoint(
		MeasurementEstimate,
		map[string]string{
			"user_id":    e.UserID,
			"appliance":  e.ApplianceName,
			"usage_type": e.UsageType,
			"room_id":    room,
		},
		map[string]any{
			"appliance_id": e.ApplianceID,
			"daily_kwh":    e.DailyKWh,
			"daily_cost":   e.DailyCost,
		},
		at,
	)
}
