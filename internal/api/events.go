package api

import (
	"context"
	"strconv"
	"time"

	"github.com/nerrad567/currently-core/internal/audit"
	"github.com/nerrad567/currently-core/internal/household"
	"github.com/nerrad567/currently-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/currently-core/internal/infrastructure/mqtt"
)

// Activity resources that are not household records.
const activityAccount = "account"

// recordChange counts a successful write, appends it to the user's
// activity log and publishes it when an event publisher is configured.
// Failures are logged, never returned; the write has already been
// committed.
func (s *Server) recordChange(ctx context.Context, userID string, resource mqtt.Resource, action mqtt.Action, id int64, data any) {
	s.metrics.countChange(string(resource), string(action))
	s.recordActivity(ctx, userID, string(resource), string(action), strconv.FormatInt(id, 10), nil)
	if s.events == nil {
		return
	}
	if err := s.events.PublishChange(userID, resource, action, data); err != nil {
		s.logger.Warn("publishing change event failed",
			"user_id", userID,
			"resource", resource,
			"action", action,
			"error", err,
		)
	}
}

// recordActivity appends an entry to the activity log, if one is configured.
func (s *Server) recordActivity(ctx context.Context, userID, resource, action, resourceID string, details map[string]any) {
	if s.activity == nil {
		return
	}
	err := s.activity.Create(ctx, &audit.Entry{
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
	})
	if err != nil {
		s.logger.Warn("recording activity failed",
			"user_id", userID,
			"resource", resource,
			"action", action,
			"error", err,
		)
	}
}

// recordEstimate writes the appliance's derived estimate to the history
// store, if one is configured.
func (s *Server) recordEstimate(userID string, a household.Appliance) {
	if s.estimates == nil {
		return
	}
	est := s.calc.Estimate(a)
	s.estimates.WriteEstimate(influxdb.Estimate{
		UserID:        userID,
		ApplianceID:   a.ID,
		ApplianceName: a.ApplianceName,
		UsageType:     string(a.UsageType),
		RoomID:        a.RoomID,
		DailyKWh:      est.DailyKWh,
		DailyCost:     est.DailyCost,
		At:            time.Now(),
	})
}
