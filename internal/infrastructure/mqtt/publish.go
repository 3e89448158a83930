package mqtt

import (
	"encoding/json"
	"fmt"
	"time"
)

// maxPayloadSize caps a single message at 1 MB.
const maxPayloadSize = 1 << 20

// Event is the payload of a change notification.
type Event struct {
	Resource  Resource `json:"resource"`
	Action    Action   `json:"action"`
	UserID    string   `json:"userId"`
	Data      any      `json:"data,omitempty"`
	Timestamp string   `json:"timestamp"`
}

// Publish sends payload to topic and waits for the broker's acknowledgement.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// PublishChange publishes a change event for one of a user's records at
// the configured QoS. Change events are not retained.
func (c *Client) PublishChange(userID string, resource Resource, action Action, data any) error {
	payload, err := buildEventPayload(userID, resource, action, data, time.Now())
	if err != nil {
		return err
	}
	return c.Publish(Topics{}.UserChange(userID, resource, action), payload, byte(c.cfg.QoS), false)
}

func buildEventPayload(userID string, resource Resource, action Action, data any, at time.Time) ([]byte, error) {
	payload, err := json.Marshal(Event{
		Resource:  resource,
		Action:    action,
		UserID:    userID,
		Data:      data,
		Timestamp: at.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding %s %s event: %w", resource, action, err)
	}
	return payload, nil
}
