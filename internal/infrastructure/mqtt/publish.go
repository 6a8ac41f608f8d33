package mqtt

import (
	"encoding/json"
	"fmt"
	"time"
)

// maxPayloadSize caps a single message (1MB).
const maxPayloadSize = 1 << 20

// CardStateMessage is the retained payload on cardscan/state/{game_id}.
type CardStateMessage struct {
	Suit       string    `json:"suit"`
	Rank       string    `json:"rank"`
	Identifier string    `json:"identifier"`
	Outcome    string    `json:"outcome"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publish sends a message to the specified MQTT topic.
//
// Parameters:
//   - topic: The topic to publish to (e.g., "cardscan/state/ABCD")
//   - payload: The message payload (typically JSON, max 1MB)
//   - qos: Quality of Service level (0, 1, or 2)
//   - retained: Whether the broker should retain the message for new subscribers
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
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

// PublishRetained publishes a retained message with the configured QoS.
func (c *Client) PublishRetained(topic string, payload []byte) error {
	return c.Publish(topic, payload, byte(c.cfg.QoS), true)
}

// PublishCardState publishes msg as the retained card state for gameID.
func (c *Client) PublishCardState(gameID string, msg CardStateMessage) error {
	if gameID == "" {
		return ErrInvalidTopic
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: encoding card state: %w", ErrPublishFailed, err)
	}

	return c.PublishRetained(Topics{}.CardState(gameID), payload)
}
