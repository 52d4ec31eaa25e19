package amqp

import (
	"encoding/json"
	"time"

	"expense-insights/internal/core"
)

// InsightsMessage announces a computed analysis for one user and period.
type InsightsMessage struct {
	Email     string      `json:"email"`
	Period    core.Period `json:"period"`
	Result    core.Result `json:"result"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewInsightsMessage creates a message stamped with the current time
func NewInsightsMessage(email string, period core.Period, result core.Result) *InsightsMessage {
	return &InsightsMessage{
		Email:     email,
		Period:    period,
		Result:    result,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *InsightsMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// InsightsMessageFromJSON creates a message from JSON bytes
func InsightsMessageFromJSON(data []byte) (*InsightsMessage, error) {
	var msg InsightsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
