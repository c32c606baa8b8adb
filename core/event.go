package core

import (
	"encoding/json"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	EventMessageType = "teamwork.event"

	eventIDNamespace = "Teamwork"
)

type EventOptions struct {
	Type EventType `json:"type" yaml:"type"`
}

// EventConfiguration binds an event type to a connector under a stable id.
type EventConfiguration struct {
	ID        string       `json:"id"`
	Connector *Connector   `json:"-"`
	Options   EventOptions `json:"options"`
}

// EventSubscription is the name used by callers that think in terms of
// subscriptions rather than host event configurations.
type EventSubscription = EventConfiguration

// Event is the message delivered to handlers. Payload is the webhook body as
// decoded JSON, or the raw bytes when the body was not JSON.
type Event struct {
	ID      string
	Payload any
}

func (Event) Type() string { return EventMessageType }

// SubscriptionID builds the default id for a connector subscription.
func SubscriptionID(eventType EventType, connectorID string) string {
	return eventIDNamespace + "/" + string(eventType) + "/" + connectorID
}

// DecodePayload converts an event payload into T. Decoded JSON values are
// re-encoded first so any JSON-tagged struct can be targeted.
func DecodePayload[T any](evt Event) (T, error) {
	var out T
	var raw []byte
	switch payload := evt.Payload.(type) {
	case nil:
		return out, badInputError("core: event payload is empty", map[string]any{"event_id": evt.ID})
	case []byte:
		raw = payload
	case json.RawMessage:
		raw = payload
	case string:
		raw = []byte(payload)
	default:
		encoded, err := json.Marshal(payload)
		if err != nil {
			return out, wrapError(err, goerrors.CategoryBadInput, "core: encode event payload", ErrorBadInput,
				map[string]any{"event_id": evt.ID})
		}
		raw = encoded
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, wrapError(err, goerrors.CategoryBadInput,
			fmt.Sprintf("core: decode event payload into %T", out), ErrorBadInput,
			map[string]any{"event_id": evt.ID})
	}
	return out, nil
}
