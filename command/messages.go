package command

import "github.com/goliatone/go-services-teamwork/core"

const (
	TypeSubscribe       = "teamwork.command.subscribe"
	TypeStart           = "teamwork.command.start"
	TypeDispatchWebhook = "teamwork.command.webhook.dispatch"
)

// SubscribeMessage declares a subscription. An empty EventID selects the
// connector default. EventType is passed through as is; the connector accepts
// any string.
type SubscribeMessage struct {
	EventType core.EventType
	EventID   string
	Handler   core.EventHandler
}

func (SubscribeMessage) Type() string { return TypeSubscribe }

func (m SubscribeMessage) Validate() error {
	if m.Handler == nil {
		return commandValidationError("handler", "handler is required")
	}
	return nil
}

type StartMessage struct{}

func (StartMessage) Type() string { return TypeStart }

func (StartMessage) Validate() error { return nil }

// DispatchWebhookMessage pushes a delivery through the connector without an
// HTTP round trip, e.g. when replaying a captured payload. A missing event
// header is not rejected here; the connector answers it like any unmatched
// delivery.
type DispatchWebhookMessage struct {
	Request core.InboundRequest
}

func (DispatchWebhookMessage) Type() string { return TypeDispatchWebhook }

func (DispatchWebhookMessage) Validate() error { return nil }
