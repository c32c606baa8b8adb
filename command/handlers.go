package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-services-teamwork/core"
)

// ConnectorService is the part of *core.Connector the commands drive.
type ConnectorService interface {
	On(options core.EventOptions, handler core.EventHandler, eventID string) (*core.EventConfiguration, error)
	Start(ctx context.Context) error
	Handle(ctx context.Context, req core.InboundRequest) (core.InboundResult, error)
}

type SubscribeCommand struct {
	service ConnectorService
}

func NewSubscribeCommand(service ConnectorService) *SubscribeCommand {
	return &SubscribeCommand{service: service}
}

func (c *SubscribeCommand) Execute(ctx context.Context, msg SubscribeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: subscribe service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.On(core.EventOptions{Type: msg.EventType}, msg.Handler, msg.EventID)
	if err != nil {
		return err
	}
	if out != nil {
		storeResult(ctx, *out)
	}
	return nil
}

type StartCommand struct {
	service ConnectorService
}

func NewStartCommand(service ConnectorService) *StartCommand {
	return &StartCommand{service: service}
}

func (c *StartCommand) Execute(ctx context.Context, _ StartMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: start service is required")
	}
	return c.service.Start(ctx)
}

type DispatchWebhookCommand struct {
	service ConnectorService
}

func NewDispatchWebhookCommand(service ConnectorService) *DispatchWebhookCommand {
	return &DispatchWebhookCommand{service: service}
}

// Execute stores the result even when handlers failed, so callers can still
// read the status code.
func (c *DispatchWebhookCommand) Execute(ctx context.Context, msg DispatchWebhookMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: dispatch service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.Handle(ctx, msg.Request)
	storeResult(ctx, out)
	return err
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
