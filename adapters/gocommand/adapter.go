package gocommand

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	"github.com/goliatone/go-services-teamwork/core"
)

// ValidateMessageContract requires a non-empty Type() and runs Validate()
// when the message has one.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

// RegistryAdapter owns a go-command registry plus the dispatcher
// subscriptions made through it, so a connector's handlers can be removed
// together.
type RegistryAdapter struct {
	registry *command.Registry

	mu            sync.Mutex
	subscriptions []commanddispatcher.Subscription
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) AddResolver(key string, resolver command.Resolver) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.AddResolver(strings.TrimSpace(key), resolver)
}

func (a *RegistryAdapter) HasResolver(key string) bool {
	if a == nil || a.registry == nil {
		return false
	}
	return a.registry.HasResolver(strings.TrimSpace(key))
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

// Close drops every dispatcher subscription made through the adapter.
func (a *RegistryAdapter) Close() {
	if a == nil {
		return
	}
	a.mu.Lock()
	subscriptions := a.subscriptions
	a.subscriptions = nil
	a.mu.Unlock()
	for _, subscription := range subscriptions {
		if subscription != nil {
			subscription.Unsubscribe()
		}
	}
}

func (a *RegistryAdapter) track(subscription commanddispatcher.Subscription) {
	if subscription == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subscriptions = append(a.subscriptions, subscription)
}

// RegisterCommand subscribes cmd on the dispatcher and adds it to the
// registry. A registry failure undoes the subscription.
func RegisterCommand[T any](adapter *RegistryAdapter, cmd command.Commander[T], runnerOpts ...runner.Option) error {
	if adapter == nil || adapter.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	if cmd == nil {
		return fmt.Errorf("gocommand: command is required")
	}
	subscription := commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.registry.RegisterCommand(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return err
	}
	adapter.track(subscription)
	return nil
}

func RegisterQuery[T any, R any](adapter *RegistryAdapter, qry command.Querier[T, R], runnerOpts ...runner.Option) error {
	if adapter == nil || adapter.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	if qry == nil {
		return fmt.Errorf("gocommand: query is required")
	}
	subscription := commanddispatcher.SubscribeQuery(qry, runnerOpts...)
	if err := adapter.registry.RegisterCommand(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return err
	}
	adapter.track(subscription)
	return nil
}

// SubscribeEvents routes connector events published with ForwardEvents to
// handler.
func SubscribeEvents(adapter *RegistryAdapter, handler core.EventHandler, runnerOpts ...runner.Option) error {
	if adapter == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	if handler == nil {
		return fmt.Errorf("gocommand: event handler is required")
	}
	adapter.track(commanddispatcher.SubscribeCommand(handler, runnerOpts...))
	return nil
}

// ForwardEvents returns a connector handler that republishes every event on
// the go-command dispatcher as a core.Event message.
func ForwardEvents() core.EventHandler {
	return core.EventHandlerFunc(func(ctx context.Context, evt core.Event) error {
		return commanddispatcher.Dispatch(ctx, evt)
	})
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}
