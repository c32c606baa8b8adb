package host

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-services-teamwork/core"
)

// EventBus maps event ids to handlers. Binding the same id twice keeps both
// handlers; they run in bind order.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]core.EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{handlers: map[string][]core.EventHandler{}}
}

func (b *EventBus) When(subscription *core.EventConfiguration, handler core.EventHandler) error {
	if b == nil {
		return hostInternal("host: event bus is nil", nil)
	}
	if subscription == nil || strings.TrimSpace(subscription.ID) == "" {
		return hostBadInput("host: subscription id is required", nil)
	}
	if handler == nil {
		return hostBadInput("host: handler is nil", map[string]any{"event_id": subscription.ID})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[subscription.ID] = append(b.handlers[subscription.ID], handler)
	return nil
}

// HandleEvent runs every handler bound to eventID, one at a time, and
// returns their errors joined.
func (b *EventBus) HandleEvent(ctx context.Context, eventID string, payload any) error {
	if b == nil {
		return hostInternal("host: event bus is nil", nil)
	}
	b.mu.RLock()
	handlers := append([]core.EventHandler(nil), b.handlers[eventID]...)
	b.mu.RUnlock()
	if len(handlers) == 0 {
		return hostError(
			fmt.Sprintf("host: no handler bound to event %q", eventID),
			goerrors.CategoryNotFound,
			core.ErrorNotFound,
			map[string]any{"event_id": eventID},
		)
	}

	evt := core.Event{ID: eventID, Payload: payload}
	var errs []error
	for _, handler := range handlers {
		if err := execute(ctx, handler, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Bound returns how many handlers are bound to eventID.
func (b *EventBus) Bound(eventID string) int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventID])
}

func execute(ctx context.Context, handler core.EventHandler, evt core.Event) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = hostError(
				fmt.Sprintf("host: handler for %q panicked: %v", evt.ID, recovered),
				goerrors.CategoryInternal,
				core.ErrorHandlerFailed,
				map[string]any{"event_id": evt.ID},
			)
		}
	}()
	return handler.Execute(ctx, evt)
}
