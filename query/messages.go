package query

import "github.com/goliatone/go-services-teamwork/core"

const (
	TypeListSubscriptions = "teamwork.query.subscriptions.list"
	TypeGetClient         = "teamwork.query.client.get"
	TypeListEventTypes    = "teamwork.query.event_types.list"
)

// ListSubscriptionsMessage filters by event type when EventType is set.
type ListSubscriptionsMessage struct {
	EventType core.EventType
}

func (ListSubscriptionsMessage) Type() string { return TypeListSubscriptions }

type GetClientMessage struct{}

func (GetClientMessage) Type() string { return TypeGetClient }

// ListEventTypesMessage lists the catalog, optionally for one entity such as
// TASK or TASKLIST.
type ListEventTypesMessage struct {
	Entity string
}

func (ListEventTypesMessage) Type() string { return TypeListEventTypes }
