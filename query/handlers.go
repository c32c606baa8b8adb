package query

import (
	"context"
	"strings"

	"github.com/goliatone/go-services-teamwork/core"
)

type SubscriptionReader interface {
	Subscriptions() []core.EventConfiguration
}

type ClientReader interface {
	SDK() core.Client
}

type ListSubscriptionsQuery struct {
	reader SubscriptionReader
}

func NewListSubscriptionsQuery(reader SubscriptionReader) *ListSubscriptionsQuery {
	return &ListSubscriptionsQuery{reader: reader}
}

func (q *ListSubscriptionsQuery) Query(
	_ context.Context,
	msg ListSubscriptionsMessage,
) ([]core.EventConfiguration, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: subscription reader is required")
	}
	all := q.reader.Subscriptions()
	if strings.TrimSpace(string(msg.EventType)) == "" {
		return all, nil
	}
	out := make([]core.EventConfiguration, 0, len(all))
	for _, sub := range all {
		if sub.Options.Type == msg.EventType {
			out = append(out, sub)
		}
	}
	return out, nil
}

type GetClientQuery struct {
	reader ClientReader
}

func NewGetClientQuery(reader ClientReader) *GetClientQuery {
	return &GetClientQuery{reader: reader}
}

func (q *GetClientQuery) Query(_ context.Context, _ GetClientMessage) (core.Client, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: client reader is required")
	}
	return q.reader.SDK(), nil
}

type ListEventTypesQuery struct{}

func NewListEventTypesQuery() *ListEventTypesQuery {
	return &ListEventTypesQuery{}
}

func (q *ListEventTypesQuery) Query(_ context.Context, msg ListEventTypesMessage) ([]core.EventType, error) {
	if strings.TrimSpace(msg.Entity) == "" {
		return core.KnownEventTypes(), nil
	}
	return core.EventTypesForEntity(msg.Entity), nil
}
