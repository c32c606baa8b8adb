package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-services-teamwork/core"
)

var (
	_ gocmd.Querier[ListSubscriptionsMessage, []core.EventConfiguration] = (*ListSubscriptionsQuery)(nil)
	_ gocmd.Querier[GetClientMessage, core.Client]                       = (*GetClientQuery)(nil)
	_ gocmd.Querier[ListEventTypesMessage, []core.EventType]             = (*ListEventTypesQuery)(nil)

	_ SubscriptionReader = (*core.Connector)(nil)
	_ ClientReader       = (*core.Connector)(nil)
)
