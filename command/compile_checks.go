package command

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-services-teamwork/core"
)

var (
	_ gocmd.Commander[SubscribeMessage]       = (*SubscribeCommand)(nil)
	_ gocmd.Commander[StartMessage]           = (*StartCommand)(nil)
	_ gocmd.Commander[DispatchWebhookMessage] = (*DispatchWebhookCommand)(nil)

	_ ConnectorService = (*core.Connector)(nil)
)
