// Package teamwork connects Teamwork webhooks and the Teamwork API to an
// automation host. Most callers only need NewConnector, a core.Host such as
// host.Runtime, and Subscribe.
package teamwork

import (
	"github.com/goliatone/go-services-teamwork/client"
	"github.com/goliatone/go-services-teamwork/core"
)

type Config = core.Config

type Option = core.Option

type Connector = core.Connector

type ConnectorDependencies = core.ConnectorDependencies

type Host = core.Host

type HTTPDelegate = core.HTTPDelegate
type InboundRequest = core.InboundRequest
type InboundResult = core.InboundResult

type Event = core.Event
type EventType = core.EventType
type EventOptions = core.EventOptions
type EventConfiguration = core.EventConfiguration
type EventHandler = core.EventHandler
type EventHandlerFunc = core.EventHandlerFunc

type Client = core.Client

type DispatchError = core.DispatchError

const (
	DefaultWebhookPath = core.DefaultWebhookPath
	EventHeader        = core.EventHeader
)

var (
	WithID              = core.WithID
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithErrorMapper     = core.WithErrorMapper
	WithConfigProvider  = core.WithConfigProvider
	WithOptionsResolver = core.WithOptionsResolver
	WithClientFactory   = core.WithClientFactory

	ErrConnectorRunning = core.ErrConnectorRunning
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// NewConnector builds a connector backed by the REST API client. A
// WithClientFactory option replaces the default client.
func NewConnector(host Host, cfg Config, opts ...Option) (*Connector, error) {
	all := make([]Option, 0, len(opts)+1)
	all = append(all, core.WithClientFactory(client.Factory()))
	all = append(all, opts...)
	return core.NewConnector(host, cfg, all...)
}
