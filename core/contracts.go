package core

import (
	"context"
	"time"

	gocmd "github.com/goliatone/go-command"
	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// EventHandler receives events fired for a subscription.
type EventHandler = gocmd.Commander[Event]

// EventHandlerFunc adapts a plain function to EventHandler.
type EventHandlerFunc = gocmd.CommandFunc[Event]

// Host is the automation runtime the connector plugs into. It owns HTTP
// routing and handler invocation; the connector only tells it what to route.
type Host interface {
	RegisterHTTPDelegate(path string, delegate HTTPDelegate) error
	When(subscription *EventConfiguration, handler EventHandler) error
	HandleEvent(ctx context.Context, eventID string, payload any) error
}

type HTTPDelegate interface {
	Handle(ctx context.Context, req InboundRequest) (InboundResult, error)
}

type InboundRequest struct {
	Method     string
	Path       string
	Headers    map[string]string
	Body       []byte
	Payload    any
	ReceivedAt time.Time
	Metadata   map[string]any
}

// InboundResult is what a delegate reports back to the host. Handled tells
// the host no further routing is needed, independent of the status code.
type InboundResult struct {
	Handled    bool
	StatusCode int
	Body       any
	Metadata   map[string]any
}

type TransportRequest struct {
	Method   string
	URL      string
	Headers  map[string]string
	Query    map[string]string
	Body     []byte
	Metadata map[string]any
	Timeout  time.Duration
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

// Client is the authenticated handle to the Teamwork Projects API. Paths are
// relative to the tenant base URL.
type Client interface {
	BaseURL() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
	Get(ctx context.Context, path string, query map[string]string, out any) error
	Post(ctx context.Context, path string, in any, out any) error
	Put(ctx context.Context, path string, in any, out any) error
	Delete(ctx context.Context, path string, out any) error
}

type ClientFactory func(cfg Config) (Client, error)
