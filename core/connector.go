package core

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhaseRunning Phase = "running"
)

// ResponseBody is written when a delivery matches no subscription.
type ResponseBody struct {
	Text string `json:"text"`
}

var notFoundBody = ResponseBody{Text: "Error"}

// Connector exposes Teamwork webhooks and the Teamwork API client to a Host.
//
// Subscriptions are expected to be declared before Start. After Start the
// registry is frozen and Handle only reads it.
type Connector struct {
	id              string
	host            Host
	config          Config
	webhookPath     string
	client          Client
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorMapper     ErrorMapper

	mu         sync.RWMutex
	phase      Phase
	registered bool
	order      []string
	events     map[string]*EventConfiguration
}

type ConnectorDependencies struct {
	Logger          Logger
	LoggerProvider  LoggerProvider
	MetricsRecorder MetricsRecorder
	ErrorMapper     ErrorMapper
}

func NewConnector(host Host, cfg Config, opts ...Option) (*Connector, error) {
	builder := defaultConnectorBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("teamwork", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("teamwork"); named != nil {
			logger = glog.Ensure(named)
		}
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}

	if host == nil {
		return nil, badInputError("core: host is required", nil)
	}
	if builder.clientFactory == nil {
		return nil, badInputError("core: client factory is required", nil)
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	client, err := builder.clientFactory(finalConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	if client == nil {
		return nil, internalError("core: client factory returned nil client", nil)
	}

	id := builder.id
	if id == "" {
		id = newConnectorID()
	}

	return &Connector{
		id:              id,
		host:            host,
		config:          finalConfig,
		webhookPath:     finalConfig.EffectiveWebhookPath(),
		client:          client,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		errorMapper:     builder.errorMapper,
		phase:           PhaseSetup,
		events:          map[string]*EventConfiguration{},
	}, nil
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	if mapped := mapper(err); mapped != nil {
		return mapped
	}
	return err
}

func (c *Connector) ID() string {
	if c == nil {
		return ""
	}
	return c.id
}

func (c *Connector) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.config
}

func (c *Connector) WebhookPath() string {
	if c == nil {
		return ""
	}
	return c.webhookPath
}

func (c *Connector) Phase() Phase {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

func (c *Connector) Dependencies() ConnectorDependencies {
	if c == nil {
		return ConnectorDependencies{}
	}
	return ConnectorDependencies{
		Logger:          c.logger,
		LoggerProvider:  c.loggerProvider,
		MetricsRecorder: c.metricsRecorder,
		ErrorMapper:     c.errorMapper,
	}
}

// SDK returns the shared API client. Every call returns the same handle.
func (c *Connector) SDK() Client {
	if c == nil {
		return nil
	}
	return c.client
}

// Start registers the webhook path with the host when at least one
// subscription exists. The path is registered at most once.
func (c *Connector) Start(ctx context.Context) (err error) {
	if c == nil {
		return internalError("core: connector is nil", nil)
	}
	startedAt := time.Now()
	fields := map[string]any{"webhook_path": c.webhookPath}
	defer func() {
		c.observeOperation(ctx, startedAt, "start", err, fields)
	}()

	c.mu.Lock()
	count := len(c.events)
	fields["subscriptions"] = count
	if c.phase == PhaseRunning {
		c.mu.Unlock()
		fields["already_running"] = true
		return nil
	}
	c.phase = PhaseRunning
	c.mu.Unlock()

	if count == 0 {
		fields["registered"] = false
		return nil
	}
	if err := c.host.RegisterHTTPDelegate(c.webhookPath, c); err != nil {
		c.mu.Lock()
		c.phase = PhaseSetup
		c.mu.Unlock()
		return wrapError(err, goerrors.CategoryInternal, "core: register http delegate", ErrorHostFailed,
			map[string]any{"webhook_path": c.webhookPath})
	}
	c.mu.Lock()
	c.registered = true
	c.mu.Unlock()
	fields["registered"] = true
	return nil
}

// Registered reports whether Start handed the webhook path to the host.
func (c *Connector) Registered() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registered
}

// Subscribe is On with the default subscription id.
func (c *Connector) Subscribe(options EventOptions, handler EventHandler) (*EventConfiguration, error) {
	return c.On(options, handler, "")
}

// On stores a subscription for options.Type and binds handler to it on the
// host. The event type is not checked against the catalog. An empty eventID
// selects Teamwork/<type>/<connector id>; an existing id is overwritten. When
// the host refuses the binding the registry is left as it was.
func (c *Connector) On(options EventOptions, handler EventHandler, eventID string) (*EventConfiguration, error) {
	if c == nil {
		return nil, internalError("core: connector is nil", nil)
	}
	if eventID == "" {
		eventID = SubscriptionID(options.Type, c.id)
	}
	fields := map[string]any{
		"event_id":   eventID,
		"event_type": string(options.Type),
	}

	c.mu.Lock()
	if c.phase == PhaseRunning {
		c.mu.Unlock()
		c.logWarn(context.Background(), "teamwork subscription rejected, connector already started", fields)
		return nil, wrapError(ErrConnectorRunning, goerrors.CategoryConflict,
			"core: subscriptions must be declared before start", ErrorConnectorRunning, fields)
	}
	event := &EventConfiguration{
		ID:        eventID,
		Connector: c,
		Options:   options,
	}
	previous, replaced := c.events[eventID]
	if replaced {
		fields["replaced"] = true
	} else {
		c.order = append(c.order, eventID)
	}
	c.events[eventID] = event
	c.mu.Unlock()

	if err := c.host.When(event, handler); err != nil {
		c.rollback(eventID, previous, replaced)
		return nil, wrapError(err, goerrors.CategoryInternal, "core: bind event handler", ErrorHostFailed, fields)
	}
	c.logInfo(context.Background(), "teamwork subscription added", fields)
	return event, nil
}

// rollback undoes the registry write of a subscription the host did not bind.
func (c *Connector) rollback(eventID string, previous *EventConfiguration, replaced bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if replaced {
		c.events[eventID] = previous
		return
	}
	delete(c.events, eventID)
	for i, id := range c.order {
		if id == eventID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Subscriptions returns the registry in dispatch order.
func (c *Connector) Subscriptions() []EventConfiguration {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]EventConfiguration, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.events[id])
	}
	return out
}

// Handle dispatches one webhook delivery. Matching subscriptions are fired
// one after the other in registry order, each awaited before the next.
// A failing handler does not stop the loop; failures come back together as
// a *DispatchError. The result is always marked Handled.
func (c *Connector) Handle(ctx context.Context, req InboundRequest) (result InboundResult, err error) {
	if c == nil {
		return InboundResult{Handled: true, StatusCode: http.StatusInternalServerError}, internalError("core: connector is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	startedAt := time.Now()
	eventType := EventType(headerValue(req.Headers, EventHeader))
	fields := map[string]any{
		"event_type":   string(eventType),
		"webhook_path": c.webhookPath,
	}
	defer func() {
		fields["status_code"] = result.StatusCode
		c.observeOperation(ctx, startedAt, "dispatch", err, fields)
	}()

	payload := resolvePayload(req)
	matches := c.matching(eventType)
	fields["matched"] = len(matches)

	var failures []HandlerFailure
	for _, event := range matches {
		if fireErr := c.fire(ctx, event.ID, payload); fireErr != nil {
			failures = append(failures, HandlerFailure{SubscriptionID: event.ID, Err: fireErr})
			c.logError(ctx, "teamwork event handler failed", map[string]any{
				"connector_id": c.id,
				"event_id":     event.ID,
				"event_type":   string(eventType),
				"error":        fireErr.Error(),
			})
		}
	}

	if len(matches) == 0 {
		result = InboundResult{
			Handled:    true,
			StatusCode: http.StatusNotFound,
			Body:       notFoundBody,
		}
	} else {
		result = InboundResult{
			Handled:    true,
			StatusCode: http.StatusOK,
		}
	}
	result.Metadata = map[string]any{
		"connector_id": c.id,
		"event_type":   string(eventType),
		"matched":      len(matches),
		"failed":       len(failures),
	}

	if len(failures) > 0 {
		fields["failed"] = len(failures)
		return result, &DispatchError{
			EventType: eventType,
			Attempted: len(matches),
			Failures:  failures,
		}
	}
	return result, nil
}

func (c *Connector) fire(ctx context.Context, eventID string, payload any) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = newError("core: event handler panicked", goerrors.CategoryInternal, ErrorHandlerFailed,
				map[string]any{"event_id": eventID, "panic": recovered})
		}
	}()
	err = c.host.HandleEvent(ctx, eventID, payload)
	status := "success"
	if err != nil {
		status = "failure"
	}
	c.recordCounter(ctx, MetricEventsFired, 1, map[string]string{"status": status})
	return err
}

func (c *Connector) matching(eventType EventType) []*EventConfiguration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []*EventConfiguration{}
	for _, id := range c.order {
		event := c.events[id]
		if event.Options.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

func (c *Connector) mapError(err error) *goerrors.Error {
	if c == nil || c.errorMapper == nil || err == nil {
		return nil
	}
	return c.errorMapper(err)
}

// resolvePayload prefers a payload already decoded by the transport layer,
// then JSON, then the raw body.
func resolvePayload(req InboundRequest) any {
	if req.Payload != nil {
		return req.Payload
	}
	if len(req.Body) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(req.Body, &decoded); err == nil {
		return decoded
	}
	return append([]byte(nil), req.Body...)
}

func headerValue(headers map[string]string, key string) string {
	if value, ok := headers[key]; ok {
		return value
	}
	for existing, value := range headers {
		if strings.EqualFold(strings.TrimSpace(existing), key) {
			return value
		}
	}
	return ""
}
