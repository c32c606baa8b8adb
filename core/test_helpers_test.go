package core

import (
	"context"
	"sync"
)

type capturedCounter struct {
	name  string
	value int64
	tags  map[string]string
}

type capturedHistogram struct {
	name  string
	value float64
	tags  map[string]string
}

type captureMetricsRecorder struct {
	mu         sync.Mutex
	counters   []capturedCounter
	histograms []capturedHistogram
}

func (m *captureMetricsRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, capturedCounter{name: name, value: value, tags: cloneTags(tags)})
}

func (m *captureMetricsRecorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms = append(m.histograms, capturedHistogram{name: name, value: value, tags: cloneTags(tags)})
}

type capturedLog struct {
	level  string
	msg    string
	fields map[string]any
}

type captureLogger struct {
	mu       *sync.Mutex
	records  *[]capturedLog
	defaults map[string]any
}

func newCaptureLogger() *captureLogger {
	records := []capturedLog{}
	return &captureLogger{mu: &sync.Mutex{}, records: &records, defaults: map[string]any{}}
}

func (l *captureLogger) WithFields(fields map[string]any) Logger {
	merged := cloneFields(l.defaults)
	for key, value := range fields {
		merged[key] = value
	}
	return &captureLogger{mu: l.mu, records: l.records, defaults: merged}
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) Logger {
	return &captureLogger{mu: l.mu, records: l.records, defaults: cloneFields(l.defaults)}
}

func (l *captureLogger) record(level string, msg string, args ...any) {
	fields := cloneFields(l.defaults)
	for index := 0; index+1 < len(args); index += 2 {
		key, ok := args[index].(string)
		if !ok {
			continue
		}
		fields[key] = args[index+1]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.records = append(*l.records, capturedLog{level: level, msg: msg, fields: fields})
}

func (l *captureLogger) snapshot() []capturedLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := *l.records
	out := make([]capturedLog, len(items))
	copy(out, items)
	return out
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type registeredDelegate struct {
	path     string
	delegate HTTPDelegate
}

type firedEvent struct {
	id      string
	payload any
}

// spyHost keeps handlers by event id and invokes them in bind order.
type spyHost struct {
	mu          sync.Mutex
	registered  []registeredDelegate
	handlers    map[string][]EventHandler
	fired       []firedEvent
	registerErr error
	whenErr     error
}

func newSpyHost() *spyHost {
	return &spyHost{handlers: map[string][]EventHandler{}}
}

func (h *spyHost) RegisterHTTPDelegate(path string, delegate HTTPDelegate) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.registerErr != nil {
		return h.registerErr
	}
	h.registered = append(h.registered, registeredDelegate{path: path, delegate: delegate})
	return nil
}

func (h *spyHost) When(subscription *EventConfiguration, handler EventHandler) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.whenErr != nil {
		return h.whenErr
	}
	h.handlers[subscription.ID] = append(h.handlers[subscription.ID], handler)
	return nil
}

func (h *spyHost) HandleEvent(ctx context.Context, eventID string, payload any) error {
	h.mu.Lock()
	h.fired = append(h.fired, firedEvent{id: eventID, payload: payload})
	handlers := append([]EventHandler(nil), h.handlers[eventID]...)
	h.mu.Unlock()
	for _, handler := range handlers {
		if err := handler.Execute(ctx, Event{ID: eventID, Payload: payload}); err != nil {
			return err
		}
	}
	return nil
}

func (h *spyHost) registrations() []registeredDelegate {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]registeredDelegate(nil), h.registered...)
}

func (h *spyHost) fires() []firedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]firedEvent(nil), h.fired...)
}

type stubClient struct {
	baseURL string
}

func (c *stubClient) BaseURL() string { return c.baseURL }
func (c *stubClient) Do(context.Context, TransportRequest) (TransportResponse, error) {
	return TransportResponse{}, nil
}
func (c *stubClient) Get(context.Context, string, map[string]string, any) error { return nil }
func (c *stubClient) Post(context.Context, string, any, any) error              { return nil }
func (c *stubClient) Put(context.Context, string, any, any) error               { return nil }
func (c *stubClient) Delete(context.Context, string, any) error                 { return nil }

func stubClientFactory(cfg Config) (Client, error) {
	return &stubClient{baseURL: cfg.BaseURL()}, nil
}

func noopHandler() EventHandler {
	return EventHandlerFunc(func(context.Context, Event) error { return nil })
}

func newTestConnector(host Host, opts ...Option) (*Connector, error) {
	base := []Option{WithID("abc"), WithClientFactory(stubClientFactory)}
	return NewConnector(host, Config{APIKey: "key", Subdomain: "acme"}, append(base, opts...)...)
}

func webhookRequest(eventType string, body string) InboundRequest {
	return InboundRequest{
		Method:  "POST",
		Path:    DefaultWebhookPath,
		Headers: map[string]string{EventHeader: eventType},
		Body:    []byte(body),
	}
}

func hasCounter(items []capturedCounter, name string, status string) bool {
	for _, item := range items {
		if item.name == name && item.tags["status"] == status {
			return true
		}
	}
	return false
}

func hasHistogram(items []capturedHistogram, name string, status string) bool {
	for _, item := range items {
		if item.name == name && item.tags["status"] == status {
			return true
		}
	}
	return false
}

func hasLog(items []capturedLog, level string, message string) bool {
	for _, item := range items {
		if item.level == level && item.msg == message {
			return true
		}
	}
	return false
}
