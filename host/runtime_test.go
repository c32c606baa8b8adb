package host

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-services-teamwork/core"
)

func TestRuntime_RoutesDelegateAndWritesResult(t *testing.T) {
	runtime := New()
	delegate := &recordingDelegate{result: core.InboundResult{
		Handled:    true,
		StatusCode: http.StatusNotFound,
		Body:       core.ResponseBody{Text: "Error"},
	}}
	if err := runtime.RegisterHTTPDelegate("/webhooks/teamwork", delegate); err != nil {
		t.Fatalf("register delegate: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/webhooks/teamwork", strings.NewReader(`{"id":7}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Projects-Event", "TASK.CREATED")
	rec := httptest.NewRecorder()
	runtime.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"text":"Error"}` {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if len(delegate.requests) != 1 {
		t.Fatalf("expected one delegated request, got %d", len(delegate.requests))
	}
	got := delegate.requests[0]
	if got.Headers[core.EventHeader] != "TASK.CREATED" {
		t.Fatalf("expected lower-cased event header, got %#v", got.Headers)
	}
	payload, ok := got.Payload.(map[string]any)
	if !ok || payload["id"] != float64(7) {
		t.Fatalf("expected decoded payload, got %#v", got.Payload)
	}
}

func TestRuntime_RegisterHTTPDelegateRejectsDuplicatePath(t *testing.T) {
	runtime := New()
	if err := runtime.RegisterHTTPDelegate("/hook", &recordingDelegate{}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := runtime.RegisterHTTPDelegate("/hook", &recordingDelegate{})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.Category != goerrors.CategoryConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if err := runtime.RegisterHTTPDelegate("hook", &recordingDelegate{}); err == nil {
		t.Fatalf("expected relative path to be rejected")
	}
}

func TestRuntime_DelegateErrorStillWritesResult(t *testing.T) {
	runtime := New()
	delegate := &recordingDelegate{
		result: core.InboundResult{Handled: true, StatusCode: http.StatusOK},
		err:    errors.New("handler failed"),
	}
	if err := runtime.RegisterHTTPDelegate("/hook", delegate); err != nil {
		t.Fatalf("register delegate: %v", err)
	}
	rec := httptest.NewRecorder()
	runtime.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hook", strings.NewReader(`{}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRuntime_UnhandledResultFallsThroughToNotFound(t *testing.T) {
	runtime := New()
	if err := runtime.RegisterHTTPDelegate("/hook", &recordingDelegate{}); err != nil {
		t.Fatalf("register delegate: %v", err)
	}
	rec := httptest.NewRecorder()
	runtime.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hook", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRuntime_BodyLimitRejectsLargeDelivery(t *testing.T) {
	runtime := New(WithMaxBodyBytes(4))
	delegate := &recordingDelegate{}
	if err := runtime.RegisterHTTPDelegate("/hook", delegate); err != nil {
		t.Fatalf("register delegate: %v", err)
	}
	rec := httptest.NewRecorder()
	runtime.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hook", strings.NewReader(`{"large":true}`)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	if len(delegate.requests) != 0 {
		t.Fatalf("expected delegate not to run")
	}
}

func TestRuntime_HealthAndMetricsRoutes(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("teamwork_operations_total 1\n"))
	})
	runtime := New(WithMetricsHandler(metrics))

	rec := httptest.NewRecorder()
	runtime.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, HealthPath, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected health 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["status"] != "ok" {
		t.Fatalf("unexpected health body %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	runtime.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, MetricsPath, nil))
	if !strings.Contains(rec.Body.String(), "teamwork_operations_total") {
		t.Fatalf("expected metrics output, got %q", rec.Body.String())
	}
}

func TestRuntime_StartRunsComponentsOnce(t *testing.T) {
	runtime := New()
	component := &countingComponent{}
	runtime.Register(component)
	runtime.Register(nil)

	if err := runtime.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := runtime.Start(context.Background()); err != nil {
		t.Fatalf("second start: %v", err)
	}
	if component.starts != 1 {
		t.Fatalf("expected one start, got %d", component.starts)
	}
}

func TestRuntime_StartFailureAllowsRetry(t *testing.T) {
	runtime := New()
	component := &countingComponent{err: errors.New("boom")}
	runtime.Register(component)
	if err := runtime.Start(context.Background()); err == nil {
		t.Fatalf("expected start error")
	}
	component.err = nil
	if err := runtime.Start(context.Background()); err != nil {
		t.Fatalf("retry start: %v", err)
	}
	if component.starts != 2 {
		t.Fatalf("expected two attempts, got %d", component.starts)
	}
}

func TestRuntime_EndToEndWithConnector(t *testing.T) {
	runtime := New()
	connector, err := core.NewConnector(runtime, core.Config{Subdomain: "acme"},
		core.WithID("abc"),
		core.WithClientFactory(func(core.Config) (core.Client, error) { return stubClient{}, nil }),
	)
	if err != nil {
		t.Fatalf("new connector: %v", err)
	}

	var mu sync.Mutex
	var fired []core.Event
	handler := core.EventHandlerFunc(func(_ context.Context, evt core.Event) error {
		mu.Lock()
		defer mu.Unlock()
		fired = append(fired, evt)
		return nil
	})
	if _, err := connector.Subscribe(core.EventOptions{Type: core.EventProjectUpdated}, handler); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	runtime.Register(connector)
	if err := runtime.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, core.DefaultWebhookPath, strings.NewReader(`{"x":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Projects-Event", "PROJECT.UPDATED")
	rec := httptest.NewRecorder()
	runtime.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
	if len(fired) != 1 {
		t.Fatalf("expected one fire, got %d", len(fired))
	}
	if fired[0].ID != "Teamwork/PROJECT.UPDATED/abc" {
		t.Fatalf("unexpected event id %q", fired[0].ID)
	}
	payload, ok := fired[0].Payload.(map[string]any)
	if !ok || payload["x"] != float64(1) {
		t.Fatalf("unexpected payload %#v", fired[0].Payload)
	}
}

func TestRuntime_StartRejectsRelativeWebhookPath(t *testing.T) {
	runtime := New()
	connector, err := core.NewConnector(runtime, core.Config{WebhookPath: "hooks"},
		core.WithClientFactory(func(core.Config) (core.Client, error) { return stubClient{}, nil }),
	)
	if err != nil {
		t.Fatalf("new connector: %v", err)
	}
	handler := core.EventHandlerFunc(func(context.Context, core.Event) error { return nil })
	if _, err := connector.Subscribe(core.EventOptions{Type: core.EventTaskCreated}, handler); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	runtime.Register(connector)

	err = runtime.Start(context.Background())
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.TextCode != core.ErrorHostFailed {
		t.Fatalf("expected host registration failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "must start with /") {
		t.Fatalf("expected relative path rejection, got %v", err)
	}
	if connector.Registered() || connector.Phase() != core.PhaseSetup {
		t.Fatalf("expected connector left in setup after failed registration")
	}
}

type recordingDelegate struct {
	result   core.InboundResult
	err      error
	requests []core.InboundRequest
}

func (d *recordingDelegate) Handle(_ context.Context, req core.InboundRequest) (core.InboundResult, error) {
	d.requests = append(d.requests, req)
	return d.result, d.err
}

type countingComponent struct {
	starts int
	err    error
}

func (c *countingComponent) Start(context.Context) error {
	c.starts++
	return c.err
}

type stubClient struct{}

func (stubClient) BaseURL() string { return "https://acme.teamwork.com" }
func (stubClient) Do(context.Context, core.TransportRequest) (core.TransportResponse, error) {
	return core.TransportResponse{}, nil
}
func (stubClient) Get(context.Context, string, map[string]string, any) error { return nil }
func (stubClient) Post(context.Context, string, any, any) error              { return nil }
func (stubClient) Put(context.Context, string, any, any) error               { return nil }
func (stubClient) Delete(context.Context, string, any) error                 { return nil }
