package query

import (
	"context"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-services-teamwork/core"
)

func TestListSubscriptionsQuery_FiltersByEventType(t *testing.T) {
	reader := stubSubscriptionReader{subs: []core.EventConfiguration{
		{ID: "a", Options: core.EventOptions{Type: core.EventTaskCreated}},
		{ID: "b", Options: core.EventOptions{Type: core.EventTaskUpdated}},
		{ID: "c", Options: core.EventOptions{Type: core.EventTaskCreated}},
	}}
	q := NewListSubscriptionsQuery(reader)

	all, err := q.Query(context.Background(), ListSubscriptionsMessage{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 subscriptions, got %d", len(all))
	}

	created, err := q.Query(context.Background(), ListSubscriptionsMessage{EventType: core.EventTaskCreated})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(created) != 2 || created[0].ID != "a" || created[1].ID != "c" {
		t.Fatalf("unexpected filtered subscriptions %#v", created)
	}
}

func TestGetClientQuery_ReturnsConnectorClient(t *testing.T) {
	client := &stubClient{}
	got, err := NewGetClientQuery(stubClientReader{client: client}).Query(context.Background(), GetClientMessage{})
	if err != nil {
		t.Fatalf("get client: %v", err)
	}
	if got != core.Client(client) {
		t.Fatalf("expected connector client")
	}
}

func TestListEventTypesQuery(t *testing.T) {
	q := NewListEventTypesQuery()
	all, err := q.Query(context.Background(), ListEventTypesMessage{})
	if err != nil {
		t.Fatalf("list event types: %v", err)
	}
	if len(all) != len(core.KnownEventTypes()) {
		t.Fatalf("expected full catalog, got %d", len(all))
	}
	milestones, err := q.Query(context.Background(), ListEventTypesMessage{Entity: "milestone"})
	if err != nil {
		t.Fatalf("list milestone types: %v", err)
	}
	if len(milestones) == 0 {
		t.Fatalf("expected milestone event types")
	}
	for _, eventType := range milestones {
		if eventType.Entity() != "MILESTONE" {
			t.Fatalf("unexpected event type %q", eventType)
		}
	}
}

func TestQueries_NilReaderReturnsRichError(t *testing.T) {
	var list *ListSubscriptionsQuery
	_, err := list.Query(context.Background(), ListSubscriptionsMessage{})
	assertDependencyError(t, err)

	_, err = NewGetClientQuery(nil).Query(context.Background(), GetClientMessage{})
	assertDependencyError(t, err)
}

func assertDependencyError(t *testing.T, err error) {
	t.Helper()
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
	if rich.TextCode != core.ErrorInternal {
		t.Fatalf("expected %q text code, got %q", core.ErrorInternal, rich.TextCode)
	}
	if rich.Code != http.StatusInternalServerError {
		t.Fatalf("expected %d code, got %d", http.StatusInternalServerError, rich.Code)
	}
}

type stubSubscriptionReader struct {
	subs []core.EventConfiguration
}

func (s stubSubscriptionReader) Subscriptions() []core.EventConfiguration {
	return s.subs
}

type stubClientReader struct {
	client core.Client
}

func (s stubClientReader) SDK() core.Client {
	return s.client
}

type stubClient struct{}

func (*stubClient) BaseURL() string { return "" }
func (*stubClient) Do(context.Context, core.TransportRequest) (core.TransportResponse, error) {
	return core.TransportResponse{}, nil
}
func (*stubClient) Get(context.Context, string, map[string]string, any) error { return nil }
func (*stubClient) Post(context.Context, string, any, any) error              { return nil }
func (*stubClient) Put(context.Context, string, any, any) error               { return nil }
func (*stubClient) Delete(context.Context, string, any) error                 { return nil }
