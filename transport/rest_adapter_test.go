package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-services-teamwork/core"
)

func TestRESTAdapter_AppliesAuthHeadersAndQuery(t *testing.T) {
	var (
		gotUser, gotPass string
		gotAuthOK        bool
		gotQuery         string
		gotContentType   string
		gotCustom        string
		gotBody          string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotAuthOK = r.BasicAuth()
		gotQuery = r.URL.Query().Get("page")
		gotContentType = r.Header.Get("Content-Type")
		gotCustom = r.Header.Get("X-Custom")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Header().Set("X-Page", "1")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	adapter := NewRESTAdapter(server.Client())
	adapter.Auth = &BasicAuth{Username: "key", Password: "x"}

	res, err := adapter.Do(context.Background(), core.TransportRequest{
		Method:  "post",
		URL:     server.URL + "/projects.json",
		Query:   map[string]string{"page": "2"},
		Headers: map[string]string{"X-Custom": "yes"},
		Body:    []byte(`{"name":"demo"}`),
	})
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}
	if string(res.Body) != `{"ok":true}` {
		t.Fatalf("unexpected body %q", string(res.Body))
	}
	if res.Headers["X-Page"] != "1" {
		t.Fatalf("expected flattened response headers, got %#v", res.Headers)
	}
	if !gotAuthOK || gotUser != "key" || gotPass != "x" {
		t.Fatalf("expected basic auth key:x, got %q:%q (%v)", gotUser, gotPass, gotAuthOK)
	}
	if gotQuery != "2" {
		t.Fatalf("expected page query 2, got %q", gotQuery)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected json content type, got %q", gotContentType)
	}
	if gotCustom != "yes" {
		t.Fatalf("expected custom header, got %q", gotCustom)
	}
	if gotBody != `{"name":"demo"}` {
		t.Fatalf("expected request body forwarded, got %q", gotBody)
	}
}

func TestRESTAdapter_DefaultsToGet(t *testing.T) {
	method := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	adapter := NewRESTAdapter(server.Client())
	if _, err := adapter.Do(context.Background(), core.TransportRequest{URL: server.URL}); err != nil {
		t.Fatalf("do request: %v", err)
	}
	if method != http.MethodGet {
		t.Fatalf("expected GET, got %q", method)
	}
}
