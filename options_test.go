package client

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/lucidwell/lucidwell-client/internal/dedupe"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestWithHTTPClientAndDebugLogging(t *testing.T) {
	// timeout option sets http timeout
	c := &Client{http: &http.Client{}}
	if err := WithHTTPTimeout(5 * time.Second)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.http.Timeout != 5*time.Second {
		t.Fatalf("http timeout not set")
	}
	if err := WithHTTPTimeout(0)(c); err == nil {
		t.Fatalf("zero timeout accepted")
	}

	// debug logging wraps transport; the base transport must still run
	var called bool
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return &http.Response{StatusCode: 200, Body: http.NoBody, Header: make(http.Header)}, nil
	})
	c2, err := New("http://example.com", "test-api-key",
		WithHTTPClient(&http.Client{Transport: rt}),
		WithDebugLogging(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = c2.Close() }()

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com", strings.NewReader(""))
	if _, err := c2.http.Do(req); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if !called {
		t.Fatalf("base transport not invoked")
	}
}

func TestWithDedupeGroup_SharedAcrossClients(t *testing.T) {
	g := dedupe.NewGroup()
	a, err := New("http://example.com", "k", WithDedupeGroup(g))
	if err != nil {
		t.Fatalf("New a: %v", err)
	}
	defer func() { _ = a.Close() }()
	b, err := New("http://example.com", "k", WithDedupeGroup(g))
	if err != nil {
		t.Fatalf("New b: %v", err)
	}
	defer func() { _ = b.Close() }()
	if a.group != g || b.group != g {
		t.Fatalf("injected group not used")
	}

	if _, err := New("http://example.com", "k", WithDedupeGroup(nil)); err == nil {
		t.Fatalf("nil group accepted")
	}
}

func TestWithExamOptions_Forwarded(t *testing.T) {
	c, err := New("http://example.com", "k",
		WithExamOptions(), // no-op is fine
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = c.Close() }()
	if c.exam == nil {
		t.Fatalf("exam store not built")
	}
}
