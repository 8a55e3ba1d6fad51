package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file makes every available knob
// discoverable at a glance.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/lucidwell/lucidwell-client/exam"
	"github.com/lucidwell/lucidwell-client/internal/dedupe"
)

// Option configures a Client during construction in New.
//
// Options are applied before the authorization transport wrapper is
// installed, so transport-related options (like debug logging) sit underneath
// the API-key wrapper. Options must be deterministic and side-effect free.
type Option func(*Client) error

// WithHTTPTimeout sets the underlying http.Client Timeout used by the SDK.
//
// Prefer per-request context deadlines where possible; this timeout is a
// coarse safety net bounding the total time spent on a single HTTP request.
// The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithHTTPClient replaces the SDK's http.Client entirely. The client's
// transport is still wrapped to add the Authorization header.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.http = hc
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged when enabled is true.
//
// Do not enable this option in production environments: it dumps full
// requests and responses, including headers and bodies.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.http.Transport = &debugTransport{base: c.http.Transport}
		}
		return nil
	}
}

// WithDedupeGroup injects the single-flight group used to coalesce duplicate
// reads. Sharing one group across clients shares their in-flight requests;
// tests inject a fresh group for isolation.
func WithDedupeGroup(g *dedupe.Group) Option {
	return func(c *Client) error {
		if g == nil {
			return fmt.Errorf("dedupe group must not be nil")
		}
		c.group = g
		return nil
	}
}

// WithExamStorage selects the persistence backend for exam session state.
// The default is in-memory; pass an exam.SQLiteStorage to survive restarts.
func WithExamStorage(s exam.Storage) Option {
	return func(c *Client) error {
		if s == nil {
			return fmt.Errorf("exam storage must not be nil")
		}
		c.examStorage = s
		return nil
	}
}

// WithExamOptions forwards store options (storage key, post-completion
// answer policy) to the exam store built by New.
func WithExamOptions(opts ...exam.StoreOption) Option {
	return func(c *Client) error {
		c.examOpts = append(c.examOpts, opts...)
		return nil
	}
}
