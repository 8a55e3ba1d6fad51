// Package client is the Go SDK for the Lucidwell wellness backend. It bundles
// the journal session (optimistic CRUD with rollback), the persisted exam
// session store, deduplicated reads, and the settings endpoints behind one
// handle.
package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lucidwell/lucidwell-client/exam"
	"github.com/lucidwell/lucidwell-client/internal/api"
	"github.com/lucidwell/lucidwell-client/internal/dedupe"
	"github.com/lucidwell/lucidwell-client/internal/persistqueue"
	"github.com/lucidwell/lucidwell-client/journal"
)

// Client is the entry point of the SDK. Construct with New, release with
// Close.
type Client struct {
	baseURL string
	http    *http.Client
	apiKey  string

	group       *dedupe.Group
	queue       *persistqueue.Queue
	examStorage exam.Storage
	examOpts    []exam.StoreOption

	journal *journal.Session
	exam    *exam.Store

	closedOnce uint32
}

// New constructs a Client for the backend at baseURL, authenticating every
// request with apiKey. Additional knobs are applied via functional options.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}

	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.group == nil {
		c.group = dedupe.NewGroup()
	}
	if c.queue == nil {
		c.queue = newDefaultQueue()
	}
	if c.examStorage == nil {
		c.examStorage = exam.NewMemoryStorage()
	}

	// Wrap the transport last so the Authorization header applies on top of
	// any transport installed by options.
	c.wrapTransportWithAPIKey()

	c.journal = journal.NewSession(c.http, c.baseURL, c.group)
	c.exam = exam.NewStore(c.examStorage,
		append([]exam.StoreOption{exam.WithQueue(c.queue)}, c.examOpts...)...)

	return c, nil
}

// wrapTransportWithAPIKey wraps the HTTP client's transport so every request
// carries the Authorization header.
func (c *Client) wrapTransportWithAPIKey() {
	baseTransport := c.http.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	c.http.Transport = &apiKeyTransport{
		base:   baseTransport,
		apiKey: c.apiKey,
	}
}

// apiKeyTransport adds a Bearer Authorization header to each request.
type apiKeyTransport struct {
	base   http.RoundTripper
	apiKey string
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone so the caller's request is not mutated.
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+t.apiKey)
	return t.base.RoundTrip(cloned)
}

// Close flushes any pending exam state writes and stops the background queue.
// Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	var err error
	if c.exam != nil {
		err = c.exam.Flush(context.Background())
	}
	if c.queue != nil {
		c.queue.Stop()
	}
	return err
}

// AwaitDurability blocks until every exam snapshot submitted so far has been
// written to storage.
func (c *Client) AwaitDurability(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.exam.Flush(ctx)
}

// newDefaultQueue builds the persist queue from LWQ_* environment overrides,
// falling back to defaults when the environment is unset or malformed.
func newDefaultQueue() *persistqueue.Queue {
	cfg, err := persistqueue.LoadConfig()
	if err != nil {
		log.Warn().Err(err).Msg("persist queue env config invalid, using defaults")
		cfg = persistqueue.Config{}
	}
	return persistqueue.NewQueue(cfg)
}

// --------------------------------------------------------------------
// Journal operations
// --------------------------------------------------------------------

// Journal returns the journal session: the locally mirrored entry list with
// optimistic create/update/delete.
func (c *Client) Journal() *journal.Session {
	return c.journal
}

// JournalAnalytics retrieves aggregate journal statistics. Concurrent calls
// share one in-flight request.
func (c *Client) JournalAnalytics(ctx context.Context) (*JournalAnalytics, error) {
	return c.journal.Analytics(ctx)
}

// SearchJournal runs a server-side full-text search over journal entries.
func (c *Client) SearchJournal(ctx context.Context, query string, page int) (*JournalListResponse, error) {
	return c.journal.Search(ctx, query, page)
}

// --------------------------------------------------------------------
// Exam operations
// --------------------------------------------------------------------

// Exam returns the persisted exam session store. Call Hydrate on it before
// reading if a previous session should be restored.
func (c *Client) Exam() *exam.Store {
	return c.exam
}

// QuestionSet fetches the ordered question set for an exam instance.
func (c *Client) QuestionSet(ctx context.Context, examID string) (*QuestionSetResponse, error) {
	return api.GetQuestionSet(ctx, c.http, c.baseURL, examID)
}

// StartExam fetches the question set for examID and loads it into the exam
// store in one step.
func (c *Client) StartExam(ctx context.Context, examID string) error {
	resp, err := api.GetQuestionSet(ctx, c.http, c.baseURL, examID)
	if err != nil {
		return err
	}
	c.exam.LoadQuestions(resp.Questions, resp.ExamID)
	return nil
}

// --------------------------------------------------------------------
// Settings operations
// --------------------------------------------------------------------

// settingsReadKey collapses concurrent settings reads into one request.
const settingsReadKey = "settings"

// GetSettings returns the user's settings. Concurrent calls share a single
// network request. On any failure it returns the product defaults, never an
// error, so callers always have something to render.
func (c *Client) GetSettings(ctx context.Context) *UserSettings {
	s, err := dedupe.DoTyped(ctx, c.group, settingsReadKey, func(ctx context.Context) (*UserSettings, error) {
		return api.GetSettings(ctx, c.http, c.baseURL), nil
	})
	if err != nil || s == nil {
		// Only a cancelled joiner lands here; the producer itself never fails.
		return DefaultSettings()
	}
	return s
}

// UpdateSettings applies a partial settings change and returns the full
// updated settings. A successful update detaches any in-flight settings read
// so late joiners do not adopt the pre-update view.
func (c *Client) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*UserSettings, error) {
	s, err := api.UpdateSettings(ctx, c.http, c.baseURL, req)
	if err == nil {
		c.group.Forget(settingsReadKey)
	}
	return s, err
}

// SyncSettings forces a server-side settings sync and reports when it ran.
func (c *Client) SyncSettings(ctx context.Context) (*SyncSettingsResponse, error) {
	return api.SyncSettings(ctx, c.http, c.baseURL)
}
