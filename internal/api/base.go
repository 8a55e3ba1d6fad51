package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	sdkerrors "github.com/lucidwell/lucidwell-client/internal/errors"
)

// HTTPClient interface for dependency injection.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxReadRetries bounds backoff retries on read paths marked retryable.
const maxReadRetries = 3

// send performs one JSON round trip. A non-2xx status or transport failure
// comes back as a *ClassifiedError; when out is non-nil the body is decoded
// into it.
func send(ctx context.Context, hc HTTPClient, method, url string, in, out any, operation string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return sdkerrors.Network(operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return sdkerrors.FromStatus(operation, resp.StatusCode, string(b))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// sendWithRetry wraps send with exponential backoff for idempotent reads.
// Irrecoverable failures (and context cancellation) stop the retry loop
// immediately; everything else is retried up to maxReadRetries times.
func sendWithRetry(ctx context.Context, hc HTTPClient, method, url string, out any, operation string) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 100 * time.Millisecond
	exp.MaxInterval = 2 * time.Second

	op := func() error {
		err := send(ctx, hc, method, url, nil, out, operation)
		if err == nil {
			return nil
		}
		if sdkerrors.IsIrrecoverable(err) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(exp, maxReadRetries), ctx))
}
