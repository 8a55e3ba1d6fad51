package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/lucidwell/lucidwell-client/internal/types"
)

// ListEntries retrieves one page of journal entries. The backend paginates by
// offset, so the page is translated to skip/limit here. Marked retryable:
// transient failures back off and retry before surfacing.
func ListEntries(ctx context.Context, hc HTTPClient, baseURL string, page, pageSize int) (*types.JournalListResponse, error) {
	page, pageSize = types.ValidatePage(page, pageSize)
	skip := (page - 1) * pageSize
	u := fmt.Sprintf("%s/journal?skip=%d&limit=%d", baseURL, skip, pageSize)

	var lr types.JournalListResponse
	if err := sendWithRetry(ctx, hc, http.MethodGet, u, &lr, "list journal entries"); err != nil {
		return nil, err
	}
	return &lr, nil
}

// GetEntry retrieves a single journal entry by its server-assigned ID.
func GetEntry(ctx context.Context, hc HTTPClient, baseURL string, id int64) (*types.JournalEntry, error) {
	if err := types.ValidateEntryID(id, true); err != nil {
		return nil, err
	}
	var e types.JournalEntry
	u := fmt.Sprintf("%s/journal/%d", baseURL, id)
	if err := send(ctx, hc, http.MethodGet, u, nil, &e, "get journal entry"); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEntry creates a journal entry and returns the server's canonical
// version, including the assigned ID and computed sentiment.
func CreateEntry(ctx context.Context, hc HTTPClient, baseURL string, req types.CreateJournalEntryRequest) (*types.JournalEntry, error) {
	if err := types.ValidateContent(req.Content); err != nil {
		return nil, err
	}
	var e types.JournalEntry
	u := baseURL + "/journal"
	if err := send(ctx, hc, http.MethodPost, u, req, &e, "create journal entry"); err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateEntry applies a partial update and returns the canonical entry.
func UpdateEntry(ctx context.Context, hc HTTPClient, baseURL string, id int64, req types.UpdateJournalEntryRequest) (*types.JournalEntry, error) {
	if err := types.ValidateEntryID(id, true); err != nil {
		return nil, err
	}
	var e types.JournalEntry
	u := fmt.Sprintf("%s/journal/%d", baseURL, id)
	if err := send(ctx, hc, http.MethodPut, u, req, &e, "update journal entry"); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEntry removes a journal entry. The backend responds with an empty
// body on success.
func DeleteEntry(ctx context.Context, hc HTTPClient, baseURL string, id int64) error {
	if err := types.ValidateEntryID(id, true); err != nil {
		return err
	}
	u := fmt.Sprintf("%s/journal/%d", baseURL, id)
	return send(ctx, hc, http.MethodDelete, u, nil, nil, "delete journal entry")
}

// GetAnalytics retrieves aggregate journaling statistics. Retryable.
func GetAnalytics(ctx context.Context, hc HTTPClient, baseURL string) (*types.JournalAnalytics, error) {
	var a types.JournalAnalytics
	u := baseURL + "/journal/analytics"
	if err := sendWithRetry(ctx, hc, http.MethodGet, u, &a, "get journal analytics"); err != nil {
		return nil, err
	}
	return &a, nil
}

// SearchEntries runs a full-text search over the user's entries.
func SearchEntries(ctx context.Context, hc HTTPClient, baseURL, query string, page int) (*types.JournalListResponse, error) {
	page, _ = types.ValidatePage(page, 1)
	var lr types.JournalListResponse
	u := fmt.Sprintf("%s/journal/search?q=%s&page=%d", baseURL, url.QueryEscape(query), page)
	if err := send(ctx, hc, http.MethodGet, u, nil, &lr, "search journal entries"); err != nil {
		return nil, err
	}
	return &lr, nil
}
