// Package journal manages a local, optimistic view of the user's journal
// synchronized with the backend. Mutations apply to the in-memory list before
// the network round trip so callers see intent immediately; a failed round
// trip rolls the list back to exactly its pre-attempt shape and re-raises the
// error.
package journal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lucidwell/lucidwell-client/internal/api"
	"github.com/lucidwell/lucidwell-client/internal/dedupe"
	"github.com/lucidwell/lucidwell-client/internal/types"
)

// Session owns the optimistic entry list for one journal view.
//
// Invariants: entry IDs are unique within the list at any instant; an entry
// created optimistically never keeps its placeholder ID once its mutation
// settles: it is either swapped for the server entry or removed. Racing
// updates to one entry resolve last-settlement-wins; there is no conflict
// detection.
type Session struct {
	hc      api.HTTPClient
	baseURL string
	group   *dedupe.Group

	mu      sync.Mutex
	entries []types.JournalEntry
	total   int
	listKey string // dedupe key the local list mirrors, "" if never listed
	fresh   bool   // false once a mutation lands or before the first List
	tempSeq int64  // placeholder ID sequence, strictly negative
	lastErr error  // most recent read-path failure, cleared by a good read
}

// NewSession builds a Session around the shared HTTP client and dedupe group.
func NewSession(hc api.HTTPClient, baseURL string, group *dedupe.Group) *Session {
	return &Session{hc: hc, baseURL: baseURL, group: group}
}

// listCacheKey mirrors the backend pagination so each page collapses its own
// concurrent readers.
func listCacheKey(page, pageSize int) string {
	return fmt.Sprintf("journal-list-%d-%d", page, pageSize)
}

const analyticsCacheKey = "journal-analytics"

// ------------------------------
// Reads
// ------------------------------

// List returns one page of entries plus the total count. Concurrent calls
// for the same page share a single network request. The fetched page becomes
// the session's local list; while it stays fresh, repeat calls for the same
// page are served locally.
func (s *Session) List(ctx context.Context, page, pageSize int) ([]types.JournalEntry, int, error) {
	page, pageSize = types.ValidatePage(page, pageSize)
	key := listCacheKey(page, pageSize)

	s.mu.Lock()
	if s.fresh && s.listKey == key {
		out, total := s.copyLocked(), s.total
		s.mu.Unlock()
		return out, total, nil
	}
	s.mu.Unlock()

	lr, err := dedupe.DoTyped(ctx, s.group, key, func(ctx context.Context) (*types.JournalListResponse, error) {
		return api.ListEntries(ctx, s.hc, s.baseURL, page, pageSize)
	})
	if err != nil {
		s.setReadErr(err)
		return nil, 0, err
	}

	s.mu.Lock()
	s.entries = make([]types.JournalEntry, len(lr.Entries))
	copy(s.entries, lr.Entries)
	for i := range s.entries {
		s.entries[i].Tags = types.NormalizeTags(s.entries[i].Tags)
	}
	s.total = lr.Total
	s.listKey = key
	s.fresh = true
	s.lastErr = nil
	out, total := s.copyLocked(), s.total
	s.mu.Unlock()
	return out, total, nil
}

// Get fetches a single entry; it does not touch the optimistic list.
func (s *Session) Get(ctx context.Context, id int64) (*types.JournalEntry, error) {
	e, err := api.GetEntry(ctx, s.hc, s.baseURL, id)
	if err != nil {
		s.setReadErr(err)
		return nil, err
	}
	return e, nil
}

// Analytics returns aggregate journaling statistics, deduplicated across
// concurrent callers.
func (s *Session) Analytics(ctx context.Context) (*types.JournalAnalytics, error) {
	a, err := dedupe.DoTyped(ctx, s.group, analyticsCacheKey, func(ctx context.Context) (*types.JournalAnalytics, error) {
		return api.GetAnalytics(ctx, s.hc, s.baseURL)
	})
	if err != nil {
		s.setReadErr(err)
		return nil, err
	}
	return a, nil
}

// Search runs a full-text query. Results are not folded into the optimistic
// list; search is a transient view.
func (s *Session) Search(ctx context.Context, query string, page int) (*types.JournalListResponse, error) {
	lr, err := api.SearchEntries(ctx, s.hc, s.baseURL, query, page)
	if err != nil {
		s.setReadErr(err)
		return nil, err
	}
	return lr, nil
}

// ------------------------------
// Mutations (optimistic)
// ------------------------------

// Create synthesizes a placeholder entry, prepends it immediately, then
// issues the create. On success the placeholder is swapped in place for the
// server entry; on failure it is removed entirely and the error re-raised.
func (s *Session) Create(ctx context.Context, req types.CreateJournalEntryRequest) (*types.JournalEntry, error) {
	if err := types.ValidateContent(req.Content); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.tempSeq--
	local := synthesizeEntry(s.tempSeq, req)
	cmd := insertCommand(local)
	cmd.apply(s)
	s.mu.Unlock()

	saved, err := api.CreateEntry(ctx, s.hc, s.baseURL, req)
	if err != nil {
		s.rollback(cmd)
		return nil, err
	}

	s.mu.Lock()
	s.replaceByIDLocked(local.ID, *saved)
	s.invalidateLocked()
	s.mu.Unlock()
	return saved, nil
}

// Update applies the patch to the matching entry immediately, then issues the
// update. On success the entry is replaced with the server's canonical
// version; on failure the pre-mutation snapshot is restored and the error
// re-raised.
func (s *Session) Update(ctx context.Context, id int64, patch types.UpdateJournalEntryRequest) (*types.JournalEntry, error) {
	s.mu.Lock()
	cmd := patchCommand(id, patch, s.snapshotLocked())
	cmd.apply(s)
	s.mu.Unlock()

	saved, err := api.UpdateEntry(ctx, s.hc, s.baseURL, id, patch)
	if err != nil {
		s.rollback(cmd)
		return nil, err
	}

	s.mu.Lock()
	s.replaceByIDLocked(id, *saved)
	s.invalidateLocked()
	s.mu.Unlock()
	return saved, nil
}

// Delete removes the entry immediately, then issues the delete. On failure
// the pre-mutation snapshot is restored and the error re-raised.
func (s *Session) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	cmd := removeCommand(id, s.snapshotLocked())
	cmd.apply(s)
	s.mu.Unlock()

	if err := api.DeleteEntry(ctx, s.hc, s.baseURL, id); err != nil {
		s.rollback(cmd)
		return err
	}

	s.mu.Lock()
	s.invalidateLocked()
	s.mu.Unlock()
	return nil
}

// ------------------------------
// Local state accessors
// ------------------------------

// Entries returns a copy of the current optimistic list.
func (s *Session) Entries() []types.JournalEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Total returns the entry count as of the last sync, adjusted optimistically.
func (s *Session) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Err returns the most recent read-path failure, or nil. Write failures are
// not recorded here; they are returned to the caller after rollback.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ------------------------------
// Internals
// ------------------------------

// synthesizeEntry builds the full local placeholder: required fields from the
// request, zero defaults for everything the server will compute, and an empty
// tag list rather than nil so encoders and range loops behave.
func synthesizeEntry(tempID int64, req types.CreateJournalEntryRequest) types.JournalEntry {
	now := time.Now().UTC()
	return types.JournalEntry{
		ID:           tempID,
		Content:      req.Content,
		Title:        req.Title,
		Tags:         types.NormalizeTags(req.Tags),
		MoodScore:    req.MoodScore,
		EnergyLevel:  req.EnergyLevel,
		StressLevel:  req.StressLevel,
		PrivacyLevel: req.PrivacyLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *Session) rollback(cmd command) {
	s.mu.Lock()
	cmd.revert(s)
	s.mu.Unlock()
	rollbacksTotal.WithLabelValues(cmd.op).Inc()
	log.Warn().Str("op", cmd.op).Msg("journal: optimistic mutation rolled back")
}

// invalidateLocked marks cached list/aggregate reads stale after a mutation
// lands: the local mirror stops answering List, and any in-flight deduped
// reads stop accepting new joiners.
func (s *Session) invalidateLocked() {
	s.fresh = false
	if s.listKey != "" {
		s.group.Forget(s.listKey)
	}
	s.group.Forget(analyticsCacheKey)
}

// replaceByIDLocked swaps the entry with the given ID for repl, keeping its
// position in the list.
func (s *Session) replaceByIDLocked(id int64, repl types.JournalEntry) {
	repl.Tags = types.NormalizeTags(repl.Tags)
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i] = repl
			return
		}
	}
}

func (s *Session) copyLocked() []types.JournalEntry {
	out := make([]types.JournalEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Session) setReadErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
