package journal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lucidwell/lucidwell-client/internal/dedupe"
	"github.com/lucidwell/lucidwell-client/internal/types"
)

func newTestSession(t *testing.T, h http.Handler) (*Session, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewSession(srv.Client(), srv.URL, dedupe.NewGroup()), srv
}

func entryIDs(entries []types.JournalEntry) []int64 {
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func TestCreate_OptimisticThenConfirmed(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	s, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		var req types.CreateJournalEntryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(types.JournalEntry{ID: 101, Content: req.Content, Tags: req.Tags, SentimentScore: 0.3})
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		saved, err := s.Create(context.Background(), types.CreateJournalEntryRequest{Content: "optimism", Tags: []string{"am", "am"}})
		if err != nil || saved.ID != 101 {
			t.Errorf("create: saved=%+v err=%v", saved, err)
		}
	}()

	// Before the request settles the placeholder must already be visible,
	// with a negative ID and deduplicated tags.
	waitFor(t, func() bool { return len(s.Entries()) == 1 })
	local := s.Entries()[0]
	if local.ID >= 0 {
		t.Fatalf("placeholder id should be negative, got %d", local.ID)
	}
	if local.Content != "optimism" || len(local.Tags) != 1 {
		t.Fatalf("placeholder not synthesized from request: %+v", local)
	}

	close(release)
	<-done

	got := s.Entries()
	if len(got) != 1 || got[0].ID != 101 {
		t.Fatalf("placeholder not replaced: %+v", got)
	}
	if got[0].SentimentScore != 0.3 {
		t.Fatalf("server canonical entry not adopted: %+v", got[0])
	}
}

func TestCreate_RollbackRemovesPlaceholder(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	if _, err := s.Create(context.Background(), types.CreateJournalEntryRequest{Content: "doomed"}); err == nil {
		t.Fatal("expected create error")
	}
	if got := s.Entries(); len(got) != 0 {
		t.Fatalf("placeholder survived a failed create: %+v", got)
	}
	if s.Total() != 0 {
		t.Fatalf("total not rolled back: %d", s.Total())
	}
}

func TestCreate_PlaceholderIDsNeverCollide(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	for i := 0; i < 5; i++ {
		_, _ = s.Create(context.Background(), types.CreateJournalEntryRequest{Content: "x"})
	}
	// All failed, so the list is empty, but the sequence must keep moving.
	s.mu.Lock()
	seq := s.tempSeq
	s.mu.Unlock()
	if seq != -5 {
		t.Fatalf("placeholder sequence = %d, want -5", seq)
	}
}

func TestUpdate_OptimisticMergeThenCanonical(t *testing.T) {
	t.Parallel()
	mood := 9
	s, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(types.JournalEntry{ID: 4, Content: "kept", MoodScore: 9, SentimentScore: 0.8})
	}))
	s.entries = []types.JournalEntry{{ID: 4, Content: "kept", MoodScore: 2}}
	s.total = 1

	saved, err := s.Update(context.Background(), 4, types.UpdateJournalEntryRequest{MoodScore: &mood})
	if err != nil || saved.MoodScore != 9 {
		t.Fatalf("update: saved=%+v err=%v", saved, err)
	}
	got := s.Entries()[0]
	if got.SentimentScore != 0.8 {
		t.Fatalf("canonical entry not adopted: %+v", got)
	}
}

func TestUpdate_RollbackRestoresFields(t *testing.T) {
	t.Parallel()
	content := "rewritten"
	mood := 10
	s, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	s.entries = []types.JournalEntry{{ID: 4, Content: "original", MoodScore: 3, Tags: []string{"pm"}}}
	s.total = 1

	if _, err := s.Update(context.Background(), 4, types.UpdateJournalEntryRequest{Content: &content, MoodScore: &mood}); err == nil {
		t.Fatal("expected update error")
	}
	got := s.Entries()[0]
	if got.Content != "original" || got.MoodScore != 3 || len(got.Tags) != 1 {
		t.Fatalf("fields not restored: %+v", got)
	}
}

func TestDelete_OptimisticAndRollback(t *testing.T) {
	t.Parallel()
	var fail atomic.Bool
	fail.Store(true)
	s, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	s.entries = []types.JournalEntry{{ID: 1}, {ID: 2}, {ID: 3}}
	s.total = 3

	if err := s.Delete(context.Background(), 2); err == nil {
		t.Fatal("expected delete error")
	}
	if ids := entryIDs(s.Entries()); len(ids) != 3 || ids[1] != 2 {
		t.Fatalf("failed delete must restore the list: %v", ids)
	}

	fail.Store(false)
	if err := s.Delete(context.Background(), 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ids := entryIDs(s.Entries()); len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Fatalf("unexpected list after delete: %v", ids)
	}
	if s.Total() != 2 {
		t.Fatalf("total = %d, want 2", s.Total())
	}
}

func TestDelete_UnknownIDKeepsTotal(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	// The ID can come from Get or Search and never touch the local mirror.
	if err := s.Delete(context.Background(), 42); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if s.Total() != 0 {
		t.Fatalf("total skewed by delete of unmirrored entry: %d", s.Total())
	}
	if got := s.Entries(); len(got) != 0 {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestCreate_RollbackAfterMirrorRefreshKeepsTotal(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	s, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusInternalServerError)
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := s.Create(context.Background(), types.CreateJournalEntryRequest{Content: "doomed"}); err == nil {
			t.Error("expected create error")
		}
	}()
	waitFor(t, func() bool { return len(s.Entries()) == 1 })

	// A list refresh replaces the mirror while the create is in flight,
	// dropping the placeholder.
	s.mu.Lock()
	s.entries = []types.JournalEntry{{ID: 1, Content: "from server"}}
	s.total = 1
	s.mu.Unlock()

	close(release)
	<-done

	if s.Total() != 1 {
		t.Fatalf("rollback decremented a count it did not own: %d", s.Total())
	}
	if got := s.Entries(); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("refreshed mirror disturbed by rollback: %+v", got)
	}
}

// The final list must equal a naive "apply successful mutations in call
// order" model, whatever mix of outcomes the server produces.
func TestMutationSequence_MatchesNaiveModel(t *testing.T) {
	t.Parallel()
	var nextID int64 = 100
	var failNext atomic.Bool
	s, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failNext.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		switch r.Method {
		case http.MethodPost:
			id := atomic.AddInt64(&nextID, 1)
			var req types.CreateJournalEntryRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			_ = json.NewEncoder(w).Encode(types.JournalEntry{ID: id, Content: req.Content})
		case http.MethodPut:
			id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/journal/"), 10, 64)
			var req types.UpdateJournalEntryRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			e := types.JournalEntry{ID: id}
			req.ApplyTo(&e)
			_ = json.NewEncoder(w).Encode(e)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	ctx := context.Background()

	// create A (ok), create B (fail), create C (ok), delete A (ok),
	// update C (fail), update C (ok)
	a, err := s.Create(ctx, types.CreateJournalEntryRequest{Content: "A"})
	if err != nil {
		t.Fatalf("create A: %v", err)
	}
	failNext.Store(true)
	if _, err := s.Create(ctx, types.CreateJournalEntryRequest{Content: "B"}); err == nil {
		t.Fatal("create B should fail")
	}
	failNext.Store(false)
	c, err := s.Create(ctx, types.CreateJournalEntryRequest{Content: "C"})
	if err != nil {
		t.Fatalf("create C: %v", err)
	}
	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete A: %v", err)
	}
	edited := "C2"
	failNext.Store(true)
	if _, err := s.Update(ctx, c.ID, types.UpdateJournalEntryRequest{Content: &edited}); err == nil {
		t.Fatal("first update C should fail")
	}
	failNext.Store(false)
	if _, err := s.Update(ctx, c.ID, types.UpdateJournalEntryRequest{Content: &edited}); err != nil {
		t.Fatalf("update C: %v", err)
	}

	got := s.Entries()
	if len(got) != 1 || got[0].ID != c.ID || got[0].Content != "C2" {
		t.Fatalf("list diverged from naive model: %+v", got)
	}
}

func TestList_DeduplicatesAndCachesLocally(t *testing.T) {
	t.Parallel()
	var hits int32
	s, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_ = json.NewEncoder(w).Encode(types.JournalListResponse{
			Entries: []types.JournalEntry{{ID: 1, Content: "hello"}},
			Total:   1, Page: 1, PageSize: 10,
		})
	}))

	ctx := context.Background()
	if _, _, err := s.List(ctx, 1, 10); err != nil {
		t.Fatalf("list: %v", err)
	}
	// Second call for the same page is served from the fresh local mirror.
	entries, total, err := s.List(ctx, 1, 10)
	if err != nil || total != 1 || len(entries) != 1 {
		t.Fatalf("second list: entries=%v total=%d err=%v", entries, total, err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("server hit %d times, want 1", hits)
	}
}

func TestMutation_InvalidatesListCache(t *testing.T) {
	t.Parallel()
	var listHits int32
	s, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			atomic.AddInt32(&listHits, 1)
			_ = json.NewEncoder(w).Encode(types.JournalListResponse{Total: 1})
		case http.MethodPost:
			_ = json.NewEncoder(w).Encode(types.JournalEntry{ID: 50, Content: "new"})
		}
	}))

	ctx := context.Background()
	_, _, _ = s.List(ctx, 1, 10)
	if _, err := s.Create(ctx, types.CreateJournalEntryRequest{Content: "new"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	// The mutation marked the mirror stale, so this List refetches.
	_, _, _ = s.List(ctx, 1, 10)
	if atomic.LoadInt32(&listHits) != 2 {
		t.Fatalf("list fetched %d times, want 2 (cache invalidated)", listHits)
	}
}

func TestList_ErrorRecordedAsState(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	if _, _, err := s.List(context.Background(), 1, 10); err == nil {
		t.Fatal("expected list error")
	}
	if s.Err() == nil {
		t.Fatal("read failure should be recorded on the session")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	for i := 0; i < 500; i++ {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never became true")
}
