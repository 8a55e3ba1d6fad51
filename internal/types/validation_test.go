package types

import (
	"reflect"
	"testing"
)

func TestValidateEntryID(t *testing.T) {
	t.Parallel()
	if err := ValidateEntryID(0, false); err == nil {
		t.Fatal("zero id should be rejected")
	}
	if err := ValidateEntryID(-5, false); err != nil {
		t.Fatalf("local placeholder should be legal off the wire: %v", err)
	}
	if err := ValidateEntryID(-5, true); err == nil {
		t.Fatal("placeholder id must not reach the wire")
	}
	if err := ValidateEntryID(12, true); err != nil {
		t.Fatalf("server id rejected: %v", err)
	}
}

func TestValidatePage_Defaults(t *testing.T) {
	t.Parallel()
	p, ps := ValidatePage(0, -3)
	if p != 1 || ps != 10 {
		t.Fatalf("got page=%d pageSize=%d", p, ps)
	}
	p, ps = ValidatePage(3, 25)
	if p != 3 || ps != 25 {
		t.Fatalf("valid values changed: page=%d pageSize=%d", p, ps)
	}
}

func TestNormalizeTags(t *testing.T) {
	t.Parallel()
	got := NormalizeTags([]string{"calm", "sleep", "calm", "work", "sleep"})
	want := []string{"calm", "sleep", "work"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if got := NormalizeTags(nil); got == nil || len(got) != 0 {
		t.Fatalf("nil tags should normalize to empty slice, got %v", got)
	}
}

func TestUpdateRequest_ApplyTo(t *testing.T) {
	t.Parallel()
	content := "rewrote the morning pages"
	mood := 7
	e := JournalEntry{ID: 4, Content: "old", MoodScore: 3, Tags: []string{"am"}}
	patch := UpdateJournalEntryRequest{Content: &content, MoodScore: &mood}
	patch.ApplyTo(&e)
	if e.Content != content || e.MoodScore != mood {
		t.Fatalf("patch not applied: %+v", e)
	}
	if !reflect.DeepEqual(e.Tags, []string{"am"}) {
		t.Fatalf("nil tag patch must leave tags alone: %v", e.Tags)
	}
	if e.ID != 4 {
		t.Fatalf("id must never be patched")
	}
}
