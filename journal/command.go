package journal

import "github.com/lucidwell/lucidwell-client/internal/types"

// command is one optimistic local mutation with an explicit inverse. The
// pre-image is captured when the command is built, so revert restores the
// exact list the mutation saw, not whatever is current.
type command struct {
	op     string
	apply  func(s *Session)
	revert func(s *Session)
}

// insertCommand prepends a synthesized placeholder entry; its inverse removes
// the placeholder by ID.
func insertCommand(local types.JournalEntry) command {
	return command{
		op: "create",
		apply: func(s *Session) {
			s.entries = append([]types.JournalEntry{local}, s.entries...)
			s.total++
		},
		revert: func(s *Session) {
			// The placeholder can be gone already if a List refresh replaced
			// the mirror mid-flight; only undo the count when it was present.
			if s.removeByIDLocked(local.ID) {
				s.total--
			}
		},
	}
}

// patchCommand applies a typed partial update in place; its inverse restores
// the pre-mutation snapshot of the whole list.
func patchCommand(id int64, patch types.UpdateJournalEntryRequest, snap snapshot) command {
	return command{
		op: "update",
		apply: func(s *Session) {
			for i := range s.entries {
				if s.entries[i].ID == id {
					patch.ApplyTo(&s.entries[i])
					return
				}
			}
		},
		revert: func(s *Session) { s.restoreLocked(snap) },
	}
}

// removeCommand drops the entry immediately; its inverse restores the
// pre-mutation snapshot.
func removeCommand(id int64, snap snapshot) command {
	return command{
		op: "delete",
		apply: func(s *Session) {
			// Deleting an ID that is not in the local mirror (it may have come
			// from Get or Search) must not skew the count.
			if s.removeByIDLocked(id) {
				s.total--
			}
		},
		revert: func(s *Session) { s.restoreLocked(snap) },
	}
}

// snapshot is a deep-enough copy of the optimistic list state to restore it
// wholesale after a failed mutation.
type snapshot struct {
	entries []types.JournalEntry
	total   int
}

func (s *Session) snapshotLocked() snapshot {
	cp := make([]types.JournalEntry, len(s.entries))
	copy(cp, s.entries)
	return snapshot{entries: cp, total: s.total}
}

func (s *Session) restoreLocked(snap snapshot) {
	s.entries = snap.entries
	s.total = snap.total
}

// removeByIDLocked reports whether an entry was actually removed so callers
// can keep the total in step with the list.
func (s *Session) removeByIDLocked(id int64) bool {
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}
