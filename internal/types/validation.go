package types

import "fmt"

// ------------------------------
// Shared Validation
// ------------------------------

// ValidateEntryID rejects the zero ID; negative IDs are legal locally
// (optimistic placeholders) but must never reach the wire.
func ValidateEntryID(id int64, wire bool) error {
	if id == 0 {
		return fmt.Errorf("entry id must be non-zero")
	}
	if wire && id < 0 {
		return fmt.Errorf("entry id %d is a local placeholder", id)
	}
	return nil
}

// ValidateContent enforces the only hard field requirement on entries.
func ValidateContent(content string) error {
	if content == "" {
		return fmt.Errorf("content is required")
	}
	return nil
}

// ValidatePage normalizes pagination arguments, applying defaults for
// non-positive values.
func ValidatePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return page, pageSize
}

// NormalizeTags preserves insertion order and drops duplicates.
func NormalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tg := range tags {
		if _, dup := seen[tg]; dup {
			continue
		}
		seen[tg] = struct{}{}
		out = append(out, tg)
	}
	return out
}
