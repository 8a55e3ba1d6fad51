package types

import "time"

// ------------------------------
// Response Types
// ------------------------------

// JournalListResponse wraps the journal list and search endpoints.
type JournalListResponse struct {
	Entries  []JournalEntry `json:"entries"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// QuestionSetResponse wraps an assessment's question set.
type QuestionSetResponse struct {
	ExamID    string     `json:"exam_id"`
	Questions []Question `json:"questions"`
}

// SyncSettingsResponse acknowledges a settings sync.
type SyncSettingsResponse struct {
	LastSynced time.Time `json:"last_synced"`
}
