package client

import "github.com/lucidwell/lucidwell-client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	// Requests
	CreateJournalEntryRequest = types.CreateJournalEntryRequest
	UpdateJournalEntryRequest = types.UpdateJournalEntryRequest
	UpdateSettingsRequest     = types.UpdateSettingsRequest

	// Domain entities
	JournalEntry = types.JournalEntry
	Question     = types.Question
	AnswerOption = types.AnswerOption
	UserSettings = types.UserSettings

	// Responses
	JournalListResponse  = types.JournalListResponse
	JournalAnalytics     = types.JournalAnalytics
	QuestionSetResponse  = types.QuestionSetResponse
	SyncSettingsResponse = types.SyncSettingsResponse
)

// DefaultSettings returns the product's fallback settings, the same values
// GetSettings serves when the backend is unreachable.
func DefaultSettings() *UserSettings { return types.DefaultSettings() }

// Errors re-exported in errors.go
