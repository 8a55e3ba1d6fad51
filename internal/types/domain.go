package types

import "time"

// ------------------------------
// Core Domain Entities
// ------------------------------

// JournalEntry represents one journal entry. Entries created optimistically
// on the client carry a negative placeholder ID until the server assigns one.
type JournalEntry struct {
	ID             int64     `json:"id"`
	Content        string    `json:"content"`
	Title          string    `json:"title,omitempty"`
	Tags           []string  `json:"tags"`
	MoodScore      int       `json:"mood_score,omitempty"`
	EnergyLevel    int       `json:"energy_level,omitempty"`
	StressLevel    int       `json:"stress_level,omitempty"`
	SentimentScore float64   `json:"sentiment_score,omitempty"`
	PrivacyLevel   string    `json:"privacy_level,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// JournalAnalytics aggregates journaling activity for the dashboard.
type JournalAnalytics struct {
	TotalEntries     int      `json:"total_entries"`
	AverageSentiment *float64 `json:"average_sentiment,omitempty"`
	MostCommonMood   string   `json:"most_common_mood,omitempty"`
	StreakDays       int      `json:"streak_days"`
}

// Question is a single assessment question with its answer scale.
type Question struct {
	ID       int64          `json:"id"`
	Text     string         `json:"text"`
	Category string         `json:"category,omitempty"`
	Options  []AnswerOption `json:"options,omitempty"`
}

// AnswerOption is one selectable value on a question's scale.
type AnswerOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// UserSettings holds the user's preferences as stored by the backend.
type UserSettings struct {
	Theme         string                `json:"theme"`
	Notifications NotificationSettings  `json:"notifications"`
	Privacy       PrivacySettings       `json:"privacy"`
	Accessibility AccessibilitySettings `json:"accessibility"`
	Sync          SyncSettings          `json:"sync"`
}

type NotificationSettings struct {
	Enabled   bool   `json:"enabled"`
	Email     bool   `json:"email"`
	Push      bool   `json:"push"`
	Frequency string `json:"frequency"`
}

type PrivacySettings struct {
	ShareAnalytics    bool `json:"share_analytics"`
	DataRetentionDays int  `json:"data_retention_days"`
}

type AccessibilitySettings struct {
	HighContrast  bool   `json:"high_contrast"`
	ReducedMotion bool   `json:"reduced_motion"`
	FontSize      string `json:"font_size"`
}

type SyncSettings struct {
	Enabled    bool       `json:"enabled"`
	LastSynced *time.Time `json:"last_synced"`
}

// DefaultSettings is the fallback used when the settings endpoint is
// unavailable; the settings view degrades to these rather than erroring.
func DefaultSettings() *UserSettings {
	return &UserSettings{
		Theme: "system",
		Notifications: NotificationSettings{
			Enabled:   true,
			Email:     true,
			Push:      false,
			Frequency: "daily",
		},
		Privacy: PrivacySettings{
			ShareAnalytics:    true,
			DataRetentionDays: 365,
		},
		Accessibility: AccessibilitySettings{
			HighContrast:  false,
			ReducedMotion: false,
			FontSize:      "medium",
		},
		Sync: SyncSettings{Enabled: true},
	}
}
