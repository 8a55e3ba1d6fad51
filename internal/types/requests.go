package types

// ------------------------------
// Request Types
// ------------------------------

// CreateJournalEntryRequest holds parameters for a new journal entry.
type CreateJournalEntryRequest struct {
	Content      string   `json:"content"`
	Title        string   `json:"title,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	PrivacyLevel string   `json:"privacy_level,omitempty"`
	MoodScore    int      `json:"mood_score,omitempty"`
	EnergyLevel  int      `json:"energy_level,omitempty"`
	StressLevel  int      `json:"stress_level,omitempty"`
}

// UpdateJournalEntryRequest is a partial update. Nil pointer fields are left
// unchanged; the set of patchable fields is exactly what ApplyTo enumerates.
type UpdateJournalEntryRequest struct {
	Content      *string  `json:"content,omitempty"`
	Title        *string  `json:"title,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	PrivacyLevel *string  `json:"privacy_level,omitempty"`
	MoodScore    *int     `json:"mood_score,omitempty"`
	EnergyLevel  *int     `json:"energy_level,omitempty"`
	StressLevel  *int     `json:"stress_level,omitempty"`
}

// ApplyTo merges the patch into e, field by field. Unknown or server-owned
// fields (ID, sentiment, timestamps) are never touched.
func (r UpdateJournalEntryRequest) ApplyTo(e *JournalEntry) {
	if r.Content != nil {
		e.Content = *r.Content
	}
	if r.Title != nil {
		e.Title = *r.Title
	}
	if r.Tags != nil {
		e.Tags = NormalizeTags(r.Tags)
	}
	if r.PrivacyLevel != nil {
		e.PrivacyLevel = *r.PrivacyLevel
	}
	if r.MoodScore != nil {
		e.MoodScore = *r.MoodScore
	}
	if r.EnergyLevel != nil {
		e.EnergyLevel = *r.EnergyLevel
	}
	if r.StressLevel != nil {
		e.StressLevel = *r.StressLevel
	}
}

// UpdateSettingsRequest is a partial settings update; nil sections are left
// unchanged server-side.
type UpdateSettingsRequest struct {
	Theme         *string                `json:"theme,omitempty"`
	Notifications *NotificationSettings  `json:"notifications,omitempty"`
	Privacy       *PrivacySettings       `json:"privacy,omitempty"`
	Accessibility *AccessibilitySettings `json:"accessibility,omitempty"`
	Sync          *SyncSettings          `json:"sync,omitempty"`
}
