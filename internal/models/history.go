package models

import "time"

// Search types recorded in history.
const (
	SearchTypeGlobal   = "global"
	SearchTypeAdvanced = "advanced"
)

// DefaultHistoryRetentionDays is the cleanup window when the caller passes none.
const DefaultHistoryRetentionDays = 30

// SearchHistoryEntry is one recorded search. Entries are append-only,
// scoped per user, and removed only by the retention cleanup.
type SearchHistoryEntry struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	Query      string `json:"query"`
	SearchType string `json:"search_type"`
	// Filters holds the serialized filter set for advanced searches, nil otherwise.
	Filters     *string   `json:"filters,omitempty"`
	ResultCount int       `json:"result_count"`
	CreatedAt   time.Time `json:"created_at"`
}
