// Package models defines the request and response types of the search engine.
package models

import "time"

// EntityType identifies one of the four searchable record kinds.
type EntityType string

const (
	EntityTask     EntityType = "task"
	EntityProject  EntityType = "project"
	EntityCategory EntityType = "category"
	EntityTag      EntityType = "tag"
	// ScopeAll selects every entity type in a global search.
	ScopeAll EntityType = "all"
)

// Valid reports whether t is a concrete searchable entity type.
func (t EntityType) Valid() bool {
	switch t {
	case EntityTask, EntityProject, EntityCategory, EntityTag:
		return true
	}
	return false
}

// ResultMetadata carries entity-specific context for a search result.
// Fields are populated only when meaningful for the matched entity type.
type ResultMetadata struct {
	ProjectID    int64     `json:"project_id,omitempty"`
	ProjectName  string    `json:"project_name,omitempty"`
	CategoryName string    `json:"category_name,omitempty"`
	Status       string    `json:"status,omitempty"`
	Priority     string    `json:"priority,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// SearchResult is one matched entity surfaced to the caller.
// Built per search execution, never persisted, immutable once built.
type SearchResult struct {
	ID         int64          `json:"id"`
	Type       EntityType     `json:"type"`
	Title      string         `json:"title"`
	Snippet    string         `json:"snippet"`
	Highlights []string       `json:"highlights,omitempty"`
	Score      float64        `json:"score"`
	Metadata   ResultMetadata `json:"metadata"`
}

// SearchResponse is the return envelope for global and advanced search.
type SearchResponse struct {
	Results []*SearchResult `json:"results"`
	// Total is the match count before pagination.
	Total      int    `json:"total"`
	Query      string `json:"query"`
	SearchTime int64  `json:"search_time_ms"`
	// Suggestions holds up to five prior queries matching the current one.
	Suggestions []string `json:"suggestions,omitempty"`
	// Filters echoes the request filters (advanced search only).
	Filters *SearchFilters `json:"filters,omitempty"`
}
