// Package storage defines the persistence interface of the search engine and
// its SQLite implementation. The engine reads the task/project/category/tag
// tables (owned by the record services) and owns exactly one table: the
// search history log.
package storage

import (
	"context"
	"time"

	"github.com/championcp/worklog-search/internal/models"
)

// TaskRow is one task candidate row with its owning project's name joined in.
type TaskRow struct {
	ID          int64
	Name        string
	Description string
	ProjectID   int64
	ProjectName string
	Status      string
	Priority    string
	Deadline    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectRow is one project candidate row.
type ProjectRow struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CatalogRow is one category or tag candidate row. UsageCount carries the
// category's task_count or the tag's usage_count for popularity weighting.
type CatalogRow struct {
	ID          int64
	Name        string
	Description string
	UsageCount  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Store is the relational backend of the search engine. Entity searches are
// pure reads returning the full candidate set ordered prefix-match-first,
// ties broken most-recently-updated first; pagination happens above.
type Store interface {
	SearchTasks(ctx context.Context, userID int64, query string) ([]*TaskRow, error)
	SearchProjects(ctx context.Context, userID int64, query string) ([]*ProjectRow, error)
	SearchCategories(ctx context.Context, userID int64, query string) ([]*CatalogRow, error)
	SearchTags(ctx context.Context, userID int64, query string) ([]*CatalogRow, error)

	// QueryTasks runs one dynamically composed query for advanced search.
	QueryTasks(ctx context.Context, userID int64, criteria *models.AdvancedSearchCriteria) ([]*TaskRow, error)

	RecordSearch(ctx context.Context, entry *models.SearchHistoryEntry) error
	Suggest(ctx context.Context, userID int64, partial string, limit int) ([]string, error)
	ListHistory(ctx context.Context, userID int64, limit int) ([]*models.SearchHistoryEntry, error)
	CleanupHistory(ctx context.Context, userID int64, daysToKeep int) (int64, error)

	Close() error
}
