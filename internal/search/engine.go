package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/championcp/worklog-search/internal/models"
	"github.com/championcp/worklog-search/internal/storage"
)

// suggestionLimit caps how many prior queries a response offers.
const suggestionLimit = 5

// Engine orchestrates global and advanced search: fan-out, merge, rank,
// paginate, suggest, and record history. Each call is one synchronous
// pipeline against the store; the engine holds no mutable state of its own.
type Engine struct {
	store     storage.Store
	providers []Provider
	logger    *zap.Logger
}

// NewEngine creates a search engine over the given store.
func NewEngine(store storage.Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:     store,
		providers: newProviders(store),
		logger:    logger,
	}
}

// GlobalSearch runs a free-text search across all entity types, or one type
// when scope names it. An empty query is legal and yields an empty result set
// without touching the providers. If any provider fails, the whole call
// fails; there are no partial results.
func (e *Engine) GlobalSearch(ctx context.Context, userID int64, query string, scope models.EntityType, limit, offset int) (*models.SearchResponse, error) {
	startTime := time.Now()
	if limit == 0 {
		limit = models.DefaultLimit
	}

	trimmed := strings.TrimSpace(query)
	var merged []*models.SearchResult
	if trimmed != "" {
		for _, provider := range e.scopedProviders(scope) {
			results, err := provider.Search(ctx, userID, trimmed)
			if err != nil {
				return nil, fmt.Errorf("%s provider failed: %w", provider.Type(), err)
			}
			merged = append(merged, results...)
		}
		// Stable: equal scores keep provider-relative order.
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].Score > merged[j].Score
		})
	}

	total := len(merged)
	response := &models.SearchResponse{
		Results:     paginate(merged, offset, limit),
		Total:       total,
		Query:       query,
		Suggestions: e.suggestions(ctx, userID, trimmed),
	}
	e.recordHistory(ctx, userID, trimmed, models.SearchTypeGlobal, nil, total)
	response.SearchTime = time.Since(startTime).Milliseconds()
	return response, nil
}

// AdvancedSearch runs one dynamically composed task query for the given
// criteria, maps rows through the shared scoring pipeline, and paginates.
func (e *Engine) AdvancedSearch(ctx context.Context, userID int64, criteria *models.AdvancedSearchCriteria) (*models.SearchResponse, error) {
	startTime := time.Now()
	criteria.Normalize()

	rows, err := e.store.QueryTasks(ctx, userID, criteria)
	if err != nil {
		return nil, fmt.Errorf("advanced search failed: %w", err)
	}

	keywords := strings.TrimSpace(criteria.Keywords)
	now := time.Now()
	results := make([]*models.SearchResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, taskResult(row, keywords, now))
	}

	total := len(results)
	response := &models.SearchResponse{
		Results:     paginate(results, criteria.Offset, criteria.Limit),
		Total:       total,
		Query:       criteria.Keywords,
		Suggestions: e.suggestions(ctx, userID, keywords),
		Filters:     criteria.Filters,
	}
	e.recordHistory(ctx, userID, keywords, models.SearchTypeAdvanced, criteria.Filters, total)
	response.SearchTime = time.Since(startTime).Milliseconds()
	return response, nil
}

// GetHistory returns the user's recent searches, newest first.
func (e *Engine) GetHistory(ctx context.Context, userID int64, limit int) ([]*models.SearchHistoryEntry, error) {
	if limit <= 0 {
		limit = models.DefaultLimit
	}
	return e.store.ListHistory(ctx, userID, limit)
}

// CleanupHistory purges history entries older than daysToKeep days and
// returns how many were removed.
func (e *Engine) CleanupHistory(ctx context.Context, userID int64, daysToKeep int) (int64, error) {
	return e.store.CleanupHistory(ctx, userID, daysToKeep)
}

func (e *Engine) scopedProviders(scope models.EntityType) []Provider {
	if !scope.Valid() {
		return e.providers
	}
	for _, provider := range e.providers {
		if provider.Type() == scope {
			return []Provider{provider}
		}
	}
	return e.providers
}

// suggestions looks up prior queries matching the current one. Suggestion
/// lookups are best-effort: a store failure degrades to no suggestions rather
// than failing the search.
func (e *Engine) suggestions(ctx context.Context, userID int64, query string) []string {
	if query == "" {
		return nil
	}
	suggestions, err := e.store.Suggest(ctx, userID, query, suggestionLimit)
	if err != nil {
		e.logger.Warn("suggestion lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil
	}
	return suggestions
}

// recordHistory appends a history row. Blank queries are never recorded, and
// write failures are logged and swallowed so the search itself still
// succeeds.
func (e *Engine) recordHistory(ctx context.Context, userID int64, query, searchType string, filters *models.SearchFilters, resultCount int) {
	if query == "" {
		return
	}
	entry := &models.SearchHistoryEntry{
		UserID:      userID,
		Query:       query,
		SearchType:  searchType,
		ResultCount: resultCount,
	}
	if !filters.IsZero() {
		raw, err := json.Marshal(filters)
		if err != nil {
			e.logger.Warn("filter serialization failed", zap.Error(err))
		} else {
			serialized := string(raw)
			entry.Filters = &serialized
		}
	}
	if err := e.store.RecordSearch(ctx, entry); err != nil {
		e.logger.Warn("history write failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// paginate applies the offset/limit window. Out-of-range offsets yield an
// empty page; the caller reports the pre-pagination total separately.
func paginate(results []*models.SearchResult, offset, limit int) []*models.SearchResult {
	start := offset
	if start < 0 {
		start = 0
	}
	if start > len(results) {
		start = len(results)
	}
	end := len(results)
	if limit >= 0 && start+limit < end {
		end = start + limit
	}
	if limit < 0 {
		end = start
	}
	page := results[start:end]
	if page == nil {
		page = []*models.SearchResult{}
	}
	return page
}
