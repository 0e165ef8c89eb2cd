package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/championcp/worklog-search/internal/models"
)

// minSuggestLength is the shortest partial query (and shortest historical
// query) that participates in suggestions.
const minSuggestLength = 2

// RecordSearch appends one history entry. Blank queries are never recorded;
// a whitespace-only query is a no-op, not an error.
func (s *SQLiteStore) RecordSearch(ctx context.Context, entry *models.SearchHistoryEntry) error {
	query := strings.TrimSpace(entry.Query)
	if query == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_history (user_id, query, search_type, filters, result_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.UserID, query, entry.SearchType, entry.Filters, entry.ResultCount, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("history insert failed: %w", err)
	}
	return nil
}

// Suggest returns up to limit distinct prior queries of the user containing
// partial as a substring. The exact partial itself is excluded, historical
// queries shorter than two characters are skipped, and ranking is by
// descending frequency then ascending length. A partial shorter than two
// characters yields nothing.
func (s *SQLiteStore) Suggest(ctx context.Context, userID int64, partial string, limit int) ([]string, error) {
	partial = strings.TrimSpace(partial)
	if len(partial) < minSuggestLength {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT query
		FROM search_history
		WHERE user_id = ?
		  AND query LIKE ?
		  AND query != ?
		  AND length(query) >= ?
		GROUP BY query
		ORDER BY COUNT(*) DESC, length(query) ASC
		LIMIT ?`,
		userID, containsPattern(partial), partial, minSuggestLength, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("suggestion query failed: %w", err)
	}
	defer rows.Close()

	var suggestions []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, q)
	}
	return suggestions, rows.Err()
}

// ListHistory returns the user's most recent history entries, newest first.
func (s *SQLiteStore) ListHistory(ctx context.Context, userID int64, limit int) ([]*models.SearchHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, query, search_type, filters, result_count, created_at
		FROM search_history
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history query failed: %w", err)
	}
	defer rows.Close()

	var entries []*models.SearchHistoryEntry
	for rows.Next() {
		var e models.SearchHistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Query, &e.SearchType, &e.Filters, &e.ResultCount, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// CleanupHistory deletes entries older than daysToKeep days and returns the
// number removed. Non-positive daysToKeep falls back to the default window.
// Safe to run repeatedly.
func (s *SQLiteStore) CleanupHistory(ctx context.Context, userID int64, daysToKeep int) (int64, error) {
	if daysToKeep <= 0 {
		daysToKeep = models.DefaultHistoryRetentionDays
	}
	cutoff := time.Now().AddDate(0, 0, -daysToKeep)
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM search_history WHERE user_id = ? AND created_at < ?`,
		userID, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("history cleanup failed: %w", err)
	}
	return result.RowsAffected()
}
