// Package cli provides CLI output utilities for the worklog search engine.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/championcp/worklog-search/internal/models"
	"github.com/championcp/worklog-search/pkg/utils"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputCompact is one result per line.
	OutputCompact SearchOutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	case OutputCompact:
		writeSearchResultsCompact(w, response)
		return nil
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results in %dms\n\n", response.Total, response.SearchTime)
	for _, result := range response.Results {
		writeOneResult(w, result)
	}
	if len(response.Suggestions) > 0 {
		fmt.Fprintf(w, "Did you mean: %s\n", strings.Join(response.Suggestions, ", "))
	}
}

func writeSearchResultsCompact(w io.Writer, response *models.SearchResponse) {
	for _, result := range response.Results {
		fmt.Fprintf(w, "%-8s %6.2f  %s\n", result.Type, result.Score, result.Title)
	}
}

func writeOneResult(w io.Writer, result *models.SearchResult) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "[%s] Score: %.2f\n", result.Type, result.Score)
	fmt.Fprintf(w, "Title: %s\n", result.Title)
	if result.Metadata.ProjectName != "" {
		fmt.Fprintf(w, "Project: %s\n", result.Metadata.ProjectName)
	}
	if result.Metadata.Status != "" {
		fmt.Fprintf(w, "Status: %s\n", result.Metadata.Status)
	}
	if result.Snippet != "" {
		fmt.Fprintf(w, "\n%s\n", utils.Truncate(result.Snippet, 200))
	}
	fmt.Fprintln(w)
}

// WriteHistory writes history entries to w, newest first.
func WriteHistory(w io.Writer, entries []*models.SearchHistoryEntry) {
	for _, entry := range entries {
		line := fmt.Sprintf("%s  [%s] %q  (%d results)",
			entry.CreatedAt.Format("2006-01-02 15:04"), entry.SearchType, entry.Query, entry.ResultCount)
		if entry.Filters != nil {
			line += "  filters: " + utils.Truncate(*entry.Filters, 80)
		}
		fmt.Fprintln(w, line)
	}
}

// PrintSearchResults prints search results to stdout in text format.
func PrintSearchResults(response *models.SearchResponse) {
	_ = WriteSearchResults(os.Stdout, response, OutputText)
}
