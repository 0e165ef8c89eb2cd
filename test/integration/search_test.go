// Package integration provides end-to-end tests over a real database.
package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/championcp/worklog-search/internal/models"
	"github.com/championcp/worklog-search/internal/search"
	"github.com/championcp/worklog-search/internal/storage"
)

func TestIntegration_GlobalSearch(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewSQLiteStore(filepath.Join(dir, "worklog.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	engine := search.NewEngine(store, nil)
	ctx := context.Background()
	now := time.Now()

	// A recently touched task and a long-dormant project both matching the
	// same query. Recency decay must rank the task first even though the
	// project's name is a prefix match.
	staleProject, err := store.InsertProject(ctx, storage.Project{
		UserID: 1, Name: "API docs site",
		CreatedAt: now.AddDate(0, 0, -500), UpdatedAt: now.AddDate(0, 0, -400),
	})
	if err != nil {
		t.Fatal(err)
	}
	workProject, err := store.InsertProject(ctx, storage.Project{UserID: 1, Name: "Work"})
	if err != nil {
		t.Fatal(err)
	}
	taskID, err := store.InsertTask(ctx, storage.Task{
		ProjectID: workProject, Name: "Write API docs",
		Description: "Document the public endpoints before the release.",
		Status:      "in_progress", Priority: "high", UpdatedAt: now,
	})
	if err != nil {
		t.Fatal(err)
	}
	tagID, err := store.InsertTag(ctx, storage.Tag{UserID: 1, Name: "writing", UsageCount: 12})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.AssignTag(ctx, taskID, tagID); err != nil {
		t.Fatal(err)
	}

	resp, err := engine.GlobalSearch(ctx, 1, "api docs", models.ScopeAll, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2 (task and project)", resp.Total)
	}
	first := resp.Results[0]
	if first.Type != models.EntityTask || first.ID != taskID {
		t.Errorf("first result = %s %q, want the fresh task", first.Type, first.Title)
	}
	if first.Metadata.ProjectName != "Work" || first.Metadata.Status != "in_progress" {
		t.Errorf("task metadata = %+v", first.Metadata)
	}
	if first.Snippet == "" {
		t.Error("task snippet should not be empty")
	}
	var sawProject bool
	for _, r := range resp.Results {
		if r.Type == models.EntityProject && r.ID == staleProject {
			sawProject = true
			if r.Score >= first.Score {
				t.Errorf("stale project score %.2f should trail task score %.2f", r.Score, first.Score)
			}
		}
	}
	if !sawProject {
		t.Error("stale project missing from results")
	}

	// The search itself must land in history and feed later suggestions.
	resp2, err := engine.GlobalSearch(ctx, 1, "api", models.ScopeAll, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	var suggested bool
	for _, s := range resp2.Suggestions {
		if s == "api docs" {
			suggested = true
		}
	}
	if !suggested {
		t.Errorf("suggestions = %v, want the earlier query", resp2.Suggestions)
	}
}

func TestIntegration_AdvancedSearchAndHistory(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewSQLiteStore(filepath.Join(dir, "worklog.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	engine := search.NewEngine(store, nil)
	ctx := context.Background()

	projectID, err := store.InsertProject(ctx, storage.Project{UserID: 1, Name: "Platform"})
	if err != nil {
		t.Fatal(err)
	}
	urgentTag, err := store.InsertTag(ctx, storage.Tag{UserID: 1, Name: "urgent-fix"})
	if err != nil {
		t.Fatal(err)
	}
	backendTag, err := store.InsertTag(ctx, storage.Tag{UserID: 1, Name: "backend"})
	if err != nil {
		t.Fatal(err)
	}

	both, err := store.InsertTask(ctx, storage.Task{
		ProjectID: projectID, Name: "Fix login timeout", Status: "pending", Priority: "urgent",
	})
	if err != nil {
		t.Fatal(err)
	}
	onlyBackend, err := store.InsertTask(ctx, storage.Task{
		ProjectID: projectID, Name: "Fix cache invalidation", Status: "pending", Priority: "medium",
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, link := range []struct{ task, tag int64 }{
		{both, urgentTag}, {both, backendTag}, {onlyBackend, backendTag},
	} {
		if err := store.AssignTag(ctx, link.task, link.tag); err != nil {
			t.Fatal(err)
		}
	}

	// AND across both tags narrows to the one task carrying both.
	resp, err := engine.AdvancedSearch(ctx, 1, &models.AdvancedSearchCriteria{
		Keywords: "fix",
		Filters: &models.SearchFilters{
			Tags:     []int64{urgentTag, backendTag},
			TagLogic: models.TagLogicAnd,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Results[0].ID != both {
		t.Fatalf("AND tag filter: got %d results, want only the doubly tagged task", resp.Total)
	}

	// OR widens back out to both.
	resp, err = engine.AdvancedSearch(ctx, 1, &models.AdvancedSearchCriteria{
		Keywords: "fix",
		Filters:  &models.SearchFilters{Tags: []int64{urgentTag, backendTag}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Fatalf("OR tag filter: got %d results, want 2", resp.Total)
	}

	entries, err := engine.GetHistory(ctx, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("history entries = %d, want 2", len(entries))
	}
	if entries[0].SearchType != models.SearchTypeAdvanced || entries[0].Filters == nil {
		t.Errorf("latest entry = %+v, want advanced with serialized filters", entries[0])
	}

	removed, err := engine.CleanupHistory(ctx, 1, 30)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Errorf("cleanup removed %d fresh entries", removed)
	}
}
