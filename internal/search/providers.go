package search

import (
	"context"
	"time"

	"github.com/championcp/worklog-search/internal/models"
	"github.com/championcp/worklog-search/internal/ranking"
	"github.com/championcp/worklog-search/internal/storage"
)

// Provider finds candidates of one entity type and shapes them into search
// results. Providers are pure reads and return the full ordered candidate
// set; the orchestrator paginates after merging.
type Provider interface {
	Type() models.EntityType
	Search(ctx context.Context, userID int64, query string) ([]*models.SearchResult, error)
}

// taskResult shapes one task row through the shared snippet/highlight/score
// pipeline. Also used by advanced search so both paths rank identically.
func taskResult(row *storage.TaskRow, query string, now time.Time) *models.SearchResult {
	return &models.SearchResult{
		ID:         row.ID,
		Type:       models.EntityTask,
		Title:      row.Name,
		Snippet:    Snippet(row.Description, query),
		Highlights: Highlights(row.Name+" "+row.Description, query),
		Score:      ranking.Score(row.Name, row.Description, query, row.UpdatedAt, now),
		Metadata: models.ResultMetadata{
			ProjectID:   row.ProjectID,
			ProjectName: row.ProjectName,
			Status:      row.Status,
			Priority:    row.Priority,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		},
	}
}

type taskProvider struct {
	store storage.Store
}

func (p *taskProvider) Type() models.EntityType { return models.EntityTask }

func (p *taskProvider) Search(ctx context.Context, userID int64, query string) ([]*models.SearchResult, error) {
	rows, err := p.store.SearchTasks(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	results := make([]*models.SearchResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, taskResult(row, query, now))
	}
	return results, nil
}

type projectProvider struct {
	store storage.Store
}

func (p *projectProvider) Type() models.EntityType { return models.EntityProject }

func (p *projectProvider) Search(ctx context.Context, userID int64, query string) ([]*models.SearchResult, error) {
	rows, err := p.store.SearchProjects(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	results := make([]*models.SearchResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, &models.SearchResult{
			ID:         row.ID,
			Type:       models.EntityProject,
			Title:      row.Name,
			Snippet:    Snippet(row.Description, query),
			Highlights: Highlights(row.Name+" "+row.Description, query),
			Score:      ranking.Score(row.Name, row.Description, query, row.UpdatedAt, now),
			Metadata: models.ResultMetadata{
				CreatedAt: row.CreatedAt,
				UpdatedAt: row.UpdatedAt,
			},
		})
	}
	return results, nil
}

// catalogProvider serves categories and tags; the two differ only in entity
// type and which store query feeds them. Both add an undecayed popularity
// bonus so heavily used catalog entries outrank rarely used ones of equal
// textual relevance.
type catalogProvider struct {
	entityType models.EntityType
	search     func(ctx context.Context, userID int64, query string) ([]*storage.CatalogRow, error)
}

func (p *catalogProvider) Type() models.EntityType { return p.entityType }

func (p *catalogProvider) Search(ctx context.Context, userID int64, query string) ([]*models.SearchResult, error) {
	rows, err := p.search(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	results := make([]*models.SearchResult, 0, len(rows))
	for _, row := range rows {
		score := ranking.Score(row.Name, row.Description, query, row.UpdatedAt, now) +
			ranking.PopularityBonus(row.UsageCount)
		results = append(results, &models.SearchResult{
			ID:         row.ID,
			Type:       p.entityType,
			Title:      row.Name,
			Snippet:    Snippet(row.Description, query),
			Highlights: Highlights(row.Name+" "+row.Description, query),
			Score:      score,
			Metadata: models.ResultMetadata{
				CreatedAt: row.CreatedAt,
				UpdatedAt: row.UpdatedAt,
			},
		})
	}
	return results, nil
}

// newProviders returns the providers in their fixed fan-out order.
func newProviders(store storage.Store) []Provider {
	return []Provider{
		&taskProvider{store: store},
		&projectProvider{store: store},
		&catalogProvider{entityType: models.EntityCategory, search: store.SearchCategories},
		&catalogProvider{entityType: models.EntityTag, search: store.SearchTags},
	}
}
