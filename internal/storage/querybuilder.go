package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/championcp/worklog-search/internal/models"
)

// taskQueryBuilder composes one dynamic SQL query against the tasks table for
// advanced search. Predicates and their bindings accumulate in ordered slices;
// filter values are always bound parameters, never interpolated. Bindings are
// kept per clause group so their order matches placeholder order in the
// assembled statement.
type taskQueryBuilder struct {
	joins      []string
	joinArgs   []any
	conds      []string
	condArgs   []any
	groupBy    string
	having     string
	havingArgs []any
	orderBy    string
	orderArgs  []any
}

func newTaskQueryBuilder(userID int64) *taskQueryBuilder {
	b := &taskQueryBuilder{}
	// Base predicate: the task and its owning project belong to the
	// requesting user and neither is soft-deleted.
	b.where("p.user_id = ?", userID)
	b.where("t.deleted_at IS NULL")
	b.where("p.deleted_at IS NULL")
	return b
}

func (b *taskQueryBuilder) where(cond string, args ...any) {
	b.conds = append(b.conds, cond)
	b.condArgs = append(b.condArgs, args...)
}

func (b *taskQueryBuilder) join(clause string, args ...any) {
	b.joins = append(b.joins, clause)
	b.joinArgs = append(b.joinArgs, args...)
}

// placeholders returns "?, ?, ..." for n bound values.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

func (b *taskQueryBuilder) keywords(keywords string) {
	if keywords == "" {
		return
	}
	b.where("(t.name LIKE ? OR t.description LIKE ?)",
		containsPattern(keywords), containsPattern(keywords))
}

func (b *taskQueryBuilder) filters(f *models.SearchFilters) {
	if f == nil {
		return
	}
	if len(f.Projects) > 0 {
		b.where("t.project_id IN ("+placeholders(len(f.Projects))+")", int64Args(f.Projects)...)
	}
	if len(f.Status) > 0 {
		b.where("t.status IN ("+placeholders(len(f.Status))+")", stringArgs(f.Status)...)
	}
	if len(f.Priority) > 0 {
		b.where("t.priority IN ("+placeholders(len(f.Priority))+")", stringArgs(f.Priority)...)
	}
	b.dateRange(f.DateRange)
	if len(f.Categories) > 0 {
		b.where("EXISTS (SELECT 1 FROM task_categories tc WHERE tc.task_id = t.id AND tc.category_id IN ("+
			placeholders(len(f.Categories))+"))", int64Args(f.Categories)...)
	}
	b.tags(f.Tags, f.TagLogic)
}

func (b *taskQueryBuilder) dateRange(r *models.DateRange) {
	if r == nil {
		return
	}
	var column string
	switch r.Field {
	case models.DateFieldUpdated:
		column = "t.updated_at"
	case models.DateFieldDeadline:
		column = "t.deadline"
	default:
		column = "t.created_at"
	}
	// Inclusive bounds at day granularity; either side may be open.
	if r.Start != nil {
		b.where("date("+column+") >= date(?)", r.Start.Format("2006-01-02"))
	}
	if r.End != nil {
		b.where("date("+column+") <= date(?)", r.End.Format("2006-01-02"))
	}
}

func (b *taskQueryBuilder) tags(tagIDs []int64, logic models.TagLogic) {
	if len(tagIDs) == 0 {
		return
	}
	if logic == models.TagLogicAnd {
		// Join memberships restricted to the requested set, group per task,
		// and require the distinct matched-tag count to cover the whole set.
		// A task tagged with a superset still qualifies.
		b.join("JOIN task_tags tt ON tt.task_id = t.id AND tt.tag_id IN ("+
			placeholders(len(tagIDs))+")", int64Args(tagIDs)...)
		b.groupBy = "GROUP BY t.id"
		b.having = "HAVING COUNT(DISTINCT tt.tag_id) = ?"
		b.havingArgs = append(b.havingArgs, int64(len(tagIDs)))
		return
	}
	b.where("EXISTS (SELECT 1 FROM task_tags tt WHERE tt.task_id = t.id AND tt.tag_id IN ("+
		placeholders(len(tagIDs))+"))", int64Args(tagIDs)...)
}

func (b *taskQueryBuilder) sort(sortBy, sortOrder, keywords string) {
	dir := "DESC"
	if sortOrder == models.OrderAsc {
		dir = "ASC"
	}
	switch sortBy {
	case models.SortCreated:
		b.orderBy = "ORDER BY t.created_at " + dir
	case models.SortUpdated:
		b.orderBy = "ORDER BY t.updated_at " + dir
	case models.SortPriority:
		// Fixed severity rank, then recency.
		b.orderBy = "ORDER BY CASE t.priority " +
			"WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END " +
			dir + ", t.updated_at DESC"
	case models.SortDeadline:
		// NULL deadlines sort last regardless of direction.
		b.orderBy = "ORDER BY (t.deadline IS NULL) ASC, t.deadline " + dir
	default: // relevance
		if keywords == "" {
			b.orderBy = "ORDER BY t.updated_at " + dir
			return
		}
		// Larger rank = stronger match: prefix beats substring beats rest.
		b.orderBy = "ORDER BY CASE WHEN t.name LIKE ? THEN 2 WHEN t.name LIKE ? THEN 1 ELSE 0 END " +
			dir + ", t.updated_at " + dir
		b.orderArgs = append(b.orderArgs, prefixPattern(keywords), containsPattern(keywords))
	}
}

// build assembles the final SQL statement and its ordered bindings.
func (b *taskQueryBuilder) build() (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT t.id, t.name, t.description, t.project_id, p.name,
	       t.status, t.priority, t.deadline, t.created_at, t.updated_at
	FROM tasks t
	JOIN projects p ON p.id = t.project_id`)
	for _, j := range b.joins {
		sb.WriteString("\n\t")
		sb.WriteString(j)
	}
	sb.WriteString("\n\tWHERE ")
	sb.WriteString(strings.Join(b.conds, "\n\t  AND "))
	if b.groupBy != "" {
		sb.WriteString("\n\t")
		sb.WriteString(b.groupBy)
	}
	if b.having != "" {
		sb.WriteString("\n\t")
		sb.WriteString(b.having)
	}
	if b.orderBy != "" {
		sb.WriteString("\n\t")
		sb.WriteString(b.orderBy)
	}
	args := make([]any, 0, len(b.joinArgs)+len(b.condArgs)+len(b.havingArgs)+len(b.orderArgs))
	args = append(args, b.joinArgs...)
	args = append(args, b.condArgs...)
	args = append(args, b.havingArgs...)
	args = append(args, b.orderArgs...)
	return sb.String(), args
}

// QueryTasks composes and runs one advanced search query. The full ordered
// candidate set is returned; pagination is the orchestrator's job so that the
// response can report the pre-pagination total.
func (s *SQLiteStore) QueryTasks(ctx context.Context, userID int64, criteria *models.AdvancedSearchCriteria) ([]*TaskRow, error) {
	b := newTaskQueryBuilder(userID)
	b.keywords(criteria.Keywords)
	b.filters(criteria.Filters)
	b.sort(criteria.SortBy, criteria.SortOrder, criteria.Keywords)

	stmt, args := b.build()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("advanced task query failed: %w", err)
	}
	defer rows.Close()
	return scanTaskRows(rows)
}
