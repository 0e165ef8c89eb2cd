package models

import "time"

// TagLogic is the boolean combinator applied across a multi-valued tag filter.
type TagLogic string

const (
	TagLogicOr  TagLogic = "or"
	TagLogicAnd TagLogic = "and"
)

// Date fields a DateRange may constrain.
const (
	DateFieldCreated  = "created"
	DateFieldUpdated  = "updated"
	DateFieldDeadline = "deadline"
)

// DateRange constrains one task date field to [Start, End], inclusive,
// compared at day granularity. Either bound may be nil (open on that side).
type DateRange struct {
	Field string     `json:"field"`
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// SearchFilters is the structured constraint set for advanced search.
// Every field is optional; absence means unconstrained.
type SearchFilters struct {
	Categories []int64    `json:"categories,omitempty"`
	Tags       []int64    `json:"tags,omitempty"`
	TagLogic   TagLogic   `json:"tag_logic,omitempty"`
	Projects   []int64    `json:"projects,omitempty"`
	Status     []string   `json:"status,omitempty"`
	Priority   []string   `json:"priority,omitempty"`
	DateRange  *DateRange `json:"date_range,omitempty"`
	// Assignees is reserved; the engine ignores it until task assignment lands.
	Assignees []int64 `json:"assignees,omitempty"`
}

// IsZero reports whether no filter field is set.
func (f *SearchFilters) IsZero() bool {
	if f == nil {
		return true
	}
	return len(f.Categories) == 0 && len(f.Tags) == 0 && len(f.Projects) == 0 &&
		len(f.Status) == 0 && len(f.Priority) == 0 && f.DateRange == nil
}

// Sort keys for advanced search.
const (
	SortRelevance = "relevance"
	SortCreated   = "created"
	SortUpdated   = "updated"
	SortPriority  = "priority"
	SortDeadline  = "deadline"
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Pagination defaults for advanced search.
const (
	DefaultLimit = 50
)

// AdvancedSearchCriteria is one advanced search request: free-text keywords
// plus an arbitrary subset of structured filters.
type AdvancedSearchCriteria struct {
	Keywords  string         `json:"keywords,omitempty"`
	Filters   *SearchFilters `json:"filters,omitempty"`
	SortBy    string         `json:"sort_by,omitempty"`
	SortOrder string         `json:"sort_order,omitempty"`
	Limit     int            `json:"limit,omitempty"`
	Offset    int            `json:"offset,omitempty"`
}

// Normalize fills defaults in place: relevance/desc sort, limit 50, offset 0,
// and OR tag logic when tags are filtered without an explicit combinator.
// Filter value domains (status strings, priority names) are not validated
// here; callers own that.
func (c *AdvancedSearchCriteria) Normalize() {
	switch c.SortBy {
	case SortRelevance, SortCreated, SortUpdated, SortPriority, SortDeadline:
	default:
		c.SortBy = SortRelevance
	}
	switch c.SortOrder {
	case OrderAsc, OrderDesc:
	default:
		c.SortOrder = OrderDesc
	}
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.Offset < 0 {
		c.Offset = 0
	}
	if c.Filters != nil && len(c.Filters.Tags) > 0 && c.Filters.TagLogic != TagLogicAnd {
		c.Filters.TagLogic = TagLogicOr
	}
}
