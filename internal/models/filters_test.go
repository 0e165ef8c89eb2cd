package models

import (
	"testing"
)

func TestAdvancedSearchCriteria_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		criteria  *AdvancedSearchCriteria
		wantSort  string
		wantOrder string
		wantLimit int
	}{
		{"all defaults", &AdvancedSearchCriteria{}, SortRelevance, OrderDesc, DefaultLimit},
		{"keeps explicit sort", &AdvancedSearchCriteria{SortBy: SortDeadline, SortOrder: OrderAsc, Limit: 10}, SortDeadline, OrderAsc, 10},
		{"unknown sort falls back", &AdvancedSearchCriteria{SortBy: "name"}, SortRelevance, OrderDesc, DefaultLimit},
		{"negative limit replaced", &AdvancedSearchCriteria{Limit: -5}, SortRelevance, OrderDesc, DefaultLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.criteria.Normalize()
			if tt.criteria.SortBy != tt.wantSort {
				t.Errorf("SortBy = %s, want %s", tt.criteria.SortBy, tt.wantSort)
			}
			if tt.criteria.SortOrder != tt.wantOrder {
				t.Errorf("SortOrder = %s, want %s", tt.criteria.SortOrder, tt.wantOrder)
			}
			if tt.criteria.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", tt.criteria.Limit, tt.wantLimit)
			}
		})
	}
}

func TestAdvancedSearchCriteria_NormalizeTagLogic(t *testing.T) {
	c := &AdvancedSearchCriteria{Filters: &SearchFilters{Tags: []int64{1, 2}}}
	c.Normalize()
	if c.Filters.TagLogic != TagLogicOr {
		t.Errorf("default tag logic = %s, want or", c.Filters.TagLogic)
	}

	c = &AdvancedSearchCriteria{Filters: &SearchFilters{Tags: []int64{1}, TagLogic: TagLogicAnd}}
	c.Normalize()
	if c.Filters.TagLogic != TagLogicAnd {
		t.Error("explicit AND logic must survive Normalize")
	}
}

func TestSearchFilters_IsZero(t *testing.T) {
	var f *SearchFilters
	if !f.IsZero() {
		t.Error("nil filters are zero")
	}
	if !(&SearchFilters{TagLogic: TagLogicAnd}).IsZero() {
		t.Error("tag logic alone does not constrain anything")
	}
	if (&SearchFilters{Status: []string{"pending"}}).IsZero() {
		t.Error("status filter is a constraint")
	}
}

func TestEntityType_Valid(t *testing.T) {
	for _, valid := range []EntityType{EntityTask, EntityProject, EntityCategory, EntityTag} {
		if !valid.Valid() {
			t.Errorf("%s should be valid", valid)
		}
	}
	if ScopeAll.Valid() {
		t.Error("scope all is not a concrete entity type")
	}
	if EntityType("user").Valid() {
		t.Error("unknown type should be invalid")
	}
}
