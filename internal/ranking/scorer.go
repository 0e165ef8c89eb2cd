// Package ranking computes relevance scores for search candidates.
//
// Scoring combines textual match strength against the query, a recency decay
// on the last-update time, and (for catalog entries) a popularity bonus. All
// functions are pure in (now, updated_at, usage_count) so the arithmetic
// stays out of the query path and independently testable.
package ranking

import (
	"strings"
	"time"
)

const (
	titlePrefixBonus  = 10.0
	titleMatchBonus   = 5.0
	contentMatchBonus = 2.0
	// emptyQueryBase keeps unfiltered listings sorting deterministically
	// by recency through the decay factor.
	emptyQueryBase = 1.0

	decayFloor      = 0.1
	decayWindowDays = 365.0

	popularityFactor = 0.1
	popularityCap    = 5.0
)

// BaseScore returns the textual match score of a candidate before decay:
// +10 when the title starts with the query, +5 when it merely contains it,
// +2 when the content contains it. An empty query scores 1.
func BaseScore(title, content, query string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return emptyQueryBase
	}
	score := 0.0
	lowerTitle := strings.ToLower(title)
	if strings.HasPrefix(lowerTitle, q) {
		score += titlePrefixBonus
	} else if strings.Contains(lowerTitle, q) {
		score += titleMatchBonus
	}
	if strings.Contains(strings.ToLower(content), q) {
		score += contentMatchBonus
	}
	return score
}

// RecencyDecay returns max(0.1, 1 - days_since_update/365). Content updated
// today keeps its base score; matches older than a year settle at the floor
// so they stay retrievable, just ranked lower. Never zero.
func RecencyDecay(updatedAt, now time.Time) float64 {
	days := now.Sub(updatedAt).Hours() / 24
	if days < 0 {
		days = 0
	}
	decay := 1 - days/decayWindowDays
	if decay < decayFloor {
		return decayFloor
	}
	return decay
}

// Score is the decayed relevance of a candidate row.
func Score(title, content, query string, updatedAt, now time.Time) float64 {
	return BaseScore(title, content, query) * RecencyDecay(updatedAt, now)
}

// PopularityBonus converts a catalog usage count (category task_count, tag
// usage_count) into an additive score term. The bonus is not decayed and is
// capped so heavily used entries cannot drown out textual relevance.
func PopularityBonus(count int64) float64 {
	if count <= 0 {
		return 0
	}
	bonus := float64(count) * popularityFactor
	if bonus > popularityCap {
		return popularityCap
	}
	return bonus
}
