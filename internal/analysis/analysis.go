// Package analysis filters grievance lists and computes the admin
// dashboard figures. Every function is pure and works on an already
// fetched list.
package analysis

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"grievanceportal/backend/internal/config"
	"grievanceportal/backend/internal/models"
)

// Filter narrows a grievance list. Empty fields match everything.
type Filter struct {
	// Search is matched case-insensitively against the grievance code,
	// title and description.
	Search   string          `form:"search" json:"search"`
	Category models.Category `form:"category" json:"category" validate:"omitempty,category"`
	Status   models.Status   `form:"status" json:"status" validate:"omitempty,grievance_status"`
}

func (f Filter) Match(g *models.Grievance) bool {
	if f.Category != "" && g.Category != f.Category {
		return false
	}
	if f.Status != "" && g.Status != f.Status {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		return strings.Contains(strings.ToLower(g.Code), term) ||
			strings.Contains(strings.ToLower(g.Title), term) ||
			strings.Contains(strings.ToLower(g.Description), term)
	}
	return true
}

// Apply returns the grievances matching f, keeping their order.
func Apply(list []models.Grievance, f Filter) []models.Grievance {
	out := make([]models.Grievance, 0, len(list))
	for i := range list {
		if f.Match(&list[i]) {
			out = append(out, list[i])
		}
	}
	return out
}

// Summary holds the dashboard figures.
type Summary struct {
	Total      int                     `json:"total"`
	ByStatus   map[models.Status]int   `json:"by_status"`
	ByCategory map[models.Category]int `json:"by_category"`
	Resolved   int                     `json:"resolved"`
	// ResolutionRate is the resolved share in percent, one decimal.
	ResolutionRate float64 `json:"resolution_rate"`
	// AvgResolutionDays averages updated_at minus created_at over resolved
	// grievances.
	AvgResolutionDays float64            `json:"avg_resolution_days"`
	Recent            []models.Grievance `json:"recent"`
}

func Summarize(list []models.Grievance) Summary {
	s := Summary{
		Total:      len(list),
		ByStatus:   make(map[models.Status]int, len(models.AllStatuses)),
		ByCategory: make(map[models.Category]int, len(models.AllCategories)),
	}
	for _, st := range models.AllStatuses {
		s.ByStatus[st] = 0
	}
	for _, c := range models.AllCategories {
		s.ByCategory[c] = 0
	}

	var resolvedDays float64
	for i := range list {
		g := &list[i]
		s.ByStatus[g.Status]++
		s.ByCategory[g.Category]++
		if d, ok := ResolutionTime(g); ok {
			s.Resolved++
			resolvedDays += d.Hours() / 24
		}
	}

	if s.Total > 0 {
		s.ResolutionRate = round1(float64(s.Resolved) / float64(s.Total) * 100)
	}
	if s.Resolved > 0 {
		s.AvgResolutionDays = round1(resolvedDays / float64(s.Resolved))
	}

	s.Recent = Recent(list, config.RecentActivityLimit)
	return s
}

// Recent returns up to n grievances, newest first.
func Recent(list []models.Grievance, n int) []models.Grievance {
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b models.Grievance) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// ResolutionTime returns how long g took to reach a resolved status, or
// false when it is still open.
func ResolutionTime(g *models.Grievance) (time.Duration, bool) {
	if !g.Status.IsResolved() {
		return 0, false
	}
	return g.UpdatedAt.Sub(g.CreatedAt), true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
