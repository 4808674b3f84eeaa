package analysis_test

import (
	"fmt"
	"testing"
	"time"

	"grievanceportal/backend/internal/analysis"
	"grievanceportal/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func grievance(code, title string, c models.Category, st models.Status, age, resolveDays int) models.Grievance {
	created := base.Add(time.Duration(age) * time.Hour)
	return models.Grievance{
		Code:        code,
		Title:       title,
		Description: "details for " + title,
		Category:    c,
		Status:      st,
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Duration(resolveDays) * 24 * time.Hour),
	}
}

func sample() []models.Grievance {
	return []models.Grievance{
		grievance("GRV-000001", "Projector broken", models.CategoryFacility, models.StatusResolved, 0, 2),
		grievance("GRV-000002", "Marks missing", models.CategoryExamination, models.StatusSubmitted, 1, 0),
		grievance("GRV-000003", "WiFi down", models.CategoryFacility, models.StatusClosed, 2, 4),
		grievance("GRV-000004", "Syllabus lagging", models.CategoryAcademic, models.StatusInProgress, 3, 1),
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter analysis.Filter
		want   []string
	}{
		{"no filter", analysis.Filter{}, []string{"GRV-000001", "GRV-000002", "GRV-000003", "GRV-000004"}},
		{"search code", analysis.Filter{Search: "grv-000003"}, []string{"GRV-000003"}},
		{"search title case-insensitive", analysis.Filter{Search: "wifi"}, []string{"GRV-000003"}},
		{"search description", analysis.Filter{Search: "DETAILS FOR MARKS"}, []string{"GRV-000002"}},
		{"category", analysis.Filter{Category: models.CategoryFacility}, []string{"GRV-000001", "GRV-000003"}},
		{"category and status", analysis.Filter{Category: models.CategoryFacility, Status: models.StatusClosed}, []string{"GRV-000003"}},
		{"no match", analysis.Filter{Search: "canteen"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analysis.Apply(sample(), tt.filter)

			codes := []string{}
			for _, g := range got {
				codes = append(codes, g.Code)
			}
			assert.Equal(t, tt.want, codes)
		})
	}
}

func TestSummarize(t *testing.T) {
	s := analysis.Summarize(sample())

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Resolved)
	assert.Equal(t, 50.0, s.ResolutionRate)
	assert.Equal(t, 3.0, s.AvgResolutionDays)
	assert.Equal(t, map[models.Status]int{
		models.StatusSubmitted:  1,
		models.StatusInProgress: 1,
		models.StatusResolved:   1,
		models.StatusClosed:     1,
	}, s.ByStatus)
	assert.Equal(t, 0, s.ByCategory[models.CategoryPlacement])
	assert.Equal(t, 2, s.ByCategory[models.CategoryFacility])
	require.Len(t, s.Recent, 4)
	assert.Equal(t, "GRV-000004", s.Recent[0].Code)
}

func TestSummarize_Empty(t *testing.T) {
	s := analysis.Summarize(nil)

	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0.0, s.ResolutionRate)
	assert.Equal(t, 0.0, s.AvgResolutionDays)
	assert.Len(t, s.ByStatus, len(models.AllStatuses))
	assert.Len(t, s.ByCategory, len(models.AllCategories))
	assert.Empty(t, s.Recent)
}

func TestSummarize_RateRoundsToOneDecimal(t *testing.T) {
	list := []models.Grievance{
		grievance("a", "a", models.CategoryOther, models.StatusResolved, 0, 1),
		grievance("b", "b", models.CategoryOther, models.StatusSubmitted, 0, 0),
		grievance("c", "c", models.CategoryOther, models.StatusSubmitted, 0, 0),
	}

	s := analysis.Summarize(list)

	assert.Equal(t, 33.3, s.ResolutionRate)
}

func TestRecent_LimitsToTenNewest(t *testing.T) {
	var list []models.Grievance
	for i := 0; i < 15; i++ {
		list = append(list, grievance(fmt.Sprintf("GRV-%06d", i), "t", models.CategoryOther, models.StatusSubmitted, i, 0))
	}

	got := analysis.Summarize(list).Recent

	require.Len(t, got, 10)
	assert.Equal(t, "GRV-000014", got[0].Code)
	assert.Equal(t, "GRV-000005", got[9].Code)
}
