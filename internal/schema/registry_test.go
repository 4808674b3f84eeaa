package schema_test

import (
	"testing"

	"grievanceportal/backend/internal/apperr"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_EveryPairResolvesWithUniqueKeys(t *testing.T) {
	r := schema.Default()

	for _, c := range r.Categories() {
		subs, err := r.ListSubCategories(c)
		require.NoError(t, err)
		require.NotEmpty(t, subs)

		for _, sub := range subs {
			fields := r.ResolveFieldSchema(c, sub)
			require.NotEmpty(t, fields, "%s/%s resolved to no fields", c, sub)

			seen := map[string]bool{}
			for _, f := range fields {
				assert.False(t, seen[f.Key], "%s/%s repeats key %s", c, sub, f.Key)
				seen[f.Key] = true
				if f.Kind == models.InputSelect {
					assert.NotEmpty(t, f.Options, "%s/%s select %s has no options", c, sub, f.Key)
				}
			}
		}
	}
}

func TestListSubCategories(t *testing.T) {
	r := schema.Default()

	tests := []struct {
		name     string
		category models.Category
		want     []string
	}{
		{"academic", models.CategoryAcademic, []string{"Teaching Quality", "Syllabus", "Time-Table Clash", "Lab/Equipment"}},
		{"examination", models.CategoryExamination, []string{"Marks Related", "Exam Scheduling", "Exam Not Given", "Results Delay", "Invigilation/Conduct"}},
		{"other", models.CategoryOther, []string{"General"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ListSubCategories(tt.category)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListSubCategories_UnknownCategory(t *testing.T) {
	_, err := schema.Default().ListSubCategories("Transport")

	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestResolveFieldSchema_Authored(t *testing.T) {
	r := schema.Default()

	fields := r.ResolveFieldSchema(models.CategoryAcademic, "Time-Table Clash")

	require.Len(t, fields, 3)
	assert.Equal(t, "clashType", fields[0].Key)
	assert.Equal(t, models.InputSelect, fields[0].Kind)
	assert.Equal(t, []string{"Lecture", "Lab", "Internal Exam"}, fields[0].Options)
	assert.Equal(t, "dateOfClash", fields[2].Key)
	assert.Equal(t, models.InputDate, fields[2].Kind)
	assert.False(t, r.IsFallback(models.CategoryAcademic, "Time-Table Clash"))
}

func TestResolveFieldSchema_WaterSupplyExtendsWiFi(t *testing.T) {
	r := schema.Default()

	keys := func(fields []models.FieldDescriptor) []string {
		out := make([]string, len(fields))
		for i, f := range fields {
			out[i] = f.Key
		}
		return out
	}

	assert.Equal(t, []string{"building", "floor", "location"}, keys(r.ResolveFieldSchema(models.CategoryFacility, "WiFi")))
	assert.Equal(t, []string{"building", "floor", "location", "issueType"}, keys(r.ResolveFieldSchema(models.CategoryFacility, "Water Supply")))
}

func TestResolveFieldSchema_Fallback(t *testing.T) {
	r := schema.Default()

	for _, pair := range []struct {
		category models.Category
		sub      string
	}{
		{models.CategoryOther, "General"},
		{models.CategoryFacility, "Canteen"},
		{models.CategoryPlacement, "Interview Process"},
		{models.CategoryAcademic, "Not A Sub-Category"},
	} {
		fields := r.ResolveFieldSchema(pair.category, pair.sub)

		require.Len(t, fields, 1)
		assert.Equal(t, "additionalInfo", fields[0].Key)
		assert.False(t, fields[0].Required)
		assert.True(t, r.IsFallback(pair.category, pair.sub))
	}
}

func TestResolveFieldSchema_ReturnsCopies(t *testing.T) {
	r := schema.Default()

	first := r.ResolveFieldSchema(models.CategoryAcademic, "Time-Table Clash")
	first[0].Label = "changed"
	first[0].Options[0] = "changed"

	second := r.ResolveFieldSchema(models.CategoryAcademic, "Time-Table Clash")
	assert.Equal(t, "Clash Type", second[0].Label)
	assert.Equal(t, "Lecture", second[0].Options[0])
}

func TestNewRegistry_RejectsBadTables(t *testing.T) {
	cats := []models.Category{models.CategoryOther}
	subs := map[models.Category][]string{models.CategoryOther: {"General"}}
	field := models.FieldDescriptor{Key: "a", Label: "A", Kind: models.InputText}

	tests := []struct {
		name     string
		subs     map[models.Category][]string
		schemas  map[models.Category]map[string][]models.FieldDescriptor
		fallback []models.FieldDescriptor
	}{
		{
			name:    "duplicate key",
			subs:    subs,
			schemas: map[models.Category]map[string][]models.FieldDescriptor{models.CategoryOther: {"General": {field, field}}},
		},
		{
			name:    "unknown pair",
			subs:    subs,
			schemas: map[models.Category]map[string][]models.FieldDescriptor{models.CategoryOther: {"Missing": {field}}},
		},
		{
			name: "select without options",
			subs: subs,
			schemas: map[models.Category]map[string][]models.FieldDescriptor{
				models.CategoryOther: {"General": {{Key: "s", Kind: models.InputSelect}}},
			},
		},
		{
			name:     "reserved key",
			subs:     subs,
			fallback: []models.FieldDescriptor{{Key: models.DetailsSubCategoryKey, Kind: models.InputText}},
		},
		{
			name: "category without sub-categories",
			subs: map[models.Category][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.NewRegistry(cats, tt.subs, tt.schemas, tt.fallback)

			assert.Error(t, err)
		})
	}
}
