package models_test

import (
	"grievanceportal/backend/internal/models"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestGrievanceBeforeCreate_Defaults(t *testing.T) {
	g := &models.Grievance{Title: "Fan broken", Category: models.CategoryFacility}

	err := g.BeforeCreate(nil)

	assert.NoError(t, err)
	_, parseErr := uuid.Parse(g.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, models.StatusSubmitted, g.Status)
}

func TestGrievanceBeforeCreate_KeepsStatus(t *testing.T) {
	g := &models.Grievance{Status: models.StatusInProgress}

	_ = g.BeforeCreate(nil)

	assert.Equal(t, models.StatusInProgress, g.Status)
}

func TestGrievanceSubCategory(t *testing.T) {
	assert.Equal(t, "", (&models.Grievance{}).SubCategory())

	g := &models.Grievance{Details: datatypes.JSONMap{"subCategory": "WiFi", "building": "B"}}
	assert.Equal(t, "WiFi", g.SubCategory())
}

func TestFormatGrievanceCode(t *testing.T) {
	assert.Equal(t, "GRV-000001", models.FormatGrievanceCode(1))
	assert.Equal(t, "GRV-123456", models.FormatGrievanceCode(123456))
	assert.Equal(t, "GRV-1234567", models.FormatGrievanceCode(1234567))
}

func TestParseStatusAndCategory(t *testing.T) {
	st, ok := models.ParseStatus("In Progress")
	assert.True(t, ok)
	assert.Equal(t, models.StatusInProgress, st)

	_, ok = models.ParseStatus("InProgress")
	assert.False(t, ok)

	c, ok := models.ParseCategory("Placement")
	assert.True(t, ok)
	assert.Equal(t, models.CategoryPlacement, c)

	_, ok = models.ParseCategory("Sports")
	assert.False(t, ok)
}

func TestStatusIsResolved(t *testing.T) {
	assert.False(t, models.StatusSubmitted.IsResolved())
	assert.False(t, models.StatusInProgress.IsResolved())
	assert.True(t, models.StatusResolved.IsResolved())
	assert.True(t, models.StatusClosed.IsResolved())
}

func TestFieldDescriptorHasOption(t *testing.T) {
	f := models.FieldDescriptor{Key: "clashType", Kind: models.InputSelect, Options: []string{"Lecture", "Lab"}}

	assert.True(t, f.HasOption("Lab"))
	assert.False(t, f.HasOption("lab"))
}
