package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Category is the top-level grievance category.
type Category string

const (
	CategoryAcademic    Category = "Academic"
	CategoryFacility    Category = "Facility"
	CategoryExamination Category = "Examination"
	CategoryPlacement   Category = "Placement"
	CategoryOther       Category = "Other"
)

// AllCategories lists categories in display order.
var AllCategories = []Category{
	CategoryAcademic,
	CategoryFacility,
	CategoryExamination,
	CategoryPlacement,
	CategoryOther,
}

// ParseCategory returns the Category for s and whether it is known.
func ParseCategory(s string) (Category, bool) {
	for _, c := range AllCategories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Status is the triage state of a grievance.
type Status string

const (
	StatusSubmitted  Status = "Submitted"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
)

// AllStatuses lists statuses in workflow order.
var AllStatuses = []Status{
	StatusSubmitted,
	StatusInProgress,
	StatusResolved,
	StatusClosed,
}

// ParseStatus returns the Status for s and whether it is known.
func ParseStatus(s string) (Status, bool) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// IsResolved reports whether the grievance counts as resolved in analytics.
func (s Status) IsResolved() bool {
	return s == StatusResolved || s == StatusClosed
}

// Grievance is the persisted grievance record.
//
// The sub-category is not a column: it travels inside Details under
// the "subCategory" key.
type Grievance struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`
	// Code is the human-readable sequential identifier, e.g. GRV-000042.
	Code        string   `gorm:"column:grievance_id;uniqueIndex;not null" json:"grievance_id"`
	SubmittedBy string   `gorm:"type:uuid;not null;index" json:"submitted_by"`
	Submitter   *User    `gorm:"foreignKey:SubmittedBy" json:"submitter,omitempty"`
	Title       string   `gorm:"type:text;not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Category    Category `gorm:"type:text;not null;index" json:"category"`
	Status      Status   `gorm:"type:text;not null;default:'Submitted';index" json:"status"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AssignedTo         *string           `gorm:"type:uuid" json:"assigned_to,omitempty"`
	ResolutionComments *string           `gorm:"type:text" json:"resolution_comments,omitempty"`
	Details            datatypes.JSONMap `gorm:"type:jsonb" json:"details"`
}

// BeforeCreate generates a UUID and defaults the status to Submitted.
func (g *Grievance) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.Status == "" {
		g.Status = StatusSubmitted
	}
	return
}

// SubCategory returns the sub-category echoed inside Details.
func (g *Grievance) SubCategory() string {
	if g.Details == nil {
		return ""
	}
	s, _ := g.Details[DetailsSubCategoryKey].(string)
	return s
}

// DetailsSubCategoryKey is the Details key carrying the sub-category.
const DetailsSubCategoryKey = "subCategory"

// FormatGrievanceCode renders a sequence number as a grievance code.
func FormatGrievanceCode(seq int64) string {
	return fmt.Sprintf("GRV-%06d", seq)
}
