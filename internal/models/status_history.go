package models

import (
	"time"

	"gorm.io/datatypes"
)

// GrievanceStatusHistory records one administrative status update.
type GrievanceStatusHistory struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	GrievanceID string            `gorm:"type:uuid;not null;index" json:"grievance_id"`
	OldStatus   Status            `gorm:"type:text;not null" json:"old_status"`
	NewStatus   Status            `gorm:"type:text;not null" json:"new_status"`
	ChangedBy   string            `gorm:"type:uuid;not null" json:"changed_by"`
	Comments    *string           `gorm:"type:text" json:"comments,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (GrievanceStatusHistory) TableName() string {
	return "grievance_status_history"
}
