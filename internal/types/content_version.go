package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	EditedByUser      = "user"
	EditedByAssistant = "assistant"
)

// ContentVersion is an append-only audit record written once per successful
// edit to a scalar item. Together with the *_original snapshots it forms the
// revert chain.
type ContentVersion struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID    uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Project      *Project  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	ContentType  string    `gorm:"column:content_type;not null" json:"content_type"`
	ContentIndex int       `gorm:"column:content_index;not null" json:"content_index"`
	OldContent   string    `gorm:"column:old_content;type:text" json:"old_content"`
	NewContent   string    `gorm:"column:new_content;type:text" json:"new_content"`
	EditedBy     string    `gorm:"column:edited_by;not null" json:"edited_by"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ContentVersion) TableName() string { return "content_version" }
