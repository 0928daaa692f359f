package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GeneratedImage rows are append-only. ParentImageID links refinements and
// upscales to their source, forming a lineage DAG (a child is always created
// after its parent, so cycles cannot occur). BasePrompt holds the original
// description without refinement or upscale suffixes so chained operations
// compose against the base rather than against each other.
type GeneratedImage struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	Project       *Project        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Prompt        string          `gorm:"column:prompt;type:text;not null" json:"prompt"`
	BasePrompt    string          `gorm:"column:base_prompt;type:text" json:"base_prompt,omitempty"`
	ImageData     []byte          `gorm:"column:image_data;type:bytea" json:"-"`
	Width         int             `gorm:"column:width;not null;default:0" json:"width"`
	Height        int             `gorm:"column:height;not null;default:0" json:"height"`
	Model         string          `gorm:"column:model" json:"model"`
	AspectRatio   string          `gorm:"column:aspect_ratio" json:"aspect_ratio"`
	IsUpscaled    bool            `gorm:"column:is_upscaled;not null;default:false" json:"is_upscaled"`
	ThumbnailSlot *int            `gorm:"column:thumbnail_slot" json:"thumbnail_slot,omitempty"`
	ParentImageID *uuid.UUID      `gorm:"type:uuid;index" json:"parent_image_id,omitempty"`
	ParentImage   *GeneratedImage `gorm:"constraint:OnDelete:SET NULL;foreignKey:ParentImageID;references:ID" json:"parent_image,omitempty"`
	CreatedAt     time.Time       `gorm:"not null;default:now()" json:"created_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (GeneratedImage) TableName() string { return "generated_image" }
