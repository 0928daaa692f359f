package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CarouselOutput is the zero-or-one carousel state for a carousel-capable
// project. Slides are stored as a JSON array; Position mirrors array order
// and is rewritten on every mutation, never set independently.
type CarouselOutput struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID  uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex" json:"project_id"`
	Project    *Project          `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Slides     datatypes.JSON    `gorm:"column:slides;type:jsonb" json:"slides"`
	TemplateID *uuid.UUID        `gorm:"type:uuid;index" json:"template_id,omitempty"`
	Template   *CarouselTemplate `gorm:"constraint:OnDelete:SET NULL;foreignKey:TemplateID;references:ID" json:"template,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"deleted_at,omitempty"`
}

func (CarouselOutput) TableName() string { return "carousel_output" }

// Slide is the JSON element shape of CarouselOutput.Slides.
type Slide struct {
	ID           uuid.UUID  `json:"id"`
	Position     int        `json:"position"`
	Headline     string     `json:"headline"`
	Body         string     `json:"body,omitempty"`
	CTA          string     `json:"cta,omitempty"`
	ImageID      *uuid.UUID `json:"image_id,omitempty"`
	VisualPrompt string     `json:"visual_prompt,omitempty"`
}
