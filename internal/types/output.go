package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Selection index sentinels. A non-negative value is an index into the
// content-type's items array.
const (
	// SelectionNone means no selection has been made yet.
	SelectionNone = -1
	// SelectionSkipped means the user explicitly skipped the section.
	// Accepted for the CTA section only.
	SelectionSkipped = -2
)

// Output holds every generated content array for a project. Array-valued
// fields are serialized JSON ([]string, or [{"description": ...}] for visual
// concepts). The *_original columns snapshot the first generation and are the
// revert targets; edits never touch them.
type Output struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"project_id"`
	Project   *Project  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`

	Hooks             datatypes.JSON `gorm:"column:hooks;type:jsonb" json:"hooks"`
	HooksOriginal     datatypes.JSON `gorm:"column:hooks_original;type:jsonb" json:"hooks_original"`
	SelectedHookIndex int            `gorm:"column:selected_hook_index;not null;default:-1" json:"selected_hook_index"`

	// Body is a single string, not an array. It is addressed as index 0 by
	// the content-type table.
	BodyContent         string `gorm:"column:body_content;type:text" json:"body_content"`
	BodyContentOriginal string `gorm:"column:body_content_original;type:text" json:"body_content_original"`

	Intros             datatypes.JSON `gorm:"column:intros;type:jsonb" json:"intros"`
	IntrosOriginal     datatypes.JSON `gorm:"column:intros_original;type:jsonb" json:"intros_original"`
	SelectedIntroIndex int            `gorm:"column:selected_intro_index;not null;default:-1" json:"selected_intro_index"`

	Titles             datatypes.JSON `gorm:"column:titles;type:jsonb" json:"titles"`
	TitlesOriginal     datatypes.JSON `gorm:"column:titles_original;type:jsonb" json:"titles_original"`
	SelectedTitleIndex int            `gorm:"column:selected_title_index;not null;default:-1" json:"selected_title_index"`

	CTAs             datatypes.JSON `gorm:"column:ctas;type:jsonb" json:"ctas"`
	CTAsOriginal     datatypes.JSON `gorm:"column:ctas_original;type:jsonb" json:"ctas_original"`
	SelectedCTAIndex int            `gorm:"column:selected_cta_index;not null;default:-1" json:"selected_cta_index"`

	VisualConcepts         datatypes.JSON `gorm:"column:visual_concepts;type:jsonb" json:"visual_concepts"`
	VisualConceptsOriginal datatypes.JSON `gorm:"column:visual_concepts_original;type:jsonb" json:"visual_concepts_original"`
	SelectedVisualIndex    int            `gorm:"column:selected_visual_index;not null;default:-1" json:"selected_visual_index"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Output) TableName() string { return "output" }

// VisualConcept is the JSON element shape of the visual_concepts columns.
type VisualConcept struct {
	Description string `json:"description"`
}
