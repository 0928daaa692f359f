package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TemplateCanvasSize is the fixed coordinate space for template slides and
// their text zones.
const TemplateCanvasSize = 1080

type CarouselTemplate struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	Project    *Project       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Name       string         `gorm:"column:name;not null" json:"name"`
	SlideCount int            `gorm:"column:slide_count;not null;default:0" json:"slide_count"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CarouselTemplate) TableName() string { return "carousel_template" }

// TemplateSlide is one background page of an imported template. ImageData is
// the normalized square PNG; Placeholder marks pages imported from a PDF
// whose rasterization is deferred to the export collaborator.
type TemplateSlide struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TemplateID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"template_id"`
	Template    *CarouselTemplate `gorm:"constraint:OnDelete:CASCADE;foreignKey:TemplateID;references:ID" json:"template,omitempty"`
	Position    int               `gorm:"column:position;not null" json:"position"`
	ImageData   []byte            `gorm:"column:image_data;type:bytea" json:"-"`
	Placeholder bool              `gorm:"column:placeholder;not null;default:false" json:"placeholder"`
	TextZones   datatypes.JSON    `gorm:"column:text_zones;type:jsonb" json:"text_zones"`
	CreatedAt   time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:now()" json:"updated_at"`
}

func (TemplateSlide) TableName() string { return "template_slide" }

// TextZone is the JSON element shape of TemplateSlide.TextZones. Zones are
// descriptive metadata for export rendering in the 1080x1080 space. Multiple
// zones of the same type are allowed.
type TextZone struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"` // headline|body|cta
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	FontSize   float64 `json:"fontSize"`
	FontWeight string  `json:"fontWeight"`
	Color      string  `json:"color"`
	TextAlign  string  `json:"textAlign"`
}
