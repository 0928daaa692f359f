package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlatformLinkedIn = "linkedin"
	PlatformYouTube  = "youtube"
	PlatformFacebook = "facebook"
)

const (
	ProjectStatusInProgress = "in_progress"
	ProjectStatusComplete   = "complete"
	ProjectStatusPublished  = "published"
)

type Project struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Platform    string         `gorm:"column:platform;not null;index" json:"platform"`
	CurrentStep string         `gorm:"column:current_step;not null" json:"current_step"`
	Status      string         `gorm:"column:status;not null;default:in_progress" json:"status"`
	Topic       string         `gorm:"column:topic" json:"topic"`
	Audience    string         `gorm:"column:audience" json:"audience"`
	Tone        string         `gorm:"column:tone" json:"tone"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Project) TableName() string { return "project" }
