package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/postforge-backend/internal/types"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// Projects + generated content
		&types.Project{},
		&types.Output{},
		&types.ContentVersion{},

		// Carousel
		&types.CarouselOutput{},
		&types.CarouselTemplate{},
		&types.TemplateSlide{},

		// Images
		&types.GeneratedImage{},

		// Chat
		&types.ChatMessage{},
	)
}

func EnsureIndexes(db *gorm.DB) error {
	// Fast message pagination per project.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_chat_message_project_seq
		ON chat_message (project_id, seq);
	`).Error; err != nil {
		return fmt.Errorf("create idx_chat_message_project_seq: %w", err)
	}

	// Version history browsing per project and section.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_content_version_project_type
		ON content_version (project_id, content_type, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_content_version_project_type: %w", err)
	}

	// Image lineage walks.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_generated_image_parent
		ON generated_image (parent_image_id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_generated_image_parent: %w", err)
	}

	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating database tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if s.db.Dialector.Name() == "postgres" {
		if err := EnsureIndexes(s.db); err != nil {
			s.log.Error("Index migration failed", "error", err)
			return err
		}
	}
	return nil
}
