package repos

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/postforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/types"
)

type TemplateRepo interface {
	Create(dbc dbctx.Context, template *types.CarouselTemplate, slides []*types.TemplateSlide) (*types.CarouselTemplate, error)
	GetByID(dbc dbctx.Context, templateID uuid.UUID) (*types.CarouselTemplate, error)
	GetByProjectID(dbc dbctx.Context, projectID uuid.UUID) (*types.CarouselTemplate, error)
	GetSlides(dbc dbctx.Context, templateID uuid.UUID) ([]*types.TemplateSlide, error)
	GetSlideByPosition(dbc dbctx.Context, templateID uuid.UUID, position int) (*types.TemplateSlide, error)
	UpdateSlideZones(dbc dbctx.Context, slideID uuid.UUID, zones datatypes.JSON) error
	FullDeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error
}

type templateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTemplateRepo(db *gorm.DB, baseLog *logger.Logger) TemplateRepo {
	return &templateRepo{db: db, log: baseLog.With("repo", "TemplateRepo")}
}

func (r *templateRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

// Create persists a template and its slides together. Runs in the caller's
// transaction when one is provided, otherwise opens its own.
func (r *templateRepo) Create(dbc dbctx.Context, template *types.CarouselTemplate, slides []*types.TemplateSlide) (*types.CarouselTemplate, error) {
	if template == nil {
		return nil, fmt.Errorf("nil template")
	}
	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	create := func(tx *gorm.DB) error {
		if err := tx.Create(template).Error; err != nil {
			return err
		}
		for _, s := range slides {
			if s.ID == uuid.Nil {
				s.ID = uuid.New()
			}
			s.TemplateID = template.ID
		}
		if len(slides) == 0 {
			return nil
		}
		return tx.Create(&slides).Error
	}
	if dbc.Tx != nil {
		if err := create(dbc.Tx.WithContext(dbc.Ctx)); err != nil {
			return nil, err
		}
		return template, nil
	}
	if err := r.db.WithContext(dbc.Ctx).Transaction(create); err != nil {
		return nil, err
	}
	return template, nil
}

func (r *templateRepo) GetByID(dbc dbctx.Context, templateID uuid.UUID) (*types.CarouselTemplate, error) {
	var row types.CarouselTemplate
	err := r.tx(dbc).Where("id = ?", templateID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: template %s", errdef.ErrNotFound, templateID)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *templateRepo) GetByProjectID(dbc dbctx.Context, projectID uuid.UUID) (*types.CarouselTemplate, error) {
	var row types.CarouselTemplate
	err := r.tx(dbc).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: template for project %s", errdef.ErrNotFound, projectID)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *templateRepo) GetSlides(dbc dbctx.Context, templateID uuid.UUID) ([]*types.TemplateSlide, error) {
	var rows []*types.TemplateSlide
	if err := r.tx(dbc).
		Where("template_id = ?", templateID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *templateRepo) GetSlideByPosition(dbc dbctx.Context, templateID uuid.UUID, position int) (*types.TemplateSlide, error) {
	var row types.TemplateSlide
	err := r.tx(dbc).
		Where("template_id = ? AND position = ?", templateID, position).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: template slide %d", errdef.ErrNotFound, position)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *templateRepo) UpdateSlideZones(dbc dbctx.Context, slideID uuid.UUID, zones datatypes.JSON) error {
	res := r.tx(dbc).Model(&types.TemplateSlide{}).Where("id = ?", slideID).Update("text_zones", zones)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: template slide %s", errdef.ErrNotFound, slideID)
	}
	return nil
}

func (r *templateRepo) FullDeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error {
	if len(projectIDs) == 0 {
		return nil
	}
	tx := r.tx(dbc)
	var templateIDs []uuid.UUID
	if err := tx.Model(&types.CarouselTemplate{}).
		Where("project_id IN ?", projectIDs).
		Pluck("id", &templateIDs).Error; err != nil {
		return err
	}
	if len(templateIDs) > 0 {
		if err := tx.Unscoped().Where("template_id IN ?", templateIDs).Delete(&types.TemplateSlide{}).Error; err != nil {
			return err
		}
	}
	return tx.Unscoped().Where("project_id IN ?", projectIDs).Delete(&types.CarouselTemplate{}).Error
}
