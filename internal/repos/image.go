package repos

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/postforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/types"
)

type ImageRepo interface {
	Create(dbc dbctx.Context, img *types.GeneratedImage) (*types.GeneratedImage, error)
	GetByID(dbc dbctx.Context, imageID uuid.UUID) (*types.GeneratedImage, error)
	GetByProjectID(dbc dbctx.Context, projectID uuid.UUID) ([]*types.GeneratedImage, error)
	BelongsToProject(dbc dbctx.Context, imageID, projectID uuid.UUID) (bool, error)
	FullDeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error
}

type imageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImageRepo(db *gorm.DB, baseLog *logger.Logger) ImageRepo {
	return &imageRepo{db: db, log: baseLog.With("repo", "ImageRepo")}
}

func (r *imageRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *imageRepo) Create(dbc dbctx.Context, img *types.GeneratedImage) (*types.GeneratedImage, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	if err := r.tx(dbc).Create(img).Error; err != nil {
		return nil, err
	}
	return img, nil
}

func (r *imageRepo) GetByID(dbc dbctx.Context, imageID uuid.UUID) (*types.GeneratedImage, error) {
	var row types.GeneratedImage
	err := r.tx(dbc).Where("id = ?", imageID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: image %s", errdef.ErrNotFound, imageID)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *imageRepo) GetByProjectID(dbc dbctx.Context, projectID uuid.UUID) ([]*types.GeneratedImage, error) {
	var rows []*types.GeneratedImage
	if err := r.tx(dbc).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *imageRepo) BelongsToProject(dbc dbctx.Context, imageID, projectID uuid.UUID) (bool, error) {
	var count int64
	if err := r.tx(dbc).Model(&types.GeneratedImage{}).
		Where("id = ? AND project_id = ?", imageID, projectID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *imageRepo) FullDeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error {
	if len(projectIDs) == 0 {
		return nil
	}
	return r.tx(dbc).Unscoped().Where("project_id IN ?", projectIDs).Delete(&types.GeneratedImage{}).Error
}
