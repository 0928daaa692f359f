package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/postforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/types"
)

type ContentVersionRepo interface {
	Create(dbc dbctx.Context, versions []*types.ContentVersion) ([]*types.ContentVersion, error)
	GetByProjectID(dbc dbctx.Context, projectID uuid.UUID, limit int) ([]*types.ContentVersion, error)
	GetByProjectAndType(dbc dbctx.Context, projectID uuid.UUID, contentType string) ([]*types.ContentVersion, error)
	FullDeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error
}

type contentVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentVersionRepo(db *gorm.DB, baseLog *logger.Logger) ContentVersionRepo {
	return &contentVersionRepo{db: db, log: baseLog.With("repo", "ContentVersionRepo")}
}

func (r *contentVersionRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *contentVersionRepo) Create(dbc dbctx.Context, versions []*types.ContentVersion) ([]*types.ContentVersion, error) {
	if len(versions) == 0 {
		return []*types.ContentVersion{}, nil
	}
	for _, v := range versions {
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
	}
	if err := r.tx(dbc).Create(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *contentVersionRepo) GetByProjectID(dbc dbctx.Context, projectID uuid.UUID, limit int) ([]*types.ContentVersion, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows []*types.ContentVersion
	if err := r.tx(dbc).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *contentVersionRepo) GetByProjectAndType(dbc dbctx.Context, projectID uuid.UUID, contentType string) ([]*types.ContentVersion, error) {
	var rows []*types.ContentVersion
	if err := r.tx(dbc).
		Where("project_id = ? AND content_type = ?", projectID, contentType).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *contentVersionRepo) FullDeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error {
	if len(projectIDs) == 0 {
		return nil
	}
	return r.tx(dbc).Unscoped().Where("project_id IN ?", projectIDs).Delete(&types.ContentVersion{}).Error
}
