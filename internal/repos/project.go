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

type ProjectRepo interface {
	Create(dbc dbctx.Context, project *types.Project) (*types.Project, error)
	GetByID(dbc dbctx.Context, projectID uuid.UUID) (*types.Project, error)
	List(dbc dbctx.Context, limit int) ([]*types.Project, error)
	UpdateFields(dbc dbctx.Context, projectID uuid.UUID, fields map[string]any) error
	FullDelete(dbc dbctx.Context, projectID uuid.UUID) error
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return &projectRepo{db: db, log: baseLog.With("repo", "ProjectRepo")}
}

func (r *projectRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *projectRepo) Create(dbc dbctx.Context, project *types.Project) (*types.Project, error) {
	if project == nil {
		return nil, fmt.Errorf("nil project")
	}
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if err := r.tx(dbc).Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

func (r *projectRepo) GetByID(dbc dbctx.Context, projectID uuid.UUID) (*types.Project, error) {
	var row types.Project
	err := r.tx(dbc).Where("id = ?", projectID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: project %s", errdef.ErrNotFound, projectID)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *projectRepo) List(dbc dbctx.Context, limit int) ([]*types.Project, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []*types.Project
	if err := r.tx(dbc).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *projectRepo) UpdateFields(dbc dbctx.Context, projectID uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.tx(dbc).Model(&types.Project{}).Where("id = ?", projectID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: project %s", errdef.ErrNotFound, projectID)
	}
	return nil
}

func (r *projectRepo) FullDelete(dbc dbctx.Context, projectID uuid.UUID) error {
	return r.tx(dbc).Unscoped().Where("id = ?", projectID).Delete(&types.Project{}).Error
}
