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

type OutputRepo interface {
	Create(dbc dbctx.Context, output *types.Output) (*types.Output, error)
	GetByProjectID(dbc dbctx.Context, projectID uuid.UUID) (*types.Output, error)
	Save(dbc dbctx.Context, output *types.Output) error
	FullDeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error
}

type outputRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOutputRepo(db *gorm.DB, baseLog *logger.Logger) OutputRepo {
	return &outputRepo{db: db, log: baseLog.With("repo", "OutputRepo")}
}

func (r *outputRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *outputRepo) Create(dbc dbctx.Context, output *types.Output) (*types.Output, error) {
	if output == nil {
		return nil, fmt.Errorf("nil output")
	}
	if output.ID == uuid.Nil {
		output.ID = uuid.New()
	}
	if err := r.tx(dbc).Create(output).Error; err != nil {
		return nil, err
	}
	return output, nil
}

func (r *outputRepo) GetByProjectID(dbc dbctx.Context, projectID uuid.UUID) (*types.Output, error) {
	var row types.Output
	err := r.tx(dbc).Where("project_id = ?", projectID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: output for project %s", errdef.ErrNotFound, projectID)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Save writes the whole row back. Last writer wins: there is no optimistic
// concurrency token, which is acceptable for a single interactive user per
// project.
func (r *outputRepo) Save(dbc dbctx.Context, output *types.Output) error {
	if output == nil || output.ID == uuid.Nil {
		return fmt.Errorf("output has no id")
	}
	return r.tx(dbc).Save(output).Error
}

func (r *outputRepo) FullDeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error {
	if len(projectIDs) == 0 {
		return nil
	}
	return r.tx(dbc).Unscoped().Where("project_id IN ?", projectIDs).Delete(&types.Output{}).Error
}
