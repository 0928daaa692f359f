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

type CarouselRepo interface {
	Create(dbc dbctx.Context, carousel *types.CarouselOutput) (*types.CarouselOutput, error)
	GetByProjectID(dbc dbctx.Context, projectID uuid.UUID) (*types.CarouselOutput, error)
	Save(dbc dbctx.Context, carousel *types.CarouselOutput) error
	FullDeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error
}

type carouselRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCarouselRepo(db *gorm.DB, baseLog *logger.Logger) CarouselRepo {
	return &carouselRepo{db: db, log: baseLog.With("repo", "CarouselRepo")}
}

func (r *carouselRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *carouselRepo) Create(dbc dbctx.Context, carousel *types.CarouselOutput) (*types.CarouselOutput, error) {
	if carousel == nil {
		return nil, fmt.Errorf("nil carousel")
	}
	if carousel.ID == uuid.Nil {
		carousel.ID = uuid.New()
	}
	if err := r.tx(dbc).Create(carousel).Error; err != nil {
		return nil, err
	}
	return carousel, nil
}

func (r *carouselRepo) GetByProjectID(dbc dbctx.Context, projectID uuid.UUID) (*types.CarouselOutput, error) {
	var row types.CarouselOutput
	err := r.tx(dbc).Where("project_id = ?", projectID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: carousel for project %s", errdef.ErrNotFound, projectID)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *carouselRepo) Save(dbc dbctx.Context, carousel *types.CarouselOutput) error {
	if carousel == nil || carousel.ID == uuid.Nil {
		return fmt.Errorf("carousel has no id")
	}
	return r.tx(dbc).Save(carousel).Error
}

func (r *carouselRepo) FullDeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error {
	if len(projectIDs) == 0 {
		return nil
	}
	return r.tx(dbc).Unscoped().Where("project_id IN ?", projectIDs).Delete(&types.CarouselOutput{}).Error
}
