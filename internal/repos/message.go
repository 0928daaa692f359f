package repos

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/postforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/types"
)

type MessageRepo interface {
	Create(dbc dbctx.Context, msg *types.ChatMessage) (*types.ChatMessage, error)
	GetByProjectID(dbc dbctx.Context, projectID uuid.UUID, limit int) ([]*types.ChatMessage, error)
	GetRecentByProjectID(dbc dbctx.Context, projectID uuid.UUID, limit int) ([]*types.ChatMessage, error)
	NextSeq(dbc dbctx.Context, projectID uuid.UUID) (int64, error)
	FullDeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: baseLog.With("repo", "MessageRepo")}
}

func (r *messageRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *messageRepo) Create(dbc dbctx.Context, msg *types.ChatMessage) (*types.ChatMessage, error) {
	if msg == nil {
		return nil, fmt.Errorf("nil message")
	}
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if err := r.tx(dbc).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// GetByProjectID returns messages in conversation order (ascending seq).
func (r *messageRepo) GetByProjectID(dbc dbctx.Context, projectID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	var rows []*types.ChatMessage
	if err := r.tx(dbc).
		Where("project_id = ?", projectID).
		Order("seq ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetRecentByProjectID returns the newest limit messages, still in
// conversation order. The window anchors on the highest seq so a long
// conversation never pushes its latest turns out of the result.
func (r *messageRepo) GetRecentByProjectID(dbc dbctx.Context, projectID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	var rows []*types.ChatMessage
	if err := r.tx(dbc).
		Where("project_id = ?", projectID).
		Order("seq DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

func (r *messageRepo) NextSeq(dbc dbctx.Context, projectID uuid.UUID) (int64, error) {
	var max *int64
	if err := r.tx(dbc).Model(&types.ChatMessage{}).
		Where("project_id = ?", projectID).
		Select("MAX(seq)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

func (r *messageRepo) FullDeleteByProjectIDs(dbc dbctx.Context, projectIDs []uuid.UUID) error {
	if len(projectIDs) == 0 {
		return nil
	}
	return r.tx(dbc).Unscoped().Where("project_id IN ?", projectIDs).Delete(&types.ChatMessage{}).Error
}
