package implementation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"graphrag-chatbot-be/internal/model"
	"graphrag-chatbot-be/internal/repository/contract"
)

type ConversationRepositoryImpl struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) contract.ConversationRepository {
	return &ConversationRepositoryImpl{db: db}
}

func (r *ConversationRepositoryImpl) Append(ctx context.Context, message *model.ConversationMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *ConversationRepositoryImpl) FindBySession(ctx context.Context, sessionId string) ([]model.ConversationMessage, error) {
	var messages []model.ConversationMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *ConversationRepositoryImpl) UpdateQuality(ctx context.Context, messageId uuid.UUID, quality int) error {
	result := r.db.WithContext(ctx).
		Model(&model.ConversationMessage{}).
		Where("id = ?", messageId).
		Update("quality", quality)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ConversationRepositoryImpl) Analytics(ctx context.Context, since time.Time) (*contract.SessionAnalytics, error) {
	analytics := &contract.SessionAnalytics{}
	db := r.db.WithContext(ctx).Model(&model.ConversationMessage{}).Where("created_at >= ?", since)

	if err := db.Session(&gorm.Session{}).Count(&analytics.MessageCount).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Distinct("session_id").Count(&analytics.SessionCount).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("quality IS NOT NULL").Count(&analytics.RatedCount).Error; err != nil {
		return nil, err
	}
	if analytics.RatedCount > 0 {
		row := r.db.WithContext(ctx).Model(&model.ConversationMessage{}).
			Where("created_at >= ? AND quality IS NOT NULL", since).
			Select("AVG(quality)").Row()
		if err := row.Scan(&analytics.AvgQuality); err != nil {
			return nil, err
		}
	}
	return analytics, nil
}

func (r *ConversationRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.ConversationMessage{})
	return result.RowsAffected, result.Error
}
