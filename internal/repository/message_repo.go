package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/woopit/woopit-server/internal/db"
)

// MessageRepository persists and lists woop chat messages.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Save stores one chat line.
func (r *MessageRepository) Save(ctx context.Context, msg *db.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListByWoop returns a woop's messages, oldest first.
func (r *MessageRepository) ListByWoop(ctx context.Context, woopID uint64) ([]db.Message, error) {
	var messages []db.Message
	err := r.db.WithContext(ctx).
		Where("woop_id = ?", woopID).
		Order("created_at asc, id asc").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
