package dao

import (
	"context"
	"fmt"
	"time"

	"voxchat/voxchat/sources/psql/models"
	"voxchat/voxchat/utils/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageDAO struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewMessageDAO(db *gorm.DB) *MessageDAO {
	return &MessageDAO{DB: db, now: time.Now}
}

func (dao *MessageDAO) SaveMessage(ctx context.Context, userID uuid.UUID, role, content string) (*models.Message, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", errs.ErrValidation, role)
	}
	msg := models.Message{
		UserID:    userID,
		Role:      role,
		Content:   content,
		Timestamp: dao.now().UTC(),
	}
	if err := dao.DB.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("%w: save message: %v", errs.ErrStorage, err)
	}
	return &msg, nil
}

// GetMessagesByUser returns the whole history of userID, oldest first.
func (dao *MessageDAO) GetMessagesByUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	messages := []models.Message{}
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp asc").
		Order("id asc").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list messages: %v", errs.ErrStorage, err)
	}
	return messages, nil
}
